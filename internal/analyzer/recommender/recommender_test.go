package recommender

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partscan/internal/analyzer/models"
)

func f(v float64) *float64 { return &v }
func s(v string) *string   { return &v }

func testCatalog() []models.Material {
	return []models.Material{
		{
			ID: 1, Name: "Steel-A", Category: "Steel", Density: 7.87, CostPerKg: 1.2,
			TensileStrength: f(440), YieldStrength: f(370), ElasticModulus: f(205),
			ThermalExpansion: f(11.5), CorrosionResistance: s("Low"),
		},
		{
			ID: 2, Name: "Steel-B", Category: "Steel", Density: 7.85, CostPerKg: 1.5,
			TensileStrength: f(450), YieldStrength: f(360), ElasticModulus: f(200),
			ThermalExpansion: f(12), CorrosionResistance: s("low"),
		},
		{
			ID: 3, Name: "Alu-6061", Category: "Aluminum", Density: 2.70, CostPerKg: 3.5,
			TensileStrength: f(310), YieldStrength: f(276), ElasticModulus: f(68.9),
			ThermalExpansion: f(23.6), CorrosionResistance: s("Good"),
		},
		{
			ID: 4, Name: "Ti-64", Category: "Titanium", Density: 4.43, CostPerKg: 35,
			TensileStrength: f(950), YieldStrength: f(880), ElasticModulus: f(113.8),
			ThermalExpansion: f(8.6), CorrosionResistance: s("Excellent"),
		},
	}
}

// ============================================================
// Score
// ============================================================

func TestScoreIdenticalIsCapped(t *testing.T) {
	m := models.Material{
		Category: "Steel", TensileStrength: f(440), YieldStrength: f(370), ElasticModulus: f(205),
		ThermalExpansion: f(11.5), ThermalConductivity: f(51.9), CorrosionResistance: s("Low"),
		Machinability: f(70), Weldability: f(90),
	}
	assert.Equal(t, 100.0, Score(m, m, Options{}))
}

func TestScorePartialIdentical(t *testing.T) {
	m := testCatalog()[0]

	// tensile, yield, modulus, expansion and corrosion: 40 of 56, plus the bonus.
	assert.InDelta(t, 100*40.0/56+CategoryBonus, Score(m, m, Options{}), 1e-9)
}

func TestScoreEqualValuesFullPropertyScore(t *testing.T) {
	a := models.Material{Category: "X", TensileStrength: f(500)}
	b := models.Material{Category: "Y", TensileStrength: f(500)}

	// Only tensile strength is present: 100 × 10 / 56.
	assert.InDelta(t, 100*10.0/56, Score(a, b, Options{}), 1e-9)
}

func TestScoreBothZero(t *testing.T) {
	a := models.Material{Category: "X", Machinability: f(0)}
	b := models.Material{Category: "Y", Machinability: f(0)}
	assert.InDelta(t, 100*6.0/56, Score(a, b, Options{}), 1e-9)
}

func TestScoreMissingPropertyExcluded(t *testing.T) {
	a := models.Material{Category: "X", TensileStrength: f(100), YieldStrength: f(50)}
	b := models.Material{Category: "Y", TensileStrength: f(100)}

	// Yield is absent on b and does not contribute.
	assert.InDelta(t, 100*10.0/56, Score(a, b, Options{}), 1e-9)
}

func TestScoreDiffClamped(t *testing.T) {
	a := models.Material{Category: "X", TensileStrength: f(-100)}
	b := models.Material{Category: "Y", TensileStrength: f(100)}
	assert.Equal(t, 0.0, Score(a, b, Options{}))
}

func TestScoreTextCaseInsensitive(t *testing.T) {
	a := models.Material{Category: "X", CorrosionResistance: s("Excellent")}
	b := models.Material{Category: "Y", CorrosionResistance: s("EXCELLENT")}
	c := models.Material{Category: "Y", CorrosionResistance: s("Poor")}

	assert.InDelta(t, 100*7.0/56, Score(a, b, Options{}), 1e-9)
	assert.Equal(t, 0.0, Score(a, c, Options{}))
}

func TestScoreCategoryBonus(t *testing.T) {
	a := models.Material{Category: "Steel"}
	b := models.Material{Category: "Steel"}
	assert.Equal(t, CategoryBonus, Score(a, b, Options{}))
}

func TestScoreRequiredBoost(t *testing.T) {
	a := models.Material{Category: "X", TensileStrength: f(500)}
	b := models.Material{Category: "Y", TensileStrength: f(500)}

	got := Score(a, b, Options{Required: []string{"Tensile_Strength", "unknown"}})
	assert.InDelta(t, 100*15.0/61, got, 1e-9)
}

func TestScoreBounds(t *testing.T) {
	catalog := testCatalog()
	for _, a := range catalog {
		for _, b := range catalog {
			score := Score(a, b, Options{})
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 100.0)
		}
	}
}

func TestIsScoredProperty(t *testing.T) {
	assert.True(t, IsScoredProperty(PropWeldability))
	assert.False(t, IsScoredProperty("density"))
}

// ============================================================
// FindAlternatives
// ============================================================

func TestFindAlternativesExcludesReference(t *testing.T) {
	results, err := FindAlternatives("Steel-A", testCatalog(), 1000, Options{})
	require.NoError(t, err)
	require.Len(t, results, 3)

	for _, r := range results {
		assert.NotEqual(t, "Steel-A", r.Material.Name)
	}
	assert.Equal(t, "Steel-B", results[0].Material.Name)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestFindAlternativesStableTies(t *testing.T) {
	catalog := []models.Material{
		{Name: "ref", Category: "A"},
		{Name: "first", Category: "B"},
		{Name: "second", Category: "B"},
		{Name: "third", Category: "B"},
	}

	results, err := FindAlternatives("ref", catalog, 1, Options{})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "first", results[0].Material.Name)
	assert.Equal(t, "second", results[1].Material.Name)
	assert.Equal(t, "third", results[2].Material.Name)
}

func TestFindAlternativesTopFive(t *testing.T) {
	catalog := []models.Material{{Name: "ref", Category: "A"}}
	for i := 0; i < 8; i++ {
		catalog = append(catalog, models.Material{Name: string(rune('a' + i)), Category: "A"})
	}

	results, err := FindAlternatives("ref", catalog, 10, Options{})
	require.NoError(t, err)
	assert.Len(t, results, MaxAlternatives)
}

func TestFindAlternativesUnknownReference(t *testing.T) {
	results, err := FindAlternatives("Unobtainium", testCatalog(), 1000, Options{})
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestFindAlternativesInvalidVolume(t *testing.T) {
	for _, v := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		_, err := FindAlternatives("Steel-A", testCatalog(), v, Options{})
		assert.ErrorIs(t, err, ErrInvalidVolume)
	}
}

func TestFindAlternativesAttachesComparison(t *testing.T) {
	results, err := FindAlternatives("Steel-A", testCatalog(), 1_000_000, Options{})
	require.NoError(t, err)
	require.NotEmpty(t, results)

	top := results[0]
	assert.InDelta(t, 7.87, top.Comparison.Weight.Original, 1e-9)
	assert.InDelta(t, 7.85, top.Comparison.Weight.Alternative, 1e-9)
	require.NotNil(t, top.Comparison.TensileStrength)
	assert.InDelta(t, 10, top.Comparison.TensileStrength.Difference, 1e-9)
}

// ============================================================
// Compare / Delta
// ============================================================

func TestNewDelta(t *testing.T) {
	d := NewDelta(200, 150)
	assert.Equal(t, -50.0, d.Difference)
	assert.Equal(t, -25.0, d.PercentChange)
}

func TestNewDeltaZeroOriginal(t *testing.T) {
	d := NewDelta(0, 5)
	assert.Equal(t, 5.0, d.Difference)
	assert.Equal(t, 0.0, d.PercentChange)
}

func TestCompareMechanicalRequiresBothSides(t *testing.T) {
	a := models.Material{Density: 1, TensileStrength: f(100)}
	b := models.Material{Density: 1}

	cmp, err := Compare(a, b, 1000)
	require.NoError(t, err)
	assert.Nil(t, cmp.TensileStrength)
	assert.Nil(t, cmp.YieldStrength)
}

func TestCompareInvalidVolume(t *testing.T) {
	_, err := Compare(models.Material{}, models.Material{}, 0)
	assert.ErrorIs(t, err, ErrInvalidVolume)
}

// ============================================================
// Estimate
// ============================================================

func TestEstimateKnownMaterial(t *testing.T) {
	est, err := Estimate(testCatalog(), "Steel-A", 1_000_000)
	require.NoError(t, err)

	assert.True(t, est.Known)
	assert.InDelta(t, 7.87, est.Weight, 1e-9)
	assert.InDelta(t, 9.444, est.Cost, 1e-9)
}

func TestEstimateUnknownMaterialUsesDefaults(t *testing.T) {
	est, err := Estimate(testCatalog(), "Mystery", 1_000_000)
	require.NoError(t, err)

	assert.False(t, est.Known)
	assert.InDelta(t, DefaultDensity, est.Weight, 1e-9)
	assert.InDelta(t, DefaultDensity*DefaultCostPerKg, est.Cost, 1e-9)
}

func TestEstimateRejectsZeroVolume(t *testing.T) {
	_, err := Estimate(testCatalog(), "Steel-A", 0)
	assert.ErrorIs(t, err, ErrInvalidVolume)
}

func TestEstimateAll(t *testing.T) {
	out, err := EstimateAll(testCatalog(), []string{"Alu-6061", "Steel-A"}, 1_000_000)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Alu-6061", out[0].Material)
	assert.InDelta(t, 2.70, out[0].Weight, 1e-9)

	_, err = EstimateAll(testCatalog(), []string{"Steel-A"}, -1)
	assert.ErrorIs(t, err, ErrInvalidVolume)
}

// ============================================================
// Compatibility
// ============================================================

func TestCompatibilityGalvanic(t *testing.T) {
	catalog := testCatalog()

	res := CheckCompatibility(catalog[2], catalog[3]) // aluminum vs titanium
	assert.False(t, res.Compatible)
	require.NotNil(t, res.GalvanicDifference)
	assert.Equal(t, 4, *res.GalvanicDifference)
}

func TestCompatibilityThermal(t *testing.T) {
	a := models.Material{Category: "Polymer", ThermalExpansion: f(80)}
	b := models.Material{Category: "Polymer", ThermalExpansion: f(60)}

	res := CheckCompatibility(a, b)
	assert.False(t, res.Compatible)
	require.NotNil(t, res.ThermalDifference)
	assert.InDelta(t, 20, *res.ThermalDifference, 1e-9)
}

func TestCompatibilitySameFamily(t *testing.T) {
	catalog := testCatalog()

	res := CheckCompatibility(catalog[0], catalog[1])
	assert.True(t, res.Compatible)
	assert.NotEmpty(t, res.Notes)
}
