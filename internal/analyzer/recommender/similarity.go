package recommender

import (
	"math"
	"sort"
	"strings"

	"partscan/internal/analyzer/models"
)

// ============================================================
// Scoring table
// ============================================================

const (
	// MaxAlternatives is how many ranked candidates are returned.
	MaxAlternatives = 5
	// CategoryBonus is added when both materials share a category.
	CategoryBonus = 10.0
	// RequiredBoost is added to the weight of each caller-required property.
	RequiredBoost = 5.0
	maxScore      = 100.0
)

const (
	PropTensileStrength     = "tensile_strength"
	PropYieldStrength       = "yield_strength"
	PropElasticModulus      = "elastic_modulus"
	PropThermalExpansion    = "thermal_expansion"
	PropThermalConductivity = "thermal_conductivity"
	PropCorrosionResistance = "corrosion_resistance"
	PropMachinability       = "machinability"
	PropWeldability         = "weldability"
)

type weightedProperty struct {
	key    string
	weight float64
}

// propertyWeights sums to 56.
var propertyWeights = [...]weightedProperty{
	{PropTensileStrength, 10},
	{PropYieldStrength, 10},
	{PropElasticModulus, 8},
	{PropThermalExpansion, 5},
	{PropThermalConductivity, 5},
	{PropCorrosionResistance, 7},
	{PropMachinability, 6},
	{PropWeldability, 5},
}

// IsScoredProperty reports whether key takes part in similarity scoring.
func IsScoredProperty(key string) bool {
	for _, p := range propertyWeights {
		if p.key == key {
			return true
		}
	}
	return false
}

// Options tune a single scoring run.
type Options struct {
	// Required property keys get RequiredBoost extra weight.
	Required []string
}

func (o Options) weights() ([len(propertyWeights)]weightedProperty, float64) {
	table := propertyWeights
	for i := range table {
		for _, req := range o.Required {
			if strings.EqualFold(strings.TrimSpace(req), table[i].key) {
				table[i].weight += RequiredBoost
				break
			}
		}
	}

	var total float64
	for _, p := range table {
		total += p.weight
	}
	return table, total
}

// ============================================================
// Property values
// ============================================================

type propertyValue struct {
	number float64
	text   string
	isText bool
}

// property returns the value of key on m; false when the property is absent.
func property(m models.Material, key string) (propertyValue, bool) {
	num := func(p *float64) (propertyValue, bool) {
		if p == nil {
			return propertyValue{}, false
		}
		return propertyValue{number: *p}, true
	}

	switch key {
	case PropTensileStrength:
		return num(m.TensileStrength)
	case PropYieldStrength:
		return num(m.YieldStrength)
	case PropElasticModulus:
		return num(m.ElasticModulus)
	case PropThermalExpansion:
		return num(m.ThermalExpansion)
	case PropThermalConductivity:
		return num(m.ThermalConductivity)
	case PropMachinability:
		return num(m.Machinability)
	case PropWeldability:
		return num(m.Weldability)
	case PropCorrosionResistance:
		if m.CorrosionResistance == nil {
			return propertyValue{}, false
		}
		return propertyValue{text: *m.CorrosionResistance, isText: true}, true
	}
	return propertyValue{}, false
}

// propertyScore is the 0..100 closeness of two values of one property.
func propertyScore(a, b propertyValue) (float64, bool) {
	switch {
	case a.isText && b.isText:
		if strings.EqualFold(a.text, b.text) {
			return 100, true
		}
		return 0, true
	case !a.isText && !b.isText:
		maxVal := math.Max(math.Abs(a.number), math.Abs(b.number))
		if maxVal == 0 {
			return 100, true
		}
		diff := math.Abs(a.number-b.number) / maxVal
		return (1 - math.Min(diff, 1)) * 100, true
	}
	return 0, false
}

// ============================================================
// Score
// ============================================================

// Score rates how closely candidate matches original, in [0, 100].
// Properties missing on either side contribute nothing.
func Score(original, candidate models.Material, opts Options) float64 {
	table, total := opts.weights()

	var score float64
	for _, p := range table {
		a, okA := property(original, p.key)
		b, okB := property(candidate, p.key)
		if !okA || !okB {
			continue
		}
		ps, ok := propertyScore(a, b)
		if !ok {
			continue
		}
		score += ps * p.weight / total
	}

	if original.Category == candidate.Category {
		score += CategoryBonus
	}

	return math.Min(score, maxScore)
}

// ============================================================
// Ranking
// ============================================================

// FindAlternatives ranks the catalog against the material named reference
// and returns at most MaxAlternatives results, best first. Equal scores keep
// catalog order. An unknown reference yields an empty result, not an error.
func FindAlternatives(reference string, catalog []models.Material, volume float64, opts Options) ([]models.SimilarityResult, error) {
	if err := ValidateVolume(volume); err != nil {
		return nil, err
	}

	refIdx := IndexOf(catalog, reference)
	if refIdx < 0 {
		return []models.SimilarityResult{}, nil
	}
	original := catalog[refIdx]

	results := make([]models.SimilarityResult, 0, len(catalog))
	for i, candidate := range catalog {
		if i == refIdx || (original.ID != 0 && candidate.ID == original.ID) {
			continue
		}
		results = append(results, models.SimilarityResult{
			Material: candidate,
			Score:    Score(original, candidate, opts),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > MaxAlternatives {
		results = results[:MaxAlternatives]
	}

	for i := range results {
		cmp, err := Compare(original, results[i].Material, volume)
		if err != nil {
			return nil, err
		}
		results[i].Comparison = cmp
	}

	return results, nil
}

// IndexOf returns the position of the material with exactly this name, or -1.
func IndexOf(catalog []models.Material, name string) int {
	for i, m := range catalog {
		if m.Name == name {
			return i
		}
	}
	return -1
}
