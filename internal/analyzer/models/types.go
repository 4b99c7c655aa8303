package models

// ============================================================
// Geometry primitives
// ============================================================

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Dimensions are canonical: Length >= Width >= Height.
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Volume is the bounding-box volume, not the solid volume.
func (d Dimensions) Volume() float64 {
	return d.Length * d.Width * d.Height
}

// DimensionSource tells how Dimensions were obtained.
type DimensionSource string

const (
	SourceBoundingBox DimensionSource = "bounding_box"
	SourceAnnular     DimensionSource = "annular"
	SourceFallback    DimensionSource = "fallback"
	SourcePlaceholder DimensionSource = "placeholder"
)

// ============================================================
// Extracted geometry
// ============================================================

type Geometry struct {
	Format           string          `json:"format"`
	ProductName      string          `json:"product_name,omitempty"`
	MaterialHint     string          `json:"material_hint,omitempty"`
	InferredMaterial string          `json:"inferred_material"`
	Dimensions       Dimensions      `json:"dimensions"`
	DimensionSource  DimensionSource `json:"dimension_source"`
	Volume           float64         `json:"volume"`
	Annotations      []string        `json:"annotations"`
	Tolerances       []string        `json:"tolerances"`
	CircleRadii      []float64       `json:"circle_radii"`
	PointCount       int             `json:"point_count"`
	PreviewPoints    []Point         `json:"preview_points,omitempty"`
}

// Material returns the explicit hint when present, else the inferred name.
func (g *Geometry) Material() string {
	if g.MaterialHint != "" {
		return g.MaterialHint
	}
	return g.InferredMaterial
}

// ============================================================
// Material catalog
// ============================================================

// Material is a catalog entry. Nil optional properties are absent, not zero.
type Material struct {
	ID                    int64    `json:"id" yaml:"id,omitempty"`
	Name                  string   `json:"name" yaml:"name"`
	Category              string   `json:"category" yaml:"category"`
	Density               float64  `json:"density" yaml:"density"`
	CostPerKg             float64  `json:"cost_per_kg" yaml:"cost_per_kg"`
	TensileStrength       *float64 `json:"tensile_strength" yaml:"tensile_strength,omitempty"`
	YieldStrength         *float64 `json:"yield_strength" yaml:"yield_strength,omitempty"`
	ElasticModulus        *float64 `json:"elastic_modulus" yaml:"elastic_modulus,omitempty"`
	ThermalExpansion      *float64 `json:"thermal_expansion" yaml:"thermal_expansion,omitempty"`
	ThermalConductivity   *float64 `json:"thermal_conductivity" yaml:"thermal_conductivity,omitempty"`
	ElectricalResistivity *float64 `json:"electrical_resistivity" yaml:"electrical_resistivity,omitempty"`
	CorrosionResistance   *string  `json:"corrosion_resistance" yaml:"corrosion_resistance,omitempty"`
	Machinability         *float64 `json:"machinability" yaml:"machinability,omitempty"`
	Weldability           *float64 `json:"weldability" yaml:"weldability,omitempty"`
	CommonUses            *string  `json:"common_uses" yaml:"common_uses,omitempty"`
}

// ============================================================
// Recommendation results
// ============================================================

type Delta struct {
	Original      float64 `json:"original"`
	Alternative   float64 `json:"alternative"`
	Difference    float64 `json:"difference"`
	PercentChange float64 `json:"percent_change"`
}

type Comparison struct {
	Weight          Delta  `json:"weight"`
	Cost            Delta  `json:"cost"`
	TensileStrength *Delta `json:"tensile_strength,omitempty"`
	YieldStrength   *Delta `json:"yield_strength,omitempty"`
	ElasticModulus  *Delta `json:"elastic_modulus,omitempty"`
}

type SimilarityResult struct {
	Material   Material   `json:"material"`
	Score      float64    `json:"score"`
	Comparison Comparison `json:"comparison"`
}

type Estimate struct {
	Material string  `json:"material"`
	Volume   float64 `json:"volume"`
	Weight   float64 `json:"weight"`
	Cost     float64 `json:"cost"`
	Known    bool    `json:"known"`
}

type Compatibility struct {
	Compatible         bool     `json:"compatible"`
	Reason             string   `json:"reason,omitempty"`
	Notes              string   `json:"notes,omitempty"`
	GalvanicDifference *int     `json:"galvanic_difference,omitempty"`
	ThermalDifference  *float64 `json:"thermal_difference,omitempty"`
}
