package recommender

import (
	"errors"
	"fmt"
	"math"

	"partscan/internal/analyzer/models"
)

var ErrInvalidVolume = errors.New("invalid volume")

// mm3PerCm3ByGramsPerKg converts mm³ × g/cm³ into kg.
const mm3PerCm3ByGramsPerKg = 1_000_000.0

// ValidateVolume rejects zero, negative and non-finite volumes.
func ValidateVolume(volume float64) error {
	if math.IsNaN(volume) || math.IsInf(volume, 0) || volume <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidVolume, volume)
	}
	return nil
}

// NewDelta builds a Delta; PercentChange is 0 when original is 0.
func NewDelta(original, alternative float64) models.Delta {
	diff := alternative - original
	var pct float64
	if original != 0 {
		pct = diff / original * 100
	}
	return models.Delta{
		Original:      original,
		Alternative:   alternative,
		Difference:    diff,
		PercentChange: pct,
	}
}

// WeightKg is the mass of volume mm³ at density g/cm³.
func WeightKg(density, volume float64) float64 {
	return density * volume / mm3PerCm3ByGramsPerKg
}

// Compare computes weight, cost and mechanical deltas of switching from
// original to candidate for a part of the given volume (mm³).
func Compare(original, candidate models.Material, volume float64) (models.Comparison, error) {
	if err := ValidateVolume(volume); err != nil {
		return models.Comparison{}, err
	}

	origWeight := WeightKg(original.Density, volume)
	altWeight := WeightKg(candidate.Density, volume)

	cmp := models.Comparison{
		Weight: NewDelta(origWeight, altWeight),
		Cost:   NewDelta(original.CostPerKg*origWeight, candidate.CostPerKg*altWeight),
	}

	cmp.TensileStrength = mechanicalDelta(original.TensileStrength, candidate.TensileStrength)
	cmp.YieldStrength = mechanicalDelta(original.YieldStrength, candidate.YieldStrength)
	cmp.ElasticModulus = mechanicalDelta(original.ElasticModulus, candidate.ElasticModulus)

	return cmp, nil
}

func mechanicalDelta(a, b *float64) *models.Delta {
	if a == nil || b == nil {
		return nil
	}
	d := NewDelta(*a, *b)
	return &d
}
