package recommender

import (
	"math"
	"strings"

	"partscan/internal/analyzer/models"
)

// galvanicSeries orders metal families from anodic to cathodic.
var galvanicSeries = []struct {
	metal    string
	position int
}{
	{"magnesium", 1},
	{"aluminum", 2},
	{"steel", 3},
	{"iron", 3},
	{"nickel", 4},
	{"copper", 5},
	{"titanium", 6},
}

const (
	galvanicLimit = 2
	thermalLimit  = 10.0
)

func galvanicPosition(category string) (int, bool) {
	category = strings.ToLower(category)
	pos, found := 0, false
	for _, g := range galvanicSeries {
		if strings.Contains(category, g.metal) {
			pos, found = g.position, true
		}
	}
	return pos, found
}

// CheckCompatibility reports whether two materials can be joined.
// Galvanic distance is checked first, then thermal expansion mismatch.
func CheckCompatibility(a, b models.Material) models.Compatibility {
	posA, okA := galvanicPosition(a.Category)
	posB, okB := galvanicPosition(b.Category)
	if okA && okB {
		diff := posA - posB
		if diff < 0 {
			diff = -diff
		}
		if diff >= galvanicLimit {
			return models.Compatibility{
				Compatible:         false,
				Reason:             "Potential galvanic corrosion risk",
				GalvanicDifference: &diff,
			}
		}
	}

	if a.ThermalExpansion != nil && b.ThermalExpansion != nil {
		diff := math.Abs(*a.ThermalExpansion - *b.ThermalExpansion)
		if diff > thermalLimit {
			return models.Compatibility{
				Compatible:        false,
				Reason:            "Large difference in thermal expansion coefficients",
				ThermalDifference: &diff,
			}
		}
	}

	return models.Compatibility{
		Compatible: true,
		Notes:      "Materials appear compatible for most applications",
	}
}
