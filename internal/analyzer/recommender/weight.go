package recommender

import "partscan/internal/analyzer/models"

// Applied when a material name is not in the catalog.
const (
	DefaultDensity   = 7.85 // g/cm³, steel
	DefaultCostPerKg = 2.0
)

// Estimate returns weight (kg) and cost of a part of volume mm³ made of the
// named material. Unknown names fall back to DefaultDensity/DefaultCostPerKg.
func Estimate(catalog []models.Material, name string, volume float64) (models.Estimate, error) {
	if err := ValidateVolume(volume); err != nil {
		return models.Estimate{}, err
	}

	density, costPerKg, known := DefaultDensity, DefaultCostPerKg, false
	if i := IndexOf(catalog, name); i >= 0 {
		density, costPerKg, known = catalog[i].Density, catalog[i].CostPerKg, true
	}

	weight := WeightKg(density, volume)
	return models.Estimate{
		Material: name,
		Volume:   volume,
		Weight:   weight,
		Cost:     weight * costPerKg,
		Known:    known,
	}, nil
}

// EstimateAll runs Estimate for every name, preserving order.
func EstimateAll(catalog []models.Material, names []string, volume float64) ([]models.Estimate, error) {
	out := make([]models.Estimate, 0, len(names))
	for _, name := range names {
		est, err := Estimate(catalog, name, volume)
		if err != nil {
			return nil, err
		}
		out = append(out, est)
	}
	return out, nil
}
