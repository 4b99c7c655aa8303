package repository

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"partscan/internal/analyzer/models"
)

// ============================================================
// Seeding & Import
// ============================================================

type defaultRow struct {
	name, category                                  string
	density, cost                                   float64
	tensile, yield, modulus, expansion, conductance float64
	resistivity                                     float64
	corrosion                                       string
	machinability, weldability                      float64
	uses                                            string
}

var defaultMaterials = []defaultRow{
	{"AISI 1018 Steel", "Steel", 7.87, 1.2, 440, 370, 205, 11.5, 51.9, 15.9, "Low", 70, 90, "General purpose, shafts, pins"},
	{"AISI 304 Stainless Steel", "Steel", 8.0, 4.5, 515, 205, 193, 17.2, 16.2, 72.0, "High", 45, 70, "Food equipment, chemical containers"},
	{"AISI 4140 Steel", "Steel", 7.85, 1.8, 655, 415, 210, 12.3, 42.6, 22.0, "Medium", 55, 65, "Gears, axles, shafts"},
	{"Tool Steel A2", "Steel", 7.86, 8.0, 1620, 1520, 203, 10.8, 24.0, 65.0, "Medium", 30, 20, "Cutting tools, dies"},
	{"Aluminum 6061-T6", "Aluminum", 2.7, 3.5, 310, 276, 68.9, 23.6, 167, 3.7, "Medium", 85, 50, "Structural components, frames"},
	{"Aluminum 7075-T6", "Aluminum", 2.81, 5.2, 572, 503, 71.7, 23.4, 130, 5.2, "Medium", 70, 30, "Aircraft components, high-stress parts"},
	{"Aluminum 1100-H14", "Aluminum", 2.71, 3.0, 110, 103, 68.9, 23.6, 222, 2.9, "High", 95, 90, "Chemical equipment, heat exchangers"},
	{"Brass C360", "Copper", 8.5, 7.0, 385, 310, 97, 20.5, 115, 6.6, "Medium", 90, 60, "Plumbing, decorative hardware"},
	{"Bronze C932", "Copper", 7.6, 9.0, 310, 152, 103, 18.0, 45, 13.0, "High", 75, 40, "Bearings, bushings, gears"},
	{"Copper C11000", "Copper", 8.94, 8.5, 220, 69, 117, 17.0, 391, 1.7, "High", 85, 80, "Electrical components, heat exchangers"},
	{"ABS", "Plastic", 1.05, 2.8, 40, 40, 2.3, 90.0, 0.17, 1e15, "High", 90, 0, "Consumer products, automotive components"},
	{"Polycarbonate", "Plastic", 1.2, 4.5, 65, 62, 2.4, 65.0, 0.21, 1e16, "High", 85, 0, "Safety equipment, electronic housings"},
	{"Nylon 6/6", "Plastic", 1.14, 3.8, 82, 82, 2.9, 80.0, 0.25, 1e14, "High", 80, 0, "Gears, bearings, wear components"},
	{"PEEK", "Plastic", 1.32, 90.0, 100, 97, 3.6, 47.0, 0.25, 1e16, "Very High", 70, 0, "High-performance components, aerospace"},
	{"Ti-6Al-4V", "Titanium", 4.43, 35.0, 950, 880, 113.8, 8.6, 6.7, 170.0, "Very High", 30, 40, "Aerospace, medical implants"},
	{"AZ31B Magnesium", "Magnesium", 1.77, 6.0, 260, 200, 45, 26.0, 96, 9.2, "Low", 70, 50, "Lightweight components, electronics"},
	{"Carbon Fiber Composite", "Composite", 1.6, 50.0, 600, 570, 70, 2.0, 5.0, 1e13, "Very High", 20, 0, "Aerospace, high-performance components"},
}

// DefaultMaterials returns the built-in catalog.
func DefaultMaterials() []models.Material {
	out := make([]models.Material, 0, len(defaultMaterials))
	for _, d := range defaultMaterials {
		out = append(out, models.Material{
			Name:                  d.name,
			Category:              d.category,
			Density:               d.density,
			CostPerKg:             d.cost,
			TensileStrength:       &d.tensile,
			YieldStrength:         &d.yield,
			ElasticModulus:        &d.modulus,
			ThermalExpansion:      &d.expansion,
			ThermalConductivity:   &d.conductance,
			ElectricalResistivity: &d.resistivity,
			CorrosionResistance:   &d.corrosion,
			Machinability:         &d.machinability,
			Weldability:           &d.weldability,
			CommonUses:            &d.uses,
		})
	}
	return out
}

func (r *Repository) ensureDefaults(ctx context.Context) error {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM materials`).Scan(&count); err != nil {
		return fmt.Errorf("count materials: %w", err)
	}
	if count > 0 {
		return nil
	}

	if _, err := r.upsertAll(ctx, DefaultMaterials()); err != nil {
		return fmt.Errorf("seed defaults: %w", err)
	}
	return nil
}

type catalogFile struct {
	Materials []models.Material `yaml:"materials"`
}

// ImportYAML validates a `materials:` YAML document against the catalog
// schema and upserts every entry, returning how many were written. Nothing
// is written if any entry is invalid.
func (r *Repository) ImportYAML(ctx context.Context, src io.Reader) (int, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return 0, fmt.Errorf("read catalog: %w", err)
	}
	if err := validateCatalog(data); err != nil {
		return 0, err
	}

	var doc catalogFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return 0, fmt.Errorf("decode catalog: %w", err)
	}
	if len(doc.Materials) == 0 {
		return 0, nil
	}
	return r.upsertAll(ctx, doc.Materials)
}

// ExportYAML writes the whole catalog in the format ImportYAML accepts.
// IDs are omitted so the file can seed another database.
func (r *Repository) ExportYAML(ctx context.Context, dst io.Writer) (int, error) {
	materials, err := r.All(ctx)
	if err != nil {
		return 0, err
	}
	for i := range materials {
		materials[i].ID = 0
	}

	enc := yaml.NewEncoder(dst)
	enc.SetIndent(2)
	if err := enc.Encode(catalogFile{Materials: materials}); err != nil {
		return 0, fmt.Errorf("encode catalog: %w", err)
	}
	if err := enc.Close(); err != nil {
		return 0, fmt.Errorf("encode catalog: %w", err)
	}
	return len(materials), nil
}

func (r *Repository) upsertAll(ctx context.Context, materials []models.Material) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	for _, m := range materials {
		if _, err := upsert(ctx, tx, m); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(materials), nil
}
