package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"partscan/internal/analyzer/models"
)

var (
	ErrNotFound        = errors.New("material not found")
	ErrInvalidMaterial = errors.New("invalid material")
)

//go:embed schema.sql
var schemaSQL string

// ============================================================
// SQLite Repository
// ============================================================

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init applies the schema and seeds the default catalog into an empty table.
func (r *Repository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return r.ensureDefaults(ctx)
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

const materialColumns = `id, name, category, density, cost_per_kg, tensile_strength, yield_strength,
        elastic_modulus, thermal_expansion, thermal_conductivity, electrical_resistivity,
        corrosion_resistance, machinability, weldability, common_uses`

// All returns the whole catalog in insertion order.
func (r *Repository) All(ctx context.Context) ([]models.Material, error) {
	return r.query(ctx, `SELECT `+materialColumns+` FROM materials ORDER BY id`)
}

func (r *Repository) GetByName(ctx context.Context, name string) (*models.Material, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+materialColumns+` FROM materials WHERE name = ?`, name)
	return scanOne(row)
}

// Resolve finds a material by exact name, then by case-insensitive substring.
func (r *Repository) Resolve(ctx context.Context, name string) (*models.Material, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNotFound
	}

	m, err := r.GetByName(ctx, name)
	if err == nil || !errors.Is(err, ErrNotFound) {
		return m, err
	}

	row := r.db.QueryRowContext(ctx, `
        SELECT `+materialColumns+`
        FROM materials
        WHERE name LIKE ? ESCAPE '\'
        ORDER BY id
        LIMIT 1
    `, likePattern(name))
	return scanOne(row)
}

func (r *Repository) ByCategory(ctx context.Context, category string) ([]models.Material, error) {
	return r.query(ctx, `SELECT `+materialColumns+` FROM materials WHERE category = ? ORDER BY id`, category)
}

// Search matches the query against name or category.
func (r *Repository) Search(ctx context.Context, query string) ([]models.Material, error) {
	pattern := likePattern(strings.TrimSpace(query))
	return r.query(ctx, `
        SELECT `+materialColumns+`
        FROM materials
        WHERE name LIKE ? ESCAPE '\' OR category LIKE ? ESCAPE '\'
        ORDER BY id
    `, pattern, pattern)
}

// Upsert inserts m or updates the entry with the same name, returning its ID.
func (r *Repository) Upsert(ctx context.Context, m models.Material) (int64, error) {
	return upsert(ctx, r.db, m)
}

// Delete removes the material with exactly this name.
func (r *Repository) Delete(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM materials WHERE name = ?`, name)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func upsert(ctx context.Context, q queryRower, m models.Material) (int64, error) {
	if err := validate(m); err != nil {
		return 0, err
	}

	var id int64
	err := q.QueryRowContext(ctx, `
        INSERT INTO materials (
            name, category, density, cost_per_kg, tensile_strength, yield_strength,
            elastic_modulus, thermal_expansion, thermal_conductivity, electrical_resistivity,
            corrosion_resistance, machinability, weldability, common_uses
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (name) DO UPDATE SET
            category = excluded.category,
            density = excluded.density,
            cost_per_kg = excluded.cost_per_kg,
            tensile_strength = excluded.tensile_strength,
            yield_strength = excluded.yield_strength,
            elastic_modulus = excluded.elastic_modulus,
            thermal_expansion = excluded.thermal_expansion,
            thermal_conductivity = excluded.thermal_conductivity,
            electrical_resistivity = excluded.electrical_resistivity,
            corrosion_resistance = excluded.corrosion_resistance,
            machinability = excluded.machinability,
            weldability = excluded.weldability,
            common_uses = excluded.common_uses,
            updated_at = CURRENT_TIMESTAMP
        RETURNING id
    `,
		strings.TrimSpace(m.Name), strings.TrimSpace(m.Category), m.Density, m.CostPerKg,
		nullable(m.TensileStrength), nullable(m.YieldStrength), nullable(m.ElasticModulus),
		nullable(m.ThermalExpansion), nullable(m.ThermalConductivity), nullable(m.ElectricalResistivity),
		nullable(m.CorrosionResistance), nullable(m.Machinability), nullable(m.Weldability),
		nullable(m.CommonUses),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert %q: %w", m.Name, err)
	}
	return id, nil
}

func validate(m models.Material) error {
	switch {
	case strings.TrimSpace(m.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidMaterial)
	case strings.TrimSpace(m.Category) == "":
		return fmt.Errorf("%w: %q: category is required", ErrInvalidMaterial, m.Name)
	case m.Density <= 0:
		return fmt.Errorf("%w: %q: density must be positive", ErrInvalidMaterial, m.Name)
	case m.CostPerKg < 0:
		return fmt.Errorf("%w: %q: cost_per_kg must not be negative", ErrInvalidMaterial, m.Name)
	}
	return nil
}

// ============================================================
// Row mapping
// ============================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *Repository) query(ctx context.Context, query string, args ...any) ([]models.Material, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	materials := []models.Material{}
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		materials = append(materials, m)
	}
	return materials, rows.Err()
}

func scanOne(row *sql.Row) (*models.Material, error) {
	m, err := scanMaterial(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func scanMaterial(s rowScanner) (models.Material, error) {
	var m models.Material
	var tensile, yield, modulus, expansion, conduct sql.NullFloat64
	var resistivity, machinability, weldability sql.NullFloat64
	var corrosion, uses sql.NullString

	err := s.Scan(&m.ID, &m.Name, &m.Category, &m.Density, &m.CostPerKg,
		&tensile, &yield, &modulus, &expansion, &conduct, &resistivity,
		&corrosion, &machinability, &weldability, &uses)
	if err != nil {
		return models.Material{}, err
	}

	m.TensileStrength = floatPtr(tensile)
	m.YieldStrength = floatPtr(yield)
	m.ElasticModulus = floatPtr(modulus)
	m.ThermalExpansion = floatPtr(expansion)
	m.ThermalConductivity = floatPtr(conduct)
	m.ElectricalResistivity = floatPtr(resistivity)
	m.Machinability = floatPtr(machinability)
	m.Weldability = floatPtr(weldability)
	m.CorrosionResistance = stringPtr(corrosion)
	m.CommonUses = stringPtr(uses)
	return m, nil
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// OpenSQLite opens the catalog database at dbPath, creating its directory.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
