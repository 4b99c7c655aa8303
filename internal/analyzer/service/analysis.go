package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"partscan/internal/analyzer/models"
	"partscan/internal/analyzer/parser"
	"partscan/internal/analyzer/recommender"
	"partscan/internal/analyzer/repository"
)

var ErrInvalidInput = errors.New("invalid input")

// Catalog is the read side of the material store.
type Catalog interface {
	All(ctx context.Context) ([]models.Material, error)
	Resolve(ctx context.Context, name string) (*models.Material, error)
	ByCategory(ctx context.Context, category string) ([]models.Material, error)
	Search(ctx context.Context, query string) ([]models.Material, error)
}

// ============================================================
// Analyzer
// ============================================================

type Analyzer struct {
	catalog Catalog
	now     func() time.Time
}

func NewAnalyzer(catalog Catalog) *Analyzer {
	return &Analyzer{catalog: catalog, now: time.Now}
}

type Analysis struct {
	ID           string                    `json:"id"`
	Filename     string                    `json:"filename"`
	Geometry     *models.Geometry          `json:"geometry"`
	Material     string                    `json:"material"`
	Estimate     *models.Estimate          `json:"estimate,omitempty"`
	Alternatives []models.SimilarityResult `json:"alternatives"`
	Warnings     []string                  `json:"warnings,omitempty"`
	CreatedAt    time.Time                 `json:"created_at"`
}

// Analyze extracts features from one uploaded drawing, estimates weight and
// cost in the reference material and ranks substitutes for it.
func (a *Analyzer) Analyze(ctx context.Context, filename string, r io.Reader) (*Analysis, error) {
	ext := parser.ExtFromFilename(filename)
	if !parser.Supported(ext) {
		return nil, fmt.Errorf("%w: %q", parser.ErrUnsupportedFormat, filename)
	}

	g, err := parser.Extract(r, ext)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", filename, err)
	}
	log.Printf("[ANALYZE] %s: %s dims=%vx%vx%v source=%s points=%d",
		filename, g.Format, g.Dimensions.Length, g.Dimensions.Width, g.Dimensions.Height, g.DimensionSource, g.PointCount)

	catalog, err := a.catalog.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	reference, known, err := a.resolveName(ctx, g.Material())
	if err != nil {
		return nil, err
	}

	analysis := &Analysis{
		ID:           uuid.New().String(),
		Filename:     filename,
		Geometry:     g,
		Material:     reference,
		Alternatives: []models.SimilarityResult{},
		CreatedAt:    a.now().UTC(),
	}

	if !known {
		analysis.Warnings = append(analysis.Warnings,
			fmt.Sprintf("material %q is not in the catalog, default density and cost applied", reference))
	}

	if recommender.ValidateVolume(g.Volume) != nil {
		analysis.Warnings = append(analysis.Warnings, "part volume is not positive, weight and alternatives skipped")
		return analysis, nil
	}

	est, err := recommender.Estimate(catalog, reference, g.Volume)
	if err != nil {
		return nil, err
	}
	analysis.Estimate = &est

	alternatives, err := recommender.FindAlternatives(reference, catalog, g.Volume, recommender.Options{})
	if err != nil {
		return nil, err
	}
	analysis.Alternatives = alternatives

	log.Printf("[ANALYZE] %s: material=%q weight=%.3fkg alternatives=%d", analysis.ID, reference, est.Weight, len(alternatives))
	return analysis, nil
}

// Extract runs only the feature extractor.
func (a *Analyzer) Extract(filename string, r io.Reader) (*models.Geometry, error) {
	ext := parser.ExtFromFilename(filename)
	if !parser.Supported(ext) {
		return nil, fmt.Errorf("%w: %q", parser.ErrUnsupportedFormat, filename)
	}
	return parser.Extract(r, ext)
}

// Recalculate re-estimates weight and cost for a user-chosen material.
func (a *Analyzer) Recalculate(ctx context.Context, material string, volume float64) (models.Estimate, error) {
	if strings.TrimSpace(material) == "" {
		return models.Estimate{}, fmt.Errorf("%w: material is required", ErrInvalidInput)
	}
	if err := recommender.ValidateVolume(volume); err != nil {
		return models.Estimate{}, err
	}

	name, _, err := a.resolveName(ctx, material)
	if err != nil {
		return models.Estimate{}, err
	}

	catalog, err := a.catalog.All(ctx)
	if err != nil {
		return models.Estimate{}, fmt.Errorf("load catalog: %w", err)
	}
	return recommender.Estimate(catalog, name, volume)
}

// Alternatives ranks substitutes for material at the given part volume.
// Required property keys weigh more in the score.
func (a *Analyzer) Alternatives(ctx context.Context, material string, volume float64, required []string) ([]models.SimilarityResult, error) {
	if strings.TrimSpace(material) == "" {
		return nil, fmt.Errorf("%w: material is required", ErrInvalidInput)
	}
	for _, key := range required {
		if !recommender.IsScoredProperty(strings.ToLower(strings.TrimSpace(key))) {
			return nil, fmt.Errorf("%w: unknown property %q", ErrInvalidInput, key)
		}
	}
	if err := recommender.ValidateVolume(volume); err != nil {
		return nil, err
	}

	name, _, err := a.resolveName(ctx, material)
	if err != nil {
		return nil, err
	}

	catalog, err := a.catalog.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return recommender.FindAlternatives(name, catalog, volume, recommender.Options{Required: required})
}

// Compatibility checks whether two catalog materials can be used together.
func (a *Analyzer) Compatibility(ctx context.Context, first, second string) (models.Compatibility, error) {
	if strings.TrimSpace(first) == "" || strings.TrimSpace(second) == "" {
		return models.Compatibility{}, fmt.Errorf("%w: two materials are required", ErrInvalidInput)
	}

	m1, err := a.catalog.Resolve(ctx, first)
	if err != nil {
		return models.Compatibility{}, fmt.Errorf("%q: %w", first, err)
	}
	m2, err := a.catalog.Resolve(ctx, second)
	if err != nil {
		return models.Compatibility{}, fmt.Errorf("%q: %w", second, err)
	}
	return recommender.CheckCompatibility(*m1, *m2), nil
}

// Materials lists the catalog, optionally narrowed by category and a
// name/category substring query.
func (a *Analyzer) Materials(ctx context.Context, query, category string) ([]models.Material, error) {
	query = strings.TrimSpace(query)
	category = strings.TrimSpace(category)

	switch {
	case category != "":
		materials, err := a.catalog.ByCategory(ctx, category)
		if err != nil || query == "" {
			return materials, err
		}
		return filterByName(materials, query), nil
	case query != "":
		return a.catalog.Search(ctx, query)
	default:
		return a.catalog.All(ctx)
	}
}

// resolveName maps a free-form material name onto a catalog name. Unknown
// names are returned as-is with known=false.
func (a *Analyzer) resolveName(ctx context.Context, name string) (string, bool, error) {
	m, err := a.catalog.Resolve(ctx, name)
	switch {
	case err == nil:
		return m.Name, true, nil
	case errors.Is(err, repository.ErrNotFound):
		return name, false, nil
	default:
		return "", false, fmt.Errorf("resolve material %q: %w", name, err)
	}
}

func filterByName(materials []models.Material, query string) []models.Material {
	query = strings.ToLower(query)
	out := []models.Material{}
	for _, m := range materials {
		if strings.Contains(strings.ToLower(m.Name), query) {
			out = append(out, m)
		}
	}
	return out
}
