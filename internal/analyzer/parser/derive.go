package parser

import (
	"sort"
	"strings"

	"partscan/internal/analyzer/models"
)

// fallbackDimensions are used when no point could be recovered.
var fallbackDimensions = models.Dimensions{Length: 30, Width: 30, Height: 5}

// annularTokens identify washer-like parts by product name.
var annularTokens = []string{"washer", "rondelle"}

// deriveDimensions turns the raw bounding box into canonical dimensions.
// It has no side effects and does not look at anything but its arguments.
func deriveDimensions(bbox BoundingBox, radii []float64, productName string) (models.Dimensions, models.DimensionSource) {
	if bbox.Empty() {
		return fallbackDimensions, models.SourceFallback
	}

	raw := bbox.Extents()
	sort.Sort(sort.Reverse(sort.Float64Slice(raw[:])))
	dims := models.Dimensions{Length: raw[0], Width: raw[1], Height: raw[2]}

	if len(radii) > 0 && containsAny(strings.ToLower(productName), annularTokens) {
		outer := 2 * maxOf(radii)
		dims.Length = outer
		dims.Width = outer
		return dims, models.SourceAnnular
	}

	return dims, models.SourceBoundingBox
}

func maxOf(vs []float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// build freezes the accumulator into a Geometry.
func (a *accumulator) build(format string) *models.Geometry {
	dims, source := deriveDimensions(a.bbox, a.circleRadii, a.productName)

	inferred := a.materialHint
	if inferred == "" {
		inferred = a.keywords.infer()
	}

	return &models.Geometry{
		Format:           format,
		ProductName:      a.productName,
		MaterialHint:     a.materialHint,
		InferredMaterial: inferred,
		Dimensions:       dims,
		DimensionSource:  source,
		Volume:           dims.Volume(),
		Annotations:      a.annotations,
		Tolerances:       a.tolerances,
		CircleRadii:      a.circleRadii,
		PointCount:       a.pointCount,
		PreviewPoints:    a.points,
	}
}
