package mapper

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"partscan/internal/analyzer/models"
)

// ============================================================
// Preview Renderer
// ============================================================

const (
	canvasSize   = 800.0
	canvasMargin = 50.0
	drawableSize = canvasSize - 2*canvasMargin
)

type PreviewRenderer struct{}

func NewPreviewRenderer() *PreviewRenderer {
	return &PreviewRenderer{}
}

type viewport struct {
	minX, minY float64
	scale      float64
}

func (v viewport) project(x, y float64) (float64, float64) {
	return canvasMargin + (x-v.minX)*v.scale, canvasMargin + (y-v.minY)*v.scale
}

// Render draws the XY projection of the retained preview points as SVG.
// Circles found in the drawing are drawn around the projected center.
func (r *PreviewRenderer) Render(g *models.Geometry) (string, error) {
	if g == nil {
		return "", fmt.Errorf("geometry is nil")
	}

	vp := r.fit(g.PreviewPoints)

	var elements []string
	elements = append(elements, r.renderOutline(g.PreviewPoints, vp)...)
	elements = append(elements, r.renderPoints(g.PreviewPoints, vp)...)
	elements = append(elements, r.renderCircles(g, vp)...)

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		formatFloat(canvasSize), formatFloat(canvasSize), formatFloat(canvasSize), formatFloat(canvasSize)))
	builder.WriteString("\n")
	builder.WriteString(`  <rect width="100%" height="100%" fill="white"/>`)
	builder.WriteString("\n")

	for _, elem := range elements {
		builder.WriteString("  ")
		builder.WriteString(elem)
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String(), nil
}

// ============================================================
// Sizing
// ============================================================

func (r *PreviewRenderer) fit(points []models.Point) viewport {
	minX, minY := math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64

	for _, p := range points {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	if len(points) == 0 {
		return viewport{scale: 1}
	}

	width := maxX - minX
	height := maxY - minY
	scale := 1.0
	switch {
	case width > 0 && height > 0:
		scale = math.Min(drawableSize/width, drawableSize/height)
	case width > 0:
		scale = drawableSize / width
	case height > 0:
		scale = drawableSize / height
	}

	return viewport{minX: minX, minY: minY, scale: scale}
}

// ============================================================
// Element renderers
// ============================================================

func (r *PreviewRenderer) renderOutline(points []models.Point, vp viewport) []string {
	if len(points) < 2 {
		return nil
	}

	coords := make([]string, 0, len(points))
	for _, p := range points {
		x, y := vp.project(p.X, p.Y)
		coords = append(coords, formatFloat(x)+","+formatFloat(y))
	}

	return []string{fmt.Sprintf(`<polyline points="%s" fill="none" stroke="black" stroke-width="1"/>`, strings.Join(coords, " "))}
}

func (r *PreviewRenderer) renderPoints(points []models.Point, vp viewport) []string {
	out := make([]string, 0, len(points))
	for _, p := range points {
		x, y := vp.project(p.X, p.Y)
		out = append(out, fmt.Sprintf(`<circle cx="%s" cy="%s" r="2" fill="black"/>`, formatFloat(x), formatFloat(y)))
	}
	return out
}

func (r *PreviewRenderer) renderCircles(g *models.Geometry, vp viewport) []string {
	if len(g.CircleRadii) == 0 {
		return nil
	}

	cx, cy := canvasSize/2, canvasSize/2
	if len(g.PreviewPoints) > 0 {
		var sumX, sumY float64
		for _, p := range g.PreviewPoints {
			sumX += p.X
			sumY += p.Y
		}
		n := float64(len(g.PreviewPoints))
		cx, cy = vp.project(sumX/n, sumY/n)
	}

	out := make([]string, 0, len(g.CircleRadii))
	for _, radius := range g.CircleRadii {
		out = append(out, fmt.Sprintf(`<circle cx="%s" cy="%s" r="%s" fill="none" stroke="blue" stroke-width="1"/>`,
			formatFloat(cx), formatFloat(cy), formatFloat(radius*vp.scale)))
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
