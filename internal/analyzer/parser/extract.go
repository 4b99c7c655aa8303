package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"partscan/internal/analyzer/models"
)

// ============================================================
// Formats
// ============================================================

// scannedFormats are parsed line by line.
var scannedFormats = map[string]bool{
	"step": true,
	"stp":  true,
}

// placeholderDimensions cover formats that are accepted but not scanned.
var placeholderDimensions = map[string]models.Dimensions{
	"pdf": {Length: 100, Width: 100, Height: 10},
	"dxf": {Length: 100, Width: 50, Height: 1},
	"dwg": {Length: 100, Width: 50, Height: 1},
}

// NormalizeExt lowercases an extension and strips any leading dot.
func NormalizeExt(ext string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
}

// ExtFromFilename returns the normalized extension of a file name.
func ExtFromFilename(name string) string {
	return NormalizeExt(filepath.Ext(name))
}

// Supported reports whether ext can be processed by Extract.
func Supported(ext string) bool {
	ext = NormalizeExt(ext)
	if scannedFormats[ext] {
		return true
	}
	_, ok := placeholderDimensions[ext]
	return ok
}

// ============================================================
// Extract
// ============================================================

// Extract reads a drawing and derives its geometry. Malformed lines are
// skipped; only a failing reader produces an error (*ReadError).
func Extract(r io.Reader, ext string) (*models.Geometry, error) {
	ext = NormalizeExt(ext)

	if scannedFormats[ext] {
		acc, err := scan(r)
		if err != nil {
			return nil, err
		}
		return acc.build(ext), nil
	}

	dims, ok := placeholderDimensions[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	acc := newAccumulator()
	g := acc.build(ext)
	g.Dimensions = dims
	g.DimensionSource = models.SourcePlaceholder
	g.Volume = dims.Volume()
	return g, nil
}
