package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/xuri/excelize/v2"

	"partscan/internal/analyzer/models"
)

const (
	alternativesSheet = "Alternatives"
	partSheet         = "Part"
)

var alternativesHeaders = []string{
	"Material",
	"Category",
	"Score",
	"Weight (kg)",
	"Weight Change (%)",
	"Cost",
	"Cost Change (%)",
}

// AlternativesXLSX renders the ranked alternatives for reference and the
// part geometry into a two-sheet workbook.
func AlternativesXLSX(reference string, g *models.Geometry, results []models.SimilarityResult) ([]byte, error) {
	if g == nil {
		return nil, fmt.Errorf("geometry is nil")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", alternativesSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(partSheet); err != nil {
		return nil, err
	}
	activeIndex, err := f.GetSheetIndex(alternativesSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(activeIndex)

	if err := writeAlternatives(f, results); err != nil {
		return nil, err
	}
	if err := writePart(f, reference, g); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func writeAlternatives(f *excelize.File, results []models.SimilarityResult) error {
	for i, h := range alternativesHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(alternativesSheet, cell, h); err != nil {
			return err
		}
	}

	for i, r := range results {
		row := i + 2
		values := []any{
			r.Material.Name,
			r.Material.Category,
			round2(r.Score),
			r.Comparison.Weight.Alternative,
			round2(r.Comparison.Weight.PercentChange),
			r.Comparison.Cost.Alternative,
			round2(r.Comparison.Cost.PercentChange),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(alternativesSheet, cell, v); err != nil {
				return err
			}
		}
	}

	return setColWidths(f, alternativesSheet, []colWidth{
		{"A", "A", 28},
		{"B", "B", 14},
		{"C", "G", 16},
	})
}

func writePart(f *excelize.File, reference string, g *models.Geometry) error {
	rows := [][]any{
		{"Format", g.Format},
		{"Product", g.ProductName},
		{"Reference Material", reference},
		{"Length (mm)", g.Dimensions.Length},
		{"Width (mm)", g.Dimensions.Width},
		{"Height (mm)", g.Dimensions.Height},
		{"Volume (mm³)", g.Volume},
		{"Dimension Source", string(g.DimensionSource)},
		{"Annotations", strings.Join(g.Annotations, "\n")},
		{"Tolerances", strings.Join(g.Tolerances, "\n")},
	}

	for i, r := range rows {
		for col, v := range r {
			cell, err := excelize.CoordinatesToCellName(col+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(partSheet, cell, v); err != nil {
				return err
			}
		}
	}

	return setColWidths(f, partSheet, []colWidth{
		{"A", "A", 22},
		{"B", "B", 48},
	})
}

type colWidth struct {
	start, end string
	width      float64
}

func setColWidths(f *excelize.File, sheet string, widths []colWidth) error {
	for _, w := range widths {
		if err := f.SetColWidth(sheet, w.start, w.end, w.width); err != nil {
			return fmt.Errorf("xlsx column width %s: %w", w.start, err)
		}
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
