package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"partscan/internal/analyzer/mapper"
	"partscan/internal/analyzer/models"
	"partscan/internal/analyzer/parser"
)

func NewExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Extract dimensions and metadata from a drawing",
		Long:  `Scan a STEP file (or derive placeholder dimensions for PDF/DXF/DWG) and print the bounding-box dimensions, material and annotations.`,
		Args:  cobra.ExactArgs(1),
		RunE:  makeExtractRunner(),
	}

	cmd.Flags().String("svg", "", "Write an SVG preview to this path")
	return cmd
}

func makeExtractRunner() func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		path := args[0]

		g, err := extractFile(path)
		if err != nil {
			return err
		}

		if svgPath, _ := cmd.Flags().GetString("svg"); svgPath != "" {
			svg, err := mapper.NewPreviewRenderer().Render(g)
			if err != nil {
				return fmt.Errorf("render preview: %w", err)
			}
			if err := os.WriteFile(svgPath, []byte(svg), 0o644); err != nil {
				return fmt.Errorf("write preview: %w", err)
			}
		}

		if wantJSON(cmd) {
			return outputJSON(cmd, g)
		}

		printGeometry(cmd, g)
		return nil
	}
}

func extractFile(path string) (*models.Geometry, error) {
	ext := parser.ExtFromFilename(path)
	if !parser.Supported(ext) {
		return nil, fmt.Errorf("%w: %q", parser.ErrUnsupportedFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g, err := parser.Extract(f, ext)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}
	return g, nil
}

func printGeometry(cmd *cobra.Command, g *models.Geometry) {
	out := cmd.OutOrStdout()
	if g.ProductName != "" {
		fmt.Fprintf(out, "Product:    %s\n", g.ProductName)
	}
	fmt.Fprintf(out, "Format:     %s\n", g.Format)
	fmt.Fprintf(out, "Dimensions: %g x %g x %g mm (%s)\n",
		g.Dimensions.Length, g.Dimensions.Width, g.Dimensions.Height, g.DimensionSource)
	fmt.Fprintf(out, "Volume:     %g mm3\n", g.Volume)
	fmt.Fprintf(out, "Material:   %s\n", g.Material())
	if len(g.Annotations) > 0 {
		fmt.Fprintf(out, "Notes:      %s\n", strings.Join(g.Annotations, "; "))
	}
	if len(g.Tolerances) > 0 {
		fmt.Fprintf(out, "Tolerances: %s\n", strings.Join(g.Tolerances, "; "))
	}
}
