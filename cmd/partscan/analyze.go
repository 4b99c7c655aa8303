package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"partscan/internal/analyzer/export"
	"partscan/internal/analyzer/models"
	"partscan/internal/analyzer/service"
)

func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Estimate weight and cost of a part and rank alternatives",
		Args:  cobra.ExactArgs(1),
		RunE:  makeAnalyzeRunner(),
	}

	cmd.Flags().String("xlsx", "", "Write the report workbook to this path")
	return cmd
}

func makeAnalyzeRunner() func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		analyzer, closeFn, err := openAnalyzer(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		analysis, err := analyzer.Analyze(cmd.Context(), args[0], f)
		if err != nil {
			return err
		}

		if xlsxPath, _ := cmd.Flags().GetString("xlsx"); xlsxPath != "" {
			data, err := export.AlternativesXLSX(analysis.Material, analysis.Geometry, analysis.Alternatives)
			if err != nil {
				return err
			}
			if err := os.WriteFile(xlsxPath, data, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
		}

		if wantJSON(cmd) {
			return outputJSON(cmd, analysis)
		}

		printAnalysis(cmd, analysis)
		return nil
	}
}

func printAnalysis(cmd *cobra.Command, a *service.Analysis) {
	out := cmd.OutOrStdout()
	printGeometry(cmd, a.Geometry)
	fmt.Fprintf(out, "Reference:  %s\n", a.Material)
	if a.Estimate != nil {
		fmt.Fprintf(out, "Weight:     %.3f kg\n", a.Estimate.Weight)
		fmt.Fprintf(out, "Cost:       %.2f\n", a.Estimate.Cost)
	}
	for _, w := range a.Warnings {
		fmt.Fprintf(out, "Warning:    %s\n", w)
	}
	printAlternatives(cmd, a.Alternatives)
}

func printAlternatives(cmd *cobra.Command, results []models.SimilarityResult) {
	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "No alternatives found")
		return
	}
	for i, r := range results {
		fmt.Fprintf(out, "%d. %-28s %6.1f  weight %+.1f%%  cost %+.1f%%\n",
			i+1, r.Material.Name, r.Score, r.Comparison.Weight.PercentChange, r.Comparison.Cost.PercentChange)
	}
}
