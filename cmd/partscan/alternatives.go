package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewAlternativesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "alternatives <material>",
		Aliases: []string{"alt"},
		Short:   "Rank substitute materials for a part volume",
		Args:    cobra.ExactArgs(1),
		RunE:    makeAlternativesRunner(),
	}

	cmd.Flags().Float64("volume", 0, "Part volume in mm3")
	cmd.Flags().StringSlice("require", nil, "Properties to weigh more (e.g. tensile_strength)")
	_ = cmd.MarkFlagRequired("volume")
	return cmd
}

func makeAlternativesRunner() func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		volume, _ := cmd.Flags().GetFloat64("volume")
		required, _ := cmd.Flags().GetStringSlice("require")

		analyzer, closeFn, err := openAnalyzer(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		results, err := analyzer.Alternatives(cmd.Context(), args[0], volume, required)
		if err != nil {
			return fmt.Errorf("find alternatives: %w", err)
		}

		if wantJSON(cmd) {
			return outputJSON(cmd, results)
		}

		printAlternatives(cmd, results)
		return nil
	}
}
