package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func NewMaterialsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "materials [query]",
		Aliases: []string{"ls"},
		Short:   "List catalog materials",
		Long:    `List catalog materials, optionally filtered by a name/category query and an exact category.`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    makeMaterialsRunner(),
	}

	cmd.Flags().String("category", "", "Only list this category")
	return cmd
}

func makeMaterialsRunner() func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		query := ""
		if len(args) > 0 {
			query = args[0]
		}
		category, _ := cmd.Flags().GetString("category")

		analyzer, closeFn, err := openAnalyzer(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		materials, err := analyzer.Materials(cmd.Context(), query, category)
		if err != nil {
			return fmt.Errorf("list materials: %w", err)
		}

		if wantJSON(cmd) {
			return outputJSON(cmd, materials)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tCATEGORY\tDENSITY\tCOST/KG")
		for _, m := range materials {
			fmt.Fprintf(w, "%s\t%s\t%g\t%g\n", m.Name, m.Category, m.Density, m.CostPerKg)
		}
		return w.Flush()
	}
}
