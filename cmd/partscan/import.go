package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func NewImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <catalog.yaml>",
		Short: "Add or update catalog materials from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE:  makeImportRunner(),
	}
}

func makeImportRunner() func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		repo, closeFn, err := openCatalog(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		n, err := repo.ImportYAML(cmd.Context(), f)
		if err != nil {
			return fmt.Errorf("import %s: %w", args[0], err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d materials\n", n)
		return nil
	}
}
