package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func NewExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [catalog.yaml]",
		Short: "Write the catalog as YAML (stdout when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  makeExportRunner(),
	}
}

func makeExportRunner() func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		repo, closeFn, err := openCatalog(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		var dst io.Writer = cmd.OutOrStdout()
		if len(args) == 1 {
			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			dst = f
		}

		n, err := repo.ExportYAML(cmd.Context(), dst)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}

		if len(args) == 1 {
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d materials to %s\n", n, args[0])
		}
		return nil
	}
}
