package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Remove a material from the catalog by exact name",
		Args:  cobra.ExactArgs(1),
		RunE:  makeDeleteRunner(),
	}
}

func makeDeleteRunner() func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		repo, closeFn, err := openCatalog(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		if err := repo.Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("delete %q: %w", args[0], err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	}
}
