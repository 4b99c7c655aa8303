package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"partscan/internal/analyzer/repository"
	"partscan/internal/analyzer/service"
	"partscan/internal/common/config"
)

func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "partscan",
		Short:         "Inspect CAD parts and find substitute materials",
		Long:          `Extracts dimensions and metadata from STEP drawings, estimates part weight and cost, and ranks alternative materials from a local catalog.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	addPersistentFlags(rootCmd)
	rootCmd.AddCommand(
		NewExtractCmd(),
		NewAnalyzeCmd(),
		NewAlternativesCmd(),
		NewMaterialsCmd(),
		NewImportCmd(),
		NewExportCmd(),
		NewDeleteCmd(),
	)
	return rootCmd
}

func addPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("db", config.Load().CatalogDBPath, "Material catalog database path")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
}

// openCatalog opens and initializes the catalog named by --db.
func openCatalog(cmd *cobra.Command) (*repository.Repository, func(), error) {
	path, _ := cmd.Flags().GetString("db")

	db, err := repository.OpenSQLite(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open catalog: %w", err)
	}

	repo := repository.New(db)
	if err := repo.Init(cmd.Context()); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("init catalog: %w", err)
	}
	return repo, func() { db.Close() }, nil
}

func openAnalyzer(cmd *cobra.Command) (*service.Analyzer, func(), error) {
	repo, closeFn, err := openCatalog(cmd)
	if err != nil {
		return nil, nil, err
	}
	return service.NewAnalyzer(repo), closeFn, nil
}

func wantJSON(cmd *cobra.Command) bool {
	asJSON, _ := cmd.Flags().GetBool("json")
	return asJSON
}

func outputJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
