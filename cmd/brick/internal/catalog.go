package internal

import (
	"context"
	"fmt"
	"os"

	"github.com/brickyard-pm/brickyard/internal/catalog"
	"github.com/brickyard-pm/brickyard/internal/env"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect or update the local package catalog",
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a catalog JSON document into the local catalog database",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogImport,
}

func init() {
	catalogCmd.AddCommand(catalogImportCmd)
	rootCmd.AddCommand(catalogCmd)
}

func openCatalog(ctx context.Context) (*catalog.Catalog, error) {
	if _, err := env.EnsureWorkDir(); err != nil {
		return nil, err
	}
	path, err := env.CatalogPath()
	if err != nil {
		return nil, err
	}
	return catalog.Open(ctx, path)
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	ctx := context.Background()
	c, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.ImportJSON(ctx, raw); err != nil {
		return err
	}

	fmt.Printf("imported %s into the catalog\n", args[0])
	return nil
}
