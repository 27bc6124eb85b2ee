package internal

import (
	"fmt"
	"path/filepath"

	"github.com/brickyard-pm/brickyard/internal/env"
	"github.com/brickyard-pm/brickyard/internal/lmi"
	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Print the interchange index written by the last build",
	RunE:  runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	workDir, err := env.WorkDir()
	if err != nil {
		return err
	}
	path := filepath.Join(workDir, "build", "INDEX.lmi")

	entries, err := lmi.ParseFile(path)
	if err != nil {
		return fmt.Errorf("index: %s not found; run 'brick build' first: %w", path, err)
	}

	for i, e := range entries {
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("name: %s\nnamespace: %s\narchive: %s\n", e.Name, e.Namespace, e.Archive)
		for _, inc := range e.Include {
			fmt.Printf("include: %s\n", inc)
		}
	}
	return nil
}
