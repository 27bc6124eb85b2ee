package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/brickyard-pm/brickyard/internal/pkgid"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init <name> <version>",
	Short: "Write a new package manifest in the current directory",
	Args:  cobra.ExactArgs(2),
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

type manifestDoc struct {
	Name      string            `json:"name"`
	Namespace string            `json:"namespace"`
	Version   string            `json:"version"`
	Depends   map[string]string `json:"depends"`
}

func runInit(cmd *cobra.Command, args []string) error {
	name, version := args[0], args[1]
	if err := pkgid.ValidateName(name); err != nil {
		return err
	}
	if _, err := pkgid.ParseVersion(version); err != nil {
		return err
	}

	path := filepath.Join(".", "package.json5")
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	doc := manifestDoc{Name: name, Namespace: name, Version: version, Depends: map[string]string{}}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return err
	}

	fmt.Printf("wrote %s\n", path)
	return nil
}
