package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/brickyard-pm/brickyard/internal/jsonc"
	"github.com/brickyard-pm/brickyard/internal/manifest"
	"github.com/brickyard-pm/brickyard/internal/pkgid"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <name>@<version>",
	Short: "Add or update a dependency in the current manifest",
	Long: `Add parses a "name@version" string, expanding the version to the
same range a manifest "depends" value of "^version" gets, then rewrites
the manifest with that dependency added or updated.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	dep, err := pkgid.ParseDependency(args[0])
	if err != nil {
		return err
	}

	m, err := manifest.Load(".")
	if err != nil {
		return err
	}
	if m.Legacy {
		return fmt.Errorf("%s is a legacy .dds manifest; migrate to package.json5 before running add", m.Path)
	}

	raw, err := os.ReadFile(m.Path)
	if err != nil {
		return err
	}
	var doc map[string]any
	// Comments in the source manifest do not survive this rewrite; a
	// commented package.json5 loses its comments the first time add runs
	// against it.
	if err := json.Unmarshal(jsonc.Strip(raw), &doc); err != nil {
		return fmt.Errorf("add: re-parsing %s: %w", m.Path, err)
	}

	depends, _ := doc["depends"].(map[string]any)
	if depends == nil {
		depends = map[string]any{}
	}
	depends[dep.Name] = dep.Range.String()
	doc["depends"] = depends

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(m.Path, append(out, '\n'), 0o644); err != nil {
		return err
	}

	fmt.Printf("added %s %s to %s\n", dep.Name, strings.TrimSpace(dep.Range.String()), m.Path)
	return nil
}
