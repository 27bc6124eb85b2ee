// Package internal holds brick's cobra command tree. Each subcommand
// registers itself against rootCmd from its own file's init(), mirroring a
// one-file-per-verb layout: root.go only owns the bare command and the
// process-level error-to-exit-code translation.
package internal

import (
	"errors"
	"fmt"
	"os"

	"github.com/brickyard-pm/brickyard/internal/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "brick",
	Short: "brick manages source-based C/C++ package dependencies and builds",
	Long: `brick resolves C/C++ package dependencies against a catalog, fetches
their sources into a local repository, and drives a compiler toolchain to
build them and your own project.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the command tree and translates a returned error into the
// process exit code the core's taxonomy assigns it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var e *errs.Error
		if errors.As(err, &e) {
			fmt.Fprintf(os.Stderr, "brick: %s: %s\n", e.Error(), e.Explanation())
			os.Exit(e.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "brick: %s\n", err)
		os.Exit(1)
	}
}
