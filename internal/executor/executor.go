// Package executor runs a build plan: compile nodes in parallel bounded by
// a job count, then archive and link nodes serially, then commits every
// accumulated dependency record to the file-deps database in one
// transaction.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/brickyard-pm/brickyard/internal/buildplan"
	"github.com/brickyard-pm/brickyard/internal/depsdb"
	"github.com/brickyard-pm/brickyard/internal/depscan"
	"github.com/brickyard-pm/brickyard/internal/errs"
	"github.com/brickyard-pm/brickyard/internal/toolchain"
	"github.com/rs/zerolog/log"
)

// Options configures a single build run.
type Options struct {
	// ParallelJobs bounds the number of concurrent compile subprocesses.
	// A non-positive value defaults to DefaultJobs().
	ParallelJobs int
}

func (o Options) jobs() int {
	if o.ParallelJobs > 0 {
		return o.ParallelJobs
	}
	return DefaultJobs()
}

// DefaultJobs returns the parallel job count used when a caller does not
// set Options.ParallelJobs: hardware concurrency plus two, floored at one
// for the rare container that reports zero CPUs.
func DefaultJobs() int {
	if n := runtime.NumCPU(); n > 0 {
		return n + 2
	}
	return 1
}

// Report summarizes one completed run for the caller to print.
type Report struct {
	Compiled int
	Skipped  int
	Warnings []string
}

// Run executes plan against tc, consulting and then updating db for
// incremental rebuild decisions. Compile nodes run in parallel; archive and
// link nodes run afterward, serially, in plan order. Any failure aborts the
// remaining archive/link work; compiles already in flight are allowed to
// finish before Run returns.
func Run(ctx context.Context, plan *buildplan.Plan, tc toolchain.Toolchain, db *depsdb.DB, opts Options) (*Report, error) {
	report := &Report{}
	var mu sync.Mutex
	var records []depsdb.Record

	err := runPool(ctx, opts.jobs(), plan.Compiles, func(workCtx context.Context, node buildplan.CompileNode) error {
		if err := checkCancelled(workCtx); err != nil {
			return err
		}

		result := tc.CompileCommand(node.Source, node.Output, node.IncludePaths, node.Flags)
		commandStr := commandString(result.Command)

		info, err := db.GetRebuildInfo(workCtx, node.Output)
		if err != nil {
			return err
		}
		if !depsdb.ShouldRebuild(node.Output, commandStr, info) {
			mu.Lock()
			report.Skipped++
			mu.Unlock()
			return nil
		}

		if err := os.MkdirAll(filepath.Dir(node.Output), 0o755); err != nil {
			return err
		}

		// The subprocess itself runs against ctx, not workCtx: workCtx is
		// the errgroup-derived context that cancels the instant any sibling
		// compile fails, and a sibling's failure must not kill a compile
		// already in flight. ctx only ends on the caller's own
		// cancellation, which is when killing in-flight work is correct.
		start := time.Now()
		output, runErr := runCommand(ctx, result.Command)
		elapsed := time.Since(start)

		if runErr != nil {
			log.Error().
				Str("source", node.Source).
				Str("command", commandStr).
				Str("output", output).
				Dur("elapsed", elapsed).
				Msg("compile failed")
			return errs.New(errs.CompileFailure, node.Source, describeRunError(runErr))
		}

		inputs, cleaned, err := scanDeps(tc, result, node.Source, output)
		if err != nil {
			log.Error().
				Str("source", node.Source).
				Err(err).
				Msg("dependency scan failed")
			return err
		}

		if trimmed := strings.TrimSpace(cleaned); trimmed != "" {
			mu.Lock()
			report.Warnings = append(report.Warnings, trimmed)
			mu.Unlock()
		}

		mu.Lock()
		report.Compiled++
		records = append(records, depsdb.Record{Output: node.Output, Command: commandStr, Inputs: inputs})
		mu.Unlock()
		return nil
	})
	if err != nil {
		return report, err
	}

	for _, a := range plan.Archives {
		if err := checkCancelled(ctx); err != nil {
			return report, err
		}
		if err := runArchive(ctx, tc, a); err != nil {
			return report, err
		}
	}
	for _, l := range plan.Links {
		if err := checkCancelled(ctx); err != nil {
			return report, err
		}
		if err := runLink(ctx, tc, l); err != nil {
			return report, err
		}
	}

	if err := db.WriteAll(ctx, records); err != nil {
		return report, err
	}
	return report, nil
}

func checkCancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return errs.New(errs.UserCancelled)
	default:
		return nil
	}
}

func scanDeps(tc toolchain.Toolchain, result toolchain.CompileResult, source, output string) ([]string, string, error) {
	switch tc.DepsMode() {
	case toolchain.DepsGNU:
		inputs, err := depscan.ParseGNUDepfile(result.Depfile)
		if err != nil {
			return nil, "", depscan.RequireGNUDepfile(result.Depfile, err)
		}
		return inputs, output, nil
	case toolchain.DepsMSVC:
		scan := depscan.ScanMSVCOutput(output, tc.MSVCDepsPrefix(), source)
		return scan.Inputs, scan.CleanedOutput, nil
	default:
		return []string{source}, output, nil
	}
}

func runArchive(ctx context.Context, tc toolchain.Toolchain, node buildplan.ArchiveNode) error {
	if len(node.Objects) == 0 {
		return errs.New(errs.ArchiveFailure, node.Output, "no object files to archive")
	}
	if err := os.MkdirAll(filepath.Dir(node.Output), 0o755); err != nil {
		return errs.New(errs.ArchiveFailure, node.Output, err.Error())
	}
	// Archivers' behavior on an existing archive is not portable; always
	// start from nothing.
	if err := os.Remove(node.Output); err != nil && !os.IsNotExist(err) {
		return errs.New(errs.ArchiveFailure, node.Output, err.Error())
	}

	cmd := tc.ArchiveCommand(node.Objects, node.Output)
	if output, err := runCommand(ctx, cmd); err != nil {
		return errs.New(errs.ArchiveFailure, node.Output, output+": "+describeRunError(err))
	}
	return nil
}

func runLink(ctx context.Context, tc toolchain.Toolchain, node buildplan.LinkNode) error {
	if err := os.MkdirAll(filepath.Dir(node.Output), 0o755); err != nil {
		return errs.New(errs.LinkFailure, node.Output, err.Error())
	}
	cmd := tc.LinkCommand(node.Objects, node.Archives, node.Output, nil)
	if output, err := runCommand(ctx, cmd); err != nil {
		return errs.New(errs.LinkFailure, node.Output, output+": "+describeRunError(err))
	}
	return nil
}

func runCommand(ctx context.Context, cmd []string) (string, error) {
	c := exec.CommandContext(ctx, cmd[0], cmd[1:]...)
	var buf bytes.Buffer
	c.Stdout = &buf
	c.Stderr = &buf
	err := c.Run()
	return buf.String(), err
}

// describeRunError renders err for the error taxonomy's Explain templates,
// additionally naming the signal when the subprocess was killed by one
// rather than exiting normally with a nonzero status.
func describeRunError(err error) string {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			return fmt.Sprintf("%s (killed by signal %d: %s)", err, status.Signal(), status.Signal())
		}
	}
	return err.Error()
}

// commandString renders cmd as the fully quoted string the dep-db compares
// against on the next build to decide whether flags changed.
func commandString(cmd []string) string {
	parts := make([]string, len(cmd))
	for i, arg := range cmd {
		if strings.ContainsAny(arg, " \t\"") {
			parts[i] = fmt.Sprintf("%q", arg)
		} else {
			parts[i] = arg
		}
	}
	return strings.Join(parts, " ")
}
