package internal

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/brickyard-pm/brickyard/internal/buildplan"
	"github.com/brickyard-pm/brickyard/internal/depsdb"
	"github.com/brickyard-pm/brickyard/internal/env"
	"github.com/brickyard-pm/brickyard/internal/errs"
	"github.com/brickyard-pm/brickyard/internal/executor"
	"github.com/brickyard-pm/brickyard/internal/lmi"
	"github.com/brickyard-pm/brickyard/internal/manifest"
	"github.com/brickyard-pm/brickyard/internal/repository"
	"github.com/brickyard-pm/brickyard/internal/sdist"
	"github.com/brickyard-pm/brickyard/internal/solver"
	"github.com/brickyard-pm/brickyard/internal/toolchain"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	buildToolchain string
	buildJobs      int
	buildApps      bool
	buildTests     bool
	buildWarnings  bool
	buildSkipFetch bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Fetch missing dependencies if needed, then plan and execute a build",
	RunE:  runBuildCmd,
}

func init() {
	buildCmd.Flags().StringVar(&buildToolchain, "toolchain", ":gcc", "toolchain descriptor: a \":\"-prefixed built-in id, or a JSON5 file path")
	buildCmd.Flags().IntVar(&buildJobs, "jobs", 0, "parallel compile jobs (default: hardware concurrency + 2)")
	buildCmd.Flags().BoolVar(&buildApps, "apps", true, "build the project's own apps/ sources")
	buildCmd.Flags().BoolVar(&buildTests, "tests", true, "build the project's own *.test.cpp sources")
	buildCmd.Flags().BoolVar(&buildWarnings, "warnings", false, "enable -Wall/-Wextra-equivalent warnings")
	buildCmd.Flags().BoolVar(&buildSkipFetch, "no-fetch", false, "assume dependencies are already fetched")
	rootCmd.AddCommand(buildCmd)
}

func runBuildCmd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if buildToolchain == "" {
		return errs.New(errs.NoDefaultToolchain)
	}
	tc, err := toolchain.Resolve(buildToolchain)
	if err != nil {
		return err
	}

	m, err := manifest.Load(".")
	if err != nil {
		return err
	}
	primarySdist, err := sdist.Verify(".")
	if err != nil {
		return err
	}

	if !buildSkipFetch {
		if err := runFetch(cmd, args); err != nil {
			return err
		}
	}

	c, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	solved, err := solver.Solve(ctx, m.Dependencies, c)
	c.Close()
	if err != nil {
		return err
	}

	repoPath, err := env.RepositoryPath()
	if err != nil {
		return err
	}

	var plan *buildplan.Plan
	err = repository.WithRepository(repoPath, repository.Read|repository.CreateIfAbsent, func(repo *repository.Repository) error {
		deps := make([]buildplan.Unit, 0, len(solved))
		for _, id := range solved {
			depSdist, err := repo.Find(id)
			if err != nil {
				return err
			}
			if depSdist == nil {
				return fmt.Errorf("build: %s was solved but is not in the repository; run fetch first", id)
			}
			deps = append(deps, buildplan.Unit{Sdist: depSdist})
		}

		primary := buildplan.Unit{
			Sdist: primarySdist,
			Params: buildplan.Params{
				BuildApps:      buildApps,
				BuildTests:     buildTests,
				EnableWarnings: buildWarnings,
			},
		}

		workDir, err := env.EnsureWorkDir()
		if err != nil {
			return err
		}
		layout := buildplan.Layout{Root: filepath.Join(workDir, "build")}

		plan, err = buildplan.Build(tc, layout, primary, deps)
		return err
	})
	if err != nil {
		return err
	}

	workDir, err := env.EnsureWorkDir()
	if err != nil {
		return err
	}
	db, err := depsdb.Open(ctx, filepath.Join(workDir, "build", "deps.db"))
	if err != nil {
		return err
	}
	defer db.Close()

	report, err := executor.Run(ctx, plan, tc, db, executor.Options{ParallelJobs: buildJobs})
	if err != nil {
		return err
	}
	for _, w := range report.Warnings {
		log.Warn().Msg(w)
	}
	fmt.Printf("compiled %d, skipped %d (up to date)\n", report.Compiled, report.Skipped)

	indexPath := filepath.Join(workDir, "build", "INDEX.lmi")
	if err := lmi.WriteFile(indexPath, lmi.FromPlan(plan)); err != nil {
		return err
	}

	return nil
}
