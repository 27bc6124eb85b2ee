package internal

import (
	"fmt"

	"github.com/brickyard-pm/brickyard/internal/env"
	"github.com/brickyard-pm/brickyard/internal/repository"
	"github.com/spf13/cobra"
)

var repairFix bool

var repositoryCmd = &cobra.Command{
	Use:   "repository",
	Short: "Inspect or maintain the local source-distribution repository",
}

var repositoryRepairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Find (and, with --fix, remove) staging leftovers and corrupted sdists",
	RunE:  runRepositoryRepair,
}

func init() {
	repositoryRepairCmd.Flags().BoolVar(&repairFix, "fix", false, "remove the debris found instead of only reporting it")
	repositoryCmd.AddCommand(repositoryRepairCmd)
	rootCmd.AddCommand(repositoryCmd)
}

func runRepositoryRepair(cmd *cobra.Command, args []string) error {
	repoPath, err := env.RepositoryPath()
	if err != nil {
		return err
	}

	return repository.WithRepository(repoPath, repository.WriteLock|repository.CreateIfAbsent, func(repo *repository.Repository) error {
		issues, err := repo.Repair(repairFix)
		if err != nil {
			return err
		}
		if len(issues) == 0 {
			fmt.Println("repository is clean")
			return nil
		}
		for _, issue := range issues {
			status := "found"
			if issue.Removed {
				status = "removed"
			}
			fmt.Printf("%s: %s (%s)\n", status, issue.Path, issue.Kind)
		}
		if !repairFix {
			fmt.Println("run with --fix to remove the above")
		}
		return nil
	})
}
