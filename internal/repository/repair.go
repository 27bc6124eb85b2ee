package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/brickyard-pm/brickyard/internal/sdist"
)

// RepairIssueKind classifies one piece of debris Repair found.
type RepairIssueKind string

const (
	// StagingLeftover is a ".sdist-staging-*" directory abandoned by an
	// AddSdist that crashed or was killed before it could rename into place.
	StagingLeftover RepairIssueKind = "staging_leftover"
	// InvalidSdist is a directory whose name looks like a PackageId but
	// whose manifest no longer parses.
	InvalidSdist RepairIssueKind = "invalid_sdist"
)

// RepairIssue is one piece of debris Repair found, and whether it was
// removed.
type RepairIssue struct {
	Kind    RepairIssueKind
	Path    string
	Removed bool
}

// Repair scans the repository for two kinds of debris a crashed writer can
// leave behind: leftover ".sdist-staging-*" directories from an interrupted
// AddSdist, and directories whose name looks like a PackageId but whose
// manifest no longer parses. Every issue found is reported; fix controls
// whether Repair also deletes them, or only reports what it would delete.
// Repair requires WriteLock.
func (r *Repository) Repair(fix bool) ([]RepairIssue, error) {
	if r.mode&WriteLock == 0 {
		return nil, fmt.Errorf("repository: Repair requires WriteLock")
	}

	entries, err := os.ReadDir(r.root)
	if err != nil {
		return nil, fmt.Errorf("repository: list %s: %w", r.root, err)
	}

	var issues []RepairIssue
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		path := filepath.Join(r.root, e.Name())

		if strings.HasPrefix(e.Name(), ".sdist-staging-") {
			issue := RepairIssue{Kind: StagingLeftover, Path: e.Name()}
			if fix {
				if err := os.RemoveAll(path); err != nil {
					return issues, fmt.Errorf("repository: remove staging dir %s: %w", path, err)
				}
				issue.Removed = true
			}
			issues = append(issues, issue)
			continue
		}

		if !looksLikeSdistDir(e.Name()) {
			continue
		}
		if _, err := sdist.Verify(path); err != nil {
			issue := RepairIssue{Kind: InvalidSdist, Path: e.Name()}
			if fix {
				if err := os.RemoveAll(path); err != nil {
					return issues, fmt.Errorf("repository: remove invalid sdist %s: %w", path, err)
				}
				issue.Removed = true
			}
			issues = append(issues, issue)
		}
	}
	return issues, nil
}
