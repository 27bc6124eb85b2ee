// Package env resolves the on-disk locations the core reads and writes when
// the caller does not override them: the catalog database, the source
// repository, and scratch space for staging.
package env

import (
	"os"
	"path/filepath"
)

// WorkDir returns the root directory under which all brickyard state lives,
// <UserCacheDir>/.brickyard. It does not create the directory.
func WorkDir() (string, error) {
	userCacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userCacheDir, ".brickyard"), nil
}

// CatalogPath returns the default location of the catalog database.
func CatalogPath() (string, error) {
	dir, err := WorkDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "catalog.db"), nil
}

// RepositoryPath returns the default location of the source-distribution
// repository.
func RepositoryPath() (string, error) {
	dir, err := WorkDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "repository"), nil
}

// EnsureWorkDir creates WorkDir (and its parents) with owner-only
// permissions if it does not already exist.
func EnsureWorkDir() (string, error) {
	dir, err := WorkDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}
