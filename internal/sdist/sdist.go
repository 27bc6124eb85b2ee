// Package sdist implements the source-distribution handle: an in-memory
// view of an unpacked, immutable package tree on disk.
package sdist

import (
	"os"
	"path/filepath"

	"github.com/brickyard-pm/brickyard/internal/errs"
	"github.com/brickyard-pm/brickyard/internal/manifest"
	"github.com/brickyard-pm/brickyard/internal/pkgid"
	"github.com/google/uuid"
)

// Sdist is a handle to an unpacked source tree plus its parsed manifest.
// Sdists are immutable once created; nothing in this package mutates Dir
// after Create returns.
type Sdist struct {
	Dir      string
	Manifest *manifest.Manifest
}

// Id returns the sdist's identity, as declared by its manifest.
func (s *Sdist) Id() pkgid.Id {
	return s.Manifest.Id
}

// Create locates and validates srcDir's manifest, then copies the declared
// subset of files (sources, headers, the manifest itself, license-like
// files) into destDir. If destDir already exists and force is false, it
// fails with SdistExists; if force is true the destination is replaced
// atomically via a rename-through-temp-directory swap.
func Create(srcDir, destDir string, force bool) (*Sdist, error) {
	if _, err := manifest.Load(srcDir); err != nil {
		return nil, err
	}

	if _, err := os.Stat(destDir); err == nil {
		if !force {
			return nil, errs.New(errs.SdistExists, destDir)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	parent := filepath.Dir(destDir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return nil, err
	}
	staging := filepath.Join(parent, ".sdist-staging-"+uuid.NewString())
	if err := copyTree(srcDir, staging); err != nil {
		os.RemoveAll(staging)
		return nil, err
	}

	if _, err := os.Stat(destDir); err == nil {
		if err := os.RemoveAll(destDir); err != nil {
			os.RemoveAll(staging)
			return nil, err
		}
	}
	if err := os.Rename(staging, destDir); err != nil {
		os.RemoveAll(staging)
		return nil, err
	}

	return Verify(destDir)
}

// Verify re-parses the manifest from an existing tree at dir. The parsed
// PackageId is the sdist's identity.
func Verify(dir string) (*Sdist, error) {
	m, err := manifest.Load(dir)
	if err != nil {
		return nil, err
	}
	return &Sdist{Dir: dir, Manifest: m}, nil
}
