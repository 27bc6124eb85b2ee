// Package repository implements the on-disk directory of source
// distributions: a lock file guarding concurrent writers, and the
// add/find/iterate operations over the sdists it holds.
package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/brickyard-pm/brickyard/internal/errs"
	"github.com/brickyard-pm/brickyard/internal/lockfile"
	"github.com/brickyard-pm/brickyard/internal/pkgid"
	"github.com/brickyard-pm/brickyard/internal/sdist"
	"github.com/rs/zerolog/log"
)

// Mode is a bitset of access flags passed to WithRepository.
type Mode uint8

const (
	// Read grants a shared lock: enumerate and read sdists.
	Read Mode = 1 << iota
	// WriteLock grants an exclusive lock: add or remove sdists.
	WriteLock
	// CreateIfAbsent creates the repository directory if it does not exist.
	// It composes with either Read or WriteLock.
	CreateIfAbsent
)

// IfExists governs AddSdist's behavior when the destination already holds
// an sdist.
type IfExists int

const (
	IfExistsThrow IfExists = iota
	IfExistsReplace
	IfExistsIgnore
)

// Repository is a handle to a locked repository directory. It is valid only
// for the duration of the WithRepository call that produced it: do not
// retain it past that call's return.
type Repository struct {
	root string
	mode Mode
}

// WithRepository is the sole entry point onto a repository: it acquires the
// lock implied by mode, invokes fn with a handle, and releases the lock on
// every exit path, including a panic unwinding through fn.
func WithRepository(path string, mode Mode, fn func(*Repository) error) error {
	if mode&CreateIfAbsent != 0 {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("repository: create %s: %w", path, err)
		}
	}

	m := lockfile.At(filepath.Join(path, ".lock"))
	exclusive := mode&WriteLock != 0
	var (
		unlock lockfile.Unlock
		err    error
	)
	if exclusive {
		unlock, err = m.Lock()
	} else {
		unlock, err = m.RLock()
	}
	if err != nil {
		return err
	}
	log.Debug().Str("path", path).Bool("exclusive", exclusive).Msg("acquired repository lock")
	defer unlock()

	return fn(&Repository{root: path, mode: mode})
}

// AddSdist stages sdist s into a temp directory under the repository root,
// then renames it into place. ifExists governs the destination-already-
// exists case: Throw fails with SdistExists, Replace removes the prior
// directory before renaming, Ignore is a silent no-op.
func (r *Repository) AddSdist(s *sdist.Sdist, ifExists IfExists) error {
	if r.mode&WriteLock == 0 {
		return fmt.Errorf("repository: AddSdist requires WriteLock")
	}
	dest := r.pathFor(s.Id())
	if _, err := os.Stat(dest); err == nil {
		switch ifExists {
		case IfExistsThrow:
			return errs.New(errs.SdistExists, dest)
		case IfExistsIgnore:
			return nil
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	_, err := sdist.Create(s.Dir, dest, ifExists == IfExistsReplace)
	return err
}

// Find returns the sdist named id, or (nil, nil) if the repository holds no
// such sdist.
func (r *Repository) Find(id pkgid.Id) (*sdist.Sdist, error) {
	dest := r.pathFor(id)
	if _, err := os.Stat(dest); os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return sdist.Verify(dest)
}

// IterSdists enumerates every sdist currently in the repository, ordered by
// PackageId. Entries that fail to verify (a partially written or corrupted
// directory) are skipped rather than aborting the whole enumeration; use
// Repair to reconcile them.
func (r *Repository) IterSdists() ([]*sdist.Sdist, error) {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		return nil, fmt.Errorf("repository: list %s: %w", r.root, err)
	}

	var out []*sdist.Sdist
	for _, e := range entries {
		if !e.IsDir() || !looksLikeSdistDir(e.Name()) {
			continue
		}
		s, err := sdist.Verify(filepath.Join(r.root, e.Name()))
		if err != nil {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id().Less(out[j].Id()) })
	return out, nil
}

func (r *Repository) pathFor(id pkgid.Id) string {
	return filepath.Join(r.root, id.String())
}

// looksLikeSdistDir reports whether name could be a PackageId's textual
// form: it excludes the lock file and leftover staging directories from a
// crashed AddSdist.
func looksLikeSdistDir(name string) bool {
	if name == ".lock" {
		return false
	}
	_, err := pkgid.Parse(name)
	return err == nil
}
