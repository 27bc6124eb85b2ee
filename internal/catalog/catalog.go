// Package catalog implements the persistent relational store of package
// metadata: identity, remote source location, and the transitive dependency
// constraints the solver consumes.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/brickyard-pm/brickyard/internal/pkgid"
	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// AutoLib is the "namespace/name" pair a catalog entry may declare for a
// package whose upstream source tree carries no native manifest.
type AutoLib struct {
	Namespace string
	Name      string
}

// RemoteListing describes where a package's source lives. Git is the only
// kind implemented; the field is a value type today, but callers should
// treat RemoteListing as an open set keyed on kind (see Kind).
type RemoteListing struct {
	URL     string
	Ref     string
	AutoLib *AutoLib
}

// Kind reports the remote's dispatch tag. Only "git" exists today.
func (RemoteListing) Kind() string { return "git" }

// PackageInfo is one catalog entry: an identity, its dependency edges, a
// human description, and where to fetch its source.
type PackageInfo struct {
	Id          pkgid.Id
	Deps        []pkgid.Dependency
	Description string
	Remote      RemoteListing
}

// Catalog is an open handle to the metadata store. The zero value is not
// usable; construct one with Open.
type Catalog struct {
	db   *sql.DB
	path string
}

// Open opens (creating if absent) the catalog database at path, or an
// in-memory database when path is ":memory:". It applies any pending schema
// migrations before returning.
func Open(ctx context.Context, path string) (*Catalog, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("catalog: create parent directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	// SQLite allows exactly one writer; a single pooled connection avoids
	// SQLITE_BUSY contention between connections that would otherwise race
	// on the same file lock.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: enable foreign keys: %w", err)
	}
	if path != ":memory:" {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("catalog: enable WAL mode: %w", err)
		}
	}

	c := &Catalog{db: db, path: path}
	if err := c.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// Close releases the underlying database connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}
