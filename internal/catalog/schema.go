package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/brickyard-pm/brickyard/internal/errs"
	"github.com/rs/zerolog/log"
)

// currentSchemaVersion is the schema version this build understands.
// Opening a catalog written by a newer build fails with CatalogTooNew.
const currentSchemaVersion = 1

// migrations holds the DDL to apply when upgrading from version i-1 to
// version i; migrations[0] takes a catalog with no meta row at all to
// version 1.
var migrations = []string{
	`
	CREATE TABLE meta (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	CREATE TABLE packages (
		name         TEXT NOT NULL,
		version      TEXT NOT NULL,
		git_url      TEXT,
		git_ref      TEXT,
		lm_namespace TEXT,
		lm_name      TEXT,
		description  TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (name, version),
		CHECK ((git_url IS NULL) = (git_ref IS NULL)),
		CHECK ((lm_namespace IS NULL) = (lm_name IS NULL))
	);
	CREATE TABLE dependencies (
		pkg_name    TEXT NOT NULL,
		pkg_version TEXT NOT NULL,
		dep_name    TEXT NOT NULL,
		low         TEXT NOT NULL,
		high        TEXT NOT NULL,
		FOREIGN KEY (pkg_name, pkg_version) REFERENCES packages(name, version) ON DELETE CASCADE
	);
	CREATE INDEX dependencies_pkg_idx ON dependencies(pkg_name, pkg_version);
	`,
}

func (c *Catalog) migrate(ctx context.Context) error {
	version, err := c.schemaVersion(ctx)
	if err != nil {
		return errs.New(errs.CorruptedCatalogDB, c.path, err.Error())
	}
	if version > currentSchemaVersion {
		return errs.New(errs.CatalogTooNew, c.path, version, currentSchemaVersion)
	}
	if version == currentSchemaVersion {
		return nil
	}

	log.Info().
		Str("path", c.path).
		Int("from", version).
		Int("to", currentSchemaVersion).
		Msg("migrating catalog schema")

	for v := version; v < currentSchemaVersion; v++ {
		tx, err := c.db.BeginTx(ctx, nil)
		if err != nil {
			return errs.New(errs.CorruptedCatalogDB, c.path, err.Error())
		}
		if _, err := tx.ExecContext(ctx, migrations[v]); err != nil {
			tx.Rollback()
			return errs.New(errs.CorruptedCatalogDB, c.path, err.Error())
		}
		if err := setSchemaVersion(ctx, tx, v+1); err != nil {
			tx.Rollback()
			return errs.New(errs.CorruptedCatalogDB, c.path, err.Error())
		}
		if err := tx.Commit(); err != nil {
			return errs.New(errs.CorruptedCatalogDB, c.path, err.Error())
		}
		log.Debug().Str("path", c.path).Int("version", v+1).Msg("applied catalog migration")
	}
	return nil
}

// schemaVersion reads the stored schema version, treating a database with
// no "meta" table yet (a brand new file) as version 0.
func (c *Catalog) schemaVersion(ctx context.Context) (int, error) {
	var name string
	err := c.db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name='meta'").Scan(&name)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var raw string
	err = c.db.QueryRowContext(ctx, "SELECT value FROM meta WHERE key='schema_version'").Scan(&raw)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var version int
	if _, err := fmt.Sscanf(raw, "%d", &version); err != nil {
		return 0, fmt.Errorf("unreadable schema_version %q: %w", raw, err)
	}
	return version, nil
}

func setSchemaVersion(ctx context.Context, tx *sql.Tx, version int) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES ('schema_version', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		fmt.Sprintf("%d", version))
	return err
}
