// Package depsdb persists, per build output, the command that produced it
// and the input files the toolchain reported for it, and answers the
// question a build needs before recompiling anything: does this output
// need to be rebuilt at all. It is not the catalog. A caller opens it once
// per build and closes it afterward; the records persist in the database
// file between builds. cmd/brick keeps one such file under its single build
// root, so every project built there shares it.
package depsdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// DB is a per-build record of every compile output's producing command and
// input file list.
type DB struct {
	conn *sql.DB
}

// Record is what the executor writes for one completed compile.
type Record struct {
	Output  string
	Command string
	Inputs  []string
}

// RebuildInfo is what GetRebuildInfo returns for a candidate output.
type RebuildInfo struct {
	PreviousCommand string
	NewerInputs     []string
}

const schema = `
CREATE TABLE IF NOT EXISTS outputs (
	output  TEXT PRIMARY KEY,
	command TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS inputs (
	output TEXT NOT NULL,
	path   TEXT NOT NULL,
	FOREIGN KEY (output) REFERENCES outputs(output) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS inputs_output_idx ON inputs(output);
`

// Open creates or reopens the file-deps database at path, a plain file
// alongside the build's object directory rather than anything under the
// repository's lock discipline — a single build process owns it exclusively.
func Open(ctx context.Context, path string) (*DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("depsdb: open %s: %w", path, err)
	}
	conn.SetMaxOpenConns(1)
	if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("depsdb: enable foreign keys: %w", err)
	}
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("depsdb: create schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close releases the underlying connection.
func (d *DB) Close() error {
	return d.conn.Close()
}

// GetRebuildInfo reports the previously recorded command for output (empty
// if none) and the subset of its recorded inputs whose mtime is strictly
// newer than output's mtime. Callers OR this together with "output does not
// exist" and "command string changed" to decide whether to recompile.
func (d *DB) GetRebuildInfo(ctx context.Context, output string) (RebuildInfo, error) {
	var info RebuildInfo

	err := d.conn.QueryRowContext(ctx,
		"SELECT command FROM outputs WHERE output = ?", output).Scan(&info.PreviousCommand)
	if err == sql.ErrNoRows {
		return info, nil
	}
	if err != nil {
		return RebuildInfo{}, err
	}

	outputStat, err := os.Stat(output)
	if err != nil {
		// Output vanished between the caller's existence check and here;
		// treat every recorded input as newer so the rebuild proceeds.
		outputStat = nil
	}

	rows, err := d.conn.QueryContext(ctx, "SELECT path FROM inputs WHERE output = ?", output)
	if err != nil {
		return RebuildInfo{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return RebuildInfo{}, err
		}
		if outputStat == nil {
			info.NewerInputs = append(info.NewerInputs, path)
			continue
		}
		inputStat, err := os.Stat(path)
		if err != nil {
			// An input that no longer exists has no mtime to compare.
			continue
		}
		if inputStat.ModTime().After(outputStat.ModTime()) {
			info.NewerInputs = append(info.NewerInputs, path)
		}
	}
	return info, rows.Err()
}

// ShouldRebuild applies the OR of the four rebuild conditions to a candidate
// compile job: missing output, no prior record, newer inputs, or a changed
// command string.
func ShouldRebuild(output, command string, info RebuildInfo) bool {
	if _, err := os.Stat(output); err != nil {
		return true
	}
	if info.PreviousCommand == "" {
		return true
	}
	if len(info.NewerInputs) > 0 {
		return true
	}
	return info.PreviousCommand != command
}

// WriteAll replaces every output's record inside a single transaction, as
// the executor does once at the end of a successful build.
func (d *DB) WriteAll(ctx context.Context, records []Record) error {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, r := range records {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO outputs (output, command) VALUES (?, ?)
			 ON CONFLICT(output) DO UPDATE SET command = excluded.command`,
			r.Output, r.Command); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM inputs WHERE output = ?", r.Output); err != nil {
			return err
		}
		for _, in := range r.Inputs {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO inputs (output, path) VALUES (?, ?)", r.Output, in); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}
