package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/brickyard-pm/brickyard/internal/errs"
	"github.com/brickyard-pm/brickyard/internal/pkgid"
)

// Store upserts a package's identity, remote, and description, replacing
// its dependency edges, all in one transaction.
func (c *Catalog) Store(ctx context.Context, info PackageInfo) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("catalog: begin store: %w", err)
	}
	defer tx.Rollback()

	if err := storeTx(ctx, tx, info); err != nil {
		return err
	}
	return tx.Commit()
}

// storeTx performs the upsert-plus-replace-dependencies work of Store
// against an already-open transaction, so ImportJSON can store many
// packages under one commit.
func storeTx(ctx context.Context, tx *sql.Tx, info PackageInfo) error {
	var gitURL, gitRef, lmNamespace, lmName sql.NullString
	if info.Remote.URL != "" || info.Remote.Ref != "" {
		gitURL = sql.NullString{String: info.Remote.URL, Valid: true}
		gitRef = sql.NullString{String: info.Remote.Ref, Valid: true}
	}
	if info.Remote.AutoLib != nil {
		lmNamespace = sql.NullString{String: info.Remote.AutoLib.Namespace, Valid: true}
		lmName = sql.NullString{String: info.Remote.AutoLib.Name, Valid: true}
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO packages (name, version, git_url, git_ref, lm_namespace, lm_name, description)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name, version) DO UPDATE SET
			git_url = excluded.git_url,
			git_ref = excluded.git_ref,
			lm_namespace = excluded.lm_namespace,
			lm_name = excluded.lm_name,
			description = excluded.description`,
		info.Id.Name, info.Id.Version, gitURL, gitRef, lmNamespace, lmName, info.Description)
	if err != nil {
		return fmt.Errorf("catalog: store %s: %w", info.Id, err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM dependencies WHERE pkg_name = ? AND pkg_version = ?",
		info.Id.Name, info.Id.Version); err != nil {
		return fmt.Errorf("catalog: clear dependencies of %s: %w", info.Id, err)
	}
	for _, dep := range info.Deps {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO dependencies (pkg_name, pkg_version, dep_name, low, high) VALUES (?, ?, ?, ?, ?)`,
			info.Id.Name, info.Id.Version, dep.Name, dep.Range.Low, dep.Range.High); err != nil {
			return fmt.Errorf("catalog: store dependency %s of %s: %w", dep.Name, info.Id, err)
		}
	}
	return nil
}

// Get returns the stored PackageInfo for id, or a NoSuchCatalogPackage error
// carrying a "did you mean?" suggestion drawn from the full id list.
func (c *Catalog) Get(ctx context.Context, id pkgid.Id) (*PackageInfo, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT git_url, git_ref, lm_namespace, lm_name, description
		FROM packages WHERE name = ? AND version = ?`, id.Name, id.Version)

	var gitURL, gitRef, lmNamespace, lmName sql.NullString
	var description string
	err := row.Scan(&gitURL, &gitRef, &lmNamespace, &lmName, &description)
	if err == sql.ErrNoRows {
		suggestion, sErr := c.suggestID(ctx, id)
		if sErr != nil {
			return nil, sErr
		}
		return nil, errs.New(errs.NoSuchCatalogPackage, id.String(), suggestion)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: get %s: %w", id, err)
	}

	deps, err := c.DependenciesOf(ctx, id)
	if err != nil {
		return nil, err
	}

	info := &PackageInfo{
		Id:          id,
		Deps:        deps,
		Description: description,
		Remote:      RemoteListing{URL: gitURL.String, Ref: gitRef.String},
	}
	if lmName.Valid {
		info.Remote.AutoLib = &AutoLib{Namespace: lmNamespace.String, Name: lmName.String}
	}
	return info, nil
}

// DependenciesOf returns id's dependency edges, ordered by dependency name.
func (c *Catalog) DependenciesOf(ctx context.Context, id pkgid.Id) ([]pkgid.Dependency, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT dep_name, low, high FROM dependencies
		WHERE pkg_name = ? AND pkg_version = ? ORDER BY dep_name`, id.Name, id.Version)
	if err != nil {
		return nil, fmt.Errorf("catalog: dependencies of %s: %w", id, err)
	}
	defer rows.Close()

	var deps []pkgid.Dependency
	for rows.Next() {
		var name, low, high string
		if err := rows.Scan(&name, &low, &high); err != nil {
			return nil, fmt.Errorf("catalog: scan dependency of %s: %w", id, err)
		}
		deps = append(deps, pkgid.Dependency{Name: name, Range: pkgid.VersionRange{Low: low, High: high}})
	}
	return deps, rows.Err()
}

// All enumerates every package in the catalog, ordered by name then version.
func (c *Catalog) All(ctx context.Context) ([]PackageInfo, error) {
	return c.query(ctx, "SELECT name, version FROM packages ORDER BY name, version")
}

// ByName enumerates every version of name in the catalog, ordered by
// version.
func (c *Catalog) ByName(ctx context.Context, name string) ([]PackageInfo, error) {
	return c.query(ctx, "SELECT name, version FROM packages WHERE name = ? ORDER BY version", name)
}

func (c *Catalog) query(ctx context.Context, query string, args ...any) ([]PackageInfo, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog: query: %w", err)
	}
	var ids []pkgid.Id
	for rows.Next() {
		var name, version string
		if err := rows.Scan(&name, &version); err != nil {
			rows.Close()
			return nil, fmt.Errorf("catalog: scan id: %w", err)
		}
		ids = append(ids, pkgid.Id{Name: name, Version: version})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })

	infos := make([]PackageInfo, 0, len(ids))
	for _, id := range ids {
		info, err := c.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		infos = append(infos, *info)
	}
	return infos, nil
}

// allIDStrings collects every package identity's textual form, for
// suggestion purposes.
func (c *Catalog) allIDStrings(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, "SELECT name, version FROM packages")
	if err != nil {
		return nil, fmt.Errorf("catalog: list ids: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name, version string
		if err := rows.Scan(&name, &version); err != nil {
			return nil, err
		}
		out = append(out, pkgid.Id{Name: name, Version: version}.String())
	}
	return out, rows.Err()
}

func (c *Catalog) suggestID(ctx context.Context, id pkgid.Id) (string, error) {
	all, err := c.allIDStrings(ctx)
	if err != nil {
		return "", err
	}
	suggestion := errs.Suggest(id.String(), all)
	if suggestion == "" {
		return "", nil
	}
	return " " + suggestion, nil
}
