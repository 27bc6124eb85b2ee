package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/brickyard-pm/brickyard/internal/catalog"
	"github.com/brickyard-pm/brickyard/internal/env"
	"github.com/brickyard-pm/brickyard/internal/errs"
	"github.com/brickyard-pm/brickyard/internal/gitfetch"
	"github.com/brickyard-pm/brickyard/internal/manifest"
	"github.com/brickyard-pm/brickyard/internal/pkgid"
	"github.com/brickyard-pm/brickyard/internal/repository"
	"github.com/brickyard-pm/brickyard/internal/sdist"
	"github.com/brickyard-pm/brickyard/internal/solver"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Solve dependencies and materialize their sources into the local repository",
	RunE:  runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	m, err := manifest.Load(".")
	if err != nil {
		return err
	}

	c, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	solved, err := solver.Solve(ctx, m.Dependencies, c)
	if err != nil {
		return err
	}

	repoPath, err := env.RepositoryPath()
	if err != nil {
		return err
	}

	return repository.WithRepository(repoPath, repository.WriteLock|repository.CreateIfAbsent, func(repo *repository.Repository) error {
		for _, id := range solved {
			if err := fetchOne(ctx, c, repo, id); err != nil {
				return err
			}
		}
		fmt.Printf("fetched %d package(s) into %s\n", len(solved), repoPath)
		return nil
	})
}

func fetchOne(ctx context.Context, c *catalog.Catalog, repo *repository.Repository, id pkgid.Id) error {
	existing, err := repo.Find(id)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	info, err := c.Get(ctx, id)
	if err != nil {
		return err
	}

	staging, err := os.MkdirTemp("", "brickyard-fetch-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(staging)

	log.Info().Str("package", id.String()).Str("url", info.Remote.URL).Msg("fetching source")
	fetcher := gitfetch.New()
	if err := fetcher.Clone(ctx, info.Remote.URL, info.Remote.Ref, staging); err != nil {
		return err
	}

	if err := ensureManifest(staging, id, info); err != nil {
		return err
	}

	s, err := sdist.Verify(staging)
	if err != nil {
		return err
	}
	return repo.AddSdist(s, repository.IfExistsReplace)
}

// ensureManifest synthesizes a package.json5 for a checkout whose upstream
// carries no native manifest, using the catalog's declared auto-lib name.
// A checkout that already has a manifest is left untouched.
func ensureManifest(dir string, id pkgid.Id, info *catalog.PackageInfo) error {
	if _, err := manifest.Find(dir); err == nil {
		return nil
	}
	if info.Remote.AutoLib == nil {
		return errs.New(errs.NoCatalogRemoteInfo, id.String())
	}

	doc := manifestDoc{
		Name:      info.Remote.AutoLib.Name,
		Namespace: info.Remote.AutoLib.Namespace,
		Version:   id.Version,
		Depends:   map[string]string{},
	}
	for _, dep := range info.Deps {
		doc.Depends[dep.Name] = dep.Range.String()
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "package.json5"), append(data, '\n'), 0o644)
}
