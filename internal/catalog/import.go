package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/brickyard-pm/brickyard/internal/errs"
	"github.com/brickyard-pm/brickyard/internal/pkgid"
)

type importDoc struct {
	Version  int                            `json:"version"`
	Packages map[string]map[string]importPkg `json:"packages"`
}

type importPkg struct {
	Depends     map[string]string `json:"depends"`
	Git         *importGit        `json:"git"`
	Description string            `json:"description"`
}

type importGit struct {
	URL     string `json:"url"`
	Ref     string `json:"ref"`
	AutoLib string `json:"auto-lib"`
}

// ImportJSON parses and stores the catalog import document described by the
// wire format in the external-interfaces documentation: a versioned map of
// package name to version to package entry. The whole import executes in a
// single transaction — either every package lands or none does.
func (c *Catalog) ImportJSON(ctx context.Context, text []byte) error {
	var doc importDoc
	dec := json.NewDecoder(bytes.NewReader(text))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return errs.New(errs.InvalidCatalogJSON, "", err.Error())
	}

	if doc.Version > currentImportVersion {
		return errs.New(errs.CatalogTooNew, "<import>", doc.Version, currentImportVersion)
	}

	infos, err := validateImport(doc)
	if err != nil {
		return err
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("catalog: begin import: %w", err)
	}
	defer tx.Rollback()

	for _, info := range infos {
		if err := storeTx(ctx, tx, info); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// currentImportVersion is the highest "version" field this build accepts in
// a catalog import document.
const currentImportVersion = 1

func validateImport(doc importDoc) ([]PackageInfo, error) {
	var infos []PackageInfo
	for name, versions := range doc.Packages {
		if err := pkgid.ValidateName(name); err != nil {
			return nil, errs.New(errs.InvalidCatalogJSON, fmt.Sprintf("/packages/%s", name), err.Error())
		}
		for version, pkg := range versions {
			path := fmt.Sprintf("/packages/%s/%s", name, version)
			v, err := pkgid.ParseVersion(version)
			if err != nil {
				return nil, errs.New(errs.InvalidCatalogJSON, path, err.Error())
			}
			id := pkgid.Id{Name: name, Version: v}

			if pkg.Git == nil {
				return nil, errs.New(errs.NoCatalogRemoteInfo, id.String())
			}
			if (pkg.Git.URL == "") != (pkg.Git.Ref == "") {
				return nil, errs.New(errs.GitURLRefMutualReq, id.String())
			}

			remote := RemoteListing{URL: pkg.Git.URL, Ref: pkg.Git.Ref}
			if pkg.Git.AutoLib != "" {
				ns, nm, ok := splitAutoLib(pkg.Git.AutoLib)
				if !ok {
					return nil, errs.New(errs.InvalidCatalogJSON, path+"/git/auto-lib",
						fmt.Sprintf("expected \"namespace/name\", got %q", pkg.Git.AutoLib))
				}
				remote.AutoLib = &AutoLib{Namespace: ns, Name: nm}
			}

			deps := make([]pkgid.Dependency, 0, len(pkg.Depends))
			for depName, rangeStr := range pkg.Depends {
				if err := pkgid.ValidateName(depName); err != nil {
					return nil, errs.New(errs.InvalidCatalogJSON, path+"/depends/"+depName, err.Error())
				}
				r, err := pkgid.ParseRangeString(rangeStr)
				if err != nil {
					return nil, errs.New(errs.InvalidCatalogJSON, path+"/depends/"+depName, err.Error())
				}
				deps = append(deps, pkgid.Dependency{Name: depName, Range: r})
			}

			infos = append(infos, PackageInfo{
				Id:          id,
				Deps:        deps,
				Description: pkg.Description,
				Remote:      remote,
			})
		}
	}
	return infos, nil
}

func splitAutoLib(s string) (namespace, name string, ok bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == '/' {
			return s[:i], s[i+1:], s[:i] != "" && s[i+1:] != ""
		}
	}
	return "", "", false
}
