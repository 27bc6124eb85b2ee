// Package solver resolves a set of version-range requirements against a
// catalog into a concrete, deterministic set of package versions.
//
// The algorithm is a non-backtracking worklist walk in the shape of
// minimal version selection: for each package name it accumulates the
// intersection of every range seen so far and greedily selects the highest
// catalog version inside it. It never revisits a selection once made — if a
// later edge narrows a name's range below what was already selected, that
// is a hard failure rather than a re-solve.
package solver

import (
	"context"

	"github.com/brickyard-pm/brickyard/internal/catalog"
	"github.com/brickyard-pm/brickyard/internal/errs"
	"github.com/brickyard-pm/brickyard/internal/pkgid"
)

// Source is the catalog surface the solver needs: enumerate every known
// version of a package by name.
type Source interface {
	ByName(ctx context.Context, name string) ([]catalog.PackageInfo, error)
}

type edge struct {
	name   string
	rng    pkgid.VersionRange
	parent string
}

// Solve resolves roots against source, returning the transitive closure in
// leaves-first topological order. Given the same source and the same roots
// it always returns byte-identical output.
func Solve(ctx context.Context, roots []pkgid.Dependency, source Source) ([]pkgid.Id, error) {
	accumulated := map[string]pkgid.VersionRange{}
	parentOf := map[string]string{}
	selected := map[string]pkgid.Id{}
	depsOf := map[string][]string{}

	worklist := make([]edge, 0, len(roots))
	rootNames := make([]string, 0, len(roots))
	for _, d := range roots {
		worklist = append(worklist, edge{name: d.Name, rng: d.Range, parent: "<root>"})
		rootNames = append(rootNames, d.Name)
	}

	for len(worklist) > 0 {
		e := worklist[0]
		worklist = worklist[1:]

		newRange := e.rng
		if cur, ok := accumulated[e.name]; ok {
			inter, ok2 := cur.Intersect(e.rng)
			if !ok2 {
				return nil, errs.New(errs.DependencyResolveFailure, e.name, describeReq(parentOf[e.name], cur), describeReq(e.parent, e.rng))
			}
			newRange = inter
		}
		accumulated[e.name] = newRange

		if sel, ok := selected[e.name]; ok {
			if !newRange.Contains(sel.Version) {
				return nil, errs.New(errs.DependencyResolveFailure, e.name, describeReq(parentOf[e.name], accumulated[e.name]), describeReq(e.parent, e.rng))
			}
			parentOf[e.name] = e.parent
			continue
		}

		candidates, err := source.ByName(ctx, e.name)
		if err != nil {
			return nil, err
		}
		best := pickHighest(candidates, newRange)
		if best == nil {
			return nil, errs.New(errs.NoSuchCatalogPackage, e.name, "")
		}

		selected[e.name] = best.Id
		parentOf[e.name] = e.parent

		names := make([]string, 0, len(best.Deps))
		for _, dep := range best.Deps {
			names = append(names, dep.Name)
			worklist = append(worklist, edge{name: dep.Name, rng: dep.Range, parent: best.Id.String()})
		}
		depsOf[e.name] = names
	}

	return topoOrder(rootNames, selected, depsOf), nil
}

func pickHighest(candidates []catalog.PackageInfo, r pkgid.VersionRange) *catalog.PackageInfo {
	var best *catalog.PackageInfo
	for i := range candidates {
		c := &candidates[i]
		if !r.Contains(c.Id.Version) {
			continue
		}
		if best == nil || pkgid.CompareVersions(c.Id.Version, best.Id.Version) > 0 {
			best = c
		}
	}
	return best
}

// topoOrder walks the selected dependency graph depth-first from roots,
// emitting each name after its dependencies (leaves first). Dependency
// lists are already in a stable order (catalog dependency rows are ordered
// by name), so the walk is deterministic.
func topoOrder(roots []string, selected map[string]pkgid.Id, depsOf map[string][]string) []pkgid.Id {
	visited := map[string]bool{}
	order := make([]pkgid.Id, 0, len(selected))

	var visit func(name string)
	visit = func(name string) {
		if visited[name] {
			return
		}
		visited[name] = true
		for _, d := range depsOf[name] {
			visit(d)
		}
		order = append(order, selected[name])
	}
	for _, r := range roots {
		visit(r)
	}
	return order
}

func describeReq(parent string, r pkgid.VersionRange) string {
	if parent == "" {
		parent = "<root>"
	}
	return parent + " requiring " + r.String()
}
