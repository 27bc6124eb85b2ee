// Package buildplan turns a resolved set of source distributions into a
// pure, in-memory build graph: compile nodes for every translation unit,
// one archive node per library, and one link node per application or test
// binary. It never touches the filesystem beyond the initial source-tree
// enumeration, and it produces no side effects — the executor is what
// actually runs anything.
package buildplan

import (
	"path/filepath"

	"github.com/brickyard-pm/brickyard/internal/pkgid"
	"github.com/brickyard-pm/brickyard/internal/sdist"
	"github.com/brickyard-pm/brickyard/internal/toolchain"
)

// Params are the per-sdist build knobs a caller supplies. BuildApps and
// BuildTests are honored only for the primary unit; a dependency sdist
// never has its apps or tests built, regardless of these flags.
type Params struct {
	Subdir         string
	BuildApps      bool
	BuildTests     bool
	EnableWarnings bool
}

// Unit pairs a source distribution with the parameters to build it under.
type Unit struct {
	Sdist  *sdist.Sdist
	Params Params
}

// LibraryUsage is what a library archive exposes to whatever links against
// it: the include paths a consumer needs on its compile line, and the
// archive file itself.
type LibraryUsage struct {
	IncludePaths []string
	Archive      string
}

// CompileNode compiles one translation unit into one object file.
type CompileNode struct {
	OwnerId      pkgid.Id
	Source       string
	Output       string
	IncludePaths []string
	Flags        []string
}

// ArchiveNode bundles a library's object files into a static archive.
type ArchiveNode struct {
	OwnerId LibraryOwner
	Objects []string
	Output  string
	Usage   LibraryUsage
}

// LibraryOwner names the library an archive/link node belongs to, for
// diagnostics and for the interchange index writer.
type LibraryOwner struct {
	Id        pkgid.Id
	Namespace string
	Name      string
}

// LinkNode links an application or test's object files, plus every
// library archive it may depend on, into an executable.
type LinkNode struct {
	OwnerId  pkgid.Id
	Name     string
	Output   string
	Objects  []string
	Archives []string
	Usage    []LibraryUsage
	IsTest   bool
}

// Plan is the complete, unordered build graph. The executor is responsible
// for running Compiles in parallel and Archives/Links serially afterward,
// respecting the implicit dependency of each Archive on its Compiles and
// each Link on its Archives.
type Plan struct {
	Compiles []CompileNode
	Archives []ArchiveNode
	Links    []LinkNode
}

// Layout computes the output paths a plan's nodes write to, from a single
// build-output root. It performs no filesystem I/O of its own.
type Layout struct {
	Root string
}

func (l Layout) objectPath(id pkgid.Id, rel string) string {
	return filepath.Join(l.Root, id.String(), "obj", rel+".o")
}

func (l Layout) archivePath(id pkgid.Id, tc toolchain.Toolchain) string {
	return filepath.Join(l.Root, id.String(), "lib", "lib"+id.Name+tc.ArchiveSuffix())
}

func (l Layout) binaryPath(id pkgid.Id, name string) string {
	return filepath.Join(l.Root, id.String(), "bin", name)
}

// unitFiles pairs an already-collected file set with the unit and root it
// came from, so Build can compute the full include-path set before it emits
// a single compile node.
type unitFiles struct {
	unit  Unit
	root  string
	files FileSet
}

// Build constructs the DAG for primary plus every already-solved dependency
// unit in deps. deps is expected in the solver's leaves-first order, but
// Build does not depend on that order: every library unit's include paths
// are made available to every compile node, and every library's archive is
// made available to every link node, since the solved set already is the
// transitive closure — there is no direct-vs-transitive distinction worth
// preserving here.
func Build(tc toolchain.Toolchain, layout Layout, primary Unit, deps []Unit) (*Plan, error) {
	plan := &Plan{}

	all := make([]unitFiles, 0, len(deps)+1)
	for _, dep := range deps {
		root := filepath.Join(dep.Sdist.Dir, dep.Params.Subdir)
		files, err := Collect(root)
		if err != nil {
			return nil, err
		}
		all = append(all, unitFiles{unit: dep, root: root, files: files})
	}

	primaryRoot := filepath.Join(primary.Sdist.Dir, primary.Params.Subdir)
	primaryFiles, err := Collect(primaryRoot)
	if err != nil {
		return nil, err
	}
	all = append(all, unitFiles{unit: primary, root: primaryRoot, files: primaryFiles})

	var libIncludes []string
	for _, uf := range all {
		if len(uf.files.LibrarySources) > 0 {
			libIncludes = append(libIncludes, includePaths(uf.root)...)
		}
	}

	var usage []LibraryUsage
	for _, uf := range all {
		if len(uf.files.LibrarySources) == 0 {
			continue
		}
		usage = append(usage, addLibrary(plan, tc, layout, uf.unit, uf.root, uf.files, libIncludes))
	}

	id := primary.Sdist.Id()
	flags := compileFlags(primary.Params)
	executableIncludes := append(append([]string{}, includePaths(primaryRoot)...), libIncludes...)

	if primary.Params.BuildTests {
		for _, rel := range primaryFiles.TestSources {
			addExecutable(plan, tc, layout, id, primaryRoot, rel, executableIncludes, flags, usage, true)
		}
	}
	if primary.Params.BuildApps {
		for _, rel := range primaryFiles.AppSources {
			addExecutable(plan, tc, layout, id, primaryRoot, rel, executableIncludes, flags, usage, false)
		}
	}

	return plan, nil
}

// addLibrary appends unit's library compile+archive nodes to plan and
// returns the LibraryUsage a dependent should see. compileIncludes is the
// full include-path set every one of unit's own compile nodes builds
// against (its own headers plus every other library unit's), while the
// returned LibraryUsage exposes only unit's own headers, matching what a
// consumer actually needs on its own compile line.
func addLibrary(plan *Plan, tc toolchain.Toolchain, layout Layout, unit Unit, root string, files FileSet, compileIncludes []string) LibraryUsage {
	id := unit.Sdist.Id()
	ownIncludes := includePaths(root)
	flags := compileFlags(unit.Params)

	objects := make([]string, 0, len(files.LibrarySources))
	for _, rel := range files.LibrarySources {
		out := layout.objectPath(id, rel)
		plan.Compiles = append(plan.Compiles, CompileNode{
			OwnerId:      id,
			Source:       filepath.Join(root, rel),
			Output:       out,
			IncludePaths: compileIncludes,
			Flags:        flags,
		})
		objects = append(objects, out)
	}

	archivePath := layout.archivePath(id, tc)
	usage := LibraryUsage{IncludePaths: ownIncludes, Archive: archivePath}

	owner := LibraryOwner{Id: id, Namespace: unit.Sdist.Manifest.Namespace, Name: unit.Sdist.Manifest.Id.Name}
	plan.Archives = append(plan.Archives, ArchiveNode{
		OwnerId: owner,
		Objects: objects,
		Output:  archivePath,
		Usage:   usage,
	})
	return usage
}

func addExecutable(plan *Plan, tc toolchain.Toolchain, layout Layout, id pkgid.Id, root, rel string, includes, flags []string, usage []LibraryUsage, isTest bool) {
	name := executableName(rel)
	out := layout.objectPath(id, rel)
	plan.Compiles = append(plan.Compiles, CompileNode{
		OwnerId:      id,
		Source:       filepath.Join(root, rel),
		Output:       out,
		IncludePaths: includes,
		Flags:        flags,
	})

	var archives []string
	for _, u := range usage {
		archives = append(archives, u.Archive)
	}

	plan.Links = append(plan.Links, LinkNode{
		OwnerId:  id,
		Name:     name,
		Output:   layout.binaryPath(id, name),
		Objects:  []string{out},
		Archives: archives,
		Usage:    usage,
		IsTest:   isTest,
	})
}

func includePaths(root string) []string {
	return []string{filepath.Join(root, "include"), filepath.Join(root, "src")}
}

func compileFlags(p Params) []string {
	if p.EnableWarnings {
		return []string{"-Wall", "-Wextra"}
	}
	return nil
}

func executableName(rel string) string {
	base := filepath.Base(rel)
	ext := filepath.Ext(base)
	stem := base[:len(base)-len(ext)]
	for _, suffix := range []string{".test", ".main"} {
		if len(stem) > len(suffix) && stem[len(stem)-len(suffix):] == suffix {
			return stem[:len(stem)-len(suffix)]
		}
	}
	return stem
}
