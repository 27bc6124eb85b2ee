// Package toolchain abstracts the compiler/archiver/linker driver: an
// opaque value that turns a source file and flags into concrete command
// vectors, and declares how it exposes file-level dependency information.
package toolchain

// DepsMode names how a toolchain surfaces the header files a compilation
// touched.
type DepsMode string

const (
	// DepsNone means the toolchain reports no per-file dependency
	// information; only mtime-based staleness on the source itself applies.
	DepsNone DepsMode = "none"
	// DepsGNU means the compiler is invoked with flags that write a
	// Makefile-fragment depfile alongside the output.
	DepsGNU DepsMode = "gnu"
	// DepsMSVC means the compiler prints "Note: including file: <path>"
	// lines (the prefix is configurable) on its own stdout.
	DepsMSVC DepsMode = "msvc"
)

// CompileResult is what CompileCommand returns: the command vector to run,
// and (for GNU mode) the depfile path it will produce.
type CompileResult struct {
	Command []string
	Depfile string
}

// Toolchain produces the concrete command vectors a build executes.
type Toolchain interface {
	// CompileCommand returns the command that compiles src (a single
	// translation unit) into out, given extra flags and include paths.
	CompileCommand(src, out string, includePaths, flags []string) CompileResult
	// ArchiveCommand returns the command that bundles objs into a static
	// archive at out.
	ArchiveCommand(objs []string, out string) []string
	// LinkCommand returns the command that links objs and archives into
	// the executable at out.
	LinkCommand(objs, archives []string, out string, flags []string) []string
	// ArchiveSuffix is the file extension (including the leading dot) this
	// toolchain's archiver produces, e.g. ".a" or ".lib".
	ArchiveSuffix() string
	// DepsMode reports how this toolchain exposes per-file dependencies.
	DepsMode() DepsMode
	// MSVCDepsPrefix returns the localized "Note: including file:"-style
	// prefix this toolchain's compiler emits. It is meaningful only when
	// DepsMode returns DepsMSVC.
	MSVCDepsPrefix() string
}
