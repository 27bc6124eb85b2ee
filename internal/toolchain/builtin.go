package toolchain

import (
	"fmt"
	"strings"

	"github.com/brickyard-pm/brickyard/internal/errs"
)

// gccLike implements Toolchain for gcc- and clang-derived compiler drivers,
// which share command-line conventions closely enough to need only the
// driver binary name to vary.
type gccLike struct {
	cc  string
	ar  string
	std string
}

func (g gccLike) CompileCommand(src, out string, includePaths, flags []string) CompileResult {
	depfile := out + ".d"
	cmd := []string{g.cc, "-c", src, "-o", out, "-MMD", "-MF", depfile}
	if g.std != "" {
		cmd = append(cmd, "-std="+g.std)
	}
	for _, p := range includePaths {
		cmd = append(cmd, "-I"+p)
	}
	cmd = append(cmd, flags...)
	return CompileResult{Command: cmd, Depfile: depfile}
}

func (g gccLike) ArchiveCommand(objs []string, out string) []string {
	cmd := []string{g.ar, "rcs", out}
	return append(cmd, objs...)
}

func (g gccLike) LinkCommand(objs, archives []string, out string, flags []string) []string {
	cmd := []string{g.cc, "-o", out}
	cmd = append(cmd, objs...)
	cmd = append(cmd, archives...)
	return append(cmd, flags...)
}

func (gccLike) ArchiveSuffix() string  { return ".a" }
func (gccLike) DepsMode() DepsMode     { return DepsGNU }
func (gccLike) MSVCDepsPrefix() string { return "" }

// msvcLike implements Toolchain for cl.exe-derived drivers.
type msvcLike struct {
	cl         string
	lib        string
	depsPrefix string
}

func (m msvcLike) CompileCommand(src, out string, includePaths, flags []string) CompileResult {
	cmd := []string{m.cl, "/c", src, "/Fo" + out, "/showIncludes"}
	for _, p := range includePaths {
		cmd = append(cmd, "/I"+p)
	}
	cmd = append(cmd, flags...)
	return CompileResult{Command: cmd}
}

func (m msvcLike) ArchiveCommand(objs []string, out string) []string {
	cmd := []string{m.lib, "/OUT:" + out}
	return append(cmd, objs...)
}

func (m msvcLike) LinkCommand(objs, archives []string, out string, flags []string) []string {
	cmd := []string{m.cl, "/Fe" + out}
	cmd = append(cmd, objs...)
	cmd = append(cmd, archives...)
	return append(cmd, flags...)
}

func (msvcLike) ArchiveSuffix() string  { return ".lib" }
func (msvcLike) DepsMode() DepsMode     { return DepsMSVC }
func (m msvcLike) MSVCDepsPrefix() string {
	if m.depsPrefix != "" {
		return m.depsPrefix
	}
	return "Note: including file:"
}

// builtins maps a ":"-prefixed identifier to its descriptor.
var builtins = map[string]Toolchain{
	":gcc":    gccLike{cc: "gcc", ar: "ar"},
	":gcc-9":  gccLike{cc: "gcc-9", ar: "gcc-ar-9"},
	":gcc-10": gccLike{cc: "gcc-10", ar: "gcc-ar-10"},
	":gcc-11": gccLike{cc: "gcc-11", ar: "gcc-ar-11"},
	":gcc-12": gccLike{cc: "gcc-12", ar: "gcc-ar-12"},
	":clang":       gccLike{cc: "clang", ar: "llvm-ar"},
	":clang-cxx17": gccLike{cc: "clang++", ar: "llvm-ar", std: "c++17"},
	":gcc-cxx17":   gccLike{cc: "g++", ar: "gcc-ar", std: "c++17"},
	":msvc":        msvcLike{cl: "cl.exe", lib: "lib.exe"},
}

// Builtin resolves a ":"-prefixed built-in toolchain identifier.
func Builtin(id string) (Toolchain, error) {
	if !strings.HasPrefix(id, ":") {
		return nil, fmt.Errorf("toolchain: %q is not a built-in identifier (must start with ':')", id)
	}
	tc, ok := builtins[id]
	if !ok {
		names := make([]string, 0, len(builtins))
		for k := range builtins {
			names = append(names, k)
		}
		suggestion := errs.Suggest(id, names)
		if suggestion != "" {
			suggestion = " " + suggestion
		}
		return nil, errs.New(errs.InvalidBuiltinToolchain, id, suggestion)
	}
	return tc, nil
}
