package toolchain

import (
	"os"

	"github.com/brickyard-pm/brickyard/internal/jsonc"
)

// externalDoc is the wire shape of a JSON5 toolchain descriptor file. Each
// command template is an argv array; an entry that is exactly one of the
// placeholders below (%src%, %out%, %includes%, %flags%, %objs%,
// %archives%) is replaced by the corresponding values, and every other
// entry is kept as written. Templates are plain argv entries, not a shell
// format string — brickyard never invokes a shell to run them.
type externalDoc struct {
	Compile        []string `json:"compile_command"`
	Archive        []string `json:"archive_command"`
	Link           []string `json:"link_command"`
	ArchiveSuffix  string   `json:"archive_suffix"`
	DepsMode       string   `json:"deps_mode"`
	MSVCDepsPrefix string   `json:"msvc_deps_prefix"`
}

// external implements Toolchain by substituting placeholders into the
// templates parsed from a JSON5 descriptor file.
type external struct {
	doc externalDoc
}

const (
	phSrc      = "%src%"
	phOut      = "%out%"
	phIncludes = "%includes%"
	phFlags    = "%flags%"
	phObjs     = "%objs%"
	phArchives = "%archives%"
)

func substitute(template []string, subs map[string][]string) []string {
	var out []string
	for _, t := range template {
		if repl, ok := subs[t]; ok {
			out = append(out, repl...)
			continue
		}
		out = append(out, t)
	}
	return out
}

func (e external) CompileCommand(src, out string, includePaths, flags []string) CompileResult {
	includes := make([]string, len(includePaths))
	for i, p := range includePaths {
		includes[i] = "-I" + p
	}
	cmd := substitute(e.doc.Compile, map[string][]string{
		phSrc:      {src},
		phOut:      {out},
		phIncludes: includes,
		phFlags:    flags,
	})
	depfile := ""
	if DepsMode(e.doc.DepsMode) == DepsGNU {
		depfile = out + ".d"
	}
	return CompileResult{Command: cmd, Depfile: depfile}
}

func (e external) ArchiveCommand(objs []string, out string) []string {
	return substitute(e.doc.Archive, map[string][]string{phObjs: objs, phOut: {out}})
}

func (e external) LinkCommand(objs, archives []string, out string, flags []string) []string {
	return substitute(e.doc.Link, map[string][]string{
		phObjs:     objs,
		phArchives: archives,
		phOut:      {out},
		phFlags:    flags,
	})
}

func (e external) ArchiveSuffix() string  { return e.doc.ArchiveSuffix }
func (e external) DepsMode() DepsMode     { return DepsMode(e.doc.DepsMode) }
func (e external) MSVCDepsPrefix() string { return e.doc.MSVCDepsPrefix }

// LoadFile parses a JSON5 toolchain descriptor from path.
func LoadFile(path string) (Toolchain, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc externalDoc
	if err := jsonc.UnmarshalStrict(raw, &doc); err != nil {
		return nil, err
	}
	switch DepsMode(doc.DepsMode) {
	case DepsNone, DepsGNU, DepsMSVC:
	default:
		doc.DepsMode = string(DepsNone)
	}
	return external{doc: doc}, nil
}

// Resolve dispatches a toolchain descriptor string: a ":"-prefixed built-in
// identifier, or a JSON5 file path.
func Resolve(descriptor string) (Toolchain, error) {
	if len(descriptor) > 0 && descriptor[0] == ':' {
		return Builtin(descriptor)
	}
	return LoadFile(descriptor)
}
