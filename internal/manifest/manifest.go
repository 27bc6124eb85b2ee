// Package manifest reads and validates the in-tree package manifest: the
// file that declares a project's own identity and what it depends on.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/brickyard-pm/brickyard/internal/errs"
	"github.com/brickyard-pm/brickyard/internal/jsonc"
	"github.com/brickyard-pm/brickyard/internal/pkgid"
)

// TestDriver names the test harness a project's test sources are written
// against.
type TestDriver string

const (
	DriverNone      TestDriver = ""
	DriverCatch     TestDriver = "Catch"
	DriverCatchMain TestDriver = "Catch-Main"
)

// Manifest is the parsed, validated form of a project's package manifest.
type Manifest struct {
	Id           pkgid.Id
	Namespace    string
	Dependencies []pkgid.Dependency
	TestDriver   TestDriver

	// Path is the file this manifest was loaded from, kept for diagnostics.
	Path string
	// Legacy is true when Path is a .dds key=value manifest.
	Legacy bool
}

// candidateNames lists the manifest filenames Find probes for, in
// preference order.
var candidateNames = []string{"package.json5", "package.jsonc", "package.json", "package.dds"}

// Find locates the manifest in dir, preferring package.json5 over .jsonc
// over .json over the legacy .dds form.
func Find(dir string) (string, error) {
	for _, name := range candidateNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("no package manifest found in %s (looked for %v)", dir, candidateNames)
}

// Load locates and parses the manifest in dir.
func Load(dir string) (*Manifest, error) {
	path, err := Find(dir)
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile parses the manifest at path, dispatching on its extension.
func LoadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if filepath.Ext(path) == ".dds" {
		return parseLegacy(path, data)
	}
	return parseJSONWithComments(path, data)
}

// doc is the wire shape of the JSON-with-comments manifest.
type doc struct {
	Name       string            `json:"name"`
	Namespace  string            `json:"namespace"`
	Version    string            `json:"version"`
	Depends    map[string]string `json:"depends"`
	TestDriver string            `json:"test_driver"`
}

func parseJSONWithComments(path string, raw []byte) (*Manifest, error) {
	var d doc
	if err := jsonc.UnmarshalStrict(raw, &d); err != nil {
		return nil, errs.New(errs.InvalidPkgManifest, path, err.Error())
	}
	return fromDoc(path, false, d)
}

func fromDoc(path string, legacy bool, d doc) (*Manifest, error) {
	if d.Name == "" {
		return nil, errs.New(errs.InvalidPkgManifest, path, "missing required field \"name\"")
	}
	if d.Version == "" {
		return nil, errs.New(errs.InvalidPkgManifest, path, "missing required field \"version\"")
	}
	version, err := pkgid.ParseVersion(d.Version)
	if err != nil {
		return nil, errs.New(errs.InvalidPkgManifest, path, err.Error())
	}
	if err := pkgid.ValidateName(d.Name); err != nil {
		return nil, errs.New(errs.InvalidPkgManifest, path, err.Error())
	}

	namespace := d.Namespace
	if namespace == "" {
		namespace = d.Name
	}

	driver, err := parseTestDriver(path, d.TestDriver)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(d.Depends))
	for name := range d.Depends {
		names = append(names, name)
	}
	sort.Strings(names)

	deps := make([]pkgid.Dependency, 0, len(names))
	for _, name := range names {
		rangeStr := d.Depends[name]
		r, err := pkgid.ParseRangeString(rangeStr)
		if err != nil {
			return nil, errs.New(errs.InvalidPkgManifest, path, fmt.Sprintf("dependency %q: %s", name, err))
		}
		if err := pkgid.ValidateName(name); err != nil {
			return nil, errs.New(errs.InvalidPkgManifest, path, err.Error())
		}
		deps = append(deps, pkgid.Dependency{Name: name, Range: r})
	}

	return &Manifest{
		Id:           pkgid.Id{Name: d.Name, Version: version},
		Namespace:    namespace,
		Dependencies: deps,
		TestDriver:   driver,
		Path:         path,
		Legacy:       legacy,
	}, nil
}

func parseTestDriver(path, s string) (TestDriver, error) {
	switch TestDriver(s) {
	case DriverNone, DriverCatch, DriverCatchMain:
		return TestDriver(s), nil
	default:
		return "", errs.New(errs.UnknownTestDriver, s)
	}
}
