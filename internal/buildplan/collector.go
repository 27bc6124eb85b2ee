package buildplan

import (
	"os"
	"path/filepath"
	"strings"
)

// FileSet is the classification of one source tree's files, per the rules
// the planner applies before building any nodes.
type FileSet struct {
	Headers        []string
	LibrarySources []string
	TestSources    []string
	AppSources     []string
}

var headerExts = map[string]bool{".hpp": true, ".h": true}
var sourceExts = map[string]bool{".cpp": true, ".c": true}

// Collect walks root and classifies every file it finds:
//
//   - *.hpp/*.h under include/ or src/ are headers.
//   - *.cpp/*.c under src/ are library sources, unless the basename ends in
//     ".test.cpp"/".test.c" (a test) or ".main.cpp"/".main.c" (an application).
//   - Any *.cpp/*.c under apps/ is always an application, regardless of name.
//
// Collect is the planner's only filesystem interaction; everything after it
// operates on the in-memory FileSet.
func Collect(root string) (FileSet, error) {
	var fs FileSet

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		ext := filepath.Ext(path)

		switch {
		case headerExts[ext] && (underDir(rel, "include") || underDir(rel, "src")):
			fs.Headers = append(fs.Headers, rel)
		case sourceExts[ext] && underDir(rel, "apps"):
			fs.AppSources = append(fs.AppSources, rel)
		case sourceExts[ext] && underDir(rel, "src"):
			switch classifySrc(rel) {
			case kindTest:
				fs.TestSources = append(fs.TestSources, rel)
			case kindApp:
				fs.AppSources = append(fs.AppSources, rel)
			default:
				fs.LibrarySources = append(fs.LibrarySources, rel)
			}
		}
		return nil
	})
	if err != nil {
		return FileSet{}, err
	}
	return fs, nil
}

type srcKind int

const (
	kindLibrary srcKind = iota
	kindTest
	kindApp
)

func classifySrc(rel string) srcKind {
	base := filepath.Base(rel)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	switch {
	case strings.HasSuffix(stem, ".test"):
		return kindTest
	case strings.HasSuffix(stem, ".main"):
		return kindApp
	default:
		return kindLibrary
	}
}

func underDir(rel, dir string) bool {
	return rel == dir || strings.HasPrefix(rel, dir+"/")
}
