package sdist

import (
	"os"
	"path/filepath"
	"strings"
)

// manifestNames holds the same file names manifest.Find probes for, as an
// unordered set (preference order is manifest.Find's concern). The identity
// between the two lists is load-bearing: every name manifest.Find looks for
// must be here, or the manifest is not copied into the sdist.
var manifestNames = map[string]bool{
	"package.json5": true,
	"package.jsonc": true,
	"package.json":  true,
	"package.dds":   true,
}

var sourceExts = map[string]bool{
	".h": true, ".hpp": true, ".hh": true, ".hxx": true,
	".c": true, ".cpp": true, ".cc": true, ".cxx": true,
}

var licenseNames = map[string]bool{
	"LICENSE": true, "LICENSE.txt": true, "LICENSE.md": true,
	"COPYING": true, "COPYING.txt": true, "NOTICE": true,
}

// shouldCopy reports whether the entry at rel (relative to the source
// root) belongs in an sdist: the manifest, source/header files, and
// license-like files at any depth.
func shouldCopy(rel string) bool {
	base := filepath.Base(rel)
	if manifestNames[base] || licenseNames[base] {
		return true
	}
	return sourceExts[strings.ToLower(filepath.Ext(base))]
}

// copyTree walks srcDir and copies every file shouldCopy accepts into
// destDir, preserving relative structure. destDir must not yet exist.
func copyTree(srcDir, destDir string) error {
	return filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return os.MkdirAll(destDir, 0o755)
		}
		if info.IsDir() {
			return nil
		}
		if !shouldCopy(rel) {
			return nil
		}
		dst := filepath.Join(destDir, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		return copyFile(path, dst)
	})
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, info.Mode().Perm())
}
