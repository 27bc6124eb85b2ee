package toolchain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/brickyard-pm/brickyard/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinResolvesGcc(t *testing.T) {
	tc, err := Builtin(":gcc")
	require.NoError(t, err)
	assert.Equal(t, DepsGNU, tc.DepsMode())
	assert.Equal(t, ".a", tc.ArchiveSuffix())

	result := tc.CompileCommand("main.c", "main.o", []string{"include"}, []string{"-Wall"})
	assert.Contains(t, result.Command, "-Iinclude")
	assert.Contains(t, result.Command, "-Wall")
	assert.Equal(t, "main.o.d", result.Depfile)
}

func TestBuiltinUnknownSuggestsClosest(t *testing.T) {
	_, err := Builtin(":gc")
	require.Error(t, err)
	var e *errs.Error
	require.ErrorAs(t, err, &e)
	assert.Contains(t, e.Explanation(), ":gcc")
}

func TestBuiltinRejectsNonColonPrefixed(t *testing.T) {
	_, err := Builtin("gcc")
	require.Error(t, err)
}

func TestMSVCDepsPrefixDefaultsAndOverrides(t *testing.T) {
	tc, err := Builtin(":msvc")
	require.NoError(t, err)
	assert.Equal(t, "Note: including file:", tc.MSVCDepsPrefix())
	assert.Equal(t, DepsMSVC, tc.DepsMode())

	custom := msvcLike{cl: "cl.exe", lib: "lib.exe", depsPrefix: "Remarque : inclusion du fichier"}
	assert.Equal(t, "Remarque : inclusion du fichier", custom.MSVCDepsPrefix())
}

func TestLoadFileParsesJSON5Descriptor(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toolchain.json5")
	src := `{
		// a custom cross toolchain
		"compile_command": ["arm-cc", "-c", "%src%", "-o", "%out%", "%includes%", "%flags%"],
		"archive_command": ["arm-ar", "rcs", "%out%", "%objs%"],
		"link_command": ["arm-cc", "-o", "%out%", "%objs%", "%archives%", "%flags%"],
		"archive_suffix": ".a",
		"deps_mode": "gnu"
	}`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	tc, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, DepsGNU, tc.DepsMode())
	assert.Equal(t, ".a", tc.ArchiveSuffix())

	result := tc.CompileCommand("a.c", "a.o", []string{"inc"}, []string{"-O2"})
	assert.Equal(t, []string{"arm-cc", "-c", "a.c", "-o", "a.o", "-Iinc", "-O2"}, result.Command)
	assert.Equal(t, "a.o.d", result.Depfile)
}

func TestResolveDispatchesOnColonPrefix(t *testing.T) {
	tc, err := Resolve(":gcc")
	require.NoError(t, err)
	assert.Equal(t, DepsGNU, tc.DepsMode())
}

func TestMatrixCombinationsRequireOnly(t *testing.T) {
	m := &Matrix{Require: map[string][]string{
		"arch":   {"x86_64", "arm64"},
		"config": {"debug", "release"},
	}}
	combos := m.Combinations()
	assert.Len(t, combos, 4)
	assert.Equal(t, 4, m.CombinationCount())
	assert.Contains(t, combos, "arch=x86_64-config=debug")
	assert.Contains(t, combos, "arch=arm64-config=release")
}

func TestMatrixCombinationsOptionalNotExpandedByDefault(t *testing.T) {
	m := &Matrix{
		Require: map[string][]string{"config": {"debug", "release"}},
		Options: map[string][]string{"sanitizer": {"asan", "ubsan"}},
	}
	assert.Len(t, m.Combinations(), 2)
}

func TestMatrixCombinationsWithSelectedOptions(t *testing.T) {
	m := &Matrix{
		Require: map[string][]string{"config": {"debug", "release"}},
		Options: map[string][]string{"sanitizer": {"asan", "ubsan"}},
	}
	combos := m.CombinationsWith(map[string]bool{"sanitizer": true})
	assert.Len(t, combos, 4)
}
