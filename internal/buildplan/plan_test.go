package buildplan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/brickyard-pm/brickyard/internal/sdist"
	"github.com/brickyard-pm/brickyard/internal/toolchain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSdistTree(t *testing.T, name, namespace, version string) *sdist.Sdist {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json5"),
		[]byte(`{"name":"`+name+`","namespace":"`+namespace+`","version":"`+version+`"}`), 0o644))
	touch(t, filepath.Join(dir, "include", name+".hpp"))
	touch(t, filepath.Join(dir, "src", name+".cpp"))
	s, err := sdist.Verify(dir)
	require.NoError(t, err)
	return s
}

func TestBuildLibraryOnlyProducesArchiveAndCompiles(t *testing.T) {
	tc, err := toolchain.Builtin(":gcc")
	require.NoError(t, err)

	lib := writeSdistTree(t, "widgets", "widgets", "1.0.0")
	primary := Unit{Sdist: lib, Params: Params{}}

	plan, err := Build(tc, Layout{Root: t.TempDir()}, primary, nil)
	require.NoError(t, err)

	require.Len(t, plan.Compiles, 1)
	require.Len(t, plan.Archives, 1)
	assert.Empty(t, plan.Links)
	assert.Equal(t, plan.Archives[0].Output, plan.Archives[0].Usage.Archive)
}

func TestBuildAppLinksAgainstDependencyArchives(t *testing.T) {
	tc, err := toolchain.Builtin(":gcc")
	require.NoError(t, err)

	dep := writeSdistTree(t, "widgets", "widgets", "1.0.0")

	appDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(appDir, "package.json5"),
		[]byte(`{"name":"tool","namespace":"tool","version":"1.0.0"}`), 0o644))
	touch(t, filepath.Join(appDir, "apps", "cli.cpp"))
	primarySdist, err := sdist.Verify(appDir)
	require.NoError(t, err)

	primary := Unit{Sdist: primarySdist, Params: Params{BuildApps: true}}
	deps := []Unit{{Sdist: dep, Params: Params{}}}

	plan, err := Build(tc, Layout{Root: t.TempDir()}, primary, deps)
	require.NoError(t, err)

	require.Len(t, plan.Archives, 1, "the dependency's library should produce one archive")
	require.Len(t, plan.Links, 1)
	link := plan.Links[0]
	assert.Equal(t, "cli", link.Name)
	assert.Contains(t, link.Archives, plan.Archives[0].Output)

	require.Len(t, plan.Compiles, 2, "one compile for the dependency's library source, one for the app source")
	var appCompile CompileNode
	for _, c := range plan.Compiles {
		if filepath.Base(c.Source) == "cli.cpp" {
			appCompile = c
		}
	}
	require.NotEmpty(t, appCompile.Source, "expected a compile node for cli.cpp")
	assert.Contains(t, appCompile.IncludePaths, filepath.Join(dep.Dir, "include"),
		"the app's compile command must see the dependency's include directory")
}

func TestBuildSkipsAppsAndTestsWhenNotRequested(t *testing.T) {
	tc, err := toolchain.Builtin(":gcc")
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json5"),
		[]byte(`{"name":"tool","namespace":"tool","version":"1.0.0"}`), 0o644))
	touch(t, filepath.Join(dir, "apps", "cli.cpp"))
	touch(t, filepath.Join(dir, "src", "lib.test.cpp"))
	s, err := sdist.Verify(dir)
	require.NoError(t, err)

	plan, err := Build(tc, Layout{Root: t.TempDir()}, Unit{Sdist: s}, nil)
	require.NoError(t, err)
	assert.Empty(t, plan.Links)
}

func TestBuildEnableWarningsAddsFlags(t *testing.T) {
	tc, err := toolchain.Builtin(":gcc")
	require.NoError(t, err)

	lib := writeSdistTree(t, "widgets", "widgets", "1.0.0")
	primary := Unit{Sdist: lib, Params: Params{EnableWarnings: true}}

	plan, err := Build(tc, Layout{Root: t.TempDir()}, primary, nil)
	require.NoError(t, err)
	require.Len(t, plan.Compiles, 1)
	assert.Contains(t, plan.Compiles[0].Flags, "-Wall")
}
