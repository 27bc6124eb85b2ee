package sdist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/brickyard-pm/brickyard/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json5"),
		[]byte(`{"name":"a","namespace":"a","version":"1.2.3"}`), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "x.cpp"), []byte("int x;\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me\n"), 0o644))
	return dir
}

func TestCreateRoundTrip(t *testing.T) {
	src := writeProject(t)
	dest := filepath.Join(t.TempDir(), "out")

	s, err := Create(src, dest, false)
	require.NoError(t, err)
	assert.Equal(t, "a@1.2.3", s.Id().String())

	assert.FileExists(t, filepath.Join(dest, "package.json5"))
	assert.FileExists(t, filepath.Join(dest, "src", "x.cpp"))
	assert.NoFileExists(t, filepath.Join(dest, "notes.txt"))

	s2, err := Verify(dest)
	require.NoError(t, err)
	assert.Equal(t, s.Id(), s2.Id())
}

func TestCreateWithoutForceFailsIfExists(t *testing.T) {
	src := writeProject(t)
	dest := filepath.Join(t.TempDir(), "out")

	_, err := Create(src, dest, false)
	require.NoError(t, err)

	_, err = Create(src, dest, false)
	require.Error(t, err)
	var e *errs.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errs.SdistExists, e.Kind)
}

func TestCreateForceReplaces(t *testing.T) {
	src := writeProject(t)
	dest := filepath.Join(t.TempDir(), "out")

	_, err := Create(src, dest, false)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dest, "stray.txt"), []byte("x"), 0o644))

	_, err = Create(src, dest, true)
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(dest, "stray.txt"), "replace must remove the prior tree")
}
