package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/brickyard-pm/brickyard/internal/errs"
	"github.com/brickyard-pm/brickyard/internal/pkgid"
	"github.com/brickyard-pm/brickyard/internal/sdist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProject(t *testing.T, name, version string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json5"),
		[]byte(`{"name":"`+name+`","version":"`+version+`"}`), 0o644))
	return dir
}

func TestAddSdistThenFind(t *testing.T) {
	repoDir := filepath.Join(t.TempDir(), "repo")
	src := writeProject(t, "a", "1.0.0")

	err := WithRepository(repoDir, WriteLock|CreateIfAbsent, func(r *Repository) error {
		s, err := sdist.Verify(src)
		if err != nil {
			return err
		}
		return r.AddSdist(s, IfExistsThrow)
	})
	require.NoError(t, err)

	err = WithRepository(repoDir, Read, func(r *Repository) error {
		found, err := r.Find(pkgid.Id{Name: "a", Version: "1.0.0"})
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "a@1.0.0", found.Id().String())
		return nil
	})
	require.NoError(t, err)
}

func TestAddSdistThrowsWhenExists(t *testing.T) {
	repoDir := filepath.Join(t.TempDir(), "repo")
	src := writeProject(t, "a", "1.0.0")

	add := func() error {
		return WithRepository(repoDir, WriteLock|CreateIfAbsent, func(r *Repository) error {
			s, err := sdist.Verify(src)
			if err != nil {
				return err
			}
			return r.AddSdist(s, IfExistsThrow)
		})
	}
	require.NoError(t, add())

	err := add()
	require.Error(t, err)
	var e *errs.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errs.SdistExists, e.Kind)
}

func TestIterSdistsOrdered(t *testing.T) {
	repoDir := filepath.Join(t.TempDir(), "repo")
	for _, spec := range []struct{ n, v string }{{"b", "1.0.0"}, {"a", "2.0.0"}, {"a", "1.0.0"}} {
		src := writeProject(t, spec.n, spec.v)
		err := WithRepository(repoDir, WriteLock|CreateIfAbsent, func(r *Repository) error {
			s, err := sdist.Verify(src)
			if err != nil {
				return err
			}
			return r.AddSdist(s, IfExistsThrow)
		})
		require.NoError(t, err)
	}

	err := WithRepository(repoDir, Read, func(r *Repository) error {
		all, err := r.IterSdists()
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "a@1.0.0", all[0].Id().String())
		assert.Equal(t, "a@2.0.0", all[1].Id().String())
		assert.Equal(t, "b@1.0.0", all[2].Id().String())
		return nil
	})
	require.NoError(t, err)
}

func TestRepairRemovesStagingAndCorrupted(t *testing.T) {
	repoDir := filepath.Join(t.TempDir(), "repo")
	require.NoError(t, os.MkdirAll(repoDir, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(repoDir, ".sdist-staging-dead"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(repoDir, "a@1.0.0"), 0o755))

	err := WithRepository(repoDir, WriteLock, func(r *Repository) error {
		issues, err := r.Repair(true)
		require.NoError(t, err)
		require.Len(t, issues, 2)
		for _, issue := range issues {
			assert.True(t, issue.Removed)
		}
		return nil
	})
	require.NoError(t, err)
	assert.NoDirExists(t, filepath.Join(repoDir, ".sdist-staging-dead"))
	assert.NoDirExists(t, filepath.Join(repoDir, "a@1.0.0"))
}

func TestRepairDryRunReportsWithoutRemoving(t *testing.T) {
	repoDir := filepath.Join(t.TempDir(), "repo")
	require.NoError(t, os.MkdirAll(repoDir, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(repoDir, ".sdist-staging-dead"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(repoDir, "a@1.0.0"), 0o755))

	err := WithRepository(repoDir, WriteLock, func(r *Repository) error {
		issues, err := r.Repair(false)
		require.NoError(t, err)
		require.Len(t, issues, 2)
		for _, issue := range issues {
			assert.False(t, issue.Removed)
		}
		return nil
	})
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(repoDir, ".sdist-staging-dead"))
	assert.DirExists(t, filepath.Join(repoDir, "a@1.0.0"))
}
