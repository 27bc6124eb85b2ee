package gitfetch

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// newLocalRemote creates a bare-adjacent local git repository with one commit
// tagged v1.0.0, so tests never touch the network.
func newLocalRemote(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoErrorf(t, err, "git %v: %s", args, out)
	}
	run("init", "-q")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "test")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("hello\n"), 0o644))
	run("add", "README")
	run("commit", "-q", "-m", "initial")
	run("tag", "v1.0.0")
	return dir
}

func TestFetcher_CloneAndCheckout(t *testing.T) {
	remote := newLocalRemote(t)
	f := New()
	ctx := context.Background()

	dest := filepath.Join(t.TempDir(), "checkout")
	require.NoError(t, f.Clone(ctx, remote, "v1.0.0", dest))

	data, err := exec.Command("git", "-C", dest, "log", "-1", "--format=%s").Output()
	require.NoError(t, err)
	require.Contains(t, string(data), "initial")
}

func TestFetcher_Tags(t *testing.T) {
	remote := newLocalRemote(t)
	f := New()

	tags, err := f.Tags(context.Background(), remote)
	require.NoError(t, err)
	require.Contains(t, tags, "v1.0.0")
}

func TestFetcher_Latest(t *testing.T) {
	remote := newLocalRemote(t)
	f := New()

	hash, err := f.Latest(context.Background(), remote)
	require.NoError(t, err)
	require.Len(t, hash, 40)
}
