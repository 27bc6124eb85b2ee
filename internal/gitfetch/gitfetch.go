// Package gitfetch implements the git-clone collaborator described in the
// core's external-interfaces boundary: a URL plus a ref materializes into a
// local directory. The core never shells out to git directly; every caller
// that needs a remote source tree goes through a Fetcher.
package gitfetch

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// Fetcher clones or updates a git remote into a local directory.
type Fetcher interface {
	// Clone materializes remote at ref into dir. dir is created if absent;
	// if it already contains a checkout, Clone re-fetches and re-checks out
	// ref rather than re-cloning from scratch.
	Clone(ctx context.Context, remote, ref, dir string) error

	// Tags lists the remote's tags, most callers use this to resolve a
	// version string to the ref that carries it.
	Tags(ctx context.Context, remote string) ([]string, error)

	// Latest returns the remote's HEAD commit hash.
	Latest(ctx context.Context, remote string) (string, error)
}

type gitFetcher struct {
	git string
}

// Option configures a Fetcher.
type Option func(*gitFetcher)

// WithGitPath overrides the git executable resolved from PATH.
func WithGitPath(path string) Option {
	return func(g *gitFetcher) {
		g.git = path
	}
}

// New creates a Fetcher backed by the git CLI.
func New(opts ...Option) Fetcher {
	g := &gitFetcher{git: "git"}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *gitFetcher) Clone(ctx context.Context, remote, ref, dir string) error {
	if err := g.ensureInit(ctx, dir); err != nil {
		return fmt.Errorf("gitfetch: init %s: %w", dir, err)
	}
	log.Debug().Str("remote", remote).Str("ref", ref).Str("dir", dir).Msg("fetching source tree")
	if err := g.fetch(ctx, remote, dir, ref); err != nil {
		return err
	}
	return g.checkout(ctx, dir, "FETCH_HEAD")
}

func (g *gitFetcher) ensureInit(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if _, err := os.Stat(filepath.Join(dir, ".git")); os.IsNotExist(err) {
		return g.run(ctx, dir, "init")
	}
	return nil
}

func (g *gitFetcher) fetch(ctx context.Context, remote, dir, ref string) error {
	args := []string{"fetch", "--depth", "1", remote, ref}
	if err := g.run(ctx, dir, args...); err != nil {
		return fmt.Errorf("gitfetch: fetch %s@%s: %w", remote, ref, err)
	}
	return nil
}

func (g *gitFetcher) checkout(ctx context.Context, dir, ref string) error {
	if err := g.run(ctx, dir, "checkout", ref); err != nil {
		return fmt.Errorf("gitfetch: checkout %s: %w", ref, err)
	}
	return nil
}

func (g *gitFetcher) Tags(ctx context.Context, remote string) ([]string, error) {
	output, err := g.output(ctx, "", "ls-remote", "--tags", "--refs", remote)
	if err != nil {
		return nil, fmt.Errorf("gitfetch: list tags of %s: %w", remote, err)
	}

	output = strings.TrimSpace(output)
	if output == "" {
		return nil, nil
	}

	var tags []string
	for _, line := range strings.Split(output, "\n") {
		// format: <hash>\trefs/tags/<tag>
		parts := strings.Split(line, "\t")
		if len(parts) == 2 {
			tags = append(tags, strings.TrimPrefix(parts[1], "refs/tags/"))
		}
	}
	return tags, nil
}

func (g *gitFetcher) Latest(ctx context.Context, remote string) (string, error) {
	output, err := g.output(ctx, "", "ls-remote", remote, "HEAD")
	if err != nil {
		return "", fmt.Errorf("gitfetch: HEAD of %s: %w", remote, err)
	}

	output = strings.TrimSpace(output)
	if output == "" {
		return "", fmt.Errorf("gitfetch: no HEAD found in remote %s", remote)
	}

	parts := strings.Split(output, "\t")
	if len(parts) < 1 {
		return "", fmt.Errorf("gitfetch: invalid ls-remote output for %s", remote)
	}
	return parts[0], nil
}

func (g *gitFetcher) run(ctx context.Context, dir string, args ...string) error {
	_, err := g.output(ctx, dir, args...)
	return err
}

func (g *gitFetcher) output(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, g.git, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s", msg)
		}
		return "", err
	}
	return stdout.String(), nil
}
