package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	ggitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/htmlgen/internal/config"
)

// contentRemote returns a bare repository holding posts/<name>.
func contentRemote(t *testing.T, name, data string) string {
	t.Helper()
	tmp := t.TempDir()
	bare := filepath.Join(tmp, "remote.git")
	_, err := gogit.PlainInit(bare, true)
	require.NoError(t, err)

	seedPath := filepath.Join(tmp, "seed")
	seed, err := gogit.PlainInit(seedPath, false)
	require.NoError(t, err)
	_, err = seed.CreateRemote(&ggitcfg.RemoteConfig{Name: "origin", URLs: []string{bare}})
	require.NoError(t, err)

	rel := filepath.Join("posts", name)
	require.NoError(t, os.MkdirAll(filepath.Join(seedPath, "posts"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(seedPath, rel), []byte(data), 0o600))
	wt, err := seed.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(filepath.ToSlash(rel))
	require.NoError(t, err)
	_, err = wt.Commit("add post", &gogit.CommitOptions{Author: &object.Signature{Name: "tester", Email: "t@example.com", When: time.Now()}})
	require.NoError(t, err)
	require.NoError(t, seed.Push(&gogit.PushOptions{RemoteName: "origin"}))
	return bare
}

func TestGenerateWatchClonesRepositoryBeforeWatching(t *testing.T) {
	bare := contentRemote(t, "1515045199828.foo-post.md", "---\ntitle: Foo Post\n---\nfoo\n")
	dest := t.TempDir()
	retries := 0

	cfg := config.Default()
	cfg.Content.Dir = "posts"
	cfg.Content.Repository = &config.RepositoryConfig{URL: bare, Workspace: t.TempDir(), Retries: &retries}
	cfg.Output.Destination = dest

	p, err := (&GenerateCmd{Watch: true}).plan(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(t.Context(), 3*time.Second)
	defer cancel()
	require.NoError(t, runGenerate(ctx, p, &Global{}))

	assert.DirExists(t, filepath.Join(cfg.Content.Repository.Workspace, "content", "posts"))
	assert.FileExists(t, filepath.Join(dest, "posts", "foo-post", "index.html"))
}

func TestGenerateWatchMissingRepository(t *testing.T) {
	retries := 0
	cfg := config.Default()
	cfg.Content.Dir = "posts"
	cfg.Content.Repository = &config.RepositoryConfig{URL: filepath.Join(t.TempDir(), "missing.git"), Workspace: t.TempDir(), Retries: &retries}
	cfg.Output.Destination = t.TempDir()

	p, err := (&GenerateCmd{Watch: true}).plan(cfg)
	require.NoError(t, err)
	require.Error(t, runGenerate(t.Context(), p, &Global{}))
}
