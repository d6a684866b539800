package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	ggitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"

	ferrors "git.home.luguber.info/inful/htmlgen/internal/foundation/errors"
	"git.home.luguber.info/inful/htmlgen/internal/logfields"
	"git.home.luguber.info/inful/htmlgen/internal/retry"
)

// Repository describes the remote to mirror.
type Repository struct {
	URL    string
	Branch string
	// Depth limits clone and fetch history; zero fetches everything.
	Depth int
}

// Client syncs repositories into a directory.
type Client struct {
	dir      string
	progress io.Writer
	retry    retry.Policy
}

// NewClient returns a client that checks repositories out into dir.
func NewClient(dir string) *Client { return &Client{dir: dir} }

// WithProgress streams remote progress output to w.
func (c *Client) WithProgress(w io.Writer) *Client { c.progress = w; return c }

// WithRetry retries transient clone and fetch failures under p.
func (c *Client) WithRetry(p retry.Policy) *Client { c.retry = p; return c }

// Dir is the checkout directory.
func (c *Client) Dir() string { return c.dir }

// Sync clones repo when the checkout is missing and updates it otherwise. It
// returns the commit the worktree is at.
func (c *Client) Sync(ctx context.Context, repo Repository) (plumbing.Hash, error) {
	if repo.URL == "" {
		return plumbing.ZeroHash, ferrors.ValidationError("content repository url is empty").Build()
	}
	var head plumbing.Hash
	err := c.retry.Do(ctx, "git sync", isPermanent, func(ctx context.Context) error {
		var err error
		head, err = c.sync(ctx, repo)
		return err
	})
	return head, err
}

func (c *Client) sync(ctx context.Context, repo Repository) (plumbing.Hash, error) {
	if _, err := os.Stat(filepath.Join(c.dir, ".git")); err != nil {
		slog.Debug("Content repository missing, cloning", logfields.Path(c.dir))
		return c.clone(ctx, repo)
	}
	return c.update(ctx, repo)
}

func (c *Client) clone(ctx context.Context, repo Repository) (plumbing.Hash, error) {
	slog.Info("Cloning content repository", logfields.URL(repo.URL), logfields.Branch(repo.Branch), logfields.Path(c.dir))
	if err := os.RemoveAll(c.dir); err != nil {
		return plumbing.ZeroHash, ferrors.FileSystemError("failed to clear checkout directory").
			WithContext("path", c.dir).WithCause(err).Build()
	}

	opts := &git.CloneOptions{URL: repo.URL, Progress: c.progress, Tags: git.NoTags}
	if repo.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(repo.Branch)
		opts.SingleBranch = true
	}
	if repo.Depth > 0 {
		opts.Depth = repo.Depth
	}
	repository, err := git.PlainCloneContext(ctx, c.dir, false, opts)
	if err != nil {
		return plumbing.ZeroHash, classify("clone", repo.URL, err)
	}
	head, err := repository.Head()
	if err != nil {
		return plumbing.ZeroHash, classify("head", repo.URL, err)
	}
	slog.Info("Content repository cloned", logfields.URL(repo.URL), slog.String("commit", short(head.Hash())))
	return head.Hash(), nil
}

func (c *Client) update(ctx context.Context, repo Repository) (plumbing.Hash, error) {
	repository, err := git.PlainOpen(c.dir)
	if err != nil {
		return plumbing.ZeroHash, classify("open", repo.URL, err)
	}
	wt, err := repository.Worktree()
	if err != nil {
		return plumbing.ZeroHash, classify("worktree", repo.URL, err)
	}

	fetch := &git.FetchOptions{
		RemoteName: "origin",
		Tags:       git.NoTags,
		RefSpecs:   []ggitcfg.RefSpec{"+refs/heads/*:refs/remotes/origin/*"},
		Progress:   c.progress,
	}
	if repo.Depth > 0 {
		fetch.Depth = repo.Depth
	}
	if err := repository.FetchContext(ctx, fetch); err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return plumbing.ZeroHash, classify("fetch", repo.URL, err)
	}

	branch := resolveTargetBranch(repository, repo)
	remote, err := repository.Reference(plumbing.NewRemoteReferenceName("origin", branch), true)
	if err != nil {
		return plumbing.ZeroHash, ferrors.GitError("remote branch not found").
			WithContext("url", repo.URL).WithContext("branch", branch).WithCause(err).Build()
	}

	local := plumbing.NewBranchReferenceName(branch)
	_, lerr := repository.Reference(local, true)
	if err := wt.Checkout(&git.CheckoutOptions{Branch: local, Create: lerr != nil, Hash: remoteHashIf(lerr != nil, remote), Force: true}); err != nil {
		return plumbing.ZeroHash, classify("checkout", repo.URL, err)
	}

	before, _ := repository.Head()
	if before != nil && before.Hash() != remote.Hash() {
		if ok, _ := isAncestor(repository, before.Hash(), remote.Hash()); !ok {
			slog.Warn("Content checkout diverged from remote, resetting", logfields.Branch(branch), slog.String("local", short(before.Hash())))
		}
	}
	if err := wt.Reset(&git.ResetOptions{Commit: remote.Hash(), Mode: git.HardReset}); err != nil {
		return plumbing.ZeroHash, classify("reset", repo.URL, err)
	}

	if before != nil && before.Hash() == remote.Hash() {
		slog.Debug("Content repository already up-to-date", logfields.Branch(branch), slog.String("commit", short(remote.Hash())))
	} else {
		slog.Info("Content repository updated", logfields.Branch(branch), slog.String("commit", short(remote.Hash())))
	}
	return remote.Hash(), nil
}

// resolveTargetBranch picks the configured branch, then the current HEAD
// branch, then the remote default, then "main".
func resolveTargetBranch(repository *git.Repository, repo Repository) string {
	if repo.Branch != "" {
		return repo.Branch
	}
	if head, err := repository.Head(); err == nil && head.Name().IsBranch() {
		return head.Name().Short()
	}
	if ref, err := repository.Reference(plumbing.NewRemoteHEADReferenceName("origin"), false); err == nil && ref.Target() != "" {
		return plumbing.ReferenceName(ref.Target()).Short()
	}
	return "main"
}

func remoteHashIf(create bool, remote *plumbing.Reference) plumbing.Hash {
	if create {
		return remote.Hash()
	}
	return plumbing.ZeroHash
}

func isAncestor(repo *git.Repository, a, b plumbing.Hash) (bool, error) {
	if a == b {
		return true, nil
	}
	seen := map[plumbing.Hash]struct{}{}
	queue := []plumbing.Hash{b}
	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		if h == a {
			return true, nil
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		commit, err := repo.CommitObject(h)
		if err != nil {
			return false, err
		}
		queue = append(queue, commit.ParentHashes...)
	}
	return false, nil
}

func short(h plumbing.Hash) string { return h.String()[:8] }

// isPermanent reports failures a retry cannot fix.
func isPermanent(err error) bool {
	switch {
	case ferrors.HasCategory(err, ferrors.CategoryNotFound),
		ferrors.HasCategory(err, ferrors.CategoryValidation),
		errors.Is(err, transport.ErrRepositoryNotFound),
		errors.Is(err, transport.ErrAuthenticationRequired),
		errors.Is(err, transport.ErrAuthorizationFailed),
		errors.Is(err, transport.ErrInvalidAuthMethod):
		return true
	}
	return false
}

func classify(op, url string, err error) error {
	msg := fmt.Sprintf("git %s failed", op)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, git.ErrRepositoryNotExists), errors.Is(err, transport.ErrRepositoryNotFound):
		return ferrors.NewError(ferrors.CategoryNotFound, msg).
			WithContext("url", url).WithCause(err).Build()
	}
	return ferrors.GitError(msg).WithContext("url", url).WithCause(err).Build()
}
