// Package gitrepo drives the external git binary for the bootstrap
// synchronizer. Every operation is a thin wrapper over a git subcommand;
// any non-zero exit surfaces as a CommandError carrying the captured
// stderr.
package gitrepo

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// RunFunc executes one git invocation in dir and returns its stdout.
// Implementations must return a *CommandError for non-zero exits.
type RunFunc func(dir string, args ...string) (string, error)

// Git runs git subcommands. The zero of this type is not usable; construct
// it with New or, in tests, NewWithRunner.
type Git struct {
	run RunFunc
}

// New returns a Git backed by the git binary on PATH.
func New() *Git {
	return &Git{run: runGit}
}

// NewWithRunner returns a Git backed by a custom runner (for testing).
func NewWithRunner(run RunFunc) *Git {
	return &Git{run: run}
}

func runGit(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return stdout.String(), &CommandError{
			Args:     args,
			Dir:      dir,
			ExitCode: exitCode,
			Stderr:   strings.TrimSpace(stderr.String()),
			Cause:    err,
		}
	}

	return stdout.String(), nil
}

// RemoteURL returns the HTTPS clone URL for org/name.
func RemoteURL(org, name string) string {
	return fmt.Sprintf("https://github.com/%s/%s.git", org, name)
}

// AuthenticatedRemoteURL embeds an access token into the HTTPS clone URL so
// pushes work without ambient git credentials.
func AuthenticatedRemoteURL(org, name, token string) string {
	return fmt.Sprintf("https://x-access-token:%s@github.com/%s/%s.git", token, org, name)
}

// Clone clones url into dir, removing any stale directory first. Tags are
// not fetched; bootstrap only ever needs branch heads.
func (g *Git) Clone(url, dir string) (*WorkingCopy, error) {
	if err := os.RemoveAll(dir); err != nil {
		return nil, fmt.Errorf("failed to clear clone target: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dir), 0755); err != nil {
		return nil, fmt.Errorf("failed to create clone parent: %w", err)
	}

	if _, err := g.run("", "clone", "--no-tags", url, dir); err != nil {
		return nil, err
	}

	return &WorkingCopy{git: g, dir: dir}, nil
}

// Open returns a handle on an existing clone without touching it.
func (g *Git) Open(dir string) *WorkingCopy {
	return &WorkingCopy{git: g, dir: dir}
}

// IsClone reports whether dir looks like the root of an existing clone.
func IsClone(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil && info.IsDir()
}

// WorkingCopy is a checked-out clone that bootstrap mutates and pushes.
type WorkingCopy struct {
	git *Git
	dir string
}

// Dir returns the working copy root.
func (w *WorkingCopy) Dir() string {
	return w.dir
}

// SetOriginURL points origin at url. Run on every pass so a previously
// cloned copy picks up URL changes, token rotation included.
func (w *WorkingCopy) SetOriginURL(url string) error {
	_, err := w.git.run(w.dir, "remote", "set-url", "origin", url)
	return err
}

// Fetch updates remote-tracking branches, pruning deleted ones.
func (w *WorkingCopy) Fetch() error {
	_, err := w.git.run(w.dir, "fetch", "origin", "--prune")
	return err
}

// SetIdentity configures the committer identity for this repository only;
// the global git config is never touched.
func (w *WorkingCopy) SetIdentity(name, email string) error {
	if _, err := w.git.run(w.dir, "config", "user.name", name); err != nil {
		return err
	}
	_, err := w.git.run(w.dir, "config", "user.email", email)
	return err
}

// ResetToRemoteHead forces the working copy onto the remote head of branch,
// discarding local commits, modifications and untracked files.
func (w *WorkingCopy) ResetToRemoteHead(branch string) error {
	remote := "origin/" + branch
	if _, err := w.git.run(w.dir, "checkout", "-B", branch, remote); err != nil {
		return err
	}
	if _, err := w.git.run(w.dir, "reset", "--hard", remote); err != nil {
		return err
	}
	_, err := w.git.run(w.dir, "clean", "-ffd")
	return err
}

// HasChanges reports whether the working tree differs from HEAD.
func (w *WorkingCopy) HasChanges() (bool, error) {
	out, err := w.git.run(w.dir, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// CommitAndPush stages everything, commits with message and pushes branch
// to origin, setting the upstream.
func (w *WorkingCopy) CommitAndPush(branch, message string) error {
	if _, err := w.git.run(w.dir, "add", "-A"); err != nil {
		return err
	}
	if _, err := w.git.run(w.dir, "commit", "-m", message); err != nil {
		return err
	}
	_, err := w.git.run(w.dir, "push", "-u", "origin", branch)
	return err
}
