package ingest

import (
	"context"
	stderrors "errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/matzehuels/impactriver/pkg/errors"
)

// LogFormat is the git log pretty format understood by [ParseLog].
const LogFormat = "--format=" + commitMarker + "%n%ct%n%aN%n%aE"

// GitClient reads history from a repository.
// The interface lets ingest be tested without a git executable.
type GitClient interface {
	// Log returns the raw output of git log in [LogFormat] with --numstat.
	Log(ctx context.Context, repo string) ([]byte, error)

	// Head returns the commit hash HEAD points to.
	Head(ctx context.Context, repo string) (string, error)
}

// LocalGitClient runs the git binary found in PATH.
type LocalGitClient struct {
	// Binary overrides the executable name. Empty means "git".
	Binary string
}

var _ GitClient = (*LocalGitClient)(nil)

// NewLocalGitClient creates a client for the local git binary.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes git with args in repo and returns its stdout.
func (c *LocalGitClient) Run(ctx context.Context, repo string, args ...string) ([]byte, error) {
	bin := c.Binary
	if bin == "" {
		bin = "git"
	}
	fullArgs := append([]string{"-C", repo}, args...)
	out, err := exec.CommandContext(ctx, bin, fullArgs...).Output()
	if err == nil {
		return out, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
		msg := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git %s failed: %s: %w", strings.Join(args, " "), msg, err)
	}
	if stderrors.Is(err, exec.ErrNotFound) {
		return nil, errors.Wrap(errors.ErrCodeUnsupported, err, "git is not installed or not in PATH")
	}
	return nil, fmt.Errorf("run git: %w", err)
}

// Log implements [GitClient].
func (c *LocalGitClient) Log(ctx context.Context, repo string) ([]byte, error) {
	return c.Run(ctx, repo, "log", "--full-history", LogFormat, "--numstat")
}

// Head implements [GitClient].
func (c *LocalGitClient) Head(ctx context.Context, repo string) (string, error) {
	out, err := c.Run(ctx, repo, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("resolve HEAD of %s: %w", repo, err)
	}
	return strings.TrimSpace(string(out)), nil
}
