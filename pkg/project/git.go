/*Package project reads advisory metadata from a project checkout:
git revision info, project settings and the config template schema.

The coordinator treats all of this as opaque defaults; nothing here
gates job execution.
*/
package project

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/voidshard/slipway/pkg/errors"
)

// GitMetadata describes the current state of a local git checkout.
type GitMetadata struct {
	Name      string `json:"name"`
	RemoteURL string `json:"remote_url"`
	Branch    string `json:"branch"`
	CommitSHA string `json:"commit_sha"`
}

// runGit is swapped out in tests.
var runGit = func(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	return strings.TrimSpace(string(out)), err
}

// ReadGitMetadata extracts {remote url, branch, commit} from the repo at
// the given path. A missing origin remote leaves RemoteURL empty rather
// than failing; a path that isn't a git repo at all is an error.
func ReadGitMetadata(ctx context.Context, path string) (*GitMetadata, error) {
	sha, err := runGit(ctx, path, "rev-parse", "HEAD")
	if err != nil {
		return nil, fmt.Errorf("%w not a git repository: %s", errors.ErrInvalidArg, path)
	}

	branch, err := runGit(ctx, path, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil || branch == "HEAD" {
		// detached head
		branch = "detached"
	}

	// no origin is fine, we just can't clone remotely
	remote, _ := runGit(ctx, path, "remote", "get-url", "origin")

	return &GitMetadata{
		Name:      filepath.Base(path),
		RemoteURL: remote,
		Branch:    branch,
		CommitSHA: sha,
	}, nil
}
