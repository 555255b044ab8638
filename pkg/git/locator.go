package git

import (
	"path/filepath"
	"strings"

	"github.com/grovekit/grove/pkg/errors"
)

// ResolveRoot returns the main repository root for dir, even when dir is
// inside a linked worktree. The naive --show-toplevel answer points at the
// worktree itself, so the shared metadata directory (--git-common-dir) is
// consulted and comes back in one of three shapes:
//
//   - ".git"           already in the main repo; the toplevel is the root
//   - an absolute path the parent directory is the root
//   - a relative path  resolve against the toplevel, then take the parent
func (c *CLI) ResolveRoot(dir string) (string, error) {
	toplevel, err := c.run(dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", errors.Wrap(err, errors.ErrNotARepository, "not inside a git repository")
	}

	commonDir, err := c.run(dir, "rev-parse", "--git-common-dir")
	if err != nil {
		return "", errors.Wrap(err, errors.ErrNotARepository, "not inside a git repository")
	}

	if commonDir == ".git" {
		return toplevel, nil
	}

	abs := commonDir
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(toplevel, commonDir)
	}

	// The common dir is the .git directory; its parent is the main root.
	root, err := filepath.EvalSymlinks(filepath.Dir(abs))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrAmbiguousRoot,
			"could not resolve main repository root from %s", commonDir)
	}

	c.logger.Debug().Str("root", root).Msg("Resolved main repository root")
	return root, nil
}

// RepoName returns the repository name derived from its root path.
func RepoName(root string) string {
	return filepath.Base(root)
}

// WorktreePath derives the deterministic worktree directory for a branch:
// a sibling of the repository root named "<repo>--<branch>", with path
// separators in the branch name replaced by hyphens. Pure, no I/O.
func WorktreePath(root, branch string) string {
	safe := strings.NewReplacer("/", "-", "\\", "-").Replace(branch)
	return filepath.Join(filepath.Dir(root), RepoName(root)+"--"+safe)
}
