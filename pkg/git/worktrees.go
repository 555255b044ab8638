package git

import (
	"strings"

	"github.com/grovekit/grove/pkg/types"
)

// ListWorktrees parses `git worktree list --porcelain`. Each record opens
// with a "worktree <path>" line; following lines attach branch, bare, or
// detached attributes until the next record. The final record has no
// terminator and must be flushed explicitly.
func (c *CLI) ListWorktrees() ([]types.WorktreeEntry, error) {
	output, err := c.run("", "worktree", "list", "--porcelain")
	if err != nil {
		return nil, err
	}
	return parseWorktreeList(output), nil
}

func parseWorktreeList(output string) []types.WorktreeEntry {
	var entries []types.WorktreeEntry
	var current *types.WorktreeEntry

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "worktree "):
			if current != nil {
				entries = append(entries, *current)
			}
			current = &types.WorktreeEntry{
				Path: strings.TrimSpace(strings.TrimPrefix(line, "worktree ")),
			}
		case current == nil:
			// Attribute line before any record; porcelain never emits
			// this, but a malformed listing should not panic.
		case strings.HasPrefix(line, "branch refs/heads/"):
			current.Branch = strings.TrimSpace(strings.TrimPrefix(line, "branch refs/heads/"))
		case line == "bare":
			current.IsBare = true
		case line == "detached":
			current.IsDetached = true
			current.Branch = types.DetachedBranch
		}
	}

	if current != nil {
		entries = append(entries, *current)
	}

	return entries
}

// IsDirty reports whether path has uncommitted changes. A failed status
// query reports clean; see types.Git for why this fails open.
func (c *CLI) IsDirty(path string) bool {
	status, err := c.run(path, "status", "--porcelain")
	if err != nil {
		c.logger.Debug().Err(err).Str("path", path).Msg("Dirty check failed, assuming clean")
		return false
	}
	return status != ""
}

// ModifiedFiles returns the paths with uncommitted changes in path,
// best-effort: a failed query yields nil.
func (c *CLI) ModifiedFiles(path string) []string {
	status, err := c.run(path, "status", "--porcelain")
	if err != nil || status == "" {
		return nil
	}

	var files []string
	for _, line := range strings.Split(status, "\n") {
		// Two status columns, a space, then the path. The runner trims
		// stdout, so a leading status space may be gone on the first
		// line; split on the first gap instead of slicing by offset.
		// Renames carry "orig -> dest"; the destination is the
		// interesting side.
		parts := strings.SplitN(strings.TrimSpace(line), " ", 2)
		if len(parts) != 2 {
			continue
		}
		name := strings.TrimSpace(parts[1])
		if idx := strings.Index(name, " -> "); idx >= 0 {
			name = name[idx+4:]
		}
		if name != "" {
			files = append(files, name)
		}
	}
	return files
}

// CurrentBranch returns the branch checked out at path.
func (c *CLI) CurrentBranch(path string) (string, error) {
	return c.run(path, "branch", "--show-current")
}

// LastActivity returns the relative time of the last commit in path,
// or "" when there is none or the query fails.
func (c *CLI) LastActivity(path string) string {
	out, err := c.run(path, "log", "-1", "--format=%cr")
	if err != nil {
		return ""
	}
	return out
}
