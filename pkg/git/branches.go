package git

import "strings"

// BranchExists reports whether a local branch exists.
func (c *CLI) BranchExists(name string) bool {
	_, err := c.run("", "rev-parse", "--verify", "refs/heads/"+name)
	return err == nil
}

// CreateWorktree adds a worktree at path for branch. When the branch does
// not exist yet it is created from base, or from HEAD when base is empty.
func (c *CLI) CreateWorktree(path, branch, base string) error {
	if c.BranchExists(branch) {
		_, err := c.run("", "worktree", "add", path, branch)
		return err
	}

	args := []string{"worktree", "add", "-b", branch, path}
	if base != "" {
		args = append(args, base)
	}
	_, err := c.run("", args...)
	return err
}

// RemoveWorktree removes the worktree at path.
func (c *CLI) RemoveWorktree(path string, force bool) error {
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, path)
	_, err := c.run("", args...)
	return err
}

// DeleteBranch deletes a local branch (-d, or -D when force is set).
func (c *CLI) DeleteBranch(name string, force bool) error {
	flag := "-d"
	if force {
		flag = "-D"
	}
	_, err := c.run("", "branch", flag, name)
	return err
}

// DefaultBranch returns the first of main and master that exists,
// falling back to HEAD.
func (c *CLI) DefaultBranch() string {
	for _, candidate := range []string{"main", "master"} {
		if c.BranchExists(candidate) {
			return candidate
		}
	}
	return "HEAD"
}

// MergedBranches lists local branches fully merged into base, excluding
// base itself.
func (c *CLI) MergedBranches(base string) ([]string, error) {
	output, err := c.run("", "branch", "--merged", base)
	if err != nil {
		return nil, err
	}

	var branches []string
	for _, line := range strings.Split(output, "\n") {
		name := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "* "))
		if name != "" && name != base {
			branches = append(branches, name)
		}
	}
	return branches, nil
}

// Prune removes stale worktree bookkeeping and returns git's verbose report.
func (c *CLI) Prune() (string, error) {
	return c.run("", "worktree", "prune", "-v")
}
