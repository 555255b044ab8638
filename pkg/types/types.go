// Package types holds the shared data model and the capability interface
// through which the rest of grove talks to the version-control tool.
package types

// DetachedBranch is the branch sentinel for detached-HEAD worktrees.
const DetachedBranch = "(detached)"

// WorktreeEntry is a snapshot of one worktree as reported by git.
// Entries are re-derived on every query and never mutated in place.
type WorktreeEntry struct {
	Path       string `json:"path"`
	Branch     string `json:"branch,omitempty"`
	IsBare     bool   `json:"is_bare,omitempty"`
	IsDetached bool   `json:"is_detached,omitempty"`
}

// Git is the capability surface grove needs from the version-control tool.
// The concrete implementation shells out to git; tests substitute a fake
// returning scripted output.
type Git interface {
	// ResolveRoot returns the main repository root for dir, resolving
	// through worktrees via the shared metadata directory.
	ResolveRoot(dir string) (string, error)

	// ListWorktrees returns the live worktree set, in git's order.
	ListWorktrees() ([]WorktreeEntry, error)

	// IsDirty reports uncommitted changes. A failed query reports false:
	// dirtiness feeds advisory display and a removal gate that has an
	// explicit force override for the genuine case.
	IsDirty(path string) bool

	// ModifiedFiles returns paths with uncommitted changes, best-effort.
	ModifiedFiles(path string) []string

	// CurrentBranch returns the checked-out branch in path.
	CurrentBranch(path string) (string, error)

	// LastActivity returns a relative last-commit time ("2 hours ago"),
	// or "" when unavailable.
	LastActivity(path string) string

	// BranchExists reports whether a local branch exists.
	BranchExists(name string) bool

	// CreateWorktree adds a worktree at path for branch, creating the
	// branch from base (or HEAD when base is empty) if it does not exist.
	CreateWorktree(path, branch, base string) error

	// RemoveWorktree removes the worktree at path.
	RemoveWorktree(path string, force bool) error

	// DeleteBranch deletes a local branch.
	DeleteBranch(name string, force bool) error

	// DefaultBranch returns main, master, or HEAD, whichever exists first.
	DefaultBranch() string

	// MergedBranches lists local branches fully merged into base.
	MergedBranches(base string) ([]string, error)

	// Prune removes stale worktree bookkeeping and returns git's report.
	Prune() (string, error)
}
