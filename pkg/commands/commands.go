// Package commands implements grove's operations over the core packages.
// Every operation returns a result value or a typed error; printing,
// prompting, and exit codes belong to the boundary layer.
package commands

import (
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/grovekit/grove/pkg/config"
	"github.com/grovekit/grove/pkg/conflicts"
	"github.com/grovekit/grove/pkg/errors"
	"github.com/grovekit/grove/pkg/git"
	"github.com/grovekit/grove/pkg/logging"
	"github.com/grovekit/grove/pkg/selector"
	syncpkg "github.com/grovekit/grove/pkg/sync"
	"github.com/grovekit/grove/pkg/types"
)

// Runner binds the operations to a Git implementation and the working
// directory the boundary resolved once at startup.
type Runner struct {
	Git     types.Git
	WorkDir string

	engine     *syncpkg.Engine
	loadConfig func(repoRoot string) (*config.Config, error)
	runHook    func(command, dir string) error
	logger     zerolog.Logger
}

// NewRunner returns a Runner using the given Git implementation.
func NewRunner(g types.Git, workDir string) *Runner {
	return &Runner{
		Git:        g,
		WorkDir:    workDir,
		engine:     syncpkg.NewEngine(),
		loadConfig: config.Load,
		runHook:    runShellHook,
		logger:     logging.GetLogger("commands"),
	}
}

// StartOptions configures Start.
type StartOptions struct {
	Branch string
	Base   string
	NoSync bool
}

// StartResult reports what Start did. AlreadyExisted marks the idempotent
// success path: the worktree was there before the call and nothing ran.
type StartResult struct {
	Branch         string
	Path           string
	AlreadyExisted bool
	Sync           *syncpkg.Result
	HookWarning    string
}

// Start creates the worktree for a branch (creating the branch from base
// or HEAD if needed), syncs it, and runs the post_start hook.
func (r *Runner) Start(opts StartOptions) (*StartResult, error) {
	if opts.Branch == "" {
		return nil, errors.New(errors.ErrInvalidInput, "branch name is required")
	}

	root, err := r.Git.ResolveRoot(r.WorkDir)
	if err != nil {
		return nil, err
	}

	path := git.WorktreePath(root, opts.Branch)
	result := &StartResult{Branch: opts.Branch, Path: path}

	if pathPresent(path) {
		result.AlreadyExisted = true
		return result, nil
	}

	r.logger.Info().Str("branch", opts.Branch).Str("path", path).Msg("Creating worktree")
	if err := r.Git.CreateWorktree(path, opts.Branch, opts.Base); err != nil {
		return nil, err
	}

	if opts.NoSync {
		return result, nil
	}

	cfg, err := r.loadConfig(root)
	if err != nil {
		return nil, err
	}

	result.Sync = r.engine.Sync(root, path, cfg.Sync)

	if cfg.Hooks.PostStart != "" {
		if err := r.runHook(cfg.Hooks.PostStart, path); err != nil {
			r.logger.Warn().Err(err).Msg("post_start hook failed")
			result.HookWarning = "post_start hook failed: " + err.Error()
		}
	}

	return result, nil
}

// DoneOptions configures Done. With an empty Branch the worktree at the
// runner's working directory is removed.
type DoneOptions struct {
	Branch       string
	Force        bool
	DeleteBranch bool
}

// DoneResult reports what Done removed.
type DoneResult struct {
	Branch        string
	Path          string
	BranchDeleted bool
	HookWarning   string
}

// Done removes a worktree, gated on a clean tree unless forced, running
// the pre_done hook first and optionally deleting the branch after.
func (r *Runner) Done(opts DoneOptions) (*DoneResult, error) {
	root, err := r.Git.ResolveRoot(r.WorkDir)
	if err != nil {
		return nil, err
	}

	var path, branch string
	if opts.Branch != "" {
		branch = opts.Branch
		path = git.WorktreePath(root, branch)
	} else {
		path = r.WorkDir
		if filepath.Clean(path) == filepath.Clean(root) {
			return nil, errors.New(errors.ErrInvalidInput,
				"currently in the main worktree; pass a branch name instead")
		}
		branch, err = r.Git.CurrentBranch(path)
		if err != nil {
			return nil, err
		}
	}

	if !pathPresent(path) {
		return nil, errors.Newf(errors.ErrWorktreeNotFound, "no worktree at %s", path)
	}

	if !opts.Force && r.Git.IsDirty(path) {
		return nil, errors.New(errors.ErrDirtyWorktree,
			"worktree has uncommitted changes; use force to remove anyway")
	}

	result := &DoneResult{Branch: branch, Path: path}

	cfg, err := r.loadConfig(root)
	if err != nil {
		return nil, err
	}
	if cfg.Hooks.PreDone != "" {
		if err := r.runHook(cfg.Hooks.PreDone, path); err != nil {
			r.logger.Warn().Err(err).Msg("pre_done hook failed")
			result.HookWarning = "pre_done hook failed: " + err.Error()
		}
	}

	r.logger.Info().Str("path", path).Msg("Removing worktree")
	if err := r.Git.RemoveWorktree(path, opts.Force); err != nil {
		return nil, err
	}

	if opts.DeleteBranch {
		if !r.Git.BranchExists(branch) {
			return nil, errors.Newf(errors.ErrBranchNotFound, "branch %q does not exist", branch)
		}
		if err := r.Git.DeleteBranch(branch, opts.Force); err != nil {
			return nil, err
		}
		result.BranchDeleted = true
	}

	return result, nil
}

// WorktreeStatus is one row of List: the entry plus advisory projections.
type WorktreeStatus struct {
	types.WorktreeEntry
	Dirty        bool
	LastActivity string
}

// List returns the live worktree set with dirty and last-activity info.
func (r *Runner) List() ([]WorktreeStatus, error) {
	entries, err := r.Git.ListWorktrees()
	if err != nil {
		return nil, err
	}

	statuses := make([]WorktreeStatus, 0, len(entries))
	for _, entry := range entries {
		status := WorktreeStatus{WorktreeEntry: entry}
		if !entry.IsBare {
			status.Dirty = r.Git.IsDirty(entry.Path)
			status.LastActivity = r.Git.LastActivity(entry.Path)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// Switch picks a worktree to change into; see the selector package for
// the outcome variants.
func (r *Runner) Switch(query string) (selector.Result, error) {
	entries, err := r.Git.ListWorktrees()
	if err != nil {
		return selector.Result{}, err
	}
	return selector.Select(entries, query), nil
}

// SyncWorktree re-syncs an existing worktree from the main repository.
// Useful for worktrees not created by grove.
func (r *Runner) SyncWorktree(path string) (*syncpkg.Result, error) {
	root, err := r.Git.ResolveRoot(r.WorkDir)
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = r.WorkDir
	}
	if filepath.Clean(path) == filepath.Clean(root) {
		return nil, errors.New(errors.ErrInvalidInput, "cannot sync the main worktree onto itself")
	}
	if !pathPresent(path) {
		return nil, errors.Newf(errors.ErrWorktreeNotFound, "no worktree at %s", path)
	}

	cfg, err := r.loadConfig(root)
	if err != nil {
		return nil, err
	}

	return r.engine.Sync(root, path, cfg.Sync), nil
}

// CleanResult reports a prune run.
type CleanResult struct {
	Pruned string
	Merged []string
}

// Clean prunes stale worktree bookkeeping. With listMerged it also
// reports local branches fully merged into the default branch, as
// removal candidates.
func (r *Runner) Clean(listMerged bool) (*CleanResult, error) {
	pruned, err := r.Git.Prune()
	if err != nil {
		return nil, err
	}

	result := &CleanResult{Pruned: pruned}
	if listMerged {
		merged, err := r.Git.MergedBranches(r.Git.DefaultBranch())
		if err != nil {
			return nil, err
		}
		result.Merged = merged
	}
	return result, nil
}

// Conflicts surfaces files modified in two or more worktrees at once.
func (r *Runner) Conflicts() ([]conflicts.Conflict, error) {
	entries, err := r.Git.ListWorktrees()
	if err != nil {
		return nil, err
	}
	return conflicts.Find(r.Git, entries), nil
}
