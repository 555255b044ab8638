package style

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/grovekit/grove/pkg/commands"
	"github.com/grovekit/grove/pkg/conflicts"
	"github.com/grovekit/grove/pkg/sync"
)

// TerminalRenderer renders command results for human consumption.
type TerminalRenderer struct{}

// NewTerminalRenderer creates a renderer for terminal output.
func NewTerminalRenderer() *TerminalRenderer {
	return &TerminalRenderer{}
}

// RenderWorktreeList renders the worktree table: branch, state, path,
// last activity. Bare entries show the repository bookkeeping path only.
func (r *TerminalRenderer) RenderWorktreeList(statuses []commands.WorktreeStatus) string {
	if len(statuses) == 0 {
		return MutedStyle.Render("No worktrees found.")
	}

	branchWidth := 0
	for _, status := range statuses {
		if len(status.Branch) > branchWidth {
			branchWidth = len(status.Branch)
		}
	}

	var lines []string
	for _, status := range statuses {
		if status.IsBare {
			lines = append(lines, MutedStyle.Render(fmt.Sprintf("%-*s  %s", branchWidth+7, "(bare)", status.Path)))
			continue
		}

		state := CleanStyle.Render("clean")
		if status.Dirty {
			state = DirtyStyle.Render("dirty")
		}

		line := fmt.Sprintf("%s  %s  %s",
			BranchStyle.Render(fmt.Sprintf("%-*s", branchWidth, status.Branch)),
			state,
			PathStyle.Render(status.Path))
		if status.LastActivity != "" {
			line += "  " + MutedStyle.Render(status.LastActivity)
		}
		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RenderSyncResult renders the per-phase counts of a sync run, with one
// warning line per failed item.
func (r *TerminalRenderer) RenderSyncResult(result *sync.Result) string {
	if result == nil || len(result.Items) == 0 {
		return MutedStyle.Render("Nothing to sync.")
	}

	summary := fmt.Sprintf("Synced: %d linked, %d copied, %d installed, %d skipped",
		result.Count(sync.StatusLinked),
		result.Count(sync.StatusCopied),
		result.Count(sync.StatusInstalled),
		result.Count(sync.StatusSkipped))

	lines := []string{CleanStyle.Render(summary)}
	for _, item := range result.Failures() {
		lines = append(lines, ErrorStyle.Render(fmt.Sprintf("  warning: %s %s failed", item.Phase, item.Name))+
			MutedStyle.Render(" ("+item.Detail+")"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RenderConflicts renders overlap warnings, one file per line with the
// branches touching it.
func (r *TerminalRenderer) RenderConflicts(found []conflicts.Conflict) string {
	if len(found) == 0 {
		return CleanStyle.Render("No overlapping changes across worktrees.")
	}

	lines := []string{DirtyStyle.Render(fmt.Sprintf("%d file(s) modified in multiple worktrees:", len(found)))}
	for _, conflict := range found {
		lines = append(lines, fmt.Sprintf("  %s  %s",
			TitleStyle.Render(conflict.Path),
			MutedStyle.Render(strings.Join(conflict.Branches, ", "))))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RenderCleanResult renders prune output and merged-branch candidates.
func (r *TerminalRenderer) RenderCleanResult(result *commands.CleanResult, listMerged bool) string {
	var lines []string

	pruned := strings.TrimSpace(result.Pruned)
	if pruned == "" {
		lines = append(lines, MutedStyle.Render("Nothing to prune."))
	} else {
		lines = append(lines, "Pruned stale worktree entries:")
		for _, line := range strings.Split(pruned, "\n") {
			lines = append(lines, MutedStyle.Render("  "+line))
		}
	}

	if listMerged {
		if len(result.Merged) == 0 {
			lines = append(lines, MutedStyle.Render("No fully merged branches."))
		} else {
			lines = append(lines, "Branches fully merged into the default branch:")
			for _, branch := range result.Merged {
				lines = append(lines, "  "+BranchStyle.Render(branch))
			}
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
