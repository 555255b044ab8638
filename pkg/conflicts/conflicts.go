// Package conflicts cross-references uncommitted changes across worktrees
// to surface files being edited on more than one branch at once.
package conflicts

import (
	"sort"

	"github.com/grovekit/grove/pkg/types"
)

// FileLister yields the modified files of a worktree. Satisfied by the
// git adapter; fakes return scripted sets in tests.
type FileLister interface {
	ModifiedFiles(path string) []string
}

// Conflict is one file modified in two or more worktrees simultaneously.
type Conflict struct {
	Path     string   `json:"path"`
	Branches []string `json:"branches"`
}

// Find aggregates modified files across the non-bare entries and returns
// the files touched by at least two branches, sorted by file path. Pure
// aggregation; entries are not mutated.
func Find(lister FileLister, entries []types.WorktreeEntry) []Conflict {
	byFile := make(map[string]map[string]struct{})

	for _, entry := range entries {
		if entry.IsBare {
			continue
		}
		for _, file := range lister.ModifiedFiles(entry.Path) {
			if byFile[file] == nil {
				byFile[file] = make(map[string]struct{})
			}
			byFile[file][entry.Branch] = struct{}{}
		}
	}

	var conflicts []Conflict
	for file, branches := range byFile {
		if len(branches) < 2 {
			continue
		}
		names := make([]string, 0, len(branches))
		for branch := range branches {
			names = append(names, branch)
		}
		sort.Strings(names)
		conflicts = append(conflicts, Conflict{Path: file, Branches: names})
	}

	sort.Slice(conflicts, func(i, j int) bool {
		return conflicts[i].Path < conflicts[j].Path
	})

	return conflicts
}
