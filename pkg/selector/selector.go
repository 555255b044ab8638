// Package selector picks a target worktree from the live set, either
// automatically, by fuzzy ranking against a query, or by asking the
// boundary layer to prompt. It is a pure function over the entry list;
// prompting itself stays out of the core.
package selector

import (
	"github.com/sahilm/fuzzy"

	"github.com/grovekit/grove/pkg/types"
)

// Kind classifies the outcome of a selection.
type Kind int

const (
	// NoCandidates means there is no non-bare worktree to pick from.
	NoCandidates Kind = iota
	// Selected carries the chosen entry (auto-pick or best fuzzy match).
	Selected
	// NoMatch means the query matched no candidate.
	NoMatch
	// PickRequired means several candidates remain and no query was
	// given; the caller should prompt. A cancelled prompt is the
	// caller's outcome to represent, distinct from NoMatch.
	PickRequired
)

// Result is the outcome of Select.
type Result struct {
	Kind       Kind
	Entry      types.WorktreeEntry
	Candidates []types.WorktreeEntry
	Query      string
}

// searchText is the haystack a candidate is ranked against.
func searchText(e types.WorktreeEntry) string {
	return e.Branch + " " + e.Path
}

// Select picks a worktree from entries. Bare entries are never candidates.
// With a query the candidates are ranked by fuzzy-subsequence score over
// "<branch> <path>" and the best match wins; ties fall to the ranking
// library's ordering, which is deterministic for a fixed input.
func Select(entries []types.WorktreeEntry, query string) Result {
	var candidates []types.WorktreeEntry
	for _, e := range entries {
		if !e.IsBare {
			candidates = append(candidates, e)
		}
	}

	if len(candidates) == 0 {
		return Result{Kind: NoCandidates}
	}

	if query != "" {
		haystack := make([]string, len(candidates))
		for i, c := range candidates {
			haystack[i] = searchText(c)
		}

		matches := fuzzy.Find(query, haystack)
		if len(matches) == 0 {
			return Result{Kind: NoMatch, Query: query}
		}
		return Result{Kind: Selected, Entry: candidates[matches[0].Index], Query: query}
	}

	if len(candidates) == 1 {
		return Result{Kind: Selected, Entry: candidates[0]}
	}

	return Result{Kind: PickRequired, Candidates: candidates}
}
