package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovekit/grove/pkg/errors"
	"github.com/grovekit/grove/pkg/logging"
	"github.com/grovekit/grove/pkg/types"
)

func cliWithOutput(output string, err error) *CLI {
	return &CLI{
		logger: logging.GetLogger("git.test"),
		run: func(dir string, args ...string) (string, error) {
			return output, err
		},
	}
}

func TestParseWorktreeList(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		expected []types.WorktreeEntry
	}{
		{
			name:     "empty output",
			output:   "",
			expected: nil,
		},
		{
			name: "single normal worktree",
			output: "worktree /home/user/repo\n" +
				"HEAD abc123\n" +
				"branch refs/heads/main",
			expected: []types.WorktreeEntry{
				{Path: "/home/user/repo", Branch: "main"},
			},
		},
		{
			name: "mixed bare, normal, and detached",
			output: "worktree /srv/repo.git\n" +
				"bare\n" +
				"\n" +
				"worktree /home/user/repo--feature\n" +
				"HEAD abc123\n" +
				"branch refs/heads/feature\n" +
				"\n" +
				"worktree /home/user/repo--spike\n" +
				"HEAD def456\n" +
				"detached",
			expected: []types.WorktreeEntry{
				{Path: "/srv/repo.git", IsBare: true},
				{Path: "/home/user/repo--feature", Branch: "feature"},
				{Path: "/home/user/repo--spike", Branch: types.DetachedBranch, IsDetached: true},
			},
		},
		{
			name: "listing ends immediately after a path line",
			output: "worktree /home/user/repo\n" +
				"branch refs/heads/main\n" +
				"\n" +
				"worktree /home/user/repo--wip",
			expected: []types.WorktreeEntry{
				{Path: "/home/user/repo", Branch: "main"},
				{Path: "/home/user/repo--wip"},
			},
		},
		{
			name: "listing ends after a bare marker",
			output: "worktree /home/user/repo\n" +
				"branch refs/heads/main\n" +
				"\n" +
				"worktree /srv/repo.git\n" +
				"bare",
			expected: []types.WorktreeEntry{
				{Path: "/home/user/repo", Branch: "main"},
				{Path: "/srv/repo.git", IsBare: true},
			},
		},
		{
			name: "listing ends after a detached marker",
			output: "worktree /home/user/repo\n" +
				"branch refs/heads/main\n" +
				"\n" +
				"worktree /home/user/repo--spike\n" +
				"detached",
			expected: []types.WorktreeEntry{
				{Path: "/home/user/repo", Branch: "main"},
				{Path: "/home/user/repo--spike", Branch: types.DetachedBranch, IsDetached: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseWorktreeList(tt.output)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestListWorktrees_PropagatesToolFailure(t *testing.T) {
	cli := cliWithOutput("", errors.New(errors.ErrExternalTool, "git exploded"))

	_, err := cli.ListWorktrees()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrExternalTool))
}

func TestIsDirty(t *testing.T) {
	assert.True(t, cliWithOutput(" M src/app.ts", nil).IsDirty("/repo"))
	assert.False(t, cliWithOutput("", nil).IsDirty("/repo"))
}

func TestIsDirty_FailsOpenToClean(t *testing.T) {
	// A failed status query must report clean, not block removal; the
	// dirty gate has an explicit force override for the genuine case.
	cli := cliWithOutput("", errors.New(errors.ErrExternalTool, "git unavailable"))
	assert.False(t, cli.IsDirty("/repo"))
}

func TestModifiedFiles(t *testing.T) {
	out := " M src/app.ts\n" +
		"?? notes.txt\n" +
		"R  old.go -> new.go"
	files := cliWithOutput(out, nil).ModifiedFiles("/repo")
	assert.Equal(t, []string{"src/app.ts", "notes.txt", "new.go"}, files)
}

func TestModifiedFiles_FailureYieldsNil(t *testing.T) {
	cli := cliWithOutput("", errors.New(errors.ErrExternalTool, "git unavailable"))
	assert.Nil(t, cli.ModifiedFiles("/repo"))
}

func TestLastActivity(t *testing.T) {
	assert.Equal(t, "2 hours ago", cliWithOutput("2 hours ago", nil).LastActivity("/repo"))

	failing := cliWithOutput("", errors.New(errors.ErrExternalTool, "no commits"))
	assert.Equal(t, "", failing.LastActivity("/repo"))
}
