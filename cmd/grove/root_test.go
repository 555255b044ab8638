package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovekit/grove/pkg/types"
)

// execute runs the root command with args, capturing stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCmd_HelpListsCommands(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)

	for _, name := range []string{"start", "list", "switch", "done", "sync", "clean", "conflicts", "init", "mcp"} {
		assert.Contains(t, out, name)
	}
}

func TestRootCmd_NoArgsIsError(t *testing.T) {
	_, err := execute(t)
	assert.Error(t, err)
}

func TestInitCmd_BashAndZshShareSnippet(t *testing.T) {
	bash, err := execute(t, "init", "bash")
	require.NoError(t, err)
	zsh, err := execute(t, "init", "zsh")
	require.NoError(t, err)

	assert.Equal(t, bash, zsh)
	assert.Contains(t, bash, "grove()")
	assert.Contains(t, bash, "__grove_cd:")
}

func TestInitCmd_Fish(t *testing.T) {
	out, err := execute(t, "init", "fish")
	require.NoError(t, err)

	assert.Contains(t, out, "function grove")
	assert.Contains(t, out, "__grove_cd:")
}

func TestInitCmd_RejectsUnknownShell(t *testing.T) {
	_, err := execute(t, "init", "powershell")
	assert.Error(t, err)
}

func TestGenConfigCmd_PrintsCommentedConfig(t *testing.T) {
	out, err := execute(t, "genconfig")
	require.NoError(t, err)

	assert.Contains(t, out, "[sync]")
	assert.Contains(t, out, "[hooks]")
	// Values are commented out so the defaults stay in effect.
	for _, line := range strings.Split(out, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "[") {
			continue
		}
		t.Fatalf("uncommented value line: %q", line)
	}
}

func TestGuideCmd_PrintsGuide(t *testing.T) {
	out, err := execute(t, "guide")
	require.NoError(t, err)

	assert.Contains(t, out, "grove start")
	assert.Contains(t, out, "grove switch")
}

func TestPromptForWorktree_CancelIsNotAnError(t *testing.T) {
	restore := func(tty func() bool, sel func([]string) (string, error)) {
		isTerminal, interactiveSelect = tty, sel
	}
	defer restore(isTerminal, interactiveSelect)

	isTerminal = func() bool { return true }
	interactiveSelect = func([]string) (string, error) {
		return "", errors.New("interrupted")
	}

	candidates := []types.WorktreeEntry{
		{Branch: "alpha", Path: "/wt/alpha"},
		{Branch: "beta", Path: "/wt/beta"},
	}

	_, ok, err := promptForWorktree(candidates)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPromptForWorktree_PickReturnsEntry(t *testing.T) {
	restore := func(tty func() bool, sel func([]string) (string, error)) {
		isTerminal, interactiveSelect = tty, sel
	}
	defer restore(isTerminal, interactiveSelect)

	isTerminal = func() bool { return true }
	interactiveSelect = func(options []string) (string, error) {
		require.Len(t, options, 2)
		return options[1], nil
	}

	candidates := []types.WorktreeEntry{
		{Branch: "alpha", Path: "/wt/alpha"},
		{Branch: "beta", Path: "/wt/beta"},
	}

	entry, ok, err := promptForWorktree(candidates)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "beta", entry.Branch)
}

func TestPromptForWorktree_NonTerminalIsAnError(t *testing.T) {
	restore := func(tty func() bool) { isTerminal = tty }
	defer restore(isTerminal)
	isTerminal = func() bool { return false }

	_, _, err := promptForWorktree([]types.WorktreeEntry{{Branch: "alpha"}})
	assert.Error(t, err)
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "grove version")
}
