package main

// Short messages (one-liners)
const (
	MsgRootShort      = "A git worktree lifecycle manager"
	MsgStartShort     = "Create a worktree for a branch and sync it"
	MsgListShort      = "List all worktrees"
	MsgSwitchShort    = "Switch to another worktree"
	MsgDoneShort      = "Remove a finished worktree"
	MsgSyncShort      = "Re-sync environment files into a worktree"
	MsgCleanShort     = "Prune stale worktree entries"
	MsgConflictsShort = "Show files modified in multiple worktrees"
	MsgInitShort      = "Output shell integration snippet"
	MsgMCPShort       = "Run the MCP server on stdio"
	MsgGenConfigShort = "Generate a commented configuration file"
	MsgGuideShort     = "Show the grove user guide"
	MsgVersionShort   = "Print version information"

	// Flag descriptions
	MsgFlagVerbose      = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagBase         = "Base branch for a newly created branch (defaults to HEAD)"
	MsgFlagNoSync       = "Skip syncing environment files and dependencies"
	MsgFlagAI           = "Launch a coding tool in the new worktree"
	MsgFlagAITool       = "Tool to launch with --ai (claude, cursor, code)"
	MsgFlagForce        = "Remove even if the worktree has uncommitted changes"
	MsgFlagDeleteBranch = "Also delete the local branch"
	MsgFlagMerged       = "Also list branches fully merged into the default branch"
	MsgFlagJSON         = "Output as JSON"
	MsgFlagWrite        = "Write to the global config path instead of stdout"
)

const MsgRootLong = `grove manages one git worktree per branch, so parallel work never
stomps on a checkout. Starting a branch creates its worktree next to the
repository and carries your local environment into it: untracked env
files are copied, dependency directories are symlinked, and missing
dependencies are installed with the right tool for the project.

Run 'grove guide' for a walkthrough.`

const MsgInitLong = `Output the shell function that wraps grove so 'grove switch' and
'grove start' can change your shell's directory.

Bash or zsh (add to your rc file):
  eval "$(grove init zsh)"

Fish (add to config.fish):
  grove init fish | source`
