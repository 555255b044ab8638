package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/grovekit/grove/internal/version"
	"github.com/grovekit/grove/pkg/commands"
	"github.com/grovekit/grove/pkg/config"
	"github.com/grovekit/grove/pkg/errors"
	"github.com/grovekit/grove/pkg/mcp"
	"github.com/grovekit/grove/pkg/selector"
	"github.com/grovekit/grove/pkg/shell"
	"github.com/grovekit/grove/pkg/types"
)

func newStartCmd() *cobra.Command {
	var base string
	var noSync bool
	var launchAI bool
	var aiTool string

	cmd := &cobra.Command{
		Use:   "start <branch>",
		Short: MsgStartShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Reject a bad tool name before any worktree is created.
			if launchAI {
				if _, err := toolCommand(aiTool, "."); err != nil {
					return err
				}
			}

			runner, err := newRunner()
			if err != nil {
				return err
			}

			result, err := runner.Start(commands.StartOptions{
				Branch: args[0],
				Base:   base,
				NoSync: noSync,
			})
			if err != nil {
				return err
			}

			if result.AlreadyExisted {
				fmt.Fprintf(cmd.OutOrStdout(), "Worktree for %s already exists at %s\n",
					result.Branch, result.Path)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Created worktree for %s at %s\n",
					result.Branch, result.Path)
			}
			if result.Sync != nil {
				fmt.Fprintln(cmd.OutOrStdout(), renderer().RenderSyncResult(result.Sync))
			}
			if result.HookWarning != "" {
				printWarning(result.HookWarning)
			}

			if launchAI {
				if err := launchTool(cmd.OutOrStdout(), aiTool, result.Path); err != nil {
					return err
				}
			}

			// The shell wrapper interprets this line and cds into the worktree.
			fmt.Fprintln(cmd.OutOrStdout(), shell.CDPrefix+result.Path)
			return nil
		},
	}

	cmd.Flags().StringVar(&base, "base", "", MsgFlagBase)
	cmd.Flags().BoolVar(&noSync, "no-sync", false, MsgFlagNoSync)
	cmd.Flags().BoolVarP(&launchAI, "ai", "a", false, MsgFlagAI)
	cmd.Flags().StringVar(&aiTool, "ai-tool", "claude", MsgFlagAITool)
	return cmd
}

func newListCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   MsgListShort,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := newRunner()
			if err != nil {
				return err
			}

			statuses, err := runner.List()
			if err != nil {
				return err
			}

			if asJSON {
				encoded, err := json.MarshalIndent(statuses, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderer().RenderWorktreeList(statuses))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, MsgFlagJSON)
	return cmd
}

func newSwitchCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "switch [query]",
		Aliases: []string{"s"},
		Short:   MsgSwitchShort,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := newRunner()
			if err != nil {
				return err
			}

			query := ""
			if len(args) == 1 {
				query = args[0]
			}

			result, err := runner.Switch(query)
			if err != nil {
				return err
			}

			switch result.Kind {
			case selector.NoCandidates:
				fmt.Fprintln(cmd.OutOrStdout(), "No worktrees to switch to.")
				return nil
			case selector.NoMatch:
				return errors.Newf(errors.ErrInvalidInput, "no worktree matches %q", result.Query)
			case selector.Selected:
				fmt.Fprintln(cmd.OutOrStdout(), shell.CDPrefix+result.Entry.Path)
				return nil
			default:
				entry, ok, err := promptForWorktree(result.Candidates)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), shell.CDPrefix+entry.Path)
				return nil
			}
		},
	}
}

func newDoneCmd() *cobra.Command {
	var force, deleteBranch bool

	cmd := &cobra.Command{
		Use:   "done [branch]",
		Short: MsgDoneShort,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := newRunner()
			if err != nil {
				return err
			}

			branch := ""
			if len(args) == 1 {
				branch = args[0]
			}

			result, err := runner.Done(commands.DoneOptions{
				Branch:       branch,
				Force:        force,
				DeleteBranch: deleteBranch,
			})
			if err != nil {
				return err
			}

			if result.HookWarning != "" {
				printWarning(result.HookWarning)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed worktree %s\n", result.Path)
			if result.BranchDeleted {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted branch %s\n", result.Branch)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, MsgFlagForce)
	cmd.Flags().BoolVarP(&deleteBranch, "delete-branch", "d", false, MsgFlagDeleteBranch)
	return cmd
}

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync [path]",
		Short: MsgSyncShort,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := newRunner()
			if err != nil {
				return err
			}

			path := ""
			if len(args) == 1 {
				path = args[0]
			}

			result, err := runner.SyncWorktree(path)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderer().RenderSyncResult(result))
			return nil
		},
	}
}

func newCleanCmd() *cobra.Command {
	var merged bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: MsgCleanShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := newRunner()
			if err != nil {
				return err
			}

			result, err := runner.Clean(merged)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderer().RenderCleanResult(result, merged))
			return nil
		},
	}

	cmd.Flags().BoolVar(&merged, "merged", false, MsgFlagMerged)
	return cmd
}

func newConflictsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "conflicts",
		Short: MsgConflictsShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := newRunner()
			if err != nil {
				return err
			}

			found, err := runner.Conflicts()
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderer().RenderConflicts(found))
			return nil
		},
	}
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "init <shell>",
		Short:     MsgInitShort,
		Long:      MsgInitLong,
		ValidArgs: []string{"bash", "zsh", "fish"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			snippet, err := shell.IntegrationSnippet(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), snippet)
			return nil
		},
	}
}

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: MsgMCPShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := newRunner()
			if err != nil {
				return err
			}

			log.Info().Msg("Starting MCP server on stdio")
			return mcp.NewServer(runner, version.Version).Run(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func newGenConfigCmd() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "genconfig",
		Short: MsgGenConfigShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := config.GenerateConfigContent()
			if err != nil {
				return err
			}

			if !write {
				fmt.Fprint(cmd.OutOrStdout(), content)
				return nil
			}

			path := config.GlobalConfigPath()
			if _, err := os.Stat(path); err == nil {
				return errors.Newf(errors.ErrInvalidInput, "config file already exists at %s", path)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, MsgFlagWrite)
	return cmd
}

// promptForWorktree narrows several candidates down to one, interactively
// when attached to a terminal. A cancelled prompt is a normal outcome,
// reported through ok rather than an error.
func promptForWorktree(candidates []types.WorktreeEntry) (entry types.WorktreeEntry, ok bool, err error) {
	if !isTerminal() {
		return types.WorktreeEntry{}, false, errors.New(errors.ErrInvalidInput,
			"several worktrees match; pass a query to narrow down")
	}

	options := make([]string, len(candidates))
	byOption := make(map[string]types.WorktreeEntry, len(candidates))
	for i, c := range candidates {
		label := fmt.Sprintf("%s  (%s)", c.Branch, c.Path)
		options[i] = label
		byOption[label] = c
	}

	picked, err := interactiveSelect(options)
	if err != nil {
		return types.WorktreeEntry{}, false, nil
	}
	return byOption[picked], true, nil
}
