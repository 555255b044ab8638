package mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/grovekit/grove/pkg/commands"
	"github.com/grovekit/grove/pkg/errors"
	"github.com/grovekit/grove/pkg/sync"
)

type toolDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func objectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

func boolProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "boolean", "description": description}
}

func toolDefinitions() []toolDefinition {
	return []toolDefinition{
		{
			Name:        "grove_start",
			Description: "Create (or reuse) a worktree for a branch and sync local environment files into it. Returns the worktree path.",
			InputSchema: objectSchema(map[string]interface{}{
				"branch":  stringProp("Branch name for the worktree"),
				"base":    stringProp("Base branch for a newly created branch (defaults to the current HEAD)"),
				"no_sync": boolProp("Skip syncing environment files and dependencies"),
			}, "branch"),
		},
		{
			Name:        "grove_list",
			Description: "List all worktrees of the current repository with branch, dirty state, and last activity.",
			InputSchema: objectSchema(map[string]interface{}{}),
		},
		{
			Name:        "grove_status",
			Description: "Show a compact status summary of every worktree.",
			InputSchema: objectSchema(map[string]interface{}{}),
		},
		{
			Name:        "grove_sync",
			Description: "Re-sync environment files and dependencies from the main repository into an existing worktree.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": stringProp("Worktree path to sync into (defaults to the working directory)"),
			}),
		},
		{
			Name:        "grove_done",
			Description: "Remove a finished worktree and optionally delete its branch.",
			InputSchema: objectSchema(map[string]interface{}{
				"branch":        stringProp("Branch whose worktree to remove (defaults to the working directory's worktree)"),
				"force":         boolProp("Remove even if the worktree has uncommitted changes"),
				"delete_branch": boolProp("Also delete the local branch"),
			}),
		},
		{
			Name:        "grove_conflicts",
			Description: "Report files modified in two or more worktrees at once, as merge-conflict early warning.",
			InputSchema: objectSchema(map[string]interface{}{}),
		},
	}
}

func (s *Server) callTool(name string, arguments json.RawMessage) (string, error) {
	switch name {
	case "grove_start":
		return s.toolStart(arguments)
	case "grove_list":
		return s.toolList()
	case "grove_status":
		return s.toolStatus()
	case "grove_sync":
		return s.toolSync(arguments)
	case "grove_done":
		return s.toolDone(arguments)
	case "grove_conflicts":
		return s.toolConflicts()
	default:
		return "", errors.Newf(errors.ErrInvalidInput, "unknown tool: %s", name)
	}
}

func decodeArguments(raw json.RawMessage, into interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return errors.Wrap(err, errors.ErrInvalidInput, "invalid tool arguments")
	}
	return nil
}

func (s *Server) toolStart(raw json.RawMessage) (string, error) {
	var args struct {
		Branch string `json:"branch"`
		Base   string `json:"base"`
		NoSync bool   `json:"no_sync"`
	}
	if err := decodeArguments(raw, &args); err != nil {
		return "", err
	}

	result, err := s.runner.Start(commands.StartOptions{
		Branch: args.Branch,
		Base:   args.Base,
		NoSync: args.NoSync,
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if result.AlreadyExisted {
		fmt.Fprintf(&b, "Worktree for %s already exists at %s\n", result.Branch, result.Path)
	} else {
		fmt.Fprintf(&b, "Created worktree for %s at %s\n", result.Branch, result.Path)
	}
	if result.Sync != nil {
		b.WriteString(syncSummary(result.Sync))
	}
	if result.HookWarning != "" {
		fmt.Fprintf(&b, "Warning: %s\n", result.HookWarning)
	}
	return b.String(), nil
}

func (s *Server) toolList() (string, error) {
	statuses, err := s.runner.List()
	if err != nil {
		return "", err
	}

	encoded, err := json.MarshalIndent(statuses, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "encoding worktree list")
	}
	return string(encoded), nil
}

func (s *Server) toolStatus() (string, error) {
	statuses, err := s.runner.List()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, status := range statuses {
		if status.IsBare {
			fmt.Fprintf(&b, "%s (bare)\n", status.Path)
			continue
		}
		state := "clean"
		if status.Dirty {
			state = "dirty"
		}
		fmt.Fprintf(&b, "%s  %s  %s", status.Branch, state, status.Path)
		if status.LastActivity != "" {
			fmt.Fprintf(&b, "  (last commit %s)", status.LastActivity)
		}
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return "No worktrees found\n", nil
	}
	return b.String(), nil
}

func (s *Server) toolSync(raw json.RawMessage) (string, error) {
	var args struct {
		Path string `json:"path"`
	}
	if err := decodeArguments(raw, &args); err != nil {
		return "", err
	}

	result, err := s.runner.SyncWorktree(args.Path)
	if err != nil {
		return "", err
	}
	return syncSummary(result), nil
}

func (s *Server) toolDone(raw json.RawMessage) (string, error) {
	var args struct {
		Branch       string `json:"branch"`
		Force        bool   `json:"force"`
		DeleteBranch bool   `json:"delete_branch"`
	}
	if err := decodeArguments(raw, &args); err != nil {
		return "", err
	}

	result, err := s.runner.Done(commands.DoneOptions{
		Branch:       args.Branch,
		Force:        args.Force,
		DeleteBranch: args.DeleteBranch,
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Removed worktree %s\n", result.Path)
	if result.BranchDeleted {
		fmt.Fprintf(&b, "Deleted branch %s\n", result.Branch)
	}
	if result.HookWarning != "" {
		fmt.Fprintf(&b, "Warning: %s\n", result.HookWarning)
	}
	return b.String(), nil
}

func (s *Server) toolConflicts() (string, error) {
	found, err := s.runner.Conflicts()
	if err != nil {
		return "", err
	}

	if len(found) == 0 {
		return "No overlapping changes across worktrees\n", nil
	}

	var b strings.Builder
	for _, conflict := range found {
		fmt.Fprintf(&b, "%s: %s\n", conflict.Path, strings.Join(conflict.Branches, ", "))
	}
	return b.String(), nil
}

func syncSummary(result *sync.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sync: %d linked, %d copied, %d installed, %d skipped\n",
		result.Count(sync.StatusLinked),
		result.Count(sync.StatusCopied),
		result.Count(sync.StatusInstalled),
		result.Count(sync.StatusSkipped))
	for _, item := range result.Failures() {
		fmt.Fprintf(&b, "Warning: %s %s failed: %s\n", item.Phase, item.Name, item.Detail)
	}
	return b.String()
}
