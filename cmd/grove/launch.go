package main

import (
	"fmt"
	"io"
	"os/exec"

	"github.com/grovekit/grove/pkg/errors"
)

// toolCommand maps a coding-tool name to the argv that opens it inside
// dir. claude picks up the directory from its working dir, the editors
// take it as an argument.
func toolCommand(tool, dir string) ([]string, error) {
	switch tool {
	case "claude":
		return []string{"claude", "--worktree"}, nil
	case "cursor":
		return []string{"cursor", dir}, nil
	case "code":
		return []string{"code", dir}, nil
	}
	return nil, errors.Newf(errors.ErrInvalidInput,
		"unknown tool %q (expected claude, cursor, or code)", tool)
}

// lookPath and spawnDetached are swappable so tests never probe PATH or
// spawn real processes.
var lookPath = exec.LookPath

var spawnDetached = func(dir string, argv []string) error {
	c := exec.Command(argv[0], argv[1:]...)
	c.Dir = dir
	if err := c.Start(); err != nil {
		return err
	}
	// The tool outlives this process; drop the handle instead of waiting.
	return c.Process.Release()
}

// launchTool opens the named coding tool in dir when it is installed.
// A tool missing from PATH only warns; the worktree is usable either way.
func launchTool(out io.Writer, tool, dir string) error {
	argv, err := toolCommand(tool, dir)
	if err != nil {
		return err
	}

	if _, err := lookPath(argv[0]); err != nil {
		printWarning(fmt.Sprintf("'%s' not found in PATH, skipping launch", argv[0]))
		return nil
	}

	fmt.Fprintf(out, "Launching %s...\n", tool)
	return spawnDetached(dir, argv)
}
