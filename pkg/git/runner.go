// Package git implements the types.Git capability interface by shelling
// out to the git binary, plus the pure path derivation used for worktrees.
package git

import (
	"bytes"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/grovekit/grove/pkg/errors"
	"github.com/grovekit/grove/pkg/logging"
)

// runner executes a git invocation rooted at dir (empty dir means the
// process working directory) and returns trimmed stdout.
type runner func(dir string, args ...string) (string, error)

// CLI is the git-backed implementation of types.Git.
type CLI struct {
	run    runner
	logger zerolog.Logger
}

// New returns a CLI that invokes the git binary found on PATH.
func New() *CLI {
	return &CLI{
		run:    execGit,
		logger: logging.GetLogger("git"),
	}
}

func execGit(dir string, args ...string) (string, error) {
	full := args
	if dir != "" {
		full = append([]string{"-C", dir}, args...)
	}
	logging.LogCommand("git", full)

	cmd := exec.Command("git", full...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		return "", errors.Wrapf(err, errors.ErrExternalTool,
			"git %s failed: %s", strings.Join(args, " "), msg).
			WithDetail("command", "git "+strings.Join(full, " ")).
			WithDetail("stderr", msg)
	}

	return strings.TrimSpace(stdout.String()), nil
}
