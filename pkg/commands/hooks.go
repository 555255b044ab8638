package commands

import (
	"bytes"
	"os"
	"os/exec"
	"strings"

	"github.com/grovekit/grove/pkg/errors"
	"github.com/grovekit/grove/pkg/logging"
)

// runShellHook runs a configured hook command through the shell with the
// worktree as working directory. Hook failures are reported to the caller
// as warnings; lifecycle operations never abort on a bad hook.
func runShellHook(command, dir string) error {
	logging.LogCommand("sh", []string{"-c", command})

	cmd := exec.Command("sh", "-c", command)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		return errors.Wrapf(err, errors.ErrExternalTool, "hook %q failed: %s", command, msg).
			WithDetail("command", command).
			WithDetail("stderr", msg)
	}
	return nil
}

func pathPresent(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
