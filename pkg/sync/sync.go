// Package sync provisions a fresh worktree from its source repository:
// heavy directories are symlinked, config and secret files are copied,
// and dependencies are installed when neither side has them yet.
package sync

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/grovekit/grove/pkg/config"
	"github.com/grovekit/grove/pkg/logging"
	"github.com/grovekit/grove/pkg/project"
)

// Engine performs project-aware sync between a source repository root and
// a target worktree. Every phase is best-effort: an item failure is
// recorded and the remaining items proceed.
type Engine struct {
	logger zerolog.Logger

	// runInstall is swappable so tests never invoke real package managers.
	runInstall func(dir string, argv []string) error
}

// NewEngine returns a ready Engine.
func NewEngine() *Engine {
	return &Engine{
		logger:     logging.GetLogger("sync"),
		runInstall: runInstallCommand,
	}
}

// Sync runs the three phases in order: symlink, copy, auto-install.
// Project detection happens fresh on every call since repository contents
// can change between invocations. Running Sync twice against the same
// pair is a no-op the second time.
func (e *Engine) Sync(source, target string, cfg config.SyncConfig) *Result {
	info := project.Detect(source)
	result := &Result{}

	e.linkDirs(source, target, cfg, info, result)
	e.copyFiles(source, target, cfg, result)
	e.autoInstall(source, target, info, result)

	e.logger.Info().
		Int("linked", result.Count(StatusLinked)).
		Int("copied", result.Count(StatusCopied)).
		Int("skipped", result.Count(StatusSkipped)).
		Int("failed", result.Count(StatusFailed)).
		Msg("Sync complete")

	return result
}

// linkDirs symlinks each configured directory from source into target.
// A name is skipped when ignored, irrelevant to the detected ecosystems,
// or missing at the source; a target path that already has anything at it
// (including a broken symlink, hence Lstat) is left untouched.
func (e *Engine) linkDirs(source, target string, cfg config.SyncConfig, info project.Info, result *Result) {
	for _, name := range cfg.Symlink {
		if slices.Contains(cfg.Ignore, name) {
			continue
		}
		if !info.Relevant(name) {
			continue
		}

		src := filepath.Join(source, name)
		if _, err := os.Stat(src); err != nil {
			continue
		}

		dst := filepath.Join(target, name)
		if _, err := os.Lstat(dst); err == nil {
			result.add(PhaseSymlink, name, StatusSkipped, "already exists in target")
			continue
		}

		if err := linkDir(src, dst); err != nil {
			e.logger.Warn().Err(err).Str("dir", name).Msg("Could not symlink")
			result.add(PhaseSymlink, name, StatusFailed, err.Error())
			continue
		}
		result.add(PhaseSymlink, name, StatusLinked, "")
	}
}

// copyFiles copies every regular file matching the configured glob
// patterns. Existing target files are never overwritten, so with
// duplicate basenames across patterns the first match wins.
func (e *Engine) copyFiles(source, target string, cfg config.SyncConfig, result *Result) {
	for _, pattern := range cfg.Copy {
		matches, err := filepath.Glob(filepath.Join(source, pattern))
		if err != nil {
			e.logger.Warn().Err(err).Str("pattern", pattern).Msg("Invalid copy pattern")
			result.add(PhaseCopy, pattern, StatusFailed, "invalid pattern")
			continue
		}

		for _, match := range matches {
			name := filepath.Base(match)
			if slices.Contains(cfg.Ignore, name) {
				continue
			}

			fi, err := os.Stat(match)
			if err != nil || !fi.Mode().IsRegular() {
				continue
			}

			dst := filepath.Join(target, name)
			if _, err := os.Lstat(dst); err == nil {
				continue
			}

			if err := copyFile(match, dst, fi.Mode().Perm()); err != nil {
				e.logger.Warn().Err(err).Str("file", name).Msg("Could not copy")
				result.add(PhaseCopy, name, StatusFailed, err.Error())
				continue
			}
			result.add(PhaseCopy, name, StatusCopied, "")
		}
	}
}

// autoInstall runs the inferred install command for each detected
// ecosystem, but only when the dependency directory is absent from both
// source and target. A symlinked-in dependency dir from the first phase
// makes installing redundant at best and destructive at worst.
func (e *Engine) autoInstall(source, target string, info project.Info, result *Result) {
	for _, step := range info.Installs {
		if pathPresent(filepath.Join(source, step.Dir)) || pathPresent(filepath.Join(target, step.Dir)) {
			result.add(PhaseInstall, step.Ecosystem, StatusSkipped, step.Dir+" already present")
			continue
		}

		e.logger.Info().
			Str("ecosystem", step.Ecosystem).
			Strs("command", step.Command).
			Msg("Installing dependencies")

		if err := e.runInstall(target, step.Command); err != nil {
			e.logger.Warn().Err(err).Str("ecosystem", step.Ecosystem).Msg("Install failed")
			result.add(PhaseInstall, step.Ecosystem, StatusFailed, err.Error())
			continue
		}
		result.add(PhaseInstall, step.Ecosystem, StatusInstalled, strings.Join(step.Command, " "))
	}
}

func pathPresent(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func copyFile(src, dst string, perm os.FileMode) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, perm)
}

// runInstallCommand executes an install command with the worktree as its
// working directory. No timeout: a hanging installer stays visible to the
// caller rather than being killed mid-write.
func runInstallCommand(dir string, argv []string) error {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	logging.LogCommand(argv[0], argv[1:])
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return &installError{cause: err, stderr: msg}
		}
		return err
	}
	return nil
}

type installError struct {
	cause  error
	stderr string
}

func (e *installError) Error() string {
	return e.cause.Error() + ": " + e.stderr
}

func (e *installError) Unwrap() error { return e.cause }
