package main

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"

	"github.com/grovekit/grove/pkg/style"
)

// isTerminal reports whether stdout is attached to a terminal.
// Swappable so tests can exercise both interactive and piped paths.
var isTerminal = func() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// renderer returns the shared output renderer, with colors disabled for
// non-terminal output so piped text stays clean.
func renderer() *style.TerminalRenderer {
	if !isTerminal() {
		style.DisableColors()
	}
	return style.NewTerminalRenderer()
}

// printWarning surfaces a non-fatal problem on stderr.
func printWarning(msg string) {
	pterm.Warning.WithWriter(os.Stderr).Println(msg)
}

// interactiveSelect prompts the user to pick one of the options.
var interactiveSelect = func(options []string) (string, error) {
	return pterm.DefaultInteractiveSelect.
		WithOptions(options).
		WithDefaultText("Switch to worktree").
		Show()
}
