package ui

import (
	"errors"
	"os"

	"github.com/mattn/go-isatty"
)

// NoPromptEnvVar disables every prompt when set to a non-empty value, so a
// scheduled rotation never blocks on a terminal it happens to inherit.
const NoPromptEnvVar = "TABROTATE_NO_PROMPT"

// IsTerminalFunc checks whether the given file descriptor is a terminal.
// It is a variable so tests can override it.
var IsTerminalFunc = func(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// IsInteractive reports whether prompts can be shown: stdin is read for
// answers and the prompts themselves are drawn on stderr.
func IsInteractive() bool {
	if os.Getenv(NoPromptEnvVar) != "" {
		return false
	}
	return IsTerminalFunc(os.Stdin.Fd()) && IsTerminalFunc(os.Stderr.Fd())
}

// ErrNotInteractive is returned when a prompt is attempted without a terminal.
var ErrNotInteractive = errors.New("interactive input requires a terminal")
