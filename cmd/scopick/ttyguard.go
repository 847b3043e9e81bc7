package main

import (
	"os"
	"strings"
)

// init runs before Bubble Tea acquires the terminal (and before any TUI starts).
//
// In some PTY/TTY capture environments (notably CI runners), Bubble Tea's init
// triggers Lipgloss/Termenv background detection, which can emit OSC/DSR control
// sequences to stdout. Those sequences are harmless in a real terminal but can
// break scripts consuming the output of the batch modes.
//
// We treat batch invocations as non-interactive and set CI=1 early. Termenv
// uses CI to disable TTY probing, preventing those sequences from being written.
func init() {
	if os.Getenv("CI") != "" {
		return
	}

	if !shouldSuppressTTYQueries(os.Args) {
		return
	}

	_ = os.Setenv("CI", "1")
}

// shouldSuppressTTYQueries reports whether the invocation is a batch mode
// that prints to stdout and exits without running the wizard. The flag
// package accepts single and double dashes, so both spellings count.
func shouldSuppressTTYQueries(args []string) bool {
	for _, arg := range args {
		trimmed := strings.TrimPrefix(strings.TrimPrefix(arg, "-"), "-")
		if trimmed == arg {
			continue
		}
		if eq := strings.IndexByte(trimmed, '='); eq >= 0 {
			trimmed = trimmed[:eq]
		}
		switch trimmed {
		case "version", "help", "h", "check", "lint-scope":
			return true
		}
	}

	return false
}
