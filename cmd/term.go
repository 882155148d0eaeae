package cmd

import (
	"os"
	"strconv"

	"golang.org/x/term"
)

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// terminalWidth asks the terminal first, then COLUMNS. It returns 0 when
// neither knows.
func terminalWidth(f *os.File) int {
	if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
		return w
	}
	if w, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && w > 0 {
		return w
	}
	return 0
}

// outputWidth resolves the configured width; 0 means detect when writing to
// a terminal.
func (a *app) outputWidth(configured int) int {
	if configured > 0 {
		return configured
	}
	if a.tty {
		return terminalWidth(os.Stdout)
	}
	return 0
}
