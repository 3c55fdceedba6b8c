package cli

import (
	"os"

	"golang.org/x/term"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// isInteractive reports whether f is a terminal. Prompts are only printed
// for interactive sessions so piped scripts produce clean output.
func isInteractive(f *os.File) bool {
	return isTerminal(int(f.Fd()))
}
