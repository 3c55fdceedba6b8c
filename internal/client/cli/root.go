package cli

import (
	"bufio"
	"context"
	"os"
)

// Root runs the REPL on stdin until the user exits.
func (a *App) Root(ctx context.Context) {
	interactive := isInteractive(os.Stdin)
	if interactive {
		printlnFn("Welcome to Voice Diary (type 'help' for commands)")
	}
	runREPL(ctx, a, a.statusLine, bufio.NewScanner(os.Stdin), interactive)
}
