// Package cli is the interactive front-end over the session core: a small
// REPL for account management, profile edits and the activity feed.
package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/alphamobile/sessioncore"
)

type App struct {
	core   *sessioncore.Core
	reader *bufio.Reader
}

func NewApp(core *sessioncore.Core) *App {
	return &App{core: core, reader: bufio.NewReader(os.Stdin)}
}

func (a *App) Run(ctx context.Context) {
	printlnFn("Welcome to sessionctl (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

func (a *App) isLoggedIn() bool {
	return a.core.Session.IsLoggedIn()
}

func (a *App) getStatus() string {
	if u := a.core.Session.Username(); u != "" {
		return "(" + u + ")"
	}
	return ""
}
