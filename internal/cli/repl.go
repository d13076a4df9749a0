package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Activities(ctx context.Context) error
	ClearActivities(ctx context.Context) error
	Profile(ctx context.Context) error
	SetProfileField(ctx context.Context) error
	ResetPassword(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
	Language(ctx context.Context) error
	Notifications(ctx context.Context, enabled bool) error
}

// runREPL reads a line from scanner, parses the first token as the command
// and dispatches to methods on a. The loop exits on scanner EOF or when the
// user types "exit" or "quit". Handler errors are printed and the loop
// continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("sessionctl %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		var err error
		switch parts[0] {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (a)ctivities, clear, profile, set, language, resetpw, notify on|off, delete, logout, exit")
			} else {
				printlnFn("Available commands: register, login, activities, language, exit")
			}
		case "register":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "activities", "a":
			err = a.Activities(ctx)
		case "clear":
			err = a.ClearActivities(ctx)
		case "profile":
			err = a.Profile(ctx)
		case "set":
			err = a.SetProfileField(ctx)
		case "language":
			err = a.Language(ctx)
		case "resetpw":
			err = a.ResetPassword(ctx)
		case "delete":
			err = a.DeleteAccount(ctx)
		case "notify":
			if len(parts) < 2 || (parts[1] != "on" && parts[1] != "off") {
				printlnFn("Usage: notify on|off")
				continue
			}
			err = a.Notifications(ctx, parts[1] == "on")
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command: " + parts[0])
		}
		if err != nil {
			printlnFn("Error: " + err.Error())
		}
	}
}
