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
	isLoggedIn(ctx context.Context) bool
	isAdmin() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Pairs(ctx context.Context) error
	Watch(ctx context.Context, args []string) error
	Preview(ctx context.Context, args []string) error
	Unlock(ctx context.Context) error
	Users(ctx context.Context) error
	AddUser(ctx context.Context) error
	EditUser(ctx context.Context, args []string) error
	DeleteUser(ctx context.Context, args []string) error
	Lock(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the SignalDesk CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command and the rest as its arguments, and dispatches to methods on 'a'.
// Unknown commands are reported back to the user. The loop exits on scanner
// EOF, on context cancellation, or when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Always:
//	  - help              show available commands
//	  - pairs             list tradable pairs
//	  - preview [pair]    public signal preview (EUR/USD by default)
//	  - admin             unlock user management with the master password
//	  - exit | quit       leave the program
//
//	Not logged in:
//	  - login             authenticate on this device
//
//	Logged in:
//	  - watch [pair]      live dashboard (USD/JPY by default)
//	  - whoami            show the session and subscription
//	  - logout            end the session
//
//	Admin unlocked:
//	  - users             list accounts
//	  - adduser           create an account
//	  - edituser <id>     change an account
//	  - deluser <id>      delete an account
//	  - lock              drop the admin token
//
// Any errors returned by command handlers are ignored here; handlers
// report their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("sd %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText(ctx, a))

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "pairs":
			_ = a.Pairs(ctx)

		case "watch":
			_ = a.Watch(ctx, args)

		case "preview":
			_ = a.Preview(ctx, args)

		case "admin":
			_ = a.Unlock(ctx)

		case "users":
			_ = a.Users(ctx)

		case "adduser":
			_ = a.AddUser(ctx)

		case "edituser":
			if len(args) == 0 {
				printlnFn("Usage: edituser <id>")
				continue
			}
			_ = a.EditUser(ctx, args)

		case "deluser":
			if len(args) == 0 {
				printlnFn("Usage: deluser <id>")
				continue
			}
			_ = a.DeleteUser(ctx, args)

		case "lock":
			_ = a.Lock(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func helpText(ctx context.Context, a execIface) string {
	cmds := []string{"pairs", "preview [pair]"}
	if a.isLoggedIn(ctx) {
		cmds = append(cmds, "watch [pair]", "whoami", "logout")
	} else {
		cmds = append(cmds, "login")
	}
	if a.isAdmin() {
		cmds = append(cmds, "users", "adduser", "edituser <id>", "deluser <id>", "lock")
	} else {
		cmds = append(cmds, "admin")
	}
	cmds = append(cmds, "exit")
	return "Available commands: " + strings.Join(cmds, ", ")
}
