package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isTeacher() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Submit(ctx context.Context) error
	Progress(ctx context.Context, args []string) error
	Stats(ctx context.Context) error
	Export(ctx context.Context, args []string) error
}

// runREPL reads commands from reader and dispatches them to a until EOF or
// "exit"/"quit".
//
//	Not logged in:
//	  - help, register, login, exit | quit
//
//	Student:
//	  - submit, progress, logout
//
//	Teacher:
//	  - progress <student>, stats, export [name], logout
//
// Command errors are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("essay> %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		var cmdErr error

		switch cmd {
		case "help":
			switch {
			case !a.isLoggedIn():
				printlnFn("Available commands: register, login, exit")
			case a.isTeacher():
				printlnFn("Available commands: progress <student>, stats, export [name], logout, exit")
			default:
				printlnFn("Available commands: submit, progress, logout, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "submit":
			cmdErr = a.Submit(ctx)

		case "progress":
			cmdErr = a.Progress(ctx, args)

		case "stats":
			cmdErr = a.Stats(ctx)

		case "export":
			cmdErr = a.Export(ctx, args)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
	}
}

func (a *App) getStatus() string {
	s := ""
	if sess := a.currentSession(); sess != nil {
		s = sess.userID + " "
	}
	if m := a.mode(); m != "" {
		s = s + string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", strings.TrimSpace(s))
	}
	return s
}

// Root runs the REPL on stdin until the user leaves or ctx is done.
func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to essaydesk CLI (type 'help' for commands)")

	a.checkOnline(ctx)

	go func() {
		a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}()

	if a.reader == nil {
		a.reader = bufio.NewReader(os.Stdin)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
