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
	Use(ctx context.Context, args []string) error
	Status(ctx context.Context) error
	Classes(ctx context.Context, args []string) error
	Students(ctx context.Context, args []string) error
	Posts(ctx context.Context) error
	Post(ctx context.Context, args []string) error
	Attend(ctx context.Context, args []string) error
	Dashboard(ctx context.Context) error
	Refresh(ctx context.Context) error
	Sync(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the EduPocket CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	- help                     — show available commands
//	- use <school> <term>      — set the session context
//	- status                   — show connectivity and session
//	- (c)lasses [search]       — list cached classes, optionally filtered
//	- students <class-id>      — list cached students of a class
//	- posts                    — show the wall
//	- post <title> | <body>    — compose a wall post (works offline)
//	- attend <student> <status> — record attendance (works offline)
//	- dashboard                — show the cached dashboard snapshot
//	- refresh                  — refetch the dashboard snapshot
//	- sync                     — replay offline records now
//	- exit | quit              — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("edu %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			printlnFn("Available commands: use, status, (c)lasses, students, posts, post, attend, dashboard, refresh, sync, exit")

		case "use":
			if len(args) < 2 {
				printlnFn("Usage: use <school-id> <term-id>")
				continue
			}
			_ = a.Use(ctx, args)

		case "status":
			_ = a.Status(ctx)

		case "c", "classes":
			_ = a.Classes(ctx, args)

		case "students":
			if len(args) == 0 {
				printlnFn("Usage: students <class-id>")
				continue
			}
			_ = a.Students(ctx, args)

		case "posts":
			_ = a.Posts(ctx)

		case "post":
			if len(args) == 0 {
				printlnFn("Usage: post <title> | <body>")
				continue
			}
			_ = a.Post(ctx, args)

		case "attend":
			if len(args) < 2 {
				printlnFn("Usage: attend <student-id> <status>")
				continue
			}
			_ = a.Attend(ctx, args)

		case "dashboard":
			_ = a.Dashboard(ctx)

		case "refresh":
			_ = a.Refresh(ctx)

		case "sync":
			_ = a.Sync(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
