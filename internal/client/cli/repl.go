package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

const helpText = `Available commands:
  (l)ist             show the loaded papers
  (m)ore             load the next page
  (s)earch <text>    search papers by subject
  clear              leave search and show all papers
  (r)efresh          reload the first page
  show <id>          show a paper's details
  close              close the details view
  delete <id>        delete one of your papers
  upload             upload a new paper
  edit <id>          edit one of your papers
  avatar [1|2|reset] show or choose your avatar
  verify             check your email verification
  status             show session and list status
  exit | quit        leave the program`

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	List(ctx context.Context) error
	More(ctx context.Context) error
	Search(ctx context.Context, query string) error
	Clear(ctx context.Context) error
	Refresh(ctx context.Context) error
	Show(ctx context.Context, id string) error
	CloseDetail(ctx context.Context) error
	Delete(ctx context.Context, id string) error
	Upload(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Avatar(ctx context.Context, arg string) error
	Verify(ctx context.Context) error
	Status(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop over the catalog.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands and missing arguments are
// reported back to the user. The loop exits on EOF, when ctx is cancelled or
// when the user types "exit" or "quit".
//
// Handlers share reader for their own prompts, so a command that asks
// questions consumes the following input lines.
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for ctx.Err() == nil {
		printlnFn(fmt.Sprintf("pk %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help", "h", "?":
			printlnFn(helpText)

		case "l", "list":
			_ = a.List(ctx)

		case "m", "more":
			_ = a.More(ctx)

		case "s", "search":
			if len(args) == 0 {
				printlnFn("Usage: search <text>")
				continue
			}
			_ = a.Search(ctx, strings.Join(args, " "))

		case "clear":
			_ = a.Clear(ctx)

		case "r", "refresh":
			_ = a.Refresh(ctx)

		case "show":
			if len(args) == 0 {
				printlnFn("Usage: show <id>")
				continue
			}
			_ = a.Show(ctx, args[0])

		case "close":
			_ = a.CloseDetail(ctx)

		case "delete", "rm":
			if len(args) == 0 {
				printlnFn("Usage: delete <id>")
				continue
			}
			_ = a.Delete(ctx, args[0])

		case "upload":
			_ = a.Upload(ctx)

		case "edit":
			if len(args) == 0 {
				printlnFn("Usage: edit <id>")
				continue
			}
			_ = a.Edit(ctx, args[0])

		case "avatar":
			arg := ""
			if len(args) > 0 {
				arg = args[0]
			}
			_ = a.Avatar(ctx, arg)

		case "verify":
			_ = a.Verify(ctx)

		case "status":
			_ = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
