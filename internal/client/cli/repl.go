package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

const helpText = `Collections:  collections, mkcol <name>, rencol <id> <name>, rmcol <id>, requests [collection id]
Tabs:         new [collection id], open <id>, tabs, use <n>, close [n], closeothers [n],
              closeall, dup
Edit:         show, rename <name>, method <m>, url <url>, header <k> [v], mvheader <old> <new>,
              unheader <k>, param <k> [v], unparam <k>, auth <type>, body <type>, reload [facet...]
Send:         send, response, diff, copy, filter <jmespath>, history
Other:        validate, reset, help, exit`

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	ListCollections(ctx context.Context, args []string) error
	CreateCollection(ctx context.Context, args []string) error
	RenameCollection(ctx context.Context, args []string) error
	DeleteCollection(ctx context.Context, args []string) error
	ListRequests(ctx context.Context, args []string) error

	NewRequest(ctx context.Context, args []string) error
	OpenRequest(ctx context.Context, args []string) error
	ListTabs(ctx context.Context, args []string) error
	UseTab(ctx context.Context, args []string) error
	CloseTab(ctx context.Context, args []string) error
	CloseOtherTabs(ctx context.Context, args []string) error
	CloseAllTabs(ctx context.Context, args []string) error
	DuplicateTab(ctx context.Context, args []string) error

	Show(ctx context.Context, args []string) error
	Rename(ctx context.Context, args []string) error
	SetMethod(ctx context.Context, args []string) error
	SetURL(ctx context.Context, args []string) error
	SetHeader(ctx context.Context, args []string) error
	RenameHeader(ctx context.Context, args []string) error
	DeleteHeader(ctx context.Context, args []string) error
	SetParam(ctx context.Context, args []string) error
	DeleteParam(ctx context.Context, args []string) error
	SetAuth(ctx context.Context, args []string) error
	SetBody(ctx context.Context, args []string) error
	Reload(ctx context.Context, args []string) error

	Send(ctx context.Context, args []string) error
	ShowResponse(ctx context.Context, args []string) error
	Diff(ctx context.Context, args []string) error
	Copy(ctx context.Context, args []string) error
	Filter(ctx context.Context, args []string) error
	History(ctx context.Context, args []string) error
	Validate(ctx context.Context, args []string) error
	ResetSession(ctx context.Context, args []string) error
}

// runREPL starts a simple read–eval–print loop for the fluxapi CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a' with the remaining tokens as arguments.
// Unknown commands are reported back to the user. The loop exits on EOF or
// when the user types "exit" or "quit".
//
// Commands read follow-up input (body text, credentials) from the same
// reader, so the loop must not buffer ahead of them.
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("flux %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText)

		case "collections", "cols":
			_ = a.ListCollections(ctx, args)
		case "mkcol":
			_ = a.CreateCollection(ctx, args)
		case "rencol":
			_ = a.RenameCollection(ctx, args)
		case "rmcol":
			_ = a.DeleteCollection(ctx, args)
		case "requests", "ls":
			_ = a.ListRequests(ctx, args)

		case "new":
			_ = a.NewRequest(ctx, args)
		case "open":
			_ = a.OpenRequest(ctx, args)
		case "tabs":
			_ = a.ListTabs(ctx, args)
		case "use":
			_ = a.UseTab(ctx, args)
		case "close":
			_ = a.CloseTab(ctx, args)
		case "closeothers":
			_ = a.CloseOtherTabs(ctx, args)
		case "closeall":
			_ = a.CloseAllTabs(ctx, args)
		case "dup":
			_ = a.DuplicateTab(ctx, args)

		case "show":
			_ = a.Show(ctx, args)
		case "rename":
			_ = a.Rename(ctx, args)
		case "method":
			_ = a.SetMethod(ctx, args)
		case "url":
			_ = a.SetURL(ctx, args)
		case "header":
			_ = a.SetHeader(ctx, args)
		case "mvheader":
			_ = a.RenameHeader(ctx, args)
		case "unheader":
			_ = a.DeleteHeader(ctx, args)
		case "param":
			_ = a.SetParam(ctx, args)
		case "unparam":
			_ = a.DeleteParam(ctx, args)
		case "auth":
			_ = a.SetAuth(ctx, args)
		case "body":
			_ = a.SetBody(ctx, args)
		case "reload":
			_ = a.Reload(ctx, args)

		case "send":
			_ = a.Send(ctx, args)
		case "response", "res":
			_ = a.ShowResponse(ctx, args)
		case "diff":
			_ = a.Diff(ctx, args)
		case "copy":
			_ = a.Copy(ctx, args)
		case "filter":
			_ = a.Filter(ctx, args)
		case "history":
			_ = a.History(ctx, args)
		case "validate":
			_ = a.Validate(ctx, args)
		case "reset":
			_ = a.ResetSession(ctx, args)

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
