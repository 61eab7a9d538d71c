package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Backend carries out chat turns for the REPL.
type Backend interface {
	// Send runs one chat turn and prints its reply.
	Send(ctx context.Context, input string) error
	// Reset detaches from the current session so the next turn starts a
	// new one.
	Reset()
	// Show prints the current session transcript.
	Show(ctx context.Context) error
	// SessionID returns the current session, or "".
	SessionID() string
	// SetRole changes the role sent with later turns.
	SetRole(role string) error
}

var commands = []string{"/exit", "/help", "/history", "/new", "/quit", "/role", "/session"}

const helpText = `Commands:
  /new            start a new session on the next message
  /session        show the current session transcript
  /role ROLE      send later messages with ROLE
  /history [N]    show the last N lines typed
  /help           show this help
  /exit, /quit    leave (also exit, quit or Ctrl+D)
Anything else is sent as a chat message.
`

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	backend   Backend
	input     io.Reader
	output    io.Writer
	completer *Completer
	history   *History
}

// Option configures a REPL.
type Option func(*REPL)

// WithIO sets the input and output streams.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *REPL) {
		r.input = in
		r.output = out
	}
}

// WithHistory sets the history store.
func WithHistory(h *History) Option {
	return func(r *REPL) {
		r.history = h
	}
}

// New creates a REPL driving backend.
func New(backend Backend, opts ...Option) *REPL {
	r := &REPL{
		backend:   backend,
		input:     os.Stdin,
		output:    os.Stdout,
		completer: NewCompleter(commands...),
		history:   NewHistory(""),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reads lines until exit, EOF or ctx is done. Turn errors are
// printed and the loop continues. History is loaded before the first
// prompt and saved on return.
func (r *REPL) Run(ctx context.Context) error {
	if err := r.history.Load(); err != nil {
		fmt.Fprintf(r.output, "warning: history not loaded: %v\n", err)
	}
	defer func() {
		if err := r.history.Save(); err != nil {
			fmt.Fprintf(r.output, "warning: history not saved: %v\n", err)
		}
	}()

	fmt.Fprintln(r.output, "Type a message, or /help for commands.")
	scanner := bufio.NewScanner(r.input)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		fmt.Fprint(r.output, r.prompt())
		if !scanner.Scan() {
			fmt.Fprintln(r.output)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		r.history.Add(line)

		if line == "exit" || line == "quit" {
			return nil
		}

		if strings.HasPrefix(line, "/") {
			done, err := r.command(ctx, line)
			if err != nil {
				fmt.Fprintf(r.output, "Error: %v\n", err)
			}
			if done {
				return nil
			}
			continue
		}

		if err := r.backend.Send(ctx, line); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			fmt.Fprintf(r.output, "Error: %v\n", err)
		}
	}
}

func (r *REPL) prompt() string {
	id := r.backend.SessionID()
	if id == "" {
		return "chat> "
	}
	return fmt.Sprintf("chat[%s]> ", shortID(id))
}

// shortID keeps the tail of a session id, which carries the random part.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return "…" + id[len(id)-6:]
}

// command runs a slash command. done reports that the loop should end.
func (r *REPL) command(ctx context.Context, line string) (done bool, err error) {
	fields := strings.Fields(line)
	name, ok := r.completer.Resolve(fields[0])
	if !ok {
		if s := r.completer.Complete(fields[0]); len(s) > 0 {
			return false, fmt.Errorf("ambiguous command %s: %s", fields[0], strings.Join(s, ", "))
		}
		return false, fmt.Errorf("unknown command %s, try /help", fields[0])
	}
	args := fields[1:]

	switch name {
	case "/exit", "/quit":
		return true, nil
	case "/help":
		fmt.Fprint(r.output, helpText)
	case "/new":
		r.backend.Reset()
		fmt.Fprintln(r.output, "The next message starts a new session.")
	case "/session":
		if r.backend.SessionID() == "" {
			fmt.Fprintln(r.output, "No session yet.")
			return false, nil
		}
		return false, r.backend.Show(ctx)
	case "/role":
		if len(args) != 1 {
			return false, errors.New("usage: /role ROLE")
		}
		if err := r.backend.SetRole(args[0]); err != nil {
			return false, err
		}
		fmt.Fprintf(r.output, "Role set to %s.\n", args[0])
	case "/history":
		n := 20
		if len(args) > 0 {
			v, err := strconv.Atoi(args[0])
			if err != nil || v <= 0 {
				return false, fmt.Errorf("invalid count %q", args[0])
			}
			n = v
		}
		for _, entry := range r.history.Entries(n) {
			fmt.Fprintf(r.output, "  %s\n", entry)
		}
	}
	return false, nil
}
