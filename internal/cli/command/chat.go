package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/chatmesh/internal/cli/connection"
	"github.com/yndnr/chatmesh/internal/cli/output"
	"github.com/yndnr/chatmesh/internal/cli/repl"
)

// ChatCommand returns the chat command.
func ChatCommand() *cli.Command {
	return &cli.Command{
		Name:      "chat",
		Usage:     "Send a chat turn, or start an interactive chat with -i",
		ArgsUsage: "[INPUT...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "role",
				Aliases: []string{"r"},
				Usage:   "role label sent with the input",
				Value:   "user",
			},
			&cli.StringFlag{
				Name:  "session",
				Usage: "session to continue (default: the current session)",
			},
			&cli.BoolFlag{
				Name:  "new",
				Usage: "start a new session instead of continuing the current one",
			},
			&cli.BoolFlag{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "read messages from the terminal until exit",
			},
			&cli.BoolFlag{
				Name:  "no-spinner",
				Usage: "do not animate while waiting for a reply",
			},
			&cli.StringFlag{
				Name:  "history-file",
				Usage: "interactive history file (empty keeps history in memory)",
				Value: repl.DefaultHistoryPath(),
			},
		},
		Action: chatRun,
	}
}

func chatRun(c *cli.Context) error {
	rt, err := getRuntime(c)
	if err != nil {
		return err
	}

	switch {
	case c.IsSet("session"):
		rt.conn.SetSessionID(c.String("session"))
	case c.Bool("new"):
		rt.conn.SetSessionID("")
	}

	ch := &chatter{
		c:       c,
		rt:      rt,
		role:    c.String("role"),
		spinner: !c.Bool("no-spinner") && rt.format == output.FormatTable && isTerminal(stderr(c)),
	}
	if err := ch.SetRole(ch.role); err != nil {
		return err
	}

	if c.Bool("interactive") {
		r := repl.New(ch,
			repl.WithIO(c.App.Reader, stdout(c)),
			repl.WithHistory(repl.NewHistory(c.String("history-file"))),
		)
		return r.Run(c.Context)
	}

	input := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if input == "" {
		return errors.New("no input given, pass a message or use -i")
	}
	return ch.Send(c.Context, input)
}

// chatter runs chat turns against the runtime's connection. It backs both
// one-shot chat and the interactive loop.
type chatter struct {
	c       *cli.Context
	rt      *runtime
	role    string
	spinner bool
}

// Send runs one turn. A rejected saved token is replaced once and the
// turn retried. A pinned token is never replaced.
func (ch *chatter) Send(ctx context.Context, input string) error {
	client, err := ch.rt.ensureToken(ch.c)
	if err != nil {
		return err
	}

	reply, err := ch.turn(ctx, client, input)
	if connection.IsUnauthorized(err) && !ch.rt.tokenPinned {
		ch.rt.logf(ch.c, "token rejected, issuing a new one")
		if err := ch.rt.issueToken(ctx, client); err != nil {
			return err
		}
		reply, err = ch.turn(ctx, client, input)
	}
	if err != nil {
		return err
	}

	if reply.SessionID != "" {
		if err := ch.rt.setSession(reply.SessionID); err != nil {
			return err
		}
		fmt.Fprintf(stderr(ch.c), "Started session %s\n", reply.SessionID)
	}
	return ch.render(reply)
}

func (ch *chatter) turn(ctx context.Context, client *connection.HTTPClient, input string) (*connection.ChatReply, error) {
	sessionID := ch.rt.conn.SessionID()
	ch.rt.logf(ch.c, "POST %s/chat role=%s session=%q", client.BaseURL(), ch.role, sessionID)

	if !ch.spinner {
		return client.Chat(ctx, sessionID, input, ch.role)
	}

	sp := output.NewSpinner(stderr(ch.c), "waiting for reply")
	sp.Start()
	reply, err := client.Chat(ctx, sessionID, input, ch.role)
	if err != nil {
		sp.Fail(err.Error())
		return nil, err
	}
	sp.Stop()
	return reply, nil
}

func (ch *chatter) render(reply *connection.ChatReply) error {
	if ch.rt.format != output.FormatTable {
		return ch.rt.print(ch.c, reply.Raw)
	}

	w := stdout(ch.c)
	if reply.Irregular() {
		fmt.Fprintln(stderr(ch.c), "Reply has an irregular shape:")
		return (&output.JSONFormatter{}).Format(w, reply.Raw)
	}

	fmt.Fprintln(w, reply.Completion.Message)
	u := reply.Completion.Usage
	ch.rt.logf(ch.c, "tokens: prompt=%d completion=%d total=%d", u.PromptTokens, u.CompletionTokens, u.TotalTokens)
	return nil
}

// Reset implements repl.Backend.
func (ch *chatter) Reset() {
	if err := ch.rt.setSession(""); err != nil {
		fmt.Fprintf(stderr(ch.c), "warning: %v\n", err)
	}
}

// Show implements repl.Backend.
func (ch *chatter) Show(context.Context) error {
	return showSession(ch.c, ch.rt, ch.rt.conn.SessionID())
}

// SessionID implements repl.Backend.
func (ch *chatter) SessionID() string {
	return ch.rt.conn.SessionID()
}

// SetRole implements repl.Backend.
func (ch *chatter) SetRole(role string) error {
	role = strings.TrimSpace(role)
	if role == "" {
		return errors.New("role must not be empty")
	}
	ch.role = role
	return nil
}
