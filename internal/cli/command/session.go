package command

import (
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/chatmesh/internal/cli/connection"
	"github.com/yndnr/chatmesh/internal/cli/output"
)

// SessionCommand returns the session subcommand group.
func SessionCommand() *cli.Command {
	return &cli.Command{
		Name:    "session",
		Aliases: []string{"sess"},
		Usage:   "Create and inspect conversation sessions",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create an empty session",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "use",
						Usage: "continue this session on the next 'chat'",
					},
				},
				Action: sessionCreate,
			},
			{
				Name:      "get",
				Usage:     "Show a session transcript (default: the current session)",
				ArgsUsage: "[SESSION_ID]",
				Action:    sessionGet,
			},
			{
				Name:   "current",
				Usage:  "Print the current session ID",
				Action: sessionCurrent,
			},
			{
				Name:   "clear",
				Usage:  "Forget the current session so the next 'chat' starts a new one",
				Action: sessionClear,
			},
		},
	}
}

func sessionCreate(c *cli.Context) error {
	rt, err := getRuntime(c)
	if err != nil {
		return err
	}

	id, err := rt.client().CreateSession(c.Context)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	if c.Bool("use") {
		if err := rt.setSession(id); err != nil {
			return err
		}
	}

	return rt.print(c, struct {
		SessionID string `json:"sessionId" yaml:"sessionId"`
	}{id})
}

func sessionGet(c *cli.Context) error {
	rt, err := getRuntime(c)
	if err != nil {
		return err
	}

	id := c.Args().First()
	if id == "" {
		id = rt.conn.SessionID()
	}
	if id == "" {
		return errors.New("no session ID given and no current session")
	}

	return showSession(c, rt, id)
}

func showSession(c *cli.Context, rt *runtime, id string) error {
	client, err := rt.ensureToken(c)
	if err != nil {
		return err
	}

	s, err := client.GetSession(c.Context, id)
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}

	if rt.format != output.FormatTable {
		return rt.print(c, s)
	}
	return renderTranscript(stdout(c), s)
}

// renderTranscript prints a session header followed by one row per
// message.
func renderTranscript(w io.Writer, s *connection.Session) error {
	fmt.Fprintf(w, "Session:  %s\n", s.SessionID)
	fmt.Fprintf(w, "Created:  %s\n", s.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Requests: %d\n", s.RequestCount)
	if len(s.Messages) == 0 {
		fmt.Fprintln(w, "No messages.")
		return nil
	}
	fmt.Fprintln(w)

	t := &output.Table{Headers: []string{"#", "ROLE", "CONTENT"}}
	for i, m := range s.Messages {
		t.AddRow(fmt.Sprint(i+1), m.Role, m.Content)
	}
	return t.Render(w)
}

func sessionCurrent(c *cli.Context) error {
	rt, err := getRuntime(c)
	if err != nil {
		return err
	}
	id := rt.conn.SessionID()
	if id == "" {
		return errors.New("no current session")
	}
	fmt.Fprintln(stdout(c), id)
	return nil
}

func sessionClear(c *cli.Context) error {
	rt, err := getRuntime(c)
	if err != nil {
		return err
	}
	return rt.setSession("")
}
