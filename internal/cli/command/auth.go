package command

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// AuthCommand returns the auth command.
func AuthCommand() *cli.Command {
	return &cli.Command{
		Name:   "auth",
		Usage:  "Issue a new access token and remember it",
		Action: authIssue,
	}
}

func authIssue(c *cli.Context) error {
	rt, err := getRuntime(c)
	if err != nil {
		return err
	}

	client := rt.client()
	rt.logf(c, "POST %s/auth", client.BaseURL())

	tok, err := client.IssueToken(c.Context)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}

	rt.conn.SetToken(tok.Token)
	rt.cfg.SetToken(tok.Token, tok.TTL, rt.now())
	rt.file.SetToken(tok.Token, tok.TTL, rt.now())
	if err := rt.save(); err != nil {
		return err
	}
	rt.logf(c, "token saved to %s", rt.cfgPath)

	return rt.print(c, tok)
}
