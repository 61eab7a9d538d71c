package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/chatmesh/internal/cli/config"
	"github.com/yndnr/chatmesh/internal/cli/connection"
	"github.com/yndnr/chatmesh/internal/cli/output"
)

const runtimeKey = "runtime"

// runtime is the state shared by all commands of one invocation.
type runtime struct {
	cfgPath string
	// cfg is the effective config. file is the config as stored on disk,
	// so flag overrides are not written back.
	cfg       *config.CLIConfig
	file      *config.CLIConfig
	format    output.Format
	formatter output.Formatter
	conn      *connection.Manager
	verbose   bool

	// tokenPinned is set when the token came from --token or the
	// environment. Such a token is never saved.
	tokenPinned bool

	now func() time.Time
}

func newRuntime(c *cli.Context) (*runtime, error) {
	flags := ParseGlobalFlags(c)

	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return nil, err
	}

	file := *cfg
	overrides := map[string]string{}
	for _, name := range []string{"server", "output", "token"} {
		if c.IsSet(name) {
			overrides[name] = c.String(name)
		}
	}
	config.Merge(cfg, overrides)

	format, err := output.ParseFormat(cfg.Output)
	if err != nil {
		return nil, err
	}

	rt := &runtime{
		cfgPath:     flags.ConfigPath,
		cfg:         cfg,
		file:        &file,
		format:      format,
		formatter:   output.NewFormatter(format),
		conn:        connection.NewManager(),
		verbose:     flags.Verbose,
		tokenPinned: overrides["token"] != "",
		now:         time.Now,
	}

	token := ""
	if cfg.TokenValid(rt.now()) {
		token = cfg.Token
	}
	rt.conn.Connect(&connection.Connection{
		Server:    cfg.Server,
		Token:     token,
		SessionID: cfg.Session,
	})
	return rt, nil
}

func getRuntime(c *cli.Context) (*runtime, error) {
	if rt, ok := c.App.Metadata[runtimeKey].(*runtime); ok {
		return rt, nil
	}
	return nil, errors.New("cli runtime not initialized")
}

// client returns an HTTP client for the current binding.
func (rt *runtime) client() *connection.HTTPClient {
	return rt.conn.Client()
}

// ensureToken returns a client carrying a token, issuing and saving one
// when none is available.
func (rt *runtime) ensureToken(c *cli.Context) (*connection.HTTPClient, error) {
	client := rt.client()
	if client.Token() != "" {
		return client, nil
	}
	if err := rt.issueToken(c.Context, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (rt *runtime) issueToken(ctx context.Context, client *connection.HTTPClient) error {
	tok, err := client.IssueToken(ctx)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}
	client.SetToken(tok.Token)
	rt.conn.SetToken(tok.Token)
	rt.cfg.SetToken(tok.Token, tok.TTL, rt.now())
	if rt.tokenPinned {
		return nil
	}
	rt.file.SetToken(tok.Token, tok.TTL, rt.now())
	return rt.save()
}

func (rt *runtime) save() error {
	if err := config.Save(rt.file, rt.cfgPath); err != nil {
		return fmt.Errorf("save cli config: %w", err)
	}
	return nil
}

// setSession records id as the current session.
func (rt *runtime) setSession(id string) error {
	rt.conn.SetSessionID(id)
	rt.cfg.Session = id
	if rt.file.Session == id {
		return nil
	}
	rt.file.Session = id
	return rt.save()
}

func (rt *runtime) print(c *cli.Context, data any) error {
	return rt.formatter.Format(stdout(c), data)
}

func (rt *runtime) logf(c *cli.Context, format string, args ...any) {
	if rt.verbose {
		fmt.Fprintf(stderr(c), format+"\n", args...)
	}
}

// isTerminal reports whether w is a character device.
func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
