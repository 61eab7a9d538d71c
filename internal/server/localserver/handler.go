package localserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/yndnr/chatmesh/internal/infra/buildinfo"
	"github.com/yndnr/chatmesh/internal/telemetry/logger"
)

// ErrUnknownCommand is returned for commands the handler does not know.
var ErrUnknownCommand = errors.New("unknown command")

// Counter reports a live record count.
type Counter interface {
	Count() int
}

// HandlerConfig wires the handler to the running server.
type HandlerConfig struct {
	Tokens   Counter
	Sessions Counter

	// Reload re-reads the configuration. Nil disables the command.
	Reload func() error

	// Shutdown starts a graceful shutdown. Nil disables the command.
	Shutdown func(reason string)
}

// Handler handles local management commands.
type Handler struct {
	cfg     HandlerConfig
	started time.Time
	now     func() time.Time
}

// NewHandler creates a new Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		cfg:     cfg,
		started: time.Now(),
		now:     time.Now,
	}
}

// Status is the reply to the status command.
type Status struct {
	Version    string `json:"version"`
	Commit     string `json:"commit"`
	Uptime     string `json:"uptime"`
	LogLevel   string `json:"log_level"`
	Tokens     int    `json:"tokens"`
	Sessions   int    `json:"sessions"`
	Goroutines int    `json:"goroutines"`
}

// Execute executes a local management command.
func (h *Handler) Execute(w io.Writer, cmd string, args []string) error {
	switch strings.ToLower(cmd) {
	case "status":
		return h.handleStatus(w)
	case "loglevel":
		return h.handleLogLevel(w, args)
	case "reload":
		return h.handleReload(w)
	case "shutdown":
		return h.handleShutdown(w)
	case "help":
		_, err := io.WriteString(w, "commands: status, loglevel [LEVEL], reload, shutdown, help\n")
		return err
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
}

func (h *Handler) handleStatus(w io.Writer) error {
	info := buildinfo.Get()
	st := Status{
		Version:    info.Version,
		Commit:     info.Commit,
		Uptime:     h.now().Sub(h.started).Truncate(time.Second).String(),
		LogLevel:   logger.GetLevel(),
		Goroutines: runtime.NumGoroutine(),
	}
	if h.cfg.Tokens != nil {
		st.Tokens = h.cfg.Tokens.Count()
	}
	if h.cfg.Sessions != nil {
		st.Sessions = h.cfg.Sessions.Count()
	}
	return json.NewEncoder(w).Encode(st)
}

func (h *Handler) handleLogLevel(w io.Writer, args []string) error {
	if len(args) == 0 {
		_, err := fmt.Fprintln(w, logger.GetLevel())
		return err
	}

	level := strings.ToLower(args[0])
	if !logger.ValidLevel(level) {
		return fmt.Errorf("invalid log level %q", args[0])
	}
	prev := logger.GetLevel()
	logger.SetLevel(level)
	logger.Info("log level changed via admin socket", "from", prev, "to", level)
	_, err := fmt.Fprintf(w, "log level %s -> %s\n", prev, level)
	return err
}

func (h *Handler) handleReload(w io.Writer) error {
	if h.cfg.Reload == nil {
		return errors.New("reload not available: server started without --config")
	}
	if err := h.cfg.Reload(); err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	_, err := io.WriteString(w, "configuration reloaded\n")
	return err
}

func (h *Handler) handleShutdown(w io.Writer) error {
	if h.cfg.Shutdown == nil {
		return errors.New("shutdown not available")
	}
	if _, err := io.WriteString(w, "shutting down\n"); err != nil {
		return err
	}
	h.cfg.Shutdown("admin socket")
	return nil
}
