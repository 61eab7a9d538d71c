package localserver

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/chatmesh/internal/telemetry/logger"
)

type fixedCounter int

func (c fixedCounter) Count() int { return int(c) }

func TestHandler_Status(t *testing.T) {
	h := NewHandler(HandlerConfig{Tokens: fixedCounter(3), Sessions: fixedCounter(7)})
	h.started = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return h.started.Add(90*time.Second + 400*time.Millisecond) }

	var buf bytes.Buffer
	require.NoError(t, h.Execute(&buf, "STATUS", nil))

	var st Status
	require.NoError(t, json.Unmarshal(buf.Bytes(), &st))
	assert.Equal(t, 3, st.Tokens)
	assert.Equal(t, 7, st.Sessions)
	assert.Equal(t, "1m30s", st.Uptime)
	assert.NotEmpty(t, st.Version)
	assert.Positive(t, st.Goroutines)
}

func TestHandler_LogLevel(t *testing.T) {
	prev := logger.GetLevel()
	t.Cleanup(func() { logger.SetLevel(prev) })

	h := NewHandler(HandlerConfig{})
	var buf bytes.Buffer

	require.NoError(t, h.Execute(&buf, "loglevel", []string{"DEBUG"}))
	assert.Equal(t, "debug", logger.GetLevel())
	assert.Contains(t, buf.String(), "-> debug")

	buf.Reset()
	require.NoError(t, h.Execute(&buf, "loglevel", nil))
	assert.Equal(t, "debug\n", buf.String())

	assert.Error(t, h.Execute(&buf, "loglevel", []string{"loud"}))
}

func TestHandler_ReloadAndShutdown(t *testing.T) {
	var reloads int
	var reason string
	h := NewHandler(HandlerConfig{
		Reload: func() error {
			reloads++
			if reloads > 1 {
				return errors.New("bad yaml")
			}
			return nil
		},
		Shutdown: func(r string) { reason = r },
	})

	var buf bytes.Buffer
	require.NoError(t, h.Execute(&buf, "reload", nil))
	assert.Contains(t, buf.String(), "reloaded")
	assert.ErrorContains(t, h.Execute(&buf, "reload", nil), "bad yaml")

	require.NoError(t, h.Execute(&buf, "shutdown", nil))
	assert.Equal(t, "admin socket", reason)
}

func TestHandler_Unavailable(t *testing.T) {
	h := NewHandler(HandlerConfig{})
	var buf bytes.Buffer

	assert.Error(t, h.Execute(&buf, "reload", nil))
	assert.Error(t, h.Execute(&buf, "shutdown", nil))
	assert.ErrorIs(t, h.Execute(&buf, "drain", nil), ErrUnknownCommand)

	require.NoError(t, h.Execute(&buf, "help", nil))
	assert.Contains(t, buf.String(), "status")
}

// socketPath returns a short socket path; Unix socket paths are limited
// to about 100 bytes and t.TempDir can exceed that.
func socketPath(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "cm")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return filepath.Join(dir, "admin.sock")
}

func startServer(t *testing.T, h *Handler) *Server {
	t.Helper()
	srv := New(socketPath(t), h)
	require.NoError(t, srv.Listen())

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve() }()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
		<-errc
	})
	return srv
}

// roundTrip sends one command and returns the reply lines without the
// terminator.
func roundTrip(t *testing.T, conn net.Conn, r *bufio.Reader, cmd string) []string {
	t.Helper()
	_, err := conn.Write([]byte(cmd + "\n"))
	require.NoError(t, err)

	var lines []string
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		if line == replyTerminator {
			return lines
		}
		lines = append(lines, strings.TrimSuffix(line, "\n"))
	}
}

func TestServer_Commands(t *testing.T) {
	srv := startServer(t, NewHandler(HandlerConfig{Tokens: fixedCounter(1), Sessions: fixedCounter(2)}))

	info, err := os.Stat(srv.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	conn, err := net.Dial("unix", srv.Path())
	require.NoError(t, err)
	defer conn.Close()
	r := bufio.NewReader(conn)

	status := roundTrip(t, conn, r, "status")
	require.Len(t, status, 1)
	assert.Contains(t, status[0], `"sessions":2`)

	reply := roundTrip(t, conn, r, "bogus arg")
	require.Len(t, reply, 1)
	assert.True(t, strings.HasPrefix(reply[0], "ERR unknown command"), reply[0])
}

func TestServer_ShutdownCommand(t *testing.T) {
	var triggered atomic.Bool
	srv := startServer(t, NewHandler(HandlerConfig{
		Shutdown: func(string) { triggered.Store(true) },
	}))

	conn, err := net.Dial("unix", srv.Path())
	require.NoError(t, err)
	defer conn.Close()

	reply := roundTrip(t, conn, bufio.NewReader(conn), "shutdown")
	assert.Equal(t, []string{"shutting down"}, reply)
	assert.True(t, triggered.Load())
}

func TestServer_ShutdownRemovesSocketAndUnblocksIdleConns(t *testing.T) {
	srv := New(socketPath(t), NewHandler(HandlerConfig{}))
	require.NoError(t, srv.Listen())
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve() }()

	conn, err := net.Dial("unix", srv.Path())
	require.NoError(t, err)
	defer conn.Close()
	roundTrip(t, conn, bufio.NewReader(conn), "help")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	start := time.Now()
	require.NoError(t, srv.Shutdown(ctx))
	assert.Less(t, time.Since(start), time.Second)
	require.NoError(t, <-errc)

	_, err = os.Stat(srv.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestServer_SocketInUse(t *testing.T) {
	srv := startServer(t, NewHandler(HandlerConfig{}))

	other := New(srv.Path(), NewHandler(HandlerConfig{}))
	assert.ErrorContains(t, other.Listen(), "in use")
}

func TestServer_StaleSocketReplaced(t *testing.T) {
	path := socketPath(t)
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	srv := New(path, NewHandler(HandlerConfig{}))
	require.NoError(t, srv.Listen())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
}

func TestServer_ServeBeforeListen(t *testing.T) {
	srv := New(socketPath(t), NewHandler(HandlerConfig{}))
	assert.Error(t, srv.Serve())
}
