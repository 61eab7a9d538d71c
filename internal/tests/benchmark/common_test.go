package benchmark

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/yndnr/chatmesh/internal/core/service"
	"github.com/yndnr/chatmesh/internal/storage/memory"
)

// SessionCounts are the prefill sizes used by store benchmarks.
var SessionCounts = []int{1000, 10000, 100000}

type services struct {
	tokens   *service.TokenService
	sessions *service.SessionService
	chat     *service.ChatService
}

// newServices builds the core without a provider, so every normal turn
// takes the echo path. Expiry sweeps are disabled to keep timers out of
// the measurements.
func newServices() *services {
	opts := []service.Option{service.WithAfterFunc(func(time.Duration, func()) {})}
	tokens := service.NewTokenService(memory.NewTokenStore(), opts...)
	sessions := service.NewSessionService(memory.NewSessionStore(), opts...)
	return &services{
		tokens:   tokens,
		sessions: sessions,
		chat:     service.NewChatService(tokens, sessions, service.NewIrregularPolicy(opts...), nil, opts...),
	}
}

func prefillSessions(b *testing.B, s *services, n int) []string {
	b.Helper()
	ctx := context.Background()
	ids := make([]string, n)
	for i := range ids {
		sess, err := s.sessions.Create(ctx)
		if err != nil {
			b.Fatal(err)
		}
		ids[i] = sess.ID
	}
	return ids
}

// reportMemory reports heap in use after a GC as a custom metric.
func reportMemory(b *testing.B) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.HeapInuse)/(1<<20), "heapMB")
}
