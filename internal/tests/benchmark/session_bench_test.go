package benchmark

import (
	"context"
	"fmt"
	"testing"
)

func BenchmarkSessionCreate(b *testing.B) {
	s := newServices()
	ctx := context.Background()

	b.ReportAllocs()
	for b.Loop() {
		if _, err := s.sessions.Create(ctx); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSessionRecordUserTurn(b *testing.B) {
	for _, n := range SessionCounts {
		b.Run(fmt.Sprintf("sessions=%d", n), func(b *testing.B) {
			s := newServices()
			ids := prefillSessions(b, s, n)
			ctx := context.Background()

			b.ReportAllocs()
			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				i := 0
				for pb.Next() {
					s.sessions.RecordUserTurn(ctx, ids[i%len(ids)], "hello")
					i++
				}
			})
			b.StopTimer()
			reportMemory(b)
		})
	}
}

func BenchmarkSessionGet(b *testing.B) {
	s := newServices()
	ids := prefillSessions(b, s, 10000)
	ctx := context.Background()
	for _, id := range ids {
		for range 4 {
			s.sessions.RecordUserTurn(ctx, id, "hello")
			s.sessions.RecordAssistantTurn(ctx, id, "You said: hello")
		}
	}

	b.ReportAllocs()
	b.ResetTimer()
	i := 0
	for b.Loop() {
		if _, err := s.sessions.Get(ctx, ids[i%len(ids)]); err != nil {
			b.Fatal(err)
		}
		i++
	}
}
