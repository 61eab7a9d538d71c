package service

import (
	"encoding/json"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/chatmesh/internal/core/domain"
)

func TestIrregularPolicy_ShouldTrigger(t *testing.T) {
	p := NewIrregularPolicy()

	for count := -1; count <= 30; count++ {
		want := count > 0 && count%3 == 0
		assert.Equal(t, want, p.ShouldTrigger(count), "count=%d", count)
	}
}

func TestIrregularPolicy_BuildUsage(t *testing.T) {
	p := NewIrregularPolicy(WithRandSource(rand.NewPCG(1, 2)))

	kinds := map[domain.IrregularKind]bool{}
	for i := 0; i < 500; i++ {
		payload := p.Build("hi", 3)
		u := payload.Usage

		assert.GreaterOrEqual(t, u.PromptTokens, 10)
		assert.LessOrEqual(t, u.PromptTokens, 59)
		assert.GreaterOrEqual(t, u.CompletionTokens, 20)
		assert.LessOrEqual(t, u.CompletionTokens, 119)
		assert.Equal(t, u.PromptTokens+u.CompletionTokens, u.TotalTokens)
		assert.Equal(t, 3, payload.RequestCount)
		assert.Equal(t, "hi", payload.Input)

		kinds[payload.Kind] = true
	}
	assert.Len(t, kinds, domain.IrregularKindCount, "every catalog entry should be reachable")
}

func TestIrregularPolicy_Deterministic(t *testing.T) {
	clock := newFakeClock()
	a := NewIrregularPolicy(WithRandSource(rand.NewPCG(7, 7)), WithClock(clock.Now))
	b := NewIrregularPolicy(WithRandSource(rand.NewPCG(7, 7)), WithClock(clock.Now))

	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Build("x", 6), b.Build("x", 6))
	}
}

func TestIrregularPolicy_PayloadEncodes(t *testing.T) {
	clock := newFakeClock()
	p := NewIrregularPolicy(WithClock(clock.Now))

	for i := 0; i < 50; i++ {
		payload := p.Build("hello", 9)
		raw, err := json.Marshal(payload)
		require.NoError(t, err)

		var body map[string]any
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.NotContains(t, body, "Kind", "payload must encode as a catalog shape")
	}
	assert.Equal(t, clock.Now().UnixMilli(), p.Build("x", 3).Timestamp)
}
