package service

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/yndnr/chatmesh/internal/core/domain"
)

// IrregularInterval is the request cadence at which irregular payloads are returned.
const IrregularInterval = 3

// Ranges for synthesized usage, inclusive.
const (
	irregularPromptMin     = 10
	irregularPromptMax     = 59
	irregularCompletionMin = 20
	irregularCompletionMax = 119
)

// IrregularPolicy decides when a chat turn returns an irregular payload and
// builds that payload.
type IrregularPolicy struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewIrregularPolicy creates a policy. Use WithRandSource for deterministic output.
func NewIrregularPolicy(opts ...Option) *IrregularPolicy {
	o := applyOptions(opts)
	src := o.rand
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &IrregularPolicy{
		rng: rand.New(src),
		now: o.now,
	}
}

// ShouldTrigger reports whether a turn with the given post-increment request
// count gets an irregular payload. A count of zero (detached turn) never triggers.
func (p *IrregularPolicy) ShouldTrigger(count int) bool {
	return count > 0 && count%IrregularInterval == 0
}

// Build picks a catalog entry uniformly at random and fills it in.
func (p *IrregularPolicy) Build(input string, count int) *domain.Irregular {
	p.mu.Lock()
	kind := domain.IrregularKind(p.rng.IntN(domain.IrregularKindCount))
	prompt := irregularPromptMin + p.rng.IntN(irregularPromptMax-irregularPromptMin+1)
	completion := irregularCompletionMin + p.rng.IntN(irregularCompletionMax-irregularCompletionMin+1)
	p.mu.Unlock()

	return &domain.Irregular{
		Kind:         kind,
		Usage:        domain.NewUsage(prompt, completion),
		Input:        input,
		RequestCount: count,
		Timestamp:    p.now().UnixMilli(),
	}
}
