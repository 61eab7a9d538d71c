package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/chatmesh/internal/core/domain"
)

type tokenFixture struct {
	svc       *TokenService
	repo      *mockTokenRepo
	clock     *fakeClock
	scheduler *fakeScheduler
	recorder  *countingRecorder
}

func newTokenFixture(opts ...Option) *tokenFixture {
	f := &tokenFixture{
		repo:      newMockTokenRepo(),
		clock:     newFakeClock(),
		scheduler: &fakeScheduler{},
		recorder:  newCountingRecorder(),
	}
	opts = append([]Option{
		WithClock(f.clock.Now),
		WithAfterFunc(f.scheduler.AfterFunc),
		WithRecorder(f.recorder),
	}, opts...)
	f.svc = NewTokenService(f.repo, opts...)
	return f
}

func TestTokenService_Issue(t *testing.T) {
	f := newTokenFixture()
	ctx := context.Background()

	tok, err := f.svc.Issue(ctx)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(tok.ID, domain.TokenPrefix))
	assert.True(t, domain.ValidateTokenFormat(tok.ID))
	assert.Equal(t, 300, tok.TTLSeconds())
	assert.Equal(t, f.clock.Now(), tok.CreatedAt)
	assert.Equal(t, 1, f.repo.Count())
	assert.Equal(t, 1, f.recorder.issued)

	require.Len(t, f.scheduler.scheduled, 1)
	assert.Equal(t, 300*time.Second, f.scheduler.scheduled[0].delay)
}

func TestTokenService_IssueUnique(t *testing.T) {
	f := newTokenFixture()
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		tok, err := f.svc.Issue(context.Background())
		require.NoError(t, err)
		require.False(t, seen[tok.ID], "duplicate token issued")
		seen[tok.ID] = true
	}
}

func TestTokenService_WithTokenTTL(t *testing.T) {
	f := newTokenFixture(WithTokenTTL(time.Minute))

	tok, err := f.svc.Issue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 60, tok.TTLSeconds())
	assert.Equal(t, time.Minute, f.svc.TTL())
}

func TestTokenService_Validate(t *testing.T) {
	f := newTokenFixture()
	ctx := context.Background()

	tok, err := f.svc.Issue(ctx)
	require.NoError(t, err)

	assert.NoError(t, f.svc.Validate(ctx, tok.ID))

	f.clock.Advance(300 * time.Second)
	assert.NoError(t, f.svc.Validate(ctx, tok.ID), "valid at exactly TTL")

	f.clock.Advance(time.Second)
	assert.ErrorIs(t, f.svc.Validate(ctx, tok.ID), domain.ErrTokenExpired)

	// Expired tokens are evicted; every later check reports them missing.
	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, f.svc.Validate(ctx, tok.ID), domain.ErrTokenInvalid)
	}
	assert.Zero(t, f.repo.Count())

	assert.Equal(t, 2, f.recorder.validations[ValidationValid])
	assert.Equal(t, 1, f.recorder.validations[ValidationExpired])
	assert.Equal(t, 3, f.recorder.validations[ValidationMissing])
}

func TestTokenService_ValidateUnknown(t *testing.T) {
	f := newTokenFixture()

	for _, id := range []string{"", "nope", "cmtk_AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"} {
		assert.ErrorIs(t, f.svc.Validate(context.Background(), id), domain.ErrTokenInvalid, id)
	}
}

func TestTokenService_ScheduledSweep(t *testing.T) {
	f := newTokenFixture()
	ctx := context.Background()

	tok, err := f.svc.Issue(ctx)
	require.NoError(t, err)

	f.scheduler.FireAll()

	assert.Zero(t, f.svc.Count())
	assert.ErrorIs(t, f.svc.Validate(ctx, tok.ID), domain.ErrTokenInvalid)
}

func TestTokenService_RealTimerSweep(t *testing.T) {
	repo := newMockTokenRepo()
	svc := NewTokenService(repo, WithTokenTTL(10*time.Millisecond))

	_, err := svc.Issue(context.Background())
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return repo.Count() == 0 }, time.Second, 5*time.Millisecond)
}
