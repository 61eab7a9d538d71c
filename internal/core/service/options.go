package service

import (
	"math/rand/v2"
	"time"
)

// Option configures a service. Each constructor reads only the fields it needs.
type Option func(*options)

type options struct {
	now       func() time.Time
	afterFunc func(time.Duration, func())
	recorder  Recorder
	tokenTTL  time.Duration
	rand      rand.Source
}

func defaultOptions() *options {
	return &options{
		now: time.Now,
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
		recorder: nopRecorder{},
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithAfterFunc replaces the scheduler used for token expiry sweeps.
func WithAfterFunc(fn func(time.Duration, func())) Option {
	return func(o *options) {
		if fn != nil {
			o.afterFunc = fn
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(o *options) {
		if r != nil {
			o.recorder = r
		}
	}
}

// WithTokenTTL sets the lifetime of issued tokens. Non-positive values keep
// the default.
func WithTokenTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.tokenTTL = ttl
		}
	}
}

// WithRandSource sets the random source used by IrregularPolicy.
func WithRandSource(src rand.Source) Option {
	return func(o *options) {
		o.rand = src
	}
}
