package service

import "time"

// Token validation results reported to the Recorder.
const (
	ValidationValid   = "valid"
	ValidationMissing = "missing"
	ValidationExpired = "expired"
)

// Chat turn outcomes reported to the Recorder.
const (
	OutcomeNormal    = "normal"
	OutcomeIrregular = "irregular"
	OutcomeFallback  = "fallback"
)

// Recorder receives service-level metric events.
type Recorder interface {
	TokenIssued()
	TokenValidated(result string)
	SessionCreated()
	ChatTurn(outcome string)
	ProviderCall(elapsed time.Duration, err error)
}

type nopRecorder struct{}

func (nopRecorder) TokenIssued() {}
func (nopRecorder) TokenValidated(string) {}
func (nopRecorder) SessionCreated() {}
func (nopRecorder) ChatTurn(string) {}
func (nopRecorder) ProviderCall(time.Duration, error) {}
