package domain

import (
	"encoding/json"
	"fmt"
)

// IrregularKind selects one shape from the irregular catalog.
type IrregularKind int

// The irregular catalog. Each shape differs from the normal payload in key
// names, nesting depth or the encoding of usage.
const (
	// IrregularFlat: {msg, status, usage}.
	IrregularFlat IrregularKind = iota
	// IrregularNested: {data: {text, original}, error: null, tokenInfo}.
	IrregularNested
	// IrregularArray: {output: [...], tokens}.
	IrregularArray
	// IrregularExtraFields: {message, metadata: {debug, sessionRequests}, usage}.
	IrregularExtraFields
	// IrregularWrapped: {response: {message, timestamp}, usage: {tokens}}.
	IrregularWrapped
	// IrregularBareUsage: {content, usage: <total>}.
	IrregularBareUsage

	irregularKindCount
)

// IrregularKindCount is the size of the catalog.
const IrregularKindCount = int(irregularKindCount)

var irregularKindNames = [...]string{
	IrregularFlat:        "flat",
	IrregularNested:      "nested",
	IrregularArray:       "array",
	IrregularExtraFields: "extra_fields",
	IrregularWrapped:     "wrapped",
	IrregularBareUsage:   "bare_usage",
}

// String returns the kind name used in logs and metrics.
func (k IrregularKind) String() string {
	if k < 0 || k >= irregularKindCount {
		return fmt.Sprintf("irregular(%d)", int(k))
	}
	return irregularKindNames[k]
}

// Irregular is a deliberately non-standard chat payload.
type Irregular struct {
	Kind IrregularKind

	// Usage is synthesized; TotalTokens is always the sum of the other two.
	Usage Usage

	// Input is echoed by IrregularNested.
	Input string

	// RequestCount is reported by IrregularExtraFields.
	RequestCount int

	// Timestamp (Unix ms) is reported by IrregularWrapped.
	Timestamp int64
}

type irregularFlat struct {
	Msg    string `json:"msg"`
	Status string `json:"status"`
	Usage  Usage  `json:"usage"`
}

type irregularNestedData struct {
	Text     string `json:"text"`
	Original string `json:"original"`
}

type irregularNested struct {
	Data      irregularNestedData `json:"data"`
	Error     *string             `json:"error"`
	TokenInfo Usage               `json:"tokenInfo"`
}

type irregularArray struct {
	Output []string `json:"output"`
	Tokens Usage    `json:"tokens"`
}

type irregularMetadata struct {
	Debug           bool `json:"debug"`
	SessionRequests int  `json:"sessionRequests"`
}

type irregularExtraFields struct {
	Message  string            `json:"message"`
	Metadata irregularMetadata `json:"metadata"`
	Usage    Usage             `json:"usage"`
}

type irregularWrappedResponse struct {
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

type irregularWrappedUsage struct {
	Tokens Usage `json:"tokens"`
}

type irregularWrapped struct {
	Response irregularWrappedResponse `json:"response"`
	Usage    irregularWrappedUsage    `json:"usage"`
}

type irregularBareUsage struct {
	Content string `json:"content"`
	Usage   int    `json:"usage"`
}

// Body returns the wire shape for the payload's kind.
func (p *Irregular) Body() (any, error) {
	switch p.Kind {
	case IrregularFlat:
		return irregularFlat{Msg: "Irregular response format", Status: "ok", Usage: p.Usage}, nil
	case IrregularNested:
		return irregularNested{
			Data:      irregularNestedData{Text: "Response corrupted", Original: p.Input},
			TokenInfo: p.Usage,
		}, nil
	case IrregularArray:
		return irregularArray{
			Output: []string{"Multiple", "responses", "in", "array"},
			Tokens: p.Usage,
		}, nil
	case IrregularExtraFields:
		return irregularExtraFields{
			Message:  "Response",
			Metadata: irregularMetadata{Debug: true, SessionRequests: p.RequestCount},
			Usage:    p.Usage,
		}, nil
	case IrregularWrapped:
		return irregularWrapped{
			Response: irregularWrappedResponse{Message: "Wrapped response", Timestamp: p.Timestamp},
			Usage:    irregularWrappedUsage{Tokens: p.Usage},
		}, nil
	case IrregularBareUsage:
		return irregularBareUsage{Content: "Different key", Usage: p.Usage.TotalTokens}, nil
	default:
		return nil, ErrInternalServer.WithDetails("unknown irregular kind " + p.Kind.String())
	}
}

// MarshalJSON implements json.Marshaler.
func (p *Irregular) MarshalJSON() ([]byte, error) {
	body, err := p.Body()
	if err != nil {
		return nil, err
	}
	return json.Marshal(body)
}
