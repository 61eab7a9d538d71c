package domain

import "unicode/utf16"

// EchoPrefix prefixes the fallback message.
const EchoPrefix = "You said: "

// Usage is the token-usage triple attached to a completion.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// NewUsage builds a Usage whose total is the sum of its parts.
func NewUsage(prompt, completion int) Usage {
	return Usage{
		PromptTokens:     prompt,
		CompletionTokens: completion,
		TotalTokens:      prompt + completion,
	}
}

// Completion is the normal chat payload.
type Completion struct {
	Message string `json:"message"`
	Usage   Usage  `json:"usage"`
}

// EchoCompletion returns the deterministic fallback for input.
// Token counts are the UTF-16 lengths of the input and of the echoed
// message, so characters outside the BMP count twice.
func EchoCompletion(input string) *Completion {
	message := EchoPrefix + input
	return &Completion{
		Message: message,
		Usage:   NewUsage(utf16Len(input), utf16Len(message)),
	}
}

// utf16Len returns the number of UTF-16 code units needed to encode s.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
