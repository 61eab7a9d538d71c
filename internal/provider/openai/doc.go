// Package openai implements the chat completion client on top of
// github.com/sashabaranov/go-openai.
//
// Each call sends a system prompt naming the requested role domain followed
// by the user's input; earlier turns are not replayed to the provider.
package openai
