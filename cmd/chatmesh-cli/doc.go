// Package main provides the entry point for chatmesh-cli.
//
// chatmesh-cli issues tokens, manages sessions and sends chat turns to a
// chatmesh server, either one message per invocation or interactively.
//
// Usage:
//
//	chatmesh-cli auth
//	chatmesh-cli chat --role eng "How do I share a map between goroutines?"
//	chatmesh-cli chat -i
//	chatmesh-cli -o json session get
//
// The token and current session are kept in ~/.chatmesh/cli.yaml.
package main
