// Package logger provides structured logging for chatmesh.
//
// It wraps log/slog behind a small Logger interface:
//
//   - logger.go: handler construction, global level, package-level helpers
//   - context.go: request and session IDs carried on the context
//   - redact.go: masking of bearer tokens and secret-looking attributes
//
// The level is held in a shared slog.LevelVar so the server can change it at
// runtime when the config file is reloaded.
package logger
