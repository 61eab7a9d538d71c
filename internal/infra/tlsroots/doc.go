// Package tlsroots provides TLS certificate management for chatmesh.
//
//   - roots.go: system roots plus custom CA files, used by the completion
//     provider client to trust a private OpenAI-compatible endpoint
//   - reloader.go: serving certificate hot-reload via fsnotify, used by the
//     HTTPS listener
package tlsroots
