// Package httpserver provides the HTTP/HTTPS server for chatmesh.
//
// This package implements the external API using stdlib net/http:
//
//   - Auth endpoint: POST /auth
//   - Session endpoints: POST /session, GET /session/{id}
//   - Chat endpoint: POST /chat
//   - Health endpoints: /health, /ready, /metrics
//
// Middleware: RequestID, AccessLog, Metrics, Recover, CORS and a per-IP
// RateLimit built on golang.org/x/time/rate.
package httpserver
