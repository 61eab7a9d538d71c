// Package handler provides HTTP request handlers for chatmesh.
//
// This package contains handlers for all HTTP endpoints:
//
//   - auth.go: bearer token issuance
//   - session.go: explicit session creation and inspection
//   - chat.go: chat turns
//   - health.go: health and readiness checks
//
// All handlers follow a consistent pattern:
//
//   - Parse the request
//   - Call the core service
//   - Encode the response, or map the domain error to a status and a
//     client-facing message
package handler
