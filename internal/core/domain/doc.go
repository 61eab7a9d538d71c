// Package domain defines the core domain models for chatmesh.
//
// Domain models are pure value objects and entities without any
// IO dependencies or framework coupling. This package contains:
//
//   - Token: bearer credential with a creation time and TTL
//   - Session: conversation context with message history and request counter
//   - Message, Usage, Completion: chat turn values
//   - Irregular: the catalog of deliberately malformed chat payloads
//   - Errors: domain error codes
package domain
