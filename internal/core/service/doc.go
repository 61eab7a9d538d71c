// Package service holds chatmesh's business logic.
//
// Services orchestrate operations on domain models and define the storage
// interfaces they depend on, so they can be tested against in-package fakes:
//
//   - TokenService: bearer token issuance, validation and expiry sweep
//   - SessionService: session creation and turn recording
//   - IrregularPolicy: decides when a turn returns an irregular payload
//   - ChatService: the chat-turn state machine tying the above together
//
// All services are safe for concurrent use.
package service
