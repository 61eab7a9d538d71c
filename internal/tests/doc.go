// Package tests holds end-to-end tests that run the full chatmesh HTTP
// stack behind a real listener and drive it with the CLI client.
//
// Run them with:
//
//	go test ./internal/tests/...
//
// Benchmarks for the hot paths live in the benchmark subpackage.
package tests
