// Package metric provides Prometheus metrics for chatmesh.
//
//   - prometheus.go: the private registry, counters and histograms, /metrics handler
//   - collector.go: a collector reporting live token and session counts
//
// All metrics use the "chatmesh" namespace. The registry is private so tests
// can build as many as they like without colliding on the global one.
package metric
