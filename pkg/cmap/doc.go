// Package cmap provides a sharded concurrent map.
//
// Keys are spread over a power-of-two number of shards, each guarded by its
// own RWMutex. Besides plain Get/Set/Delete, the map offers compute helpers
// (Compute, ComputeIfPresent, DeleteIf) that run a callback while the shard
// lock is held, so read-modify-write sequences on a single record are atomic.
//
// Usage:
//
//	m := cmap.New[string, *domain.Session]()
//	m.Set(s.ID, s)
//	n, ok := cmap.ComputeIfPresent(m, id, func(s *domain.Session) int {
//		return s.AppendUser(input)
//	})
//
// Callbacks must not call back into the same map.
package cmap
