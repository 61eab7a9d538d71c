// Package memory provides the in-memory token and session stores.
//
// Both stores keep their records in pkg/cmap sharded maps. Every record
// mutation runs under the owning shard's lock, so a single append or eviction
// is atomic with respect to concurrent callers. Readers always receive clones.
//
// Nothing here survives a restart.
package memory
