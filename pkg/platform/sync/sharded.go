// Package sync holds keyed locking for in-process stores.
package sync

import (
	"hash/fnv"
	"sync"
)

// DefaultShards is the shard count used when NewShardedMutex is given n <= 0.
const DefaultShards = 64

// ShardedMutex serializes work per key without a single global lock. Keys that
// hash to the same shard share a mutex, so unrelated keys may still wait on
// each other; the same key always does.
type ShardedMutex struct {
	shards []sync.Mutex
}

func NewShardedMutex(n int) *ShardedMutex {
	if n <= 0 {
		n = DefaultShards
	}
	return &ShardedMutex{shards: make([]sync.Mutex, n)}
}

// Lock acquires the shard owning key. The empty key maps to shard 0.
func (m *ShardedMutex) Lock(key string) {
	m.shards[m.Shard(key)].Lock()
}

func (m *ShardedMutex) Unlock(key string) {
	m.shards[m.Shard(key)].Unlock()
}

// Shard returns the index of the mutex guarding key.
func (m *ShardedMutex) Shard(key string) int {
	if key == "" {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key)) //nolint:errcheck // hash writes never fail
	return int(h.Sum32() % uint32(len(m.shards)))
}

// Len reports the number of shards.
func (m *ShardedMutex) Len() int {
	return len(m.shards)
}
