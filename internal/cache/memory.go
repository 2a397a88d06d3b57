package cache

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"jobmate/search-service/internal/model"
)

// DefaultShards is used by NewMemory when shards is not positive.
const DefaultShards = 16

type shard struct {
	mu    sync.RWMutex
	items map[string]model.CacheEntry
}

// Memory is a sharded in-process cache. Entries are replaced wholesale and
// never mutated; expired ones are dropped by Sweep.
type Memory struct {
	shards []*shard
	ttl    time.Duration
	now    func() time.Time
}

// NewMemory builds a cache with the given shard count and TTL. A
// non-positive ttl means DefaultTTL.
func NewMemory(shards int, ttl time.Duration) (*Memory, error) {
	if shards <= 0 {
		shards = DefaultShards
	}
	if shards > 1024 {
		return nil, fmt.Errorf("too many shards: %d", shards)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Memory{shards: make([]*shard, shards), ttl: ttl, now: time.Now}
	for i := range m.shards {
		m.shards[i] = &shard{items: make(map[string]model.CacheEntry)}
	}
	return m, nil
}

func (m *Memory) shardFor(key string) *shard {
	h := fnv.New32a()
	h.Write([]byte(key))
	return m.shards[h.Sum32()%uint32(len(m.shards))]
}

func (m *Memory) Get(_ context.Context, key string) (model.CacheEntry, bool) {
	s := m.shardFor(key)
	s.mu.RLock()
	e, ok := s.items[key]
	s.mu.RUnlock()
	if !ok || !fresh(e.CreatedAt, m.now(), m.ttl) {
		return model.CacheEntry{}, false
	}
	return e, true
}

func (m *Memory) Set(_ context.Context, e model.CacheEntry) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = m.now()
	}
	s := m.shardFor(e.Key)
	s.mu.Lock()
	s.items[e.Key] = e
	s.mu.Unlock()
}

// Sweep deletes expired entries and returns how many were removed.
func (m *Memory) Sweep() int {
	now := m.now()
	removed := 0
	for _, s := range m.shards {
		s.mu.Lock()
		for k, e := range s.items {
			if !fresh(e.CreatedAt, now, m.ttl) {
				delete(s.items, k)
				removed++
			}
		}
		s.mu.Unlock()
	}
	return removed
}

// Len returns the number of stored entries, expired or not.
func (m *Memory) Len() int {
	n := 0
	for _, s := range m.shards {
		s.mu.RLock()
		n += len(s.items)
		s.mu.RUnlock()
	}
	return n
}
