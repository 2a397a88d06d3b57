package cache

import (
	"context"

	"jobmate/search-service/internal/model"
)

// Tiered reads the first tier, then the second, back-filling the first on
// a second-tier hit. Writes go to both.
type Tiered struct {
	first  Cache
	second Cache
}

// NewTiered combines two caches, typically Memory over Redis.
func NewTiered(first, second Cache) *Tiered {
	return &Tiered{first: first, second: second}
}

func (t *Tiered) Get(ctx context.Context, key string) (model.CacheEntry, bool) {
	if e, ok := t.first.Get(ctx, key); ok {
		return e, true
	}
	e, ok := t.second.Get(ctx, key)
	if !ok {
		return model.CacheEntry{}, false
	}
	// keep the original CreatedAt so the entry expires on schedule
	t.first.Set(ctx, e)
	return e, true
}

func (t *Tiered) Set(ctx context.Context, e model.CacheEntry) {
	t.first.Set(ctx, e)
	t.second.Set(ctx, e)
}
