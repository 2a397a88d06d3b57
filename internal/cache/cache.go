// Package cache holds ranked pipeline results for a short time, keyed by
// the normalized query. A miss is never an error.
package cache

import (
	"context"
	"strings"
	"time"

	"jobmate/search-service/internal/model"
)

// DefaultTTL is how long an entry stays valid.
const DefaultTTL = 10 * time.Minute

// Key derives the cache key for a query: "location-country-jobType",
// trimmed and lowercased.
func Key(location, country, jobType string) string {
	return strings.ToLower(strings.TrimSpace(location) + "-" +
		strings.TrimSpace(country) + "-" + strings.TrimSpace(jobType))
}

// Cache is implemented by Memory, Redis and Tiered.
type Cache interface {
	// Get returns the entry for key when it is younger than the TTL.
	Get(ctx context.Context, key string) (model.CacheEntry, bool)
	// Set replaces the entry for e.Key. A zero CreatedAt is stamped with
	// the current time.
	Set(ctx context.Context, e model.CacheEntry)
}

// fresh reports whether an entry created at createdAt is still valid.
func fresh(createdAt, now time.Time, ttl time.Duration) bool {
	return now.Sub(createdAt) < ttl
}
