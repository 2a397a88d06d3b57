// Package store provides the posting data store consumed by the search
// pipeline and fed by the ingestion worker.
package store

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"jobmate/search-service/internal/model"
)

// DefaultLimit is used when a query does not set one.
const DefaultLimit = 100

// Query narrows a store lookup. Empty fields are not filtered on; Keyword
// matches title or description.
type Query struct {
	Location string
	Country  string
	Keyword  string
	Limit    int
	Page     int
}

func (q Query) limit() int {
	if q.Limit <= 0 {
		return DefaultLimit
	}
	return q.Limit
}

func (q Query) offset() uint64 {
	if q.Page <= 1 {
		return 0
	}
	return uint64((q.Page - 1) * q.limit())
}

// Reader is what the pipeline needs from a store.
type Reader interface {
	// QueryPostings returns one page of postings, newest first, and the
	// total number of matching rows.
	QueryPostings(ctx context.Context, q Query) ([]model.JobPosting, int, error)
}

// Writer is what the ingestion worker needs from a store.
type Writer interface {
	// InsertPostings stores postings whose URL is not known yet.
	InsertPostings(ctx context.Context, postings []model.JobPosting) (inserted, duplicates int, err error)
}

// Store is implemented by PostgresStore and SQLiteStore.
type Store interface {
	Reader
	Writer
	Migrate(ctx context.Context) error
}

var postingColumns = []string{
	"id", "title", "company", "location", "country", "description",
	"url", "salary", "posted_at",
}

// likeFunc renders a case-insensitive substring predicate for one column.
type likeFunc func(column, value string) sq.Sqlizer

func whereClauses(q Query, like likeFunc) []sq.Sqlizer {
	var where []sq.Sqlizer
	if s := strings.TrimSpace(q.Location); s != "" {
		where = append(where, like("location", s))
	}
	if s := strings.TrimSpace(q.Country); s != "" {
		where = append(where, like("country", s))
	}
	if s := strings.TrimSpace(q.Keyword); s != "" {
		where = append(where, sq.Or{like("title", s), like("description", s)})
	}
	return where
}

func applyWhere(b sq.SelectBuilder, where []sq.Sqlizer) sq.SelectBuilder {
	for _, w := range where {
		b = b.Where(w)
	}
	return b
}

// syntheticURL gives URL-less postings a stable dedup key.
func syntheticURL(p model.JobPosting) string {
	if p.URL != "" {
		return p.URL
	}
	return string(p.Source) + ":" + p.ID
}
