// Package search runs the full pipeline for one query: cache, expansion,
// cascade retrieval, normalization, tagging, filtering, ranking and finally
// pagination with the tier cap.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"jobmate/search-service/internal/cache"
	"jobmate/search-service/internal/cascade"
	"jobmate/search-service/internal/expander"
	"jobmate/search-service/internal/filter"
	"jobmate/search-service/internal/model"
	"jobmate/search-service/internal/normalize"
	"jobmate/search-service/internal/notify"
	"jobmate/search-service/internal/ranker"
	"jobmate/search-service/internal/tagger"
)

const (
	DefaultPageSize = 20
	FreeTierCap     = 10

	premiumMaxDaysOld = 60
	freeMaxDaysOld    = 30
)

// ErrSearchFailed is returned when the pipeline could not complete. An empty
// result is not a failure.
var ErrSearchFailed = errors.New("search could not be completed")

// ValidationError reports a query that cannot be searched.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Runner is the retrieval step, normally *cascade.Controller.
type Runner interface {
	Run(ctx context.Context, q model.SearchQuery, terms []string) (cascade.Outcome, error)
}

// Request is one pipeline invocation. Recipient is optional; when set the
// page is delivered to it after the search completes.
type Request struct {
	Query     model.SearchQuery
	Recipient string
}

// Result is the page handed back to the caller.
type Result struct {
	Postings    []model.JobPosting
	TotalJobs   int
	TotalPages  int
	CurrentPage int
	Stage       cascade.Stage
	FromCache   bool
	Notified    bool
	Elapsed     time.Duration
}

// Empty reports whether the search found nothing.
func (r *Result) Empty() bool { return r.TotalJobs == 0 }

// Service wires the pipeline stages together. The cache and the notifier
// are optional.
type Service struct {
	runner   Runner
	cache    cache.Cache
	notifier notify.Deliverer
	now      func() time.Time
}

// NewService builds a Service. cache and notifier may be nil.
func NewService(runner Runner, c cache.Cache, notifier notify.Deliverer) *Service {
	return &Service{runner: runner, cache: c, notifier: notifier, now: time.Now}
}

// Search runs the pipeline for req.
func (s *Service) Search(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	q, err := normalizeQuery(req.Query)
	if err != nil {
		return nil, err
	}

	var (
		ranked    []model.JobPosting
		stage     cascade.Stage
		fromCache bool
	)

	// Caller filters are not part of the cache key, so filtered requests
	// always run the full pipeline and never populate the cache.
	cacheable := s.cache != nil && q.UseCache && !hasFilters(q.Filters)
	key := cache.Key(q.Location, q.Country, q.JobType)
	if cacheable {
		if entry, ok := s.cache.Get(ctx, key); ok {
			slog.Info("search: cache hit", "key", key, "jobs", len(entry.Postings))
			ranked, fromCache = entry.Postings, true
		}
	}

	if !fromCache {
		ranked, stage, err = s.run(ctx, q)
		if err != nil {
			return nil, err
		}
		if cacheable && len(ranked) > 0 {
			s.cache.Set(ctx, model.CacheEntry{Key: key, Postings: ranked})
		}
	}

	page := Paginate(ranked, q.Page, q.PageSize, q.Tier.IsPremium())
	res := &Result{
		Postings:    page.Postings,
		TotalJobs:   page.TotalJobs,
		TotalPages:  page.TotalPages,
		CurrentPage: page.Current,
		Stage:       stage,
		FromCache:   fromCache,
	}

	if req.Recipient != "" && s.notifier != nil {
		desc := notify.Descriptor{Location: q.Location, Country: q.Country, JobType: q.JobType}
		if err := s.notifier.Deliver(ctx, req.Recipient, res.Postings, desc); err != nil {
			slog.Warn("search: notification failed", "recipient", req.Recipient, "err", err)
		} else {
			res.Notified = true
		}
	}

	res.Elapsed = time.Since(start)
	slog.Info("search: done",
		"location", q.Location, "country", q.Country, "jobType", q.JobType,
		"stage", stage, "fromCache", fromCache,
		"total", res.TotalJobs, "returned", len(res.Postings),
		"elapsed", res.Elapsed)
	return res, nil
}

// run executes everything between the cache read and the cache write.
func (s *Service) run(ctx context.Context, q model.SearchQuery) ([]model.JobPosting, cascade.Stage, error) {
	terms := expander.ExtractTerms(q.JobType)
	slog.Debug("search: expanded terms", "jobType", q.JobType, "terms", terms)

	outcome, err := s.runner.Run(ctx, q, terms)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}

	now := s.now()
	postings := normalize.Titles(outcome.Postings)
	postings = normalize.Dedup(postings)
	postings = normalize.Enrich(postings, now)
	postings = tagger.TagAll(postings, q.JobType)

	postings = filter.Apply(postings, criteria(q, terms, outcome.Stage, now))
	postings = ranker.Rank(postings, terms, now)
	postings = ranker.Rerank(postings, terms, now, ranker.RerankHead)
	return postings, outcome.Stage, nil
}

// criteria builds the filter set for the stage that produced the postings.
// The synonym stage already matched on a term, so the literal job type is
// not required again; the location-only stage drops role matching
// entirely.
func criteria(q model.SearchQuery, terms []string, stage cascade.Stage, now time.Time) filter.Criteria {
	c := filter.Criteria{
		Location:        q.Location,
		Country:         q.Country,
		MaxDaysOld:      q.Filters.MaxDaysOld,
		ExcludeKeywords: q.Filters.ExcludeKeywords,
		MinSalary:       q.Filters.MinSalary,
		MaxSalary:       q.Filters.MaxSalary,
		Seniority:       q.Filters.SeniorityLevel,
		RemoteOnly:      q.Filters.RemoteOnly,
		Now:             now,
	}
	if c.MaxDaysOld <= 0 {
		c.MaxDaysOld = freeMaxDaysOld
		if q.Tier.IsPremium() {
			c.MaxDaysOld = premiumMaxDaysOld
		}
	}
	switch stage {
	case cascade.StageDirect:
		c.JobType = q.JobType
		c.Keywords = terms
	case cascade.StageSynonym:
		c.Keywords = terms
	}
	return c
}

func normalizeQuery(q model.SearchQuery) (model.SearchQuery, error) {
	q.Location = strings.TrimSpace(q.Location)
	q.Country = strings.TrimSpace(q.Country)
	q.JobType = strings.TrimSpace(q.JobType)
	switch {
	case q.Location == "":
		return q, &ValidationError{Msg: "location is required"}
	case q.Country == "":
		return q, &ValidationError{Msg: "country is required"}
	case q.JobType == "":
		return q, &ValidationError{Msg: "jobType is required"}
	}
	if q.Tier == "" {
		q.Tier = model.TierFree
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.Page < 1 {
		q.Page = 1
	}
	return q, nil
}

func hasFilters(f model.Filters) bool {
	return f.MaxDaysOld > 0 || f.MinSalary != nil || f.MaxSalary != nil ||
		len(f.SeniorityLevel) > 0 || f.RemoteOnly || len(f.ExcludeKeywords) > 0
}
