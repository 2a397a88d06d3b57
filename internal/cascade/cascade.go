// Package cascade broadens a search step by step until some stage yields
// postings: the literal query first, then the leading expanded terms, then
// the location alone.
package cascade

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"jobmate/search-service/internal/model"
	"jobmate/search-service/internal/provider"
	"jobmate/search-service/internal/store"
)

// Stage names the cascade state that produced an outcome.
type Stage string

const (
	StageDirect       Stage = "direct"
	StageSynonym      Stage = "synonym"
	StageLocationOnly Stage = "location_only"
)

const (
	// DefaultLimit bounds every stage's retrieval.
	DefaultLimit = 100

	maxSynonymQueries = 3
)

// Fetcher is the direct stage's data source, normally *provider.Gateway.
type Fetcher interface {
	Fetch(ctx context.Context, q provider.GatewayQuery) ([]model.JobPosting, error)
}

// Controller runs the three-stage cascade.
type Controller struct {
	gateway Fetcher
	store   store.Reader
	limit   int
}

// New returns a Controller. A non-positive limit falls back to DefaultLimit.
func New(gateway Fetcher, st store.Reader, limit int) *Controller {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Controller{gateway: gateway, store: st, limit: limit}
}

// Outcome is the first non-empty stage result, or the empty LocationOnly
// result when nothing matched.
type Outcome struct {
	Postings []model.JobPosting
	Stage    Stage
}

// Run walks Direct, Synonym and LocationOnly in that order and stops at the
// first stage with postings. terms are the expanded query terms; only the
// first three feed the Synonym stage. Any store error aborts the run.
func (c *Controller) Run(ctx context.Context, q model.SearchQuery, terms []string) (Outcome, error) {
	direct, err := c.gateway.Fetch(ctx, provider.GatewayQuery{
		Location: q.Location,
		Country:  q.Country,
		JobType:  q.JobType,
		Limit:    c.limit,
		Premium:  q.Tier.IsPremium(),
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("direct stage: %w", err)
	}
	if len(direct) > 0 {
		return Outcome{Postings: direct, Stage: StageDirect}, nil
	}

	slog.Info("cascade: direct stage empty, trying synonyms", "jobType", q.JobType, "terms", len(terms))
	synonyms, err := c.synonymStage(ctx, q, terms)
	if err != nil {
		return Outcome{}, fmt.Errorf("synonym stage: %w", err)
	}
	if len(synonyms) > 0 {
		return Outcome{Postings: synonyms, Stage: StageSynonym}, nil
	}

	slog.Info("cascade: synonym stage empty, searching by location only",
		"location", q.Location, "country", q.Country)
	byLocation, _, err := c.store.QueryPostings(ctx, store.Query{
		Location: q.Location,
		Country:  q.Country,
		Limit:    c.limit,
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("location stage: %w", err)
	}
	return Outcome{Postings: stamp(byLocation, model.SourceLocation), Stage: StageLocationOnly}, nil
}

// synonymStage queries the store once per leading term, concurrently, and
// unions the results in term order.
func (c *Controller) synonymStage(ctx context.Context, q model.SearchQuery, terms []string) ([]model.JobPosting, error) {
	if len(terms) > maxSynonymQueries {
		terms = terms[:maxSynonymQueries]
	}
	if len(terms) == 0 {
		return nil, nil
	}

	type result struct {
		postings []model.JobPosting
		err      error
	}
	results := make([]result, len(terms))

	var wg sync.WaitGroup
	for i, term := range terms {
		wg.Add(1)
		go func(i int, term string) {
			defer wg.Done()
			postings, _, err := c.store.QueryPostings(ctx, store.Query{
				Location: q.Location,
				Country:  q.Country,
				Keyword:  term,
				Limit:    c.limit,
			})
			results[i] = result{postings: postings, err: err}
		}(i, term)
	}
	wg.Wait()

	var union []model.JobPosting
	for i, r := range results {
		if r.err != nil {
			return nil, fmt.Errorf("term %q: %w", terms[i], r.err)
		}
		union = append(union, stamp(r.postings, model.SourceSynonym)...)
	}
	return union, nil
}

func stamp(postings []model.JobPosting, src model.Source) []model.JobPosting {
	for i := range postings {
		postings[i].Source = src
	}
	return postings
}
