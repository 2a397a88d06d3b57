package provider

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"jobmate/search-service/internal/model"
	"jobmate/search-service/internal/retry"
	"jobmate/search-service/internal/store"
)

// GatewayQuery is the literal search the gateway fans out.
type GatewayQuery struct {
	Location string
	Country  string
	JobType  string
	Limit    int
	Premium  bool
}

// Gateway queries the internal store and, for premium searches, every
// enabled provider concurrently.
type Gateway struct {
	store     store.Reader
	providers []Provider
	policy    retry.Policy
}

// NewGateway wires a gateway. providers should come from Build so the union
// order is stable.
func NewGateway(st store.Reader, providers []Provider, policy retry.Policy) *Gateway {
	return &Gateway{store: st, providers: providers, policy: policy}
}

// Providers returns the providers the gateway fans out to.
func (g *Gateway) Providers() []Provider { return g.providers }

// outcome is one task's result slot.
type outcome struct {
	postings []model.JobPosting
	err      error
}

// Fetch returns the union of every task that succeeded, store postings
// first and then providers in registry order. A provider that still fails
// after its retries contributes nothing. A store failure is returned.
func (g *Gateway) Fetch(ctx context.Context, q GatewayQuery) ([]model.JobPosting, error) {
	tasks := 1
	if q.Premium {
		tasks += len(g.providers)
	}
	slots := make([]outcome, tasks)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		postings, _, err := g.store.QueryPostings(ctx, store.Query{
			Location: q.Location,
			Country:  q.Country,
			Keyword:  q.JobType,
			Limit:    q.Limit,
		})
		slots[0] = outcome{postings: postings, err: err}
	}()

	if q.Premium {
		pq := Query{Keyword: q.JobType, Location: q.Location, Country: q.Country, Limit: q.Limit}
		for i, p := range g.providers {
			wg.Add(1)
			go func(slot int, p Provider) {
				defer wg.Done()
				slots[slot] = g.fetchProvider(ctx, p, pq)
			}(i+1, p)
		}
	}
	wg.Wait()

	if err := slots[0].err; err != nil {
		return nil, fmt.Errorf("store query: %w", err)
	}

	var union []model.JobPosting
	for i, o := range slots {
		if o.err != nil {
			slog.Warn("provider failed, continuing without it",
				"provider", g.providers[i-1].ID(), "err", o.err)
			continue
		}
		union = append(union, o.postings...)
	}
	return union, nil
}

func (g *Gateway) fetchProvider(ctx context.Context, p Provider, q Query) outcome {
	start := time.Now()
	attempt := 0
	postings, err := retry.DoValue(ctx, g.policy, func(ctx context.Context) ([]model.JobPosting, error) {
		attempt++
		res, err := p.Fetch(ctx, q)
		if err != nil {
			slog.Debug("provider attempt failed", "provider", p.ID(), "attempt", attempt, "err", err)
		}
		return res, err
	})
	if err != nil {
		return outcome{err: fmt.Errorf("%s after %d attempt(s): %w", p.ID(), attempt, err)}
	}
	slog.Debug("provider fetched", "provider", p.ID(), "count", len(postings), "elapsed", time.Since(start))
	return outcome{postings: postings}
}
