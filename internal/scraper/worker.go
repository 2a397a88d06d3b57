package scraper

import (
	"context"
	"fmt"
	"log"

	"jobmate/search-service/internal/model"
	"jobmate/search-service/internal/normalize"
	"jobmate/search-service/internal/provider"
	"jobmate/search-service/internal/retry"
	"jobmate/search-service/internal/store"
)

// Worker runs the ingestion cycle for one target. It fetches postings from
// every provider, drops red-flagged ones and inserts the rest into the
// store, which skips URLs it already holds.
type Worker struct {
	providers []provider.Provider
	store     store.Writer
	policy    retry.Policy
	limit     int
}

// NewWorker constructs a Worker. limit caps each provider call; zero lets
// the provider pick.
func NewWorker(providers []provider.Provider, st store.Writer, policy retry.Policy, limit int) *Worker {
	return &Worker{providers: providers, store: st, policy: policy, limit: limit}
}

// Stats counts what happened to fetched postings.
type Stats struct {
	Inserted  int
	Filtered  int
	Duplicate int
	Failed    int // provider calls that failed after retries
}

func (s *Stats) add(o Stats) {
	s.Inserted += o.Inserted
	s.Filtered += o.Filtered
	s.Duplicate += o.Duplicate
	s.Failed += o.Failed
}

// Run executes one ingestion cycle for the given target.
// For each (jobTitle × location) pair it fetches from every provider,
// filters red flags, and inserts into the store. A failing provider or pair
// is logged and skipped; only a store failure stops the cycle.
func (w *Worker) Run(ctx context.Context, t model.IngestTarget) (Stats, error) {
	log.Printf("[worker] Starting ingestion for target %q: titles=%v locations=%v country=%q providers=%d",
		t.Name, t.JobTitles, t.Locations, t.Country, len(w.providers))

	var total Stats
	for _, title := range t.JobTitles {
		for _, location := range t.Locations {
			for _, p := range w.providers {
				stats, err := w.ingest(ctx, p, t, title, location)
				total.add(stats)
				if err != nil {
					return total, err
				}
			}
		}
	}

	log.Printf("[worker] Target %q done — inserted=%d filtered=%d duplicates=%d failed=%d",
		t.Name, total.Inserted, total.Filtered, total.Duplicate, total.Failed)
	return total, nil
}

func (w *Worker) ingest(
	ctx context.Context,
	p provider.Provider,
	t model.IngestTarget,
	title, location string,
) (Stats, error) {
	q := provider.Query{Keyword: title, Location: location, Country: t.Country, Limit: w.limit}
	results, err := retry.DoValue(ctx, w.policy, func(ctx context.Context) ([]model.JobPosting, error) {
		return p.Fetch(ctx, q)
	})
	if err != nil {
		log.Printf("[worker] %s error fetching (%q, %q): %v — continuing", p.ID(), title, location, err)
		return Stats{Failed: 1}, nil
	}

	var stats Stats
	keep := make([]model.JobPosting, 0, len(results))
	for _, job := range results {
		job.Description = normalize.StripHTML(job.Description)
		if ContainsRedFlag(job, t.RedFlags) {
			stats.Filtered++
			continue
		}
		keep = append(keep, job)
	}
	if len(keep) == 0 {
		return stats, nil
	}

	inserted, dupes, err := w.store.InsertPostings(ctx, keep)
	if err != nil {
		return stats, fmt.Errorf("insert %s postings: %w", p.ID(), err)
	}
	stats.Inserted, stats.Duplicate = inserted, dupes
	return stats, nil
}
