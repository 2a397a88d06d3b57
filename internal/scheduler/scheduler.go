// Package scheduler wires up the cron jobs that periodically ingest
// provider postings for the configured targets and sweep expired cache
// entries.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"jobmate/search-service/internal/model"
	"jobmate/search-service/internal/scraper"
)

const sweepSpec = "@every 1m"

// Ingester runs one ingestion cycle for a target, normally *scraper.Worker.
type Ingester interface {
	Run(ctx context.Context, t model.IngestTarget) (scraper.Stats, error)
}

// Sweeper drops expired cache entries, normally *cache.Memory.
type Sweeper interface {
	Sweep() int
}

// Scheduler wraps robfig/cron and manages the ingestion and sweep loops.
type Scheduler struct {
	cron    *cron.Cron
	worker  Ingester
	targets []model.IngestTarget
	sweeper Sweeper
	spec    string // cron spec, e.g. "@every 6h"
}

// New creates a Scheduler that ingests every intervalHours hours. A zero
// interval, a nil worker or no targets disable ingestion; a nil sweeper
// disables sweeping.
func New(worker Ingester, targets []model.IngestTarget, sweeper Sweeper, intervalHours int) *Scheduler {
	s := &Scheduler{
		cron:    cron.New(cron.WithLogger(cron.DefaultLogger)),
		targets: targets,
		sweeper: sweeper,
	}
	if worker != nil && intervalHours > 0 && len(targets) > 0 {
		s.worker = worker
		s.spec = fmt.Sprintf("@every %dh", intervalHours)
	}
	return s
}

// Start registers the jobs and starts the scheduler. Also runs one
// ingestion immediately so the store is populated without waiting for the
// first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.worker != nil {
		if _, err := s.cron.AddFunc(s.spec, func() { s.runIngest(ctx) }); err != nil {
			return fmt.Errorf("cron.AddFunc: %w", err)
		}
	}
	if s.sweeper != nil {
		if _, err := s.cron.AddFunc(sweepSpec, s.runSweep); err != nil {
			return fmt.Errorf("cron.AddFunc: %w", err)
		}
	}

	s.cron.Start()
	if s.worker == nil {
		log.Println("[scheduler] Cron started — ingestion disabled")
		return nil
	}
	log.Printf("[scheduler] Cron started — spec: %s, targets: %d", s.spec, len(s.targets))

	// Run immediately on startup (non-blocking)
	go s.runIngest(ctx)

	return nil
}

// Stop shuts down the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Println("[scheduler] Cron stopped")
}

// runIngest runs the worker for every configured target.
func (s *Scheduler) runIngest(ctx context.Context) {
	log.Printf("[scheduler] Ingestion cycle started for %d target(s)", len(s.targets))

	var total scraper.Stats
	for _, t := range s.targets {
		stats, err := s.worker.Run(ctx, t)
		total.Inserted += stats.Inserted
		if err != nil {
			log.Printf("[scheduler] Worker error for target %q: %v", t.Name, err)
		}
	}

	log.Printf("[scheduler] Ingestion cycle complete — inserted=%d", total.Inserted)
}

func (s *Scheduler) runSweep() {
	if n := s.sweeper.Sweep(); n > 0 {
		log.Printf("[scheduler] Swept %d expired cache entries", n)
	}
}
