package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/search-service/internal/model"
	"jobmate/search-service/internal/scraper"
)

type recordingWorker struct {
	mu    sync.Mutex
	names []string
	done  chan struct{}
}

func (w *recordingWorker) Run(_ context.Context, t model.IngestTarget) (scraper.Stats, error) {
	w.mu.Lock()
	w.names = append(w.names, t.Name)
	n := len(w.names)
	w.mu.Unlock()
	if n == 2 {
		close(w.done)
	}
	if t.Name == "bad" {
		return scraper.Stats{}, errors.New("store down")
	}
	return scraper.Stats{Inserted: 1}, nil
}

type countingSweeper struct{ calls int }

func (c *countingSweeper) Sweep() int { c.calls++; return 2 }

func TestNew_DisablesIngestion(t *testing.T) {
	w := &recordingWorker{}
	targets := []model.IngestTarget{{Name: "a"}}

	assert.Nil(t, New(w, targets, nil, 0).worker)
	assert.Nil(t, New(w, nil, nil, 6).worker)
	assert.Nil(t, New(nil, targets, nil, 6).worker)

	s := New(w, targets, nil, 6)
	assert.NotNil(t, s.worker)
	assert.Equal(t, "@every 6h", s.spec)
}

func TestStart_RunsIngestionImmediately(t *testing.T) {
	w := &recordingWorker{done: make(chan struct{})}
	s := New(w, []model.IngestTarget{{Name: "bad"}, {Name: "good"}}, &countingSweeper{}, 12)
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	select {
	case <-w.done:
	case <-time.After(2 * time.Second):
		t.Fatal("immediate ingestion did not run")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	assert.Equal(t, []string{"bad", "good"}, w.names, "a failing target does not stop the cycle")
}

func TestRunSweep(t *testing.T) {
	sw := &countingSweeper{}
	s := New(nil, nil, sw, 0)
	s.runSweep()
	assert.Equal(t, 1, sw.calls)
}
