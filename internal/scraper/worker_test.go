package scraper

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/search-service/internal/db"
	"jobmate/search-service/internal/model"
	"jobmate/search-service/internal/provider"
	"jobmate/search-service/internal/retry"
	"jobmate/search-service/internal/store"
)

var noWait = retry.Policy{MaxAttempts: 2, BaseDelay: time.Millisecond, Factor: 1}

type fakeProvider struct {
	id       provider.ID
	postings map[string][]model.JobPosting // keyed by keyword
	err      error
	queries  []provider.Query
}

func (f *fakeProvider) ID() provider.ID { return f.id }

func (f *fakeProvider) Fetch(_ context.Context, q provider.Query) ([]model.JobPosting, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	return f.postings[q.Keyword], nil
}

type failingWriter struct{}

func (failingWriter) InsertPostings(context.Context, []model.JobPosting) (int, int, error) {
	return 0, 0, errors.New("disk full")
}

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "ingest.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	s := store.NewSQLiteStore(conn)
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestContainsRedFlag(t *testing.T) {
	p := model.JobPosting{Title: "Estágio em Desenvolvimento", Company: "Acme", Description: "Bolsa auxílio"}

	assert.True(t, ContainsRedFlag(p, []string{"estagio"}), "accents are ignored")
	assert.True(t, ContainsRedFlag(p, []string{"", "ACME"}))
	assert.False(t, ContainsRedFlag(p, []string{"trainee", "  "}))
	assert.False(t, ContainsRedFlag(p, nil))
}

func TestWorker_Run(t *testing.T) {
	st := newTestStore(t)
	adzuna := &fakeProvider{id: provider.Adzuna, postings: map[string][]model.JobPosting{
		"Go Developer": {
			{ID: "1", Title: "Go Developer", Company: "Acme", Location: "Recife", Country: "Brasil",
				Description: "<p>Build <b>APIs</b></p>", URL: "https://jobs.example/1"},
			{ID: "2", Title: "Go Developer Trainee", Company: "Acme", Location: "Recife", Country: "Brasil",
				URL: "https://jobs.example/2"},
		},
	}}
	indeed := &fakeProvider{id: provider.Indeed, postings: map[string][]model.JobPosting{
		"Go Developer": {
			{ID: "9", Title: "Go Developer", Company: "Acme", URL: "https://jobs.example/1"},
		},
	}}
	broken := &fakeProvider{id: provider.GitHub, err: errors.New("503")}

	w := NewWorker([]provider.Provider{adzuna, indeed, broken}, st, noWait, 25)
	stats, err := w.Run(context.Background(), model.IngestTarget{
		Name:      "recife",
		JobTitles: []string{"Go Developer"},
		Locations: []string{"Recife"},
		Country:   "Brasil",
		RedFlags:  []string{"trainee"},
	})
	require.NoError(t, err)
	assert.Equal(t, Stats{Inserted: 1, Filtered: 1, Duplicate: 1, Failed: 1}, stats)
	assert.Len(t, broken.queries, 2, "retried once")
	assert.Equal(t, provider.Query{Keyword: "Go Developer", Location: "Recife", Country: "Brasil", Limit: 25}, adzuna.queries[0])

	got, total, err := st.QueryPostings(context.Background(), store.Query{Keyword: "go developer"})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, "Build APIs", got[0].Description)
}

func TestWorker_EveryPair(t *testing.T) {
	p := &fakeProvider{id: provider.Adzuna}
	w := NewWorker([]provider.Provider{p}, failingWriter{}, noWait, 0)

	stats, err := w.Run(context.Background(), model.IngestTarget{
		JobTitles: []string{"Go", "Rust"},
		Locations: []string{"Recife", "Lisboa"},
	})
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)
	assert.Len(t, p.queries, 4)
}

func TestWorker_StoreFailureStops(t *testing.T) {
	p := &fakeProvider{id: provider.Adzuna, postings: map[string][]model.JobPosting{
		"Go": {{Title: "Go", URL: "https://jobs.example/go"}},
	}}
	w := NewWorker([]provider.Provider{p}, failingWriter{}, noWait, 0)

	_, err := w.Run(context.Background(), model.IngestTarget{JobTitles: []string{"Go"}, Locations: []string{"Recife", "Lisboa"}})
	assert.ErrorContains(t, err, "disk full")
	assert.Len(t, p.queries, 1)
}
