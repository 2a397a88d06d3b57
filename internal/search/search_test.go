package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/search-service/internal/cache"
	"jobmate/search-service/internal/cascade"
	"jobmate/search-service/internal/model"
	"jobmate/search-service/internal/notify"
)

var now = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

type fakeRunner struct {
	mu      sync.Mutex
	outcome cascade.Outcome
	err     error
	calls   int
	got     model.SearchQuery
}

func (f *fakeRunner) Run(_ context.Context, q model.SearchQuery, _ []string) (cascade.Outcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.got = q
	out := f.outcome
	out.Postings = append([]model.JobPosting(nil), f.outcome.Postings...)
	return out, f.err
}

type fakeNotifier struct {
	recipient string
	postings  []model.JobPosting
	desc      notify.Descriptor
	err       error
}

func (f *fakeNotifier) Deliver(_ context.Context, recipient string, postings []model.JobPosting, q notify.Descriptor) error {
	f.recipient, f.postings, f.desc = recipient, postings, q
	return f.err
}

func posting(id, title, location string, age time.Duration) model.JobPosting {
	return model.JobPosting{
		ID:          id,
		Title:       title,
		Company:     "Empresa " + id,
		Location:    location,
		Country:     "Brasil",
		Description: "Vaga para backend developer com Go e PostgreSQL.",
		URL:         "https://jobs.example/" + id,
		PostedAt:    now.Add(-age),
		Source:      model.SourceDatabase,
	}
}

func backendQuery() model.SearchQuery {
	return model.SearchQuery{
		Location: "Recife",
		Country:  "Brasil",
		JobType:  "Backend Developer",
		Tier:     model.TierPremium,
		UseCache: true,
	}
}

func newTestService(t *testing.T, r Runner, n notify.Deliverer) (*Service, *cache.Memory) {
	t.Helper()
	c, err := cache.NewMemory(0, 0)
	require.NoError(t, err)
	s := NewService(r, c, n)
	s.now = func() time.Time { return now }
	return s, c
}

func TestSearch_DirectStage(t *testing.T) {
	runner := &fakeRunner{outcome: cascade.Outcome{Stage: cascade.StageDirect, Postings: []model.JobPosting{
		posting("1", "backend developer", "Recife, PE", 48*time.Hour),
		posting("2", "Backend Developer Sr", "Recife", 24*time.Hour),
		posting("3", "Backend Developer", "Porto Alegre", time.Hour),
		posting("4", "Backend Developer", "Recife", 90*24*time.Hour),
	}}}
	s, c := newTestService(t, runner, nil)

	res, err := s.Search(context.Background(), Request{Query: backendQuery()})
	require.NoError(t, err)

	assert.Equal(t, cascade.StageDirect, res.Stage)
	assert.False(t, res.FromCache)
	assert.Equal(t, 2, res.TotalJobs, "other city and 90 day old posting are filtered")
	assert.Equal(t, 1, res.TotalPages)
	assert.Equal(t, 1, res.CurrentPage)
	require.Len(t, res.Postings, 2)
	for _, p := range res.Postings {
		assert.NotNil(t, p.Metadata)
		assert.Contains(t, []string{"1", "2"}, p.ID)
	}
	assert.Equal(t, DefaultPageSize, runner.got.PageSize)

	_, ok := c.Get(context.Background(), cache.Key("Recife", "Brasil", "Backend Developer"))
	assert.True(t, ok, "non-empty run is cached")
}

func TestSearch_CacheShortCircuits(t *testing.T) {
	runner := &fakeRunner{outcome: cascade.Outcome{Stage: cascade.StageDirect, Postings: []model.JobPosting{
		posting("1", "Backend Developer", "Recife", time.Hour),
	}}}
	s, _ := newTestService(t, runner, nil)
	ctx := context.Background()

	_, err := s.Search(ctx, Request{Query: backendQuery()})
	require.NoError(t, err)

	q := backendQuery()
	q.Location = "  RECIFE "
	res, err := s.Search(ctx, Request{Query: q})
	require.NoError(t, err)
	assert.True(t, res.FromCache)
	assert.Equal(t, 1, res.TotalJobs)
	assert.Equal(t, 1, runner.calls)

	q.UseCache = false
	res, err = s.Search(ctx, Request{Query: q})
	require.NoError(t, err)
	assert.False(t, res.FromCache)
	assert.Equal(t, 2, runner.calls)
}

func TestSearch_FilteredRequestsBypassCache(t *testing.T) {
	runner := &fakeRunner{outcome: cascade.Outcome{Stage: cascade.StageDirect, Postings: []model.JobPosting{
		posting("1", "Backend Developer", "Recife", time.Hour),
	}}}
	s, c := newTestService(t, runner, nil)

	q := backendQuery()
	q.Filters.ExcludeKeywords = []string{"estagio"}
	_, err := s.Search(context.Background(), Request{Query: q})
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestSearch_EmptyIsSuccess(t *testing.T) {
	runner := &fakeRunner{outcome: cascade.Outcome{Stage: cascade.StageLocationOnly}}
	s, c := newTestService(t, runner, nil)

	res, err := s.Search(context.Background(), Request{Query: backendQuery()})
	require.NoError(t, err)
	assert.True(t, res.Empty())
	assert.Equal(t, cascade.StageLocationOnly, res.Stage)
	assert.Equal(t, 0, res.TotalPages)
	assert.Equal(t, 1, res.CurrentPage)
	assert.Empty(t, res.Postings)
	assert.Equal(t, 0, c.Len(), "empty runs are not cached")
}

func TestSearch_LocationOnlySkipsRoleMatching(t *testing.T) {
	runner := &fakeRunner{outcome: cascade.Outcome{Stage: cascade.StageLocationOnly, Postings: []model.JobPosting{
		{ID: "1", Title: "Analista Financeiro", Company: "Banco", Location: "Recife", Country: "Brasil", PostedAt: now},
	}}}
	s, _ := newTestService(t, runner, nil)

	res, err := s.Search(context.Background(), Request{Query: backendQuery()})
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalJobs)
}

func TestSearch_StoreFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("connection refused")}
	s, _ := newTestService(t, runner, nil)

	_, err := s.Search(context.Background(), Request{Query: backendQuery()})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSearchFailed)
	assert.ErrorContains(t, err, "connection refused")
}

func TestSearch_Validation(t *testing.T) {
	s, _ := newTestService(t, &fakeRunner{}, nil)

	q := backendQuery()
	q.JobType = "   "
	_, err := s.Search(context.Background(), Request{Query: q})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "jobType is required", verr.Msg)
}

func TestSearch_Notification(t *testing.T) {
	runner := &fakeRunner{outcome: cascade.Outcome{Stage: cascade.StageDirect, Postings: []model.JobPosting{
		posting("1", "Backend Developer", "Recife", time.Hour),
	}}}

	t.Run("delivered", func(t *testing.T) {
		n := &fakeNotifier{}
		s, _ := newTestService(t, runner, n)
		res, err := s.Search(context.Background(), Request{Query: backendQuery(), Recipient: "ana@example.com"})
		require.NoError(t, err)
		assert.True(t, res.Notified)
		assert.Equal(t, "ana@example.com", n.recipient)
		assert.Equal(t, res.Postings, n.postings)
		assert.Equal(t, notify.Descriptor{Location: "Recife", Country: "Brasil", JobType: "Backend Developer"}, n.desc)
	})

	t.Run("failure keeps the result", func(t *testing.T) {
		n := &fakeNotifier{err: errors.New("smtp down")}
		s, _ := newTestService(t, runner, n)
		res, err := s.Search(context.Background(), Request{Query: backendQuery(), Recipient: "ana@example.com"})
		require.NoError(t, err)
		assert.False(t, res.Notified)
		assert.Equal(t, 1, res.TotalJobs)
	})

	t.Run("no recipient", func(t *testing.T) {
		n := &fakeNotifier{}
		s, _ := newTestService(t, runner, n)
		res, err := s.Search(context.Background(), Request{Query: backendQuery()})
		require.NoError(t, err)
		assert.False(t, res.Notified)
		assert.Empty(t, n.recipient)
	})
}

func TestSearch_FreeTierCap(t *testing.T) {
	var postings []model.JobPosting
	for i := range 25 {
		postings = append(postings, posting(fmt.Sprint(i), fmt.Sprintf("Backend Developer %d", i), "Recife", time.Duration(i)*time.Hour))
	}
	runner := &fakeRunner{outcome: cascade.Outcome{Stage: cascade.StageDirect, Postings: postings}}
	s, _ := newTestService(t, runner, nil)

	q := backendQuery()
	q.Tier = model.TierFree
	q.PageSize = 50
	res, err := s.Search(context.Background(), Request{Query: q})
	require.NoError(t, err)
	assert.Equal(t, 25, res.TotalJobs)
	assert.Len(t, res.Postings, FreeTierCap)
}

func TestCriteria(t *testing.T) {
	q := backendQuery()
	terms := []string{"backend", "developer"}

	c := criteria(q, terms, cascade.StageDirect, now)
	assert.Equal(t, "Backend Developer", c.JobType)
	assert.Equal(t, terms, c.Keywords)
	assert.Equal(t, premiumMaxDaysOld, c.MaxDaysOld)

	q.Tier = model.TierFree
	c = criteria(q, terms, cascade.StageSynonym, now)
	assert.Empty(t, c.JobType)
	assert.Equal(t, terms, c.Keywords)
	assert.Equal(t, freeMaxDaysOld, c.MaxDaysOld)

	q.Filters.MaxDaysOld = 7
	c = criteria(q, terms, cascade.StageLocationOnly, now)
	assert.Empty(t, c.JobType)
	assert.Empty(t, c.Keywords)
	assert.Equal(t, 7, c.MaxDaysOld)
	assert.Equal(t, "Recife", c.Location)
}

func numbered(n int) []model.JobPosting {
	out := make([]model.JobPosting, n)
	for i := range out {
		out[i].ID = fmt.Sprint(i)
	}
	return out
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		page      int
		size      int
		premium   bool
		wantLen   int
		wantPages int
		wantPage  int
		wantFirst string
	}{
		{"first page", 25, 1, 10, true, 10, 3, 1, "0"},
		{"last page", 25, 3, 10, true, 5, 3, 3, "20"},
		{"page past end is clamped", 25, 9, 10, true, 5, 3, 3, "20"},
		{"page below one is clamped", 25, -2, 10, true, 10, 3, 1, "0"},
		{"default size", 45, 2, 0, true, 20, 3, 2, "20"},
		{"free tier cap", 45, 1, 20, false, 10, 3, 1, "0"},
		{"free tier under cap", 5, 1, 20, false, 5, 1, 1, "0"},
		{"empty", 0, 4, 10, true, 0, 0, 1, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(numbered(tt.n), tt.page, tt.size, tt.premium)
			assert.Len(t, p.Postings, tt.wantLen)
			assert.Equal(t, tt.n, p.TotalJobs)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.wantPage, p.Current)
			if tt.wantFirst != "" {
				assert.Equal(t, tt.wantFirst, p.Postings[0].ID)
			}
		})
	}
}

func TestPaginate_CoversEveryItemOnce(t *testing.T) {
	for _, n := range []int{0, 1, 9, 10, 11, 57} {
		for _, size := range []int{1, 3, 10, 20} {
			list := numbered(n)
			first := Paginate(list, 1, size, true)

			seen := make(map[string]int)
			var joined []model.JobPosting
			for page := 1; page <= first.TotalPages; page++ {
				for _, p := range Paginate(list, page, size, true).Postings {
					seen[p.ID]++
					joined = append(joined, p)
				}
			}
			assert.Len(t, joined, n, "n=%d size=%d", n, size)
			for i, p := range joined {
				assert.Equal(t, fmt.Sprint(i), p.ID)
				assert.Equal(t, 1, seen[p.ID])
			}
		}
	}
}
