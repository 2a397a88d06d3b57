package cascade

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/search-service/internal/expander"
	"jobmate/search-service/internal/model"
	"jobmate/search-service/internal/provider"
	"jobmate/search-service/internal/store"
)

type fakeGateway struct {
	postings []model.JobPosting
	err      error
	got      provider.GatewayQuery
}

func (f *fakeGateway) Fetch(_ context.Context, q provider.GatewayQuery) ([]model.JobPosting, error) {
	f.got = q
	return f.postings, f.err
}

// fakeStore answers by keyword; an empty keyword is the location-only query.
type fakeStore struct {
	mu        sync.Mutex
	byKeyword map[string][]model.JobPosting
	failOn    string
	queries   []store.Query
}

func (f *fakeStore) QueryPostings(_ context.Context, q store.Query) ([]model.JobPosting, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.failOn != "" && q.Keyword == f.failOn {
		return nil, 0, errors.New("store down")
	}
	src := f.byKeyword[q.Keyword]
	out := make([]model.JobPosting, len(src))
	copy(out, src)
	return out, len(out), nil
}

var saoPaulo = model.SearchQuery{
	Location: "São Paulo",
	Country:  "Brasil",
	JobType:  "Desenvolvedor Frontend React",
	Tier:     model.TierFree,
}

func TestRun_DirectHit(t *testing.T) {
	gw := &fakeGateway{postings: []model.JobPosting{{ID: "1", Source: model.SourceDatabase}}}
	st := &fakeStore{}
	c := New(gw, st, 0)

	out, err := c.Run(context.Background(), saoPaulo, []string{"desenvolvedor"})
	require.NoError(t, err)
	assert.Equal(t, StageDirect, out.Stage)
	assert.Len(t, out.Postings, 1)
	assert.Empty(t, st.queries)
	assert.Equal(t, DefaultLimit, gw.got.Limit)
	assert.False(t, gw.got.Premium)
}

func TestRun_SynonymStageUnionsInTermOrder(t *testing.T) {
	gw := &fakeGateway{}
	st := &fakeStore{byKeyword: map[string][]model.JobPosting{
		"frontend": {{ID: "f1"}},
		"react":    {{ID: "r1"}, {ID: "r2"}},
		"vue":      {{ID: "ignored"}},
	}}
	c := New(gw, st, 25)

	out, err := c.Run(context.Background(), saoPaulo, []string{"desenvolvedor", "frontend", "react", "vue"})
	require.NoError(t, err)
	assert.Equal(t, StageSynonym, out.Stage)

	var ids []string
	for _, p := range out.Postings {
		ids = append(ids, p.ID)
		assert.Equal(t, model.SourceSynonym, p.Source)
	}
	assert.Equal(t, []string{"f1", "r1", "r2"}, ids)
	assert.Len(t, st.queries, 3)
	for _, q := range st.queries {
		assert.Equal(t, 25, q.Limit)
		assert.Equal(t, "São Paulo", q.Location)
	}
}

func TestRun_LocationOnly(t *testing.T) {
	gw := &fakeGateway{}
	st := &fakeStore{byKeyword: map[string][]model.JobPosting{
		"": {{ID: "loc1"}},
	}}
	c := New(gw, st, 0)

	out, err := c.Run(context.Background(), saoPaulo, []string{"frontend"})
	require.NoError(t, err)
	assert.Equal(t, StageLocationOnly, out.Stage)
	require.Len(t, out.Postings, 1)
	assert.Equal(t, model.SourceLocation, out.Postings[0].Source)
}

func TestRun_EveryStageEmptyIsSuccess(t *testing.T) {
	gw := &fakeGateway{}
	st := &fakeStore{}
	c := New(gw, st, 0)

	terms := expander.ExtractTerms(saoPaulo.JobType)
	out, err := c.Run(context.Background(), saoPaulo, terms)
	require.NoError(t, err)
	assert.Equal(t, StageLocationOnly, out.Stage)
	assert.Empty(t, out.Postings)

	// three synonym queries plus the location-only one
	require.Len(t, st.queries, 4)
	last := st.queries[3]
	assert.Empty(t, last.Keyword)
	assert.Equal(t, "Brasil", last.Country)
}

func TestRun_NoTermsSkipsSynonymQueries(t *testing.T) {
	st := &fakeStore{}
	c := New(&fakeGateway{}, st, 0)

	out, err := c.Run(context.Background(), saoPaulo, nil)
	require.NoError(t, err)
	assert.Equal(t, StageLocationOnly, out.Stage)
	assert.Len(t, st.queries, 1)
}

func TestRun_StoreErrorsAbort(t *testing.T) {
	_, err := New(&fakeGateway{err: errors.New("store down")}, &fakeStore{}, 0).
		Run(context.Background(), saoPaulo, nil)
	assert.ErrorContains(t, err, "direct stage")

	_, err = New(&fakeGateway{}, &fakeStore{failOn: "react"}, 0).
		Run(context.Background(), saoPaulo, []string{"frontend", "react"})
	assert.ErrorContains(t, err, "synonym stage")
}

func TestRun_PremiumFlagReachesGateway(t *testing.T) {
	gw := &fakeGateway{postings: []model.JobPosting{{ID: "x"}}}
	q := saoPaulo
	q.Tier = model.TierPremium

	_, err := New(gw, &fakeStore{}, 0).Run(context.Background(), q, nil)
	require.NoError(t, err)
	assert.True(t, gw.got.Premium)
	assert.Equal(t, "Desenvolvedor Frontend React", gw.got.JobType)
}
