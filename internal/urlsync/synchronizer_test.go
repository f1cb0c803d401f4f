package urlsync

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-attendance-dashboard/internal/models"
)

type fakeStudents struct {
	mu      sync.Mutex
	query   models.StudentsQuery
	fetches []models.StudentsQuery
	err     error
}

func (f *fakeStudents) Query() models.StudentsQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.query
}

func (f *fakeStudents) Fetch(_ context.Context, q models.StudentsQuery) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.query = q
	f.fetches = append(f.fetches, q)
	return f.err
}

func TestHydrateSeedsFromLocation(t *testing.T) {
	loc := NewMemoryLocation("?page=3&class=c1")
	target := &fakeStudents{}
	s := NewSynchronizer[models.StudentsQuery](StudentsCodec{}, loc, target)

	assert.Equal(t, Uninitialized, s.State())
	require.NoError(t, s.Hydrate(context.Background()))
	assert.Equal(t, Synced, s.State())

	require.Len(t, target.fetches, 1)
	want := models.DefaultStudentsQuery()
	want.Page = 3
	want.Class = "c1"
	assert.Equal(t, want, target.fetches[0])

	require.NoError(t, s.Hydrate(context.Background()))
	assert.Len(t, target.fetches, 1, "hydration happens once")
}

func TestHydrateFailureStillSyncs(t *testing.T) {
	target := &fakeStudents{err: errors.New("boom")}
	s := NewSynchronizer[models.StudentsQuery](StudentsCodec{}, NewMemoryLocation(""), target)

	assert.EqualError(t, s.Hydrate(context.Background()), "boom")
	assert.Equal(t, Synced, s.State())
}

func TestSyncToURLBeforeHydration(t *testing.T) {
	loc := NewMemoryLocation("page=2")
	target := &fakeStudents{query: models.DefaultStudentsQuery()}
	s := NewSynchronizer[models.StudentsQuery](StudentsCodec{}, loc, target)

	assert.False(t, s.SyncToURL())
	assert.Equal(t, "page=2", loc.Query())
}

func TestSyncToURLIdempotent(t *testing.T) {
	loc := NewMemoryLocation("")
	target := &fakeStudents{}
	s := NewSynchronizer[models.StudentsQuery](StudentsCodec{}, loc, target)
	require.NoError(t, s.Hydrate(context.Background()))

	assert.False(t, s.SyncToURL(), "default query leaves an empty location alone")

	q := target.Query()
	q.Page = 2
	q.Keyword = "li"
	require.NoError(t, target.Fetch(context.Background(), q))

	assert.True(t, s.SyncToURL())
	assert.Equal(t, "page=2&keyword=li", loc.Query())
	assert.False(t, s.SyncToURL())
	assert.Equal(t, 1, loc.Replaces())
	assert.Equal(t, 1, loc.Len(), "replace never pushes")
}

func TestSyncToURLIgnoresPairOrder(t *testing.T) {
	loc := NewMemoryLocation("keyword=li&page=2")
	target := &fakeStudents{}
	s := NewSynchronizer[models.StudentsQuery](StudentsCodec{}, loc, target)
	require.NoError(t, s.Hydrate(context.Background()))

	assert.False(t, s.SyncToURL())
	assert.Equal(t, "keyword=li&page=2", loc.Query())
}

func TestSyncFromURL(t *testing.T) {
	loc := NewMemoryLocation("page=2")
	target := &fakeStudents{}
	s := NewSynchronizer[models.StudentsQuery](StudentsCodec{}, loc, target)
	require.NoError(t, s.Hydrate(context.Background()))

	changed, err := s.SyncFromURL(context.Background())
	require.NoError(t, err)
	assert.False(t, changed)

	loc.Push("page=2&order=desc")
	changed, err = s.SyncFromURL(context.Background())
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.OrderDesc, target.Query().Order)

	require.True(t, loc.Back())
	changed, err = s.SyncFromURL(context.Background())
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.OrderAsc, target.Query().Order)
	assert.Len(t, target.fetches, 3)
}

func TestSyncFromURLSubstitutesDefaults(t *testing.T) {
	loc := NewMemoryLocation("")
	target := &fakeStudents{}
	s := NewSynchronizer[models.StudentsQuery](StudentsCodec{}, loc, target)
	require.NoError(t, s.Hydrate(context.Background()))

	target.mu.Lock()
	target.query = models.StudentsQuery{Page: 1}
	target.mu.Unlock()

	changed, err := s.SyncFromURL(context.Background())
	require.NoError(t, err)
	assert.False(t, changed, "unset store fields compare equal to their defaults")
}

func TestHydrateBaseOption(t *testing.T) {
	type reports struct {
		mu    sync.Mutex
		state ReportsState
	}
	r := &reports{}
	target := targetFunc[ReportsState]{
		query: func() ReportsState { r.mu.Lock(); defer r.mu.Unlock(); return r.state },
		fetch: func(_ context.Context, s ReportsState) error { r.mu.Lock(); defer r.mu.Unlock(); r.state = s; return nil },
	}
	base := ReportsState{Tab: models.TabSummary}
	s := NewSynchronizer[ReportsState](ReportsCodec{}, NewMemoryLocation("daily_date=03-05"), target,
		WithHydrateBase[ReportsState](func(v url.Values) ReportsState { return DecodeReports(v, base) }))

	require.NoError(t, s.Hydrate(context.Background()))
	assert.Equal(t, models.TabSummary, target.Query().Tab)
	assert.Equal(t, "03-05", target.Query().Daily.Date)
}

type targetFunc[Q any] struct {
	query func() Q
	fetch func(context.Context, Q) error
}

func (t targetFunc[Q]) Query() Q                            { return t.query() }
func (t targetFunc[Q]) Fetch(ctx context.Context, q Q) error { return t.fetch(ctx, q) }
