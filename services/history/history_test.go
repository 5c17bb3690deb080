package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AbdulWasayUl/go-weather-bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	inserted  []models.Lookup
	insertErr error
	cutoff    time.Time
	deleted   int64
	deleteErr error
	limit     int64
}

func (f *fakeRepo) Insert(ctx context.Context, l models.Lookup) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, l)
	return nil
}

func (f *fakeRepo) Recent(ctx context.Context, chatID int64, limit int64) ([]models.Lookup, error) {
	f.limit = limit
	var out []models.Lookup
	for _, l := range f.inserted {
		if l.ChatID == chatID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeRepo) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.deleted, f.deleteErr
}

var fixedNow = time.Date(2024, 3, 10, 1, 0, 0, 0, time.UTC)

func newTestService(repo Repository) *Service {
	s := NewService(repo, 24*time.Hour)
	s.Now = func() time.Time { return fixedNow }
	return s
}

func TestRecord(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestService(repo)

	s.Record(context.Background(), models.Lookup{ChatID: 1, Kind: "city", Query: "Tashkent", Outcome: models.OutcomeOK})

	require.Len(t, repo.inserted, 1)
	assert.Equal(t, fixedNow, repo.inserted[0].CreatedAt)
	assert.Equal(t, "Tashkent", repo.inserted[0].Query)
}

func TestRecord_SwallowsErrors(t *testing.T) {
	repo := &fakeRepo{insertErr: errors.New("mongo down")}
	s := newTestService(repo)

	assert.NotPanics(t, func() {
		s.Record(context.Background(), models.Lookup{ChatID: 1})
	})
}

func TestRecent(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestService(repo)
	s.Record(context.Background(), models.Lookup{ChatID: 1, Query: "A"})
	s.Record(context.Background(), models.Lookup{ChatID: 2, Query: "B"})

	got, err := s.Recent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Query)
	assert.Equal(t, int64(RecentLimit), repo.limit)
}

func TestRunBatchJob(t *testing.T) {
	repo := &fakeRepo{deleted: 3}
	s := newTestService(repo)

	require.NoError(t, s.RunBatchJob(context.Background()))
	assert.Equal(t, fixedNow.Add(-24*time.Hour), repo.cutoff)

	repo.deleteErr = errors.New("boom")
	assert.Error(t, s.RunBatchJob(context.Background()))
}

func TestDisabled(t *testing.T) {
	var s *Service

	assert.False(t, s.Enabled())
	assert.NotPanics(t, func() { s.Record(context.Background(), models.Lookup{}) })

	got, err := s.Recent(context.Background(), 1)
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, s.RunBatchJob(context.Background()))

	assert.False(t, NewService(nil, time.Hour).Enabled())
}
