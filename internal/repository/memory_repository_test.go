package repository

import (
	"cloud-function-discovery/internal/domain"
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryEventRepository_FindOrdersAndLimits(t *testing.T) {
	base := time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)
	repo := NewMemoryEventRepository(nil,
		domain.Event{ID: "late", Status: domain.StatusActive, StartTime: base.Add(3 * time.Hour)},
		domain.Event{ID: "early", Status: domain.StatusActive, StartTime: base},
		domain.Event{ID: "inactive", Status: domain.StatusInactive, StartTime: base},
		domain.Event{ID: "mid", Status: domain.StatusActive, StartTime: base.Add(time.Hour)},
	)

	var p domain.Predicate
	require.NoError(t, p.Add(domain.Clause{
		Dimension: domain.DimensionStatus, Kind: domain.ClauseAll,
		Conditions: []domain.Condition{{Field: domain.FieldStatus, Op: domain.OpEqual, Value: domain.StatusActive}},
	}))

	got, err := repo.Find(context.Background(), domain.EventQuery{Predicate: p, OrderBy: domain.FieldStartTime, Limit: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "early", got[0].ID)
	assert.Equal(t, "mid", got[1].ID)
}

func TestMemoryEventRepository_SampleIsSeedable(t *testing.T) {
	var events []domain.Event
	for i := 0; i < 40; i++ {
		events = append(events, domain.Event{ID: fmt.Sprintf("e%02d", i), Status: domain.StatusActive})
	}
	find := func(seed uint64) []string {
		r := rand.New(rand.NewPCG(seed, seed))
		repo := NewMemoryEventRepository(r.Shuffle, events...)
		got, err := repo.Find(context.Background(), domain.EventQuery{Limit: 10, Sample: true})
		require.NoError(t, err)
		ids := make([]string, 0, len(got))
		for _, e := range got {
			ids = append(ids, e.ID)
		}
		return ids
	}

	first := find(7)
	assert.Len(t, first, 10)
	assert.Equal(t, first, find(7))
}

func TestMemoryEventRepository_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemoryEventRepository(nil).Find(ctx, domain.EventQuery{})
	assert.True(t, errors.Is(err, domain.ErrRetrieval))
}

func TestMemoryEventRepository_SaveOverwrites(t *testing.T) {
	repo := NewMemoryEventRepository(nil)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, &domain.Event{ID: "x", Title: "old"}))
	require.NoError(t, repo.Save(ctx, &domain.Event{ID: "x", Title: "new"}))

	got, err := repo.Find(ctx, domain.EventQuery{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].Title)
}

func TestMemoryEventRepository_PointEventMatchesEndTimeFilter(t *testing.T) {
	start := time.Date(2026, 10, 17, 18, 0, 0, 0, time.UTC)
	repo := NewMemoryEventRepository(nil)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, &domain.Event{ID: "talk", Status: domain.StatusActive, StartTime: start}))

	var p domain.Predicate
	require.NoError(t, p.Add(domain.Clause{
		Dimension: domain.DimensionStatus, Kind: domain.ClauseAll,
		Conditions: []domain.Condition{{Field: domain.FieldEndTime, Op: domain.OpGreaterOrEqual, Value: start.Add(-time.Hour)}},
	}))

	got, err := repo.Find(ctx, domain.EventQuery{Predicate: p, Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, start, got[0].EndTime, "stored with end_time equal to start_time")
}

func TestMemorySearchLogRepository_RecentFirstAndBounded(t *testing.T) {
	repo := NewMemorySearchLogRepository(3)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.SaveSearch(ctx, &domain.SearchLogEntry{Query: fmt.Sprintf("q%d", i)}))
	}

	got, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "q4", got[0].Query)
	assert.Equal(t, "q2", got[2].Query)

	got, err = repo.ListRecent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
