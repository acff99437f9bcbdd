package service_test

import (
	"cloud-function-discovery/internal/domain"
	"cloud-function-discovery/internal/ranking"
	"context"
	"sync"
)

// MockEventRepository manually implements repository.EventRepository for testing
type MockEventRepository struct {
	FindFunc func(ctx context.Context, q domain.EventQuery) ([]domain.Event, error)
	SaveFunc func(ctx context.Context, event *domain.Event) error

	mu      sync.Mutex
	Queries []domain.EventQuery
}

func (m *MockEventRepository) Find(ctx context.Context, q domain.EventQuery) ([]domain.Event, error) {
	m.mu.Lock()
	m.Queries = append(m.Queries, q)
	m.mu.Unlock()
	if m.FindFunc != nil {
		return m.FindFunc(ctx, q)
	}
	return nil, nil
}

func (m *MockEventRepository) Save(ctx context.Context, event *domain.Event) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, event)
	}
	return nil
}

// MockSearchLogRepository manually implements repository.SearchLogRepository for testing
type MockSearchLogRepository struct {
	SaveSearchFunc func(ctx context.Context, entry *domain.SearchLogEntry) error
	ListRecentFunc func(ctx context.Context, limit int) ([]domain.SearchLogEntry, error)
}

func (m *MockSearchLogRepository) SaveSearch(ctx context.Context, entry *domain.SearchLogEntry) error {
	if m.SaveSearchFunc != nil {
		return m.SaveSearchFunc(ctx, entry)
	}
	return nil
}

func (m *MockSearchLogRepository) ListRecent(ctx context.Context, limit int) ([]domain.SearchLogEntry, error) {
	if m.ListRecentFunc != nil {
		return m.ListRecentFunc(ctx, limit)
	}
	return nil, nil
}

// MockSearchLogService manually implements service.SearchLogService for testing
type MockSearchLogService struct {
	RecordFunc func(ctx context.Context, entry *domain.SearchLogEntry) error
	RecentFunc func(ctx context.Context, limit int) ([]domain.SearchLogEntry, error)
}

func (m *MockSearchLogService) Record(ctx context.Context, entry *domain.SearchLogEntry) error {
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, entry)
	}
	return nil
}

func (m *MockSearchLogService) Recent(ctx context.Context, limit int) ([]domain.SearchLogEntry, error) {
	if m.RecentFunc != nil {
		return m.RecentFunc(ctx, limit)
	}
	return nil, nil
}

// MockRanker manually implements service.Ranker for testing
type MockRanker struct {
	EnabledFunc func() bool
	ScoreFunc   func(ctx context.Context, query string, candidates []domain.CandidateEvent) ranking.Result
}

func (m *MockRanker) Enabled() bool {
	if m.EnabledFunc != nil {
		return m.EnabledFunc()
	}
	return true
}

func (m *MockRanker) Score(ctx context.Context, query string, candidates []domain.CandidateEvent) ranking.Result {
	if m.ScoreFunc != nil {
		return m.ScoreFunc(ctx, query, candidates)
	}
	return ranking.Result{Scores: []domain.ScoredEvent{}}
}

// MockRankingStatus manually implements service.RankingStatus for testing
type MockRankingStatus struct {
	ModelName string
	State     string
}

func (m *MockRankingStatus) Model() string        { return m.ModelName }
func (m *MockRankingStatus) BreakerState() string { return m.State }
