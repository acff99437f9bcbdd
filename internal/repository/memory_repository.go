package repository

import (
	"cloud-function-discovery/internal/domain"
	"context"
	"sort"
	"sync"
)

// MemoryEventRepository keeps events in process. It backs local development and tests and
// evaluates every clause with domain.Predicate.Match.
type MemoryEventRepository struct {
	mu      sync.RWMutex
	events  map[string]domain.Event
	shuffle Shuffler
}

func NewMemoryEventRepository(shuffle Shuffler, events ...domain.Event) *MemoryEventRepository {
	r := &MemoryEventRepository{events: make(map[string]domain.Event, len(events)), shuffle: defaultShuffler(shuffle)}
	for _, e := range events {
		r.events[e.ID] = e.WithDefaultEnd()
	}
	return r
}

func (r *MemoryEventRepository) Save(_ context.Context, event *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[event.ID] = event.WithDefaultEnd()
	return nil
}

func (r *MemoryEventRepository) Find(ctx context.Context, q domain.EventQuery) ([]domain.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, retrievalError("find events", err)
	}

	r.mu.RLock()
	matched := make([]domain.Event, 0, len(r.events))
	for _, e := range r.events {
		if q.Predicate.Match(&e) {
			matched = append(matched, e)
		}
	}
	r.mu.RUnlock()

	// Map iteration is random; ID breaks ties so the order is deterministic.
	sort.SliceStable(matched, func(i, j int) bool {
		if c := compareField(&matched[i], &matched[j], q.OrderBy); c != 0 {
			return c < 0
		}
		return matched[i].ID < matched[j].ID
	})

	return finish(matched, nil, q, r.shuffle), nil
}

func compareField(a, b *domain.Event, f domain.Field) int {
	switch f {
	case domain.FieldStartTime:
		return a.StartTime.Compare(b.StartTime)
	case domain.FieldEndTime:
		return a.End().Compare(b.End())
	case domain.FieldPrice:
		return compareFloat(a.Price, b.Price)
	case domain.FieldFamilyScore:
		return compareFloat(a.FamilyScore, b.FamilyScore)
	default:
		return 0
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// MemorySearchLogRepository keeps the most recent searches in a bounded ring.
type MemorySearchLogRepository struct {
	mu       sync.Mutex
	entries  []domain.SearchLogEntry
	capacity int
}

func NewMemorySearchLogRepository(capacity int) *MemorySearchLogRepository {
	if capacity <= 0 {
		capacity = 1000
	}
	return &MemorySearchLogRepository{capacity: capacity}
}

func (r *MemorySearchLogRepository) SaveSearch(_ context.Context, entry *domain.SearchLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	if len(r.entries) > r.capacity {
		r.entries = r.entries[len(r.entries)-r.capacity:]
	}
	return nil
}

func (r *MemorySearchLogRepository) ListRecent(_ context.Context, limit int) ([]domain.SearchLogEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.SearchLogEntry, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}
