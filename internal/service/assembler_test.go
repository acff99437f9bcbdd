package service_test

import (
	"cloud-function-discovery/internal/domain"
	"cloud-function-discovery/internal/ranking"
	"cloud-function-discovery/internal/service"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidates(n int) []domain.CandidateEvent {
	out := make([]domain.CandidateEvent, n)
	for i := range out {
		out[i] = domain.CandidateEvent{Event: domain.Event{ID: fmt.Sprintf("e%d", i)}, Position: i}
	}
	return out
}

func uniform(cands []domain.CandidateEvent, score int) []domain.ScoredEvent {
	out := make([]domain.ScoredEvent, len(cands))
	for i, c := range cands {
		out[i] = domain.ScoredEvent{EventID: c.Event.ID, Score: score, Reason: "same"}
	}
	return out
}

func TestAssemble_TiesKeepRetrievalOrder(t *testing.T) {
	cands := candidates(6)
	resp := service.NewAssembler("test").Assemble(service.Assembly{
		Query: "q", Page: 1, PerPage: 10, Candidates: cands,
		Ranking: ranking.Result{Scores: uniform(cands, 40)},
	})

	require.Len(t, resp.Events, 6)
	for i, ev := range resp.Events {
		assert.Equal(t, fmt.Sprintf("e%d", i), ev.ID)
		assert.Equal(t, 40, ev.AIScore)
		assert.Equal(t, "same", ev.AIReasoning)
	}
}

func TestAssemble_PageWindow(t *testing.T) {
	cands := candidates(7)
	a := service.NewAssembler("test")
	page := func(p, per int) *domain.SearchResponse {
		return a.Assemble(service.Assembly{
			Query: "q", Page: p, PerPage: per, Candidates: cands,
			Ranking: ranking.Result{Scores: uniform(cands, 50)},
		})
	}

	last := page(4, 2)
	assert.Len(t, last.Events, 1)
	assert.Equal(t, domain.Pagination{Page: 4, PerPage: 2, Total: 7, TotalPages: 4, HasNext: false, HasPrev: true}, last.Pagination)

	first := page(1, 3)
	assert.Len(t, first.Events, 3)
	assert.True(t, first.Pagination.HasNext)
	assert.False(t, first.Pagination.HasPrev)
	assert.Equal(t, 3, first.Pagination.TotalPages)

	beyond := page(9, 5)
	assert.NotNil(t, beyond.Events)
	assert.Empty(t, beyond.Events)
	assert.Equal(t, 7, beyond.Pagination.Total)
	assert.False(t, beyond.Pagination.HasNext)

	exact := page(1, 7)
	assert.Equal(t, 1, exact.Pagination.TotalPages)
	assert.False(t, exact.Pagination.HasNext)

	huge := page(math.MaxInt/10, 20)
	assert.Empty(t, huge.Events)
	assert.False(t, huge.Pagination.HasNext, "page numbers far past the end must not wrap around")
	assert.True(t, huge.Pagination.HasPrev)
}

func TestAssemble_EmptyResultIsWellFormed(t *testing.T) {
	resp := service.NewAssembler("test").Assemble(service.Assembly{
		Query: "underwater chess", Page: 1, PerPage: 20,
		Ranking: ranking.Result{Scores: []domain.ScoredEvent{}, FallbackReason: ranking.ReasonNoCandidates},
	})

	assert.NotNil(t, resp.Events)
	assert.Empty(t, resp.Events)
	assert.Contains(t, resp.AIResponse, "underwater chess")
	assert.NotEmpty(t, resp.Suggestions)
	assert.Equal(t, domain.Pagination{Page: 1, PerPage: 20}, resp.Pagination)
	assert.False(t, resp.FallbackUsed)
	assert.Empty(t, resp.FallbackReason)
	assert.Equal(t, "test", resp.Version)
}

func TestAssemble_FallbackAndTiming(t *testing.T) {
	cands := candidates(2)
	start := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	resp := service.NewAssembler("test").Assemble(service.Assembly{
		Query: "q", Page: 1, PerPage: 20, Candidates: cands, AIEnabled: true,
		Ranking: ranking.Result{
			Scores:         uniform(cands, 60),
			FallbackReason: ranking.ReasonTimeout,
			Keywords:       []string{"ignored"},
		},
		Analysis: domain.QueryAnalysis{Keywords: []string{"q"}},
		Started:  start,
		Finished: start.Add(1500 * time.Millisecond),
	})

	assert.True(t, resp.AIEnabled)
	assert.True(t, resp.FallbackUsed)
	assert.Equal(t, "timeout", resp.FallbackReason)
	assert.Equal(t, int64(1500), resp.ProcessingTimeMS)
	assert.Equal(t, []string{"q"}, resp.QueryAnalysis.Keywords, "fallback output does not touch the analysis")
	assert.NotEmpty(t, resp.AIResponse)
	assert.NotNil(t, resp.Suggestions)
}
