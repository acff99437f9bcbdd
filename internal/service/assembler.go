package service

import (
	"cloud-function-discovery/internal/domain"
	"cloud-function-discovery/internal/ranking"
	"fmt"
	"sort"
	"time"
)

var emptySuggestions = []string{"Try a broader search", "Try different dates", "Explore categories"}

// Assembly is everything the assembler needs for one response.
type Assembly struct {
	Query      string
	Page       int
	PerPage    int
	Candidates []domain.CandidateEvent
	Ranking    ranking.Result
	Analysis   domain.QueryAnalysis
	Widened    bool
	AIEnabled  bool
	Started    time.Time
	Finished   time.Time
}

// Assembler joins candidates with their scores, orders them and cuts the requested page.
type Assembler struct {
	version string
}

func NewAssembler(version string) *Assembler {
	return &Assembler{version: version}
}

// Assemble builds the response. It never fails; an empty candidate list yields an empty page
// with an explanatory summary.
func (a *Assembler) Assemble(in Assembly) *domain.SearchResponse {
	results := rank(in.Candidates, in.Ranking.Scores)
	total := len(results)

	resp := &domain.SearchResponse{
		Events:           window(results, in.Page, in.PerPage),
		AIResponse:       in.Ranking.Summary,
		Suggestions:      in.Ranking.Suggestions,
		QueryAnalysis:    mergeAnalysis(in.Analysis, in.Ranking),
		Pagination:       paginate(in.Page, in.PerPage, total),
		ProcessingTimeMS: in.Finished.Sub(in.Started).Milliseconds(),
		AIEnabled:        in.AIEnabled,
		FallbackUsed:     !in.Ranking.AIUsed && total > 0,
		Widened:          in.Widened,
		Version:          a.version,
	}
	if resp.FallbackUsed {
		resp.FallbackReason = string(in.Ranking.FallbackReason)
	}

	if total == 0 {
		resp.AIResponse = fmt.Sprintf("No upcoming events matched %q. Try a broader search or different dates.", in.Query)
		if len(resp.Suggestions) == 0 {
			resp.Suggestions = append([]string(nil), emptySuggestions...)
		}
	} else if resp.AIResponse == "" {
		resp.AIResponse = fmt.Sprintf("Found %d events for %q.", total, in.Query)
	}
	if resp.Suggestions == nil {
		resp.Suggestions = []string{}
	}
	return resp
}

// rank joins scores to candidates by id and orders by score descending. Ties keep retrieval
// order. Candidates without a score are not returned.
func rank(candidates []domain.CandidateEvent, scores []domain.ScoredEvent) []domain.EventResult {
	byID := make(map[string]domain.ScoredEvent, len(scores))
	for _, s := range scores {
		byID[s.EventID] = s
	}

	type ranked struct {
		result   domain.EventResult
		position int
	}
	list := make([]ranked, 0, len(candidates))
	for _, c := range candidates {
		s, ok := byID[c.Event.ID]
		if !ok {
			continue
		}
		list = append(list, ranked{
			result:   domain.EventResult{Event: c.Event, AIScore: s.Score, AIReasoning: s.Reason},
			position: c.Position,
		})
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].result.AIScore != list[j].result.AIScore {
			return list[i].result.AIScore > list[j].result.AIScore
		}
		return list[i].position < list[j].position
	})

	out := make([]domain.EventResult, len(list))
	for i, r := range list {
		out[i] = r.result
	}
	return out
}

// window cuts one page. Pages are compared before multiplying so huge page numbers cannot overflow.
func window(results []domain.EventResult, page, perPage int) []domain.EventResult {
	if page < 1 || perPage < 1 || page-1 >= (len(results)+perPage-1)/perPage {
		return []domain.EventResult{}
	}
	start := (page - 1) * perPage
	end := min(start+perPage, len(results))
	return results[start:end]
}

func paginate(page, perPage, total int) domain.Pagination {
	totalPages := 0
	if perPage > 0 {
		totalPages = (total + perPage - 1) / perPage
	}
	return domain.Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// mergeAnalysis adds the keywords and categories the model extracted to the locally detected ones.
func mergeAnalysis(qa domain.QueryAnalysis, r ranking.Result) domain.QueryAnalysis {
	if !r.AIUsed {
		return qa
	}
	qa.Keywords = mergeUnique(qa.Keywords, r.Keywords)
	qa.Categories = mergeUnique(qa.Categories, r.Categories)
	return qa
}

func mergeUnique(base, extra []string) []string {
	out := append([]string{}, base...)
	seen := make(map[string]struct{}, len(out))
	for _, s := range out {
		seen[s] = struct{}{}
	}
	for _, s := range extra {
		if _, ok := seen[s]; ok || s == "" {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
