package ranking

import (
	"cloud-function-discovery/internal/domain"
	"cloud-function-discovery/internal/intent"
	"fmt"
	"sort"
	"strings"
)

const (
	lexicalBase       = 30
	lexicalCoverage   = 50
	lexicalTitleBonus = 10
	lexicalTitleMax   = 20
	lexicalNoTerms    = 50
)

// LexicalScore scores one event by how many query terms appear in its title, description,
// tags and category. It is deterministic and always returns a reason.
func LexicalScore(terms []string, e *domain.Event) domain.ScoredEvent {
	if len(terms) == 0 {
		return domain.ScoredEvent{EventID: e.ID, Score: lexicalNoTerms, Reason: "Upcoming event that may interest you"}
	}

	title := tokenSet(e.Title)
	body := tokenSet(e.Description, e.Category)
	for _, tag := range e.Tags {
		for t := range tokenSet(tag) {
			body[t] = struct{}{}
		}
	}

	var matched []string
	titleHits := 0
	for _, term := range terms {
		inTitle := hasTerm(title, term)
		inBody := hasTerm(body, term)
		if inTitle {
			titleHits++
		}
		if inTitle || inBody {
			matched = append(matched, term)
		}
	}

	score := lexicalBase + lexicalCoverage*len(matched)/len(terms) + min(lexicalTitleMax, lexicalTitleBonus*titleHits)
	return domain.ScoredEvent{EventID: e.ID, Score: clamp(score), Reason: lexicalReason(matched)}
}

// LexicalScores scores every candidate, in candidate order.
func LexicalScores(query string, candidates []domain.CandidateEvent) []domain.ScoredEvent {
	terms := queryTerms(query)
	out := make([]domain.ScoredEvent, len(candidates))
	for i := range candidates {
		out[i] = LexicalScore(terms, &candidates[i].Event)
	}
	return out
}

// topLexical returns the indexes of the n lexically best candidates, in retrieval order.
func topLexical(query string, candidates []domain.CandidateEvent, n int) []int {
	scores := LexicalScores(query, candidates)
	idx := make([]int, len(candidates))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]].Score > scores[idx[b]].Score })
	idx = idx[:n]
	sort.Ints(idx)
	return idx
}

func queryTerms(query string) []string {
	if kw := intent.Keywords(query); len(kw) > 0 {
		return kw
	}
	return intent.Tokens(query)
}

func tokenSet(texts ...string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, text := range texts {
		for _, tok := range intent.Tokens(text) {
			set[tok] = struct{}{}
			if s := strings.TrimSuffix(tok, "s"); len(s) > 2 {
				set[s] = struct{}{}
			}
		}
	}
	return set
}

// hasTerm matches term or its singular; tokenSet stores both forms of event words.
func hasTerm(set map[string]struct{}, term string) bool {
	if _, ok := set[term]; ok {
		return true
	}
	if s := strings.TrimSuffix(term, "s"); len(s) > 2 {
		_, ok := set[s]
		return ok
	}
	return false
}

func lexicalReason(matched []string) string {
	if len(matched) == 0 {
		return "Upcoming event that may interest you"
	}
	quoted := make([]string, len(matched))
	for i, m := range matched {
		quoted[i] = fmt.Sprintf("%q", m)
	}
	return "Matches " + strings.Join(quoted, ", ") + " from your search"
}

func clamp(score int) int {
	return max(0, min(100, score))
}
