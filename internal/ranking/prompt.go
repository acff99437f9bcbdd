package ranking

import (
	"cloud-function-discovery/internal/clock"
	"cloud-function-discovery/internal/domain"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

const (
	maxPromptTags    = 3
	maxSnippetLength = 100
)

type candidateSummary struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Category    string   `json:"category"`
	Area        string   `json:"area"`
	FamilyScore float64  `json:"family_score"`
	Tags        []string `json:"tags"`
	Snippet     string   `json:"description_snippet"`
}

const systemPromptTemplate = `You are the search assistant of an events platform in Dubai. Match the user's query against the events provided and score each one.

Rules:
1. Only reference events from the provided list, by their exact id.
2. Never invent events. If nothing matches, say so in ai_response.
3. Score every provided event from 0 (irrelevant) to 100 (perfect match) with a one-sentence reason.

Current date: %s

Respond with ONLY a JSON object in this exact format:
{
  "keywords": ["extracted", "keywords"],
  "time_period": "today|tomorrow|weekend|week|month|null",
  "date_from": "YYYY-MM-DD or null",
  "date_to": "YYYY-MM-DD or null",
  "categories": ["relevant", "categories"],
  "family_friendly": true|false|null,
  "ai_response": "Two or three sentence summary of the results",
  "suggestions": ["four", "related", "search", "suggestions"],
  "scored_events": [{"id": "event id", "score": 0, "reason": "why it matches"}]
}`

func systemPrompt(c *clock.Context) string {
	return fmt.Sprintf(systemPromptTemplate, c.Now().Format("2006-01-02 (Monday)"))
}

func userPrompt(c *clock.Context, query string, candidates []domain.CandidateEvent) (string, error) {
	summaries := make([]candidateSummary, 0, len(candidates))
	for i := range candidates {
		e := &candidates[i].Event
		tags := e.Tags
		if len(tags) > maxPromptTags {
			tags = tags[:maxPromptTags]
		}
		summaries = append(summaries, candidateSummary{
			ID:          e.ID,
			Title:       e.Title,
			Date:        c.ToCivil(e.StartTime).Format("2006-01-02"),
			Category:    e.Category,
			Area:        e.VenueArea,
			FamilyScore: e.FamilyScore,
			Tags:        tags,
			Snippet:     snippet(e.Description, maxSnippetLength),
		})
	}
	events, err := json.Marshal(summaries)
	if err != nil {
		return "", fmt.Errorf("marshal candidates: %w", err)
	}

	var b strings.Builder
	b.WriteString("Search query: ")
	b.WriteString(query)
	b.WriteString("\n\nEvents:\n")
	b.Write(events)
	b.WriteString("\n\nReturn only the JSON object.")
	return b.String(), nil
}

// snippet truncates s to at most n runes.
func snippet(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n])
}
