package domain

import (
	"time"
)

// Event status values stored in the "status" field.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Event represents the database entity and the DTO
type Event struct {
	ID            string    `json:"id" firestore:"id"`
	OrganizerName string    `json:"organizer_name" firestore:"organizer_name"`
	Title         string    `json:"title" firestore:"title"`
	Description   string    `json:"description" firestore:"description"`
	Category      string    `json:"category" firestore:"category"`
	Tags          []string  `json:"tags" firestore:"tags"`
	City          string    `json:"city" firestore:"city"`
	VenueName     string    `json:"venue_name" firestore:"venue_name"`
	VenueArea     string    `json:"venue_area" firestore:"venue_area"`
	StartTime     time.Time `json:"start_time" firestore:"start_time"`
	EndTime       time.Time `json:"end_time" firestore:"end_time"` // equals StartTime for point events
	EventURL      string    `json:"event_url" firestore:"event_url"`
	Price         float64   `json:"price" firestore:"price"`             // base price, 0 when free
	PriceLabel    string    `json:"price_label" firestore:"price_label"` // e.g. "free", "AED 150 per person"
	FamilyScore   float64   `json:"family_score" firestore:"family_score"`
	ImageURL      string    `json:"image_url" firestore:"image_url"`
	Status        string    `json:"status" firestore:"status"`
	CreatedAt     time.Time `json:"created_at" firestore:"created_at"`
}

// End is EndTime, or StartTime for a point event stored without one.
func (e *Event) End() time.Time {
	if e.EndTime.IsZero() || e.EndTime.Before(e.StartTime) {
		return e.StartTime
	}
	return e.EndTime
}

// WithDefaultEnd returns a copy whose EndTime is filled from End. Stores write events in this
// form so that end_time range filters see point events.
func (e Event) WithDefaultEnd() Event {
	e.EndTime = e.End()
	return e
}

// CandidateEvent is a retrieved event plus the fields derived for it during a single search.
type CandidateEvent struct {
	Event         Event
	Position      int // retrieval order, used as the sort tiebreaker
	OverlapsRange bool
	DayTypeMatch  bool
}

// ScoredEvent is a relevance record. AI and fallback scorers share the 0..100 value space.
type ScoredEvent struct {
	EventID string `json:"id"`
	Score   int    `json:"score"`
	Reason  string `json:"reason"`
}

// EventResult is an event as returned to the caller, joined with its score.
type EventResult struct {
	Event
	AIScore     int    `json:"ai_score"`
	AIReasoning string `json:"ai_reasoning"`
}

// Pagination is the page block of a search response.
type Pagination struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// QueryAnalysis describes how the query text was interpreted.
type QueryAnalysis struct {
	Keywords            []string   `json:"keywords"`
	DateFilter          string     `json:"date_filter,omitempty"`
	TimePeriod          string     `json:"time_period,omitempty"`
	DateFrom            *time.Time `json:"date_from,omitempty"`
	DateTo              *time.Time `json:"date_to,omitempty"`
	Categories          []string   `json:"categories"`
	FamilyFriendly      *bool      `json:"family_friendly,omitempty"`
	AgeGroup            string     `json:"age_group,omitempty"`
	LocationPreferences []string   `json:"location_preferences"`
	PriceTier           string     `json:"price_tier,omitempty"`
	Confidence          float64    `json:"confidence"`
}

// SearchResponse is the payload of a search. len(Events) <= Pagination.PerPage and
// Pagination.Total >= len(Events).
type SearchResponse struct {
	Events           []EventResult `json:"events"`
	AIResponse       string        `json:"ai_response"`
	Suggestions      []string      `json:"suggestions"`
	QueryAnalysis    QueryAnalysis `json:"query_analysis"`
	Pagination       Pagination    `json:"pagination"`
	ProcessingTimeMS int64         `json:"processing_time_ms"`
	AIEnabled        bool          `json:"ai_enabled"`
	FallbackUsed     bool          `json:"fallback_used"`
	FallbackReason   string        `json:"fallback_reason,omitempty"`
	Widened          bool          `json:"widened"`
	Version          string        `json:"version"`
}

// ServiceStatus describes the ranking configuration of a running instance.
type ServiceStatus struct {
	AIEnabled    bool   `json:"ai_enabled"`
	Model        string `json:"model,omitempty"`
	BreakerState string `json:"breaker_state,omitempty"`
	Timezone     string `json:"timezone"`
	Version      string `json:"version"`
}

// SearchLogEntry records one executed search.
type SearchLogEntry struct {
	ID          string    `json:"id" firestore:"id"`
	Query       string    `json:"query" firestore:"query"`
	DateFilter  string    `json:"date_filter" firestore:"date_filter"`
	ResultCount int       `json:"result_count" firestore:"result_count"`
	AIUsed      bool      `json:"ai_used" firestore:"ai_used"`
	Widened     bool      `json:"widened" firestore:"widened"`
	UserAgent   string    `json:"user_agent" firestore:"user_agent"`
	CreatedAt   time.Time `json:"created_at" firestore:"created_at"`
}

// APIResponse is a standard wrapper for responses
type APIResponse struct {
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
	Meta  interface{} `json:"meta,omitempty"`
}

// Meta carries response metadata that is not part of the data itself.
type Meta struct {
	RequestID string `json:"request_id,omitempty"`
}
