package temporal

import (
	"cloud-function-discovery/internal/clock"
	"cloud-function-discovery/internal/domain"
	"time"
)

// EventInterval is the read-only time span of an event. End equals Start for point events.
type EventInterval struct {
	Start time.Time
	End   time.Time
}

// IntervalOf extracts the interval of an event, defaulting End to Start.
func IntervalOf(e *domain.Event) EventInterval {
	return EventInterval{Start: e.StartTime, End: e.End()}
}

// Overlaps reports whether the event interval intersects the range, bounds inclusive.
func Overlaps(e EventInterval, r ResolvedRange) bool {
	return !e.Start.After(r.End) && !e.End.Before(r.Start)
}

// OverlapConditions is the retrieval-time form of Overlaps.
func OverlapConditions(r ResolvedRange) []domain.Condition {
	return []domain.Condition{
		{Field: domain.FieldStartTime, Op: domain.OpLessOrEqual, Value: r.End},
		{Field: domain.FieldEndTime, Op: domain.OpGreaterOrEqual, Value: r.Start},
	}
}

// Matcher applies range membership and day-type buckets using the civil calendar.
type Matcher struct {
	clock *clock.Context
}

func NewMatcher(c *clock.Context) *Matcher {
	return &Matcher{clock: c}
}

// MatchesDayType reports whether any civil day touched by the interval falls in the bucket.
func (m *Matcher) MatchesDayType(e EventInterval, dt DayType) bool {
	if dt == DayTypeNone {
		return true
	}
	day := m.clock.StartOfDay(e.Start)
	last := m.clock.StartOfDay(e.End)
	// A week covers both buckets, so at most seven days need checking.
	for i := 0; i < 7 && !day.After(last); i++ {
		weekend := clock.IsWeekendDay(day.Weekday())
		if (dt == DayTypeWeekend && weekend) || (dt == DayTypeWeekday && !weekend) {
			return true
		}
		day = m.clock.AddDays(day, 1)
	}
	return false
}

// Annotate fills the derived membership fields of each candidate. rng may be nil.
func (m *Matcher) Annotate(candidates []domain.CandidateEvent, rng *ResolvedRange, dt DayType) {
	for i := range candidates {
		iv := IntervalOf(&candidates[i].Event)
		candidates[i].OverlapsRange = rng == nil || Overlaps(iv, *rng)
		candidates[i].DayTypeMatch = m.MatchesDayType(iv, dt)
	}
}

// FilterDayType keeps the candidates that match the bucket, preserving order.
func (m *Matcher) FilterDayType(candidates []domain.CandidateEvent, dt DayType) []domain.CandidateEvent {
	if dt == DayTypeNone {
		return candidates
	}
	out := candidates[:0:0]
	for _, c := range candidates {
		if m.MatchesDayType(IntervalOf(&c.Event), dt) {
			out = append(out, c)
		}
	}
	return out
}
