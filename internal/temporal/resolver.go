// Package temporal resolves natural-language time phrases into storage-timezone ranges or
// weekday/weekend buckets, and decides event membership for both.
package temporal

import (
	"cloud-function-discovery/internal/clock"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const temporalConfidence = 0.9

type pattern struct {
	re   *regexp.Regexp
	kind DateFilterKind
}

// patternTable is ordered: the first match wins. Weekend phrases come before week phrases,
// and qualified phrases ("this weekend") before the bare bucket words ("weekend").
var patternTable = []struct {
	expr string
	kind DateFilterKind
}{
	{`\b(today|tonight)\b`, Today},
	{`\btomorrow\b`, Tomorrow},

	{`\bthis\s+(weekend|saturday|sunday)\b`, ThisWeekend},
	{`\b(next|coming)\s+(weekend|saturday|sunday)\b`, NextWeekend},

	{`\bearly\s+next\s+week\b`, NextWeek},
	{`\b(next|coming)\s+week\b`, NextWeek},
	{`\bnext\s+(monday|tuesday|wednesday|thursday|friday)\b`, NextWeek},
	{`\blater\s+this\s+week\b`, ThisWeek},
	{`\bthis\s+week\b`, ThisWeek},
	{`\bthis\s+(monday|tuesday|wednesday|thursday|friday)\b`, ThisWeek},
	{`\bin\s+a\s+few\s+days\b`, ThisWeek},

	{`\b(next|coming)\s+month\b`, NextMonth},
	{`\bthis\s+month\b`, ThisMonth},

	{`\bweekends?\b`, Weekends},
	{`\b(weekdays?|during\s+the\s+week|monday\s+to\s+friday|mon-fri)\b`, Weekdays},
}

// Resolver maps temporal phrases to date filters. The compiled pattern list is read-only,
// so a Resolver is safe for concurrent use.
type Resolver struct {
	clock    *clock.Context
	patterns []pattern
}

func NewResolver(c *clock.Context) *Resolver {
	patterns := make([]pattern, 0, len(patternTable))
	for _, p := range patternTable {
		patterns = append(patterns, pattern{re: regexp.MustCompile(p.expr), kind: p.kind})
	}
	return &Resolver{clock: c, patterns: patterns}
}

// Resolve finds the first temporal phrase in query. ok is false when none is present.
func (r *Resolver) Resolve(query string) (res Resolution, ok bool) {
	q := strings.ToLower(query)
	for _, p := range r.patterns {
		loc := p.re.FindStringIndex(q)
		if loc == nil {
			continue
		}
		res = Resolution{
			Kind:       p.kind,
			Phrase:     q[loc[0]:loc[1]],
			Confidence: temporalConfidence,
		}
		if dt := p.kind.DayType(); dt != DayTypeNone {
			res.DayType = dt
			return res, true
		}
		rng, err := r.RangeAt(p.kind, r.clock.Now())
		if err != nil {
			return Resolution{}, false
		}
		res.Range = &rng
		return res, true
	}
	return Resolution{}, false
}

// RangeAt computes the storage-timezone range of a range-producing kind relative to now.
func (r *Resolver) RangeAt(kind DateFilterKind, now time.Time) (ResolvedRange, error) {
	c := r.clock
	today := c.StartOfDay(now)

	var start, end time.Time
	switch kind {
	case Today:
		start, end = today, c.AddDays(today, 1)
	case Tomorrow:
		start = c.AddDays(today, 1)
		end = c.AddDays(start, 1)
	case ThisWeek:
		start = weekStart(c, today)
		end = c.AddDays(start, 7)
	case NextWeek:
		start = c.AddDays(weekStart(c, today), 7)
		end = c.AddDays(start, 7)
	case ThisWeekend:
		start = weekendStart(c, today)
		end = c.AddDays(start, 2)
	case NextWeekend:
		start = c.AddDays(weekendStart(c, today), 7)
		end = c.AddDays(start, 2)
	case ThisMonth:
		start = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, c.Location())
		end = time.Date(today.Year(), today.Month()+1, 1, 0, 0, 0, 0, c.Location())
	case NextMonth:
		start = time.Date(today.Year(), today.Month()+1, 1, 0, 0, 0, 0, c.Location())
		end = time.Date(today.Year(), today.Month()+2, 1, 0, 0, 0, 0, c.Location())
	default:
		return ResolvedRange{}, fmt.Errorf("date filter %q has no bounded range", kind)
	}

	return ResolvedRange{
		Start: c.ToStorage(start),
		End:   c.ToStorage(end.Add(-time.Millisecond)),
		Kind:  kind,
	}, nil
}

// WeekendRange returns the Saturday 00:00 .. Sunday 23:59:59.999 civil weekend that contains t,
// or the coming one when t is a weekday. Bounds are in the civil timezone.
func WeekendRange(c *clock.Context, t time.Time) (time.Time, time.Time) {
	start := weekendStart(c, c.StartOfDay(t))
	return start, c.AddDays(start, 2).Add(-time.Millisecond)
}

// weekStart is the Monday of the ISO week containing day.
func weekStart(c *clock.Context, day time.Time) time.Time {
	sinceMonday := (int(day.Weekday()) + 6) % 7
	return c.AddDays(day, -sinceMonday)
}

// weekendStart is the current Saturday on Sat/Sun, otherwise the coming Saturday.
func weekendStart(c *clock.Context, day time.Time) time.Time {
	switch wd := day.Weekday(); wd {
	case time.Saturday:
		return day
	case time.Sunday:
		return c.AddDays(day, -1)
	default:
		return c.AddDays(day, int(time.Saturday-wd))
	}
}
