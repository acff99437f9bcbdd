package temporal_test

import (
	"cloud-function-discovery/internal/clock"
	"cloud-function-discovery/internal/domain"
	"cloud-function-discovery/internal/temporal"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOverlaps(t *testing.T) {
	base := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	rng := temporal.ResolvedRange{Start: base, End: base.Add(48*time.Hour - time.Millisecond)}
	iv := func(from, to time.Duration) temporal.EventInterval {
		return temporal.EventInterval{Start: base.Add(from), End: base.Add(to)}
	}

	cases := []struct {
		name string
		e    temporal.EventInterval
		want bool
	}{
		{"contained by range", iv(2*time.Hour, 5*time.Hour), true},
		{"contains range", iv(-72*time.Hour, 96*time.Hour), true},
		{"overlaps start", iv(-5*time.Hour, time.Hour), true},
		{"overlaps end", iv(40*time.Hour, 80*time.Hour), true},
		{"point inside", iv(10*time.Hour, 10*time.Hour), true},
		{"touches start", iv(-time.Hour, 0), true},
		{"ends before", iv(-5*time.Hour, -time.Millisecond), false},
		{"starts after", iv(48*time.Hour, 50*time.Hour), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, temporal.Overlaps(tc.e, rng))
		})
	}
}

func TestOverlapConditionsAgreeWithOverlaps(t *testing.T) {
	base := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	rng := temporal.ResolvedRange{Start: base, End: base.Add(24*time.Hour - time.Millisecond)}
	clause := domain.Clause{Dimension: domain.DimensionTemporal, Kind: domain.ClauseAll, Conditions: temporal.OverlapConditions(rng)}

	for _, offset := range []time.Duration{-48 * time.Hour, -2 * time.Hour, 0, 12 * time.Hour, 30 * time.Hour} {
		e := domain.Event{StartTime: base.Add(offset), EndTime: base.Add(offset + 6*time.Hour)}
		assert.Equal(t, temporal.Overlaps(temporal.IntervalOf(&e), rng), clause.Match(&e), offset.String())
	}
}

func TestIntervalOf_PointEvent(t *testing.T) {
	start := time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)
	iv := temporal.IntervalOf(&domain.Event{StartTime: start})
	assert.Equal(t, start, iv.End)
}

func TestMatcher_DayType(t *testing.T) {
	loc := dubai(t)
	m := temporal.NewMatcher(clock.New(loc, nil))
	at := func(month time.Month, day, hour int) time.Time { return time.Date(2026, month, day, hour, 0, 0, 0, loc) }

	wednesday := temporal.EventInterval{Start: at(10, 14, 19), End: at(10, 14, 22)}
	friToSat := temporal.EventInterval{Start: at(10, 16, 20), End: at(10, 17, 2)}
	saturday := temporal.EventInterval{Start: at(10, 17, 10), End: at(10, 17, 12)}
	longRun := temporal.EventInterval{Start: at(10, 1, 10), End: at(12, 31, 18)}

	assert.True(t, m.MatchesDayType(wednesday, temporal.DayTypeWeekday))
	assert.False(t, m.MatchesDayType(wednesday, temporal.DayTypeWeekend))

	assert.True(t, m.MatchesDayType(friToSat, temporal.DayTypeWeekday))
	assert.True(t, m.MatchesDayType(friToSat, temporal.DayTypeWeekend))

	assert.False(t, m.MatchesDayType(saturday, temporal.DayTypeWeekday))
	assert.True(t, m.MatchesDayType(saturday, temporal.DayTypeWeekend))

	assert.True(t, m.MatchesDayType(longRun, temporal.DayTypeWeekday))
	assert.True(t, m.MatchesDayType(longRun, temporal.DayTypeWeekend))

	assert.True(t, m.MatchesDayType(wednesday, temporal.DayTypeNone))
}

func TestMatcher_DayTypeUsesCivilCalendar(t *testing.T) {
	m := temporal.NewMatcher(clock.New(dubai(t), nil))
	// Friday 21:00 UTC is Saturday 01:00 in Dubai.
	e := temporal.EventInterval{Start: time.Date(2026, 10, 16, 21, 0, 0, 0, time.UTC)}
	e.End = e.Start
	assert.True(t, m.MatchesDayType(e, temporal.DayTypeWeekend))
	assert.False(t, m.MatchesDayType(e, temporal.DayTypeWeekday))
}

func TestMatcher_FilterAndAnnotate(t *testing.T) {
	loc := dubai(t)
	m := temporal.NewMatcher(clock.New(loc, nil))
	candidates := []domain.CandidateEvent{
		{Event: domain.Event{ID: "wed", StartTime: time.Date(2026, 10, 14, 19, 0, 0, 0, loc)}, Position: 0},
		{Event: domain.Event{ID: "sat", StartTime: time.Date(2026, 10, 17, 19, 0, 0, 0, loc)}, Position: 1},
		{Event: domain.Event{ID: "sun", StartTime: time.Date(2026, 10, 18, 19, 0, 0, 0, loc)}, Position: 2},
	}

	m.Annotate(candidates, nil, temporal.DayTypeWeekend)
	assert.False(t, candidates[0].DayTypeMatch)
	assert.True(t, candidates[1].DayTypeMatch)
	assert.True(t, candidates[0].OverlapsRange)

	kept := m.FilterDayType(candidates, temporal.DayTypeWeekend)
	if assert.Len(t, kept, 2) {
		assert.Equal(t, "sat", kept[0].Event.ID)
		assert.Equal(t, "sun", kept[1].Event.ID)
	}
	assert.Len(t, candidates, 3, "input slice must be left intact")
}
