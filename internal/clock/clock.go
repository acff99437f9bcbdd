// Package clock supplies "now" in the platform's civil timezone and converts between the civil
// timezone and the storage timezone (UTC).
//
// The platform weekend is Saturday and Sunday. It is not configurable.
package clock

import (
	"fmt"
	"time"
)

// DefaultTimezone is the civil timezone of the platform.
const DefaultTimezone = "Asia/Dubai"

// Context is the civil clock. It holds no mutable state and is safe for concurrent use.
type Context struct {
	loc *time.Location
	now func() time.Time
}

// New returns a clock for loc. A nil now uses time.Now.
func New(loc *time.Location, now func() time.Time) *Context {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Context{loc: loc, now: now}
}

// NewForZone loads an IANA zone by name.
func NewForZone(name string, now func() time.Time) (*Context, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load civil timezone %q: %w", name, err)
	}
	return New(loc, now), nil
}

// Fixed returns a clock frozen at t, for tests.
func Fixed(loc *time.Location, t time.Time) *Context {
	return New(loc, func() time.Time { return t })
}

// Location is the civil timezone.
func (c *Context) Location() *time.Location {
	return c.loc
}

// Now returns the current instant in the civil timezone.
func (c *Context) Now() time.Time {
	return c.now().In(c.loc)
}

// ToStorage converts an instant to the storage timezone.
func (c *Context) ToStorage(t time.Time) time.Time {
	return t.UTC()
}

// ToCivil converts an instant to the civil timezone.
func (c *Context) ToCivil(t time.Time) time.Time {
	return t.In(c.loc)
}

// StartOfDay returns civil midnight of the day containing t.
func (c *Context) StartOfDay(t time.Time) time.Time {
	t = t.In(c.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.loc)
}

// AddDays moves a civil midnight by n calendar days.
func (c *Context) AddDays(day time.Time, n int) time.Time {
	day = day.In(c.loc)
	return time.Date(day.Year(), day.Month(), day.Day()+n, 0, 0, 0, 0, c.loc)
}

// IsWeekend reports whether t falls on Saturday or Sunday in the civil timezone.
func (c *Context) IsWeekend(t time.Time) bool {
	return IsWeekendDay(t.In(c.loc).Weekday())
}

// IsWeekday reports whether t falls on Monday through Friday in the civil timezone.
func (c *Context) IsWeekday(t time.Time) bool {
	return !c.IsWeekend(t)
}

// IsWeekendDay is the platform weekend: Saturday and Sunday.
func IsWeekendDay(d time.Weekday) bool {
	return d == time.Saturday || d == time.Sunday
}
