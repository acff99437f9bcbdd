package clock_test

import (
	"cloud-function-discovery/internal/clock"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dubai(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Dubai")
	require.NoError(t, err)
	return loc
}

func TestContext_NowIsCivil(t *testing.T) {
	loc := dubai(t)
	utc := time.Date(2026, 10, 16, 22, 30, 0, 0, time.UTC)
	c := clock.Fixed(loc, utc)

	now := c.Now()
	assert.Equal(t, loc, now.Location())
	assert.Equal(t, 17, now.Day(), "22:30 UTC is already the next civil day in Dubai")
	assert.True(t, now.Equal(utc))
}

func TestContext_StorageRoundTrip(t *testing.T) {
	loc := dubai(t)
	c := clock.New(loc, nil)
	civil := time.Date(2026, 10, 17, 0, 0, 0, 0, loc)

	stored := c.ToStorage(civil)
	assert.Equal(t, time.UTC, stored.Location())
	assert.Equal(t, 20, stored.Hour())
	assert.Equal(t, 16, stored.Day())
	assert.True(t, c.ToCivil(stored).Equal(civil))
}

func TestContext_WeekendIsSaturdaySunday(t *testing.T) {
	loc := dubai(t)
	c := clock.New(loc, nil)

	friday := time.Date(2026, 10, 16, 12, 0, 0, 0, loc)
	saturday := time.Date(2026, 10, 17, 12, 0, 0, 0, loc)
	sunday := time.Date(2026, 10, 18, 12, 0, 0, 0, loc)
	monday := time.Date(2026, 10, 19, 12, 0, 0, 0, loc)

	assert.False(t, c.IsWeekend(friday))
	assert.True(t, c.IsWeekend(saturday))
	assert.True(t, c.IsWeekend(sunday))
	assert.True(t, c.IsWeekday(monday))
}

func TestContext_WeekendUsesCivilDay(t *testing.T) {
	c := clock.New(dubai(t), nil)
	// Friday 21:00 UTC is Saturday 01:00 in Dubai.
	assert.True(t, c.IsWeekend(time.Date(2026, 10, 16, 21, 0, 0, 0, time.UTC)))
}

func TestNewForZone_Unknown(t *testing.T) {
	_, err := clock.NewForZone("Mars/Olympus_Mons", nil)
	assert.Error(t, err)
}
