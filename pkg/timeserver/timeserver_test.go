package timeserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestZoneOffset(t *testing.T) {
	_, offset := Now().Zone()
	assert.Equal(t, 7*60*60, offset)
}

func TestIn(t *testing.T) {
	// 2026-03-01T00:30 UTC is already March 1st, 07:30 on the server clock
	utc := time.Date(2026, 3, 1, 0, 30, 0, 0, time.UTC)
	converted := In(utc)

	assert.Equal(t, 7, converted.Hour())
	assert.Equal(t, 30, converted.Minute())
	assert.True(t, converted.Equal(utc))
}

func TestMonthWindow(t *testing.T) {
	t.Run("MidMonth", func(t *testing.T) {
		at := time.Date(2026, 8, 15, 13, 45, 0, 0, Zone())
		from, to := MonthWindow(at)

		assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, Zone()), from)
		assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, Zone()), to)
	})

	t.Run("DecemberRollsIntoNextYear", func(t *testing.T) {
		at := time.Date(2026, 12, 31, 23, 59, 0, 0, Zone())
		_, to := MonthWindow(at)

		assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, Zone()), to)
	})

	t.Run("UTCInstantNearMonthBoundary", func(t *testing.T) {
		// 2026-07-31T20:00 UTC is already August 1st on the server clock
		at := time.Date(2026, 7, 31, 20, 0, 0, 0, time.UTC)
		from, _ := MonthWindow(at)

		assert.Equal(t, time.August, from.Month())
	})
}
