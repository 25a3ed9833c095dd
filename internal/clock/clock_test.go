package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocalDate_CrossesUTCMidnight(t *testing.T) {
	// 17:30 UTC is 01:30 the next day in business time.
	utc := time.Date(2026, 3, 9, 17, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-03-10", LocalDate(utc))
}

func TestDayStart(t *testing.T) {
	at := time.Date(2026, 3, 10, 14, 45, 12, 0, Business)
	start := DayStart(at)

	assert.Equal(t, "2026-03-10", LocalDate(start))
	assert.Equal(t, 0, start.In(Business).Hour())
	assert.Equal(t, 0, start.In(Business).Minute())

	// An instant just before business midnight belongs to the prior day.
	before := start.Add(-time.Second)
	assert.Equal(t, "2026-03-09", LocalDate(before))
}

func TestCombine(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, Business)

	got, err := Combine(day, "09:30")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 9, 30, 0, 0, Business), got)

	// The anchor day is its business-local date even when expressed in UTC.
	inUTC := day.In(time.UTC)
	got, err = Combine(inUTC, "09:30")
	assert.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2026, 3, 10, 9, 30, 0, 0, Business)))

	_, err = Combine(day, "24:00")
	assert.Error(t, err)
	_, err = Combine(day, "nine")
	assert.Error(t, err)

	// Stored start strings are slot keys, so only the zero-padded form may
	// denote an instant.
	_, err = Combine(day, "9:00")
	assert.Error(t, err)
	_, err = Combine(day, "09:00extra")
	assert.Error(t, err)
}

func TestValidHHMM(t *testing.T) {
	assert.True(t, ValidHHMM("00:00"))
	assert.True(t, ValidHHMM("23:59"))
	assert.False(t, ValidHHMM("24:00"))
	assert.False(t, ValidHHMM("12:60"))
	assert.False(t, ValidHHMM(""))
	assert.False(t, ValidHHMM("noon"))
	assert.False(t, ValidHHMM("9:00"))
	assert.False(t, ValidHHMM("09:0"))
	assert.False(t, ValidHHMM("10:00garbage"))
}

func TestWeekday(t *testing.T) {
	// 2026-03-10 is a Tuesday in business time.
	assert.Equal(t, "tuesday", Weekday(time.Date(2026, 3, 10, 12, 0, 0, 0, Business)))
	// 16:05 UTC Monday is already Tuesday 00:05 business time.
	assert.Equal(t, "tuesday", Weekday(time.Date(2026, 3, 9, 16, 5, 0, 0, time.UTC)))
}

func TestFixedClock(t *testing.T) {
	at := time.Date(2026, 3, 10, 10, 0, 0, 0, Business)
	assert.Equal(t, at, Fixed(at).Now())
}
