package clock

import (
	"fmt"
	"time"
)

// Business timezone for all scheduling decisions (Malaysia, UTC+8).
// A fixed zone avoids depending on the host tzdata.
var Business = time.FixedZone("MYT", 8*60*60)

// Clock abstracts "now" so services can be tested with a fixed instant.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns a Clock backed by the wall clock.
func System() Clock { return systemClock{} }

// Fixed returns a Clock that always reports t. Intended for tests.
func Fixed(t time.Time) Clock { return fixedClock{t} }

type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }

// LocalDate returns the business-local calendar date ("2006-01-02") of an
// instant.
func LocalDate(t time.Time) string {
	return t.In(Business).Format("2006-01-02")
}

// DayStart returns business-local midnight of the day containing t, as an
// instant.
func DayStart(t time.Time) time.Time {
	lt := t.In(Business)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, Business)
}

// Combine anchors a "HH:MM" wall-clock string onto the business-local date
// of day, producing an instant. Only the canonical zero-padded form is
// accepted: stored time strings double as slot keys, so "9:00" and "09:00"
// must not both pass.
func Combine(day time.Time, hhmm string) (time.Time, error) {
	if len(hhmm) != 5 {
		return time.Time{}, fmt.Errorf("invalid time %q: want HH:MM", hhmm)
	}
	wall, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", hhmm, err)
	}
	ld := day.In(Business)
	return time.Date(ld.Year(), ld.Month(), ld.Day(), wall.Hour(), wall.Minute(), 0, 0, Business), nil
}

// ValidHHMM reports whether s is a canonical zero-padded "HH:MM" string.
func ValidHHMM(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

// Weekday returns the lowercase business-local day-of-week name for t,
// matching the keys used in trainer schedules.
func Weekday(t time.Time) string {
	switch t.In(Business).Weekday() {
	case time.Monday:
		return "monday"
	case time.Tuesday:
		return "tuesday"
	case time.Wednesday:
		return "wednesday"
	case time.Thursday:
		return "thursday"
	case time.Friday:
		return "friday"
	case time.Saturday:
		return "saturday"
	default:
		return "sunday"
	}
}
