// Package schedule holds the pure booking/availability conflict logic. It
// performs no I/O: callers fetch the tutor's bookings, vacations and the
// school-year window, hand them over as a Snapshot, and get back a verdict or
// a list of candidate slots.
package schedule

import (
	"time"

	"github.com/pmalinowski/tutorbase/internal/models"
)

// SlotStep is the enumeration granularity in minutes.
const SlotStep = 10

// Snapshot is the flat, already-materialized state a check runs against.
type Snapshot struct {
	Bookings  []models.Booking
	Vacations []models.Vacation
	Year      models.SchoolYear
	Location  *time.Location
}

func (s Snapshot) loc() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.Local
}

var weekdayNames = [7]string{
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

// WeekdayName returns the lowercase weekday name used across booking and
// availability records.
func WeekdayName(d time.Weekday) string {
	return weekdayNames[int(d)]
}

func weekdayIndex(name string) int {
	for i, n := range weekdayNames {
		if n == name {
			return i
		}
	}
	return -1
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}

// slotInterval resolves a (date, clock, duration) triple into absolute
// start/end instants.
func slotInterval(date, clock string, duration int, loc *time.Location) (start, end time.Time, err error) {
	start, err = time.ParseInLocation("2006-01-02 15:04", date+" "+clock, loc)
	if err != nil {
		return
	}
	end = start.Add(minutes(duration))
	return
}

func parseClock(clock string) (int, bool) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

func clockString(mins int) string {
	t := time.Date(2000, 1, 1, 0, mins, 0, 0, time.UTC)
	return t.Format("15:04")
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// firstOccurrence finds the first date with the given weekday on/after
// notBefore, keeping the weekly phase anchored at anchor.
func firstOccurrence(day string, anchor, notBefore time.Time) (time.Time, bool) {
	idx := weekdayIndex(day)
	if idx == -1 {
		return time.Time{}, false
	}
	offset := (idx - int(anchor.Weekday()) + 7) % 7
	d := midnight(anchor).AddDate(0, 0, offset)
	for d.Before(notBefore) {
		d = d.AddDate(0, 0, 7)
	}
	return d, true
}

func durationOrDefault(d int) int {
	if d <= 0 {
		return 60
	}
	return d
}
