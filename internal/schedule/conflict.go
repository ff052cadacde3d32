package schedule

import "github.com/pmalinowski/tutorbase/internal/models"

// ConflictQuery describes a candidate lesson slot to check against a tutor's
// calendar.
type ConflictQuery struct {
	TutorID      string
	Date         string // YYYY-MM-DD
	Time         string // HH:MM
	Duration     int    // minutes
	BufferBefore int
	BufferAfter  int
}

// IsSlotTaken decides whether the candidate slot is blocked for the tutor.
//
// A one-off booking at the exact (date, time) with a released status frees the
// slot outright, regardless of anything else on the calendar: once a slot has
// been explicitly released it stays bookable. Otherwise the candidate's
// buffered interval is tested against every active booking (one-off bookings
// on the same date, recurring bookings on the same weekday inside the
// school-year window) and the unbuffered interval against every vacation.
func IsSlotTaken(snap Snapshot, q ConflictQuery) bool {
	if hasReleasedOverride(snap.Bookings, q.TutorID, q.Date, q.Time) {
		return false
	}

	loc := snap.loc()
	candStart, candEnd, err := slotInterval(q.Date, q.Time, q.Duration, loc)
	if err != nil {
		// Malformed candidates never block; inputs are validated upstream.
		return false
	}
	candBufStart := candStart.Add(-minutes(q.BufferBefore))
	candBufEnd := candEnd.Add(minutes(q.BufferAfter))

	day := WeekdayName(candStart.Weekday())
	yearStart, yearEnd, yearErr := snap.Year.Bounds(loc)

	for _, b := range snap.Bookings {
		if b.TutorID != q.TutorID || b.Status.Released() {
			continue
		}

		blocks := false
		switch {
		case !b.IsRecurring && b.FullDate == q.Date:
			blocks = true
		case b.IsRecurring && b.Day == day:
			// A recurring commitment blocks its weekday only inside the
			// school-year window. A cancelled occurrence releases only its own
			// date; sibling occurrences keep blocking.
			if yearErr != nil {
				continue
			}
			d := midnight(candStart)
			if d.Before(yearStart) || d.After(yearEnd) {
				continue
			}
			blocks = true
		}
		if !blocks {
			continue
		}

		exStart, exEnd, err := slotInterval(q.Date, b.Time, durationOrDefault(b.Duration), loc)
		if err != nil {
			continue
		}
		exBufStart := exStart.Add(-minutes(b.BufferBefore))
		exBufEnd := exEnd.Add(minutes(b.BufferAfter))
		if Overlaps(candBufStart, candBufEnd, exBufStart, exBufEnd) {
			return true
		}
	}

	for _, v := range snap.Vacations {
		if v.TutorID != q.TutorID {
			continue
		}
		if Overlaps(candStart, candEnd, v.StartDateTime, v.EndDateTime) {
			return true
		}
	}
	return false
}

func hasReleasedOverride(bookings []models.Booking, tutorID, date, clock string) bool {
	for _, b := range bookings {
		if !b.IsRecurring && b.Status.Released() &&
			b.TutorID == tutorID && b.FullDate == date && b.Time == clock {
			return true
		}
	}
	return false
}

// hasReleasedRecurring reports whether a recurring occurrence at the slot was
// explicitly released. When day is non-empty the occurrence must belong to
// that weekday's series.
func hasReleasedRecurring(bookings []models.Booking, tutorID, day, date, clock string) bool {
	for _, b := range bookings {
		if !b.IsRecurring || !b.Status.Released() || b.TutorID != tutorID {
			continue
		}
		if day != "" && b.Day != day {
			continue
		}
		if b.FullDate == date && b.Time == clock {
			return true
		}
	}
	return false
}
