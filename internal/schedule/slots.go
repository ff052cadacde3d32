package schedule

import (
	"time"

	"github.com/pmalinowski/tutorbase/internal/models"
)

// SlotQuery selects the availability windows to enumerate. Exactly one of
// Date (one-off lesson on a specific calendar date) or Day (weekly lesson on
// a weekday) is set.
type SlotQuery struct {
	TutorID      string
	Mode         models.LessonMode
	Date         string
	Day          string
	Duration     int
	BufferBefore int
	BufferAfter  int
}

// AvailableSlots enumerates candidate start times ("HH:MM") across the
// tutor's matching availability windows, stepping at SlotStep minutes. Slots
// already in the past (when the target date is today), inside a vacation, or
// blocked by IsSlotTaken are skipped. A slot whose recurring occurrence was
// explicitly released is re-admitted. Output is deduplicated
// and unsorted; callers sort.
func AvailableSlots(snap Snapshot, avail []models.Availability, q SlotQuery, now time.Time) []string {
	loc := snap.loc()
	todayMid := midnight(now.In(loc))
	todayStr := todayMid.Format("2006-01-02")
	nowMins := now.In(loc).Hour()*60 + now.In(loc).Minute()

	fullDate := q.Date
	if q.Day != "" {
		yearStart, _, err := snap.Year.Bounds(loc)
		if err != nil {
			return nil
		}
		first, ok := firstOccurrence(q.Day, yearStart, todayMid)
		if !ok {
			return nil
		}
		fullDate = first.Format("2006-01-02")
	}
	if fullDate == "" {
		return nil
	}

	var slots []string
	seen := make(map[string]bool)
	for _, a := range matchWindows(avail, q, loc) {
		start, okS := parseClock(a.StartTime)
		end, okE := parseClock(a.EndTime)
		if !okS || !okE {
			continue
		}
		for t := start; t+q.Duration <= end; t += SlotStep {
			if fullDate == todayStr && t <= nowMins {
				continue
			}
			clock := clockString(t)
			if inVacation(snap, q.TutorID, fullDate, clock, q.Duration, loc) {
				continue
			}
			free := !IsSlotTaken(snap, ConflictQuery{
				TutorID:      q.TutorID,
				Date:         fullDate,
				Time:         clock,
				Duration:     q.Duration,
				BufferBefore: q.BufferBefore,
				BufferAfter:  q.BufferAfter,
			})
			// Re-admission clause: a released recurring occurrence frees its
			// slot even when another record still matches the weekday.
			if !free {
				free = hasReleasedRecurring(snap.Bookings, q.TutorID, q.Day, fullDate, clock)
			}
			if free && !seen[clock] {
				seen[clock] = true
				slots = append(slots, clock)
			}
		}
	}
	return slots
}

// matchWindows picks the availability windows relevant to the query: for a
// weekly query the weekly windows on that weekday; for a one-off date both
// one-time windows on that date and weekly windows on its weekday.
func matchWindows(avail []models.Availability, q SlotQuery, loc *time.Location) []models.Availability {
	var out []models.Availability
	for _, a := range avail {
		if a.TutorID != q.TutorID {
			continue
		}
		if q.Mode != "" && !a.LessonModes.Contains(q.Mode) {
			continue
		}
		if q.Day != "" {
			if a.Type == models.AvailabilityWeekly && a.Day == q.Day {
				out = append(out, a)
			}
			continue
		}
		switch a.Type {
		case models.AvailabilityOneTime:
			if a.Date == q.Date {
				out = append(out, a)
			}
		case models.AvailabilityWeekly:
			d, err := time.ParseInLocation("2006-01-02", q.Date, loc)
			if err == nil && a.Day == WeekdayName(d.Weekday()) {
				out = append(out, a)
			}
		}
	}
	return out
}

func inVacation(snap Snapshot, tutorID, date, clock string, duration int, loc *time.Location) bool {
	start, end, err := slotInterval(date, clock, duration, loc)
	if err != nil {
		return false
	}
	for _, v := range snap.Vacations {
		if v.TutorID == tutorID && Overlaps(start, end, v.StartDateTime, v.EndDateTime) {
			return true
		}
	}
	return false
}

// DateQuery selects availability for date enumeration.
type DateQuery struct {
	TutorID string
	Mode    models.LessonMode
}

// AvailableDates lists candidate dates ("YYYY-MM-DD") for the tutor: one-time
// availability dates that are today or later, and every matching weekday from
// school-year start to end. A returned date is a candidate, not a guarantee
// that a free slot remains on it.
func AvailableDates(snap Snapshot, avail []models.Availability, q DateQuery, now time.Time) []string {
	loc := snap.loc()
	yearStart, yearEnd, err := snap.Year.Bounds(loc)
	if err != nil {
		return nil
	}
	todayMid := midnight(now.In(loc))

	seen := make(map[string]bool)
	var dates []string
	add := func(d string) {
		if !seen[d] {
			seen[d] = true
			dates = append(dates, d)
		}
	}

	for _, a := range avail {
		if a.TutorID != q.TutorID {
			continue
		}
		if q.Mode != "" && !a.LessonModes.Contains(q.Mode) {
			continue
		}
		switch a.Type {
		case models.AvailabilityOneTime:
			d, err := time.ParseInLocation("2006-01-02", a.Date, loc)
			if err != nil || d.Before(todayMid) {
				continue
			}
			add(a.Date)
		case models.AvailabilityWeekly:
			first, ok := firstOccurrence(a.Day, yearStart, yearStart)
			if !ok {
				continue
			}
			for d := first; !d.After(yearEnd); d = d.AddDate(0, 0, 7) {
				if !d.Before(todayMid) {
					add(d.Format("2006-01-02"))
				}
			}
		}
	}
	return dates
}
