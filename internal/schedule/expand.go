package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/pmalinowski/tutorbase/internal/models"
)

// ErrNoOccurrences means every occurrence of a requested weekly commitment
// fell on a vacation or an already-taken slot.
var ErrNoOccurrences = errors.New("no available occurrences")

// ExpandRequest describes a weekly commitment to expand into one booking per
// calendar occurrence through school-year end.
type ExpandRequest struct {
	TutorID           string
	TutorName         string
	StudentID         string
	StudentName       string
	Subject           string
	Day               string // weekday name
	Time              string // HH:MM
	Duration          int    // minutes
	LessonMode        models.LessonMode
	BufferBefore      int
	BufferAfter       int
	MakeupForLessonID string // when set, the first emitted occurrence is the makeup
	CreatedByID       string
	CreatedByRole     models.Role
}

// ExpandWeekly walks the weekday from its first occurrence on/after today to
// school-year end in 7-day steps, skipping vacation-blocked and conflicting
// dates, and emits one scheduled booking per surviving occurrence,
// oldest-to-newest. When the request is a makeup, only the first emitted
// occurrence carries the makeup status and the original-lesson link.
// Returns ErrNoOccurrences if nothing survives; no partial output.
func ExpandWeekly(snap Snapshot, req ExpandRequest, now time.Time) ([]models.Booking, error) {
	loc := snap.loc()
	yearStart, yearEnd, err := snap.Year.Bounds(loc)
	if err != nil {
		return nil, fmt.Errorf("school year window: %w", err)
	}

	todayMid := midnight(now.In(loc))
	first, ok := firstOccurrence(req.Day, yearStart, todayMid)
	if !ok {
		return nil, fmt.Errorf("unknown weekday %q", req.Day)
	}

	var out []models.Booking
	for d := first; !d.After(yearEnd); d = d.AddDate(0, 0, 7) {
		date := d.Format("2006-01-02")
		if inVacation(snap, req.TutorID, date, req.Time, req.Duration, loc) {
			continue
		}
		if IsSlotTaken(snap, ConflictQuery{
			TutorID:      req.TutorID,
			Date:         date,
			Time:         req.Time,
			Duration:     req.Duration,
			BufferBefore: req.BufferBefore,
			BufferAfter:  req.BufferAfter,
		}) {
			continue
		}

		b := models.Booking{
			TutorID:       req.TutorID,
			TutorName:     req.TutorName,
			StudentID:     req.StudentID,
			StudentName:   req.StudentName,
			Subject:       req.Subject,
			FullDate:      date,
			Time:          req.Time,
			Duration:      req.Duration,
			LessonMode:    req.LessonMode,
			IsRecurring:   true,
			Day:           req.Day,
			BufferBefore:  req.BufferBefore,
			BufferAfter:   req.BufferAfter,
			Status:        models.StatusScheduled,
			CreatedByID:   req.CreatedByID,
			CreatedByRole: req.CreatedByRole,
		}
		if req.MakeupForLessonID != "" && len(out) == 0 {
			id := req.MakeupForLessonID
			b.Status = models.StatusMakeup
			b.OriginalLessonID = &id
		}
		out = append(out, b)
	}

	if len(out) == 0 {
		return nil, ErrNoOccurrences
	}
	return out, nil
}
