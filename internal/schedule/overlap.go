package schedule

import "time"

// Overlaps reports whether the half-open intervals [start1, end1) and
// [start2, end2) intersect. Touching endpoints do not count.
func Overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && start2.Before(end1)
}
