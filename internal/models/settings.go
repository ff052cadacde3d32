package models

import "time"

// SchoolYear is the single admin-edited window bounding all recurring
// expansion and date enumeration. Stored as one row with a fixed ID.
type SchoolYear struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	StartDate string    `gorm:"type:varchar(10);not null" json:"start_date"` // YYYY-MM-DD
	EndDate   string    `gorm:"type:varchar(10);not null" json:"end_date"`
	UpdatedAt time.Time `json:"updated_at"`
}

const SchoolYearID = 1

// Bounds parses the window edges in the given location. End is returned at
// midnight of EndDate; callers treat the window as inclusive of that date.
func (y SchoolYear) Bounds(loc *time.Location) (start, end time.Time, err error) {
	start, err = time.ParseInLocation("2006-01-02", y.StartDate, loc)
	if err != nil {
		return
	}
	end, err = time.ParseInLocation("2006-01-02", y.EndDate, loc)
	return
}
