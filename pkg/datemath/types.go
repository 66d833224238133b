package datemath

import "time"

// DateLayout is the ISO 8601 calendar date layout used for due dates.
const DateLayout = "2006-01-02"

// DayRange is an all-day span: Start is midnight, End is midnight of the following day.
type DayRange struct {
	Start time.Time
	End   time.Time
}

// StartDate returns Start formatted as DateLayout.
func (r DayRange) StartDate() string { return r.Start.Format(DateLayout) }

// EndDate returns End formatted as DateLayout (exclusive, as calendars expect).
func (r DayRange) EndDate() string { return r.End.Format(DateLayout) }
