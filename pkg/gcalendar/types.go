package gcalendar

import "errors"

// DefaultCalendarID targets the authenticated account's main calendar.
const DefaultCalendarID = "primary"

// ErrNotFound is returned when the API answers 404 or 410 for an event.
var ErrNotFound = errors.New("calendar event not found")

// AllDayEventRequest is the input for writing an all-day event with a caller-chosen id.
type AllDayEventRequest struct {
	CalendarID  string
	EventID     string // base32hex, 5-1024 chars
	Summary     string
	Description string
	StartDate   string // YYYY-MM-DD
	EndDate     string // YYYY-MM-DD, exclusive
}

// Event is a simplified representation of a Google Calendar event.
type Event struct {
	ID          string
	Summary     string
	Description string
	HtmlLink    string
	StartDate   string
	EndDate     string
}
