package stage

import "time"

// DateLayout is the civil date format used for stage dates throughout
// the system (actual start, completed on, requested dates).
const DateLayout = "2006-01-02"

// ParseDate parses a civil date string in DateLayout.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate formats a time as a civil date string.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ClampCompletionDate enforces that a completion date never precedes the
// stage's start date. Returns the date to apply and whether it was adjusted.
func ClampCompletionDate(requested, actualStart time.Time) (time.Time, bool) {
	if requested.Before(actualStart) {
		return actualStart, true
	}
	return requested, false
}
