package util

import "time"

// ISODate is the wire format for week-start dates.
const ISODate = "2006-01-02"

// WeekMonday returns the Monday of the week containing t, formatted as an
// ISO date. The backend keys all weekly aggregates by this value.
func WeekMonday(t time.Time) string {
	offset := (int(t.Weekday()) + 6) % 7 // Monday = 0
	return t.AddDate(0, 0, -offset).Format(ISODate)
}

// ParseISODate parses an ISO date, returning the zero time on failure so
// callers can sort unparseable dates to the front instead of erroring.
func ParseISODate(s string) time.Time {
	t, err := time.Parse(ISODate, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
