package domain

import "time"

// weekendGrace shifts the weekday check back so trains running just after
// midnight still use the timetable of the day the service started on.
const weekendGrace = 30 * time.Minute

// IsWeekend reports whether the weekend timetable applies at now.
func IsWeekend(now time.Time) bool {
	switch now.Add(-weekendGrace).Weekday() {
	case time.Saturday, time.Sunday:
		return true
	default:
		return false
	}
}

// Hours holds the metro operating window. The metro is closed in [Close, Open).
type Hours struct {
	Open  Clock
	Close Clock
}

// DefaultHours are the Ekaterinburg metro hours the timetable is published for.
var DefaultHours = Hours{
	Open:  MustParseClock("05:30"),
	Close: MustParseClock("00:30"),
}

// Closed reports whether now falls in the closed interval [Close, Open).
// A Close later than Open wraps around midnight.
func (h Hours) Closed(now time.Time) bool {
	c := ClockOf(now)
	if h.Close == h.Open {
		return false
	}
	if h.Close < h.Open {
		return c >= h.Close && c < h.Open
	}
	return c >= h.Close || c < h.Open
}
