package finance

import "time"

var dayLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParseDay parses a stored calendar date. Aggregations call this and drop
// rows it rejects; a malformed date must never abort a computation.
func ParseDay(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// sameMonth reports whether t falls in the given calendar year/month.
func sameMonth(t time.Time, year int, month time.Month) bool {
	return t.Year() == year && t.Month() == month
}

// midnight truncates now to local midnight; the agenda boundary includes
// today and excludes anything strictly earlier.
func midnight(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
