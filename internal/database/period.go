package database

import (
	"fmt"
	"time"
)

const queryDateLayout = "20060102"

// FormatRangeDisplay formats a YYYYMMDD date range for human-readable display.
// Single day: "Feb 06, 2026"
// Same year: "Feb 01 - Feb 06, 2026"
// Otherwise: "Dec 28, 2025 - Jan 03, 2026"
// Unparseable input is returned as "begin..end".
func FormatRangeDisplay(begin, end string) string {
	start, err := time.Parse(queryDateLayout, begin)
	if err != nil {
		return begin + ".." + end
	}
	stop, err := time.Parse(queryDateLayout, end)
	if err != nil {
		return begin + ".." + end
	}

	if start.Equal(stop) {
		return start.Format("Jan 02, 2006")
	}
	if start.Year() == stop.Year() {
		return fmt.Sprintf("%s - %s", start.Format("Jan 02"), stop.Format("Jan 02, 2006"))
	}
	return fmt.Sprintf("%s - %s", start.Format("Jan 02, 2006"), stop.Format("Jan 02, 2006"))
}
