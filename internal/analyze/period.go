package analyze

import (
	"sort"
	"strings"
	"time"

	"github.com/TobiSchelling/SectionTrends/internal/article"
)

// Periodicity is the time-bucket granularity for the articles-over-time chart.
type Periodicity string

const (
	Daily   Periodicity = "daily"
	Weekly  Periodicity = "weekly"
	Monthly Periodicity = "monthly"
)

// ParsePeriodicity parses a user-supplied periodicity. Unknown values yield
// Daily with ok set to false so the caller can warn.
func ParsePeriodicity(s string) (p Periodicity, ok bool) {
	switch Periodicity(strings.ToLower(strings.TrimSpace(s))) {
	case Daily:
		return Daily, true
	case Weekly:
		return Weekly, true
	case Monthly:
		return Monthly, true
	}
	return Daily, false
}

// Title returns the capitalized name, e.g. "Weekly".
func (p Periodicity) Title() string {
	if p == "" {
		return ""
	}
	return strings.ToUpper(string(p[:1])) + string(p[1:])
}

// PeriodCount is the number of articles published in one period.
type PeriodCount struct {
	Label string
	Count int
}

// CountByPeriod groups articles into periods and counts them, ordered by
// period ascending.
//
// Labels:
// daily "2024-03-05", weekly "2024-03-04/2024-03-10" (Monday to Sunday),
// monthly "2024-03".
func CountByPeriod(articles []article.Article, p Periodicity) []PeriodCount {
	starts := make(map[time.Time]int)
	for _, a := range articles {
		starts[periodStart(a.PubDate, p)]++
	}

	keys := make([]time.Time, 0, len(starts))
	for k := range starts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	counts := make([]PeriodCount, len(keys))
	for i, k := range keys {
		counts[i] = PeriodCount{Label: PeriodLabel(k, p), Count: starts[k]}
	}
	return counts
}

func periodStart(t time.Time, p Periodicity) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	switch p {
	case Weekly:
		offset := (int(d.Weekday()) + 6) % 7
		return d.AddDate(0, 0, -offset)
	case Monthly:
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return d
	}
}

// PeriodLabel formats the period starting at start.
func PeriodLabel(start time.Time, p Periodicity) string {
	switch p {
	case Weekly:
		return start.Format("2006-01-02") + "/" + start.AddDate(0, 0, 6).Format("2006-01-02")
	case Monthly:
		return start.Format("2006-01")
	default:
		return start.Format("2006-01-02")
	}
}
