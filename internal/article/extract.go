package article

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// MissingFieldError reports a record without a required field.
type MissingFieldError struct {
	Index int
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("article %d: missing field %s", e.Index, e.Field)
}

// MalformedDateError reports a pub_date whose date portion cannot be parsed.
type MalformedDateError struct {
	Index int
	Value string
}

func (e *MalformedDateError) Error() string {
	return fmt.Sprintf("article %d: malformed pub_date %q", e.Index, e.Value)
}

// Extract normalizes raw records into the article table, one row per record.
// The publication timestamp is truncated to its leading date portion and
// keywords are reduced to their values in their original order.
func Extract(raws []Raw) ([]Article, error) {
	articles := make([]Article, 0, len(raws))
	for i, r := range raws {
		a, err := extractOne(i, r)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, nil
}

func extractOne(i int, r Raw) (Article, error) {
	if r.Headline == nil || r.Headline.Main == nil {
		return Article{}, &MissingFieldError{Index: i, Field: "headline.main"}
	}
	if r.PubDate == nil {
		return Article{}, &MissingFieldError{Index: i, Field: "pub_date"}
	}
	if r.Keywords == nil {
		return Article{}, &MissingFieldError{Index: i, Field: "keywords"}
	}

	pubDate, err := ParseDate(*r.PubDate)
	if err != nil {
		return Article{}, &MalformedDateError{Index: i, Value: *r.PubDate}
	}

	keywords := make([]string, len(r.Keywords))
	for j, kw := range r.Keywords {
		keywords[j] = kw.Value
	}

	return Article{
		Headline: *r.Headline.Main,
		PubDate:  pubDate,
		Keywords: keywords,
	}, nil
}

// ParseDate parses the first 10 characters of an ISO-8601 timestamp as a date.
func ParseDate(ts string) (time.Time, error) {
	if len(ts) < len(dateLayout) {
		return time.Time{}, fmt.Errorf("timestamp %q too short", ts)
	}
	return time.Parse(dateLayout, ts[:len(dateLayout)])
}

// FormatDate formats a publication date the way the article table stores it.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
