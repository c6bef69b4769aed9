package collect

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/mmcdole/gofeed"

	"github.com/TobiSchelling/SectionTrends/internal/article"
)

const queryDateLayout = "20060102"

// FeedClient reads a section's RSS feed and converts its items into raw
// article records. Item categories become keywords.
type FeedClient struct {
	urlTemplate string
	parser      *gofeed.Parser
}

// NewFeedClient creates a feed source. urlTemplate must contain one %s,
// which is replaced with the section's feed name.
func NewFeedClient(urlTemplate string, timeout time.Duration) *FeedClient {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}
	return &FeedClient{urlTemplate: urlTemplate, parser: parser}
}

// Name returns the source name.
func (c *FeedClient) Name() string {
	return "Section RSS feed"
}

// Fetch parses the section feed and keeps items published within the
// query's date range.
func (c *FeedClient) Fetch(ctx context.Context, q Query) ([]article.Raw, error) {
	begin, err := time.Parse(queryDateLayout, q.BeginDate)
	if err != nil {
		return nil, fmt.Errorf("invalid begin date %q: %w", q.BeginDate, err)
	}
	end, err := time.Parse(queryDateLayout, q.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", q.EndDate, err)
	}

	feedURL := FeedURL(c.urlTemplate, q.Section)
	feed, err := c.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) {
			return nil, &StatusError{Code: httpErr.StatusCode}
		}
		return nil, fmt.Errorf("parsing feed %s: %w", feedURL, err)
	}

	var raws []article.Raw
	var skipped int
	for _, item := range feed.Items {
		r, published := parseItem(item)
		if published.IsZero() {
			skipped++
			continue
		}
		day := time.Date(published.Year(), published.Month(), published.Day(), 0, 0, 0, 0, time.UTC)
		if day.Before(begin) || day.After(end) {
			continue
		}
		raws = append(raws, r)
	}

	if skipped > 0 {
		log.Printf("Skipped %d undated items from %s", skipped, feedURL)
	}
	log.Printf("Parsed %d entries from %s (within %s..%s)", len(raws), feedURL, q.BeginDate, q.EndDate)
	return raws, nil
}

func parseItem(item *gofeed.Item) (article.Raw, time.Time) {
	var published time.Time
	if item.PublishedParsed != nil {
		published = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		published = *item.UpdatedParsed
	}

	title := strings.TrimSpace(item.Title)
	pubDate := published.Format(time.RFC3339)

	keywords := make([]article.Keyword, 0, len(item.Categories))
	for i, cat := range item.Categories {
		cat = strings.TrimSpace(cat)
		if cat == "" {
			continue
		}
		keywords = append(keywords, article.Keyword{Value: cat, Rank: i + 1, Name: "subject"})
	}

	return article.Raw{
		Headline: &article.Headline{Main: &title},
		PubDate:  &pubDate,
		Keywords: keywords,
	}, published
}

// FeedURL builds the feed URL for a section, e.g. "real estate" -> RealEstate.
func FeedURL(urlTemplate, section string) string {
	return fmt.Sprintf(urlTemplate, feedName(section))
}

func feedName(section string) string {
	words := strings.FieldsFunc(section, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var b strings.Builder
	for _, w := range words {
		b.WriteString(strings.ToUpper(w[:1]) + w[1:])
	}
	return b.String()
}
