package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/TobiSchelling/SectionTrends/internal/article"
)

const (
	defaultSearchURL = "https://api.nytimes.com/svc/search/v2/articlesearch.json"
	defaultMaxPages  = 5
)

// StatusError is returned when the search API answers with a non-200 status.
type StatusError struct {
	Code int
	Page int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unable to fetch articles (status code %d)", e.Code)
}

// SearchClient fetches articles from the Article Search API.
type SearchClient struct {
	baseURL  string
	apiKey   string
	maxPages int
	client   *http.Client
}

// NewSearchClient creates a new search client.
func NewSearchClient(baseURL, apiKey string, maxPages int, timeout time.Duration) *SearchClient {
	if baseURL == "" {
		baseURL = defaultSearchURL
	}
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	return &SearchClient{
		baseURL:  baseURL,
		apiKey:   apiKey,
		maxPages: maxPages,
		client:   &http.Client{Timeout: timeout},
	}
}

// Name returns the source name.
func (c *SearchClient) Name() string {
	return "Article Search API"
}

// IsConfigured returns whether the API key is available.
func (c *SearchClient) IsConfigured() bool {
	return c.apiKey != ""
}

// Fetch requests result pages sequentially, starting at page 0, until a page
// comes back empty or maxPages pages have been read. Any non-200 response
// aborts the whole fetch with a *StatusError and no articles.
func (c *SearchClient) Fetch(ctx context.Context, q Query) ([]article.Raw, error) {
	var all []article.Raw
	for page := 0; page < c.maxPages; page++ {
		docs, err := c.fetchPage(ctx, q, page)
		if err != nil {
			return nil, err
		}
		if len(docs) == 0 {
			log.Printf("Page %d returned no articles, stopping", page)
			break
		}
		all = append(all, docs...)
		log.Printf("Fetched %d articles from page %d", len(docs), page)
	}
	return all, nil
}

func (c *SearchClient) fetchPage(ctx context.Context, q Query, page int) ([]article.Raw, error) {
	params := url.Values{
		"fq":         {fmt.Sprintf("section_name:(%q)", q.Section)},
		"begin_date": {q.BeginDate},
		"end_date":   {q.EndDate},
		"api-key":    {c.apiKey},
		"page":       {strconv.Itoa(page)},
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("Search API HTTP error on page %d: %d", page, resp.StatusCode)
		return nil, &StatusError{Code: resp.StatusCode, Page: page}
	}

	var result struct {
		Response struct {
			Docs []article.Raw `json:"docs"`
		} `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding page %d: %w", page, err)
	}

	return result.Response.Docs, nil
}
