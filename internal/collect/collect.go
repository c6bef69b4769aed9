package collect

import (
	"context"
	"fmt"

	"github.com/TobiSchelling/SectionTrends/internal/article"
	"github.com/TobiSchelling/SectionTrends/internal/config"
)

// Query selects articles by section and inclusive date range (YYYYMMDD).
type Query struct {
	Section   string
	BeginDate string
	EndDate   string
}

// Source fetches raw article records for a query.
type Source interface {
	Name() string
	Fetch(ctx context.Context, q Query) ([]article.Raw, error)
}

// NewSource creates the article source selected in the config.
func NewSource(cfg *config.Config) (Source, error) {
	switch cfg.Source {
	case config.SourceFeed:
		return NewFeedClient(cfg.Feed.URLTemplate, cfg.Timeout()), nil
	case config.SourceSearch, "":
		c := NewSearchClient(cfg.API.BaseURL, cfg.APIKey(), cfg.API.MaxPages, cfg.Timeout())
		if !c.IsConfigured() {
			return nil, fmt.Errorf("search API key not set: export %s or add it to .env", cfg.API.APIKeyEnv)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown source %q", cfg.Source)
	}
}
