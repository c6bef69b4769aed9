package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseDefaultConfig(t *testing.T) {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		t.Fatalf("failed to parse default config: %v", err)
	}

	if len(cfg.Sections) != 61 {
		t.Errorf("expected 61 sections, got %d", len(cfg.Sections))
	}

	if cfg.Source != SourceSearch {
		t.Errorf("expected source 'search', got %q", cfg.Source)
	}

	if cfg.API.MaxPages != 5 {
		t.Errorf("expected max_pages 5, got %d", cfg.API.MaxPages)
	}

	if cfg.API.APIKeyEnv != "NYT_API_KEY" {
		t.Errorf("expected api_key_env 'NYT_API_KEY', got %q", cfg.API.APIKeyEnv)
	}

	if cfg.Analysis.TopN != 5 {
		t.Errorf("expected top_n 5, got %d", cfg.Analysis.TopN)
	}

	if cfg.Server.Port != 8000 {
		t.Errorf("expected port 8000, got %d", cfg.Server.Port)
	}
}

func TestDefaultSectionsIncludeSpecialCharacters(t *testing.T) {
	cfg := Default()
	for _, name := range []string{"technology", "t:style", "editors' notes", "u.s.", "crosswords & games"} {
		if !cfg.IsValidSection(name) {
			t.Errorf("expected %q to be a valid section", name)
		}
	}
}

func TestParseMinimalConfig(t *testing.T) {
	data := []byte(`
source: feed
sections:
  - Technology
  - "  World "
server:
  port: 9000
`)
	cfg, err := parse(data)
	if err != nil {
		t.Fatalf("failed to parse minimal config: %v", err)
	}

	if cfg.Source != SourceFeed {
		t.Errorf("expected source 'feed', got %q", cfg.Source)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	// Defaults should still be set for unspecified fields
	if cfg.API.MaxPages != 5 {
		t.Errorf("expected default max_pages, got %d", cfg.API.MaxPages)
	}
	if cfg.Sections[0] != "technology" || cfg.Sections[1] != "world" {
		t.Errorf("expected normalized sections, got %v", cfg.Sections)
	}
}

func TestParseRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown source", "source: telepathy\n"},
		{"zero pages", "api:\n  max_pages: 0\n"},
		{"feed template without placeholder", "source: feed\nfeed:\n  url_template: https://example.com/feed.xml\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parse([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestIsValidSection(t *testing.T) {
	cfg := &Config{Sections: []string{"technology", "world"}}

	tests := []struct {
		in   string
		want bool
	}{
		{"technology", true},
		{"Technology", true},
		{"  WORLD  ", true},
		{"politics", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := cfg.IsValidSection(tt.in); got != tt.want {
			t.Errorf("IsValidSection(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, DefaultConfigYAML, 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if len(cfg.Sections) == 0 {
		t.Error("expected sections to be populated from file")
	}
}

func TestResolveExplicitMissing(t *testing.T) {
	if _, err := ResolveConfigPath(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestAPIKeyFromEnv(t *testing.T) {
	t.Setenv("SECTIONTRENDS_TEST_KEY", "secret")
	cfg := &Config{API: API{APIKeyEnv: "SECTIONTRENDS_TEST_KEY"}}
	if cfg.APIKey() != "secret" {
		t.Errorf("expected 'secret', got %q", cfg.APIKey())
	}
}

func TestTimeout(t *testing.T) {
	cfg := &Config{}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("expected 30s default, got %v", cfg.Timeout())
	}
	cfg.API.TimeoutSeconds = 5
	if cfg.Timeout() != 5*time.Second {
		t.Errorf("expected 5s, got %v", cfg.Timeout())
	}
}

func TestGetDataDir(t *testing.T) {
	cfg := &Config{}
	defaultDir := cfg.GetDataDir()
	if defaultDir == "" {
		t.Error("expected non-empty default data dir")
	}

	cfg.Output.DataDir = "/custom/path"
	if cfg.GetDataDir() != "/custom/path" {
		t.Errorf("expected '/custom/path', got %q", cfg.GetDataDir())
	}
	if cfg.GetChartDir() != filepath.Join("/custom/path", "charts") {
		t.Errorf("unexpected chart dir %q", cfg.GetChartDir())
	}

	cfg.Output.ChartDir = "/charts"
	if cfg.GetChartDir() != "/charts" {
		t.Errorf("expected '/charts', got %q", cfg.GetChartDir())
	}
}
