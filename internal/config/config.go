package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

// Source names accepted by the "source" key.
const (
	SourceSearch = "search"
	SourceFeed   = "feed"
)

type Config struct {
	Source   string   `yaml:"source"`
	API      API      `yaml:"api"`
	Feed     Feed     `yaml:"feed"`
	Sections []string `yaml:"sections"`
	Analysis Analysis `yaml:"analysis"`
	Output   Output   `yaml:"output"`
	Server   Server   `yaml:"server"`
	Logging  Logging  `yaml:"logging"`
}

type API struct {
	BaseURL        string `yaml:"base_url"`
	APIKeyEnv      string `yaml:"api_key_env"`
	MaxPages       int    `yaml:"max_pages"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type Feed struct {
	URLTemplate string `yaml:"url_template"`
}

type Analysis struct {
	TopN        int    `yaml:"top_n"`
	Periodicity string `yaml:"periodicity"`
}

type Output struct {
	DataDir    string `yaml:"data_dir"`
	ChartDir   string `yaml:"chart_dir"`
	OpenCharts bool   `yaml:"open_charts"`
	History    bool   `yaml:"history"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for sectiontrends.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "sectiontrends")
}

// DataDir returns the XDG data directory for sectiontrends.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "sectiontrends")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/sectiontrends/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'sectiontrends init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// Default returns the embedded default configuration.
func Default() *Config {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded default config is invalid: %v", err))
	}
	return cfg
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Source: SourceSearch,
		API: API{
			BaseURL:        "https://api.nytimes.com/svc/search/v2/articlesearch.json",
			APIKeyEnv:      "NYT_API_KEY",
			MaxPages:       5,
			TimeoutSeconds: 30,
		},
		Feed: Feed{
			URLTemplate: "https://rss.nytimes.com/services/xml/rss/nyt/%s.xml",
		},
		Analysis: Analysis{TopN: 5, Periodicity: "daily"},
		Output:   Output{OpenCharts: true, History: true},
		Server:   Server{Port: 8000},
		Logging:  Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	for i, s := range cfg.Sections {
		cfg.Sections[i] = NormalizeSection(s)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Source {
	case SourceSearch, SourceFeed:
	default:
		return fmt.Errorf("invalid source %q: must be %q or %q", c.Source, SourceSearch, SourceFeed)
	}
	if c.API.MaxPages < 1 {
		return fmt.Errorf("api.max_pages must be at least 1, got %d", c.API.MaxPages)
	}
	if c.Source == SourceFeed && !strings.Contains(c.Feed.URLTemplate, "%s") {
		return fmt.Errorf("feed.url_template must contain %%s")
	}
	return nil
}

// NormalizeSection lowercases and trims a section name for comparison.
func NormalizeSection(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsValidSection reports whether name matches one of the configured sections.
func (c *Config) IsValidSection(name string) bool {
	name = NormalizeSection(name)
	for _, s := range c.Sections {
		if s == name {
			return true
		}
	}
	return false
}

// APIKey returns the search API key from the configured environment variable.
func (c *Config) APIKey() string {
	return os.Getenv(c.API.APIKeyEnv)
}

// Timeout returns the HTTP client timeout.
func (c *Config) Timeout() time.Duration {
	if c.API.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

// GetChartDir returns the directory charts and reports are written to.
func (c *Config) GetChartDir() string {
	if c.Output.ChartDir != "" {
		return c.Output.ChartDir
	}
	return filepath.Join(c.GetDataDir(), "charts")
}

// IsDebug reports whether debug logging is enabled.
func (c *Config) IsDebug() bool {
	return strings.EqualFold(c.Logging.Level, "DEBUG")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
