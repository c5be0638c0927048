package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultBrandURLs is the brand catalog list crawled when no config overrides it
var DefaultBrandURLs = []string{
	"https://www.turbomaster.com/eng/catalogs/toyota/",
	"https://www.turbomaster.com/eng/catalogs/bosch-mahle/",
	"https://www.turbomaster.com/eng/catalogs/cz/",
	"https://www.turbomaster.com/eng/catalogs/continental/",
	"https://www.turbomaster.com/eng/catalogs/komatsu/",
	"https://www.turbomaster.com/eng/catalogs/holset/",
	"https://www.turbomaster.com/eng/catalogs/borgwarner/",
	"https://www.turbomaster.com/eng/catalogs/ihi/",
	"https://www.turbomaster.com/eng/catalogs/garrett/",
	"https://www.turbomaster.com/eng/catalogs/mitsubishi/",
	"https://www.turbomaster.com/eng/catalogs/hitachi/",
}

const (
	DefaultOutput    = "scraped_data.xlsx"
	DefaultSheetName = "Sheet1"
	DefaultMaxPages  = 500
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	FetcherColly   = "colly"
	FetcherBrowser = "browser"
)

// Config represents the scraper configuration
type Config struct {
	BrandURLs      []string      `yaml:"brand_urls"`
	SiteOrigin     string        `yaml:"site_origin"`
	Output         string        `yaml:"output"`
	SheetName      string        `yaml:"sheet_name"`
	MaxPages       int           `yaml:"max_pages"`
	Fetcher        string        `yaml:"fetcher"`
	UserAgent      string        `yaml:"user_agent"`
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// Optional Google Sheets copy of the output
	SpreadsheetURL  string `yaml:"spreadsheet_url"`
	CredentialsPath string `yaml:"credentials_path"`

	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
}

// LoadConfig loads configuration from a YAML file.
// Fields left unset in the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := GetDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// GetDefaultConfig returns a default configuration
func GetDefaultConfig() *Config {
	cfg := &Config{
		BrandURLs: append([]string(nil), DefaultBrandURLs...),
		Output:    DefaultOutput,
		SheetName: DefaultSheetName,
		MaxPages:  DefaultMaxPages,
		Fetcher:   FetcherColly,
		UserAgent: DefaultUserAgent,
	}
	return cfg
}

// Validate checks values that have no sensible fallback
func (c *Config) Validate() error {
	switch c.Fetcher {
	case FetcherColly, FetcherBrowser:
	default:
		return fmt.Errorf("unknown fetcher %q (want %q or %q)", c.Fetcher, FetcherColly, FetcherBrowser)
	}
	if c.MaxPages <= 0 {
		return fmt.Errorf("max_pages must be positive, got %d", c.MaxPages)
	}
	if c.Output == "" {
		return fmt.Errorf("output must not be empty")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative, got %s", c.RequestTimeout)
	}
	return nil
}
