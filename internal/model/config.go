package model

import (
	"fmt"
	"strings"
	"time"
)

// Config is the complete engine configuration
type Config struct {
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Search       SearchConfig       `yaml:"search" mapstructure:"search"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Extraction   ExtractionConfig   `yaml:"extraction" mapstructure:"extraction"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	Options      Options            `yaml:"options" mapstructure:"options"`
}

// HTTPConfig configures article fetching and the search transport
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS   bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// SearchConfig configures the remote search index
type SearchConfig struct {
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
	Lookback   string `yaml:"lookback" mapstructure:"lookback"` // e.g. "14d" or "336h"
	PageSize   int    `yaml:"page_size" mapstructure:"page_size"`
	MaxResults int    `yaml:"max_results" mapstructure:"max_results"`
}

// LookbackDuration parses Lookback, accepting an "Nd" day suffix.
// Falls back to 14 days.
func (s SearchConfig) LookbackDuration() time.Duration {
	d, err := ParseDuration(s.Lookback)
	if err != nil || d <= 0 {
		return 14 * 24 * time.Hour
	}
	return d
}

// CacheConfig configures the result cache
type CacheConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Backend  string `yaml:"backend" mapstructure:"backend"` // disk, sqlite, memory
	Dir      string `yaml:"dir" mapstructure:"dir"`
	Duration string `yaml:"duration" mapstructure:"duration"`
}

// TTL parses Duration, falling back to one hour
func (c CacheConfig) TTL() time.Duration {
	d, err := ParseDuration(c.Duration)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

// ExtractionConfig tunes keyword extraction
type ExtractionConfig struct {
	MaxKeywords     int      `yaml:"max_keywords" mapstructure:"max_keywords"`
	MinKeywords     int      `yaml:"min_keywords" mapstructure:"min_keywords"`
	MetaTagNames    []string `yaml:"meta_tag_names" mapstructure:"meta_tag_names"`
	MetaKeywordsMax int      `yaml:"meta_keywords_max" mapstructure:"meta_keywords_max"`
	Regions         []string `yaml:"regions" mapstructure:"regions"`
	WordListFiles   []string `yaml:"word_list_files,omitempty" mapstructure:"word_list_files"`
}

// ConcurrencyConfig configures the link worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig limits requests to the search index
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// OutputConfig configures CLI output
type OutputConfig struct {
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
	Format  string `yaml:"format" mapstructure:"format"` // text, json
}

// Options are the user facing settings. Changes to the organization scope
// invalidate the result cache.
type Options struct {
	EnabledProvinces      []string `yaml:"enabled_provinces" mapstructure:"enabled_provinces" json:"enabledProvinces"`
	EnabledMunicipalities []string `yaml:"enabled_municipalities" mapstructure:"enabled_municipalities" json:"enabledMunicipalities"`
	FilterOrganizations   bool     `yaml:"filter_organizations" mapstructure:"filter_organizations" json:"filterOrganizations"`
	ShowOverviewIcons     bool     `yaml:"show_overview_icons" mapstructure:"show_overview_icons" json:"showOverviewIcons"`
	AutoOpenPanel         bool     `yaml:"auto_open_panel" mapstructure:"auto_open_panel" json:"autoOpenPanel"`
	HideWelcomePanel      bool     `yaml:"hide_welcome_panel" mapstructure:"hide_welcome_panel" json:"hideWelcomePanel"`
}

// Setting keys whose change affects the result scope
const (
	SettingEnabledProvinces      = "options.enabled_provinces"
	SettingEnabledMunicipalities = "options.enabled_municipalities"
	SettingFilterOrganizations   = "options.filter_organizations"
)

// ScopeSettings lists the setting keys that invalidate cached results
var ScopeSettings = []string{
	SettingEnabledProvinces,
	SettingEnabledMunicipalities,
	SettingFilterOrganizations,
}

// EnabledCollections returns the collections to restrict searches to, or nil
// when organization filtering is off
func (o Options) EnabledCollections() []string {
	if !o.FilterOrganizations {
		return nil
	}
	collections := make([]string, 0, len(o.EnabledProvinces)+len(o.EnabledMunicipalities))
	collections = append(collections, o.EnabledProvinces...)
	collections = append(collections, o.EnabledMunicipalities...)
	return collections
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "vhnw/0.3 (+https://github.com/voordathetnieuwswas/vhnw)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Search: SearchConfig{
			BaseURL:    "https://api.openstate.eu/v0",
			Lookback:   "14d",
			PageSize:   10,
			MaxResults: 10,
		},
		Cache: CacheConfig{
			Enabled:  true,
			Backend:  "disk",
			Dir:      "",
			Duration: "1h",
		},
		Extraction: ExtractionConfig{
			MaxKeywords:     5,
			MinKeywords:     3,
			MetaTagNames:    []string{"keywords", "news_keywords"},
			MetaKeywordsMax: 2,
			Regions:         []string{"landelijk"},
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 5,
			BurstSize:         5,
		},
		Output: OutputConfig{
			Format: "text",
		},
		Options: Options{
			EnabledProvinces:      []string{},
			EnabledMunicipalities: []string{},
			ShowOverviewIcons:     true,
			AutoOpenPanel:         true,
		},
	}
}

// ParseDuration parses a Go duration and additionally supports "Nd" for days
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(s)
}
