// Package config loads and validates environment variables at startup, then
// overlays the optional YAML file named by SEARCH_CONFIG_FILE.
// Fail-fast: if a required variable is missing, the process exits.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"jobmate/search-service/internal/model"
	"jobmate/search-service/internal/retry"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all runtime configuration for the search service.
type Config struct {
	Port                string
	StoreDriver         string // "postgres" or "sqlite"
	DatabaseURL         string
	SQLitePath          string
	RedisURL            string // optional; enables the Redis cache tier and events
	ScrapeIntervalHours int    // 0 disables ingestion
	LogLevel            string
	LogFormat           string
	PremiumEmails       []string // premium users when no Postgres is configured

	Providers []Provider
	SMTP      SMTP

	Targets      []model.IngestTarget
	Retry        retry.Policy
	CacheTTL     time.Duration
	CascadeLimit int
}

// Provider holds the switch and credentials of one external job board.
type Provider struct {
	ID          string
	Enabled     bool
	BaseURL     string
	AppID       string
	APIKey      string
	PublisherID string
	PartnerID   string
}

// SMTP holds the outgoing mail settings. Host empty means no e-mail.
type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// File is the YAML overlay. Zero fields keep the defaults.
type File struct {
	Targets      []model.IngestTarget `yaml:"targets"`
	Retry        retry.Policy         `yaml:"retry"`
	CacheTTL     time.Duration        `yaml:"cache_ttl"`
	CascadeLimit int                  `yaml:"cascade_limit"`
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	driver := strings.ToLower(getenv("STORE_DRIVER", DriverPostgres))
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, driver)
	}

	dbURL := os.Getenv("DATABASE_URL")
	if driver == DriverPostgres && dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	interval, err := intEnv("SCRAPE_INTERVAL_HOURS", 6)
	if err != nil {
		return nil, err
	}
	if interval < 0 {
		return nil, fmt.Errorf("SCRAPE_INTERVAL_HOURS must not be negative, got %d", interval)
	}

	smtpPort, err := intEnv("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:                getenv("SEARCH_PORT", "8083"),
		StoreDriver:         driver,
		DatabaseURL:         dbURL,
		SQLitePath:          getenv("SQLITE_PATH", "search.db"),
		RedisURL:            os.Getenv("REDIS_URL"),
		ScrapeIntervalHours: interval,
		LogLevel:            getenv("LOG_LEVEL", "info"),
		LogFormat:           getenv("LOG_FORMAT", "text"),
		PremiumEmails:       splitList(os.Getenv("PREMIUM_EMAILS")),
		Providers: []Provider{
			{
				ID:      "adzuna",
				Enabled: boolEnv("ADZUNA_ENABLED", true),
				BaseURL: os.Getenv("ADZUNA_BASE_URL"),
				AppID:   os.Getenv("ADZUNA_APP_ID"),
				APIKey:  os.Getenv("ADZUNA_APP_KEY"),
			},
			{
				ID:          "indeed",
				Enabled:     boolEnv("INDEED_ENABLED", false),
				BaseURL:     os.Getenv("INDEED_BASE_URL"),
				PublisherID: os.Getenv("INDEED_PUBLISHER_ID"),
			},
			{
				ID:      "github",
				Enabled: boolEnv("GITHUB_JOBS_ENABLED", false),
				BaseURL: os.Getenv("GITHUB_JOBS_BASE_URL"),
			},
			{
				ID:        "glassdoor",
				Enabled:   boolEnv("GLASSDOOR_ENABLED", false),
				BaseURL:   os.Getenv("GLASSDOOR_BASE_URL"),
				PartnerID: os.Getenv("GLASSDOOR_PARTNER_ID"),
				APIKey:    os.Getenv("GLASSDOOR_API_KEY"),
			},
		},
		SMTP: SMTP{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     smtpPort,
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
		},
		Retry: retry.DefaultPolicy,
	}

	if path := os.Getenv("SEARCH_CONFIG_FILE"); path != "" {
		f, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		cfg.merge(f)
	}
	return cfg, nil
}

// ReadFile parses the YAML overlay at path.
func ReadFile(path string) (File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return File{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return f, nil
}

func (c *Config) merge(f File) {
	if len(f.Targets) > 0 {
		c.Targets = f.Targets
	}
	if f.Retry.MaxAttempts > 0 {
		c.Retry.MaxAttempts = f.Retry.MaxAttempts
	}
	if f.Retry.BaseDelay > 0 {
		c.Retry.BaseDelay = f.Retry.BaseDelay
	}
	if f.Retry.Factor > 0 {
		c.Retry.Factor = f.Retry.Factor
	}
	if f.CacheTTL > 0 {
		c.CacheTTL = f.CacheTTL
	}
	if f.CascadeLimit > 0 {
		c.CascadeLimit = f.CascadeLimit
	}
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, s)
	}
	return v, nil
}

func boolEnv(key string, fallback bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
