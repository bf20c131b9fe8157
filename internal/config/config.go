package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/alexjbarnes/notion-docs-sync/internal/notion"
)

// Config holds all environment-based configuration for notion-docs-sync.
type Config struct {
	// Notion integration token.
	Token string `env:"NOTION_TOKEN"`

	// Root page every document syncs under. Accepts a UUID with or without
	// dashes, or a page URL. Canonical dashed form after Load.
	DestinationID string `env:"NOTION_DESTINATION_ID"`

	// Directory of markdown to sync. Absolute after Load.
	Source string `env:"SYNC_SOURCE" envDefault:"docs"`

	// Environment controls log format
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	// LogFile, when set, also writes logs to a rotating file.
	LogFile string `env:"LOG_FILE"`

	// API settings
	APIURL        string        `env:"NOTION_API_URL" envDefault:"https://api.notion.com/v1"`
	NotionVersion string        `env:"NOTION_VERSION" envDefault:"2022-06-28"`
	HTTPTimeout   time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`

	// Request pacing: at most RateLimitRequests per RateLimitInterval.
	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"3"`
	RateLimitInterval time.Duration `env:"RATE_LIMIT_INTERVAL" envDefault:"1s"`

	// StatePath is a bbolt file remembering created pages across runs.
	// Empty keeps the title cache in memory for a single run.
	StatePath string `env:"STATE_PATH"`

	DryRun          bool `env:"DRY_RUN" envDefault:"false"`
	HydrateChildren bool `env:"HYDRATE_CHILDREN" envDefault:"false"`

	Watch         bool          `env:"WATCH" envDefault:"false"`
	WatchDebounce time.Duration `env:"WATCH_DEBOUNCE" envDefault:"2s"`

	// Set by GitHub Actions.
	GitHubOutput string `env:"GITHUB_OUTPUT"`
}

// inputFallbacks maps variables to the GitHub Action inputs that stand in
// for them when they are unset.
var inputFallbacks = map[string]string{
	"NOTION_TOKEN":          "INPUT_NOTION_TOKEN",
	"NOTION_DESTINATION_ID": "INPUT_DESTINATION_ID",
	"SYNC_SOURCE":           "INPUT_SOURCE",
}

// Option adjusts the parsed configuration before validation. Command line
// flags are applied this way.
type Option func(*Config)

// warnInsecureEnvFile checks whether the .env file (if present) has
// overly permissive permissions. It usually holds the integration token.
func warnInsecureEnvFile() {
	if runtime.GOOS == "windows" {
		return
	}

	info, err := os.Stat(".env")
	if err != nil {
		return
	}

	mode := info.Mode().Perm()
	if mode&0o077 != 0 {
		log.Printf("WARNING: .env file has insecure permissions %04o; recommended 0600", mode)
	}
}

// Load reads configuration from environment variables.
// It first attempts to load a .env file if present, then parses env vars,
// applies opts and validates the result.
func Load(opts ...Option) (*Config, error) {
	_ = godotenv.Load()

	warnInsecureEnvFile()

	vars := env.ToMap(os.Environ())

	for key, fallback := range inputFallbacks {
		if vars[key] == "" && vars[fallback] != "" {
			vars[key] = vars[fallback]
		}
	}

	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	id, err := notion.ParseID(cfg.DestinationID)
	if err != nil {
		return nil, fmt.Errorf("validating config: NOTION_DESTINATION_ID: %w", err)
	}

	cfg.DestinationID = id

	absSource, err := filepath.Abs(cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("resolving source dir to absolute path: %w", err)
	}

	cfg.Source = absSource

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Token == "" {
		return fmt.Errorf("NOTION_TOKEN is required")
	}

	if c.DestinationID == "" {
		return fmt.Errorf("NOTION_DESTINATION_ID is required")
	}

	if c.Source == "" {
		return fmt.Errorf("SYNC_SOURCE must not be empty")
	}

	if c.RateLimitRequests <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.RateLimitRequests)
	}

	if c.RateLimitInterval <= 0 {
		return fmt.Errorf("RATE_LIMIT_INTERVAL must be positive, got %s", c.RateLimitInterval)
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.HTTPTimeout)
	}

	if c.Watch && c.WatchDebounce <= 0 {
		return fmt.Errorf("WATCH_DEBOUNCE must be positive, got %s", c.WatchDebounce)
	}

	return nil
}

// IsProduction returns true when the environment is set to production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
