// Package config loads application configuration from Viper-managed sources
// (config file, environment variables, and defaults).
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Default configuration values.
const (
	DefaultServerAddress   = ":8080"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 45 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultScrapeDeadline  = 30 * time.Second
	DefaultRateLimit       = 5
	DefaultRateLimitWindow = 10 * time.Second
	DefaultMaxResponseMB   = 10
	DefaultTokenURL        = "https://www.reddit.com/api/v1/access_token"
)

// ErrInvalidDeadline is returned when the scrape deadline is not positive.
var ErrInvalidDeadline = errors.New("scraper deadline must be positive")

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	RateLimit       int
	RateLimitWindow time.Duration
}

// LoggerConfig holds logger settings.
type LoggerConfig struct {
	Level       string
	Encoding    string
	Development bool
	EnableColor bool
	OutputPaths []string
}

// RedditConfig holds upstream Reddit credentials and endpoints.
type RedditConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	TokenURL     string
	UserAgent    string
}

// Configured reports whether OAuth credentials are fully present.
// When false the scraper runs with unauthenticated strategies only.
func (r RedditConfig) Configured() bool {
	return r.ClientID != "" && r.ClientSecret != "" && r.RefreshToken != ""
}

// ScraperConfig holds scrape pipeline tuning.
type ScraperConfig struct {
	// Deadline is the overall wall-clock budget for one scrape across
	// every strategy, retry, and backoff sleep.
	Deadline time.Duration
	// MaxResponseBytes limits the size of a fetched payload.
	MaxResponseBytes int64
}

// Config is the root application configuration.
type Config struct {
	Server  ServerConfig
	Logger  LoggerConfig
	Reddit  RedditConfig
	Scraper ScraperConfig
}

// Load builds a Config from the current Viper state. Callers are expected
// to have initialized Viper (defaults, env bindings, optional config file)
// via the root command before calling Load.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Address:         viper.GetString("server.address"),
			ReadTimeout:     viper.GetDuration("server.read_timeout"),
			WriteTimeout:    viper.GetDuration("server.write_timeout"),
			IdleTimeout:     viper.GetDuration("server.idle_timeout"),
			RateLimit:       viper.GetInt("server.rate_limit"),
			RateLimitWindow: viper.GetDuration("server.rate_limit_window"),
		},
		Logger: LoggerConfig{
			Level:       viper.GetString("logger.level"),
			Encoding:    viper.GetString("logger.encoding"),
			Development: viper.GetBool("logger.development"),
			EnableColor: viper.GetBool("logger.enable_color"),
			OutputPaths: viper.GetStringSlice("logger.output_paths"),
		},
		Reddit: RedditConfig{
			ClientID:     viper.GetString("reddit.client_id"),
			ClientSecret: viper.GetString("reddit.client_secret"),
			RefreshToken: viper.GetString("reddit.refresh_token"),
			TokenURL:     viper.GetString("reddit.token_url"),
			UserAgent:    viper.GetString("reddit.user_agent"),
		},
		Scraper: ScraperConfig{
			Deadline:         viper.GetDuration("scraper.deadline"),
			MaxResponseBytes: viper.GetInt64("scraper.max_response_bytes"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// applyDefaults fills zero values with production-safe defaults.
func applyDefaults(cfg *Config) {
	if cfg.Server.Address == "" {
		cfg.Server.Address = DefaultServerAddress
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout <= 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.RateLimit <= 0 {
		cfg.Server.RateLimit = DefaultRateLimit
	}
	if cfg.Server.RateLimitWindow <= 0 {
		cfg.Server.RateLimitWindow = DefaultRateLimitWindow
	}
	if cfg.Reddit.TokenURL == "" {
		cfg.Reddit.TokenURL = DefaultTokenURL
	}
	if cfg.Scraper.Deadline == 0 {
		cfg.Scraper.Deadline = DefaultScrapeDeadline
	}
	if cfg.Scraper.MaxResponseBytes <= 0 {
		cfg.Scraper.MaxResponseBytes = DefaultMaxResponseMB * 1024 * 1024
	}
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Scraper.Deadline <= 0 {
		return ErrInvalidDeadline
	}
	return nil
}
