// Package common wires shared dependencies for the CLI commands.
package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/JONGYYY/storyscrape/internal/config"
	"github.com/JONGYYY/storyscrape/internal/logger"
	"github.com/JONGYYY/storyscrape/internal/metrics"
	"github.com/JONGYYY/storyscrape/internal/reddit"
)

var (
	errLoggerRequired = errors.New("logger is required")
	errConfigRequired = errors.New("config is required")
)

// Deps holds the composed dependencies shared by commands.
type Deps struct {
	Config  *config.Config
	Logger  logger.Interface
	Metrics *metrics.Metrics
	Scraper *reddit.Orchestrator
}

// NewDeps loads configuration, builds the logger, and assembles the
// scrape pipeline (token cache, executor, orchestrator). This is the
// composition root: the token cache created here is the single
// process-wide credential cache.
func NewDeps() (*Deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:       logger.Level(cfg.Logger.Level),
		Development: cfg.Logger.Development,
		Encoding:    cfg.Logger.Encoding,
		OutputPaths: cfg.Logger.OutputPaths,
		EnableColor: cfg.Logger.EnableColor,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	deps := &Deps{
		Config:  cfg,
		Logger:  log,
		Metrics: metrics.NewMetrics(),
	}

	if validateErr := deps.validate(); validateErr != nil {
		return nil, fmt.Errorf("validate deps: %w", validateErr)
	}

	// No client timeout: the orchestration deadline arrives via context.
	httpClient := &http.Client{}

	tokens := reddit.NewTokenCache(cfg.Reddit, httpClient, log, deps.Metrics)
	executor := reddit.NewExecutor(httpClient, log, cfg.Scraper.MaxResponseBytes)

	deps.Scraper = reddit.NewOrchestrator(
		reddit.DefaultStrategies(cfg.Reddit.UserAgent),
		executor,
		tokens,
		log,
		deps.Metrics,
		cfg.Scraper.Deadline,
	)

	if !cfg.Reddit.Configured() {
		log.Warn("reddit OAuth credentials not configured, running with unauthenticated strategies only")
	}

	return deps, nil
}

// validate ensures all required dependencies are present.
func (d *Deps) validate() error {
	if d.Logger == nil {
		return errLoggerRequired
	}
	if d.Config == nil {
		return errConfigRequired
	}
	return nil
}
