package reddit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JONGYYY/storyscrape/internal/logger"
	"github.com/JONGYYY/storyscrape/internal/metrics"
	"github.com/JONGYYY/storyscrape/internal/parser"
)

// ScrapeFailure classifies the terminal outcome of a failed scrape.
type ScrapeFailure string

const (
	// FailureExhausted means every strategy was tried and none produced
	// a parseable post.
	FailureExhausted ScrapeFailure = "exhausted"
	// FailureTimeout means the overall deadline expired (or the caller
	// cancelled) before any strategy succeeded.
	FailureTimeout ScrapeFailure = "timeout"
	// FailureNoContent means a post was located but has no text body.
	// Terminal: another strategy will not produce different content.
	FailureNoContent ScrapeFailure = "no_content"
)

// ScrapeResult is the normalized output of a successful scrape.
type ScrapeResult struct {
	Title     string
	Body      string
	Subreddit string
	Author    string
	URL       string
	// Strategy is the name of the strategy that produced the payload.
	Strategy string
}

// ScrapeError is the aggregate outcome when all strategies fail. It
// carries enough to differentiate remediation: wait and retry, regenerate
// credentials, or pick different content.
type ScrapeError struct {
	Class ScrapeFailure
	// Attempted lists the strategies that actually issued requests.
	Attempted []string
	// AuthConfigured reports whether OAuth credentials were present,
	// regardless of whether a token could be obtained.
	AuthConfigured bool
	Cause          error
}

func (e *ScrapeError) Error() string {
	if len(e.Attempted) > 0 {
		return fmt.Sprintf("scrape %s after [%s]: %v", e.Class, strings.Join(e.Attempted, ", "), e.Cause)
	}
	return fmt.Sprintf("scrape %s: %v", e.Class, e.Cause)
}

func (e *ScrapeError) Unwrap() error { return e.Cause }

// Scraper is the orchestration entry point used by the gateway and CLI.
type Scraper interface {
	Scrape(ctx context.Context, canonicalURL string) (*ScrapeResult, error)
}

// Orchestrator drives the fallback chain: strategies strictly in order,
// per-strategy retry budgets with exponential backoff, first parseable
// success wins, all under one shared wall-clock deadline. Each Scrape call
// is independent; the only shared state is the token cache.
type Orchestrator struct {
	strategies []FetchStrategy
	executor   *Executor
	tokens     TokenSource
	log        logger.Interface
	metrics    *metrics.Metrics
	deadline   time.Duration

	// sleep is the backoff delay, interruptible by ctx. Injectable so
	// tests can record the schedule without waiting it out.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewOrchestrator assembles an orchestrator over the given strategy chain.
func NewOrchestrator(
	strategies []FetchStrategy,
	executor *Executor,
	tokens TokenSource,
	log logger.Interface,
	m *metrics.Metrics,
	deadline time.Duration,
) *Orchestrator {
	if m == nil {
		m = metrics.NewMetrics()
	}
	if deadline <= 0 {
		deadline = 30 * time.Second
	}

	return &Orchestrator{
		strategies: strategies,
		executor:   executor,
		tokens:     tokens,
		log:        log.WithComponent("orchestrator"),
		metrics:    m,
		deadline:   deadline,
		sleep:      sleepContext,
	}
}

// Scrape retrieves and parses the post at canonicalURL. On failure the
// returned error is always a *ScrapeError.
func (o *Orchestrator) Scrape(ctx context.Context, canonicalURL string) (*ScrapeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, o.deadline)
	defer cancel()

	token := o.tokens.Token(ctx)

	var (
		attempted []string
		lastErr   error
	)

	for i := range o.strategies {
		strategy := &o.strategies[i]

		if strategy.RequiresAuth && token == nil {
			o.log.Debug("skipping strategy, no token", "strategy", strategy.Name)
			continue
		}

		attempted = append(attempted, strategy.Name)

		result, err := o.runStrategy(ctx, strategy, canonicalURL, token)
		if err == nil {
			o.metrics.RecordScrape(true)
			return result, nil
		}

		var scrapeErr *ScrapeError
		if errors.As(err, &scrapeErr) {
			// Terminal for the whole request: timeout or content-absent.
			scrapeErr.Attempted = attempted
			scrapeErr.AuthConfigured = o.tokens.Configured()
			o.metrics.RecordScrape(false)
			return nil, scrapeErr
		}

		lastErr = err
	}

	o.metrics.RecordScrape(false)
	o.log.Warn("all strategies exhausted",
		"url", canonicalURL,
		"attempted", strings.Join(attempted, ","),
		"last_error", fmt.Sprint(lastErr),
	)

	return nil, &ScrapeError{
		Class:          FailureExhausted,
		Attempted:      attempted,
		AuthConfigured: o.tokens.Configured(),
		Cause:          lastErr,
	}
}

// runStrategy drives one strategy through its retry budget. A returned
// *ScrapeError is terminal for the whole scrape; any other error means
// advance to the next strategy.
func (o *Orchestrator) runStrategy(ctx context.Context, strategy *FetchStrategy, canonicalURL string, token *Token) (*ScrapeResult, error) {
	for attempt := 0; ; attempt++ {
		o.metrics.RecordAttempt(strategy.Name)

		payload, fetchErr := o.executor.Attempt(ctx, strategy, canonicalURL, token)
		if fetchErr == nil {
			return o.parsePayload(strategy, canonicalURL, payload)
		}

		if fetchErr.Class == ClassAborted || ctx.Err() != nil {
			return nil, &ScrapeError{Class: FailureTimeout, Cause: fetchErr}
		}

		o.log.Debug("attempt failed",
			"strategy", strategy.Name,
			"attempt", attempt,
			"class", string(fetchErr.Class),
			"status", fetchErr.StatusCode,
		)

		if !fetchErr.Retryable() || attempt >= strategy.MaxRetries {
			return nil, fetchErr
		}

		if sleepErr := o.sleep(ctx, backoffDelay(strategy, attempt)); sleepErr != nil {
			return nil, &ScrapeError{Class: FailureTimeout, Cause: fetchErr}
		}
	}
}

// parsePayload hands a successful payload to the parser. A structural
// failure demotes the strategy's success to a permanent failure so the
// chain advances; content-absent is terminal.
func (o *Orchestrator) parsePayload(strategy *FetchStrategy, canonicalURL, payload string) (*ScrapeResult, error) {
	post, err := parser.Parse(payload, strategy.Shape)
	if err != nil {
		if errors.Is(err, parser.ErrNoTextContent) {
			return nil, &ScrapeError{Class: FailureNoContent, Cause: err}
		}

		o.log.Warn("payload unparseable",
			"strategy", strategy.Name,
			"error", err,
		)

		return nil, &FetchError{
			Class:    ClassPermanent,
			Strategy: strategy.Name,
			URL:      canonicalURL,
			Cause:    err,
		}
	}

	o.metrics.RecordSuccess(strategy.Name)
	o.log.Info("scrape succeeded",
		"strategy", strategy.Name,
		"subreddit", post.Subreddit,
		"title_len", len(post.Title),
		"body_len", len(post.Body),
	)

	return &ScrapeResult{
		Title:     post.Title,
		Body:      post.Body,
		Subreddit: post.Subreddit,
		Author:    post.Author,
		URL:       canonicalURL,
		Strategy:  strategy.Name,
	}, nil
}

// backoffDelay computes the delay before retry number attempt (0-based):
// min(base << attempt, cap).
func backoffDelay(strategy *FetchStrategy, attempt int) time.Duration {
	delay := strategy.BackoffBase << attempt
	if delay <= 0 || delay > strategy.BackoffCap {
		return strategy.BackoffCap
	}
	return delay
}

// sleepContext blocks for d or until ctx expires.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var _ Scraper = (*Orchestrator)(nil)
