// Package metrics provides metrics collection and reporting functionality.
package metrics

import (
	"sync"
	"time"
)

// Metrics holds scrape pipeline counters.
type Metrics struct {
	// ScrapeCount is the number of scrape requests processed.
	ScrapeCount int64
	// ScrapeErrors is the number of scrape requests that failed.
	ScrapeErrors int64
	// StrategyAttempts counts fetch attempts per strategy name.
	StrategyAttempts map[string]int64
	// StrategySuccesses counts successful fetches per strategy name.
	StrategySuccesses map[string]int64
	// TokenRefreshes is the number of token endpoint calls.
	TokenRefreshes int64
	// TokenRefreshFailures is the number of failed token endpoint calls.
	TokenRefreshFailures int64
	// RateLimitedRequests is the number of inbound requests rejected by the rate limiter.
	RateLimitedRequests int64
	// LastScrapeTime is the time of the last successful scrape.
	LastScrapeTime time.Time
	// StartTime is when the metrics collection began.
	StartTime time.Time

	mu sync.Mutex
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{
		StrategyAttempts:  make(map[string]int64),
		StrategySuccesses: make(map[string]int64),
		StartTime:         time.Now(),
	}
}

// RecordScrape updates the scrape counters based on success.
func (m *Metrics) RecordScrape(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ScrapeCount++
	if success {
		m.LastScrapeTime = time.Now()
	} else {
		m.ScrapeErrors++
	}
}

// RecordAttempt records one fetch attempt for a strategy.
func (m *Metrics) RecordAttempt(strategy string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StrategyAttempts[strategy]++
}

// RecordSuccess records a successful fetch for a strategy.
func (m *Metrics) RecordSuccess(strategy string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StrategySuccesses[strategy]++
}

// RecordTokenRefresh records a token endpoint call.
func (m *Metrics) RecordTokenRefresh(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TokenRefreshes++
	if !success {
		m.TokenRefreshFailures++
	}
}

// RecordRateLimited records an inbound request rejected by the rate limiter.
func (m *Metrics) RecordRateLimited() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RateLimitedRequests++
}

// Snapshot returns a copy of the current counter values.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	attempts := make(map[string]int64, len(m.StrategyAttempts))
	for k, v := range m.StrategyAttempts {
		attempts[k] = v
	}

	successes := make(map[string]int64, len(m.StrategySuccesses))
	for k, v := range m.StrategySuccesses {
		successes[k] = v
	}

	return Snapshot{
		ScrapeCount:          m.ScrapeCount,
		ScrapeErrors:         m.ScrapeErrors,
		StrategyAttempts:     attempts,
		StrategySuccesses:    successes,
		TokenRefreshes:       m.TokenRefreshes,
		TokenRefreshFailures: m.TokenRefreshFailures,
		RateLimitedRequests:  m.RateLimitedRequests,
		LastScrapeTime:       m.LastScrapeTime,
		UptimeSeconds:        int64(time.Since(m.StartTime).Seconds()),
	}
}

// Snapshot is a point-in-time copy of the counters, safe to serialize.
type Snapshot struct {
	ScrapeCount          int64            `json:"scrape_count"`
	ScrapeErrors         int64            `json:"scrape_errors"`
	StrategyAttempts     map[string]int64 `json:"strategy_attempts"`
	StrategySuccesses    map[string]int64 `json:"strategy_successes"`
	TokenRefreshes       int64            `json:"token_refreshes"`
	TokenRefreshFailures int64            `json:"token_refresh_failures"`
	RateLimitedRequests  int64            `json:"rate_limited_requests"`
	LastScrapeTime       time.Time        `json:"last_scrape_time"`
	UptimeSeconds        int64            `json:"uptime_seconds"`
}
