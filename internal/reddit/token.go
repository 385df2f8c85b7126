package reddit

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/JONGYYY/storyscrape/internal/config"
	"github.com/JONGYYY/storyscrape/internal/logger"
	"github.com/JONGYYY/storyscrape/internal/metrics"
)

// expiryMargin is how long before expiry a cached token is treated as
// absent, so in-flight requests never ride a token that dies mid-call.
const expiryMargin = 5 * time.Minute

// defaultTokenTTL applies when the token endpoint omits expires_in.
const defaultTokenTTL = time.Hour

// maxTokenResponseBytes bounds the token endpoint response body.
const maxTokenResponseBytes = 64 * 1024

// Token is a cached OAuth bearer credential.
type Token struct {
	AccessToken string
	ExpiresAt   time.Time
}

// ValidAt reports whether the token is usable at the given instant,
// honoring the expiry safety margin.
func (t *Token) ValidAt(now time.Time) bool {
	return t != nil && t.AccessToken != "" && now.Before(t.ExpiresAt.Add(-expiryMargin))
}

// TokenSource supplies bearer tokens to the orchestrator.
type TokenSource interface {
	// Token returns a usable token or nil. A nil token is not an error;
	// the orchestrator falls through to unauthenticated strategies.
	Token(ctx context.Context) *Token
	// Configured reports whether OAuth credentials are present at all,
	// which drives remediation messaging on exhaustion.
	Configured() bool
}

// TokenCache caches a single process-wide OAuth token and refreshes it on
// demand via the token endpoint. One instance is shared by all concurrent
// scrapes; the mutex is held across a refresh so concurrent misses
// converge on one token-endpoint call.
type TokenCache struct {
	cfg     config.RedditConfig
	client  *http.Client
	log     logger.Interface
	metrics *metrics.Metrics
	now     func() time.Time

	mu     sync.Mutex
	cached *Token
}

// NewTokenCache creates a token cache using the given credentials.
func NewTokenCache(cfg config.RedditConfig, client *http.Client, log logger.Interface, m *metrics.Metrics) *TokenCache {
	if client == nil {
		client = http.DefaultClient
	}
	if m == nil {
		m = metrics.NewMetrics()
	}

	return &TokenCache{
		cfg:     cfg,
		client:  client,
		log:     log.WithComponent("token_cache"),
		metrics: m,
		now:     time.Now,
	}
}

// Configured reports whether OAuth credentials are present.
func (c *TokenCache) Configured() bool {
	return c.cfg.Configured()
}

// Token returns the cached token when it is still comfortably valid,
// otherwise refreshes. Refresh failure clears any stale value and returns
// nil; it never surfaces an error to callers.
func (c *TokenCache) Token(ctx context.Context) *Token {
	if !c.cfg.Configured() {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached.ValidAt(c.now()) {
		return c.cached
	}

	c.cached = c.refresh(ctx)

	return c.cached
}

// Invalidate drops the cached token so the next call refreshes.
func (c *TokenCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached = nil
}

// tokenResponse mirrors the token endpoint's success payload.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// refresh performs one token endpoint call. Returns nil on any failure.
func (c *TokenCache) refresh(ctx context.Context) *Token {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", c.cfg.RefreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		c.log.Error("token request build failed", "error", err)
		return nil
	}

	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.RecordTokenRefresh(false)
		c.log.Warn("token endpoint unreachable", "error", err)
		return nil
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxTokenResponseBytes))
	if readErr != nil {
		c.metrics.RecordTokenRefresh(false)
		c.log.Warn("token response read failed", "error", readErr)
		return nil
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.metrics.RecordTokenRefresh(false)
		c.logRefreshFailure(resp.StatusCode, body)
		return nil
	}

	var parsed tokenResponse
	if unmarshalErr := json.Unmarshal(body, &parsed); unmarshalErr != nil {
		c.metrics.RecordTokenRefresh(false)
		c.log.Warn("token response malformed", "error", unmarshalErr)
		return nil
	}

	if parsed.AccessToken == "" {
		c.metrics.RecordTokenRefresh(false)
		c.log.Warn("token response missing access_token")
		return nil
	}

	ttl := defaultTokenTTL
	if parsed.ExpiresIn > 0 {
		ttl = time.Duration(parsed.ExpiresIn) * time.Second
	}

	c.metrics.RecordTokenRefresh(true)
	c.log.Debug("token refreshed", "expires_in", ttl.String())

	return &Token{
		AccessToken: parsed.AccessToken,
		ExpiresAt:   c.now().Add(ttl),
	}
}

// logRefreshFailure distinguishes an expired or revoked refresh token
// (HTTP 400 from the provider) from other endpoint failures.
func (c *TokenCache) logRefreshFailure(statusCode int, body []byte) {
	if statusCode == http.StatusBadRequest || statusCode == http.StatusUnauthorized {
		c.log.Warn("refresh token rejected, credentials likely expired or revoked",
			"status", statusCode,
			"body", truncate(string(body), 200),
		)
		return
	}

	c.log.Error("token endpoint failure",
		"status", statusCode,
		"body", truncate(string(body), 200),
	)
}

// truncate shortens s to at most n bytes for log fields.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var _ TokenSource = (*TokenCache)(nil)
