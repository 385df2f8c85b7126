package reddit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JONGYYY/storyscrape/internal/config"
	"github.com/JONGYYY/storyscrape/internal/logger"
	"github.com/JONGYYY/storyscrape/internal/metrics"
)

// newTokenServer returns a token endpoint stub and a call counter.
func newTokenServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int64) {
	t.Helper()

	var calls atomic.Int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		require.Equal(t, http.MethodPost, r.Method)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok, "expected basic auth")
		assert.Equal(t, "client-id", user)
		assert.Equal(t, "client-secret", pass)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "refresh-tok", r.PostForm.Get("refresh_token"))

		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv, &calls
}

func testRedditConfig(tokenURL string) config.RedditConfig {
	return config.RedditConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RefreshToken: "refresh-tok",
		TokenURL:     tokenURL,
		UserAgent:    "storyscrape-test/1.0",
	}
}

func TestTokenCacheSingleCallWithinValidity(t *testing.T) {
	srv, calls := newTokenServer(t, http.StatusOK, `{"access_token": "tok-1", "expires_in": 3600}`)

	cache := NewTokenCache(testRedditConfig(srv.URL), srv.Client(), logger.NewNoop(), metrics.NewMetrics())

	first := cache.Token(context.Background())
	require.NotNil(t, first)
	assert.Equal(t, "tok-1", first.AccessToken)

	second := cache.Token(context.Background())
	require.NotNil(t, second)
	assert.Equal(t, "tok-1", second.AccessToken)

	assert.Equal(t, int64(1), calls.Load(), "second request within validity must not hit the endpoint")
}

func TestTokenCacheRefreshesWithinExpiryMargin(t *testing.T) {
	srv, calls := newTokenServer(t, http.StatusOK, `{"access_token": "tok-1", "expires_in": 3600}`)

	cache := NewTokenCache(testRedditConfig(srv.URL), srv.Client(), logger.NewNoop(), metrics.NewMetrics())

	now := time.Now()
	cache.now = func() time.Time { return now }

	require.NotNil(t, cache.Token(context.Background()))
	assert.Equal(t, int64(1), calls.Load())

	// Advance to 4 minutes before expiry, inside the 5-minute margin.
	now = now.Add(56 * time.Minute)

	require.NotNil(t, cache.Token(context.Background()))
	assert.Equal(t, int64(2), calls.Load(), "token inside the safety margin must be refreshed")
}

func TestTokenCacheRefreshFailureReturnsNil(t *testing.T) {
	srv, calls := newTokenServer(t, http.StatusBadRequest, `{"error": "invalid_grant"}`)

	m := metrics.NewMetrics()
	cache := NewTokenCache(testRedditConfig(srv.URL), srv.Client(), logger.NewNoop(), m)

	assert.Nil(t, cache.Token(context.Background()))
	assert.Equal(t, int64(1), calls.Load())

	snapshot := m.Snapshot()
	assert.Equal(t, int64(1), snapshot.TokenRefreshFailures)
}

func TestTokenCacheUnconfiguredReturnsNilWithoutCall(t *testing.T) {
	srv, calls := newTokenServer(t, http.StatusOK, `{"access_token": "tok-1"}`)

	cfg := testRedditConfig(srv.URL)
	cfg.RefreshToken = ""

	cache := NewTokenCache(cfg, srv.Client(), logger.NewNoop(), metrics.NewMetrics())

	assert.Nil(t, cache.Token(context.Background()))
	assert.False(t, cache.Configured())
	assert.Equal(t, int64(0), calls.Load(), "unconfigured cache must not call the endpoint")
}

func TestTokenCacheMissingAccessToken(t *testing.T) {
	srv, _ := newTokenServer(t, http.StatusOK, `{"expires_in": 3600}`)

	cache := NewTokenCache(testRedditConfig(srv.URL), srv.Client(), logger.NewNoop(), metrics.NewMetrics())

	assert.Nil(t, cache.Token(context.Background()))
}

func TestTokenCacheInvalidate(t *testing.T) {
	srv, calls := newTokenServer(t, http.StatusOK, `{"access_token": "tok-1", "expires_in": 3600}`)

	cache := NewTokenCache(testRedditConfig(srv.URL), srv.Client(), logger.NewNoop(), metrics.NewMetrics())

	require.NotNil(t, cache.Token(context.Background()))
	cache.Invalidate()
	require.NotNil(t, cache.Token(context.Background()))

	assert.Equal(t, int64(2), calls.Load())
}

func TestTokenValidAt(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name  string
		token *Token
		want  bool
	}{
		{name: "nil token", token: nil, want: false},
		{name: "empty access token", token: &Token{ExpiresAt: now.Add(time.Hour)}, want: false},
		{name: "well before margin", token: &Token{AccessToken: "t", ExpiresAt: now.Add(time.Hour)}, want: true},
		{name: "inside margin", token: &Token{AccessToken: "t", ExpiresAt: now.Add(4 * time.Minute)}, want: false},
		{name: "expired", token: &Token{AccessToken: "t", ExpiresAt: now.Add(-time.Minute)}, want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.token.ValidAt(now); got != tt.want {
				t.Errorf("ValidAt = %v, want %v", got, tt.want)
			}
		})
	}
}
