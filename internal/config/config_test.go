package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultServerAddress, cfg.Server.Address)
	assert.Equal(t, DefaultScrapeDeadline, cfg.Scraper.Deadline)
	assert.Equal(t, DefaultTokenURL, cfg.Reddit.TokenURL)
	assert.Equal(t, DefaultRateLimit, cfg.Server.RateLimit)
	assert.Equal(t, int64(DefaultMaxResponseMB*1024*1024), cfg.Scraper.MaxResponseBytes)
	assert.False(t, cfg.Reddit.Configured())
}

func TestLoadFromViper(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("server.address", ":9090")
	viper.Set("server.rate_limit", 50)
	viper.Set("scraper.deadline", "10s")
	viper.Set("reddit.client_id", "id")
	viper.Set("reddit.client_secret", "secret")
	viper.Set("reddit.refresh_token", "token")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, 50, cfg.Server.RateLimit)
	assert.Equal(t, 10*time.Second, cfg.Scraper.Deadline)
	assert.True(t, cfg.Reddit.Configured())
}

func TestRedditConfigured(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  RedditConfig
		want bool
	}{
		{name: "all present", cfg: RedditConfig{ClientID: "a", ClientSecret: "b", RefreshToken: "c"}, want: true},
		{name: "missing id", cfg: RedditConfig{ClientSecret: "b", RefreshToken: "c"}},
		{name: "missing secret", cfg: RedditConfig{ClientID: "a", RefreshToken: "c"}},
		{name: "missing refresh token", cfg: RedditConfig{ClientID: "a", ClientSecret: "b"}},
		{name: "empty", cfg: RedditConfig{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.cfg.Configured())
		})
	}
}
