package reddit

import (
	"math/rand"
	"time"

	"github.com/JONGYYY/storyscrape/internal/parser"
)

// Format suffixes appended to the transformed post path.
const (
	jsonSuffix = ".json"
	rssSuffix  = ".rss"
)

// Backoff tuning per strategy class. Primary (authenticated/desktop)
// strategies back off harder because they are worth waiting for; terminal
// fallbacks use a shorter schedule.
const (
	primaryBackoffBase  = 2 * time.Second
	primaryBackoffCap   = 10 * time.Second
	fallbackBackoffBase = 1 * time.Second
	fallbackBackoffCap  = 8 * time.Second
)

// retryableStatuses is the default set of transient HTTP statuses.
var retryableStatuses = map[int]bool{
	429: true,
	502: true,
	503: true,
}

// FetchStrategy describes one retrieval attempt profile: where to fetch,
// with which headers, under which auth, and how hard to retry. Strategies
// are static configuration, ordered most reliable first, never mutated at
// runtime.
type FetchStrategy struct {
	// Name identifies the strategy in logs and diagnostics.
	Name string
	// Shape selects the parser for payloads this strategy produces.
	Shape parser.Shape
	// Transform maps the canonical post URL to this strategy's endpoint.
	Transform func(canonical string) string
	// Headers is the full header profile sent with the request.
	Headers map[string]string
	// RotateUserAgent replaces the User-Agent header with a random
	// desktop browser string on every attempt.
	RotateUserAgent bool
	// RequiresAuth skips the strategy when no valid token is available.
	RequiresAuth bool
	// MaxRetries is the number of additional attempts on transient failure.
	MaxRetries int
	// RetryableStatusCodes are the HTTP statuses treated as transient.
	RetryableStatusCodes map[int]bool
	// BackoffBase and BackoffCap bound the exponential retry delay.
	BackoffBase time.Duration
	BackoffCap  time.Duration
}

// desktopUserAgents are rotated on browser-profile strategies. Reddit's
// bot detection is inconsistent across UA strings, so variety helps.
var desktopUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

// randomDesktopUserAgent picks a rotating browser UA string.
func randomDesktopUserAgent() string {
	return desktopUserAgents[rand.Intn(len(desktopUserAgents))]
}

// jsonEndpoint returns a Transform that rewrites the canonical URL to the
// given host with the JSON suffix appended.
func jsonEndpoint(host string) func(string) string {
	return func(canonical string) string {
		return rewriteHost(canonical, host) + jsonSuffix
	}
}

// rssEndpoint returns a Transform that rewrites the canonical URL to the
// given host with the RSS suffix appended.
func rssEndpoint(host string) func(string) string {
	return func(canonical string) string {
		return rewriteHost(canonical, host) + rssSuffix
	}
}

// DefaultStrategies returns the ordered fallback chain. The ordering
// encodes a cost/reliability tradeoff: OAuth is fastest and least likely
// to be blocked; the tail strategies exist because Reddit's bot detection
// is inconsistent rather than deterministically bypassable. apiUserAgent
// is the configured UA for the authenticated strategy.
func DefaultStrategies(apiUserAgent string) []FetchStrategy {
	if apiUserAgent == "" {
		apiUserAgent = "storyscrape/1.0"
	}

	return []FetchStrategy{
		{
			Name:      "oauth",
			Shape:     parser.ShapeJSON,
			Transform: jsonEndpoint("oauth.reddit.com"),
			Headers: map[string]string{
				"User-Agent": apiUserAgent,
				"Accept":     "application/json",
			},
			RequiresAuth:         true,
			MaxRetries:           2,
			RetryableStatusCodes: retryableStatuses,
			BackoffBase:          primaryBackoffBase,
			BackoffCap:           primaryBackoffCap,
		},
		{
			Name:      "desktop-json",
			Shape:     parser.ShapeJSON,
			Transform: jsonEndpoint("www.reddit.com"),
			Headers: map[string]string{
				"Accept":          "application/json, text/plain, */*",
				"Accept-Language": "en-US,en;q=0.9",
				"Referer":         "https://www.reddit.com/",
				"Sec-Fetch-Dest":  "empty",
				"Sec-Fetch-Mode":  "cors",
				"Sec-Fetch-Site":  "same-origin",
			},
			RotateUserAgent:      true,
			MaxRetries:           2,
			RetryableStatusCodes: retryableStatuses,
			BackoffBase:          primaryBackoffBase,
			BackoffCap:           primaryBackoffCap,
		},
		{
			Name:      "old-reddit",
			Shape:     parser.ShapeJSON,
			Transform: jsonEndpoint("old.reddit.com"),
			Headers: map[string]string{
				"Accept":          "application/json",
				"Accept-Language": "en-US,en;q=0.5",
			},
			RotateUserAgent:      true,
			MaxRetries:           1,
			RetryableStatusCodes: retryableStatuses,
			BackoffBase:          fallbackBackoffBase,
			BackoffCap:           fallbackBackoffCap,
		},
		{
			Name:      "api-mirror",
			Shape:     parser.ShapeJSON,
			Transform: jsonEndpoint("api.reddit.com"),
			Headers: map[string]string{
				"User-Agent": "Mozilla/5.0 (compatible; story-fetcher/2.0)",
				"Accept":     "application/json",
			},
			MaxRetries:           1,
			RetryableStatusCodes: retryableStatuses,
			BackoffBase:          fallbackBackoffBase,
			BackoffCap:           fallbackBackoffCap,
		},
		{
			Name:      "minimal",
			Shape:     parser.ShapeJSON,
			Transform: jsonEndpoint("www.reddit.com"),
			Headers: map[string]string{
				"User-Agent": "curl/8.5.0",
			},
			MaxRetries:           0,
			RetryableStatusCodes: retryableStatuses,
			BackoffBase:          fallbackBackoffBase,
			BackoffCap:           fallbackBackoffCap,
		},
		{
			Name:      "rss",
			Shape:     parser.ShapeRSS,
			Transform: rssEndpoint("www.reddit.com"),
			Headers: map[string]string{
				"User-Agent": apiUserAgent,
				"Accept":     "application/rss+xml, application/xml",
			},
			MaxRetries:           1,
			RetryableStatusCodes: retryableStatuses,
			BackoffBase:          fallbackBackoffBase,
			BackoffCap:           fallbackBackoffCap,
		},
	}
}
