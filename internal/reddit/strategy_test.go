package reddit

import (
	"strings"
	"testing"

	"github.com/JONGYYY/storyscrape/internal/parser"
)

func TestDefaultStrategiesOrdering(t *testing.T) {
	t.Parallel()

	strategies := DefaultStrategies("test-agent/1.0")

	if len(strategies) == 0 {
		t.Fatal("no strategies configured")
	}

	if !strategies[0].RequiresAuth {
		t.Error("first strategy should be the authenticated one")
	}

	last := strategies[len(strategies)-1]
	if last.Shape != parser.ShapeRSS {
		t.Errorf("terminal fallback shape = %s, want rss", last.Shape)
	}

	seen := make(map[string]bool, len(strategies))
	for _, s := range strategies {
		if seen[s.Name] {
			t.Errorf("duplicate strategy name %q", s.Name)
		}
		seen[s.Name] = true

		if s.Transform == nil {
			t.Errorf("strategy %q has no transform", s.Name)
		}
		if s.MaxRetries < 0 {
			t.Errorf("strategy %q has negative retry budget", s.Name)
		}
		if s.BackoffBase <= 0 || s.BackoffCap < s.BackoffBase {
			t.Errorf("strategy %q has invalid backoff bounds", s.Name)
		}
		for _, code := range []int{429, 502, 503} {
			if !s.RetryableStatusCodes[code] {
				t.Errorf("strategy %q should treat %d as transient", s.Name, code)
			}
		}
	}
}

func TestDefaultStrategyTransforms(t *testing.T) {
	t.Parallel()

	canonical := "https://reddit.com/r/AITA/comments/abc123/some_title/"

	tests := []struct {
		strategy string
		want     string
	}{
		{strategy: "oauth", want: "https://oauth.reddit.com/r/AITA/comments/abc123/some_title.json"},
		{strategy: "desktop-json", want: "https://www.reddit.com/r/AITA/comments/abc123/some_title.json"},
		{strategy: "old-reddit", want: "https://old.reddit.com/r/AITA/comments/abc123/some_title.json"},
		{strategy: "api-mirror", want: "https://api.reddit.com/r/AITA/comments/abc123/some_title.json"},
		{strategy: "rss", want: "https://www.reddit.com/r/AITA/comments/abc123/some_title.rss"},
	}

	strategies := DefaultStrategies("")
	byName := make(map[string]FetchStrategy, len(strategies))
	for _, s := range strategies {
		byName[s.Name] = s
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.strategy, func(t *testing.T) {
			t.Parallel()

			s, ok := byName[tt.strategy]
			if !ok {
				t.Fatalf("strategy %q not found", tt.strategy)
			}

			if got := s.Transform(canonical); got != tt.want {
				t.Errorf("transform = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDefaultStrategiesUserAgentFallback(t *testing.T) {
	t.Parallel()

	strategies := DefaultStrategies("")
	for _, s := range strategies {
		if s.RotateUserAgent {
			continue
		}
		if ua := s.Headers["User-Agent"]; strings.TrimSpace(ua) == "" {
			t.Errorf("strategy %q has no user agent", s.Name)
		}
	}
}
