package reddit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JONGYYY/storyscrape/internal/logger"
	"github.com/JONGYYY/storyscrape/internal/parser"
)

func TestExecutorSkipsAuthStrategyWithoutToken(t *testing.T) {
	t.Parallel()

	e := NewExecutor(&http.Client{}, logger.NewNoop(), 0)
	strategy := &FetchStrategy{
		Name:         "oauth",
		RequiresAuth: true,
		Transform:    func(s string) string { return s },
	}

	_, fetchErr := e.Attempt(context.Background(), strategy, canonicalTestURL, nil)
	if fetchErr == nil || fetchErr.Class != ClassSkipped {
		t.Fatalf("expected skipped outcome, got %v", fetchErr)
	}
}

func TestExecutorAppliesHeaderProfile(t *testing.T) {
	t.Parallel()

	var gotHeaders http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("payload"))
	}))
	t.Cleanup(srv.Close)

	strategy := &FetchStrategy{
		Name:      "headers",
		Shape:     parser.ShapeJSON,
		Transform: func(string) string { return srv.URL },
		Headers: map[string]string{
			"User-Agent":      "profile-agent/1.0",
			"Accept":          "application/json",
			"Accept-Language": "en-US,en;q=0.9",
		},
	}

	e := NewExecutor(srv.Client(), logger.NewNoop(), 0)

	payload, fetchErr := e.Attempt(context.Background(), strategy, canonicalTestURL, nil)
	if fetchErr != nil {
		t.Fatalf("unexpected error: %v", fetchErr)
	}
	if payload != "payload" {
		t.Errorf("payload = %q", payload)
	}

	if got := gotHeaders.Get("User-Agent"); got != "profile-agent/1.0" {
		t.Errorf("User-Agent = %q", got)
	}
	if got := gotHeaders.Get("Accept-Language"); got != "en-US,en;q=0.9" {
		t.Errorf("Accept-Language = %q", got)
	}
}

func TestExecutorRotatesUserAgent(t *testing.T) {
	t.Parallel()

	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.UserAgent()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	strategy := &FetchStrategy{
		Name:            "rotating",
		Transform:       func(string) string { return srv.URL },
		Headers:         map[string]string{"Accept": "application/json"},
		RotateUserAgent: true,
	}

	e := NewExecutor(srv.Client(), logger.NewNoop(), 0)

	if _, fetchErr := e.Attempt(context.Background(), strategy, canonicalTestURL, nil); fetchErr != nil {
		t.Fatalf("unexpected error: %v", fetchErr)
	}

	found := false
	for _, ua := range desktopUserAgents {
		if gotUA == ua {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("User-Agent %q is not from the desktop rotation set", gotUA)
	}
}

func TestExecutorClassifiesStatuses(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	strategy := &FetchStrategy{
		Name:                 "limited",
		Transform:            func(string) string { return srv.URL },
		Headers:              map[string]string{},
		RetryableStatusCodes: map[int]bool{429: true},
	}

	e := NewExecutor(srv.Client(), logger.NewNoop(), 0)

	_, fetchErr := e.Attempt(context.Background(), strategy, canonicalTestURL, nil)
	if fetchErr == nil {
		t.Fatal("expected error")
	}
	if fetchErr.Class != ClassTransient || fetchErr.StatusCode != 429 {
		t.Errorf("got class=%s status=%d, want transient 429", fetchErr.Class, fetchErr.StatusCode)
	}
}
