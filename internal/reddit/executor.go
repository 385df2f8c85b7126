package reddit

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/JONGYYY/storyscrape/internal/logger"
)

// Executor performs exactly one retrieval attempt for one strategy. The
// caller owns retries, fallback ordering, and the shared deadline; the
// executor only builds the request, runs it under ctx, and classifies the
// outcome.
type Executor struct {
	client   *http.Client
	log      logger.Interface
	maxBytes int64
}

// NewExecutor creates an executor. The http.Client must not set its own
// timeout; the orchestration deadline arrives via ctx.
func NewExecutor(client *http.Client, log logger.Interface, maxBytes int64) *Executor {
	if client == nil {
		client = &http.Client{}
	}
	if maxBytes <= 0 {
		maxBytes = 10 * 1024 * 1024
	}

	return &Executor{
		client:   client,
		log:      log.WithComponent("executor"),
		maxBytes: maxBytes,
	}
}

// Attempt fetches the resource once via the given strategy. A nil
// FetchError means success and the raw payload is returned. A strategy
// that requires auth with no token returns a ClassSkipped outcome without
// touching the network.
func (e *Executor) Attempt(ctx context.Context, strategy *FetchStrategy, canonicalURL string, token *Token) (string, *FetchError) {
	if strategy.RequiresAuth && token == nil {
		return "", &FetchError{Class: ClassSkipped, Strategy: strategy.Name}
	}

	target := strategy.Transform(canonicalURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return "", &FetchError{
			Class:    ClassNetwork,
			Strategy: strategy.Name,
			URL:      target,
			Cause:    fmt.Errorf("build request: %w", err),
		}
	}

	for name, value := range strategy.Headers {
		req.Header.Set(name, value)
	}
	if strategy.RotateUserAgent {
		req.Header.Set("User-Agent", randomDesktopUserAgent())
	}
	if strategy.RequiresAuth {
		req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	}

	resp, doErr := e.client.Do(req)
	if doErr != nil {
		return "", classifyNetworkError(ctx, doErr, strategy, target)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, e.maxBytes))
		return "", classifyStatus(resp.StatusCode, strategy, target)
	}

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, e.maxBytes))
	if readErr != nil {
		return "", classifyNetworkError(ctx, fmt.Errorf("read body: %w", readErr), strategy, target)
	}

	return string(body), nil
}
