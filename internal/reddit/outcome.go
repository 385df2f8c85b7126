package reddit

import (
	"context"
	"errors"
	"fmt"
)

// FailureClass classifies a single fetch attempt's failure so the
// orchestrator can decide between retry, advance, and abort without
// inspecting error strings.
type FailureClass string

const (
	// ClassTransient is a retryable upstream condition (rate limit,
	// temporary unavailability) per the strategy's retryable status set.
	ClassTransient FailureClass = "transient"
	// ClassPermanent is a non-retryable HTTP failure; the strategy is
	// abandoned immediately.
	ClassPermanent FailureClass = "permanent"
	// ClassNetwork is a connection-level failure (DNS, reset, TLS).
	ClassNetwork FailureClass = "network"
	// ClassAborted means the shared deadline expired or the caller
	// cancelled; the whole orchestration stops in place.
	ClassAborted FailureClass = "aborted"
	// ClassSkipped means the strategy requires auth and no token was
	// available. Not counted against any retry budget.
	ClassSkipped FailureClass = "skipped"
)

// FetchError is the classified outcome of one failed fetch attempt.
type FetchError struct {
	Class      FailureClass
	StatusCode int
	Strategy   string
	URL        string
	Cause      error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s via %s: HTTP %d", e.Class, e.Strategy, e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("fetch %s via %s: %s", e.Class, e.Strategy, e.Cause)
	}
	return fmt.Sprintf("fetch %s via %s", e.Class, e.Strategy)
}

func (e *FetchError) Unwrap() error { return e.Cause }

// Retryable reports whether the same strategy may be attempted again.
func (e *FetchError) Retryable() bool { return e.Class == ClassTransient }

// classifyStatus builds a FetchError from a non-2xx HTTP status using the
// strategy's retryable status set.
func classifyStatus(statusCode int, strategy *FetchStrategy, target string) *FetchError {
	class := ClassPermanent
	if strategy.RetryableStatusCodes[statusCode] {
		class = ClassTransient
	}

	return &FetchError{
		Class:      class,
		StatusCode: statusCode,
		Strategy:   strategy.Name,
		URL:        target,
		Cause:      fmt.Errorf("HTTP %d", statusCode),
	}
}

// classifyNetworkError builds a FetchError from a transport-level failure.
// Context expiry is distinguished so the orchestrator stops instead of
// cascading into further strategies past the deadline.
func classifyNetworkError(ctx context.Context, cause error, strategy *FetchStrategy, target string) *FetchError {
	class := ClassNetwork
	if ctx.Err() != nil || errors.Is(cause, context.DeadlineExceeded) || errors.Is(cause, context.Canceled) {
		class = ClassAborted
	}

	return &FetchError{
		Class:    class,
		Strategy: strategy.Name,
		URL:      target,
		Cause:    cause,
	}
}
