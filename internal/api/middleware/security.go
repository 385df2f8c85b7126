// Package middleware provides security middleware for the API.
package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JONGYYY/storyscrape/internal/logger"
	"github.com/JONGYYY/storyscrape/internal/metrics"
)

// BatchRequestHeader marks server-initiated (batch/automation) calls.
// Batch workloads are deliberately exempt from the interactive rate limit.
const BatchRequestHeader = "X-Batch-Request"

// Default rate limiting values.
const (
	DefaultRateLimitWindow = 10 * time.Second
	DefaultRateLimit       = 5
	cleanupInterval        = time.Minute
)

// TimeProvider is an interface for getting the current time.
type TimeProvider interface {
	Now() time.Time
}

// realTimeProvider is the default implementation of TimeProvider.
type realTimeProvider struct{}

func (r *realTimeProvider) Now() time.Time { return time.Now() }

// SecurityMiddleware applies security headers and per-IP rate limiting to
// interactive requests.
type SecurityMiddleware struct {
	log             logger.Interface
	metrics         *metrics.Metrics
	rateLimiter     map[string]rateLimitInfo
	mu              sync.Mutex
	timeProvider    TimeProvider
	rateLimitWindow time.Duration
	maxRequests     int
	cleanupDone     chan struct{}
}

// rateLimitInfo holds rate limiting state for one client.
type rateLimitInfo struct {
	count      int
	lastAccess time.Time
}

// NewSecurityMiddleware creates a security middleware instance.
func NewSecurityMiddleware(log logger.Interface, m *metrics.Metrics, maxRequests int, window time.Duration) *SecurityMiddleware {
	if maxRequests <= 0 {
		maxRequests = DefaultRateLimit
	}
	if window <= 0 {
		window = DefaultRateLimitWindow
	}
	if m == nil {
		m = metrics.NewMetrics()
	}

	return &SecurityMiddleware{
		log:             log.WithComponent("security"),
		metrics:         m,
		rateLimiter:     make(map[string]rateLimitInfo),
		timeProvider:    &realTimeProvider{},
		rateLimitWindow: window,
		maxRequests:     maxRequests,
		cleanupDone:     make(chan struct{}),
	}
}

// SetTimeProvider sets a custom time provider for testing.
func (m *SecurityMiddleware) SetTimeProvider(provider TimeProvider) {
	m.timeProvider = provider
}

// Middleware returns the gin handler applying headers and rate limiting.
func (m *SecurityMiddleware) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		m.addSecurityHeaders(c)

		// Server-initiated calls bypass the interactive rate limit.
		if c.GetHeader(BatchRequestHeader) == "true" {
			c.Next()
			return
		}

		if !m.checkRateLimit(c.ClientIP()) {
			m.metrics.RecordRateLimited()
			m.log.Warn("rate limit exceeded", "client_ip", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too many requests, slow down",
			})
			return
		}

		c.Next()
	}
}

// checkRateLimit reports whether the client is within its window budget.
func (m *SecurityMiddleware) checkRateLimit(clientIP string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.timeProvider.Now()
	info, exists := m.rateLimiter[clientIP]

	if !exists || now.Sub(info.lastAccess) > m.rateLimitWindow {
		m.rateLimiter[clientIP] = rateLimitInfo{count: 1, lastAccess: now}
		return true
	}

	if info.count >= m.maxRequests {
		return false
	}

	info.count++
	info.lastAccess = now
	m.rateLimiter[clientIP] = info

	return true
}

// addSecurityHeaders adds standard security headers to the response.
func (m *SecurityMiddleware) addSecurityHeaders(c *gin.Context) {
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("X-Frame-Options", "DENY")
	c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
}

// Cleanup periodically removes expired rate limit entries until ctx ends.
func (m *SecurityMiddleware) Cleanup(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	defer close(m.cleanupDone)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.removeExpired()
		}
	}
}

// WaitCleanup blocks until the cleanup goroutine has stopped.
func (m *SecurityMiddleware) WaitCleanup() {
	<-m.cleanupDone
}

// removeExpired drops entries whose window has lapsed.
func (m *SecurityMiddleware) removeExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.timeProvider.Now()
	for ip, info := range m.rateLimiter {
		if now.Sub(info.lastAccess) > m.rateLimitWindow {
			delete(m.rateLimiter, ip)
		}
	}
}
