package ratelimit

import (
	"net"
	"net/http"
	"sync"
	"time"

	"market-dashboard-api/internal/config"
	"market-dashboard-api/internal/logger"
)

// Limiter implements a token bucket rate limiter per client IP
type Limiter struct {
	Configuration *config.Config
	logger        *logger.Logger

	clientBuckets map[string]*tokenBucket
	bucketsMutex  sync.Mutex

	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
}

// tokenBucket tracks one client's remaining request budget
type tokenBucket struct {
	capacity     int
	tokens       int
	lastRefill   time.Time
	refillRate   int
	refillPeriod time.Duration
	mu           sync.Mutex
}

// NewLimiter creates a rate limiter and starts its bucket cleanup goroutine
func NewLimiter(configuration *config.Config, log *logger.Logger) *Limiter {
	rateLimiter := &Limiter{
		Configuration: configuration,
		logger:        log,
		clientBuckets: make(map[string]*tokenBucket),
		cleanupTicker: time.NewTicker(5 * time.Minute),
		stopCleanup:   make(chan struct{}),
	}

	go rateLimiter.cleanup()

	return rateLimiter
}

// Allow reports whether a request from the given IP may proceed
func (rateLimiter *Limiter) Allow(clientIP string) bool {
	if !rateLimiter.Configuration.RateLimitEnabled {
		return true
	}

	rateLimiter.bucketsMutex.Lock()
	bucket, bucketExists := rateLimiter.clientBuckets[clientIP]
	if !bucketExists {
		bucket = &tokenBucket{
			capacity:     rateLimiter.Configuration.RateLimitBurst,
			tokens:       rateLimiter.Configuration.RateLimitBurst,
			lastRefill:   time.Now(),
			refillRate:   rateLimiter.Configuration.RateLimitRequests,
			refillPeriod: rateLimiter.Configuration.RateLimitWindow,
		}
		rateLimiter.clientBuckets[clientIP] = bucket
	}
	rateLimiter.bucketsMutex.Unlock()

	return bucket.take()
}

// GetClientIP extracts the real client IP, honoring proxy headers
func (rateLimiter *Limiter) GetClientIP(request *http.Request) string {
	if xForwardedFor := request.Header.Get("X-Forwarded-For"); xForwardedFor != "" {
		if clientIP := net.ParseIP(xForwardedFor); clientIP != nil {
			return clientIP.String()
		}
		if host, _, err := net.SplitHostPort(xForwardedFor); err == nil {
			if clientIP := net.ParseIP(host); clientIP != nil {
				return clientIP.String()
			}
		}
	}

	if xRealIP := request.Header.Get("X-Real-IP"); xRealIP != "" {
		if clientIP := net.ParseIP(xRealIP); clientIP != nil {
			return clientIP.String()
		}
	}

	clientIP, _, parseError := net.SplitHostPort(request.RemoteAddr)
	if parseError != nil {
		return request.RemoteAddr
	}
	return clientIP
}

// cleanup periodically drops buckets idle for more than a day
func (rateLimiter *Limiter) cleanup() {
	for {
		select {
		case <-rateLimiter.cleanupTicker.C:
			rateLimiter.evictStale(time.Now())
		case <-rateLimiter.stopCleanup:
			rateLimiter.cleanupTicker.Stop()
			return
		}
	}
}

// evictStale removes buckets whose last refill is more than a day before
// currentTime
func (rateLimiter *Limiter) evictStale(currentTime time.Time) {
	rateLimiter.bucketsMutex.Lock()
	defer rateLimiter.bucketsMutex.Unlock()

	for clientIP, bucket := range rateLimiter.clientBuckets {
		bucket.mu.Lock()
		if currentTime.Sub(bucket.lastRefill) > 24*time.Hour {
			delete(rateLimiter.clientBuckets, clientIP)
		}
		bucket.mu.Unlock()
	}
}

// Stop stops the cleanup goroutine
func (rateLimiter *Limiter) Stop() {
	close(rateLimiter.stopCleanup)
}

// take consumes one token, refilling first based on elapsed time
func (bucket *tokenBucket) take() bool {
	bucket.mu.Lock()
	defer bucket.mu.Unlock()

	currentTime := time.Now()
	if currentTime.After(bucket.lastRefill) {
		timeElapsed := currentTime.Sub(bucket.lastRefill)
		tokensToAdd := int(timeElapsed.Seconds() / bucket.refillPeriod.Seconds() * float64(bucket.refillRate))
		if tokensToAdd > 0 {
			bucket.tokens = min(bucket.capacity, bucket.tokens+tokensToAdd)
			bucket.lastRefill = currentTime
		}
	}

	if bucket.tokens > 0 {
		bucket.tokens--
		return true
	}
	return false
}
