package verifier

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"postguard/internal/logging"
)

// domainLimiter tracks outbound check pressure for one domain
type domainLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
	failures int
	openedAt time.Time
}

// RateLimiter bounds outbound verification traffic per domain and opens a
// circuit after repeated failures so a misbehaving domain cannot tie up the
// pool with timeouts.
type RateLimiter struct {
	perMinute    int
	maxFailures  int
	resetTimeout time.Duration

	domains map[string]*domainLimiter
	mu      sync.Mutex
	logger  logging.Logger

	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
}

// NewRateLimiter creates a per-domain rate limiter allowing perMinute
// outbound checks per domain.
func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 60
	}

	rl := &RateLimiter{
		perMinute:     perMinute,
		maxFailures:   5,
		resetTimeout:  time.Minute,
		domains:       make(map[string]*domainLimiter),
		logger:        logging.GetGlobalLogger().WithField("component", "rate_limiter"),
		cleanupTicker: time.NewTicker(5 * time.Minute),
		stopCleanup:   make(chan struct{}),
	}

	go rl.cleanupRoutine()

	return rl
}

// Allow reports whether an outbound check against the domain may proceed
func (rl *RateLimiter) Allow(domain string) bool {
	domain = strings.ToLower(domain)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	dl := rl.domains[domain]
	if dl == nil {
		dl = &domainLimiter{
			limiter: rate.NewLimiter(rate.Limit(float64(rl.perMinute)/60.0), rl.perMinute),
		}
		rl.domains[domain] = dl
	}
	dl.lastSeen = time.Now()

	// Circuit open: refuse until the reset timeout has elapsed
	if dl.failures >= rl.maxFailures {
		if time.Since(dl.openedAt) < rl.resetTimeout {
			return false
		}
		// Half-open: let one attempt through
		dl.failures = rl.maxFailures - 1
	}

	return dl.limiter.Allow()
}

// RecordSuccess closes the circuit for a domain
func (rl *RateLimiter) RecordSuccess(domain string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if dl := rl.domains[strings.ToLower(domain)]; dl != nil {
		dl.failures = 0
	}
}

// RecordFailure counts a failed outbound check against the domain
func (rl *RateLimiter) RecordFailure(domain string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	dl := rl.domains[strings.ToLower(domain)]
	if dl == nil {
		return
	}

	dl.failures++
	if dl.failures == rl.maxFailures {
		dl.openedAt = time.Now()
		rl.logger.Warn("Circuit opened for domain", map[string]interface{}{
			"domain":   domain,
			"failures": dl.failures,
		})
	}
}

// Stop terminates the cleanup goroutine
func (rl *RateLimiter) Stop() {
	rl.cleanupTicker.Stop()
	close(rl.stopCleanup)
}

func (rl *RateLimiter) cleanupRoutine() {
	for {
		select {
		case <-rl.cleanupTicker.C:
			rl.cleanup()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanup drops limiters for domains not seen in the last hour
func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-time.Hour)
	for domain, dl := range rl.domains {
		if dl.lastSeen.Before(cutoff) {
			delete(rl.domains, domain)
		}
	}
}
