// Package worker runs batch scans with bounded concurrency and
// per-host rate limiting.
package worker

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// HostLimiter throttles outbound requests per target host so a batch
// never hammers a single site, whatever the overall concurrency.
type HostLimiter struct {
	mu    sync.Mutex
	hosts map[string]*rate.Limiter
	rps   rate.Limit
	burst int
}

// NewHostLimiter creates a limiter applying requestsPerSecond with the
// given burst to each distinct host.
func NewHostLimiter(requestsPerSecond float64, burst int) *HostLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &HostLimiter{
		hosts: make(map[string]*rate.Limiter),
		rps:   rate.Limit(requestsPerSecond),
		burst: burst,
	}
}

// Wait blocks until the host of rawURL has capacity or ctx is cancelled
func (l *HostLimiter) Wait(ctx context.Context, rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse URL: %w", err)
	}
	return l.forHost(parsed.Host).Wait(ctx)
}

// Allow reports whether a request to the host of rawURL may proceed
// immediately.
func (l *HostLimiter) Allow(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return l.forHost(parsed.Host).Allow()
}

func (l *HostLimiter) forHost(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.hosts[host]
	if !ok {
		limiter = rate.NewLimiter(l.rps, l.burst)
		l.hosts[host] = limiter
	}
	return limiter
}
