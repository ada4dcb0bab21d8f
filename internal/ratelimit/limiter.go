package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Endpoint identifies a valuation API endpoint for rate-limiting purposes
type Endpoint string

const (
	// EndpointValue is the full valuation endpoint
	EndpointValue Endpoint = "value"
	// EndpointSentiment is the sentiment endpoint
	EndpointSentiment Endpoint = "sentiment"
	// EndpointBasic is the lightweight price endpoint used by the landing tiles
	EndpointBasic Endpoint = "basic"
	// EndpointPeers is the legacy peers endpoint
	EndpointPeers Endpoint = "peers"
)

// Limiter manages per-endpoint rate limits. The landing-page tile fan-out
// can issue ~30 basic-price requests at once, so the basic endpoint gets a
// configurable ceiling; the interactive endpoints are driven by user actions
// and get a generous fixed limit.
type Limiter struct {
	limiters map[Endpoint]*rate.Limiter
	mu       sync.RWMutex
}

// New creates a limiter with basicRPS requests per second for the tile
// endpoint. basicRPS <= 0 means unlimited.
func New(basicRPS float64) *Limiter {
	basic := rate.Inf
	if basicRPS > 0 {
		basic = rate.Limit(basicRPS)
	}

	return &Limiter{
		limiters: map[Endpoint]*rate.Limiter{
			EndpointValue:     rate.NewLimiter(rate.Limit(4), 1),
			EndpointSentiment: rate.NewLimiter(rate.Limit(1), 1),
			EndpointPeers:     rate.NewLimiter(rate.Limit(4), 1),
			EndpointBasic:     rate.NewLimiter(basic, 1),
		},
	}
}

// NewUnlimited creates a limiter that never blocks. Used in tests so the
// tile fan-out does not slow the suite down.
func NewUnlimited() *Limiter {
	return &Limiter{
		limiters: map[Endpoint]*rate.Limiter{
			EndpointValue:     rate.NewLimiter(rate.Inf, 1),
			EndpointSentiment: rate.NewLimiter(rate.Inf, 1),
			EndpointPeers:     rate.NewLimiter(rate.Inf, 1),
			EndpointBasic:     rate.NewLimiter(rate.Inf, 1),
		},
	}
}

// Wait blocks until the limiter permits an event for the given endpoint.
// It returns an error if the context is canceled before the event can proceed.
func (l *Limiter) Wait(ctx context.Context, endpoint Endpoint) error {
	l.mu.RLock()
	limiter, exists := l.limiters[endpoint]
	l.mu.RUnlock()

	if !exists {
		// No limiter configured for this endpoint, allow the request
		return nil
	}

	return limiter.Wait(ctx)
}

// Allow reports whether an event for the given endpoint may happen now
func (l *Limiter) Allow(endpoint Endpoint) bool {
	l.mu.RLock()
	limiter, exists := l.limiters[endpoint]
	l.mu.RUnlock()

	if !exists {
		return true
	}

	return limiter.Allow()
}
