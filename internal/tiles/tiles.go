// Package tiles fetches the landing-page price tiles: one lightweight
// quote per configured symbol, all in flight at once, settled as a single
// batch so tiles that failed are simply absent from the returned map.
package tiles

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"tickervalue/internal/cache"
	"tickervalue/internal/ratelimit"
)

// PriceSource provides the lightweight quote for one symbol. The bool
// reports whether the backend included a price. *api.Client satisfies it.
type PriceSource interface {
	BasicPrice(ctx context.Context, symbol string) (float64, bool, error)
}

// result is one settled tile, funneled from the worker goroutines back to
// the collector.
type result struct {
	symbol string
	price  float64
	ok     bool
	err    error
}

// Coordinator runs the tile fan-out for a fixed symbol list
type Coordinator struct {
	src     PriceSource
	limiter *ratelimit.Limiter
	symbols []string
}

// New creates a Coordinator fetching the given symbols through src,
// throttled by limiter
func New(src PriceSource, limiter *ratelimit.Limiter, symbols []string) *Coordinator {
	return &Coordinator{
		src:     src,
		limiter: limiter,
		symbols: symbols,
	}
}

// Fetch issues one fetch per symbol concurrently and waits for all of them
// to settle before returning the price map in one batch. Symbols whose
// fetch failed or came back without a price are left out of the map; a
// partial failure never blocks the tiles that succeeded.
func (c *Coordinator) Fetch(ctx context.Context) (map[string]float64, error) {
	if len(c.symbols) == 0 {
		return nil, fmt.Errorf("no tile symbols configured")
	}

	resultChan := make(chan result, len(c.symbols))

	var wg sync.WaitGroup
	for _, symbol := range c.symbols {
		wg.Add(1)
		go func(sym string) {
			defer wg.Done()

			if err := c.limiter.Wait(ctx, ratelimit.EndpointBasic); err != nil {
				resultChan <- result{symbol: sym, err: err}
				return
			}

			price, ok, err := c.src.BasicPrice(ctx, sym)
			resultChan <- result{symbol: sym, price: price, ok: ok, err: err}
		}(symbol)
	}

	// Close the result channel when all workers are done
	go func() {
		wg.Wait()
		close(resultChan)
	}()

	prices := make(map[string]float64, len(c.symbols))
	for r := range resultChan {
		if r.err != nil {
			slog.Debug("tile fetch failed", "symbol", r.symbol, "error", r.err)
			continue
		}
		if !r.ok {
			slog.Debug("tile has no price", "symbol", r.symbol)
			continue
		}
		prices[cache.Key(r.symbol)] = r.price
	}

	return prices, nil
}

// Symbols returns the configured tile symbols in display order.
func (c *Coordinator) Symbols() []string {
	return c.symbols
}
