package testutil

import (
	"context"
	"sync/atomic"

	"tickervalue/internal/api"
)

// MockSource is a mock data source for controller and tiles tests. Each
// behavior is a settable func field; unset fields return zero values.
type MockSource struct {
	ValuationFunc  func(ctx context.Context, symbol string) (*api.ValuationResult, error)
	SentimentFunc  func(ctx context.Context, symbol string) (*api.SentimentResult, error)
	BasicPriceFunc func(ctx context.Context, symbol string) (float64, bool, error)
	CachedFunc     func(symbol string) (*api.ValuationResult, bool)

	// ValuationCalls counts Valuation invocations, for cache-bypass assertions
	ValuationCalls atomic.Int64
}

// Valuation implements controller.Source
func (m *MockSource) Valuation(ctx context.Context, symbol string) (*api.ValuationResult, error) {
	m.ValuationCalls.Add(1)
	if m.ValuationFunc != nil {
		return m.ValuationFunc(ctx, symbol)
	}
	return &api.ValuationResult{Ticker: symbol}, nil
}

// Sentiment implements controller.Source
func (m *MockSource) Sentiment(ctx context.Context, symbol string) (*api.SentimentResult, error) {
	if m.SentimentFunc != nil {
		return m.SentimentFunc(ctx, symbol)
	}
	return &api.SentimentResult{}, nil
}

// BasicPrice implements tiles.PriceSource
func (m *MockSource) BasicPrice(ctx context.Context, symbol string) (float64, bool, error) {
	if m.BasicPriceFunc != nil {
		return m.BasicPriceFunc(ctx, symbol)
	}
	return 0, false, nil
}

// Cached implements controller.Source
func (m *MockSource) Cached(symbol string) (*api.ValuationResult, bool) {
	if m.CachedFunc != nil {
		return m.CachedFunc(symbol)
	}
	return nil, false
}
