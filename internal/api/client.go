// Package api implements the client for the stock valuation HTTP API: one
// resty transport, envelope unwrapping for each endpoint, typed fetch
// errors, and the session valuation cache in front of the value endpoint.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"resty.dev/v3"

	"tickervalue/internal/cache"
)

// Endpoint path segments of the valuation API.
const (
	EndpointValue     = "value"
	EndpointSentiment = "sentiment"
	EndpointBasic     = "basic"
	EndpointPeers     = "peers"
)

// Response envelopes. Every endpoint wraps its payload in an outer object.
type valuationEnvelope struct {
	Result *ValuationResult `json:"result"`
}

type sentimentEnvelope struct {
	Result *SentimentResult `json:"result"`
}

type peersEnvelope struct {
	Peers PeerList `json:"peers"`
}

type basicEnvelope struct {
	BasicInfo struct {
		Price *float64 `json:"price"`
	} `json:"basic_info"`
}

// Client fetches ticker data from the valuation API. Valuation results are
// memoized in the injected store for the lifetime of the session; sentiment
// and basic-price lookups always hit the network.
type Client struct {
	http  *resty.Client
	store *cache.Store[*ValuationResult]
}

// NewClient creates a client against baseURL, memoizing valuations in store.
func NewClient(baseURL string, timeout time.Duration, store *cache.Store[*ValuationResult]) *Client {
	return &Client{
		http:  NewHTTPClient(baseURL, timeout),
		store: store,
	}
}

// classifyError maps a failed request execution to the right error
// category. resty surfaces a 2xx body that failed to unmarshal through the
// returned error with the response status intact, so those are decode
// failures; anything without a successful status behind it is a network
// failure.
func classifyError(endpoint, symbol string, resp *resty.Response, err error) *FetchError {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return NewDecodeError(endpoint, symbol, err)
	}
	if resp != nil && resp.IsSuccess() {
		return NewDecodeError(endpoint, symbol, err)
	}
	return NewNetworkError(endpoint, symbol, err)
}

// Valuation returns the valuation snapshot for symbol. On a cache hit the
// result is returned synchronously with no network activity; a cached
// symbol is never refreshed for the rest of the session. On a miss the
// /value endpoint is fetched and the cache is populated on success only.
func (c *Client) Valuation(ctx context.Context, symbol string) (*ValuationResult, error) {
	upper := cache.Key(symbol)

	if result, found := c.store.Get(upper); found {
		slog.Debug("valuation cache hit", "symbol", upper)
		return result, nil
	}

	var env valuationEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&env).
		Get(fmt.Sprintf("/%s/%s", EndpointValue, upper))

	if err != nil {
		return nil, classifyError(EndpointValue, upper, resp, err)
	}
	if !resp.IsSuccess() {
		return nil, NewStatusError(EndpointValue, upper, resp.StatusCode())
	}
	if env.Result == nil {
		return nil, NewDecodeError(EndpointValue, upper, fmt.Errorf("missing result field in response"))
	}

	c.store.Put(upper, env.Result)
	return env.Result, nil
}

// Cached returns the cached valuation for symbol without touching the
// network. The view controller uses this to skip the loading state when a
// peer company was already fetched earlier in the session.
func (c *Client) Cached(symbol string) (*ValuationResult, bool) {
	return c.store.Get(symbol)
}

// Sentiment fetches the sentiment payload for symbol. Never cached: every
// invocation re-fetches, which is what makes the manual retry useful.
func (c *Client) Sentiment(ctx context.Context, symbol string) (*SentimentResult, error) {
	upper := cache.Key(symbol)

	var env sentimentEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&env).
		Get(fmt.Sprintf("/%s/%s", EndpointSentiment, upper))

	if err != nil {
		return nil, classifyError(EndpointSentiment, upper, resp, err)
	}
	if !resp.IsSuccess() {
		return nil, NewStatusError(EndpointSentiment, upper, resp.StatusCode())
	}
	if env.Result == nil {
		return nil, NewDecodeError(EndpointSentiment, upper, fmt.Errorf("missing result field in response"))
	}

	return env.Result, nil
}

// BasicPrice fetches the lightweight quote used by the landing-page tiles.
// The second return reports whether the backend included a price at all; a
// tile with no price is simply left blank, not an error.
func (c *Client) BasicPrice(ctx context.Context, symbol string) (float64, bool, error) {
	upper := cache.Key(symbol)

	var env basicEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&env).
		Get(fmt.Sprintf("/%s/%s", EndpointBasic, upper))

	if err != nil {
		return 0, false, classifyError(EndpointBasic, upper, resp, err)
	}
	if !resp.IsSuccess() {
		return 0, false, NewStatusError(EndpointBasic, upper, resp.StatusCode())
	}
	if env.BasicInfo.Price == nil {
		return 0, false, nil
	}

	return *env.BasicInfo.Price, true, nil
}

// Peers fetches the standalone peer list for symbol. Legacy endpoint: newer
// backends embed the peers inside the /value payload, but the route is
// still served and still useful on its own.
func (c *Client) Peers(ctx context.Context, symbol string) (PeerList, error) {
	upper := cache.Key(symbol)

	var env peersEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&env).
		Get(fmt.Sprintf("/%s/%s", EndpointPeers, upper))

	if err != nil {
		return nil, classifyError(EndpointPeers, upper, resp, err)
	}
	if !resp.IsSuccess() {
		return nil, NewStatusError(EndpointPeers, upper, resp.StatusCode())
	}

	return env.Peers, nil
}
