// Package controller holds the view state machine that sits between user
// actions and the fetch client: it decides when to hit the network, derives
// the peer display list, and transitions between the idle, loading,
// results, error and detail phases.
package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"tickervalue/internal/api"
)

// emptyTickerMessage is shown verbatim when the user submits a blank search.
const emptyTickerMessage = "Please enter a stock ticker"

// ErrEmptyTicker is returned by Submit for a blank or whitespace-only
// ticker. Detected locally; the network is never touched.
var ErrEmptyTicker = errors.New("empty ticker")

// Phase is the controller's current display phase
type Phase string

const (
	// PhaseIdle is the initial phase, before any search
	PhaseIdle Phase = "idle"
	// PhaseLoading means a fetch is in flight
	PhaseLoading Phase = "loading"
	// PhaseResults means a search completed and results are displayed
	PhaseResults Phase = "results"
	// PhaseError means the last action failed and an error banner is shown
	PhaseError Phase = "error"
	// PhaseDetail means a single company's detail view is displayed
	PhaseDetail Phase = "detail"
)

// ViewState is the renderable snapshot of the controller. The presentation
// layer reads it and draws; it never mutates it.
type ViewState struct {
	Phase            Phase
	QueryTicker      string
	Loading          bool
	ErrorMessage     string
	HasSearched      bool
	Current          *api.ValuationResult
	SimilarCompanies []string
	Selected         *api.ValuationResult
	Sentiment        *api.SentimentResult
	SentimentLoading bool
	SentimentError   string
}

// Source is the data dependency of the controller. *api.Client satisfies
// it; tests substitute a mock.
type Source interface {
	Valuation(ctx context.Context, symbol string) (*api.ValuationResult, error)
	Sentiment(ctx context.Context, symbol string) (*api.SentimentResult, error)
	Cached(symbol string) (*api.ValuationResult, bool)
}

// Controller owns the view state for one session. Methods are safe for
// concurrent use; when two fetches for the same field are in flight, each
// carries the sequence number it was issued with and a completion is
// applied only if it is still the latest, so a slow stale response can
// never overwrite a newer one.
type Controller struct {
	src       Source
	peerLimit int

	mu           sync.Mutex
	state        ViewState
	searchSeq    uint64
	detailSeq    uint64
	sentimentSeq uint64

	// last symbol a sentiment fetch was attempted for, so Retry can re-issue it
	sentimentSymbol string
}

// New creates a controller in the idle phase. peerLimit caps the similar-
// companies list derived from each valuation.
func New(src Source, peerLimit int) *Controller {
	return &Controller{
		src:       src,
		peerLimit: peerLimit,
		state:     ViewState{Phase: PhaseIdle},
	}
}

// Snapshot returns a copy of the current view state.
func (c *Controller) Snapshot() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.state
	st.SimilarCompanies = append([]string(nil), c.state.SimilarCompanies...)
	return st
}

// Submit runs a search for ticker. A blank ticker short-circuits into the
// error phase without touching the network. Otherwise prior results and
// errors are cleared before the fetch starts, so stale data is never shown
// alongside a spinner or a failure.
func (c *Controller) Submit(ctx context.Context, ticker string) error {
	trimmed := strings.TrimSpace(ticker)

	c.mu.Lock()
	if trimmed == "" {
		c.state.ErrorMessage = emptyTickerMessage
		c.state.Current = nil
		c.state.SimilarCompanies = nil
		c.state.Loading = false
		c.state.Phase = PhaseError
		c.mu.Unlock()
		return ErrEmptyTicker
	}

	c.searchSeq++
	seq := c.searchSeq
	c.state.QueryTicker = trimmed
	c.state.HasSearched = true
	c.state.ErrorMessage = ""
	c.state.Current = nil
	c.state.SimilarCompanies = nil
	c.state.Loading = true
	c.state.Phase = PhaseLoading
	c.mu.Unlock()

	result, err := c.src.Valuation(ctx, trimmed)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.searchSeq {
		// A newer search was issued while this one was in flight; drop it.
		return nil
	}

	c.state.Loading = false
	if err != nil {
		c.state.ErrorMessage = invalidTickerMessage(trimmed)
		c.state.Current = nil
		c.state.SimilarCompanies = nil
		c.state.Phase = PhaseError
		return err
	}

	c.state.Current = result
	c.state.SimilarCompanies = result.PeerTickers.Normalize(result.Ticker, c.peerLimit)
	c.state.Phase = PhaseResults
	return nil
}

// SelectStock navigates to the detail view for symbol. A cached symbol
// resolves synchronously with no loading flicker; anything else goes
// through a normal fetch.
func (c *Controller) SelectStock(ctx context.Context, symbol string) error {
	if result, found := c.src.Cached(symbol); found {
		c.mu.Lock()
		// A synchronous cached selection supersedes any detail fetch still
		// in flight; bumping the sequence invalidates its completion.
		c.detailSeq++
		c.state.Selected = result
		c.state.ErrorMessage = ""
		c.state.Loading = false
		c.state.Phase = PhaseDetail
		c.mu.Unlock()
		return nil
	}

	c.mu.Lock()
	c.detailSeq++
	seq := c.detailSeq
	c.state.ErrorMessage = ""
	c.state.Loading = true
	c.state.Phase = PhaseLoading
	c.mu.Unlock()

	result, err := c.src.Valuation(ctx, symbol)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.detailSeq {
		return nil
	}

	c.state.Loading = false
	if err != nil {
		c.state.ErrorMessage = invalidTickerMessage(symbol)
		c.state.Phase = PhaseError
		return err
	}

	c.state.Selected = result
	c.state.Phase = PhaseDetail
	return nil
}

// GoBack leaves the detail view and returns to the results of the prior
// search, or to the idle landing view when there are none.
func (c *Controller) GoBack() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Selected = nil
	c.state.Sentiment = nil
	c.state.SentimentError = ""
	c.state.SentimentLoading = false
	c.state.ErrorMessage = ""
	c.state.Loading = false

	if c.state.HasSearched && c.state.Current != nil {
		c.state.Phase = PhaseResults
	} else {
		c.state.Phase = PhaseIdle
	}
}

// LoadSentiment fetches the sentiment payload for symbol. Sentiment errors
// live in their own field so a failed sentiment fetch never disturbs a
// successfully displayed valuation; the view offers a retry for them.
func (c *Controller) LoadSentiment(ctx context.Context, symbol string) error {
	c.mu.Lock()
	c.sentimentSeq++
	seq := c.sentimentSeq
	c.sentimentSymbol = symbol
	c.state.Sentiment = nil
	c.state.SentimentError = ""
	c.state.SentimentLoading = true
	c.mu.Unlock()

	result, err := c.src.Sentiment(ctx, symbol)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.sentimentSeq {
		return nil
	}

	c.state.SentimentLoading = false
	if err != nil {
		c.state.SentimentError = fmt.Sprintf("Could not load sentiment for %s.", strings.ToUpper(strings.TrimSpace(symbol)))
		return err
	}

	c.state.Sentiment = result
	return nil
}

// RetrySentiment re-issues the last sentiment fetch. No-op if none was made.
func (c *Controller) RetrySentiment(ctx context.Context) error {
	c.mu.Lock()
	symbol := c.sentimentSymbol
	c.mu.Unlock()

	if symbol == "" {
		return nil
	}
	return c.LoadSentiment(ctx, symbol)
}

func invalidTickerMessage(symbol string) string {
	return fmt.Sprintf("No valuation found for %s. Please check if the ticker is valid.", strings.ToUpper(strings.TrimSpace(symbol)))
}
