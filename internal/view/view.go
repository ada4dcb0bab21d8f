// Package view renders the three client surfaces (landing/search, detail,
// about) as terminal output from a controller snapshot.
package view

import (
	"fmt"
	"io"
	"strings"

	"tickervalue/internal/api"
	"tickervalue/internal/cache"
	"tickervalue/internal/controller"
)

// Colors for terminal output
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
	ColorBold   = "\033[1m"
)

// Renderer writes views to w, optionally with ANSI colors.
type Renderer struct {
	w      io.Writer
	colors bool
}

// New creates a Renderer writing to w.
func New(w io.Writer, colors bool) *Renderer {
	return &Renderer{w: w, colors: colors}
}

func (r *Renderer) paint(color, s string) string {
	if !r.colors {
		return s
	}
	return color + s + ColorReset
}

// Landing renders the price tiles and the search prompt. Symbols whose
// price is missing from the map render as a blank tile.
func (r *Renderer) Landing(symbols []string, prices map[string]float64) {
	fmt.Fprintln(r.w, r.paint(ColorBold+ColorCyan, "Today's Market"))
	fmt.Fprintln(r.w, strings.Repeat("-", 40))

	for _, symbol := range symbols {
		if price, ok := prices[cache.Key(symbol)]; ok {
			fmt.Fprintf(r.w, "  %-8s $%.2f\n", symbol, price)
		} else {
			fmt.Fprintf(r.w, "  %-8s %s\n", symbol, r.paint(ColorYellow, "--"))
		}
	}

	fmt.Fprintln(r.w, strings.Repeat("-", 40))
	fmt.Fprintln(r.w, "Enter a stock ticker to value it.")
}

// State renders whatever the controller's current phase calls for.
func (r *Renderer) State(st controller.ViewState) {
	switch st.Phase {
	case controller.PhaseLoading:
		fmt.Fprintln(r.w, "Loading...")
	case controller.PhaseError:
		fmt.Fprintln(r.w, r.paint(ColorRed, st.ErrorMessage))
	case controller.PhaseResults:
		r.results(st)
	case controller.PhaseDetail:
		r.detail(st)
	default:
		fmt.Fprintln(r.w, "Search for a ticker to get started.")
	}
}

// results renders the summary view after a successful search.
func (r *Renderer) results(st controller.ViewState) {
	if st.Current == nil {
		fmt.Fprintln(r.w, "No results yet. Search for a ticker to get started.")
		return
	}
	r.valuation(st.Current)

	if len(st.SimilarCompanies) > 0 {
		fmt.Fprintf(r.w, "\nSimilar companies: %s\n", strings.Join(st.SimilarCompanies, ", "))
	}
}

// detail renders the per-company detail view, including sentiment when
// available.
func (r *Renderer) detail(st controller.ViewState) {
	if st.Selected == nil {
		return
	}
	r.valuation(st.Selected)

	switch {
	case st.SentimentLoading:
		fmt.Fprintln(r.w, "\nSentiment: loading...")
	case st.SentimentError != "":
		fmt.Fprintf(r.w, "\n%s Type 'retry' to try again.\n", r.paint(ColorRed, st.SentimentError))
	case st.Sentiment != nil:
		r.sentiment(st.Sentiment)
	}
}

func (r *Renderer) valuation(result *api.ValuationResult) {
	title := fmt.Sprintf("%s  (%s)", result.Ticker, result.TargetMetrics.FullName)
	fmt.Fprintln(r.w, r.paint(ColorBold, title))
	fmt.Fprintln(r.w, strings.Repeat("=", 40))

	fmt.Fprintf(r.w, "  Current price:     $%.2f\n", result.CurrentPrice)
	fmt.Fprintf(r.w, "  Calculated value:  $%.2f\n", result.CalculatedValuePrice)

	diff := fmt.Sprintf("%+.2f (%+.1f%%)", result.PriceDifference, result.PriceDifferencePercent)
	if result.Undervalued() {
		fmt.Fprintf(r.w, "  Difference:        %s\n", r.paint(ColorGreen, diff))
	} else {
		fmt.Fprintf(r.w, "  Difference:        %s\n", r.paint(ColorRed, diff))
	}

	if result.ValuationMethod != "" {
		fmt.Fprintf(r.w, "  Method:            %s\n", result.ValuationMethod)
	}
	if intrinsic, ok := result.IntrinsicValuePerShare(); ok {
		fmt.Fprintf(r.w, "  DCF intrinsic:     $%.2f\n", intrinsic)
	}

	r.metrics(result.TargetMetrics)
}

func (r *Renderer) metrics(m api.TargetMetrics) {
	if m.PERatio != nil {
		fmt.Fprintf(r.w, "  P/E ratio:         %.2f\n", *m.PERatio)
	}
	if pct, ok := m.ProfitMarginPercent(); ok {
		fmt.Fprintf(r.w, "  Profit margin:     %.1f%%\n", pct)
	}
	if pct, ok := m.ROEPercent(); ok {
		fmt.Fprintf(r.w, "  Return on equity:  %.1f%%\n", pct)
	}
	if m.DebtToEquity != nil {
		fmt.Fprintf(r.w, "  Debt to equity:    %.2f\n", *m.DebtToEquity)
	}
	if m.MarketCap != nil {
		fmt.Fprintf(r.w, "  Market cap:        %s\n", formatMarketCap(*m.MarketCap))
	}
}

func (r *Renderer) sentiment(s *api.SentimentResult) {
	fmt.Fprintln(r.w, "\nSentiment")
	fmt.Fprintln(r.w, strings.Repeat("-", 40))

	if s.OverallSentiment != "" {
		fmt.Fprintf(r.w, "  Overall: %s", s.OverallSentiment)
		if s.Confidence > 0 {
			fmt.Fprintf(r.w, " (confidence %.0f%%)", s.Confidence*100)
		}
		fmt.Fprintln(r.w)
	}
	if text := s.Display(); text != "" {
		fmt.Fprintf(r.w, "  %s\n", text)
	}
	for _, factor := range s.KeyFactors {
		fmt.Fprintf(r.w, "  * %s\n", factor)
	}
}

// Usage renders a one-line usage hint for a malformed command.
func (r *Renderer) Usage(hint string) {
	fmt.Fprintf(r.w, "Usage: %s\n", hint)
}

// About renders the static informational page.
func (r *Renderer) About() {
	fmt.Fprintln(r.w, r.paint(ColorBold, "About"))
	fmt.Fprintln(r.w, strings.Repeat("-", 40))
	fmt.Fprintln(r.w, "This client values a stock against a discounted-cash-flow")
	fmt.Fprintln(r.w, "estimate and peer comparison fetched from the valuation API.")
	fmt.Fprintln(r.w, "Valuations are cached for the session; sentiment is fetched")
	fmt.Fprintln(r.w, "fresh on every view.")
}

// formatMarketCap renders a market cap with a T/B/M suffix.
func formatMarketCap(v float64) string {
	switch {
	case v >= 1e12:
		return fmt.Sprintf("$%.2fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}
