package api

import (
	"bytes"
	"encoding/json"
)

// dcfIntrinsicKey is the line item the backend uses for the per-share DCF
// estimate inside the dcf_price breakdown.
const dcfIntrinsicKey = "Intrinsic Value Per Share"

// ValuationResult is one ticker's fetched analysis snapshot.
type ValuationResult struct {
	Ticker                 string             `json:"ticker"`
	CurrentPrice           float64            `json:"current_price"`
	CalculatedValuePrice   float64            `json:"calculated_value_price"`
	PriceDifference        float64            `json:"price_difference"`
	PriceDifferencePercent float64            `json:"price_difference_percent"`
	ValuationMethod        string             `json:"valuation_method"`
	TargetMetrics          TargetMetrics      `json:"target_metrics"`
	PeerTickers            PeerList           `json:"peer_tickers"`
	PeerCount              int                `json:"peer_count"`
	DCFPrice               map[string]float64 `json:"dcf_price"`
}

// IntrinsicValuePerShare returns the DCF per-share estimate, if the backend
// included one in the dcf_price breakdown.
func (r *ValuationResult) IntrinsicValuePerShare() (float64, bool) {
	v, ok := r.DCFPrice[dcfIntrinsicKey]
	return v, ok
}

// Undervalued reports whether the calculated value sits above the market price.
func (r *ValuationResult) Undervalued() bool {
	return r.CalculatedValuePrice > r.CurrentPrice
}

// TargetMetrics is the financial profile of the queried company. Absent
// metrics arrive as JSON null or are omitted entirely, hence the pointers.
type TargetMetrics struct {
	FullName     string   `json:"full_name"`
	PERatio      *float64 `json:"pe_ratio"`
	ProfitMargin *float64 `json:"profit_margin"`
	ROE          *float64 `json:"roe"`
	DebtToEquity *float64 `json:"debt_to_equity"`
	MarketCap    *float64 `json:"market_cap"`
}

// ProfitMarginPercent returns the profit margin scaled to a percentage.
// The backend is inconsistent about units: the value may arrive as a
// fraction (0.24) or already scaled (24.0). Values above 1 are assumed to
// be percentages already.
func (m TargetMetrics) ProfitMarginPercent() (float64, bool) {
	return asPercent(m.ProfitMargin)
}

// ROEPercent returns return-on-equity scaled to a percentage, with the same
// unit disambiguation as ProfitMarginPercent.
func (m TargetMetrics) ROEPercent() (float64, bool) {
	return asPercent(m.ROE)
}

func asPercent(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	if *v > 1 {
		return *v, true
	}
	return *v * 100, true
}

// SentimentResult is the sentiment payload for one ticker. The backend
// returns either a bare string or a structured record; a bare string is
// captured in Text and the structured fields stay zero.
type SentimentResult struct {
	Text             string   `json:"-"`
	Analysis         string   `json:"analysis"`
	Summary          string   `json:"summary"`
	OverallSentiment string   `json:"overall_sentiment"`
	Confidence       float64  `json:"confidence"`
	KeyFactors       []string `json:"key_factors"`
}

// UnmarshalJSON accepts both payload shapes.
func (s *SentimentResult) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		return json.Unmarshal(trimmed, &s.Text)
	}

	type structured SentimentResult
	var rec structured
	if err := json.Unmarshal(trimmed, &rec); err != nil {
		return err
	}
	*s = SentimentResult(rec)
	return nil
}

// Display returns the best available human-readable sentiment text.
func (s *SentimentResult) Display() string {
	switch {
	case s.Text != "":
		return s.Text
	case s.Summary != "":
		return s.Summary
	default:
		return s.Analysis
	}
}
