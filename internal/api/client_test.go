package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"tickervalue/internal/cache"
)

const valuationBody = `{
	"result": {
		"ticker": "TSLA",
		"current_price": 250.0,
		"calculated_value_price": 260.0,
		"price_difference": 10.0,
		"price_difference_percent": 4.0,
		"valuation_method": "DCF",
		"peer_tickers": "['TSLA','FORD','GM']",
		"peer_count": 3,
		"target_metrics": {
			"full_name": "Tesla, Inc.",
			"pe_ratio": 70.2,
			"profit_margin": 0.15,
			"roe": 0.22,
			"debt_to_equity": 0.3,
			"market_cap": 800000000000
		},
		"dcf_price": {"Intrinsic Value Per Share": 260.0}
	}
}`

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := cache.New[*ValuationResult]()
	return NewClient(server.URL, 5*time.Second, store), server
}

func TestClient_Valuation_Success(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/value/TSLA" {
			t.Errorf("path = %q, want /value/TSLA", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(valuationBody))
	})

	client, _ := newTestClient(t, handler)

	result, err := client.Valuation(context.Background(), "tsla")
	if err != nil {
		t.Fatalf("Valuation() returned unexpected error: %v", err)
	}

	if result.Ticker != "TSLA" {
		t.Errorf("Ticker = %q, want TSLA", result.Ticker)
	}
	if result.CurrentPrice != 250.0 {
		t.Errorf("CurrentPrice = %v, want 250.0", result.CurrentPrice)
	}
	if len(result.PeerTickers) != 3 {
		t.Errorf("len(PeerTickers) = %d, want 3 (stringified list decoded)", len(result.PeerTickers))
	}
	if result.TargetMetrics.FullName != "Tesla, Inc." {
		t.Errorf("FullName = %q", result.TargetMetrics.FullName)
	}
}

func TestClient_Valuation_CacheIdempotence(t *testing.T) {
	var requests atomic.Int64
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(valuationBody))
	})

	client, _ := newTestClient(t, handler)
	ctx := context.Background()

	first, err := client.Valuation(ctx, "aapl")
	if err != nil {
		t.Fatalf("first Valuation() returned unexpected error: %v", err)
	}

	second, err := client.Valuation(ctx, "aapl")
	if err != nil {
		t.Fatalf("second Valuation() returned unexpected error: %v", err)
	}

	if got := requests.Load(); got != 1 {
		t.Errorf("network requests = %d, want exactly 1", got)
	}
	if first != second {
		t.Error("second call should return the identical cached result object")
	}
}

func TestClient_Valuation_CaseInsensitiveCache(t *testing.T) {
	var requests atomic.Int64
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(valuationBody))
	})

	client, _ := newTestClient(t, handler)
	ctx := context.Background()

	if _, err := client.Valuation(ctx, "aapl"); err != nil {
		t.Fatalf("Valuation(aapl) returned unexpected error: %v", err)
	}
	if _, err := client.Valuation(ctx, "AAPL"); err != nil {
		t.Fatalf("Valuation(AAPL) returned unexpected error: %v", err)
	}

	if got := requests.Load(); got != 1 {
		t.Errorf("network requests = %d, want 1 (aapl and AAPL share an entry)", got)
	}
}

func TestClient_Valuation_HTTPError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		// A body is present but must be discarded on a failure status
		w.Write([]byte(valuationBody))
	})

	client, _ := newTestClient(t, handler)

	_, err := client.Valuation(context.Background(), "XXXX")
	if err == nil {
		t.Fatal("Valuation() expected error for 404, got nil")
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error type = %T, want *FetchError", err)
	}
	if fetchErr.Type != ErrorTypeStatus {
		t.Errorf("Type = %q, want %q", fetchErr.Type, ErrorTypeStatus)
	}
	if fetchErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", fetchErr.StatusCode)
	}
	if fetchErr.Symbol != "XXXX" {
		t.Errorf("Symbol = %q, want XXXX", fetchErr.Symbol)
	}
}

func TestClient_Valuation_ErrorNotCached(t *testing.T) {
	var requests atomic.Int64
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	client, _ := newTestClient(t, handler)
	ctx := context.Background()

	if _, err := client.Valuation(ctx, "AAPL"); err == nil {
		t.Fatal("Valuation() expected error, got nil")
	}
	if _, err := client.Valuation(ctx, "AAPL"); err == nil {
		t.Fatal("Valuation() expected error, got nil")
	}

	// Failures never populate the cache, so both calls hit the network
	if got := requests.Load(); got != 2 {
		t.Errorf("network requests = %d, want 2", got)
	}
}

func TestClient_Valuation_MissingResult(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	})

	client, _ := newTestClient(t, handler)

	_, err := client.Valuation(context.Background(), "AAPL")
	if err == nil {
		t.Fatal("Valuation() expected error for missing result field, got nil")
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error type = %T, want *FetchError", err)
	}
	if fetchErr.Type != ErrorTypeDecode {
		t.Errorf("Type = %q, want %q", fetchErr.Type, ErrorTypeDecode)
	}
}

func TestClient_Valuation_MalformedJSON(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result": {`))
	})

	client, _ := newTestClient(t, handler)

	_, err := client.Valuation(context.Background(), "AAPL")
	if err == nil {
		t.Fatal("Valuation() expected error for malformed JSON, got nil")
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error type = %T, want *FetchError", err)
	}
	// A 2xx body that cannot be decoded is a decode failure, not a
	// network one
	if fetchErr.Type != ErrorTypeDecode {
		t.Errorf("Type = %q, want %q", fetchErr.Type, ErrorTypeDecode)
	}
}

func TestClient_Cached(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(valuationBody))
	})

	client, _ := newTestClient(t, handler)

	if _, found := client.Cached("TSLA"); found {
		t.Error("Cached() before any fetch should miss")
	}

	if _, err := client.Valuation(context.Background(), "TSLA"); err != nil {
		t.Fatalf("Valuation() returned unexpected error: %v", err)
	}

	if _, found := client.Cached("tsla"); !found {
		t.Error("Cached() after fetch should hit, case-insensitively")
	}
}

func TestClient_Sentiment_PlainString(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sentiment/TSLA" {
			t.Errorf("path = %q, want /sentiment/TSLA", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result": "Momentum looks strong."}`))
	})

	client, _ := newTestClient(t, handler)

	result, err := client.Sentiment(context.Background(), "tsla")
	if err != nil {
		t.Fatalf("Sentiment() returned unexpected error: %v", err)
	}
	if result.Display() != "Momentum looks strong." {
		t.Errorf("Display() = %q", result.Display())
	}
}

func TestClient_Sentiment_NeverCached(t *testing.T) {
	var requests atomic.Int64
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result": {"summary": "Neutral."}}`))
	})

	client, _ := newTestClient(t, handler)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := client.Sentiment(ctx, "AAPL"); err != nil {
			t.Fatalf("Sentiment() returned unexpected error: %v", err)
		}
	}

	if got := requests.Load(); got != 3 {
		t.Errorf("network requests = %d, want 3 (sentiment is never cached)", got)
	}
}

func TestClient_Sentiment_Error(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	client, _ := newTestClient(t, handler)

	_, err := client.Sentiment(context.Background(), "AAPL")
	if err == nil {
		t.Fatal("Sentiment() expected error, got nil")
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error type = %T, want *FetchError", err)
	}
	if !fetchErr.IsSentiment() {
		t.Error("IsSentiment() = false, want true for sentiment endpoint failure")
	}
}

func TestClient_BasicPrice(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantPrice float64
		wantOK    bool
	}{
		{"price present", `{"basic_info": {"price": 178.23}}`, 178.23, true},
		{"price absent", `{"basic_info": {}}`, 0, false},
		{"empty envelope", `{}`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/basic/AAPL" {
					t.Errorf("path = %q, want /basic/AAPL", r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			})

			client, _ := newTestClient(t, handler)

			price, ok, err := client.BasicPrice(context.Background(), "aapl")
			if err != nil {
				t.Fatalf("BasicPrice() returned unexpected error: %v", err)
			}
			if ok != tt.wantOK || price != tt.wantPrice {
				t.Errorf("BasicPrice() = (%v, %v), want (%v, %v)", price, ok, tt.wantPrice, tt.wantOK)
			}
		})
	}
}

func TestClient_Peers_BothShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"array shape", `{"peers": ["AAPL", "MSFT"]}`, 2},
		{"string shape", `{"peers": "['AAPL', 'MSFT', 'GOOG']"}`, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			})

			client, _ := newTestClient(t, handler)

			peers, err := client.Peers(context.Background(), "AAPL")
			if err != nil {
				t.Fatalf("Peers() returned unexpected error: %v", err)
			}
			if len(peers) != tt.want {
				t.Errorf("len(peers) = %d, want %d", len(peers), tt.want)
			}
		})
	}
}

func TestClient_Valuation_ContextCancellation(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	client, _ := newTestClient(t, handler)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Valuation(ctx, "AAPL")
	if err == nil {
		t.Error("Valuation() expected error for cancelled context, got nil")
	}
}
