package api

import (
	"fmt"
)

// ErrorType represents the category of failure for a fetch against the
// valuation API.
type ErrorType string

const (
	// ErrorTypeNetwork indicates a transport-level error (connection refused,
	// DNS, timeout) or a body that could not be read.
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeStatus indicates the API answered with a non-2xx status.
	// The response body is discarded even if it contained a payload.
	ErrorTypeStatus ErrorType = "status"
	// ErrorTypeDecode indicates a 2xx response whose body could not be
	// decoded into the expected envelope.
	ErrorTypeDecode ErrorType = "decode"
)

// FetchError is the structured error returned by every Client call.
// Endpoint is the API path segment ("value", "sentiment", "basic", "peers")
// so callers can surface sentiment failures independently of valuation ones.
type FetchError struct {
	Type       ErrorType
	Endpoint   string
	Symbol     string
	StatusCode int
	Cause      error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s fetch for %s failed: %s error (status %d)", e.Endpoint, e.Symbol, e.Type, e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s fetch for %s failed: %s error: %v", e.Endpoint, e.Symbol, e.Type, e.Cause)
	}
	return fmt.Sprintf("%s fetch for %s failed: %s error", e.Endpoint, e.Symbol, e.Type)
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// NewNetworkError creates a network error
func NewNetworkError(endpoint, symbol string, cause error) *FetchError {
	return &FetchError{
		Type:     ErrorTypeNetwork,
		Endpoint: endpoint,
		Symbol:   symbol,
		Cause:    cause,
	}
}

// NewStatusError creates an error for a non-2xx response
func NewStatusError(endpoint, symbol string, statusCode int) *FetchError {
	return &FetchError{
		Type:       ErrorTypeStatus,
		Endpoint:   endpoint,
		Symbol:     symbol,
		StatusCode: statusCode,
	}
}

// NewDecodeError creates an error for an unusable response body
func NewDecodeError(endpoint, symbol string, cause error) *FetchError {
	return &FetchError{
		Type:     ErrorTypeDecode,
		Endpoint: endpoint,
		Symbol:   symbol,
		Cause:    cause,
	}
}

// IsSentiment reports whether the error came from the sentiment endpoint.
// Sentiment failures get their own retry affordance in the view and must
// not clobber a successfully displayed valuation.
func (e *FetchError) IsSentiment() bool {
	return e.Endpoint == EndpointSentiment
}
