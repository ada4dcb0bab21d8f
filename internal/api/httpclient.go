package api

import (
	"log/slog"
	"time"

	"resty.dev/v3"
)

// NewHTTPClient creates the resty client shared by all endpoint calls.
// No retries: a failed data fetch is surfaced to the user immediately, and
// the only retry in the application is the user-triggered sentiment retry.
func NewHTTPClient(baseURL string, timeout time.Duration) *resty.Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		AddResponseMiddleware(logResponse)

	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return client
}

// logResponse logs every completed round trip for observability
func logResponse(c *resty.Client, r *resty.Response) error {
	slog.Debug("api response",
		"url", r.Request.URL,
		"status_code", r.StatusCode())
	return nil
}
