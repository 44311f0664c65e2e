package coingecko_common

import "net/http"

// Request statuses reported to IHttpStatusHandler
const (
	StatusSuccess     = "success"
	StatusError       = "error"
	StatusRateLimited = "rate_limited"
	StatusNotFound    = "not_found"
)

// IHttpStatusHandler is an interface for handling HTTP request statuses
type IHttpStatusHandler interface {
	// OnRequest handles a request with its status result
	OnRequest(status string)
}

// statusLabel maps an HTTP status code to the status reported to the handler
func statusLabel(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return StatusSuccess
	case statusCode == http.StatusTooManyRequests:
		return StatusRateLimited
	case statusCode == http.StatusNotFound:
		return StatusNotFound
	default:
		return StatusError
	}
}
