package coingecko

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/status-im/market-dashboard/apierrors"
	cg "github.com/status-im/market-dashboard/coingecko_common"
)

const (
	msgRateLimit     = "Rate limit exceeded. Please try again later."
	msgNotFound      = "Cryptocurrency data not found."
	msgInternalError = "Internal server error. Please try again later."
	msgBadGateway    = "Bad gateway. Please try again later."
	msgServerError   = "Server error. Please try again later."
	msgNetwork       = "Network error occurred. Please check your connection."
	msgUnknown       = "An error occurred"
)

// errorFromResponse classifies a non-2xx response
func errorFromResponse(resp *cg.Response) *apierrors.Error {
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return apierrors.NewAPIError(msgRateLimit, resp.StatusCode, apierrors.CodeRateLimit)
	case http.StatusNotFound:
		return apierrors.NewAPIError(msgNotFound, resp.StatusCode, apierrors.CodeNotFound)
	case http.StatusInternalServerError:
		return apierrors.NewAPIError(msgInternalError, resp.StatusCode, apierrors.CodeInternalError)
	case http.StatusBadGateway:
		return apierrors.NewAPIError(msgBadGateway, resp.StatusCode, apierrors.CodeBadGateway)
	case http.StatusServiceUnavailable:
		return apierrors.NewAPIError(msgServerError, resp.StatusCode, apierrors.CodeServerError)
	default:
		return apierrors.NewAPIError(fmt.Sprintf("API Error: %s", providerMessage(resp.Body)), resp.StatusCode, "")
	}
}

// providerMessage extracts the human readable message of an error body
func providerMessage(body []byte) string {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return msgUnknown
	}
	if parsed.Message != "" {
		return parsed.Message
	}
	if parsed.Error != "" {
		return parsed.Error
	}
	return msgUnknown
}

func isSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
