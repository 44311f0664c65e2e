package api

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/status-im/market-dashboard/apierrors"
	"github.com/status-im/market-dashboard/interfaces"
	"github.com/status-im/market-dashboard/query"
)

// errorBody is the JSON form of a failure, used both as an error response and as a warning
type errorBody struct {
	Kind       string `json:"kind"`
	Code       string `json:"code,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
	Message    string `json:"message"`
}

// dataResponse wraps cached data. Stale data comes with the error of the last failed fetch, if any.
type dataResponse struct {
	Data      interface{} `json:"data"`
	Stale     bool        `json:"stale"`
	Warning   *errorBody  `json:"warning,omitempty"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// setCacheStatusHeader sets the Cache-Status header based on cache status
func (s *Server) setCacheStatusHeader(w http.ResponseWriter, cacheStatus interfaces.CacheStatus) {
	if cacheStatus != "" {
		w.Header().Set("Cache-Status", cacheStatus.String())
	}
}

// sendJSONResponse is a common wrapper for JSON responses that sets Content-Type,
// Content-Length and ETag headers
func (s *Server) sendJSONResponse(w http.ResponseWriter, data interface{}) {
	s.sendJSONResponseWithStatus(w, http.StatusOK, data)
}

func (s *Server) sendJSONResponseWithStatus(w http.ResponseWriter, status int, data interface{}) {
	// Marshal the data to calculate content length and ETag
	responseBytes, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "Error encoding response", http.StatusInternalServerError)
		return
	}

	// Calculate ETag (MD5 hash of the response)
	hash := md5.Sum(responseBytes)
	etag := hex.EncodeToString(hash[:])

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(responseBytes)))
	w.Header().Set("ETag", "\""+etag+"\"")
	w.WriteHeader(status)

	if _, err := w.Write(responseBytes); err != nil {
		log.Warnf("Error writing response: %v", err)
	}
}

// sendResult renders the outcome of a query. Data is rendered whenever the snapshot has some,
// even when the last fetch failed; without data the error decides the status code.
func (s *Server) sendResult(w http.ResponseWriter, snap query.Snapshot, err error, render func() interface{}) {
	if err == nil {
		err = snap.Err
	}

	if !snap.HasData() {
		if err == nil {
			err = apierrors.NewNetworkError("No data available", nil)
		}
		s.setCacheStatusHeader(w, interfaces.CacheStatusFailed)
		s.sendError(w, err)
		return
	}

	response := dataResponse{
		Data:      render(),
		Stale:     err != nil || snap.Status != query.StatusFresh,
		UpdatedAt: snap.UpdatedAt,
	}
	if err != nil {
		body := toErrorBody(err)
		response.Warning = &body
	}

	s.setCacheStatusHeader(w, cacheStatus(snap, err))
	s.sendJSONResponse(w, response)
}

// sendError writes err with the status code matching its kind
func (s *Server) sendError(w http.ResponseWriter, err error) {
	s.sendJSONResponseWithStatus(w, errorStatus(err), errorResponse{Error: toErrorBody(err)})
}

func cacheStatus(snap query.Snapshot, err error) interfaces.CacheStatus {
	switch {
	case err != nil:
		return interfaces.CacheStatusFailed
	case snap.Status == query.StatusFresh:
		return interfaces.CacheStatusFresh
	default:
		return interfaces.CacheStatusStale
	}
}

// sendBadRequest rejects invalid client input
func (s *Server) sendBadRequest(w http.ResponseWriter, err error) {
	s.sendJSONResponseWithStatus(w, http.StatusBadRequest, errorResponse{Error: toErrorBody(err)})
}

// errorStatus maps a fetch failure without data to a status code
func errorStatus(err error) int {
	switch {
	case apierrors.IsRateLimit(err):
		return http.StatusTooManyRequests
	case apierrors.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, query.ErrStopped):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func toErrorBody(err error) errorBody {
	typed, ok := apierrors.As(err)
	if !ok {
		return errorBody{Kind: "unknown", Message: err.Error()}
	}
	return errorBody{
		Kind:       typed.Kind.String(),
		Code:       string(typed.Code),
		StatusCode: typed.StatusCode,
		Message:    typed.Message,
	}
}

func getParamLowercase(r *http.Request, key string) string {
	if r == nil {
		return ""
	}
	value := r.URL.Query().Get(key)
	if value != "" {
		return strings.ToLower(value)
	}
	return ""
}

// getBoolParam reads a boolean query parameter; anything unparsable is false
func getBoolParam(r *http.Request, key string) bool {
	value, err := strconv.ParseBool(getParamLowercase(r, key))
	return err == nil && value
}

// getIntParam reads a positive integer query parameter, fallback when missing
func getIntParam(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, apierrors.NewValidationError(key+" must be a positive integer", err)
	}
	return value, nil
}

// currencyParam returns the requested currency, lowercase, or the default one
func (s *Server) currencyParam(r *http.Request) string {
	if currency := getParamLowercase(r, "currency"); currency != "" {
		return currency
	}
	return strings.ToLower(s.defaultCurrency)
}
