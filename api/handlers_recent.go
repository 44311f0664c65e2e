package api

import (
	"io"
	"net/http"

	"github.com/status-im/market-dashboard/apierrors"
	"github.com/status-im/market-dashboard/validation"
)

const maxRecentBodyBytes = 64 << 10

// handleRecentList responds with the recently viewed assets, most recent first
func (s *Server) handleRecentList(w http.ResponseWriter, r *http.Request) {
	s.sendJSONResponse(w, s.recent.List())
}

// handleRecentAdd records a viewed asset; the body is a full market record
func (s *Server) handleRecentAdd(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRecentBodyBytes))
	if err != nil {
		s.sendBadRequest(w, apierrors.NewValidationError("failed to read request body", err))
		return
	}

	crypto, err := validation.ValidateOne(body)
	if err != nil {
		s.sendBadRequest(w, err)
		return
	}

	items, err := s.recent.Add(r.Context(), crypto)
	if err != nil {
		log.Errorf("API: failed to add %s to recently viewed: %v", crypto.ID, err)
		http.Error(w, "Failed to save recently viewed list", http.StatusInternalServerError)
		return
	}

	s.sendJSONResponse(w, items)
}

// handleRecentClear empties the recently viewed list
func (s *Server) handleRecentClear(w http.ResponseWriter, r *http.Request) {
	if err := s.recent.Clear(r.Context()); err != nil {
		log.Errorf("API: failed to clear recently viewed: %v", err)
		http.Error(w, "Failed to clear recently viewed list", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
