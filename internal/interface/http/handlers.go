package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/biteburst/biteburst-leagues/internal/application/command"
	"github.com/biteburst/biteburst-leagues/internal/application/query"
	"github.com/biteburst/biteburst-leagues/internal/domain/shared"
	"github.com/biteburst/biteburst-leagues/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":        "BiteBurst Leagues API",
		"version":     "v1",
		"description": "Weekly league leaderboards for the BiteBurst nutrition app",
		"endpoints": map[string]string{
			"health":      "/health",
			"leaderboard": "/api/v1/leaderboard/{userID}",
			"opt_out":     "/api/v1/users/{userID}/leaderboard/opt-out",
		},
	}

	writeJSON(w, http.StatusOK, info)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":  "healthy",
		"uptime":  s.Uptime().String(),
		"version": "v1",
	}

	if s.deps.HealthChecker != nil {
		if err := s.deps.HealthChecker.Ready(r.Context()); err != nil {
			status["status"] = "degraded"
			status["reason"] = err.Error()
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
	}

	writeJSON(w, http.StatusOK, status)
}

// handleReady handles the readiness probe endpoint (for Kubernetes).
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		if err := s.deps.HealthChecker.Ready(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": err.Error(),
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint (for Kubernetes).
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetLeaderboard handles GET /api/v1/leaderboard/{userID}.
// The optional ?tier= query parameter overrides the user's stored tier.
func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	if userID == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "User ID is required")
		return
	}

	if s.deps.GetLeaderboardHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Leaderboard handler not configured")
		return
	}

	q := query.GetLeaderboardQuery{
		UserID:       userID,
		TierOverride: getQueryParam(r, "tier", ""),
	}

	result, err := s.deps.GetLeaderboardHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, err, "Failed to get leaderboard")
		return
	}

	writeJSONWithRequestID(w, r, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// OPT-OUT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// optOutRequest is the body of the opt-out endpoint.
type optOutRequest struct {
	OptOut bool `json:"opt_out"`
}

// handleSetOptOut handles POST /api/v1/users/{userID}/leaderboard/opt-out.
func (s *Server) handleSetOptOut(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	if userID == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "User ID is required")
		return
	}

	if s.deps.SetOptOutHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Opt-out handler not configured")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to read request body")
		return
	}

	var req optOutRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Request body must be JSON")
		return
	}

	cmd := command.SetOptOutCommand{
		UserID: userID,
		OptOut: req.OptOut,
	}

	if err := s.deps.SetOptOutHandler.Handle(r.Context(), cmd); err != nil {
		s.writeDomainError(w, err, "Failed to update opt-out flag")
		return
	}

	writeJSONWithRequestID(w, r, http.StatusOK, map[string]interface{}{
		"user_id": userID,
		"opt_out": req.OptOut,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// writeDomainError maps domain errors to HTTP responses.
func (s *Server) writeDomainError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, shared.ErrUserNotFound):
		writeJSONError(w, http.StatusNotFound, "user_not_found", "User does not exist")
	case errors.Is(err, shared.ErrInvalidTier):
		writeJSONError(w, http.StatusBadRequest, "invalid_tier", "Unknown league tier")
	case shared.IsValidation(err):
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
	default:
		s.logger.Error("request failed", logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", fallback)
	}
}
