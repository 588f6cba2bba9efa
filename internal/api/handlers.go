package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/terra-clan/quiz-engine/internal/auth"
	"github.com/terra-clan/quiz-engine/internal/health"
	"github.com/terra-clan/quiz-engine/internal/query"
	"github.com/terra-clan/quiz-engine/internal/quiz"
)

// Response helpers

// payload holds the fields merged into the response envelope next to
// isError and message.
type payload map[string]interface{}

func respondJSON(w http.ResponseWriter, status int, message string, data payload) {
	body := make(map[string]interface{}, len(data)+2)
	for k, v := range data {
		body[k] = v
	}
	body["isError"] = status >= 400
	body["message"] = message

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, message, nil)
}

// respondServiceError maps service errors to HTTP statuses. Anything
// unrecognized is logged and reported as 500 with a generic message.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, auth.ErrUnauthenticated),
		errors.Is(err, auth.ErrInvalidCredential),
		errors.Is(err, quiz.ErrInvalidPassword):
		status = http.StatusUnauthorized
	case errors.Is(err, auth.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, quiz.ErrPrincipalNotFound),
		errors.Is(err, quiz.ErrQuestionNotFound),
		errors.Is(err, quiz.ErrAnswerNotFound),
		errors.Is(err, quiz.ErrCommentNotFound),
		errors.Is(err, quiz.ErrBookmarkNotFound),
		errors.Is(err, query.ErrNoCandidates):
		status = http.StatusNotFound
	case errors.Is(err, quiz.ErrEmailTaken),
		errors.Is(err, quiz.ErrAlreadyLiked),
		errors.Is(err, quiz.ErrNotLiked),
		errors.Is(err, quiz.ErrAlreadyBookmarked):
		status = http.StatusConflict
	case errors.Is(err, quiz.ErrInvalidInput),
		errors.Is(err, quiz.ErrInvalidAction):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		slog.Error("failed to "+action, "error", err, "path", r.URL.Path)
		respondError(w, status, "failed to "+action)
		return
	}

	respondError(w, status, err.Error())
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// Health handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, "healthy", payload{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		respondJSON(w, http.StatusOK, "ready", payload{"status": "ready"})
		return
	}

	failing := health.Failing(s.health.CheckAll(r.Context()))
	if len(failing) > 0 {
		slog.Warn("readiness check failed", "failing", failing)
		respondJSON(w, http.StatusServiceUnavailable, "service not ready", payload{
			"status":  "not_ready",
			"failing": failing,
		})
		return
	}

	respondJSON(w, http.StatusOK, "ready", payload{
		"status": "ready",
		"checks": s.health.List(),
	})
}
