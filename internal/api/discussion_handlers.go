package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/terra-clan/quiz-engine/internal/models"
)

// --- Answers ---

func (s *Server) handleCreateAnswer(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	answer, err := s.service.CreateAnswer(r.Context(), PrincipalFromContext(r.Context()), req)
	if err != nil {
		respondServiceError(w, r, err, "create answer")
		return
	}

	respondJSON(w, http.StatusCreated, "answer created", payload{"answer": answer})
}

func (s *Server) handleListAnswers(w http.ResponseWriter, r *http.Request) {
	answers, err := s.service.ListAnswers(r.Context(), chi.URLParam(r, "questionID"))
	if err != nil {
		respondServiceError(w, r, err, "list answers")
		return
	}

	respondJSON(w, http.StatusOK, "answers found", payload{"answers": answers})
}

func (s *Server) handleUpdateAnswer(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateAnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	answer, err := s.service.UpdateAnswer(r.Context(), PrincipalFromContext(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		respondServiceError(w, r, err, "update answer")
		return
	}

	respondJSON(w, http.StatusOK, "answer updated", payload{"answer": answer})
}

func (s *Server) handleDeleteAnswer(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteAnswer(r.Context(), PrincipalFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, r, err, "delete answer")
		return
	}

	respondJSON(w, http.StatusOK, "answer deleted", nil)
}

// --- Comments ---

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	comment, err := s.service.CreateComment(r.Context(), PrincipalFromContext(r.Context()), req)
	if err != nil {
		respondServiceError(w, r, err, "create comment")
		return
	}

	respondJSON(w, http.StatusCreated, "comment created", payload{"comment": comment})
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := s.service.ListComments(r.Context(), chi.URLParam(r, "questionID"))
	if err != nil {
		respondServiceError(w, r, err, "list comments")
		return
	}

	respondJSON(w, http.StatusOK, "comments found", payload{"comments": comments})
}

func (s *Server) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	comment, err := s.service.UpdateComment(r.Context(), PrincipalFromContext(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		respondServiceError(w, r, err, "update comment")
		return
	}

	respondJSON(w, http.StatusOK, "comment updated", payload{"comment": comment})
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteComment(r.Context(), PrincipalFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, r, err, "delete comment")
		return
	}

	respondJSON(w, http.StatusOK, "comment deleted", nil)
}
