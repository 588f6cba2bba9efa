package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/terra-clan/quiz-engine/internal/models"
	"github.com/terra-clan/quiz-engine/internal/observability"
	"github.com/terra-clan/quiz-engine/internal/query"
)

// filterRequest reads sort, s (status), d (difficulty) and skills from the
// query string. skills may repeat and may hold comma-separated values.
func filterRequest(r *http.Request) query.Request {
	q := r.URL.Query()
	return query.Request{
		Sort:       q.Get("sort"),
		Status:     q.Get("s"),
		Difficulty: q.Get("d"),
		Skills:     query.SplitList(q["skills"]),
	}
}

func (s *Server) handleAddQuestion(w http.ResponseWriter, r *http.Request) {
	var req models.CreateQuestionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	question, err := s.service.CreateQuestion(r.Context(), PrincipalFromContext(r.Context()), req)
	if err != nil {
		respondServiceError(w, r, err, "add question")
		return
	}

	respondJSON(w, http.StatusCreated, "question added", payload{"question": question})
}

func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := s.service.ListQuestions(r.Context())
	if err != nil {
		respondServiceError(w, r, err, "list questions")
		return
	}

	respondJSON(w, http.StatusOK, "questions found", payload{"questions": questions})
}

func (s *Server) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	question, err := s.service.GetQuestion(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err, "get question")
		return
	}

	respondJSON(w, http.StatusOK, "question found", payload{"question": question})
}

func (s *Server) handleSearchQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := s.service.SearchQuestions(r.Context(), chi.URLParam(r, "term"))
	if err != nil {
		respondServiceError(w, r, err, "search questions")
		return
	}

	respondJSON(w, http.StatusOK, "questions found", payload{"questions": questions})
}

func (s *Server) handleQuestionsBySkill(w http.ResponseWriter, r *http.Request) {
	questions, err := s.service.QuestionsBySkill(r.Context(), query.SplitList(r.URL.Query()["skill"]))
	if err != nil {
		respondServiceError(w, r, err, "list questions by skill")
		return
	}

	respondJSON(w, http.StatusOK, "questions found", payload{"questions": questions})
}

func (s *Server) handleQuestionsByLevels(w http.ResponseWriter, r *http.Request) {
	questions, err := s.service.QuestionsByLevels(r.Context(), query.SplitList(r.URL.Query()["levels"]))
	if err != nil {
		respondServiceError(w, r, err, "list questions by level")
		return
	}

	respondJSON(w, http.StatusOK, "questions found", payload{"questions": questions})
}

func (s *Server) handleQueryQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := s.service.QueryQuestions(r.Context(), PrincipalFromContext(r.Context()), filterRequest(r))
	if err != nil {
		respondServiceError(w, r, err, "query questions")
		return
	}

	respondJSON(w, http.StatusOK, "questions found", payload{"questions": questions})
}

func (s *Server) handleRandomQuestion(w http.ResponseWriter, r *http.Request) {
	question, err := s.service.RandomQuestion(r.Context(), PrincipalFromContext(r.Context()), filterRequest(r))
	if err != nil {
		if errors.Is(err, query.ErrNoCandidates) {
			observability.RandomSelectionsTotal.WithLabelValues(observability.SelectionEmpty).Inc()
		} else {
			observability.RandomSelectionsTotal.WithLabelValues(observability.SelectionError).Inc()
		}
		respondServiceError(w, r, err, "select random question")
		return
	}

	observability.RandomSelectionsTotal.WithLabelValues(observability.SelectionFound).Inc()
	respondJSON(w, http.StatusOK, "question found", payload{"question": question})
}

func (s *Server) handleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateQuestionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	question, err := s.service.UpdateQuestion(r.Context(), PrincipalFromContext(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		respondServiceError(w, r, err, "update question")
		return
	}

	respondJSON(w, http.StatusOK, "question updated", payload{"question": question})
}

func (s *Server) handleMarkAttempted(w http.ResponseWriter, r *http.Request) {
	question, err := s.service.MarkAttempted(r.Context(), PrincipalFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err, "mark question attempted")
		return
	}

	respondJSON(w, http.StatusOK, "question marked as attempted", payload{"question": question})
}

func (s *Server) handleLikeQuestion(w http.ResponseWriter, r *http.Request) {
	var req models.LikeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	question, err := s.service.Like(r.Context(), PrincipalFromContext(r.Context()), chi.URLParam(r, "id"), req.Action)
	if err != nil {
		respondServiceError(w, r, err, "update likes")
		return
	}

	respondJSON(w, http.StatusOK, "likes updated", payload{"question": question})
}

func (s *Server) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteQuestion(r.Context(), PrincipalFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, r, err, "delete question")
		return
	}

	respondJSON(w, http.StatusOK, "question deleted", nil)
}
