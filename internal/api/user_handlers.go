package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/terra-clan/quiz-engine/internal/models"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := s.service.Register(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err, "register user")
		return
	}

	respondJSON(w, http.StatusCreated, "user registered", payload{
		"token": resp.Token,
		"user":  resp.User,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := s.service.Login(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err, "log in")
		return
	}

	respondJSON(w, http.StatusOK, "login successful", payload{
		"token": resp.Token,
		"user":  resp.User,
	})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.service.GetPrincipal(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err, "get user")
		return
	}

	respondJSON(w, http.StatusOK, "user found", payload{"user": user})
}

func (s *Server) handleAddBookmark(w http.ResponseWriter, r *http.Request) {
	var req models.BookmarkRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := s.service.AddBookmark(r.Context(), PrincipalFromContext(r.Context()), chi.URLParam(r, "userId"), req)
	if err != nil {
		respondServiceError(w, r, err, "add bookmark")
		return
	}

	respondJSON(w, http.StatusOK, "bookmark added", payload{"user": user})
}

func (s *Server) handleRemoveBookmark(w http.ResponseWriter, r *http.Request) {
	user, err := s.service.RemoveBookmark(
		r.Context(),
		PrincipalFromContext(r.Context()),
		chi.URLParam(r, "userId"),
		chi.URLParam(r, "questionId"),
	)
	if err != nil {
		respondServiceError(w, r, err, "remove bookmark")
		return
	}

	respondJSON(w, http.StatusOK, "bookmark removed", payload{"user": user})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req models.ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.service.ChangePassword(r.Context(), PrincipalFromContext(r.Context()), req); err != nil {
		respondServiceError(w, r, err, "change password")
		return
	}

	respondJSON(w, http.StatusOK, "password changed", nil)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Logout(r.Context(), ClaimsFromContext(r.Context())); err != nil {
		respondServiceError(w, r, err, "log out")
		return
	}

	respondJSON(w, http.StatusOK, "logged out", nil)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	var req models.DeleteAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.service.DeleteAccount(r.Context(), PrincipalFromContext(r.Context()), chi.URLParam(r, "id"), req); err != nil {
		respondServiceError(w, r, err, "delete user")
		return
	}

	respondJSON(w, http.StatusOK, "user deleted", nil)
}

func (s *Server) handleSetRole(w http.ResponseWriter, r *http.Request) {
	var req models.SetRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := s.service.SetRole(r.Context(), PrincipalFromContext(r.Context()), chi.URLParam(r, "id"), req.UserType)
	if err != nil {
		respondServiceError(w, r, err, "set role")
		return
	}

	respondJSON(w, http.StatusOK, "role updated", payload{"user": user})
}
