package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/terra-clan/quiz-engine/internal/auth"
	"github.com/terra-clan/quiz-engine/internal/models"
	"github.com/terra-clan/quiz-engine/internal/observability"
)

// AuthMiddleware handles credential verification and role gating
type AuthMiddleware struct {
	verifier *auth.Verifier
	gate     auth.Gate
}

// NewAuthMiddleware creates new auth middleware
func NewAuthMiddleware(verifier *auth.Verifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// Authenticate verifies the credential in the Authorization header.
// Accepts "Bearer <token>" or the bare token.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token := auth.ExtractToken(header)
		if token == "" {
			observability.AuthFailuresTotal.WithLabelValues(observability.ReasonMissingCredential).Inc()
			respondError(w, http.StatusUnauthorized, "unauthenticated user")
			return
		}

		principal, claims, err := m.verifier.Verify(r.Context(), header)
		switch {
		case err == nil:
		case errors.Is(err, auth.ErrInvalidCredential):
			observability.AuthFailuresTotal.WithLabelValues(observability.ReasonInvalidCredential).Inc()
			slog.Warn("invalid credential", "token_prefix", auth.MaskToken(token), "remote_addr", r.RemoteAddr)
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		case errors.Is(err, auth.ErrUnauthenticated):
			observability.AuthFailuresTotal.WithLabelValues(observability.ReasonUnknownPrincipal).Inc()
			slog.Warn("credential for unknown user", "token_prefix", auth.MaskToken(token))
			respondError(w, http.StatusUnauthorized, "unauthenticated user")
			return
		default:
			slog.Error("failed to verify credential", "error", err, "token_prefix", auth.MaskToken(token))
			respondError(w, http.StatusInternalServerError, "authentication error")
			return
		}

		slog.Debug("authenticated request", "user_id", principal.ID, "role", principal.UserType)

		ctx := ContextWithPrincipal(r.Context(), principal)
		ctx = contextWithClaims(ctx, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuthorizedUser admits creators and admins
func (m *AuthMiddleware) RequireAuthorizedUser(next http.Handler) http.Handler {
	return m.require("creator or admin", m.gate.AuthorizedUser, next)
}

// RequireAdmin admits admins only
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.require("admin", m.gate.AdminOnly, next)
}

func (m *AuthMiddleware) require(role string, check func(*models.Principal) error, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := PrincipalFromContext(r.Context())
		if principal == nil {
			respondError(w, http.StatusUnauthorized, "unauthenticated user")
			return
		}

		if err := check(principal); err != nil {
			observability.AuthFailuresTotal.WithLabelValues(observability.ReasonForbidden).Inc()
			slog.Warn("permission denied",
				"user_id", principal.ID,
				"required", role,
				"has", principal.UserType,
			)
			respondError(w, http.StatusForbidden, "access denied")
			return
		}

		next.ServeHTTP(w, r)
	})
}
