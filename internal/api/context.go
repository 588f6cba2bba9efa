package api

import (
	"context"

	"github.com/terra-clan/quiz-engine/internal/auth"
	"github.com/terra-clan/quiz-engine/internal/models"
)

type contextKey string

const (
	principalContextKey contextKey = "principal"
	claimsContextKey    contextKey = "claims"
)

// PrincipalFromContext extracts the authenticated Principal from context
func PrincipalFromContext(ctx context.Context) *models.Principal {
	p, ok := ctx.Value(principalContextKey).(*models.Principal)
	if !ok {
		return nil
	}
	return p
}

// ContextWithPrincipal adds the Principal to context
func ContextWithPrincipal(ctx context.Context, p *models.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

// ClaimsFromContext extracts the verified credential claims from context
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	c, ok := ctx.Value(claimsContextKey).(*auth.Claims)
	if !ok {
		return nil
	}
	return c
}

func contextWithClaims(ctx context.Context, c *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, c)
}
