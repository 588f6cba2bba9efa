// Package auth verifies credentials, resolves principals and enforces role
// and ownership checks.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/terra-clan/quiz-engine/internal/models"
)

// Sentinel errors.
var (
	ErrUnauthenticated   = errors.New("authentication required")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrForbidden         = errors.New("access denied")
	ErrPrincipalNotFound = errors.New("principal not found")
)

// PrincipalGetter loads principals by ID. Returns (nil, nil) when not found.
type PrincipalGetter interface {
	GetPrincipal(ctx context.Context, id string) (*models.Principal, error)
}

// Resolver maps a credential's principal ID to a stored principal
type Resolver struct {
	principals PrincipalGetter
}

// NewResolver creates a resolver over principals
func NewResolver(principals PrincipalGetter) *Resolver {
	return &Resolver{principals: principals}
}

// Resolve returns the principal with the given ID or ErrPrincipalNotFound
func (r *Resolver) Resolve(ctx context.Context, id string) (*models.Principal, error) {
	if id == "" {
		return nil, ErrPrincipalNotFound
	}

	p, err := r.principals.GetPrincipal(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve principal: %w", err)
	}
	if p == nil {
		return nil, ErrPrincipalNotFound
	}
	return p, nil
}

// Gate holds the role and ownership predicates
type Gate struct{}

// AuthorizedUser requires the creator or admin role
func (Gate) AuthorizedUser(p *models.Principal) error {
	if p == nil {
		return ErrUnauthenticated
	}
	if !p.HasRole(models.UserCreator, models.UserAdmin) {
		return ErrForbidden
	}
	return nil
}

// AdminOnly requires the admin role
func (Gate) AdminOnly(p *models.Principal) error {
	if p == nil {
		return ErrUnauthenticated
	}
	if !p.HasRole(models.UserAdmin) {
		return ErrForbidden
	}
	return nil
}

// Owner requires p to be the owner. Admins get no bypass.
func (Gate) Owner(p *models.Principal, ownerID string) error {
	if p == nil {
		return ErrUnauthenticated
	}
	if p.ID != ownerID {
		return ErrForbidden
	}
	return nil
}

// SelfOrAdmin requires p to be the target principal or an admin
func (Gate) SelfOrAdmin(p *models.Principal, targetID string) error {
	if p == nil {
		return ErrUnauthenticated
	}
	if p.ID != targetID && !p.HasRole(models.UserAdmin) {
		return ErrForbidden
	}
	return nil
}

// ExtractToken returns the credential from an Authorization header value.
// Supports "<token>" and "Bearer <token>".
func ExtractToken(header string) string {
	fields := strings.Fields(header)
	if len(fields) == 0 {
		return ""
	}
	if strings.EqualFold(fields[0], "Bearer") {
		if len(fields) < 2 {
			return ""
		}
		return fields[1]
	}
	return fields[0]
}

// MaskToken returns the first 8 chars of a token for safe logging
func MaskToken(token string) string {
	if len(token) < 8 {
		return "***"
	}
	return token[:8] + "..."
}
