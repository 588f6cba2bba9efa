package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/terra-clan/quiz-engine/internal/models"
)

// Verifier turns an Authorization header into a resolved principal
type Verifier struct {
	tokens   *TokenIssuer
	revoked  RevocationStore
	resolver *Resolver
}

// NewVerifier creates a verifier. revoked may be nil to disable logout checks.
func NewVerifier(tokens *TokenIssuer, revoked RevocationStore, resolver *Resolver) *Verifier {
	return &Verifier{tokens: tokens, revoked: revoked, resolver: resolver}
}

// Verify checks header and returns the principal and the credential's claims.
// Errors wrap ErrUnauthenticated or ErrInvalidCredential, except storage failures.
func (v *Verifier) Verify(ctx context.Context, header string) (*models.Principal, *Claims, error) {
	token := ExtractToken(header)
	if token == "" {
		return nil, nil, ErrUnauthenticated
	}

	claims, err := v.tokens.Parse(token)
	if err != nil {
		return nil, nil, err
	}

	if v.revoked != nil && claims.TokenID != "" {
		revoked, err := v.revoked.IsRevoked(ctx, claims.TokenID)
		if err != nil {
			return nil, nil, err
		}
		if revoked {
			return nil, nil, fmt.Errorf("%w: token revoked", ErrInvalidCredential)
		}
	}

	p, err := v.resolver.Resolve(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			return nil, nil, ErrUnauthenticated
		}
		return nil, nil, err
	}

	return p, claims, nil
}
