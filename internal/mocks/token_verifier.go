package mocks

import (
	"context"

	"github.com/phrazzld/flashgen/internal/service/auth"
)

// TokenVerifier implements auth.TokenVerifier with a function field.
type TokenVerifier struct {
	ValidateTokenFn func(ctx context.Context, token string) (*auth.Claims, error)
}

var _ auth.TokenVerifier = (*TokenVerifier)(nil)

// ValidateToken implements auth.TokenVerifier.
func (v *TokenVerifier) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	if v.ValidateTokenFn == nil {
		return nil, auth.ErrInvalidToken
	}
	return v.ValidateTokenFn(ctx, token)
}
