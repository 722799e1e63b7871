package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/flashgen/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestNewJWTVerifierRejectsShortSecret(t *testing.T) {
	_, err := NewJWTVerifier(config.AuthConfig{JWTSecret: "short"})
	assert.Error(t, err)
}

func TestValidateToken(t *testing.T) {
	fixed := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	verifier, err := NewJWTVerifier(config.AuthConfig{JWTSecret: TestSecret, Issuer: "https://id.example.com"})
	require.NoError(t, err)
	verifier.timeFunc = func() time.Time { return fixed }

	valid := jwt.RegisteredClaims{
		Subject:   userID.String(),
		Issuer:    "https://id.example.com",
		IssuedAt:  jwt.NewNumericDate(fixed.Add(-time.Minute)),
		ExpiresAt: jwt.NewNumericDate(fixed.Add(time.Hour)),
		ID:        "token-1",
	}
	with := func(mutate func(c *jwt.RegisteredClaims)) jwt.RegisteredClaims {
		c := valid
		mutate(&c)
		return c
	}

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "valid", token: sign(t, jwt.SigningMethodHS256, []byte(TestSecret), valid)},
		{name: "missing", token: "", wantErr: ErrMissingToken},
		{name: "malformed", token: "not-a-token", wantErr: ErrInvalidToken},
		{name: "wrong secret", token: sign(t, jwt.SigningMethodHS256, []byte("another-secret-that-is-32-chars-long"), valid), wantErr: ErrInvalidToken},
		{name: "wrong algorithm", token: sign(t, jwt.SigningMethodHS512, []byte(TestSecret), valid), wantErr: ErrInvalidToken},
		{name: "expired", token: sign(t, jwt.SigningMethodHS256, []byte(TestSecret), with(func(c *jwt.RegisteredClaims) {
			c.ExpiresAt = jwt.NewNumericDate(fixed.Add(-time.Hour))
		})), wantErr: ErrExpiredToken},
		{name: "within clock skew", token: sign(t, jwt.SigningMethodHS256, []byte(TestSecret), with(func(c *jwt.RegisteredClaims) {
			c.ExpiresAt = jwt.NewNumericDate(fixed.Add(-time.Minute))
		}))},
		{name: "not yet valid", token: sign(t, jwt.SigningMethodHS256, []byte(TestSecret), with(func(c *jwt.RegisteredClaims) {
			c.NotBefore = jwt.NewNumericDate(fixed.Add(time.Hour))
		})), wantErr: ErrTokenNotYetValid},
		{name: "no expiry", token: sign(t, jwt.SigningMethodHS256, []byte(TestSecret), with(func(c *jwt.RegisteredClaims) {
			c.ExpiresAt = nil
		})), wantErr: ErrInvalidToken},
		{name: "wrong issuer", token: sign(t, jwt.SigningMethodHS256, []byte(TestSecret), with(func(c *jwt.RegisteredClaims) {
			c.Issuer = "https://evil.example.com"
		})), wantErr: ErrInvalidToken},
		{name: "subject not a uuid", token: sign(t, jwt.SigningMethodHS256, []byte(TestSecret), with(func(c *jwt.RegisteredClaims) {
			c.Subject = "alice"
		})), wantErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := verifier.ValidateToken(context.Background(), tt.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, userID, claims.UserID)
			assert.Equal(t, "https://id.example.com", claims.Issuer)
		})
	}
}

func TestSignTestToken(t *testing.T) {
	verifier, err := NewJWTVerifier(config.AuthConfig{JWTSecret: TestSecret})
	require.NoError(t, err)

	userID := uuid.New()
	token, err := SignTestToken(TestSecret, userID, "", time.Hour)
	require.NoError(t, err)

	claims, err := verifier.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}
