package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TestSecret is a signing secret long enough for NewJWTVerifier.
const TestSecret = "test-jwt-secret-that-is-32-chars-long"

// SignTestToken signs an HS256 token for userID that expires after ttl. It
// stands in for the external identity provider in tests.
func SignTestToken(secret string, userID uuid.UUID, issuer string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
