package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flashgen/internal/api/shared"
	"github.com/phrazzld/flashgen/internal/config"
	"github.com/phrazzld/flashgen/internal/mocks"
	"github.com/phrazzld/flashgen/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name        string
		header      string
		validateErr error
		wantStatus  int
		wantMessage string
	}{
		{name: "valid token", header: "Bearer good", wantStatus: http.StatusOK},
		{name: "lowercase scheme", header: "bearer good", wantStatus: http.StatusOK},
		{name: "missing header", wantStatus: http.StatusUnauthorized, wantMessage: "Authorization header required"},
		{name: "no scheme", header: "good", wantStatus: http.StatusUnauthorized, wantMessage: "Invalid authorization format"},
		{name: "basic scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized, wantMessage: "Invalid authorization format"},
		{name: "empty token", header: "Bearer  ", wantStatus: http.StatusUnauthorized, wantMessage: "Invalid authorization format"},
		{name: "expired", header: "Bearer old", validateErr: auth.ErrExpiredToken, wantStatus: http.StatusUnauthorized, wantMessage: "Token expired"},
		{name: "invalid", header: "Bearer bad", validateErr: auth.ErrInvalidToken, wantStatus: http.StatusUnauthorized, wantMessage: "Invalid token"},
		{name: "not yet valid", header: "Bearer early", validateErr: auth.ErrTokenNotYetValid, wantStatus: http.StatusUnauthorized, wantMessage: "Invalid token"},
		{name: "verifier failure", header: "Bearer x", validateErr: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantMessage: "Authentication error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			verifier := &mocks.TokenVerifier{
				ValidateTokenFn: func(ctx context.Context, token string) (*auth.Claims, error) {
					if tt.validateErr != nil {
						return nil, tt.validateErr
					}
					assert.Equal(t, "good", token)
					return &auth.Claims{UserID: userID}, nil
				},
			}

			var gotUserID uuid.UUID
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUserID, _ = shared.UserIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/flashcards", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			NewAuthMiddleware(verifier).Authenticate(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, userID, gotUserID)
				return
			}
			var body shared.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMessage, body.Error)
		})
	}
}

func TestAuthenticateWithRealVerifier(t *testing.T) {
	verifier, err := auth.NewJWTVerifier(config.AuthConfig{JWTSecret: auth.TestSecret})
	require.NoError(t, err)
	userID := uuid.New()
	token, err := auth.SignTestToken(auth.TestSecret, userID, "", time.Hour)
	require.NoError(t, err)

	var gotUserID uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = shared.UserIDFromContext(r.Context())
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	NewAuthMiddleware(verifier).Authenticate(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, gotUserID)
}

func TestNewAuthMiddlewarePanicsWithoutVerifier(t *testing.T) {
	assert.Panics(t, func() { NewAuthMiddleware(nil) })
}
