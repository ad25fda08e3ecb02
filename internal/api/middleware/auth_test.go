package middleware

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/api/shared"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/domain"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/mocks"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/service/auth"
)

func basicAuthHeader(email, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(email+":"+password))
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	user := &domain.User{ID: userID, Email: "alice@example.com"}

	tests := []struct {
		name            string
		authHeader      string
		validateErr     error
		claims          *auth.Claims
		authenticateErr error
		expectedStatus  int
		expectedUserID  uuid.UUID
		expectedMsg     string
	}{
		{
			name:           "valid bearer token",
			authHeader:     "Bearer valid-token",
			claims:         &auth.Claims{UserID: userID},
			expectedStatus: http.StatusOK,
			expectedUserID: userID,
		},
		{
			name:           "valid basic credentials",
			authHeader:     basicAuthHeader("alice@example.com", "gamer123"),
			expectedStatus: http.StatusOK,
			expectedUserID: userID,
		},
		{
			name:           "missing auth header",
			authHeader:     "",
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "Authorization header required",
		},
		{
			name:           "invalid auth format",
			authHeader:     "InvalidFormat",
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "Invalid authorization format",
		},
		{
			name:           "unsupported scheme",
			authHeader:     "Digest abc123",
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "Invalid authorization format",
		},
		{
			name:           "expired token",
			authHeader:     "Bearer expired-token",
			validateErr:    auth.ErrExpiredToken,
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "Token expired",
		},
		{
			name:           "invalid token",
			authHeader:     "Bearer invalid-token",
			validateErr:    auth.ErrInvalidToken,
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "Invalid token",
		},
		{
			name:           "basic payload is not base64",
			authHeader:     "Basic not-base64!!!",
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "Invalid authorization format",
		},
		{
			name:           "basic payload has no colon",
			authHeader:     "Basic " + base64.StdEncoding.EncodeToString([]byte("alice@example.com")),
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "Invalid authorization format",
		},
		{
			name:            "wrong basic credentials",
			authHeader:      basicAuthHeader("alice@example.com", "wrong"),
			authenticateErr: auth.ErrInvalidCredentials,
			expectedStatus:  http.StatusUnauthorized,
			expectedMsg:     "Invalid email or password",
		},
		{
			name:            "credential store failure",
			authHeader:      basicAuthHeader("alice@example.com", "gamer123"),
			authenticateErr: errors.New("connection refused"),
			expectedStatus:  http.StatusInternalServerError,
			expectedMsg:     "Authentication error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jwtService := &mocks.MockJWTService{
				ValidateErr: tt.validateErr,
				Claims:      tt.claims,
			}
			authenticator := &mocks.MockAuthenticator{
				User: user,
				Err:  tt.authenticateErr,
			}

			middleware := NewAuthMiddleware(jwtService, authenticator)

			var capturedUserID uuid.UUID
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				userID, ok := GetUserID(r)
				if ok {
					capturedUserID = userID
				}
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest("GET", "/trade-offers", nil)
			if tt.authHeader != "" {
				req.Header.Add("Authorization", tt.authHeader)
			}
			recorder := httptest.NewRecorder()

			middleware.Authenticate(nextHandler).ServeHTTP(recorder, req)

			assert.Equal(t, tt.expectedStatus, recorder.Code)

			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, tt.expectedUserID, capturedUserID)
				return
			}

			var errResp shared.ErrorResponse
			require.NoError(t, json.NewDecoder(recorder.Body).Decode(&errResp))
			assert.Equal(t, tt.expectedMsg, errResp.Message)

			if tt.expectedStatus == http.StatusUnauthorized {
				assert.Equal(t, "Basic", recorder.Header().Get("WWW-Authenticate"))
			} else {
				assert.Empty(t, recorder.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestAuthMiddleware_BasicCredentialsReachAuthenticator(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	var gotEmail, gotPassword string
	authenticator := &mocks.MockAuthenticator{
		AuthenticateFn: func(ctx context.Context, email, password string) (*domain.User, error) {
			gotEmail = email
			gotPassword = password
			return &domain.User{ID: userID, Email: email}, nil
		},
	}
	middleware := NewAuthMiddleware(&mocks.MockJWTService{}, authenticator)

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Passwords may themselves contain colons; only the first one splits.
	req := httptest.NewRequest("GET", "/trade-offers", nil)
	req.Header.Set("Authorization", basicAuthHeader("alice@example.com", "pass:with:colons"))
	recorder := httptest.NewRecorder()

	middleware.Authenticate(nextHandler).ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "alice@example.com", gotEmail)
	assert.Equal(t, "pass:with:colons", gotPassword)
}

func TestGetUserID(t *testing.T) {
	t.Parallel()

	testUserID := uuid.New()

	t.Run("context with user ID", func(t *testing.T) {
		req, err := http.NewRequest("GET", "/", nil)
		require.NoError(t, err)
		ctx := context.WithValue(req.Context(), shared.UserIDContextKey, testUserID)
		req = req.WithContext(ctx)

		userID, ok := GetUserID(req)

		assert.True(t, ok)
		assert.Equal(t, testUserID, userID)
	})

	t.Run("context without user ID", func(t *testing.T) {
		req, err := http.NewRequest("GET", "/", nil)
		require.NoError(t, err)

		userID, ok := GetUserID(req)

		assert.False(t, ok)
		assert.Equal(t, uuid.Nil, userID)
	})
}
