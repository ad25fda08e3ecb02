package middleware

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/api/shared"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/service/auth"
)

// AuthMiddleware authenticates requests for protected routes. It accepts
// HTTP Basic credentials (email and password) as well as Bearer tokens
// issued by the login endpoint, so clients can either send credentials on
// every request or trade them for a token once.
type AuthMiddleware struct {
	jwtService    auth.JWTService
	authenticator auth.Authenticator
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, authenticator auth.Authenticator) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:    jwtService,
		authenticator: authenticator,
	}
}

// Authenticate resolves the Authorization header to a user ID and adds it
// to the request context for authorized requests.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			m.unauthorized(w, r, "Authorization header required", nil)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 {
			m.unauthorized(w, r, "Invalid authorization format", nil)
			return
		}

		var userID uuid.UUID
		var ok bool
		switch parts[0] {
		case "Basic":
			userID, ok = m.authenticateBasic(w, r, parts[1])
		case "Bearer":
			userID, ok = m.authenticateBearer(w, r, parts[1])
		default:
			m.unauthorized(w, r, "Invalid authorization format", nil)
			return
		}
		if !ok {
			return
		}

		// Add user ID to context
		ctx := context.WithValue(r.Context(), shared.UserIDContextKey, userID)

		// Continue with the authenticated request
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authenticateBasic verifies base64-encoded email:password credentials.
func (m *AuthMiddleware) authenticateBasic(
	w http.ResponseWriter,
	r *http.Request,
	encoded string,
) (uuid.UUID, bool) {
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		m.unauthorized(w, r, "Invalid authorization format", err)
		return uuid.Nil, false
	}

	email, password, found := strings.Cut(string(decoded), ":")
	if !found {
		m.unauthorized(w, r, "Invalid authorization format", nil)
		return uuid.Nil, false
	}

	user, err := m.authenticator.Authenticate(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			m.unauthorized(w, r, "Invalid email or password", err)
			return uuid.Nil, false
		}
		shared.RespondWithErrorAndLog(
			w, r, http.StatusInternalServerError, "Authentication error", err)
		return uuid.Nil, false
	}

	return user.ID, true
}

// authenticateBearer validates a JWT access token.
func (m *AuthMiddleware) authenticateBearer(
	w http.ResponseWriter,
	r *http.Request,
	token string,
) (uuid.UUID, bool) {
	claims, err := m.jwtService.ValidateToken(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrExpiredToken):
			m.unauthorized(w, r, "Token expired", err)
		case errors.Is(err, auth.ErrInvalidToken),
			errors.Is(err, auth.ErrTokenNotYetValid),
			errors.Is(err, auth.ErrWrongTokenType):
			m.unauthorized(w, r, "Invalid token", err)
		default:
			shared.RespondWithErrorAndLog(
				w, r, http.StatusInternalServerError, "Authentication error", err)
		}
		return uuid.Nil, false
	}

	return claims.UserID, true
}

// unauthorized writes a 401 with a Basic challenge so browsers and plain
// HTTP clients know they can retry with credentials. The raw error, when
// present, goes to the logs only.
func (m *AuthMiddleware) unauthorized(
	w http.ResponseWriter,
	r *http.Request,
	message string,
	err error,
) {
	w.Header().Set("WWW-Authenticate", "Basic")
	shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, message, err)
}

// GetUserID extracts the user ID from the request context.
// Returns the user ID and a boolean indicating if it was found.
func GetUserID(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	return userID, ok
}
