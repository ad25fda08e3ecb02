package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/api/shared"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/config"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/platform/logger"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/service/auth"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/store"
)

// AuthHandler handles authentication HTTP requests: exchanging credentials
// for a token pair and rotating the pair with a refresh token.
type AuthHandler struct {
	userStore        store.UserStore
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	authConfig       *config.AuthConfig
	logger           *slog.Logger
	timeFunc         func() time.Time
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(
	userStore store.UserStore,
	jwtService auth.JWTService,
	passwordVerifier auth.PasswordVerifier,
	authConfig *config.AuthConfig,
) *AuthHandler {
	return &AuthHandler{
		userStore:        userStore,
		jwtService:       jwtService,
		passwordVerifier: passwordVerifier,
		authConfig:       authConfig,
		logger:           slog.Default().With(slog.String("component", "auth_handler")),
		timeFunc:         time.Now,
	}
}

// WithTimeFunc overrides the handler's notion of now so tests can pin the
// token expiry timestamp. Returns the handler for chaining.
func (h *AuthHandler) WithTimeFunc(timeFunc func() time.Time) *AuthHandler {
	h.timeFunc = timeFunc
	return h
}

// generateTokenResponse creates an access/refresh token pair for the user
// and formats the access token expiry as RFC 3339.
func (h *AuthHandler) generateTokenResponse(
	ctx context.Context,
	userID uuid.UUID,
) (accessToken, refreshToken, expiresAt string, err error) {
	accessToken, err = h.jwtService.GenerateToken(ctx, userID)
	if err != nil {
		return "", "", "", err
	}

	refreshToken, err = h.jwtService.GenerateRefreshToken(ctx, userID)
	if err != nil {
		return "", "", "", err
	}

	lifetime := time.Duration(h.authConfig.TokenLifetimeMinutes) * time.Minute
	return accessToken, refreshToken, h.timeFunc().Add(lifetime).Format(time.RFC3339), nil
}

// Login handles POST /auth/login requests
// A failed lookup and a failed password check produce the same response so
// the endpoint never confirms whether an email is registered.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req LoginRequest
	if !parseAndValidateRequest(w, r, &req, log) {
		return
	}

	user, err := h.userStore.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("login attempt for unknown email")
			shared.RespondWithErrorAndLog(
				w, r, http.StatusUnauthorized, "Invalid email or password", err)
			return
		}
		shared.RespondWithErrorAndLog(
			w, r, http.StatusInternalServerError, "Failed to authenticate user", err)
		return
	}

	if err := h.passwordVerifier.Compare(user.HashedPassword, req.Password); err != nil {
		log.Debug("password mismatch", slog.String("user_id", user.ID.String()))
		shared.RespondWithErrorAndLog(
			w, r, http.StatusUnauthorized, "Invalid email or password", err)
		return
	}

	accessToken, refreshToken, expiresAt, err := h.generateTokenResponse(r.Context(), user.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(
			w, r, http.StatusInternalServerError, "Failed to generate authentication tokens", err)
		return
	}

	log.Info("user logged in", slog.String("user_id", user.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	})
}

// RefreshToken handles POST /auth/refresh requests
// A valid refresh token yields a brand new pair; the old access token is
// simply left to expire.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RefreshTokenRequest
	if !parseAndValidateRequest(w, r, &req, log) {
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		if MapErrorToStatusCode(err) == http.StatusUnauthorized {
			log.Debug("refresh token rejected")
			shared.RespondWithErrorAndLog(
				w, r, http.StatusUnauthorized, "Invalid refresh token", err)
			return
		}
		shared.RespondWithErrorAndLog(
			w, r, http.StatusInternalServerError, "Failed to validate refresh token", err)
		return
	}

	accessToken, refreshToken, expiresAt, err := h.generateTokenResponse(r.Context(), claims.UserID)
	if err != nil {
		shared.RespondWithErrorAndLog(
			w, r, http.StatusInternalServerError, "Failed to generate new tokens", err)
		return
	}

	log.Info("token refreshed", slog.String("user_id", claims.UserID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, RefreshTokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	})
}
