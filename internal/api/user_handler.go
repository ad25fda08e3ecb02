package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/api/shared"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/domain"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/platform/logger"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/redact"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/service/auth"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/store"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userStore     store.UserStore
	authenticator auth.Authenticator
	logger        *slog.Logger
}

// NewUserHandler creates a new UserHandler. The authenticator is notified
// whenever a user's profile changes so that cached credentials never serve
// stale identities.
func NewUserHandler(
	userStore store.UserStore,
	authenticator auth.Authenticator,
	logger *slog.Logger,
) *UserHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for UserHandler")
	}

	return &UserHandler{
		userStore:     userStore,
		authenticator: authenticator,
		logger:        logger.With(slog.String("component", "user_handler")),
	}
}

// CreateUser handles POST /users requests
// It registers a new user with a hashed password and returns the created
// profile with its hypermedia relations.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateUserRequest
	if !parseAndValidateRequest(w, r, &req, log) {
		return
	}

	user, err := domain.NewUser(req.Name, req.Email, req.StreetAddress, req.Password)
	if err != nil {
		log.Warn("invalid user data", slog.String("error", redact.Error(err)))
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	// The store hashes the plaintext password before persisting.
	if err := h.userStore.Create(r.Context(), user); err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, userToResponse(user))
}

// ListUsers handles GET /users requests
// It returns every registered user, oldest first.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userStore.List(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list users")
		return
	}

	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, userToResponse(user))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// GetUser handles GET /users/{id} requests
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathUUID(r, "id")
	if err != nil {
		log.Warn("invalid user id in path", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return
	}

	user, err := h.userStore.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// UpdateUser handles PUT /users/{id} requests
// It replaces every profile property, including the password, which the
// store re-hashes before the write.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathUUID(r, "id")
	if err != nil {
		log.Warn("invalid user id in path", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateUserRequest
	if !parseAndValidateRequest(w, r, &req, log) {
		return
	}

	user, err := h.userStore.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update user")
		return
	}

	previousEmail := user.Email
	user.Name = req.Name
	user.Email = req.Email
	user.StreetAddress = req.StreetAddress
	user.Password = req.Password

	if err := h.userStore.Update(r.Context(), user); err != nil {
		// The registration wording would be misleading here, so the email
		// conflict gets an update-specific message.
		if errors.Is(err, store.ErrEmailExists) {
			shared.RespondWithErrorAndLog(
				w, r, http.StatusBadRequest, "Email already in use by another user", err)
			return
		}
		HandleAPIError(w, r, err, "Failed to update user")
		return
	}

	// Drop any cached credential entry for both the old and new address so
	// authentication re-reads the updated profile.
	h.authenticator.Invalidate(previousEmail)
	if req.Email != previousEmail {
		h.authenticator.Invalidate(req.Email)
	}

	log.Info("user updated", slog.String("user_id", user.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// PatchUser handles PATCH /users/{id} requests
// Only name and street address can be changed through a patch.
func (h *UserHandler) PatchUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathUUID(r, "id")
	if err != nil {
		log.Warn("invalid user id in path", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return
	}

	var req PatchUserRequest
	if !parseAndValidateRequest(w, r, &req, log) {
		return
	}

	user, err := h.userStore.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update user")
		return
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.StreetAddress != nil {
		user.StreetAddress = *req.StreetAddress
	}

	if err := h.userStore.Update(r.Context(), user); err != nil {
		HandleAPIError(w, r, err, "Failed to update user")
		return
	}

	// Cached credential snapshots hold profile fields, so a patch
	// invalidates them too.
	h.authenticator.Invalidate(user.Email)

	log.Info("user patched", slog.String("user_id", user.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// DeleteUser handles DELETE /users/{id} requests
// Deletion is refused while the user still owns games or appears on trade
// offers.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathUUID(r, "id")
	if err != nil {
		log.Warn("invalid user id in path", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return
	}

	// Fetch first so the credential cache entry can be dropped by email.
	user, err := h.userStore.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to delete user")
		return
	}

	if err := h.userStore.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete user")
		return
	}

	h.authenticator.Invalidate(user.Email)

	log.Info("user deleted", slog.String("user_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

// userToResponse converts a domain.User to a UserResponse
func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		StreetAddress: user.StreetAddress,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
		Links:         buildUserLinks(user.ID),
	}
}
