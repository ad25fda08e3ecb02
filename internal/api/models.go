package api

import (
	"time"

	"github.com/google/uuid"
)

// Common request/response structures

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	// Field renamed from Token for clarity but JSON field name kept for backward compatibility
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	// RefreshToken is the JWT refresh token to be used to obtain a new token pair
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	// AccessToken is the new JWT token used for API authorization
	AccessToken string `json:"access_token"`

	// RefreshToken is the new JWT token used to obtain future access tokens
	RefreshToken string `json:"refresh_token"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at"`
}

// User request/response structures

// CreateUserRequest defines the payload for registering a new user.
type CreateUserRequest struct {
	Name          string `json:"name"           validate:"required"`
	Email         string `json:"email"          validate:"required,email"`
	StreetAddress string `json:"street_address" validate:"required"`
	Password      string `json:"password"       validate:"required,min=8,max=72"`
}

// UpdateUserRequest defines the payload for fully replacing a user's profile.
// A replace carries every property, so it also sets a new password, which is
// re-hashed before storage.
type UpdateUserRequest struct {
	Name          string `json:"name"           validate:"required"`
	Email         string `json:"email"          validate:"required,email"`
	StreetAddress string `json:"street_address" validate:"required"`
	Password      string `json:"password"       validate:"required,min=8,max=72"`
}

// PatchUserRequest defines the payload for partially updating a user's
// profile. Only the fields present in the request are changed; email and
// password cannot be modified through a patch.
type PatchUserRequest struct {
	Name          *string `json:"name,omitempty"           validate:"omitempty,min=1"`
	StreetAddress *string `json:"street_address,omitempty" validate:"omitempty,min=1"`
}

// UserResponse defines the user representation returned by the API.
type UserResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	StreetAddress string    `json:"street_address"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Links         Links     `json:"_links"`
}

// Game request/response structures

// CreateGameRequest defines the payload for cataloguing a new game.
type CreateGameRequest struct {
	Name           string    `json:"name"            validate:"required"`
	Publisher      string    `json:"publisher"       validate:"required"`
	YearPublished  int       `json:"year_published"  validate:"required,gt=0"`
	System         string    `json:"system"          validate:"required"`
	Condition      string    `json:"condition"       validate:"required,oneof=mint good fair poor"`
	PreviousOwners *int      `json:"previous_owners" validate:"omitempty,gte=0"`
	OwnerID        uuid.UUID `json:"owner_id"        validate:"required"`
}

// UpdateGameRequest defines the payload for fully replacing a game record.
// Unlike a patch, a full update may reassign the game to a different owner.
type UpdateGameRequest struct {
	Name           string    `json:"name"            validate:"required"`
	Publisher      string    `json:"publisher"       validate:"required"`
	YearPublished  int       `json:"year_published"  validate:"required,gt=0"`
	System         string    `json:"system"          validate:"required"`
	Condition      string    `json:"condition"       validate:"required,oneof=mint good fair poor"`
	PreviousOwners *int      `json:"previous_owners" validate:"omitempty,gte=0"`
	OwnerID        uuid.UUID `json:"owner_id"        validate:"required"`
}

// PatchGameRequest defines the payload for partially updating a game record.
// Ownership cannot be changed through a patch.
type PatchGameRequest struct {
	Name           *string `json:"name,omitempty"            validate:"omitempty,min=1"`
	Publisher      *string `json:"publisher,omitempty"       validate:"omitempty,min=1"`
	YearPublished  *int    `json:"year_published,omitempty"  validate:"omitempty,gt=0"`
	System         *string `json:"system,omitempty"          validate:"omitempty,min=1"`
	Condition      *string `json:"condition,omitempty"       validate:"omitempty,oneof=mint good fair poor"`
	PreviousOwners *int    `json:"previous_owners,omitempty" validate:"omitempty,gte=0"`
}

// GameResponse defines the game representation returned by the API.
type GameResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Publisher      string    `json:"publisher"`
	YearPublished  int       `json:"year_published"`
	System         string    `json:"system"`
	Condition      string    `json:"condition"`
	PreviousOwners int       `json:"previous_owners"`
	OwnerID        uuid.UUID `json:"owner_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Links          Links     `json:"_links"`
}

// Trade offer request/response structures

// CreateTradeOfferRequest defines the payload for proposing a trade. The
// offered game is chosen automatically: the proposer's earliest-added game.
type CreateTradeOfferRequest struct {
	RecipientID     uuid.UUID `json:"recipient_id"      validate:"required"`
	RequestedGameID uuid.UUID `json:"requested_game_id" validate:"required"`
	Message         string    `json:"message"`
}

// RespondTradeOfferRequest defines the payload for answering a pending
// trade offer. The status field is validated by the trade service so that
// out-of-range values produce a precise error instead of a generic one.
type RespondTradeOfferRequest struct {
	Status string `json:"status" validate:"required"`
}

// TradeOfferResponse defines the trade offer representation returned by the
// API. RespondedAt is null until the recipient accepts or rejects the offer.
type TradeOfferResponse struct {
	ID              uuid.UUID  `json:"id"`
	ProposerID      uuid.UUID  `json:"proposer_id"`
	RecipientID     uuid.UUID  `json:"recipient_id"`
	OfferedGameID   uuid.UUID  `json:"offered_game_id"`
	RequestedGameID uuid.UUID  `json:"requested_game_id"`
	Status          string     `json:"status"`
	Message         string     `json:"message,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	RespondedAt     *time.Time `json:"responded_at"`
	Links           Links      `json:"_links"`
}
