package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/api/shared"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/domain"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/service/auth"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/service/trade"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
//
// The taxonomy: absent resources are 404, wrong-party actions are 403,
// authentication failures are 401, and every validation or business-rule
// violation — including transitions attempted on a non-pending offer — is
// a 400. Anything unrecognized is a 500.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Authorization errors: the caller exists but is the wrong party
	case errors.Is(err, trade.ErrNotRecipient),
		errors.Is(err, trade.ErrNotProposer),
		errors.Is(err, trade.ErrNotParty):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, trade.ErrOfferNotFound),
		errors.Is(err, trade.ErrRequestedGameNotFound),
		errors.Is(err, trade.ErrRecipientNotFound),
		store.IsNotFoundError(err):
		return http.StatusNotFound

	// Validation and business-rule errors
	case errors.Is(err, trade.ErrGameNotOwnedByRecipient),
		errors.Is(err, trade.ErrSelfTrade),
		errors.Is(err, trade.ErrNoGameToOffer),
		errors.Is(err, trade.ErrDuplicatePendingOffer),
		errors.Is(err, trade.ErrInvalidResponseStatus),
		errors.Is(err, domain.ErrTradeOfferNotPending),
		store.IsDuplicateError(err),
		errors.Is(err, store.ErrInUse),
		errors.Is(err, store.ErrInvalidEntity),
		domain.IsValidationError(err):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	// Handle nil error
	if err == nil {
		return "An unexpected error occurred"
	}

	// Transitions attempted on a non-pending offer name the status that won.
	var conflict *trade.StatusConflictError
	if errors.As(err, &conflict) {
		return fmt.Sprintf("Cannot %s an offer with status: %s", conflict.Action, conflict.Current)
	}

	// Field-level validation failures name the field.
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		if validationErr.Field == "" {
			return validationErr.Message
		}
		return fmt.Sprintf("Invalid %s: %s", validationErr.Field, validationErr.Message)
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid email or password"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized operation"

	// Authorization errors
	case errors.Is(err, trade.ErrNotRecipient):
		return "Only the recipient can respond to this trade offer"

	case errors.Is(err, trade.ErrNotProposer):
		return "Only the proposer can cancel this trade offer"

	case errors.Is(err, trade.ErrNotParty):
		return "You are not authorized to view this trade offer"

	// Not found errors
	case errors.Is(err, trade.ErrRequestedGameNotFound):
		return "Requested game not found"

	case errors.Is(err, trade.ErrRecipientNotFound):
		return "Recipient user not found"

	case errors.Is(err, trade.ErrOfferNotFound),
		errors.Is(err, store.ErrTradeOfferNotFound):
		return "Trade offer not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrGameNotFound):
		return "Game not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	// Trade offer business rules
	case errors.Is(err, trade.ErrGameNotOwnedByRecipient):
		return "Requested game is not owned by the specified recipient"

	case errors.Is(err, trade.ErrSelfTrade),
		errors.Is(err, domain.ErrSameTradeParties):
		return "Cannot create a trade offer for yourself"

	case errors.Is(err, trade.ErrNoGameToOffer):
		return "You must own at least one game to create a trade offer"

	case errors.Is(err, trade.ErrDuplicatePendingOffer),
		errors.Is(err, store.ErrDuplicatePendingOffer):
		return "A pending trade offer for these games already exists"

	case errors.Is(err, trade.ErrInvalidResponseStatus):
		return "Recipients can only accept or reject offers"

	case errors.Is(err, domain.ErrTradeOfferNotPending):
		return "Trade offer is no longer pending"

	case errors.Is(err, domain.ErrInvalidTradeOfferStatus):
		return "Invalid trade offer status"

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return "Email already registered"

	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	case errors.Is(err, store.ErrUserInUse):
		return "Cannot delete a user who still owns games or has trade offers"

	case errors.Is(err, store.ErrGameInUse):
		return "Cannot delete a game that trade offers reference"

	case errors.Is(err, store.ErrInUse):
		return "Cannot delete an entity that other entities reference"

	// Validation errors
	case errors.Is(err, domain.ErrInvalidEmail):
		return "Invalid email format"

	case errors.Is(err, domain.ErrPasswordTooShort):
		return "Password must be at least 8 characters long"

	case errors.Is(err, domain.ErrPasswordTooLong):
		return "Password must be at most 72 characters long"

	case errors.Is(err, domain.ErrInvalidCondition):
		return "Invalid game condition: must be one of mint, good, fair, poor"

	case errors.Is(err, domain.ErrInvalidYearPublished):
		return "Year published must be a positive year"

	case errors.Is(err, domain.ErrNegativePreviousOwners):
		return "Previous owners cannot be negative"

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case domain.IsValidationError(err):
		return "Validation error"

	// Default case for unknown errors
	default:
		var storeErr *store.StoreError
		if errors.As(err, &storeErr) {
			return fmt.Sprintf("Operation failed: %s", storeErr.Message)
		}

		var serviceErr *trade.ServiceError
		if errors.As(err, &serviceErr) {
			return "Trade offer operation failed"
		}

		return "An unexpected error occurred"
	}
}

// HandleAPIError maps an error to its status code and safe message, logs the
// underlying error, and writes the uniform error body. For unrecognized
// errors (500s) the caller-supplied defaultMsg replaces the generic message
// when provided; recognized errors always use their canonical message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	status := MapErrorToStatusCode(err)

	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && defaultMsg != "" {
		message = defaultMsg
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// HandleValidationError writes a 400 response for a failed request
// validation, carrying field-level details when the error exposes them.
func HandleValidationError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			fmt.Sprintf("Invalid %s: %s", validationErr.Field, validationErr.Message))
		return
	}

	if details := shared.ValidationDetails(err); details != nil {
		shared.RespondWithErrorDetails(w, r, http.StatusBadRequest, "Validation error", details)
		return
	}

	shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		if validationErr.Field == "" {
			return validationErr.Message
		}
		return fmt.Sprintf("Invalid %s: %s", validationErr.Field, validationErr.Message)
	}

	errMsg := err.Error()

	// Check if this is likely a validation error message
	if strings.Contains(errMsg, "Field validation") {
		// Extract the field name and validation tag
		// Example format: "Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	// Fall back to a generic validation error message
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
