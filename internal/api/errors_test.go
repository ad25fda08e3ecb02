package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/domain"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/service/auth"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/service/trade"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{
			name:           "nil error",
			err:            nil,
			expectedStatus: http.StatusInternalServerError, // Default to 500 for nil error
		},
		{
			name:           "authentication error",
			err:            auth.ErrInvalidToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrapped authentication error",
			err:            fmt.Errorf("failed to authenticate: %w", auth.ErrInvalidToken),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid credentials",
			err:            auth.ErrInvalidCredentials,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "authorization error - not recipient",
			err:            trade.ErrNotRecipient,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "authorization error - not proposer",
			err:            trade.ErrNotProposer,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "authorization error - not a party",
			err:            trade.ErrNotParty,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "not found error",
			err:            store.ErrGameNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "trade offer not found",
			err:            trade.ErrOfferNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "duplicate email is a bad request",
			err:            store.ErrEmailExists,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "duplicate pending offer is a bad request",
			err:            trade.ErrDuplicatePendingOffer,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "self trade is a bad request",
			err:            trade.ErrSelfTrade,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "terminal offer transition is a bad request",
			err:            domain.ErrTradeOfferNotPending,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "status conflict is a bad request",
			err: &trade.StatusConflictError{
				Action:  "respond to",
				Current: domain.TradeOfferStatusAccepted,
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "referenced user delete is a bad request",
			err:            store.ErrUserInUse,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request error",
			err:            store.ErrInvalidEntity,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown error",
			err:            errors.New("unknown error"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := MapErrorToStatusCode(tt.err)
			assert.Equal(t, tt.expectedStatus, status)
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedMessage string
	}{
		{
			name:            "nil error",
			err:             nil,
			expectedMessage: "An unexpected error occurred",
		},
		{
			name:            "authentication error",
			err:             auth.ErrInvalidToken,
			expectedMessage: "Invalid token",
		},
		{
			name:            "wrapped authentication error",
			err:             fmt.Errorf("failed due to: %w", auth.ErrInvalidToken),
			expectedMessage: "Invalid token",
		},
		{
			name:            "invalid credentials",
			err:             auth.ErrInvalidCredentials,
			expectedMessage: "Invalid email or password",
		},
		{
			name:            "not recipient error",
			err:             trade.ErrNotRecipient,
			expectedMessage: "Only the recipient can respond to this trade offer",
		},
		{
			name:            "not proposer error",
			err:             trade.ErrNotProposer,
			expectedMessage: "Only the proposer can cancel this trade offer",
		},
		{
			name:            "not a party error",
			err:             trade.ErrNotParty,
			expectedMessage: "You are not authorized to view this trade offer",
		},
		{
			name:            "self trade error",
			err:             trade.ErrSelfTrade,
			expectedMessage: "Cannot create a trade offer for yourself",
		},
		{
			name:            "no game to offer error",
			err:             trade.ErrNoGameToOffer,
			expectedMessage: "You must own at least one game to create a trade offer",
		},
		{
			name:            "duplicate pending offer error",
			err:             trade.ErrDuplicatePendingOffer,
			expectedMessage: "A pending trade offer for these games already exists",
		},
		{
			name: "status conflict names the winning status",
			err: &trade.StatusConflictError{
				Action:  "respond to",
				Current: domain.TradeOfferStatusAccepted,
			},
			expectedMessage: "Cannot respond to an offer with status: accepted",
		},
		{
			name: "cancel conflict names the winning status",
			err: &trade.StatusConflictError{
				Action:  "cancel",
				Current: domain.TradeOfferStatusRejected,
			},
			expectedMessage: "Cannot cancel an offer with status: rejected",
		},
		{
			name:            "user in use error",
			err:             store.ErrUserInUse,
			expectedMessage: "Cannot delete a user who still owns games or has trade offers",
		},
		{
			name:            "game in use error",
			err:             store.ErrGameInUse,
			expectedMessage: "Cannot delete a game that trade offers reference",
		},
		{
			name:            "unknown error",
			err:             errors.New("database error: connection refused"),
			expectedMessage: "An unexpected error occurred", // Database error details are hidden
		},
		{
			name: "wrapped database error with SQL details",
			err: fmt.Errorf(
				"SQL error: %w",
				errors.New("syntax error at line 42 in SELECT * FROM users"),
			),
			expectedMessage: "An unexpected error occurred", // SQL details are hidden
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			message := GetSafeErrorMessage(tt.err)
			assert.Equal(t, tt.expectedMessage, message)

			// Verify no sensitive details are leaked
			if tt.err != nil {
				if tt.expectedMessage == "An unexpected error occurred" {
					assert.NotContains(
						t,
						message,
						tt.err.Error(),
						"Error message should not contain the actual error",
					)
				}
			}
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	testError := errors.New(
		"Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag",
	)
	safeMessage := SanitizeValidationError(testError)

	// The sanitized message should not contain the full error details
	assert.NotEqual(t, testError.Error(), safeMessage)

	// It should contain a user-friendly reference to the field
	assert.Contains(t, safeMessage, "Email")

	// Verify that the specific field and tag are present in a user-friendly format
	assert.Equal(t, "Invalid Email: required field", safeMessage)

	// Test with a different format error
	otherError := errors.New("Some other kind of error")
	genericMessage := SanitizeValidationError(otherError)
	assert.Equal(t, "Validation error", genericMessage)
}

// TestMapErrorToStatusCodeWithCustomErrorTypes tests how error mapping handles custom error types
func TestMapErrorToStatusCodeWithCustomErrorTypes(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{
			name:           "domain validation error",
			err:            domain.NewValidationError("email", "must be valid format", nil),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "domain validation error wrapped",
			err: fmt.Errorf(
				"validation failed: %w",
				domain.NewValidationError("password", "too short", nil),
			),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "trade service error - respond",
			err:            trade.NewRespondError("failed to process", nil),
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "trade service error - create offer",
			err:            trade.NewCreateOfferError("database error", nil),
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "trade service error wrapping not found",
			err:            trade.NewGetOfferError("not found", trade.ErrOfferNotFound),
			expectedStatus: http.StatusNotFound, // Should check the wrapped error
		},
		{
			name: "trade service error wrapping status conflict",
			err: trade.NewRespondError("conflict", &trade.StatusConflictError{
				Action:  "respond to",
				Current: domain.TradeOfferStatusCancelled,
			}),
			expectedStatus: http.StatusBadRequest, // Unwraps to the not-pending sentinel
		},
		{
			name: "store error wrapping validation",
			err: store.NewStoreError(
				"user",
				"create",
				"validation failed",
				domain.ErrValidation,
			),
			expectedStatus: http.StatusBadRequest, // Should check the wrapped domain.ErrValidation
		},
		{
			name:           "store error wrapping not found",
			err:            store.NewStoreError("game", "get", "not found", store.ErrGameNotFound),
			expectedStatus: http.StatusNotFound, // Should check the wrapped store.ErrGameNotFound
		},
		{
			name: "store error wrapping duplicate",
			err: store.NewStoreError(
				"user",
				"create",
				"already exists",
				store.ErrEmailExists,
			),
			expectedStatus: http.StatusBadRequest, // Duplicates surface as validation failures
		},
		{
			name: "store error with no specific wrapped error",
			err: store.NewStoreError(
				"trade offer",
				"update",
				"database error",
				errors.New("connection refused"),
			),
			expectedStatus: http.StatusInternalServerError, // Generic error
		},
		{
			name: "deeply nested error",
			err: fmt.Errorf(
				"outer: %w",
				fmt.Errorf(
					"middle: %w",
					store.NewStoreError("user", "get", "lookup failed", store.ErrUserNotFound),
				),
			),
			expectedStatus: http.StatusNotFound, // Should unwrap to the store.ErrUserNotFound
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := MapErrorToStatusCode(tt.err)
			assert.Equal(t, tt.expectedStatus, status)
		})
	}
}

// TestGetSafeErrorMessageWithCustomErrorTypes tests error messages for custom error types
func TestGetSafeErrorMessageWithCustomErrorTypes(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedMessage string
	}{
		{
			name:            "domain validation error with field",
			err:             domain.NewValidationError("email", "must be valid format", nil),
			expectedMessage: "Invalid email: must be valid format",
		},
		{
			name: "domain validation error without field",
			err: domain.NewValidationError(
				"",
				"validation failed",
				domain.ErrValidation,
			),
			expectedMessage: "validation failed", // Matches the ValidationError.Message directly
		},
		{
			name: "domain validation error wrapped",
			err: fmt.Errorf(
				"validation failed: %w",
				domain.NewValidationError("password", "too short", nil),
			),
			expectedMessage: "Invalid password: too short",
		},
		{
			name:            "trade service error - respond",
			err:             trade.NewRespondError("failed to process", nil),
			expectedMessage: "Trade offer operation failed",
		},
		{
			name:            "trade service error - create offer",
			err:             trade.NewCreateOfferError("database error", nil),
			expectedMessage: "Trade offer operation failed",
		},
		{
			name:            "trade service error wrapping not found",
			err:             trade.NewGetOfferError("not found", trade.ErrOfferNotFound),
			expectedMessage: "Trade offer not found", // Should check the wrapped error
		},
		{
			name: "trade service error wrapping status conflict",
			err: trade.NewCancelError("conflict", &trade.StatusConflictError{
				Action:  "cancel",
				Current: domain.TradeOfferStatusAccepted,
			}),
			expectedMessage: "Cannot cancel an offer with status: accepted",
		},
		{
			name: "store error wrapping validation",
			err: store.NewStoreError(
				"user",
				"create",
				"validation failed",
				domain.ErrValidation,
			),
			expectedMessage: "Validation error", // Should check the wrapped domain.ErrValidation
		},
		{
			name:            "store error wrapping not found",
			err:             store.NewStoreError("game", "get", "not found", store.ErrGameNotFound),
			expectedMessage: "Game not found", // Should check the wrapped store.ErrGameNotFound
		},
		{
			name: "store error wrapping email exists",
			err: store.NewStoreError(
				"user",
				"create",
				"already exists",
				store.ErrEmailExists,
			),
			expectedMessage: "Email already registered", // Should check the wrapped store.ErrEmailExists
		},
		{
			name: "store error with generic error",
			err: store.NewStoreError(
				"trade offer",
				"update",
				"database error",
				errors.New("connection refused"),
			),
			expectedMessage: "Operation failed: database error", // Matches the StoreError message format
		},
		{
			name: "deeply nested error",
			err: fmt.Errorf(
				"outer: %w",
				fmt.Errorf(
					"middle: %w",
					store.NewStoreError("user", "get", "lookup failed", store.ErrUserNotFound),
				),
			),
			expectedMessage: "User not found", // Should unwrap to the store.ErrUserNotFound
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			message := GetSafeErrorMessage(tt.err)
			assert.Equal(t, tt.expectedMessage, message)

			// For errors that should return a generic message, ensure no sensitive details are leaked
			if tt.expectedMessage == "An unexpected error occurred" {
				assert.NotContains(
					t,
					message,
					tt.err.Error(),
					"Error message should not contain the actual error",
				)
			}
		})
	}
}

// TestSanitizeValidationErrorWithCustomTypes tests validation error sanitization with custom types
func TestSanitizeValidationErrorWithCustomTypes(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedMessage string
	}{
		{
			name:            "domain validation error with field",
			err:             domain.NewValidationError("email", "must be valid format", nil),
			expectedMessage: "Invalid email: must be valid format",
		},
		{
			name:            "domain validation error without field",
			err:             domain.NewValidationError("", "validation failed", nil),
			expectedMessage: "validation failed",
		},
		{
			name: "domain validation error with nil wrapped error",
			err: domain.NewValidationError(
				"password",
				"must be at least 8 characters",
				nil,
			),
			expectedMessage: "Invalid password: must be at least 8 characters",
		},
		{
			name: "domain validation error with specific wrapped error",
			err: domain.NewValidationError(
				"email",
				"must be unique",
				store.ErrDuplicate,
			),
			expectedMessage: "Invalid email: must be unique",
		},
		{
			name: "wrapped domain validation error",
			err: fmt.Errorf(
				"failed to create user: %w",
				domain.NewValidationError("email", "already exists", store.ErrEmailExists),
			),
			expectedMessage: "Invalid email: already exists",
		},
		{
			name:            "non-validation error",
			err:             errors.New("some other error"),
			expectedMessage: "Validation error", // Generic message for non-validation errors
		},
		{
			name: "validator library error format",
			err: errors.New(
				"Key: 'CreateUserRequest.Password' Error:Field validation for 'Password' failed on the 'min' tag",
			),
			expectedMessage: "Invalid Password: too short",
		},
		{
			name:            "malformed validator error",
			err:             errors.New("Field validation for Email failed"),
			expectedMessage: "Validation error", // Fallback for malformed validator error
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			message := SanitizeValidationError(tt.err)
			assert.Equal(t, tt.expectedMessage, message)

			// Verify no sensitive error details are leaked
			if !errors.As(tt.err, new(*domain.ValidationError)) {
				assert.NotContains(
					t,
					message,
					tt.err.Error(),
					"Sanitized message should not contain raw error details",
				)
			}
		})
	}
}
