package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application. Entity-specific
// validation errors live next to their entity.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an identifier cannot be parsed as a UUID.
	ErrInvalidID = errors.New("invalid identifier")

	// ErrUnauthorized is returned when an operation is not permitted
	// for the authenticated user.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// validationSentinels lists every entity validation sentinel, i.e. the
// errors Validate methods return when the caller supplied bad data.
var validationSentinels = []error{
	ErrValidation,
	ErrInvalidID,
	ErrEmptyUserID,
	ErrEmptyUserName,
	ErrEmptyEmail,
	ErrInvalidEmail,
	ErrEmptyStreetAddress,
	ErrPasswordTooShort,
	ErrPasswordTooLong,
	ErrEmptyPassword,
	ErrEmptyGameID,
	ErrEmptyGameName,
	ErrEmptyPublisher,
	ErrEmptySystem,
	ErrInvalidYearPublished,
	ErrInvalidCondition,
	ErrNegativePreviousOwners,
	ErrEmptyOwnerID,
	ErrEmptyTradeOfferID,
	ErrEmptyProposerID,
	ErrEmptyRecipientID,
	ErrEmptyOfferedGameID,
	ErrEmptyRequestedGameID,
	ErrSameTradeParties,
	ErrInvalidTradeOfferStatus,
}

// IsValidationError reports whether err is (or wraps) one of the entity
// validation sentinels or a field-level ValidationError.
func IsValidationError(err error) bool {
	for _, sentinel := range validationSentinels {
		if errors.Is(err, sentinel) {
			return true
		}
	}

	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// ValidationError carries the field that failed validation alongside a
// human-readable message. It wraps a sentinel so callers can branch with
// errors.Is while the API layer surfaces the field-level detail.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped sentinel error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
