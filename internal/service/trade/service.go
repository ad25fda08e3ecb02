// Package trade implements the trade offer engine: proposing a swap of one
// game for another, responding to the proposal, and withdrawing it. All
// lifecycle rules — who may act, from which state, and what gets stamped —
// are enforced here rather than in the HTTP layer.
package trade

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/domain"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/store"
)

// CreateOfferInput carries the caller-supplied fields of a new trade offer.
// The proposer is the authenticated caller and the offered game is chosen by
// the engine, so neither appears here.
type CreateOfferInput struct {
	RecipientID     uuid.UUID `json:"recipient_id"`
	RequestedGameID uuid.UUID `json:"requested_game_id"`
	Message         string    `json:"message,omitempty"`
}

// TradeOfferService provides the trade offer operations exposed by the API.
type TradeOfferService interface {
	// CreateOffer proposes a swap: the proposer's earliest-added game for
	// the requested game owned by the recipient.
	//
	// The validation sequence fails fast with distinct errors:
	//   1. the requested game must exist (ErrRequestedGameNotFound)
	//   2. the recipient must exist (ErrRecipientNotFound)
	//   3. the requested game must be owned by the recipient
	//      (ErrGameNotOwnedByRecipient)
	//   4. the proposer and recipient must differ (ErrSelfTrade)
	//   5. the proposer must own at least one game (ErrNoGameToOffer)
	//   6. no pending offer may exist for the same parties and games
	//      (ErrDuplicatePendingOffer)
	//
	// The sequence and the insert run in one transaction; a concurrent
	// duplicate insert also surfaces as ErrDuplicatePendingOffer.
	CreateOffer(
		ctx context.Context,
		proposerID uuid.UUID,
		input CreateOfferInput,
	) (*domain.TradeOffer, error)

	// GetOffer retrieves a single offer.
	// Returns ErrOfferNotFound if the offer does not exist and ErrNotParty
	// if the caller is neither the proposer nor the recipient.
	GetOffer(ctx context.Context, userID, offerID uuid.UUID) (*domain.TradeOffer, error)

	// ListOffers retrieves the offers on which the caller is a party,
	// narrowed by the filter, newest first.
	ListOffers(
		ctx context.Context,
		userID uuid.UUID,
		filter store.TradeOfferFilter,
	) ([]*domain.TradeOffer, error)

	// RespondToOffer lets the recipient accept or reject a pending offer.
	//
	// Returns ErrInvalidResponseStatus when the response is anything other
	// than accepted or rejected, ErrNotRecipient when the caller is not the
	// recipient, ErrOfferNotFound when the offer does not exist, and a
	// *StatusConflictError when the offer has already left the pending
	// state — including when a concurrent transition wins the race.
	RespondToOffer(
		ctx context.Context,
		userID, offerID uuid.UUID,
		response domain.TradeOfferStatus,
	) (*domain.TradeOffer, error)

	// CancelOffer lets the proposer withdraw a pending offer. Cancellation
	// is not a response: responded_at stays null.
	//
	// Returns ErrNotProposer when the caller is not the proposer,
	// ErrOfferNotFound when the offer does not exist, and a
	// *StatusConflictError when the offer has already left the pending state.
	CancelOffer(ctx context.Context, userID, offerID uuid.UUID) error
}

// Common error types for TradeOfferService
var (
	// ErrOfferNotFound indicates that the trade offer does not exist.
	ErrOfferNotFound = errors.New("trade offer not found")

	// ErrRequestedGameNotFound indicates that the requested game does not exist.
	ErrRequestedGameNotFound = errors.New("requested game not found")

	// ErrRecipientNotFound indicates that the recipient user does not exist.
	ErrRecipientNotFound = errors.New("recipient user not found")

	// ErrGameNotOwnedByRecipient indicates that the requested game belongs
	// to someone other than the named recipient.
	ErrGameNotOwnedByRecipient = errors.New(
		"requested game is not owned by the specified recipient",
	)

	// ErrSelfTrade indicates that the proposer tried to open an offer with
	// themselves as the recipient.
	ErrSelfTrade = errors.New("cannot create a trade offer for yourself")

	// ErrNoGameToOffer indicates that the proposer owns no games and so has
	// nothing to put on their side of the trade.
	ErrNoGameToOffer = errors.New("proposer owns no games to offer")

	// ErrDuplicatePendingOffer indicates that a pending offer already exists
	// for the same proposer, recipient, and pair of games.
	ErrDuplicatePendingOffer = errors.New(
		"a pending trade offer for these games already exists",
	)

	// ErrNotRecipient indicates that a user other than the recipient tried
	// to respond to the offer.
	ErrNotRecipient = errors.New("only the recipient can respond to this trade offer")

	// ErrNotProposer indicates that a user other than the proposer tried to
	// cancel the offer.
	ErrNotProposer = errors.New("only the proposer can cancel this trade offer")

	// ErrNotParty indicates that the user is neither the proposer nor the
	// recipient of the offer.
	ErrNotParty = errors.New("user is not a party to this trade offer")

	// ErrInvalidResponseStatus indicates a response other than accepted or
	// rejected.
	ErrInvalidResponseStatus = errors.New("recipients can only accept or reject offers")
)

// StatusConflictError reports a transition attempted on an offer that has
// already reached a terminal state. Action is the attempted action as a verb
// phrase ("respond to", "cancel"); Current is the status the offer actually
// holds. It unwraps to domain.ErrTradeOfferNotPending so callers can treat
// all conflict flavors uniformly with errors.Is.
type StatusConflictError struct {
	Action  string
	Current domain.TradeOfferStatus
}

// Error implements the error interface for StatusConflictError.
func (e *StatusConflictError) Error() string {
	return fmt.Sprintf("cannot %s an offer with status: %s", e.Action, e.Current)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StatusConflictError) Unwrap() error {
	return domain.ErrTradeOfferNotPending
}

// ServiceError wraps unexpected failures from the trade offer service with
// the operation that produced them, so consumers can differentiate with
// errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "create_offer")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewCreateOfferError returns a new ServiceError for the create_offer operation.
func NewCreateOfferError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "create_offer", Message: message, Err: err}
}

// NewGetOfferError returns a new ServiceError for the get_offer operation.
func NewGetOfferError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "get_offer", Message: message, Err: err}
}

// NewListOffersError returns a new ServiceError for the list_offers operation.
func NewListOffersError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "list_offers", Message: message, Err: err}
}

// NewRespondError returns a new ServiceError for the respond_to_offer operation.
func NewRespondError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "respond_to_offer", Message: message, Err: err}
}

// NewCancelError returns a new ServiceError for the cancel_offer operation.
func NewCancelError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "cancel_offer", Message: message, Err: err}
}
