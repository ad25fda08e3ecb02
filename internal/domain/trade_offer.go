package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TradeOfferStatus represents the lifecycle state of a trade offer.
type TradeOfferStatus string

// Possible trade offer status values. An offer starts pending and moves
// exactly once to one of the three terminal states.
const (
	TradeOfferStatusPending   TradeOfferStatus = "pending"
	TradeOfferStatusAccepted  TradeOfferStatus = "accepted"
	TradeOfferStatusRejected  TradeOfferStatus = "rejected"
	TradeOfferStatusCancelled TradeOfferStatus = "cancelled"
)

// Common validation errors for TradeOffer
var (
	ErrEmptyTradeOfferID       = errors.New("trade offer ID cannot be empty")
	ErrEmptyProposerID         = errors.New("trade offer proposer ID cannot be empty")
	ErrEmptyRecipientID        = errors.New("trade offer recipient ID cannot be empty")
	ErrEmptyOfferedGameID      = errors.New("offered game ID cannot be empty")
	ErrEmptyRequestedGameID    = errors.New("requested game ID cannot be empty")
	ErrSameTradeParties        = errors.New("proposer and recipient must be different users")
	ErrInvalidTradeOfferStatus = errors.New("invalid trade offer status")

	// ErrTradeOfferNotPending is returned by state transitions attempted on
	// an offer that has already reached a terminal state.
	ErrTradeOfferNotPending = errors.New("trade offer is not pending")
)

// TradeOffer represents a proposal by one user to swap one of their games
// for a game owned by another user. RespondedAt is set only when the
// recipient accepts or rejects; a proposer cancellation leaves it nil.
type TradeOffer struct {
	ID              uuid.UUID        `json:"id"`
	ProposerID      uuid.UUID        `json:"proposer_id"`
	RecipientID     uuid.UUID        `json:"recipient_id"`
	OfferedGameID   uuid.UUID        `json:"offered_game_id"`
	RequestedGameID uuid.UUID        `json:"requested_game_id"`
	Message         string           `json:"message,omitempty"`
	Status          TradeOfferStatus `json:"status"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	RespondedAt     *time.Time       `json:"responded_at,omitempty"`
}

// NewTradeOffer creates a new pending TradeOffer between the given parties.
// It generates a new UUID for the offer ID and sets the creation/update
// timestamps. Returns an error if validation fails.
func NewTradeOffer(
	proposerID, recipientID, offeredGameID, requestedGameID uuid.UUID,
	message string,
) (*TradeOffer, error) {
	offer := &TradeOffer{
		ID:              uuid.New(),
		ProposerID:      proposerID,
		RecipientID:     recipientID,
		OfferedGameID:   offeredGameID,
		RequestedGameID: requestedGameID,
		Message:         message,
		Status:          TradeOfferStatusPending,
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}

	if err := offer.Validate(); err != nil {
		return nil, err
	}

	return offer, nil
}

// Validate checks if the TradeOffer has valid data.
// Returns an error if any field fails validation.
func (o *TradeOffer) Validate() error {
	if o.ID == uuid.Nil {
		return ErrEmptyTradeOfferID
	}

	if o.ProposerID == uuid.Nil {
		return ErrEmptyProposerID
	}

	if o.RecipientID == uuid.Nil {
		return ErrEmptyRecipientID
	}

	if o.ProposerID == o.RecipientID {
		return ErrSameTradeParties
	}

	if o.OfferedGameID == uuid.Nil {
		return ErrEmptyOfferedGameID
	}

	if o.RequestedGameID == uuid.Nil {
		return ErrEmptyRequestedGameID
	}

	if !isValidTradeOfferStatus(o.Status) {
		return ErrInvalidTradeOfferStatus
	}

	return nil
}

// Accept marks a pending offer as accepted by the recipient and stamps
// RespondedAt. Returns ErrTradeOfferNotPending if the offer has already
// reached a terminal state.
func (o *TradeOffer) Accept() error {
	return o.respond(TradeOfferStatusAccepted)
}

// Reject marks a pending offer as rejected by the recipient and stamps
// RespondedAt. Returns ErrTradeOfferNotPending if the offer has already
// reached a terminal state.
func (o *TradeOffer) Reject() error {
	return o.respond(TradeOfferStatusRejected)
}

// Cancel marks a pending offer as cancelled by the proposer. Cancellation
// is a withdrawal, not a response, so RespondedAt stays nil. Returns
// ErrTradeOfferNotPending if the offer has already reached a terminal state.
func (o *TradeOffer) Cancel() error {
	if o.Status != TradeOfferStatusPending {
		return ErrTradeOfferNotPending
	}

	o.Status = TradeOfferStatusCancelled
	o.UpdatedAt = time.Now().UTC()
	return nil
}

func (o *TradeOffer) respond(status TradeOfferStatus) error {
	if o.Status != TradeOfferStatusPending {
		return ErrTradeOfferNotPending
	}

	now := time.Now().UTC()
	o.Status = status
	o.RespondedAt = &now
	o.UpdatedAt = now
	return nil
}

// Terminal reports whether the status is one of the final states from
// which no further transitions are allowed.
func (s TradeOfferStatus) Terminal() bool {
	switch s {
	case TradeOfferStatusAccepted, TradeOfferStatusRejected, TradeOfferStatusCancelled:
		return true
	default:
		return false
	}
}

// ParseTradeOfferStatus converts a raw string into a TradeOfferStatus.
// Returns ErrInvalidTradeOfferStatus if the string is not a known status.
func ParseTradeOfferStatus(s string) (TradeOfferStatus, error) {
	status := TradeOfferStatus(s)
	if !isValidTradeOfferStatus(status) {
		return "", ErrInvalidTradeOfferStatus
	}
	return status, nil
}

// isValidTradeOfferStatus checks if the given status is a valid TradeOfferStatus.
func isValidTradeOfferStatus(status TradeOfferStatus) bool {
	switch status {
	case TradeOfferStatusPending, TradeOfferStatusAccepted,
		TradeOfferStatusRejected, TradeOfferStatusCancelled:
		return true
	default:
		return false
	}
}
