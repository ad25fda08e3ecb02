package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/domain"
)

// TradeOfferFilter narrows a trade offer listing. Zero values mean the
// criterion is not applied.
type TradeOfferFilter struct {
	// Status matches offers with exactly this status.
	Status domain.TradeOfferStatus

	// ProposerID matches offers proposed by this user.
	ProposerID uuid.UUID

	// RecipientID matches offers received by this user.
	RecipientID uuid.UUID
}

// TradeOfferStore defines the interface for trade offer data persistence.
type TradeOfferStore interface {
	// Create saves a new trade offer to the store.
	// Returns ErrDuplicatePendingOffer if a pending offer already exists for
	// the same proposer, recipient, and pair of games.
	// Returns validation errors from the domain TradeOffer if data is invalid.
	Create(ctx context.Context, offer *domain.TradeOffer) error

	// GetByID retrieves a trade offer by its unique ID.
	// Returns ErrTradeOfferNotFound if the offer does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TradeOffer, error)

	// ListForUser retrieves the offers on which the user appears as proposer
	// or recipient, narrowed by the filter, ordered by creation time with
	// the newest offer first.
	ListForUser(ctx context.Context, userID uuid.UUID, filter TradeOfferFilter) ([]*domain.TradeOffer, error)

	// ExistsPending reports whether a pending offer already exists for the
	// exact proposer, recipient, and pair of games.
	ExistsPending(
		ctx context.Context,
		proposerID, recipientID, offeredGameID, requestedGameID uuid.UUID,
	) (bool, error)

	// UpdateStatus persists a status transition already applied to the
	// entity. The row is only written while it is still pending, so a
	// concurrent transition cannot be overwritten.
	// Returns ErrTradeOfferNotFound if the offer does not exist.
	// Returns ErrStaleTradeOffer if the offer exists but is no longer pending.
	UpdateStatus(ctx context.Context, offer *domain.TradeOffer) error

	// WithTx returns a new TradeOfferStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) TradeOfferStore
}
