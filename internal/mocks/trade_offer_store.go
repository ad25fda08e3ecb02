package mocks

import (
	"context"
	"database/sql"
	"sort"

	"github.com/google/uuid"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/domain"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/store"
)

// MockTradeOfferStore implements store.TradeOfferStore for testing
type MockTradeOfferStore struct {
	// Function fields for customizable behavior
	CreateFn        func(ctx context.Context, offer *domain.TradeOffer) error
	GetByIDFn       func(ctx context.Context, id uuid.UUID) (*domain.TradeOffer, error)
	ListForUserFn   func(ctx context.Context, userID uuid.UUID, filter store.TradeOfferFilter) ([]*domain.TradeOffer, error)
	ExistsPendingFn func(ctx context.Context, proposerID, recipientID, offeredGameID, requestedGameID uuid.UUID) (bool, error)
	UpdateStatusFn  func(ctx context.Context, offer *domain.TradeOffer) error

	// Data for default implementation, keyed by offer ID
	Offers      map[uuid.UUID]*domain.TradeOffer
	CreateError error
}

// NewMockTradeOfferStore creates a new mock store with initialized defaults
func NewMockTradeOfferStore() *MockTradeOfferStore {
	return &MockTradeOfferStore{
		Offers: make(map[uuid.UUID]*domain.TradeOffer),
	}
}

// AddOffer seeds the default implementation with an existing trade offer.
func (m *MockTradeOfferStore) AddOffer(offer *domain.TradeOffer) {
	m.Offers[offer.ID] = offer
}

// Create implements the TradeOfferStore interface. The default
// implementation enforces the pending-uniqueness rule the real store gets
// from its partial unique index.
func (m *MockTradeOfferStore) Create(ctx context.Context, offer *domain.TradeOffer) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, offer)
	}

	if m.CreateError != nil {
		return m.CreateError
	}

	exists, err := m.ExistsPending(
		ctx,
		offer.ProposerID,
		offer.RecipientID,
		offer.OfferedGameID,
		offer.RequestedGameID,
	)
	if err != nil {
		return err
	}
	if exists {
		return store.ErrDuplicatePendingOffer
	}

	m.Offers[offer.ID] = offer
	return nil
}

// GetByID implements the TradeOfferStore interface. It returns a copy so
// callers mutate their own snapshot, as they would with a row scanned from
// the real store.
func (m *MockTradeOfferStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.TradeOffer, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	stored, exists := m.Offers[id]
	if !exists {
		return nil, store.ErrTradeOfferNotFound
	}

	offer := *stored
	return &offer, nil
}

// ListForUser implements the TradeOfferStore interface, returning the
// user's offers newest first.
func (m *MockTradeOfferStore) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
	filter store.TradeOfferFilter,
) ([]*domain.TradeOffer, error) {
	if m.ListForUserFn != nil {
		return m.ListForUserFn(ctx, userID, filter)
	}

	var offers []*domain.TradeOffer
	for _, offer := range m.Offers {
		if offer.ProposerID != userID && offer.RecipientID != userID {
			continue
		}
		if filter.Status != "" && offer.Status != filter.Status {
			continue
		}
		if filter.ProposerID != uuid.Nil && offer.ProposerID != filter.ProposerID {
			continue
		}
		if filter.RecipientID != uuid.Nil && offer.RecipientID != filter.RecipientID {
			continue
		}
		offers = append(offers, offer)
	}

	sort.Slice(offers, func(i, j int) bool {
		if offers[i].CreatedAt.Equal(offers[j].CreatedAt) {
			return offers[i].ID.String() > offers[j].ID.String()
		}
		return offers[i].CreatedAt.After(offers[j].CreatedAt)
	})

	return offers, nil
}

// ExistsPending implements the TradeOfferStore interface
func (m *MockTradeOfferStore) ExistsPending(
	ctx context.Context,
	proposerID, recipientID, offeredGameID, requestedGameID uuid.UUID,
) (bool, error) {
	if m.ExistsPendingFn != nil {
		return m.ExistsPendingFn(ctx, proposerID, recipientID, offeredGameID, requestedGameID)
	}

	for _, offer := range m.Offers {
		if offer.Status == domain.TradeOfferStatusPending &&
			offer.ProposerID == proposerID &&
			offer.RecipientID == recipientID &&
			offer.OfferedGameID == offeredGameID &&
			offer.RequestedGameID == requestedGameID {
			return true, nil
		}
	}

	return false, nil
}

// UpdateStatus implements the TradeOfferStore interface. The default
// implementation mirrors the real store's guarded write: the stored offer
// must still be pending or the update is reported as stale.
func (m *MockTradeOfferStore) UpdateStatus(ctx context.Context, offer *domain.TradeOffer) error {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, offer)
	}

	stored, exists := m.Offers[offer.ID]
	if !exists {
		return store.ErrTradeOfferNotFound
	}
	if stored.Status != domain.TradeOfferStatusPending {
		return store.ErrStaleTradeOffer
	}

	m.Offers[offer.ID] = offer
	return nil
}

// WithTx implements the TradeOfferStore interface for transaction support
func (m *MockTradeOfferStore) WithTx(tx *sql.Tx) store.TradeOfferStore {
	// For mock purposes, just return the same mock
	return m
}
