package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/domain"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/service/trade"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/store"
)

// MockTradeOfferService implements trade.TradeOfferService for testing
type MockTradeOfferService struct {
	// CreateOfferFn allows test cases to mock the CreateOffer behavior
	CreateOfferFn func(
		ctx context.Context,
		proposerID uuid.UUID,
		input trade.CreateOfferInput,
	) (*domain.TradeOffer, error)

	// GetOfferFn allows test cases to mock the GetOffer behavior
	GetOfferFn func(ctx context.Context, userID, offerID uuid.UUID) (*domain.TradeOffer, error)

	// ListOffersFn allows test cases to mock the ListOffers behavior
	ListOffersFn func(
		ctx context.Context,
		userID uuid.UUID,
		filter store.TradeOfferFilter,
	) ([]*domain.TradeOffer, error)

	// RespondToOfferFn allows test cases to mock the RespondToOffer behavior
	RespondToOfferFn func(
		ctx context.Context,
		userID, offerID uuid.UUID,
		response domain.TradeOfferStatus,
	) (*domain.TradeOffer, error)

	// CancelOfferFn allows test cases to mock the CancelOffer behavior
	CancelOfferFn func(ctx context.Context, userID, offerID uuid.UUID) error

	// Default values used when functions aren't explicitly defined
	Offer     *domain.TradeOffer
	OfferList []*domain.TradeOffer
	Err       error
	CancelErr error
}

// CreateOffer implements the trade.TradeOfferService interface
func (m *MockTradeOfferService) CreateOffer(
	ctx context.Context,
	proposerID uuid.UUID,
	input trade.CreateOfferInput,
) (*domain.TradeOffer, error) {
	if m.CreateOfferFn != nil {
		return m.CreateOfferFn(ctx, proposerID, input)
	}

	return m.Offer, m.Err
}

// GetOffer implements the trade.TradeOfferService interface
func (m *MockTradeOfferService) GetOffer(
	ctx context.Context,
	userID, offerID uuid.UUID,
) (*domain.TradeOffer, error) {
	if m.GetOfferFn != nil {
		return m.GetOfferFn(ctx, userID, offerID)
	}

	return m.Offer, m.Err
}

// ListOffers implements the trade.TradeOfferService interface
func (m *MockTradeOfferService) ListOffers(
	ctx context.Context,
	userID uuid.UUID,
	filter store.TradeOfferFilter,
) ([]*domain.TradeOffer, error) {
	if m.ListOffersFn != nil {
		return m.ListOffersFn(ctx, userID, filter)
	}

	return m.OfferList, m.Err
}

// RespondToOffer implements the trade.TradeOfferService interface
func (m *MockTradeOfferService) RespondToOffer(
	ctx context.Context,
	userID, offerID uuid.UUID,
	response domain.TradeOfferStatus,
) (*domain.TradeOffer, error) {
	if m.RespondToOfferFn != nil {
		return m.RespondToOfferFn(ctx, userID, offerID, response)
	}

	return m.Offer, m.Err
}

// CancelOffer implements the trade.TradeOfferService interface
func (m *MockTradeOfferService) CancelOffer(ctx context.Context, userID, offerID uuid.UUID) error {
	if m.CancelOfferFn != nil {
		return m.CancelOfferFn(ctx, userID, offerID)
	}

	return m.CancelErr
}
