package trade

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/domain"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/events"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/platform/logger"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/store"
)

// tradeOfferServiceImpl implements the TradeOfferService interface.
type tradeOfferServiceImpl struct {
	userStore  store.UserStore
	gameStore  store.GameStore
	offerStore store.TradeOfferStore
	db         *sql.DB
	emitter    events.EventEmitter
	logger     *slog.Logger
}

// Verify interface implementation at compile time.
var _ TradeOfferService = (*tradeOfferServiceImpl)(nil)

// NewTradeOfferService creates a new trade offer service with the given
// dependencies. The *sql.DB handle is used to open the transactions that
// keep each operation's read-validate-write sequence atomic. Lifecycle
// transitions are published on the emitter after they commit; a nil
// emitter disables publication.
// Panics if any store or the database handle is nil.
func NewTradeOfferService(
	userStore store.UserStore,
	gameStore store.GameStore,
	offerStore store.TradeOfferStore,
	db *sql.DB,
	emitter events.EventEmitter,
	logger *slog.Logger,
) TradeOfferService {
	if userStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("userStore cannot be nil")
	}
	if gameStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("gameStore cannot be nil")
	}
	if offerStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("offerStore cannot be nil")
	}
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &tradeOfferServiceImpl{
		userStore:  userStore,
		gameStore:  gameStore,
		offerStore: offerStore,
		db:         db,
		emitter:    emitter,
		logger:     logger.With(slog.String("component", "trade_offer_service")),
	}
}

// offerEventPayload is the offer snapshot attached to lifecycle events.
type offerEventPayload struct {
	Status          domain.TradeOfferStatus `json:"status"`
	ProposerID      uuid.UUID               `json:"proposer_id"`
	RecipientID     uuid.UUID               `json:"recipient_id"`
	OfferedGameID   uuid.UUID               `json:"offered_game_id"`
	RequestedGameID uuid.UUID               `json:"requested_game_id"`
}

// publishEvent emits a lifecycle event for a committed transition. Event
// delivery is best-effort: a failing subscriber is logged and never undoes
// or fails the transition it describes.
func (s *tradeOfferServiceImpl) publishEvent(
	ctx context.Context,
	eventType events.OfferEventType,
	offer *domain.TradeOffer,
	actorID uuid.UUID,
) {
	if s.emitter == nil {
		return
	}

	event, err := events.NewOfferEvent(eventType, offer.ID, actorID, offerEventPayload{
		Status:          offer.Status,
		ProposerID:      offer.ProposerID,
		RecipientID:     offer.RecipientID,
		OfferedGameID:   offer.OfferedGameID,
		RequestedGameID: offer.RequestedGameID,
	})
	if err != nil {
		s.logger.Warn("failed to build trade offer event",
			slog.String("offer_id", offer.ID.String()),
			slog.String("error", err.Error()))
		return
	}

	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.Warn("trade offer event delivery failed",
			slog.String("event_id", event.ID.String()),
			slog.String("error", err.Error()))
	}
}

// CreateOffer implements TradeOfferService.CreateOffer. The validation
// sequence and the insert share one transaction so that the offered game,
// the recipient's ownership, and the duplicate check are all judged against
// the same snapshot.
func (s *tradeOfferServiceImpl) CreateOffer(
	ctx context.Context,
	proposerID uuid.UUID,
	input CreateOfferInput,
) (*domain.TradeOffer, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("creating trade offer",
		slog.String("proposer_id", proposerID.String()),
		slog.String("recipient_id", input.RecipientID.String()),
		slog.String("requested_game_id", input.RequestedGameID.String()))

	var offer *domain.TradeOffer
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		users := s.userStore.WithTx(tx)
		games := s.gameStore.WithTx(tx)
		offers := s.offerStore.WithTx(tx)

		requested, err := games.GetByID(ctx, input.RequestedGameID)
		if err != nil {
			if errors.Is(err, store.ErrGameNotFound) {
				return ErrRequestedGameNotFound
			}
			return fmt.Errorf("failed to get requested game: %w", err)
		}

		if _, err := users.GetByID(ctx, input.RecipientID); err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				return ErrRecipientNotFound
			}
			return fmt.Errorf("failed to get recipient: %w", err)
		}

		if requested.OwnerID != input.RecipientID {
			return ErrGameNotOwnedByRecipient
		}

		if proposerID == input.RecipientID {
			return ErrSelfTrade
		}

		// The proposer's side of the trade is always their earliest-added game.
		offered, err := games.FirstByOwner(ctx, proposerID)
		if err != nil {
			if errors.Is(err, store.ErrGameNotFound) {
				return ErrNoGameToOffer
			}
			return fmt.Errorf("failed to select offered game: %w", err)
		}

		exists, err := offers.ExistsPending(
			ctx, proposerID, input.RecipientID, offered.ID, requested.ID)
		if err != nil {
			return fmt.Errorf("failed to check for duplicate pending offer: %w", err)
		}
		if exists {
			return ErrDuplicatePendingOffer
		}

		created, err := domain.NewTradeOffer(
			proposerID, input.RecipientID, offered.ID, requested.ID, input.Message)
		if err != nil {
			return err
		}

		if err := offers.Create(ctx, created); err != nil {
			// A concurrent transaction can insert the same pending offer
			// between the existence check and this write.
			if errors.Is(err, store.ErrDuplicatePendingOffer) {
				return ErrDuplicatePendingOffer
			}
			return fmt.Errorf("failed to save trade offer: %w", err)
		}

		offer = created
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrRequestedGameNotFound) ||
			errors.Is(err, ErrRecipientNotFound) ||
			errors.Is(err, ErrGameNotOwnedByRecipient) ||
			errors.Is(err, ErrSelfTrade) ||
			errors.Is(err, ErrNoGameToOffer) ||
			errors.Is(err, ErrDuplicatePendingOffer) {
			log.Debug("trade offer rejected by validation",
				slog.String("proposer_id", proposerID.String()),
				slog.String("error", err.Error()))
			return nil, err
		}

		log.Error("failed to create trade offer",
			slog.String("proposer_id", proposerID.String()),
			slog.String("error", err.Error()))
		return nil, NewCreateOfferError("failed to create trade offer", err)
	}

	log.Info("trade offer created",
		slog.String("offer_id", offer.ID.String()),
		slog.String("proposer_id", offer.ProposerID.String()),
		slog.String("recipient_id", offer.RecipientID.String()),
		slog.String("offered_game_id", offer.OfferedGameID.String()),
		slog.String("requested_game_id", offer.RequestedGameID.String()))
	s.publishEvent(ctx, events.OfferProposed, offer, proposerID)
	return offer, nil
}

// GetOffer implements TradeOfferService.GetOffer. Offers are visible only
// to their parties; everyone else gets ErrNotParty regardless of whether
// the offer exists.
func (s *tradeOfferServiceImpl) GetOffer(
	ctx context.Context,
	userID, offerID uuid.UUID,
) (*domain.TradeOffer, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	offer, err := s.offerStore.GetByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, store.ErrTradeOfferNotFound) {
			log.Debug("trade offer not found",
				slog.String("offer_id", offerID.String()))
			return nil, ErrOfferNotFound
		}
		log.Error("failed to get trade offer",
			slog.String("offer_id", offerID.String()),
			slog.String("error", err.Error()))
		return nil, NewGetOfferError("failed to get trade offer", err)
	}

	if offer.ProposerID != userID && offer.RecipientID != userID {
		log.Debug("user is not a party to trade offer",
			slog.String("offer_id", offerID.String()),
			slog.String("user_id", userID.String()))
		return nil, ErrNotParty
	}

	return offer, nil
}

// ListOffers implements TradeOfferService.ListOffers.
func (s *tradeOfferServiceImpl) ListOffers(
	ctx context.Context,
	userID uuid.UUID,
	filter store.TradeOfferFilter,
) ([]*domain.TradeOffer, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	offers, err := s.offerStore.ListForUser(ctx, userID, filter)
	if err != nil {
		log.Error("failed to list trade offers",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, NewListOffersError("failed to list trade offers", err)
	}

	log.Debug("listed trade offers",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(offers)))
	return offers, nil
}

// RespondToOffer implements TradeOfferService.RespondToOffer.
func (s *tradeOfferServiceImpl) RespondToOffer(
	ctx context.Context,
	userID, offerID uuid.UUID,
	response domain.TradeOfferStatus,
) (*domain.TradeOffer, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("responding to trade offer",
		slog.String("offer_id", offerID.String()),
		slog.String("user_id", userID.String()),
		slog.String("response", string(response)))

	// Only the two recipient verdicts are transitions a response may request.
	if response != domain.TradeOfferStatusAccepted &&
		response != domain.TradeOfferStatusRejected {
		log.Debug("invalid response status",
			slog.String("offer_id", offerID.String()),
			slog.String("response", string(response)))
		return nil, ErrInvalidResponseStatus
	}

	var offer *domain.TradeOffer
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		offers := s.offerStore.WithTx(tx)

		current, err := offers.GetByID(ctx, offerID)
		if err != nil {
			if errors.Is(err, store.ErrTradeOfferNotFound) {
				return ErrOfferNotFound
			}
			return fmt.Errorf("failed to get trade offer: %w", err)
		}

		if current.RecipientID != userID {
			return ErrNotRecipient
		}

		if response == domain.TradeOfferStatusAccepted {
			err = current.Accept()
		} else {
			err = current.Reject()
		}
		if err != nil {
			return &StatusConflictError{Action: "respond to", Current: current.Status}
		}

		if err := offers.UpdateStatus(ctx, current); err != nil {
			return s.resolveStaleUpdate(ctx, offers, offerID, "respond to", err)
		}

		offer = current
		return nil
	})

	if err != nil {
		var conflict *StatusConflictError
		if errors.Is(err, ErrOfferNotFound) ||
			errors.Is(err, ErrNotRecipient) ||
			errors.As(err, &conflict) {
			return nil, err
		}

		log.Error("failed to respond to trade offer",
			slog.String("offer_id", offerID.String()),
			slog.String("error", err.Error()))
		return nil, NewRespondError("failed to respond to trade offer", err)
	}

	log.Info("trade offer responded",
		slog.String("offer_id", offer.ID.String()),
		slog.String("status", string(offer.Status)),
		slog.String("recipient_id", offer.RecipientID.String()))

	eventType := events.OfferAccepted
	if offer.Status == domain.TradeOfferStatusRejected {
		eventType = events.OfferRejected
	}
	s.publishEvent(ctx, eventType, offer, userID)
	return offer, nil
}

// CancelOffer implements TradeOfferService.CancelOffer.
func (s *tradeOfferServiceImpl) CancelOffer(
	ctx context.Context,
	userID, offerID uuid.UUID,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("cancelling trade offer",
		slog.String("offer_id", offerID.String()),
		slog.String("user_id", userID.String()))

	var offer *domain.TradeOffer
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		offers := s.offerStore.WithTx(tx)

		current, err := offers.GetByID(ctx, offerID)
		if err != nil {
			if errors.Is(err, store.ErrTradeOfferNotFound) {
				return ErrOfferNotFound
			}
			return fmt.Errorf("failed to get trade offer: %w", err)
		}

		if current.ProposerID != userID {
			return ErrNotProposer
		}

		if err := current.Cancel(); err != nil {
			return &StatusConflictError{Action: "cancel", Current: current.Status}
		}

		if err := offers.UpdateStatus(ctx, current); err != nil {
			return s.resolveStaleUpdate(ctx, offers, offerID, "cancel", err)
		}

		offer = current
		return nil
	})

	if err != nil {
		var conflict *StatusConflictError
		if errors.Is(err, ErrOfferNotFound) ||
			errors.Is(err, ErrNotProposer) ||
			errors.As(err, &conflict) {
			return err
		}

		log.Error("failed to cancel trade offer",
			slog.String("offer_id", offerID.String()),
			slog.String("error", err.Error()))
		return NewCancelError("failed to cancel trade offer", err)
	}

	log.Info("trade offer cancelled",
		slog.String("offer_id", offerID.String()),
		slog.String("proposer_id", userID.String()))
	s.publishEvent(ctx, events.OfferCancelled, offer, userID)
	return nil
}

// resolveStaleUpdate translates an UpdateStatus failure into the caller-facing
// error. A stale write means another transaction finished the offer first, so
// the offer is re-read to report the status that actually won.
func (s *tradeOfferServiceImpl) resolveStaleUpdate(
	ctx context.Context,
	offers store.TradeOfferStore,
	offerID uuid.UUID,
	action string,
	err error,
) error {
	if errors.Is(err, store.ErrTradeOfferNotFound) {
		return ErrOfferNotFound
	}

	if errors.Is(err, store.ErrStaleTradeOffer) {
		winner, readErr := offers.GetByID(ctx, offerID)
		if readErr != nil {
			return fmt.Errorf("failed to re-read trade offer after stale update: %w", readErr)
		}
		return &StatusConflictError{Action: action, Current: winner.Status}
	}

	return fmt.Errorf("failed to update trade offer status: %w", err)
}
