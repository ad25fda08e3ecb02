package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/api/shared"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/domain"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/platform/logger"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/service/trade"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/store"
)

// TradeOfferHandler handles trade offer HTTP requests. Every endpoint
// requires an authenticated caller; the lifecycle rules themselves live in
// the trade service.
type TradeOfferHandler struct {
	tradeService trade.TradeOfferService
	logger       *slog.Logger
}

// NewTradeOfferHandler creates a new TradeOfferHandler
func NewTradeOfferHandler(
	tradeService trade.TradeOfferService,
	logger *slog.Logger,
) *TradeOfferHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TradeOfferHandler")
	}

	return &TradeOfferHandler{
		tradeService: tradeService,
		logger:       logger.With(slog.String("component", "trade_offer_handler")),
	}
}

// CreateTradeOffer handles POST /trade-offers requests
// The authenticated caller becomes the proposer; the offered game is the
// proposer's earliest-added game.
func (h *TradeOfferHandler) CreateTradeOffer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := handleUserIDFromContext(w, r, log)
	if !ok {
		return
	}

	var req CreateTradeOfferRequest
	if !parseAndValidateRequest(w, r, &req, log) {
		return
	}

	offer, err := h.tradeService.CreateOffer(r.Context(), userID, trade.CreateOfferInput{
		RecipientID:     req.RecipientID,
		RequestedGameID: req.RequestedGameID,
		Message:         req.Message,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create trade offer")
		return
	}

	log.Info("trade offer created",
		slog.String("offer_id", offer.ID.String()),
		slog.String("proposer_id", offer.ProposerID.String()),
		slog.String("recipient_id", offer.RecipientID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, tradeOfferToResponse(offer))
}

// ListTradeOffers handles GET /trade-offers requests
// Only offers on which the caller is a party are returned, newest first,
// optionally narrowed by status, proposer_id, and recipient_id.
func (h *TradeOfferHandler) ListTradeOffers(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := handleUserIDFromContext(w, r, log)
	if !ok {
		return
	}

	filter, err := tradeOfferFilterFromQuery(r)
	if err != nil {
		log.Warn("invalid trade offer filter", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return
	}

	offers, err := h.tradeService.ListOffers(r.Context(), userID, filter)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list trade offers")
		return
	}

	responses := make([]TradeOfferResponse, 0, len(offers))
	for _, offer := range offers {
		responses = append(responses, tradeOfferToResponse(offer))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// GetTradeOffer handles GET /trade-offers/{id} requests
// Only the proposer or the recipient may view an offer.
func (h *TradeOfferHandler) GetTradeOffer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, offerID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	offer, err := h.tradeService.GetOffer(r.Context(), userID, offerID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get trade offer")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tradeOfferToResponse(offer))
}

// RespondToTradeOffer handles PATCH /trade-offers/{id} requests
// The recipient accepts or rejects a pending offer. The service rejects
// any other status value, so typos never silently cancel an offer.
func (h *TradeOfferHandler) RespondToTradeOffer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, offerID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req RespondTradeOfferRequest
	if !parseAndValidateRequest(w, r, &req, log) {
		return
	}

	offer, err := h.tradeService.RespondToOffer(
		r.Context(), userID, offerID, domain.TradeOfferStatus(req.Status))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to respond to trade offer")
		return
	}

	log.Info("trade offer responded",
		slog.String("offer_id", offer.ID.String()),
		slog.String("status", string(offer.Status)))
	shared.RespondWithJSON(w, r, http.StatusOK, tradeOfferToResponse(offer))
}

// CancelTradeOffer handles DELETE /trade-offers/{id} requests
// The proposer withdraws a pending offer.
func (h *TradeOfferHandler) CancelTradeOffer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, offerID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.tradeService.CancelOffer(r.Context(), userID, offerID); err != nil {
		HandleAPIError(w, r, err, "Failed to cancel trade offer")
		return
	}

	log.Info("trade offer cancelled", slog.String("offer_id", offerID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// tradeOfferFilterFromQuery builds a store.TradeOfferFilter from the list
// endpoint's query string. Absent parameters leave their criterion unset;
// malformed values are rejected.
func tradeOfferFilterFromQuery(r *http.Request) (store.TradeOfferFilter, error) {
	query := r.URL.Query()

	var filter store.TradeOfferFilter

	if raw := query.Get("status"); raw != "" {
		status, err := domain.ParseTradeOfferStatus(raw)
		if err != nil {
			return store.TradeOfferFilter{}, err
		}
		filter.Status = status
	}

	if raw := query.Get("proposer_id"); raw != "" {
		proposerID, err := uuid.Parse(raw)
		if err != nil {
			return store.TradeOfferFilter{}, domain.NewValidationError(
				"proposer_id", "has invalid format", domain.ErrInvalidID)
		}
		filter.ProposerID = proposerID
	}

	if raw := query.Get("recipient_id"); raw != "" {
		recipientID, err := uuid.Parse(raw)
		if err != nil {
			return store.TradeOfferFilter{}, domain.NewValidationError(
				"recipient_id", "has invalid format", domain.ErrInvalidID)
		}
		filter.RecipientID = recipientID
	}

	return filter, nil
}

// tradeOfferToResponse converts a domain.TradeOffer to a TradeOfferResponse
func tradeOfferToResponse(offer *domain.TradeOffer) TradeOfferResponse {
	return TradeOfferResponse{
		ID:              offer.ID,
		ProposerID:      offer.ProposerID,
		RecipientID:     offer.RecipientID,
		OfferedGameID:   offer.OfferedGameID,
		RequestedGameID: offer.RequestedGameID,
		Status:          string(offer.Status),
		Message:         offer.Message,
		CreatedAt:       offer.CreatedAt,
		UpdatedAt:       offer.UpdatedAt,
		RespondedAt:     offer.RespondedAt,
		Links:           buildTradeOfferLinks(offer.ID),
	}
}
