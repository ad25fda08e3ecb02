package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/api/shared"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/domain"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/mocks"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/service/trade"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/store"
)

func newTradeOfferFixture() (*mocks.MockTradeOfferService, *TradeOfferHandler) {
	service := &mocks.MockTradeOfferService{}
	handler := NewTradeOfferHandler(service, newTestLogger())
	return service, handler
}

// requestWithUser places an authenticated user ID in the request context the
// way the auth middleware does.
func requestWithUser(req *http.Request, userID uuid.UUID) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), shared.UserIDContextKey, userID))
}

func pendingTradeOffer(proposerID, recipientID uuid.UUID) *domain.TradeOffer {
	return &domain.TradeOffer{
		ID:              uuid.New(),
		ProposerID:      proposerID,
		RecipientID:     recipientID,
		OfferedGameID:   uuid.New(),
		RequestedGameID: uuid.New(),
		Message:         "Trade you my Minecraft for Animal Crossing!",
		Status:          domain.TradeOfferStatusPending,
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}
}

func TestCreateTradeOffer(t *testing.T) {
	t.Parallel()

	t.Run("creates a pending offer", func(t *testing.T) {
		service, handler := newTradeOfferFixture()

		proposerID := uuid.New()
		recipientID := uuid.New()
		requestedGameID := uuid.New()

		var gotProposerID uuid.UUID
		var gotInput trade.CreateOfferInput
		service.CreateOfferFn = func(
			ctx context.Context,
			callerID uuid.UUID,
			input trade.CreateOfferInput,
		) (*domain.TradeOffer, error) {
			gotProposerID = callerID
			gotInput = input

			offer := pendingTradeOffer(callerID, input.RecipientID)
			offer.RequestedGameID = input.RequestedGameID
			offer.Message = input.Message
			return offer, nil
		}

		body, err := json.Marshal(map[string]interface{}{
			"recipient_id":      recipientID.String(),
			"requested_game_id": requestedGameID.String(),
			"message":           "Trade you my Minecraft for Animal Crossing!",
		})
		require.NoError(t, err)

		req := requestWithUser(
			httptest.NewRequest("POST", "/trade-offers", bytes.NewBuffer(body)), proposerID)
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()

		handler.CreateTradeOffer(recorder, req)

		require.Equal(t, http.StatusCreated, recorder.Code)

		assert.Equal(t, proposerID, gotProposerID)
		assert.Equal(t, recipientID, gotInput.RecipientID)
		assert.Equal(t, requestedGameID, gotInput.RequestedGameID)
		assert.Equal(t, "Trade you my Minecraft for Animal Crossing!", gotInput.Message)

		var resp TradeOfferResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, "pending", resp.Status)
		assert.Equal(t, proposerID, resp.ProposerID)
		assert.Equal(t, recipientID, resp.RecipientID)
		assert.Nil(t, resp.RespondedAt)

		selfURL := "/trade-offers/" + resp.ID.String()
		assert.Equal(t, selfURL, resp.Links.Self)
		assert.Equal(t, selfURL, resp.Links.Respond)
		assert.Equal(t, selfURL, resp.Links.Cancel)
	})

	t.Run("requires authentication", func(t *testing.T) {
		_, handler := newTradeOfferFixture()

		body, err := json.Marshal(map[string]interface{}{
			"recipient_id":      uuid.New().String(),
			"requested_game_id": uuid.New().String(),
		})
		require.NoError(t, err)

		req := httptest.NewRequest("POST", "/trade-offers", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()

		handler.CreateTradeOffer(recorder, req)

		require.Equal(t, http.StatusUnauthorized, recorder.Code)

		var errResp shared.ErrorResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&errResp))
		assert.Equal(t, "Unauthorized operation", errResp.Message)
	})

	t.Run("maps service failures", func(t *testing.T) {
		tests := []struct {
			name       string
			serviceErr error
			wantStatus int
			wantMsg    string
		}{
			{
				name:       "recipient does not exist",
				serviceErr: trade.ErrRecipientNotFound,
				wantStatus: http.StatusNotFound,
				wantMsg:    "Recipient user not found",
			},
			{
				name:       "requested game does not exist",
				serviceErr: trade.ErrRequestedGameNotFound,
				wantStatus: http.StatusNotFound,
				wantMsg:    "Requested game not found",
			},
			{
				name:       "requested game owned by someone else",
				serviceErr: trade.ErrGameNotOwnedByRecipient,
				wantStatus: http.StatusBadRequest,
				wantMsg:    "Requested game is not owned by the specified recipient",
			},
			{
				name:       "self trade",
				serviceErr: trade.ErrSelfTrade,
				wantStatus: http.StatusBadRequest,
				wantMsg:    "Cannot create a trade offer for yourself",
			},
			{
				name:       "proposer owns nothing",
				serviceErr: trade.ErrNoGameToOffer,
				wantStatus: http.StatusBadRequest,
				wantMsg:    "You must own at least one game to create a trade offer",
			},
			{
				name:       "duplicate pending offer",
				serviceErr: trade.ErrDuplicatePendingOffer,
				wantStatus: http.StatusBadRequest,
				wantMsg:    "A pending trade offer for these games already exists",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				service, handler := newTradeOfferFixture()
				service.Err = tt.serviceErr

				body, err := json.Marshal(map[string]interface{}{
					"recipient_id":      uuid.New().String(),
					"requested_game_id": uuid.New().String(),
				})
				require.NoError(t, err)

				req := requestWithUser(
					httptest.NewRequest("POST", "/trade-offers", bytes.NewBuffer(body)), uuid.New())
				req.Header.Set("Content-Type", "application/json")
				recorder := httptest.NewRecorder()

				handler.CreateTradeOffer(recorder, req)

				require.Equal(t, tt.wantStatus, recorder.Code)

				var errResp shared.ErrorResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&errResp))
				assert.Equal(t, tt.wantMsg, errResp.Message)
			})
		}
	})

	t.Run("rejects an incomplete payload", func(t *testing.T) {
		_, handler := newTradeOfferFixture()

		body, err := json.Marshal(map[string]interface{}{
			"requested_game_id": uuid.New().String(),
		})
		require.NoError(t, err)

		req := requestWithUser(
			httptest.NewRequest("POST", "/trade-offers", bytes.NewBuffer(body)), uuid.New())
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()

		handler.CreateTradeOffer(recorder, req)

		require.Equal(t, http.StatusBadRequest, recorder.Code)

		var errResp shared.ErrorResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&errResp))
		assert.Equal(t, "Validation error", errResp.Message)
	})
}

func TestListTradeOffers(t *testing.T) {
	t.Parallel()

	t.Run("lists the caller's offers", func(t *testing.T) {
		service, handler := newTradeOfferFixture()

		callerID := uuid.New()
		service.OfferList = []*domain.TradeOffer{
			pendingTradeOffer(callerID, uuid.New()),
			pendingTradeOffer(uuid.New(), callerID),
		}

		var gotUserID uuid.UUID
		var gotFilter store.TradeOfferFilter
		service.ListOffersFn = func(
			ctx context.Context,
			userID uuid.UUID,
			filter store.TradeOfferFilter,
		) ([]*domain.TradeOffer, error) {
			gotUserID = userID
			gotFilter = filter
			return service.OfferList, nil
		}

		req := requestWithUser(httptest.NewRequest("GET", "/trade-offers", nil), callerID)
		recorder := httptest.NewRecorder()

		handler.ListTradeOffers(recorder, req)

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, callerID, gotUserID)
		assert.Equal(t, store.TradeOfferFilter{}, gotFilter)

		var resp []TradeOfferResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Len(t, resp, 2)
	})

	t.Run("passes query criteria to the service", func(t *testing.T) {
		service, handler := newTradeOfferFixture()

		proposerID := uuid.New()
		recipientID := uuid.New()

		var gotFilter store.TradeOfferFilter
		service.ListOffersFn = func(
			ctx context.Context,
			userID uuid.UUID,
			filter store.TradeOfferFilter,
		) ([]*domain.TradeOffer, error) {
			gotFilter = filter
			return nil, nil
		}

		target := "/trade-offers?status=pending&proposer_id=" + proposerID.String() +
			"&recipient_id=" + recipientID.String()
		req := requestWithUser(httptest.NewRequest("GET", target, nil), uuid.New())
		recorder := httptest.NewRecorder()

		handler.ListTradeOffers(recorder, req)

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, domain.TradeOfferStatusPending, gotFilter.Status)
		assert.Equal(t, proposerID, gotFilter.ProposerID)
		assert.Equal(t, recipientID, gotFilter.RecipientID)

		var resp []TradeOfferResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Empty(t, resp)
	})

	t.Run("rejects malformed criteria", func(t *testing.T) {
		tests := []struct {
			name    string
			query   string
			wantMsg string
		}{
			{
				name:    "unknown status",
				query:   "status=expired",
				wantMsg: "Invalid trade offer status",
			},
			{
				name:    "malformed proposer id",
				query:   "proposer_id=not-a-uuid",
				wantMsg: "Invalid proposer_id: has invalid format",
			},
			{
				name:    "malformed recipient id",
				query:   "recipient_id=not-a-uuid",
				wantMsg: "Invalid recipient_id: has invalid format",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, handler := newTradeOfferFixture()

				req := requestWithUser(
					httptest.NewRequest("GET", "/trade-offers?"+tt.query, nil), uuid.New())
				recorder := httptest.NewRecorder()

				handler.ListTradeOffers(recorder, req)

				require.Equal(t, http.StatusBadRequest, recorder.Code)

				var errResp shared.ErrorResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&errResp))
				assert.Equal(t, tt.wantMsg, errResp.Message)
			})
		}
	})

	t.Run("requires authentication", func(t *testing.T) {
		_, handler := newTradeOfferFixture()

		req := httptest.NewRequest("GET", "/trade-offers", nil)
		recorder := httptest.NewRecorder()

		handler.ListTradeOffers(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestGetTradeOffer(t *testing.T) {
	t.Parallel()

	t.Run("party can view the offer", func(t *testing.T) {
		service, handler := newTradeOfferFixture()

		callerID := uuid.New()
		offer := pendingTradeOffer(callerID, uuid.New())
		service.Offer = offer

		req := requestWithUser(
			requestWithPathID(
				httptest.NewRequest("GET", "/trade-offers/"+offer.ID.String(), nil),
				offer.ID.String()),
			callerID)
		recorder := httptest.NewRecorder()

		handler.GetTradeOffer(recorder, req)

		require.Equal(t, http.StatusOK, recorder.Code)

		var resp TradeOfferResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, offer.ID, resp.ID)
		assert.Equal(t, "/trade-offers/"+offer.ID.String(), resp.Links.Self)
	})

	t.Run("outsiders are refused", func(t *testing.T) {
		service, handler := newTradeOfferFixture()
		service.Err = trade.ErrNotParty

		offerID := uuid.New().String()
		req := requestWithUser(
			requestWithPathID(httptest.NewRequest("GET", "/trade-offers/"+offerID, nil), offerID),
			uuid.New())
		recorder := httptest.NewRecorder()

		handler.GetTradeOffer(recorder, req)

		require.Equal(t, http.StatusForbidden, recorder.Code)

		var errResp shared.ErrorResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&errResp))
		assert.Equal(t, "You are not authorized to view this trade offer", errResp.Message)
	})

	t.Run("unknown offer", func(t *testing.T) {
		service, handler := newTradeOfferFixture()
		service.Err = trade.ErrOfferNotFound

		offerID := uuid.New().String()
		req := requestWithUser(
			requestWithPathID(httptest.NewRequest("GET", "/trade-offers/"+offerID, nil), offerID),
			uuid.New())
		recorder := httptest.NewRecorder()

		handler.GetTradeOffer(recorder, req)

		require.Equal(t, http.StatusNotFound, recorder.Code)

		var errResp shared.ErrorResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&errResp))
		assert.Equal(t, "Trade offer not found", errResp.Message)
	})

	t.Run("malformed id", func(t *testing.T) {
		_, handler := newTradeOfferFixture()

		req := requestWithUser(
			requestWithPathID(
				httptest.NewRequest("GET", "/trade-offers/not-a-uuid", nil), "not-a-uuid"),
			uuid.New())
		recorder := httptest.NewRecorder()

		handler.GetTradeOffer(recorder, req)

		require.Equal(t, http.StatusBadRequest, recorder.Code)

		var errResp shared.ErrorResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&errResp))
		assert.Equal(t, "Invalid id: has invalid format", errResp.Message)
	})

	t.Run("requires authentication", func(t *testing.T) {
		_, handler := newTradeOfferFixture()

		offerID := uuid.New().String()
		req := requestWithPathID(httptest.NewRequest("GET", "/trade-offers/"+offerID, nil), offerID)
		recorder := httptest.NewRecorder()

		handler.GetTradeOffer(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestRespondToTradeOffer(t *testing.T) {
	t.Parallel()

	t.Run("recipient accepts", func(t *testing.T) {
		service, handler := newTradeOfferFixture()

		recipientID := uuid.New()
		offer := pendingTradeOffer(uuid.New(), recipientID)

		var gotUserID, gotOfferID uuid.UUID
		var gotResponse domain.TradeOfferStatus
		service.RespondToOfferFn = func(
			ctx context.Context,
			userID, offerID uuid.UUID,
			response domain.TradeOfferStatus,
		) (*domain.TradeOffer, error) {
			gotUserID = userID
			gotOfferID = offerID
			gotResponse = response

			responded := *offer
			responded.Status = response
			now := time.Now().UTC()
			responded.RespondedAt = &now
			responded.UpdatedAt = now
			return &responded, nil
		}

		body, err := json.Marshal(map[string]interface{}{"status": "accepted"})
		require.NoError(t, err)

		req := requestWithUser(
			requestWithPathID(
				httptest.NewRequest("PATCH", "/trade-offers/"+offer.ID.String(), bytes.NewBuffer(body)),
				offer.ID.String()),
			recipientID)
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()

		handler.RespondToTradeOffer(recorder, req)

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, recipientID, gotUserID)
		assert.Equal(t, offer.ID, gotOfferID)
		assert.Equal(t, domain.TradeOfferStatusAccepted, gotResponse)

		var resp TradeOfferResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, "accepted", resp.Status)
		require.NotNil(t, resp.RespondedAt)
	})

	t.Run("recipient rejects", func(t *testing.T) {
		service, handler := newTradeOfferFixture()

		recipientID := uuid.New()
		offer := pendingTradeOffer(uuid.New(), recipientID)
		service.RespondToOfferFn = func(
			ctx context.Context,
			userID, offerID uuid.UUID,
			response domain.TradeOfferStatus,
		) (*domain.TradeOffer, error) {
			responded := *offer
			responded.Status = response
			now := time.Now().UTC()
			responded.RespondedAt = &now
			return &responded, nil
		}

		body, err := json.Marshal(map[string]interface{}{"status": "rejected"})
		require.NoError(t, err)

		req := requestWithUser(
			requestWithPathID(
				httptest.NewRequest("PATCH", "/trade-offers/"+offer.ID.String(), bytes.NewBuffer(body)),
				offer.ID.String()),
			recipientID)
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()

		handler.RespondToTradeOffer(recorder, req)

		require.Equal(t, http.StatusOK, recorder.Code)

		var resp TradeOfferResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, "rejected", resp.Status)
	})

	t.Run("maps service failures", func(t *testing.T) {
		tests := []struct {
			name       string
			status     string
			serviceErr error
			wantStatus int
			wantMsg    string
		}{
			{
				name:       "cancellation is not a response",
				status:     "cancelled",
				serviceErr: trade.ErrInvalidResponseStatus,
				wantStatus: http.StatusBadRequest,
				wantMsg:    "Recipients can only accept or reject offers",
			},
			{
				name:       "only the recipient may respond",
				status:     "accepted",
				serviceErr: trade.ErrNotRecipient,
				wantStatus: http.StatusForbidden,
				wantMsg:    "Only the recipient can respond to this trade offer",
			},
			{
				name:   "offer already accepted",
				status: "rejected",
				serviceErr: &trade.StatusConflictError{
					Action:  "respond to",
					Current: domain.TradeOfferStatusAccepted,
				},
				wantStatus: http.StatusBadRequest,
				wantMsg:    "Cannot respond to an offer with status: accepted",
			},
			{
				name:       "unknown offer",
				status:     "accepted",
				serviceErr: trade.ErrOfferNotFound,
				wantStatus: http.StatusNotFound,
				wantMsg:    "Trade offer not found",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				service, handler := newTradeOfferFixture()
				service.Err = tt.serviceErr

				body, err := json.Marshal(map[string]interface{}{"status": tt.status})
				require.NoError(t, err)

				offerID := uuid.New().String()
				req := requestWithUser(
					requestWithPathID(
						httptest.NewRequest("PATCH", "/trade-offers/"+offerID, bytes.NewBuffer(body)),
						offerID),
					uuid.New())
				req.Header.Set("Content-Type", "application/json")
				recorder := httptest.NewRecorder()

				handler.RespondToTradeOffer(recorder, req)

				require.Equal(t, tt.wantStatus, recorder.Code)

				var errResp shared.ErrorResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&errResp))
				assert.Equal(t, tt.wantMsg, errResp.Message)
			})
		}
	})

	t.Run("missing status field", func(t *testing.T) {
		_, handler := newTradeOfferFixture()

		offerID := uuid.New().String()
		req := requestWithUser(
			requestWithPathID(
				httptest.NewRequest("PATCH", "/trade-offers/"+offerID, bytes.NewBufferString(`{}`)),
				offerID),
			uuid.New())
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()

		handler.RespondToTradeOffer(recorder, req)

		require.Equal(t, http.StatusBadRequest, recorder.Code)

		var errResp shared.ErrorResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&errResp))
		assert.Equal(t, "Validation error", errResp.Message)
	})

	t.Run("requires authentication", func(t *testing.T) {
		_, handler := newTradeOfferFixture()

		body, err := json.Marshal(map[string]interface{}{"status": "accepted"})
		require.NoError(t, err)

		offerID := uuid.New().String()
		req := requestWithPathID(
			httptest.NewRequest("PATCH", "/trade-offers/"+offerID, bytes.NewBuffer(body)), offerID)
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()

		handler.RespondToTradeOffer(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestCancelTradeOffer(t *testing.T) {
	t.Parallel()

	t.Run("proposer withdraws the offer", func(t *testing.T) {
		service, handler := newTradeOfferFixture()

		proposerID := uuid.New()
		offerID := uuid.New()

		var gotUserID, gotOfferID uuid.UUID
		service.CancelOfferFn = func(ctx context.Context, userID, id uuid.UUID) error {
			gotUserID = userID
			gotOfferID = id
			return nil
		}

		req := requestWithUser(
			requestWithPathID(
				httptest.NewRequest("DELETE", "/trade-offers/"+offerID.String(), nil),
				offerID.String()),
			proposerID)
		recorder := httptest.NewRecorder()

		handler.CancelTradeOffer(recorder, req)

		require.Equal(t, http.StatusNoContent, recorder.Code)
		assert.Zero(t, recorder.Body.Len())
		assert.Equal(t, proposerID, gotUserID)
		assert.Equal(t, offerID, gotOfferID)
	})

	t.Run("maps service failures", func(t *testing.T) {
		tests := []struct {
			name       string
			serviceErr error
			wantStatus int
			wantMsg    string
		}{
			{
				name:       "only the proposer may cancel",
				serviceErr: trade.ErrNotProposer,
				wantStatus: http.StatusForbidden,
				wantMsg:    "Only the proposer can cancel this trade offer",
			},
			{
				name: "offer already rejected",
				serviceErr: &trade.StatusConflictError{
					Action:  "cancel",
					Current: domain.TradeOfferStatusRejected,
				},
				wantStatus: http.StatusBadRequest,
				wantMsg:    "Cannot cancel an offer with status: rejected",
			},
			{
				name:       "unknown offer",
				serviceErr: trade.ErrOfferNotFound,
				wantStatus: http.StatusNotFound,
				wantMsg:    "Trade offer not found",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				service, handler := newTradeOfferFixture()
				service.CancelErr = tt.serviceErr

				offerID := uuid.New().String()
				req := requestWithUser(
					requestWithPathID(
						httptest.NewRequest("DELETE", "/trade-offers/"+offerID, nil), offerID),
					uuid.New())
				recorder := httptest.NewRecorder()

				handler.CancelTradeOffer(recorder, req)

				require.Equal(t, tt.wantStatus, recorder.Code)

				var errResp shared.ErrorResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&errResp))
				assert.Equal(t, tt.wantMsg, errResp.Message)
			})
		}
	})

	t.Run("requires authentication", func(t *testing.T) {
		_, handler := newTradeOfferFixture()

		offerID := uuid.New().String()
		req := requestWithPathID(
			httptest.NewRequest("DELETE", "/trade-offers/"+offerID, nil), offerID)
		recorder := httptest.NewRecorder()

		handler.CancelTradeOffer(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}
