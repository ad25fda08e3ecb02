package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/api/shared"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/domain"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/platform/logger"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/redact"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/store"
)

// GameHandler handles game catalogue HTTP requests
type GameHandler struct {
	gameStore store.GameStore
	userStore store.UserStore
	logger    *slog.Logger
}

// NewGameHandler creates a new GameHandler. The user store is consulted to
// verify owners when games are created or reassigned.
func NewGameHandler(
	gameStore store.GameStore,
	userStore store.UserStore,
	logger *slog.Logger,
) *GameHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for GameHandler")
	}

	return &GameHandler{
		gameStore: gameStore,
		userStore: userStore,
		logger:    logger.With(slog.String("component", "game_handler")),
	}
}

// CreateGame handles POST /games requests
// The referenced owner must already exist; a missing owner is a client
// error, not a lookup failure.
func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateGameRequest
	if !parseAndValidateRequest(w, r, &req, log) {
		return
	}

	if _, err := h.userStore.GetByID(r.Context(), req.OwnerID); err != nil {
		if store.IsNotFoundError(err) {
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Owner not found", err)
			return
		}
		HandleAPIError(w, r, err, "Failed to create game")
		return
	}

	game, err := domain.NewGame(
		req.Name,
		req.Publisher,
		req.YearPublished,
		req.System,
		domain.Condition(req.Condition),
		req.PreviousOwners,
		req.OwnerID,
	)
	if err != nil {
		log.Warn("invalid game data", slog.String("error", redact.Error(err)))
		HandleAPIError(w, r, err, "Failed to create game")
		return
	}

	if err := h.gameStore.Create(r.Context(), game); err != nil {
		// The owner may vanish between the check above and the insert.
		if store.IsNotFoundError(err) {
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Owner not found", err)
			return
		}
		HandleAPIError(w, r, err, "Failed to create game")
		return
	}

	log.Info("game created",
		slog.String("game_id", game.ID.String()),
		slog.String("owner_id", game.OwnerID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, gameToResponse(game))
}

// ListGames handles GET /games requests
// It returns every catalogued game, oldest first.
func (h *GameHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.gameStore.List(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list games")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, gamesToResponses(games))
}

// SearchGames handles GET /games/search requests
// Text criteria match as case-insensitive substrings; condition matches
// exactly; year_before and year_after are strict bounds.
func (h *GameHandler) SearchGames(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	filter, err := gameFilterFromQuery(r)
	if err != nil {
		log.Warn("invalid search criteria", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return
	}

	games, err := h.gameStore.Search(r.Context(), filter)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to search games")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, gamesToResponses(games))
}

// GetGame handles GET /games/{id} requests
func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathUUID(r, "id")
	if err != nil {
		log.Warn("invalid game id in path", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return
	}

	game, err := h.gameStore.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get game")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, gameToResponse(game))
}

// UpdateGame handles PUT /games/{id} requests
// A full update replaces every field and may transfer the game to a new
// owner, who must exist.
func (h *GameHandler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathUUID(r, "id")
	if err != nil {
		log.Warn("invalid game id in path", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateGameRequest
	if !parseAndValidateRequest(w, r, &req, log) {
		return
	}

	game, err := h.gameStore.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update game")
		return
	}

	if _, err := h.userStore.GetByID(r.Context(), req.OwnerID); err != nil {
		if store.IsNotFoundError(err) {
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Owner not found", err)
			return
		}
		HandleAPIError(w, r, err, "Failed to update game")
		return
	}

	game.Name = req.Name
	game.Publisher = req.Publisher
	game.YearPublished = req.YearPublished
	game.System = req.System
	game.Condition = domain.Condition(req.Condition)
	game.PreviousOwners = req.PreviousOwners
	game.OwnerID = req.OwnerID

	if err := h.gameStore.Update(r.Context(), game); err != nil {
		if store.IsNotFoundError(err) {
			// The game itself was found above, so the only missing row a
			// concurrent write can produce here is the new owner.
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Owner not found", err)
			return
		}
		HandleAPIError(w, r, err, "Failed to update game")
		return
	}

	log.Info("game updated", slog.String("game_id", game.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, gameToResponse(game))
}

// PatchGame handles PATCH /games/{id} requests
// Only the fields present in the request change; ownership stays put.
func (h *GameHandler) PatchGame(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathUUID(r, "id")
	if err != nil {
		log.Warn("invalid game id in path", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return
	}

	var req PatchGameRequest
	if !parseAndValidateRequest(w, r, &req, log) {
		return
	}

	game, err := h.gameStore.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update game")
		return
	}

	if req.Name != nil {
		game.Name = *req.Name
	}
	if req.Publisher != nil {
		game.Publisher = *req.Publisher
	}
	if req.YearPublished != nil {
		game.YearPublished = *req.YearPublished
	}
	if req.System != nil {
		game.System = *req.System
	}
	if req.Condition != nil {
		game.Condition = domain.Condition(*req.Condition)
	}
	if req.PreviousOwners != nil {
		game.PreviousOwners = req.PreviousOwners
	}

	if err := h.gameStore.Update(r.Context(), game); err != nil {
		HandleAPIError(w, r, err, "Failed to update game")
		return
	}

	log.Info("game patched", slog.String("game_id", game.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, gameToResponse(game))
}

// DeleteGame handles DELETE /games/{id} requests
// Deletion is refused while trade offers still reference the game.
func (h *GameHandler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathUUID(r, "id")
	if err != nil {
		log.Warn("invalid game id in path", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.gameStore.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete game")
		return
	}

	log.Info("game deleted", slog.String("game_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

// gameFilterFromQuery builds a store.GameFilter from the search endpoint's
// query string. Absent parameters leave their criterion unset; malformed
// values for known parameters are rejected.
func gameFilterFromQuery(r *http.Request) (store.GameFilter, error) {
	query := r.URL.Query()

	filter := store.GameFilter{
		Name:      query.Get("name"),
		Publisher: query.Get("publisher"),
		System:    query.Get("system"),
	}

	if raw := query.Get("condition"); raw != "" {
		condition, err := domain.ParseCondition(raw)
		if err != nil {
			return store.GameFilter{}, err
		}
		filter.Condition = condition
	}

	if raw := query.Get("owner_id"); raw != "" {
		ownerID, err := uuid.Parse(raw)
		if err != nil {
			return store.GameFilter{}, domain.NewValidationError(
				"owner_id", "has invalid format", domain.ErrInvalidID)
		}
		filter.OwnerID = ownerID
	}

	if raw := query.Get("year_before"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return store.GameFilter{}, domain.NewValidationError(
				"year_before", "must be an integer", domain.ErrValidation)
		}
		filter.YearBefore = year
	}

	if raw := query.Get("year_after"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return store.GameFilter{}, domain.NewValidationError(
				"year_after", "must be an integer", domain.ErrValidation)
		}
		filter.YearAfter = year
	}

	return filter, nil
}

// gameToResponse converts a domain.Game to a GameResponse
func gameToResponse(game *domain.Game) GameResponse {
	previousOwners := 0
	if game.PreviousOwners != nil {
		previousOwners = *game.PreviousOwners
	}

	return GameResponse{
		ID:             game.ID,
		Name:           game.Name,
		Publisher:      game.Publisher,
		YearPublished:  game.YearPublished,
		System:         game.System,
		Condition:      string(game.Condition),
		PreviousOwners: previousOwners,
		OwnerID:        game.OwnerID,
		CreatedAt:      game.CreatedAt,
		UpdatedAt:      game.UpdatedAt,
		Links:          buildGameLinks(game.ID, game.OwnerID),
	}
}

// gamesToResponses converts a slice of games for collection endpoints.
func gamesToResponses(games []*domain.Game) []GameResponse {
	responses := make([]GameResponse, 0, len(games))
	for _, game := range games {
		responses = append(responses, gameToResponse(game))
	}
	return responses
}
