package api

import (
	"log/slog"
	"net/http"

	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/api/shared"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/platform/logger"
)

// RootLinks carries the entry-point relations of the API.
type RootLinks struct {
	Self        string `json:"self"`
	Users       string `json:"users"`
	Games       string `json:"games"`
	GamesSearch string `json:"games_search"`
	TradeOffers string `json:"trade_offers"`
	Docs        string `json:"docs"`
}

// RootResponse is the discovery document served at the API root.
type RootResponse struct {
	Message string    `json:"message"`
	Version string    `json:"version"`
	Docs    string    `json:"docs"`
	Links   RootLinks `json:"_links"`
}

// RootHandler serves the discovery document that lets clients reach every
// top-level collection without hardcoding paths.
type RootHandler struct {
	version string
	logger  *slog.Logger
}

// NewRootHandler creates a new RootHandler
func NewRootHandler(version string, logger *slog.Logger) *RootHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for RootHandler")
	}

	return &RootHandler{
		version: version,
		logger:  logger.With(slog.String("component", "root_handler")),
	}
}

// Root handles GET / requests
func (h *RootHandler) Root(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	log.Debug("serving discovery document")

	shared.RespondWithJSON(w, r, http.StatusOK, RootResponse{
		Message: "Retro Video Game Exchange API",
		Version: h.version,
		Docs:    "/docs",
		Links: RootLinks{
			Self:        "/",
			Users:       "/users",
			Games:       "/games",
			GamesSearch: "/games/search",
			TradeOffers: "/trade-offers",
			Docs:        "/docs",
		},
	})
}
