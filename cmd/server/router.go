package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/api"
	apiMiddleware "github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
// The discovery document, user and game collections, and login are public;
// trade offers always act on behalf of an authenticated user.
// Returns the configured router.
func (app *application) setupRouter() http.Handler {
	// Create a router
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware) // Trace IDs tie request logs together

	// Create API handlers using the application's services
	rootHandler := api.NewRootHandler(appVersion, app.logger)
	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordVerifier,
		&app.config.Auth,
	)
	userHandler := api.NewUserHandler(app.userStore, app.authenticator, app.logger)
	gameHandler := api.NewGameHandler(app.gameStore, app.userStore, app.logger)
	tradeOfferHandler := api.NewTradeOfferHandler(app.tradeService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.authenticator)

	// Discovery document
	r.Get("/", rootHandler.Root)

	// The discovery document doubles as the documentation entry point.
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})

	// Authentication endpoints (public)
	r.Post("/auth/login", authHandler.Login)
	r.Post("/auth/refresh", authHandler.RefreshToken)

	// User registration and profiles (public)
	r.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.CreateUser)
		r.Get("/", userHandler.ListUsers)
		r.Get("/{id}", userHandler.GetUser)
		r.Put("/{id}", userHandler.UpdateUser)
		r.Patch("/{id}", userHandler.PatchUser)
		r.Delete("/{id}", userHandler.DeleteUser)
	})

	// Game catalogue (public). The static /games/search path is registered
	// alongside /games/{id}; chi routes the literal segment first.
	r.Route("/games", func(r chi.Router) {
		r.Post("/", gameHandler.CreateGame)
		r.Get("/", gameHandler.ListGames)
		r.Get("/search", gameHandler.SearchGames)
		r.Get("/{id}", gameHandler.GetGame)
		r.Put("/{id}", gameHandler.UpdateGame)
		r.Patch("/{id}", gameHandler.PatchGame)
		r.Delete("/{id}", gameHandler.DeleteGame)
	})

	// Trade offers (protected)
	r.Route("/trade-offers", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Post("/", tradeOfferHandler.CreateTradeOffer)
		r.Get("/", tradeOfferHandler.ListTradeOffers)
		r.Get("/{id}", tradeOfferHandler.GetTradeOffer)
		r.Patch("/{id}", tradeOfferHandler.RespondToTradeOffer)
		r.Delete("/{id}", tradeOfferHandler.CancelTradeOffer)
	})

	// Health check endpoint
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
