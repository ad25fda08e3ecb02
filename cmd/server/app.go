package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/config"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/events"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/platform/postgres"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/service/auth"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/service/trade"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore  store.UserStore
	gameStore  store.GameStore
	offerStore store.TradeOfferStore

	// Service interfaces
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	authenticator    auth.Authenticator
	tradeService     trade.TradeOfferService

	// Event emitter for trade offer lifecycle transitions
	eventEmitter *events.InMemoryEventEmitter
}

// newApplication creates a new application instance with all dependencies initialized.
// It accepts core dependencies like configuration, logger, and database connection that
// must be established before application initialization.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize JWT service
	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	// Initialize password verifier
	app.passwordVerifier = auth.NewBcryptVerifier()

	// Initialize stores
	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BCryptCost, logger)
	app.gameStore = postgres.NewPostgresGameStore(db, logger)
	app.offerStore = postgres.NewPostgresTradeOfferStore(db, logger)

	// Initialize the credential authenticator shared by the auth middleware
	// and the user handler (which invalidates cache entries on profile changes)
	app.authenticator, err = auth.NewCredentialAuthenticator(
		app.userStore,
		app.passwordVerifier,
		auth.DefaultCredentialCacheSize,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize authenticator: %w", err)
	}

	// Initialize the event emitter; every committed offer transition is
	// published here and recorded by the logging subscriber
	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(events.NewLoggingHandler())

	// Initialize the trade offer engine
	app.tradeService = trade.NewTradeOfferService(
		app.userStore,
		app.gameStore,
		app.offerStore,
		db,
		app.eventEmitter,
		logger,
	)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	// Set up router using the application dependencies
	router := app.setupRouter()

	// Start the HTTP server
	err := app.startHTTPServer(ctx, router)
	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	// Close database connection
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
