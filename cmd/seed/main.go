// Package main implements a small utility that seeds the database with
// demo users and their game collections so a fresh installation has
// something to trade. Seeding is skipped when any users already exist,
// so the tool is safe to run repeatedly.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // Register pgx driver for database/sql

	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/config"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/domain"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/platform/logger"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/platform/postgres"
)

// demoUser pairs a demo account with the games it owns. The passwords are
// stored bcrypt-hashed like any registered user's.
type demoUser struct {
	name          string
	email         string
	streetAddress string
	password      string
	games         []demoGame
}

type demoGame struct {
	name           string
	publisher      string
	yearPublished  int
	system         string
	condition      domain.Condition
	previousOwners int
}

// demoCatalogue is the fixed demo data set: three collectors, each owning
// one game, so every pair of them can trade right away.
var demoCatalogue = []demoUser{
	{
		name:          "Alice Gamer",
		email:         "alice@example.com",
		streetAddress: "123 Minecraft Lane, Blockville",
		password:      "gamer123",
		games: []demoGame{
			{"Minecraft", "Mojang Studios", 2011, "Multi-platform", domain.ConditionGood, 2},
		},
	},
	{
		name:          "Bob Trader",
		email:         "bob@example.com",
		streetAddress: "456 Island Road, Paradise Isle",
		password:      "trader456",
		games: []demoGame{
			{"Animal Crossing: New Horizons", "Nintendo", 2020, "Switch", domain.ConditionMint, 0},
		},
	},
	{
		name:          "Carol Swapper",
		email:         "carol@example.com",
		streetAddress: "789 Space Station, Orbit City",
		password:      "swapper789",
		games: []demoGame{
			{"Among Us", "InnerSloth", 2018, "Multi-platform", domain.ConditionFair, 1},
		},
	},
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("Seed failed: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	seedLogger := appLogger.With(slog.String("component", "seed"))

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			seedLogger.Error("Error closing database connection", "error", err)
		}
	}()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	ctx := context.Background()
	userStore := postgres.NewPostgresUserStore(db, cfg.Auth.BCryptCost, appLogger)
	gameStore := postgres.NewPostgresGameStore(db, appLogger)

	existing, err := userStore.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to check for existing users: %w", err)
	}
	if len(existing) > 0 {
		seedLogger.Info("Database already has users, skipping seed",
			"existing_users", len(existing))
		return nil
	}

	gameCount := 0
	for _, demo := range demoCatalogue {
		user, err := domain.NewUser(demo.name, demo.email, demo.streetAddress, demo.password)
		if err != nil {
			return fmt.Errorf("invalid demo user %q: %w", demo.name, err)
		}
		if err := userStore.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to seed user %q: %w", demo.name, err)
		}
		seedLogger.Info("Seeded user", "name", demo.name, "email", demo.email)

		for _, entry := range demo.games {
			previousOwners := entry.previousOwners
			game, err := domain.NewGame(
				entry.name,
				entry.publisher,
				entry.yearPublished,
				entry.system,
				entry.condition,
				&previousOwners,
				user.ID,
			)
			if err != nil {
				return fmt.Errorf("invalid demo game %q: %w", entry.name, err)
			}
			if err := gameStore.Create(ctx, game); err != nil {
				return fmt.Errorf("failed to seed game %q: %w", entry.name, err)
			}
			gameCount++
			seedLogger.Info("Seeded game", "name", entry.name, "owner", demo.name)
		}
	}

	seedLogger.Info("Seed completed",
		"users", len(demoCatalogue),
		"games", gameCount)
	return nil
}
