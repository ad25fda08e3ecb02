// Package main implements the entry point for the retro video game
// exchange API server. It loads configuration, sets up structured
// logging, runs goose migration commands when requested, connects to
// PostgreSQL, wires the application dependencies, and starts the HTTP
// server with graceful shutdown.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
)

// appVersion is reported by the root discovery document.
const appVersion = "1.0.0"

func main() {
	migrateCmd := flag.String("migrate", "",
		"run a migration command (up, down, reset, status, version, create) and exit")
	migrationName := flag.String("migration-name", "",
		"name for the new migration when using -migrate create")
	verbose := flag.Bool("verbose", false,
		"enable verbose migration logging")
	flag.Parse()

	fmt.Println("Retro Video Game Exchange API starting...")

	cfg, err := loadAppConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	// Migration commands run to completion and exit without starting the server.
	if *migrateCmd != "" {
		if err := handleMigrations(cfg, *migrateCmd, *migrationName, *verbose); err != nil {
			logger.Error("Migration failed", "command", *migrateCmd, "error", err)
			os.Exit(1)
		}
		return
	}

	db, err := setupAppDatabase(cfg, logger)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	app, err := newApplication(cfg, logger, db)
	if err != nil {
		logger.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := app.Run(context.Background()); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}
