package main

import (
	"fmt"
	"log/slog"

	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/config"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/platform/logger"
)

// setupAppLogger configures and initializes the application logger based on config settings.
// The returned logger is also installed as the slog default.
func setupAppLogger(cfg *config.Config) (*slog.Logger, error) {
	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	return l, nil
}
