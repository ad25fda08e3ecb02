package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/config"
)

func TestSetupAppLogger(t *testing.T) {
	previous := slog.Default()
	defer slog.SetDefault(previous)

	appLogger, err := setupAppLogger(&config.Config{
		Server: config.ServerConfig{Port: 8080, LogLevel: "debug"},
	})
	require.NoError(t, err)
	require.NotNil(t, appLogger)

	assert.True(t, appLogger.Enabled(context.Background(), slog.LevelDebug),
		"Requested debug level should be active")
	assert.Same(t, appLogger, slog.Default(),
		"Configured logger should become the slog default")
}
