package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/platform/logger"
)

func TestFromContextReturnsStoredLogger(t *testing.T) {
	log, logBuf := logger.GetTestLogger(t)

	ctx := logger.WithLogger(context.Background(), log)

	got := logger.FromContext(ctx)
	if got != log {
		t.Fatal("Expected FromContext to return the logger stored with WithLogger")
	}

	got.Info("hello from context")
	logger.AssertLogContains(t, logBuf, "hello from context")
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	// A context without a logger falls back to the process default
	got := logger.FromContext(context.Background())
	if got == nil {
		t.Fatal("Expected FromContext to return a non-nil logger")
	}

	if got != slog.Default() {
		t.Error("Expected FromContext to fall back to slog.Default()")
	}
}

func TestFromContextNilContext(t *testing.T) {
	//nolint:staticcheck // Explicitly testing nil context handling
	got := logger.FromContext(nil)
	if got == nil {
		t.Fatal("Expected FromContext to handle a nil context")
	}
}

func TestWithLoggerOverridesParent(t *testing.T) {
	parentLogger, _ := logger.GetTestLogger(t)
	childLogger, childBuf := logger.GetTestLogger(t)

	ctx := logger.WithLogger(context.Background(), parentLogger)
	ctx = logger.WithLogger(ctx, childLogger)

	logger.FromContext(ctx).Info("from the child")

	logger.AssertLogContains(t, childBuf, "from the child")
}

func TestFromContextOrDefaultPrefersContextLogger(t *testing.T) {
	contextLogger, contextBuf := logger.GetTestLogger(t)
	fallbackLogger, _ := logger.GetTestLogger(t)

	ctx := logger.WithLogger(context.Background(), contextLogger)

	logger.FromContextOrDefault(ctx, fallbackLogger).Info("from the context")

	logger.AssertLogContains(t, contextBuf, "from the context")
}

func TestFromContextOrDefaultFallsBackToProvided(t *testing.T) {
	fallbackLogger, fallbackBuf := logger.GetTestLogger(t)

	logger.FromContextOrDefault(context.Background(), fallbackLogger).Info("from the fallback")

	logger.AssertLogContains(t, fallbackBuf, "from the fallback")
}

func TestFromContextOrDefaultNilFallback(t *testing.T) {
	got := logger.FromContextOrDefault(context.Background(), nil)
	if got == nil {
		t.Fatal("Expected FromContextOrDefault to return a non-nil logger")
	}

	if got != slog.Default() {
		t.Error("Expected FromContextOrDefault to fall back to slog.Default()")
	}
}
