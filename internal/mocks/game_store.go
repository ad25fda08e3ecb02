package mocks

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/domain"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/store"
)

// MockGameStore implements store.GameStore for testing
type MockGameStore struct {
	// Function fields for customizable behavior
	CreateFn       func(ctx context.Context, game *domain.Game) error
	GetByIDFn      func(ctx context.Context, id uuid.UUID) (*domain.Game, error)
	ListFn         func(ctx context.Context) ([]*domain.Game, error)
	SearchFn       func(ctx context.Context, filter store.GameFilter) ([]*domain.Game, error)
	FirstByOwnerFn func(ctx context.Context, ownerID uuid.UUID) (*domain.Game, error)
	UpdateFn       func(ctx context.Context, game *domain.Game) error
	DeleteFn       func(ctx context.Context, id uuid.UUID) error

	// Data for default implementation, keyed by game ID
	Games       map[uuid.UUID]*domain.Game
	CreateError error
}

// NewMockGameStore creates a new mock store with initialized defaults
func NewMockGameStore() *MockGameStore {
	return &MockGameStore{
		Games: make(map[uuid.UUID]*domain.Game),
	}
}

// AddGame seeds the default implementation with an existing game.
func (m *MockGameStore) AddGame(game *domain.Game) {
	m.Games[game.ID] = game
}

// Create implements the GameStore interface
func (m *MockGameStore) Create(ctx context.Context, game *domain.Game) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, game)
	}

	if m.CreateError != nil {
		return m.CreateError
	}

	m.Games[game.ID] = game
	return nil
}

// GetByID implements the GameStore interface. It returns a copy so callers
// mutate their own snapshot, as they would with a row scanned from the real
// store.
func (m *MockGameStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Game, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	stored, exists := m.Games[id]
	if !exists {
		return nil, store.ErrGameNotFound
	}

	game := *stored
	return &game, nil
}

// List implements the GameStore interface, returning games ordered by
// creation time, oldest first.
func (m *MockGameStore) List(ctx context.Context) ([]*domain.Game, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}

	games := make([]*domain.Game, 0, len(m.Games))
	for _, game := range m.Games {
		games = append(games, game)
	}
	sortGamesOldestFirst(games)

	return games, nil
}

// Search implements the GameStore interface. The default implementation
// evaluates the filter in memory with the same semantics as the real store:
// string criteria match case-insensitive substrings, the year bounds are
// strict, and unset criteria are skipped.
func (m *MockGameStore) Search(ctx context.Context, filter store.GameFilter) ([]*domain.Game, error) {
	if m.SearchFn != nil {
		return m.SearchFn(ctx, filter)
	}

	var games []*domain.Game
	for _, game := range m.Games {
		if matchesGameFilter(game, filter) {
			games = append(games, game)
		}
	}
	sortGamesOldestFirst(games)

	return games, nil
}

// FirstByOwner implements the GameStore interface, returning the owner's
// earliest-added game with creation-time ties broken by ID.
func (m *MockGameStore) FirstByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Game, error) {
	if m.FirstByOwnerFn != nil {
		return m.FirstByOwnerFn(ctx, ownerID)
	}

	var first *domain.Game
	for _, game := range m.Games {
		if game.OwnerID != ownerID {
			continue
		}
		if first == nil || gameAddedBefore(game, first) {
			first = game
		}
	}

	if first == nil {
		return nil, store.ErrGameNotFound
	}

	game := *first
	return &game, nil
}

// Update implements the GameStore interface
func (m *MockGameStore) Update(ctx context.Context, game *domain.Game) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, game)
	}

	if _, exists := m.Games[game.ID]; !exists {
		return store.ErrGameNotFound
	}

	m.Games[game.ID] = game
	return nil
}

// Delete implements the GameStore interface
func (m *MockGameStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	if _, exists := m.Games[id]; !exists {
		return store.ErrGameNotFound
	}

	delete(m.Games, id)
	return nil
}

// WithTx implements the GameStore interface for transaction support
func (m *MockGameStore) WithTx(tx *sql.Tx) store.GameStore {
	// For mock purposes, just return the same mock
	return m
}

func matchesGameFilter(game *domain.Game, filter store.GameFilter) bool {
	if filter.Name != "" && !containsFold(game.Name, filter.Name) {
		return false
	}
	if filter.Publisher != "" && !containsFold(game.Publisher, filter.Publisher) {
		return false
	}
	if filter.System != "" && !containsFold(game.System, filter.System) {
		return false
	}
	if filter.Condition != "" && game.Condition != filter.Condition {
		return false
	}
	if filter.OwnerID != uuid.Nil && game.OwnerID != filter.OwnerID {
		return false
	}
	if filter.YearBefore != 0 && game.YearPublished >= filter.YearBefore {
		return false
	}
	if filter.YearAfter != 0 && game.YearPublished <= filter.YearAfter {
		return false
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func gameAddedBefore(a, b *domain.Game) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID.String() < b.ID.String()
	}
	return a.CreatedAt.Before(b.CreatedAt)
}

func sortGamesOldestFirst(games []*domain.Game) {
	sort.Slice(games, func(i, j int) bool {
		return gameAddedBefore(games[i], games[j])
	})
}
