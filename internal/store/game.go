package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/domain"
)

// GameFilter narrows a game search. Zero values mean the criterion is not
// applied: empty strings, uuid.Nil, and zero years are all "no filter".
type GameFilter struct {
	// Name matches games whose name contains the value, case-insensitively.
	Name string

	// Publisher matches games whose publisher contains the value, case-insensitively.
	Publisher string

	// System matches games whose system contains the value, case-insensitively.
	System string

	// Condition matches games with exactly this condition.
	Condition domain.Condition

	// OwnerID matches games owned by this user.
	OwnerID uuid.UUID

	// YearBefore matches games published strictly before this year.
	YearBefore int

	// YearAfter matches games published strictly after this year.
	YearAfter int
}

// GameStore defines the interface for game data persistence.
type GameStore interface {
	// Create saves a new game to the store.
	// Returns ErrUserNotFound if the owner does not exist.
	// Returns validation errors from the domain Game if data is invalid.
	Create(ctx context.Context, game *domain.Game) error

	// GetByID retrieves a game by its unique ID.
	// Returns ErrGameNotFound if the game does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Game, error)

	// List retrieves all games ordered by creation time, oldest first.
	// Returns an empty slice when the store holds no games.
	List(ctx context.Context) ([]*domain.Game, error)

	// Search retrieves the games matching every criterion set on the filter,
	// ordered by creation time, oldest first. An empty filter matches all games.
	Search(ctx context.Context, filter GameFilter) ([]*domain.Game, error)

	// FirstByOwner retrieves the owner's earliest-added game, breaking
	// creation-time ties by ID. Returns ErrGameNotFound if the owner has
	// no games.
	FirstByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Game, error)

	// Update modifies an existing game's details, including transferring
	// ownership when OwnerID changes.
	// Returns ErrGameNotFound if the game does not exist.
	// Returns ErrUserNotFound if the new owner does not exist.
	// Returns validation errors from the domain Game if data is invalid.
	Update(ctx context.Context, game *domain.Game) error

	// Delete removes a game from the store by its ID.
	// Returns ErrGameNotFound if the game does not exist.
	// Returns ErrGameInUse if the game appears on trade offers.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new GameStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) GameStore
}
