package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/domain"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/platform/logger"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/store"
)

// PostgresGameStore implements the store.GameStore interface
// using a PostgreSQL database as the storage backend.
type PostgresGameStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresGameStore creates a new PostgreSQL implementation of the GameStore interface.
// It accepts a database connection or transaction that should be initialized and managed
// by the caller. If logger is nil, a default logger will be used.
func NewPostgresGameStore(db store.DBTX, logger *slog.Logger) *PostgresGameStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresGameStore{
		db:     db,
		logger: logger.With(slog.String("component", "game_store")),
	}
}

// Ensure PostgresGameStore implements store.GameStore interface
var _ store.GameStore = (*PostgresGameStore)(nil)

// gameColumns is the scan-ordered column list shared by every game query.
const gameColumns = "id, name, publisher, year_published, system, condition, previous_owners, owner_id, created_at, updated_at"

// Create implements store.GameStore.Create
// It validates the game and saves the row.
// Returns store.ErrUserNotFound if the owner does not exist.
func (s *PostgresGameStore) Create(ctx context.Context, game *domain.Game) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := game.Validate(); err != nil {
		log.Warn("game validation failed during create",
			slog.String("error", err.Error()),
			slog.String("game_id", game.ID.String()))
		return err
	}

	query := `
		INSERT INTO games (id, name, publisher, year_published, system, condition, previous_owners, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		game.ID,
		game.Name,
		game.Publisher,
		game.YearPublished,
		game.System,
		game.Condition,
		game.PreviousOwners,
		game.OwnerID,
		game.CreatedAt,
		game.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Debug("game owner does not exist",
				slog.String("game_id", game.ID.String()),
				slog.String("owner_id", game.OwnerID.String()))
			return fmt.Errorf("%w: %v", store.ErrUserNotFound, err)
		}

		log.Error("failed to create game",
			slog.String("error", err.Error()),
			slog.String("game_id", game.ID.String()))
		return err
	}

	log.Info("game created successfully",
		slog.String("game_id", game.ID.String()),
		slog.String("owner_id", game.OwnerID.String()))
	return nil
}

// GetByID implements store.GameStore.GetByID
// Returns store.ErrGameNotFound if the game does not exist.
func (s *PostgresGameStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Game, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE id = $1
	`

	game, err := scanGame(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("game not found", slog.String("game_id", id.String()))
			return nil, store.ErrGameNotFound
		}
		log.Error("failed to get game by ID",
			slog.String("error", err.Error()),
			slog.String("game_id", id.String()))
		return nil, err
	}

	return game, nil
}

// List implements store.GameStore.List
// It returns all games ordered by creation time, oldest first.
func (s *PostgresGameStore) List(ctx context.Context) ([]*domain.Game, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + gameColumns + `
		FROM games
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list games", slog.String("error", err.Error()))
		return nil, err
	}

	return collectGames(rows, log)
}

// Search implements store.GameStore.Search
// It builds a WHERE clause from the criteria set on the filter. Text criteria
// match as case-insensitive substrings, condition and owner match exactly, and
// the year bounds are strict inequalities.
func (s *PostgresGameStore) Search(ctx context.Context, filter store.GameFilter) ([]*domain.Game, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var clauses []string
	var args []interface{}

	if filter.Name != "" {
		args = append(args, filter.Name)
		clauses = append(clauses, fmt.Sprintf("name ILIKE '%%' || $%d || '%%'", len(args)))
	}
	if filter.Publisher != "" {
		args = append(args, filter.Publisher)
		clauses = append(clauses, fmt.Sprintf("publisher ILIKE '%%' || $%d || '%%'", len(args)))
	}
	if filter.System != "" {
		args = append(args, filter.System)
		clauses = append(clauses, fmt.Sprintf("system ILIKE '%%' || $%d || '%%'", len(args)))
	}
	if filter.Condition != "" {
		args = append(args, filter.Condition)
		clauses = append(clauses, fmt.Sprintf("condition = $%d", len(args)))
	}
	if filter.OwnerID != uuid.Nil {
		args = append(args, filter.OwnerID)
		clauses = append(clauses, fmt.Sprintf("owner_id = $%d", len(args)))
	}
	if filter.YearBefore != 0 {
		args = append(args, filter.YearBefore)
		clauses = append(clauses, fmt.Sprintf("year_published < $%d", len(args)))
	}
	if filter.YearAfter != 0 {
		args = append(args, filter.YearAfter)
		clauses = append(clauses, fmt.Sprintf("year_published > $%d", len(args)))
	}

	query := `SELECT ` + gameColumns + ` FROM games`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at ASC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to search games",
			slog.String("error", err.Error()),
			slog.Int("criteria", len(clauses)))
		return nil, err
	}

	return collectGames(rows, log)
}

// FirstByOwner implements store.GameStore.FirstByOwner
// Returns store.ErrGameNotFound if the owner has no games.
func (s *PostgresGameStore) FirstByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Game, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE owner_id = $1
		ORDER BY created_at ASC, id ASC
		LIMIT 1
	`

	game, err := scanGame(s.db.QueryRowContext(ctx, query, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("owner has no games", slog.String("owner_id", ownerID.String()))
			return nil, store.ErrGameNotFound
		}
		log.Error("failed to get first game by owner",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, err
	}

	return game, nil
}

// Update implements store.GameStore.Update
// The caller provides the complete game; changing OwnerID transfers ownership.
// Returns store.ErrGameNotFound if the game does not exist.
// Returns store.ErrUserNotFound if the new owner does not exist.
func (s *PostgresGameStore) Update(ctx context.Context, game *domain.Game) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := game.Validate(); err != nil {
		log.Warn("game validation failed during update",
			slog.String("error", err.Error()),
			slog.String("game_id", game.ID.String()))
		return err
	}

	game.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE games
		SET name = $1, publisher = $2, year_published = $3, system = $4, condition = $5, previous_owners = $6, owner_id = $7, updated_at = $8
		WHERE id = $9
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		game.Name,
		game.Publisher,
		game.YearPublished,
		game.System,
		game.Condition,
		game.PreviousOwners,
		game.OwnerID,
		game.UpdatedAt,
		game.ID,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Debug("game owner does not exist",
				slog.String("game_id", game.ID.String()),
				slog.String("owner_id", game.OwnerID.String()))
			return fmt.Errorf("%w: %v", store.ErrUserNotFound, err)
		}

		log.Error("failed to update game",
			slog.String("error", err.Error()),
			slog.String("game_id", game.ID.String()))
		return err
	}

	if err := CheckRowsAffected(result, store.ErrGameNotFound); err != nil {
		log.Debug("game not found for update",
			slog.String("game_id", game.ID.String()))
		return err
	}

	log.Info("game updated successfully",
		slog.String("game_id", game.ID.String()))
	return nil
}

// Delete implements store.GameStore.Delete
// Returns store.ErrGameNotFound if the game does not exist.
// Returns store.ErrGameInUse if the game appears on trade offers; the
// referencing offers must be removed first.
func (s *PostgresGameStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM games
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Debug("game still referenced, delete blocked",
				slog.String("game_id", id.String()))
			return fmt.Errorf("%w: %v", store.ErrGameInUse, err)
		}

		log.Error("failed to delete game",
			slog.String("error", err.Error()),
			slog.String("game_id", id.String()))
		return err
	}

	if err := CheckRowsAffected(result, store.ErrGameNotFound); err != nil {
		log.Debug("game not found for delete",
			slog.String("game_id", id.String()))
		return err
	}

	log.Info("game deleted successfully",
		slog.String("game_id", id.String()))
	return nil
}

// WithTx implements store.GameStore.WithTx
// It returns a store that runs all operations on the given transaction.
func (s *PostgresGameStore) WithTx(tx *sql.Tx) store.GameStore {
	return &PostgresGameStore{
		db:     tx,
		logger: s.logger,
	}
}

func scanGame(row scanner) (*domain.Game, error) {
	var game domain.Game
	var previousOwners sql.NullInt32

	err := row.Scan(
		&game.ID,
		&game.Name,
		&game.Publisher,
		&game.YearPublished,
		&game.System,
		&game.Condition,
		&previousOwners,
		&game.OwnerID,
		&game.CreatedAt,
		&game.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if previousOwners.Valid {
		owners := int(previousOwners.Int32)
		game.PreviousOwners = &owners
	}

	return &game, nil
}

// collectGames drains rows into a slice, normalizing no-results to an
// empty slice. It always closes rows.
func collectGames(rows *sql.Rows, log *slog.Logger) ([]*domain.Game, error) {
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var games []*domain.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			log.Error("failed to scan game row", slog.String("error", err.Error()))
			return nil, err
		}
		games = append(games, game)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	if games == nil {
		games = []*domain.Game{}
	}

	return games, nil
}
