package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/domain"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/platform/logger"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/store"
)

// PostgresTradeOfferStore implements the store.TradeOfferStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTradeOfferStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTradeOfferStore creates a new PostgreSQL implementation of the
// TradeOfferStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTradeOfferStore(db store.DBTX, logger *slog.Logger) *PostgresTradeOfferStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTradeOfferStore{
		db:     db,
		logger: logger.With(slog.String("component", "trade_offer_store")),
	}
}

// Ensure PostgresTradeOfferStore implements store.TradeOfferStore interface
var _ store.TradeOfferStore = (*PostgresTradeOfferStore)(nil)

// tradeOfferColumns is the scan-ordered column list shared by every offer query.
const tradeOfferColumns = "id, proposer_id, recipient_id, offered_game_id, requested_game_id, message, status, created_at, updated_at, responded_at"

// Create implements store.TradeOfferStore.Create
// It validates the offer and saves the row.
// Returns store.ErrDuplicatePendingOffer if a pending offer already exists
// for the same proposer, recipient, and pair of games.
// Returns store.ErrInvalidEntity if a referenced user or game does not exist.
func (s *PostgresTradeOfferStore) Create(ctx context.Context, offer *domain.TradeOffer) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := offer.Validate(); err != nil {
		log.Warn("trade offer validation failed during create",
			slog.String("error", err.Error()),
			slog.String("offer_id", offer.ID.String()))
		return err
	}

	query := `
		INSERT INTO trade_offers (id, proposer_id, recipient_id, offered_game_id, requested_game_id, message, status, created_at, updated_at, responded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		offer.ID,
		offer.ProposerID,
		offer.RecipientID,
		offer.OfferedGameID,
		offer.RequestedGameID,
		offer.Message,
		offer.Status,
		offer.CreatedAt,
		offer.UpdatedAt,
		offer.RespondedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("pending offer already exists for these games",
				slog.String("offer_id", offer.ID.String()))
			return fmt.Errorf("%w: %v", store.ErrDuplicatePendingOffer, err)
		}

		if IsForeignKeyViolation(err) {
			log.Debug("trade offer references missing user or game",
				slog.String("offer_id", offer.ID.String()))
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}

		log.Error("failed to create trade offer",
			slog.String("error", err.Error()),
			slog.String("offer_id", offer.ID.String()))
		return err
	}

	log.Info("trade offer created successfully",
		slog.String("offer_id", offer.ID.String()),
		slog.String("proposer_id", offer.ProposerID.String()),
		slog.String("recipient_id", offer.RecipientID.String()))
	return nil
}

// GetByID implements store.TradeOfferStore.GetByID
// Returns store.ErrTradeOfferNotFound if the offer does not exist.
func (s *PostgresTradeOfferStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.TradeOffer, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + tradeOfferColumns + `
		FROM trade_offers
		WHERE id = $1
	`

	offer, err := scanTradeOffer(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("trade offer not found", slog.String("offer_id", id.String()))
			return nil, store.ErrTradeOfferNotFound
		}
		log.Error("failed to get trade offer by ID",
			slog.String("error", err.Error()),
			slog.String("offer_id", id.String()))
		return nil, err
	}

	return offer, nil
}

// ListForUser implements store.TradeOfferStore.ListForUser
// It returns the offers on which the user appears as proposer or recipient,
// newest first.
func (s *PostgresTradeOfferStore) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
	filter store.TradeOfferFilter,
) ([]*domain.TradeOffer, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	args := []interface{}{userID}
	clauses := []string{"(proposer_id = $1 OR recipient_id = $1)"}

	if filter.Status != "" {
		args = append(args, filter.Status)
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.ProposerID != uuid.Nil {
		args = append(args, filter.ProposerID)
		clauses = append(clauses, fmt.Sprintf("proposer_id = $%d", len(args)))
	}
	if filter.RecipientID != uuid.Nil {
		args = append(args, filter.RecipientID)
		clauses = append(clauses, fmt.Sprintf("recipient_id = $%d", len(args)))
	}

	query := `SELECT ` + tradeOfferColumns + ` FROM trade_offers WHERE ` +
		strings.Join(clauses, " AND ") +
		" ORDER BY created_at DESC, id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list trade offers",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var offers []*domain.TradeOffer
	for rows.Next() {
		offer, err := scanTradeOffer(rows)
		if err != nil {
			log.Error("failed to scan trade offer row", slog.String("error", err.Error()))
			return nil, err
		}
		offers = append(offers, offer)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	if offers == nil {
		offers = []*domain.TradeOffer{}
	}

	return offers, nil
}

// ExistsPending implements store.TradeOfferStore.ExistsPending
func (s *PostgresTradeOfferStore) ExistsPending(
	ctx context.Context,
	proposerID, recipientID, offeredGameID, requestedGameID uuid.UUID,
) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM trade_offers
			WHERE proposer_id = $1
			  AND recipient_id = $2
			  AND offered_game_id = $3
			  AND requested_game_id = $4
			  AND status = 'pending'
		)
	`

	var exists bool
	err := s.db.QueryRowContext(
		ctx,
		query,
		proposerID,
		recipientID,
		offeredGameID,
		requestedGameID,
	).Scan(&exists)
	if err != nil {
		log.Error("failed to check for pending trade offer",
			slog.String("error", err.Error()),
			slog.String("proposer_id", proposerID.String()),
			slog.String("recipient_id", recipientID.String()))
		return false, err
	}

	return exists, nil
}

// UpdateStatus implements store.TradeOfferStore.UpdateStatus
// The write is guarded by the pending status so that two concurrent
// transitions cannot both succeed: the first one wins and the second sees
// store.ErrStaleTradeOffer.
// Returns store.ErrTradeOfferNotFound if the offer does not exist.
func (s *PostgresTradeOfferStore) UpdateStatus(ctx context.Context, offer *domain.TradeOffer) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := offer.Validate(); err != nil {
		log.Warn("trade offer validation failed during status update",
			slog.String("error", err.Error()),
			slog.String("offer_id", offer.ID.String()))
		return err
	}

	query := `
		UPDATE trade_offers
		SET status = $1, updated_at = $2, responded_at = $3
		WHERE id = $4 AND status = 'pending'
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		offer.Status,
		offer.UpdatedAt,
		offer.RespondedAt,
		offer.ID,
	)
	if err != nil {
		log.Error("failed to update trade offer status",
			slog.String("error", err.Error()),
			slog.String("offer_id", offer.ID.String()))
		return err
	}

	if err := CheckRowsAffected(result, store.ErrStaleTradeOffer); err != nil {
		// Nothing matched: either the offer is gone or it already left the
		// pending state. Probe existence to tell the two apart.
		exists, probeErr := s.offerExists(ctx, offer.ID)
		if probeErr != nil {
			log.Error("failed to probe trade offer existence",
				slog.String("error", probeErr.Error()),
				slog.String("offer_id", offer.ID.String()))
			return probeErr
		}
		if !exists {
			log.Debug("trade offer not found for status update",
				slog.String("offer_id", offer.ID.String()))
			return store.ErrTradeOfferNotFound
		}

		log.Debug("trade offer already left pending state",
			slog.String("offer_id", offer.ID.String()))
		return err
	}

	log.Info("trade offer status updated successfully",
		slog.String("offer_id", offer.ID.String()),
		slog.String("status", string(offer.Status)))
	return nil
}

// WithTx implements store.TradeOfferStore.WithTx
// It returns a store that runs all operations on the given transaction.
func (s *PostgresTradeOfferStore) WithTx(tx *sql.Tx) store.TradeOfferStore {
	return &PostgresTradeOfferStore{
		db:     tx,
		logger: s.logger,
	}
}

func (s *PostgresTradeOfferStore) offerExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM trade_offers WHERE id = $1)`,
		id,
	).Scan(&exists)
	return exists, err
}

func scanTradeOffer(row scanner) (*domain.TradeOffer, error) {
	var offer domain.TradeOffer
	var respondedAt sql.NullTime

	err := row.Scan(
		&offer.ID,
		&offer.ProposerID,
		&offer.RecipientID,
		&offer.OfferedGameID,
		&offer.RequestedGameID,
		&offer.Message,
		&offer.Status,
		&offer.CreatedAt,
		&offer.UpdatedAt,
		&respondedAt,
	)
	if err != nil {
		return nil, err
	}

	if respondedAt.Valid {
		t := respondedAt.Time
		offer.RespondedAt = &t
	}

	return &offer, nil
}
