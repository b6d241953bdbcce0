package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/promptgen-api/internal/domain"
	"github.com/phrazzld/promptgen-api/internal/platform/logger"
	"github.com/phrazzld/promptgen-api/internal/store"
)

// PostgresHistoryStore implements the store.HistoryStore interface
// using a PostgreSQL database as the storage backend.
type PostgresHistoryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresHistoryStore creates a new PostgreSQL implementation of the HistoryStore interface.
// db may be a *sql.DB or a *sql.Tx; with a *sql.DB, Add runs its insert and
// trim in a transaction of its own.
// If logger is nil, a default logger will be used.
func NewPostgresHistoryStore(db store.DBTX, logger *slog.Logger) *PostgresHistoryStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresHistoryStore{
		db:     db,
		logger: logger.With(slog.String("component", "history_store")),
	}
}

// Ensure PostgresHistoryStore implements store.HistoryStore interface
var _ store.HistoryStore = (*PostgresHistoryStore)(nil)

// Add implements store.HistoryStore.Add.
func (s *PostgresHistoryStore) Add(ctx context.Context, key string, item domain.HistoryItem, limit int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		log.Warn("history item validation failed",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	if limit <= 0 {
		limit = domain.DefaultHistoryLimit
	}

	var trimmed int64
	err := s.withTx(ctx, func(ctx context.Context, tx store.DBTX) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO prompt_history (id, history_key, topic, prompt, category, created_at_ms)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, item.ID, key, item.Topic, item.Prompt, item.Category, item.Timestamp)
		if err != nil {
			return historyError("add", "insert failed", err)
		}

		result, err := tx.ExecContext(ctx, `
			DELETE FROM prompt_history
			WHERE history_key = $1
			  AND id NOT IN (
				SELECT id FROM prompt_history
				WHERE history_key = $1
				ORDER BY seq DESC
				LIMIT $2
			  )
		`, key, limit)
		if err != nil {
			return historyError("add", "trim failed", err)
		}
		trimmed, _ = result.RowsAffected()
		return nil
	})
	if err != nil {
		log.Error("failed to add history item",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return err
	}

	log.Debug("history item added",
		slog.String("item_id", item.ID.String()),
		slog.Int64("dropped", trimmed))
	return nil
}

// List implements store.HistoryStore.List.
func (s *PostgresHistoryStore) List(ctx context.Context, key string) ([]domain.HistoryItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, topic, prompt, category, created_at_ms
		FROM prompt_history
		WHERE history_key = $1
		ORDER BY seq DESC
	`, key)
	if err != nil {
		log.Error("failed to query history", slog.String("error", err.Error()))
		return nil, historyError("list", "query failed", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	items := []domain.HistoryItem{}
	for rows.Next() {
		var item domain.HistoryItem
		if err := rows.Scan(&item.ID, &item.Topic, &item.Prompt, &item.Category, &item.Timestamp); err != nil {
			log.Error("failed to scan history row", slog.String("error", err.Error()))
			return nil, historyError("list", "scan failed", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating history rows", slog.String("error", err.Error()))
		return nil, historyError("list", "row iteration failed", err)
	}

	return items, nil
}

// Delete implements store.HistoryStore.Delete.
func (s *PostgresHistoryStore) Delete(ctx context.Context, key string, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM prompt_history WHERE history_key = $1 AND id = $2`, key, id)
	if err != nil {
		log.Error("failed to delete history item",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return historyError("delete", "delete failed", err)
	}

	if err := CheckRowsAffected(result, store.ErrHistoryItemNotFound); err != nil {
		log.Debug("history item not found", slog.String("item_id", id.String()))
		return err
	}

	log.Debug("history item deleted", slog.String("item_id", id.String()))
	return nil
}

// Clear implements store.HistoryStore.Clear.
func (s *PostgresHistoryStore) Clear(ctx context.Context, key string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM prompt_history WHERE history_key = $1`, key)
	if err != nil {
		log.Error("failed to clear history", slog.String("error", err.Error()))
		return historyError("clear", "delete failed", err)
	}

	removed, _ := result.RowsAffected()
	log.Debug("history cleared", slog.Int64("removed", removed))
	return nil
}

// withTx runs fn in a new transaction when the store holds a *sql.DB, and
// directly on the caller's transaction otherwise.
func (s *PostgresHistoryStore) withTx(ctx context.Context, fn store.TxFn) error {
	if beginner, ok := s.db.(store.TxBeginner); ok {
		return store.RunInTransaction(ctx, beginner, fn)
	}
	return fn(ctx, s.db)
}
