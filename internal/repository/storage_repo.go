package repository

import (
	"context"
	"fmt"

	"logineko/internal/database"
)

// StorageRepository persists small per-browser key/value items, the server-side
// counterpart of a browser's localStorage.
type StorageRepository struct {
	db *database.DB
}

// NewStorageRepository creates a new storage repository
func NewStorageRepository(db *database.DB) *StorageRepository {
	return &StorageRepository{db: db}
}

// SetItems upserts all items for a session in one transaction.
func (r *StorageRepository) SetItems(ctx context.Context, sessionID string, items map[string]string) error {
	return r.db.WithTx(ctx, func(tx *database.Tx) error {
		query := tx.GetDialect().UpsertStorageItem()
		for key, value := range items {
			if _, err := tx.ExecContext(ctx, query, sessionID, key, value); err != nil {
				return fmt.Errorf("failed to store %s: %w", key, err)
			}
		}
		return nil
	})
}

// RemoveItems deletes the named items for a session.
func (r *StorageRepository) RemoveItems(ctx context.Context, sessionID string, keys ...string) error {
	return r.db.WithTx(ctx, func(tx *database.Tx) error {
		for _, key := range keys {
			if _, err := tx.ExecContext(ctx, `DELETE FROM client_storage WHERE session_id = ? AND item_key = ?`, sessionID, key); err != nil {
				return fmt.Errorf("failed to remove %s: %w", key, err)
			}
		}
		return nil
	})
}

// LoadAll returns every stored item grouped by session id.
func (r *StorageRepository) LoadAll(ctx context.Context) (map[string]map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT session_id, item_key, item_value FROM client_storage`)
	if err != nil {
		return nil, fmt.Errorf("failed to load client storage: %w", err)
	}
	defer rows.Close()

	result := make(map[string]map[string]string)
	for rows.Next() {
		var sessionID, key, value string
		if err := rows.Scan(&sessionID, &key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan client storage row: %w", err)
		}
		if result[sessionID] == nil {
			result[sessionID] = make(map[string]string)
		}
		result[sessionID][key] = value
	}
	return result, rows.Err()
}
