package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// WatchlistRepository persists the set of watched asset identifiers.
type WatchlistRepository struct {
	db *sql.DB
}

// NewWatchlistRepository creates a new WatchlistRepository with the provided database connection.
func NewWatchlistRepository(db *sql.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// Toggle inserts assetID if absent or removes it if present, in one transaction.
// Returns the membership after the toggle.
func (r *WatchlistRepository) Toggle(ctx context.Context, assetID string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after Commit is a no-op

	var existing string
	err = tx.QueryRowContext(ctx, `SELECT asset_id FROM watchlist WHERE asset_id = ?`, assetID).Scan(&existing)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO watchlist (asset_id, created_at) VALUES (?, ?)`,
			assetID, FormatTime(time.Now()),
		); err != nil {
			return false, fmt.Errorf("failed to insert watchlist entry: %w", err)
		}
		return true, tx.Commit()
	case err != nil:
		return false, fmt.Errorf("failed to query watchlist: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM watchlist WHERE asset_id = ?`, assetID); err != nil {
		return false, fmt.Errorf("failed to delete watchlist entry: %w", err)
	}
	return false, tx.Commit()
}

// Contains reports whether assetID is on the watchlist.
func (r *WatchlistRepository) Contains(ctx context.Context, assetID string) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM watchlist WHERE asset_id = ?`, assetID).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to query watchlist: %w", err)
	}
	return n > 0, nil
}

// List returns every watched asset identifier ordered by when it was added.
func (r *WatchlistRepository) List(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT asset_id FROM watchlist ORDER BY created_at, asset_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist table: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist table results: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating watchlist table: %w", err)
	}
	return ids, nil
}
