package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/model"
)

// PositionRepository provides data access methods for the position table.
type PositionRepository struct {
	db *sql.DB
}

// NewPositionRepository creates a new PositionRepository with the provided database connection.
func NewPositionRepository(db *sql.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

const positionColumns = `asset_id, symbol, name, amount, acquisition_price, current_price, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPosition(row rowScanner) (model.Position, error) {
	var p model.Position
	var amount, acquisition, current, createdAt, updatedAt string

	if err := row.Scan(&p.AssetID, &p.Symbol, &p.Name, &amount, &acquisition, &current, &createdAt, &updatedAt); err != nil {
		return model.Position{}, err
	}

	var err error
	if p.Amount, err = parseDecimal("amount", amount); err != nil {
		return model.Position{}, err
	}
	if p.AcquisitionPrice, err = parseDecimal("acquisition_price", acquisition); err != nil {
		return model.Position{}, err
	}
	if p.CurrentPrice, err = parseDecimal("current_price", current); err != nil {
		return model.Position{}, err
	}
	if p.CreatedAt, err = ParseTime(createdAt); err != nil {
		return model.Position{}, err
	}
	if p.UpdatedAt, err = ParseTime(updatedAt); err != nil {
		return model.Position{}, err
	}
	return p, nil
}

// GetPosition returns the position for assetID. The boolean is false when none is held.
func (r *PositionRepository) GetPosition(ctx context.Context, assetID string) (model.Position, bool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+positionColumns+` FROM position WHERE asset_id = ?`, assetID)
	p, err := scanPosition(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Position{}, false, nil
	}
	if err != nil {
		return model.Position{}, false, fmt.Errorf("failed to query position: %w", err)
	}
	return p, true, nil
}

// GetPositions returns every position ordered by creation time.
func (r *PositionRepository) GetPositions(ctx context.Context) ([]model.Position, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+positionColumns+` FROM position ORDER BY created_at, asset_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query position table: %w", err)
	}
	defer rows.Close()

	positions := []model.Position{}
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position table results: %w", err)
		}
		positions = append(positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating position table: %w", err)
	}
	return positions, nil
}

// CountPositions returns the number of distinct held assets.
func (r *PositionRepository) CountPositions(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM position`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count positions: %w", err)
	}
	return n, nil
}

// InsertPosition stores a new position.
func (r *PositionRepository) InsertPosition(ctx context.Context, p model.Position) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO position (`+positionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.AssetID,
		p.Symbol,
		p.Name,
		p.Amount.String(),
		p.AcquisitionPrice.String(),
		p.CurrentPrice.String(),
		FormatTime(p.CreatedAt),
		FormatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert position: %w", err)
	}
	return nil
}

// UpdateAmount overwrites the held amount. The acquisition price column is never touched.
func (r *PositionRepository) UpdateAmount(ctx context.Context, assetID string, amount decimal.Decimal, updatedAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE position SET amount = ?, updated_at = ? WHERE asset_id = ?`,
		amount.String(), FormatTime(updatedAt), assetID,
	)
	if err != nil {
		return fmt.Errorf("failed to update position amount: %w", err)
	}
	return nil
}

// UpdateCurrentPrices sets the last known price for each asset in prices that is held.
func (r *PositionRepository) UpdateCurrentPrices(ctx context.Context, prices map[string]decimal.Decimal, updatedAt time.Time) error {
	if len(prices) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after Commit is a no-op

	stmt, err := tx.PrepareContext(ctx, `UPDATE position SET current_price = ?, updated_at = ? WHERE asset_id = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare price update: %w", err)
	}
	defer stmt.Close()

	ts := FormatTime(updatedAt)
	for assetID, price := range prices {
		if _, err := stmt.ExecContext(ctx, price.String(), ts, assetID); err != nil {
			return fmt.Errorf("failed to update current price for %s: %w", assetID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit price update: %w", err)
	}
	return nil
}

// DeletePosition removes the position for assetID. Deleting an absent position is not an error.
func (r *PositionRepository) DeletePosition(ctx context.Context, assetID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM position WHERE asset_id = ?`, assetID); err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}
	return nil
}
