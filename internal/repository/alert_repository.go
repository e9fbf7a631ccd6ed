package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/model"
)

// AlertRepository provides data access methods for the alert table.
type AlertRepository struct {
	db *sql.DB
}

// NewAlertRepository creates a new AlertRepository with the provided database connection.
func NewAlertRepository(db *sql.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

const alertColumns = `id, symbol, name, target_price, direction, active, created_at, triggered_at`

func scanAlert(row rowScanner) (model.AlertCondition, error) {
	var a model.AlertCondition
	var target, createdAt string
	var triggeredAt sql.NullString

	if err := row.Scan(&a.ID, &a.Symbol, &a.Name, &target, &a.Direction, &a.Active, &createdAt, &triggeredAt); err != nil {
		return model.AlertCondition{}, err
	}

	var err error
	if a.TargetPrice, err = parseDecimal("target_price", target); err != nil {
		return model.AlertCondition{}, err
	}
	if a.CreatedAt, err = ParseTime(createdAt); err != nil {
		return model.AlertCondition{}, err
	}
	if a.TriggeredAt, err = parseNullTime(triggeredAt); err != nil {
		return model.AlertCondition{}, err
	}
	return a, nil
}

func (r *AlertRepository) queryAlerts(ctx context.Context, where string, args ...any) ([]model.AlertCondition, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+alertColumns+` FROM alert `+where+` ORDER BY created_at, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query alert table: %w", err)
	}
	defer rows.Close()

	alerts := []model.AlertCondition{}
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert table results: %w", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating alert table: %w", err)
	}
	return alerts, nil
}

// GetAlerts returns every alert condition, oldest first.
func (r *AlertRepository) GetAlerts(ctx context.Context) ([]model.AlertCondition, error) {
	return r.queryAlerts(ctx, "")
}

// GetActiveAlerts returns the conditions that have not fired yet, oldest first.
func (r *AlertRepository) GetActiveAlerts(ctx context.Context) ([]model.AlertCondition, error) {
	return r.queryAlerts(ctx, "WHERE active = ?", true)
}

// CountActiveAlerts returns the number of conditions that have not fired yet.
func (r *AlertRepository) CountActiveAlerts(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM alert WHERE active = ?`, true).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count active alerts: %w", err)
	}
	return n, nil
}

// GetAlert returns the alert with the given id or apperrors.ErrAlertNotFound.
func (r *AlertRepository) GetAlert(ctx context.Context, id string) (model.AlertCondition, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+alertColumns+` FROM alert WHERE id = ?`, id)
	a, err := scanAlert(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.AlertCondition{}, apperrors.ErrAlertNotFound
	}
	if err != nil {
		return model.AlertCondition{}, fmt.Errorf("failed to query alert: %w", err)
	}
	return a, nil
}

// InsertAlert stores a new alert condition.
func (r *AlertRepository) InsertAlert(ctx context.Context, a model.AlertCondition) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO alert (id, symbol, name, target_price, direction, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.Symbol, a.Name, a.TargetPrice.String(), a.Direction, a.Active, FormatTime(a.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}
	return nil
}

// MarkTriggered flips an active alert to inactive. Returns false when the alert was
// already inactive or missing, so a condition can only be marked once.
func (r *AlertRepository) MarkTriggered(ctx context.Context, id string, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE alert SET active = ?, triggered_at = ? WHERE id = ? AND active = ?`,
		false, FormatTime(at), id, true,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark alert triggered: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n == 1, nil
}

// DeleteAlert removes the alert with the given id or returns apperrors.ErrAlertNotFound.
func (r *AlertRepository) DeleteAlert(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM alert WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete alert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return apperrors.ErrAlertNotFound
	}
	return nil
}
