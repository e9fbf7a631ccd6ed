package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/model"
)

// TaskRepository provides data access methods for the task table.
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new TaskRepository with the provided database connection.
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, title, description, priority, status, due_date, tags, created_at`

func scanTask(row rowScanner) (model.Task, error) {
	var t model.Task
	var dueDate, tags, createdAt string

	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Priority, &t.Status, &dueDate, &tags, &createdAt); err != nil {
		return model.Task{}, err
	}

	var err error
	if t.DueDate, err = ParseTime(dueDate); err != nil {
		return model.Task{}, err
	}
	if t.CreatedAt, err = ParseTime(createdAt); err != nil {
		return model.Task{}, err
	}
	if err := json.Unmarshal([]byte(tags), &t.Tags); err != nil {
		return model.Task{}, fmt.Errorf("failed to decode tags: %w", err)
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	return t, nil
}

// GetTasks retrieves tasks matching the status and priority of the filter in insertion order.
// Free-text search is not applied here.
func (r *TaskRepository) GetTasks(ctx context.Context, filter model.TaskFilter) ([]model.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM task
		WHERE 1=1
	`
	var args []any

	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}

	if filter.Priority != "" {
		query += " AND priority = ?"
		args = append(args, filter.Priority)
	}

	query += " ORDER BY rowid"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query task table: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task table results: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task table: %w", err)
	}
	return tasks, nil
}

// GetTask returns the task with the given id or apperrors.ErrTaskNotFound.
func (r *TaskRepository) GetTask(ctx context.Context, id string) (model.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM task WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, apperrors.ErrTaskNotFound
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to query task: %w", err)
	}
	return t, nil
}

// CountTasks returns the number of stored tasks.
func (r *TaskRepository) CountTasks(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM task`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return n, nil
}

// InsertTask stores a new task.
func (r *TaskRepository) InsertTask(ctx context.Context, t model.Task) error {
	tags, err := encodeTags(t.Tags)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO task (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.Title, t.Description, t.Priority, t.Status, FormatTime(t.DueDate), tags, FormatTime(t.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// UpdateTask overwrites every mutable column of an existing task.
func (r *TaskRepository) UpdateTask(ctx context.Context, t model.Task) error {
	tags, err := encodeTags(t.Tags)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE task
		SET title = ?, description = ?, priority = ?, status = ?, due_date = ?, tags = ?
		WHERE id = ?
	`, t.Title, t.Description, t.Priority, t.Status, FormatTime(t.DueDate), tags, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}

// DeleteTask removes the task with the given id or returns apperrors.ErrTaskNotFound.
func (r *TaskRepository) DeleteTask(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM task WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("failed to encode tags: %w", err)
	}
	return string(b), nil
}
