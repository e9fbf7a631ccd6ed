package testutil

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/repository"
)

// TaskBuilder provides a fluent interface for creating test tasks.
//
// Example usage:
//
//	// Simple creation with defaults
//	task := testutil.NewTask().Build(t, db)
//
//	// Customized task
//	task := testutil.NewTask().
//	    WithTitle("Ship release").
//	    WithStatus(model.StatusCompleted).
//	    WithTags("release", "ops").
//	    Build(t, db)
type TaskBuilder struct {
	ID          string
	Title       string
	Description string
	Priority    model.TaskPriority
	Status      model.TaskStatus
	DueDate     time.Time
	Tags        []string
	CreatedAt   time.Time
}

// NewTask creates a TaskBuilder with sensible defaults. The default due date is a week out.
func NewTask() *TaskBuilder {
	now := time.Now().UTC().Truncate(time.Second)
	return &TaskBuilder{
		ID:          MakeID(),
		Title:       MakeTaskTitle("Test Task"),
		Description: "Test description",
		Priority:    model.PriorityMedium,
		Status:      model.StatusTodo,
		DueDate:     now.AddDate(0, 0, 7),
		Tags:        []string{},
		CreatedAt:   now,
	}
}

// WithID sets a custom ID.
func (b *TaskBuilder) WithID(id string) *TaskBuilder {
	b.ID = id
	return b
}

// WithTitle sets a custom title.
func (b *TaskBuilder) WithTitle(title string) *TaskBuilder {
	b.Title = title
	return b
}

// WithDescription sets a custom description.
func (b *TaskBuilder) WithDescription(desc string) *TaskBuilder {
	b.Description = desc
	return b
}

// WithPriority sets a custom priority.
func (b *TaskBuilder) WithPriority(p model.TaskPriority) *TaskBuilder {
	b.Priority = p
	return b
}

// WithStatus sets a custom status.
func (b *TaskBuilder) WithStatus(s model.TaskStatus) *TaskBuilder {
	b.Status = s
	return b
}

// WithDueDate sets a custom due date.
func (b *TaskBuilder) WithDueDate(d time.Time) *TaskBuilder {
	b.DueDate = d
	return b
}

// WithTags sets the task tags.
func (b *TaskBuilder) WithTags(tags ...string) *TaskBuilder {
	b.Tags = tags
	return b
}

// Overdue moves the due date into the past.
func (b *TaskBuilder) Overdue() *TaskBuilder {
	b.DueDate = time.Now().UTC().AddDate(0, 0, -2).Truncate(time.Second)
	return b
}

// Build inserts the task into the database and returns it.
func (b *TaskBuilder) Build(t *testing.T, db *sql.DB) model.Task {
	t.Helper()

	tags, err := json.Marshal(b.Tags)
	if err != nil {
		t.Fatalf("Failed to encode task tags: %v", err)
	}

	query := `
		INSERT INTO task (id, title, description, priority, status, due_date, tags, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = db.Exec(query, b.ID, b.Title, b.Description, b.Priority, b.Status,
		repository.FormatTime(b.DueDate), string(tags), repository.FormatTime(b.CreatedAt))
	if err != nil {
		t.Fatalf("Failed to create test task: %v", err)
	}

	return model.Task{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		Priority:    b.Priority,
		Status:      b.Status,
		DueDate:     b.DueDate,
		Tags:        b.Tags,
		CreatedAt:   b.CreatedAt,
	}
}

// CreateTasks creates multiple tasks with default values.
//
// Example usage:
//
//	tasks := testutil.CreateTasks(t, db, 3)
func CreateTasks(t *testing.T, db *sql.DB, count int) []model.Task {
	t.Helper()

	tasks := make([]model.Task, count)
	for i := range count {
		tasks[i] = NewTask().Build(t, db)
	}
	return tasks
}

// AlertBuilder provides a fluent interface for creating test alert conditions.
//
// Example usage:
//
//	alert := testutil.NewAlert("btc").Above("70000").Build(t, db)
type AlertBuilder struct {
	ID          string
	Symbol      string
	Name        string
	TargetPrice decimal.Decimal
	Direction   model.AlertDirection
	Active      bool
	CreatedAt   time.Time
}

// NewAlert creates an active "above 100" AlertBuilder for symbol.
func NewAlert(symbol string) *AlertBuilder {
	return &AlertBuilder{
		ID:          MakeID(),
		Symbol:      symbol,
		Name:        symbol,
		TargetPrice: decimal.NewFromInt(100),
		Direction:   model.AlertAbove,
		Active:      true,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
}

// Above sets an above-threshold condition at price.
func (b *AlertBuilder) Above(price string) *AlertBuilder {
	b.Direction = model.AlertAbove
	b.TargetPrice = decimal.RequireFromString(price)
	return b
}

// Below sets a below-threshold condition at price.
func (b *AlertBuilder) Below(price string) *AlertBuilder {
	b.Direction = model.AlertBelow
	b.TargetPrice = decimal.RequireFromString(price)
	return b
}

// WithName sets the display name.
func (b *AlertBuilder) WithName(name string) *AlertBuilder {
	b.Name = name
	return b
}

// Inactive marks the alert as already triggered.
func (b *AlertBuilder) Inactive() *AlertBuilder {
	b.Active = false
	return b
}

// Build inserts the alert into the database and returns it.
func (b *AlertBuilder) Build(t *testing.T, db *sql.DB) model.AlertCondition {
	t.Helper()

	alert := model.AlertCondition{
		ID:          b.ID,
		Symbol:      b.Symbol,
		Name:        b.Name,
		TargetPrice: b.TargetPrice,
		Direction:   b.Direction,
		Active:      b.Active,
		CreatedAt:   b.CreatedAt,
	}

	var triggeredAt sql.NullString
	if !b.Active {
		at := b.CreatedAt.Add(time.Minute)
		alert.TriggeredAt = &at
		triggeredAt = sql.NullString{String: repository.FormatTime(at), Valid: true}
	}

	query := `
		INSERT INTO alert (id, symbol, name, target_price, direction, active, created_at, triggered_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Symbol, b.Name, b.TargetPrice.String(), b.Direction, b.Active,
		repository.FormatTime(b.CreatedAt), triggeredAt)
	if err != nil {
		t.Fatalf("Failed to create test alert: %v", err)
	}
	return alert
}

// PositionBuilder provides a fluent interface for creating test positions.
//
// Example usage:
//
//	pos := testutil.NewPosition("bitcoin").WithAmount("0.5").WithPrice("60000").Build(t, db)
type PositionBuilder struct {
	AssetID          string
	Symbol           string
	Name             string
	Amount           decimal.Decimal
	AcquisitionPrice decimal.Decimal
	CurrentPrice     decimal.Decimal
}

// NewPosition creates a PositionBuilder holding one unit bought at 100.
func NewPosition(assetID string) *PositionBuilder {
	return &PositionBuilder{
		AssetID:          assetID,
		Symbol:           MakeSymbol(""),
		Name:             assetID,
		Amount:           decimal.NewFromInt(1),
		AcquisitionPrice: decimal.NewFromInt(100),
		CurrentPrice:     decimal.NewFromInt(100),
	}
}

// WithSymbol sets a custom symbol.
func (b *PositionBuilder) WithSymbol(symbol string) *PositionBuilder {
	b.Symbol = symbol
	return b
}

// WithAmount sets the held amount.
func (b *PositionBuilder) WithAmount(amount string) *PositionBuilder {
	b.Amount = decimal.RequireFromString(amount)
	return b
}

// WithPrice sets both the acquisition and the last known price.
func (b *PositionBuilder) WithPrice(price string) *PositionBuilder {
	b.AcquisitionPrice = decimal.RequireFromString(price)
	b.CurrentPrice = b.AcquisitionPrice
	return b
}

// WithCurrentPrice sets the last known price only.
func (b *PositionBuilder) WithCurrentPrice(price string) *PositionBuilder {
	b.CurrentPrice = decimal.RequireFromString(price)
	return b
}

// Build inserts the position into the database and returns it.
func (b *PositionBuilder) Build(t *testing.T, db *sql.DB) model.Position {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	pos := model.Position{
		AssetID:          b.AssetID,
		Symbol:           b.Symbol,
		Name:             b.Name,
		Amount:           b.Amount,
		AcquisitionPrice: b.AcquisitionPrice,
		CurrentPrice:     b.CurrentPrice,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	query := `
		INSERT INTO position (asset_id, symbol, name, amount, acquisition_price, current_price, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, pos.AssetID, pos.Symbol, pos.Name, pos.Amount.String(),
		pos.AcquisitionPrice.String(), pos.CurrentPrice.String(),
		repository.FormatTime(now), repository.FormatTime(now))
	if err != nil {
		t.Fatalf("Failed to create test position: %v", err)
	}
	return pos
}

// NewAsset returns an asset snapshot with the given price and market cap.
func NewAsset(id, symbol string, rank int, price, marketCap string) model.AssetSnapshot {
	return model.AssetSnapshot{
		ID:            id,
		Name:          id,
		Symbol:        symbol,
		CurrentPrice:  decimal.RequireFromString(price),
		MarketCap:     decimal.RequireFromString(marketCap),
		TotalVolume:   decimal.Zero,
		MarketCapRank: rank,
	}
}

// NewSnapshot wraps assets in a snapshot fetched now.
func NewSnapshot(assets ...model.AssetSnapshot) model.MarketSnapshot {
	return model.MarketSnapshot{Assets: assets, FetchedAt: time.Now().UTC()}
}
