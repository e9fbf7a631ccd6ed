package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/api/request"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/testutil"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/validation"
)

func ptr[T any](v T) *T { return &v }

func TestTaskService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("applies defaults and cleans tags", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTaskService(t, db)

		task, err := svc.Create(ctx, request.CreateTaskRequest{
			Title:   "  Write docs ",
			DueDate: "2030-01-01",
			Tags:    []string{" docs", "", "ops "},
		})
		if err != nil {
			t.Fatalf("Create() returned unexpected error: %v", err)
		}

		if task.Title != "Write docs" {
			t.Errorf("Expected trimmed title, got %q", task.Title)
		}
		if task.Priority != model.PriorityMedium || task.Status != model.StatusTodo {
			t.Errorf("Expected medium/todo defaults, got %s/%s", task.Priority, task.Status)
		}
		if len(task.Tags) != 2 || task.Tags[0] != "docs" || task.Tags[1] != "ops" {
			t.Errorf("Unexpected tags: %q", task.Tags)
		}
		if task.Overdue {
			t.Error("Future task must not be overdue")
		}
		testutil.AssertRowCount(t, db, "task", 1)
	})

	t.Run("missing title and bad priority are rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTaskService(t, db)

		_, err := svc.Create(ctx, request.CreateTaskRequest{DueDate: "2030-01-01", Priority: "urgent"})
		var verr *validation.Error
		if !errors.As(err, &verr) {
			t.Fatalf("Expected validation error, got %v", err)
		}
		if _, ok := verr.Fields["title"]; !ok {
			t.Errorf("Expected title error, got %v", verr.Fields)
		}
		if _, ok := verr.Fields["priority"]; !ok {
			t.Errorf("Expected priority error, got %v", verr.Fields)
		}
		testutil.AssertRowCount(t, db, "task", 0)
	})
}

func TestTaskService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("changes only provided fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTaskService(t, db)
		task := testutil.NewTask().WithTitle("old").WithTags("a").Build(t, db)

		updated, err := svc.Update(ctx, task.ID, request.UpdateTaskRequest{Status: ptr("in-progress")})
		if err != nil {
			t.Fatalf("Update() returned unexpected error: %v", err)
		}
		if updated.Status != model.StatusInProgress || updated.Title != "old" || len(updated.Tags) != 1 {
			t.Errorf("Unexpected task after update: %+v", updated)
		}
	})

	t.Run("missing task is not found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTaskService(t, db)

		_, err := svc.Update(ctx, testutil.MakeID(), request.UpdateTaskRequest{Title: ptr("x")})
		if !errors.Is(err, apperrors.ErrTaskNotFound) {
			t.Errorf("Expected ErrTaskNotFound, got %v", err)
		}
	})
}

// TestTaskService_ToggleComplete tests the completion toggle.
//
// WHY: Toggling a completed task reopens it as todo, and any other status
// completes it. An in-progress task must not round-trip back to in-progress.
func TestTaskService_ToggleComplete(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestTaskService(t, db)
	task := testutil.NewTask().WithStatus(model.StatusInProgress).Build(t, db)

	toggled, err := svc.ToggleComplete(ctx, task.ID)
	if err != nil {
		t.Fatalf("ToggleComplete() returned unexpected error: %v", err)
	}
	if toggled.Status != model.StatusCompleted {
		t.Fatalf("Expected completed, got %s", toggled.Status)
	}

	toggled, err = svc.ToggleComplete(ctx, task.ID)
	if err != nil {
		t.Fatalf("ToggleComplete() returned unexpected error: %v", err)
	}
	if toggled.Status != model.StatusTodo {
		t.Errorf("Expected todo, got %s", toggled.Status)
	}
}

func TestTaskService_List(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestTaskService(t, db)

	n, err := svc.SeedSampleTasks(ctx)
	if err != nil || n != 4 {
		t.Fatalf("SeedSampleTasks() = %d, %v", n, err)
	}

	tests := []struct {
		name   string
		filter model.TaskFilter
		want   []string
	}{
		{"empty filter returns all in order", model.TaskFilter{}, []string{
			"Implement crypto portfolio tracking",
			"Design responsive mobile layout",
			"Set up automated testing",
			"Add price alerts feature",
		}},
		{"completed filter", model.TaskFilter{Status: model.StatusCompleted}, []string{"Set up automated testing"}},
		{"search matches tags", model.TaskFilter{Search: "MOBILE"}, []string{"Design responsive mobile layout"}},
		{"search matches description", model.TaskFilter{Search: "cryptocurrencies"}, []string{"Add price alerts feature"}},
		{"filters combine", model.TaskFilter{Search: "crypto", Priority: model.PriorityLow}, []string{"Add price alerts feature"}},
		{"no match", model.TaskFilter{Search: "kubernetes"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := svc.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List() returned unexpected error: %v", err)
			}
			if len(tasks) != len(tt.want) {
				t.Fatalf("Expected %d tasks, got %d", len(tt.want), len(tasks))
			}
			for i, task := range tasks {
				if task.Title != tt.want[i] {
					t.Errorf("Task %d: expected %q, got %q", i, tt.want[i], task.Title)
				}
			}
		})
	}
}

func TestTaskService_SeedSampleTasks(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestTaskService(t, db)
	testutil.NewTask().Build(t, db)

	n, err := svc.SeedSampleTasks(ctx)
	if err != nil {
		t.Fatalf("SeedSampleTasks() returned unexpected error: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected no seeding into a non-empty table, got %d", n)
	}
	testutil.AssertRowCount(t, db, "task", 1)
}

// TestTaskService_Stats tests the derived task counters.
//
// WHY: Overdue is computed at read time. A completed task past its due date
// is not overdue, and nothing about overdue is ever stored.
func TestTaskService_Stats(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestTaskService(t, db)

	testutil.NewTask().Overdue().Build(t, db)
	testutil.NewTask().Overdue().WithStatus(model.StatusCompleted).Build(t, db)
	testutil.NewTask().WithStatus(model.StatusInProgress).WithDueDate(time.Now().AddDate(1, 0, 0)).Build(t, db)

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() returned unexpected error: %v", err)
	}

	want := model.TaskStats{Total: 3, Completed: 1, InProgress: 1, Overdue: 1}
	if stats != want {
		t.Errorf("Expected %+v, got %+v", want, stats)
	}
}

func TestTaskService_Delete(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestTaskService(t, db)
	task := testutil.NewTask().Build(t, db)

	if err := svc.Delete(ctx, task.ID); err != nil {
		t.Fatalf("Delete() returned unexpected error: %v", err)
	}
	if _, err := svc.Get(ctx, task.ID); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound, got %v", err)
	}
}
