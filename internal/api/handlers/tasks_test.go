package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/service"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/testutil"
)

func TestTaskHandler_Tasks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.NewTask().WithTitle("Ship dashboard").WithStatus(model.StatusCompleted).WithPriority(model.PriorityHigh).Build(t, db)
	testutil.NewTask().WithTitle("Write docs").WithTags("docs").Build(t, db)
	testutil.NewTask().WithTitle("Fix login").WithPriority(model.PriorityHigh).Overdue().Build(t, db)
	handler := NewTaskHandler(testutil.NewTestTaskService(t, db))

	tests := []struct {
		name   string
		query  map[string]string
		titles []string
	}{
		{"all tasks in creation order", nil, []string{"Ship dashboard", "Write docs", "Fix login"}},
		{"status filter", map[string]string{"status": "completed"}, []string{"Ship dashboard"}},
		{"priority filter", map[string]string{"priority": "high"}, []string{"Ship dashboard", "Fix login"}},
		{"search matches tags", map[string]string{"search": "DOCS"}, []string{"Write docs"}},
		{"all is no filter", map[string]string{"status": "all", "priority": "all"}, []string{"Ship dashboard", "Write docs", "Fix login"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/tasks", tt.query)
			w := httptest.NewRecorder()

			handler.Tasks(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
			}

			var tasks []service.TaskView
			//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
			json.NewDecoder(w.Body).Decode(&tasks)

			if len(tasks) != len(tt.titles) {
				t.Fatalf("Expected %d tasks, got %d", len(tt.titles), len(tasks))
			}
			for i, title := range tt.titles {
				if tasks[i].Title != title {
					t.Errorf("Task %d: expected %q, got %q", i, title, tasks[i].Title)
				}
			}
		})
	}

	t.Run("flags overdue tasks", func(t *testing.T) {
		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/tasks", map[string]string{"search": "login"})
		w := httptest.NewRecorder()

		handler.Tasks(w, req)

		var tasks []service.TaskView
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&tasks)
		if len(tasks) != 1 || !tasks[0].Overdue {
			t.Errorf("Expected one overdue task, got %+v", tasks)
		}
	})

	t.Run("returns 400 for unknown status", func(t *testing.T) {
		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/tasks", map[string]string{"status": "blocked"})
		w := httptest.NewRecorder()

		handler.Tasks(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestTaskHandler_Lifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewTaskHandler(testutil.NewTestTaskService(t, db))
	due := time.Now().AddDate(0, 0, 7).Format("2006-01-02")

	var created service.TaskView

	t.Run("create", func(t *testing.T) {
		body := `{"title":"  Review portfolio  ","dueDate":"` + due + `","tags":[" finance "," ",""]}`
		w := httptest.NewRecorder()
		handler.CreateTask(w, testutil.NewJSONRequest(http.MethodPost, "/api/tasks", body, nil))

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&created)

		if created.Title != "Review portfolio" {
			t.Errorf("Expected trimmed title, got %q", created.Title)
		}
		if created.Priority != model.PriorityMedium || created.Status != model.StatusTodo {
			t.Errorf("Expected medium/todo defaults, got %s/%s", created.Priority, created.Status)
		}
		if len(created.Tags) != 1 || created.Tags[0] != "finance" {
			t.Errorf("Expected [finance], got %v", created.Tags)
		}
	})

	t.Run("create rejects missing title", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.CreateTask(w, testutil.NewJSONRequest(http.MethodPost, "/api/tasks", `{"dueDate":"`+due+`"}`, nil))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	params := func() map[string]string { return map[string]string{"uuid": created.ID} }

	t.Run("get", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Task(w, testutil.NewRequestWithURLParams(http.MethodGet, "/api/tasks/"+created.ID, params()))

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("update changes only supplied fields", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.UpdateTask(w, testutil.NewJSONRequest(http.MethodPut, "/api/tasks/"+created.ID, `{"priority":"high"}`, params()))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var updated service.TaskView
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&updated)
		if updated.Priority != model.PriorityHigh || updated.Title != "Review portfolio" {
			t.Errorf("Unexpected update result: %+v", updated)
		}
	})

	t.Run("toggle completes", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ToggleTask(w, testutil.NewRequestWithURLParams(http.MethodPost, "/api/tasks/"+created.ID+"/toggle", params()))

		var toggled service.TaskView
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&toggled)
		if toggled.Status != model.StatusCompleted {
			t.Errorf("Expected completed, got %s", toggled.Status)
		}
	})

	t.Run("stats", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Stats(w, httptest.NewRequest(http.MethodGet, "/api/tasks/stats", nil))

		var stats model.TaskStats
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&stats)
		if stats.Total != 1 || stats.Completed != 1 {
			t.Errorf("Unexpected stats: %+v", stats)
		}
	})

	t.Run("delete then not found", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.DeleteTask(w, testutil.NewRequestWithURLParams(http.MethodDelete, "/api/tasks/"+created.ID, params()))
		if w.Code != http.StatusNoContent {
			t.Errorf("Expected 204, got %d: %s", w.Code, w.Body.String())
		}

		missing := httptest.NewRecorder()
		handler.Task(missing, testutil.NewRequestWithURLParams(http.MethodGet, "/api/tasks/"+created.ID, params()))
		if missing.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", missing.Code, missing.Body.String())
		}
	})
}
