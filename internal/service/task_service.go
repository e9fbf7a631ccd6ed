package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/api/request"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/repository"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/validation"
)

// TaskService handles task-related business logic operations.
type TaskService struct {
	taskRepo *repository.TaskRepository
	log      *zap.SugaredLogger
	now      func() time.Time
}

// NewTaskService creates a new TaskService with the provided repository dependency.
func NewTaskService(taskRepo *repository.TaskRepository, log *zap.SugaredLogger) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		log:      log,
		now:      time.Now,
	}
}

// TaskView is a task with its read-time derived fields.
type TaskView struct {
	model.Task
	Overdue bool `json:"overdue"`
}

func (s *TaskService) view(t model.Task) TaskView {
	return TaskView{Task: t, Overdue: t.Overdue(s.now())}
}

// List returns tasks matching every set field of filter, in insertion order.
// Search matches title, description or any tag, ignoring case.
func (s *TaskService) List(ctx context.Context, filter model.TaskFilter) ([]TaskView, error) {
	tasks, err := s.taskRepo.GetTasks(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieve, err)
	}

	needle := strings.ToLower(strings.TrimSpace(filter.Search))
	views := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		if needle != "" && !matchesSearch(t, needle) {
			continue
		}
		views = append(views, s.view(t))
	}
	return views, nil
}

func matchesSearch(t model.Task, needle string) bool {
	if strings.Contains(strings.ToLower(t.Title), needle) ||
		strings.Contains(strings.ToLower(t.Description), needle) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// Get retrieves a single task by its ID.
func (s *TaskService) Get(ctx context.Context, id string) (TaskView, error) {
	t, err := s.taskRepo.GetTask(ctx, id)
	if err != nil {
		return TaskView{}, err
	}
	return s.view(t), nil
}

// Create stores a new task. Priority defaults to medium and status to todo.
func (s *TaskService) Create(ctx context.Context, req request.CreateTaskRequest) (TaskView, error) {
	if err := validation.ValidateCreateTask(req); err != nil {
		return TaskView{}, err
	}

	due, err := validation.ParseDueDate(req.DueDate)
	if err != nil {
		return TaskView{}, err
	}

	task := model.Task{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Priority:    model.PriorityMedium,
		Status:      model.StatusTodo,
		DueDate:     due,
		Tags:        cleanTags(req.Tags),
		CreatedAt:   s.now().UTC(),
	}
	if req.Priority != "" {
		task.Priority = model.TaskPriority(req.Priority)
	}
	if req.Status != "" {
		task.Status = model.TaskStatus(req.Status)
	}

	if err := s.taskRepo.InsertTask(ctx, task); err != nil {
		return TaskView{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToPersist, err)
	}
	return s.view(task), nil
}

// Update applies the provided fields of req to the task with the given id.
func (s *TaskService) Update(ctx context.Context, id string, req request.UpdateTaskRequest) (TaskView, error) {
	if err := validation.ValidateUpdateTask(req); err != nil {
		return TaskView{}, err
	}

	task, err := s.taskRepo.GetTask(ctx, id)
	if err != nil {
		return TaskView{}, err
	}

	if req.Title != nil {
		task.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		task.Description = strings.TrimSpace(*req.Description)
	}
	if req.Priority != nil {
		task.Priority = model.TaskPriority(*req.Priority)
	}
	if req.Status != nil {
		task.Status = model.TaskStatus(*req.Status)
	}
	if req.DueDate != nil {
		if task.DueDate, err = validation.ParseDueDate(*req.DueDate); err != nil {
			return TaskView{}, err
		}
	}
	if req.Tags != nil {
		task.Tags = cleanTags(*req.Tags)
	}

	if err := s.taskRepo.UpdateTask(ctx, task); err != nil {
		return TaskView{}, err
	}
	return s.view(task), nil
}

// ToggleComplete moves a completed task back to todo and any other task to completed.
func (s *TaskService) ToggleComplete(ctx context.Context, id string) (TaskView, error) {
	task, err := s.taskRepo.GetTask(ctx, id)
	if err != nil {
		return TaskView{}, err
	}

	if task.Status == model.StatusCompleted {
		task.Status = model.StatusTodo
	} else {
		task.Status = model.StatusCompleted
	}

	if err := s.taskRepo.UpdateTask(ctx, task); err != nil {
		return TaskView{}, err
	}
	return s.view(task), nil
}

// Delete removes the task with the given id.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	return s.taskRepo.DeleteTask(ctx, id)
}

// Stats counts tasks by state. Overdue is evaluated at call time.
func (s *TaskService) Stats(ctx context.Context) (model.TaskStats, error) {
	tasks, err := s.taskRepo.GetTasks(ctx, model.TaskFilter{})
	if err != nil {
		return model.TaskStats{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieve, err)
	}

	now := s.now()
	stats := model.TaskStats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case model.StatusCompleted:
			stats.Completed++
		case model.StatusInProgress:
			stats.InProgress++
		}
		if t.Overdue(now) {
			stats.Overdue++
		}
	}
	return stats, nil
}

// SeedSampleTasks inserts the sample tasks when the table is empty.
// Returns the number of tasks inserted.
func (s *TaskService) SeedSampleTasks(ctx context.Context) (int, error) {
	count, err := s.taskRepo.CountTasks(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieve, err)
	}
	if count > 0 {
		return 0, nil
	}

	samples := SampleTasks()
	for _, t := range samples {
		if err := s.taskRepo.InsertTask(ctx, t); err != nil {
			return 0, fmt.Errorf("%w: %w", apperrors.ErrFailedToPersist, err)
		}
	}
	s.log.Infow("seeded sample tasks", "count", len(samples))
	return len(samples), nil
}

// SampleTasks returns the four demo tasks shown on a fresh install.
func SampleTasks() []model.Task {
	day := func(s string) time.Time {
		t, _ := time.Parse("2006-01-02", s)
		return t
	}
	return []model.Task{
		{
			ID:          uuid.New().String(),
			Title:       "Implement crypto portfolio tracking",
			Description: "Add functionality to track user portfolio performance",
			Priority:    model.PriorityHigh,
			Status:      model.StatusInProgress,
			DueDate:     day("2025-01-25"),
			Tags:        []string{"development", "crypto"},
			CreatedAt:   day("2025-01-20"),
		},
		{
			ID:          uuid.New().String(),
			Title:       "Design responsive mobile layout",
			Description: "Optimize the UI for mobile devices and tablets",
			Priority:    model.PriorityMedium,
			Status:      model.StatusTodo,
			DueDate:     day("2025-01-30"),
			Tags:        []string{"design", "mobile", "ui"},
			CreatedAt:   day("2025-01-19"),
		},
		{
			ID:          uuid.New().String(),
			Title:       "Set up automated testing",
			Description: "Implement unit and integration tests",
			Priority:    model.PriorityMedium,
			Status:      model.StatusCompleted,
			DueDate:     day("2025-01-22"),
			Tags:        []string{"testing", "automation"},
			CreatedAt:   day("2025-01-18"),
		},
		{
			ID:          uuid.New().String(),
			Title:       "Add price alerts feature",
			Description: "Allow users to set custom price alerts for cryptocurrencies",
			Priority:    model.PriorityLow,
			Status:      model.StatusTodo,
			DueDate:     day("2025-02-05"),
			Tags:        []string{"feature", "notifications"},
			CreatedAt:   day("2025-01-17"),
		},
	}
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
