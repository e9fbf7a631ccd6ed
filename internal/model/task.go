package model

import "time"

// TaskPriority is the urgency of a task.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Valid reports whether p is a known priority.
func (p TaskPriority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	return s == StatusTodo || s == StatusInProgress || s == StatusCompleted
}

// Task represents a task record from the database
type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Priority    TaskPriority `json:"priority"`
	Status      TaskStatus   `json:"status"`
	DueDate     time.Time    `json:"dueDate"`
	Tags        []string     `json:"tags"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// Overdue is derived at read time and never stored.
func (t Task) Overdue(now time.Time) bool {
	return now.After(t.DueDate) && t.Status != StatusCompleted
}

// TaskFilter narrows a task listing. Empty fields match everything; set fields are AND-combined.
type TaskFilter struct {
	Search   string
	Status   TaskStatus
	Priority TaskPriority
}

// TaskStats summarises the task collection.
type TaskStats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"inProgress"`
	Overdue    int `json:"overdue"`
}
