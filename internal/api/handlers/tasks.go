package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/api/request"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/api/response"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/service"
)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskService *service.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// Tasks handles GET requests to list tasks.
//
// Endpoint: GET /api/tasks?search=&status=&priority=
// Response: 200 OK with []service.TaskView in creation order
// Error: 400 Bad Request for an unknown status or priority
func (h *TaskHandler) Tasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := request.ParseTaskFilter(q.Get("search"), q.Get("status"), q.Get("priority"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}

	tasks, err := h.taskService.List(r.Context(), filter)
	if err != nil {
		response.RespondAppError(w, "failed to retrieve tasks", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, tasks)
}

// Task returns a single task.
func (h *TaskHandler) Task(w http.ResponseWriter, r *http.Request) {
	task, err := h.taskService.Get(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		response.RespondAppError(w, "failed to retrieve task", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, task)
}

// CreateTask handles POST requests to create a task.
//
// Endpoint: POST /api/tasks
// Request: request.CreateTaskRequest
// Response: 201 Created with service.TaskView
// Error: 400 Bad Request on validation failure
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateTaskRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	task, err := h.taskService.Create(r.Context(), req)
	if err != nil {
		response.RespondAppError(w, "failed to create task", err)
		return
	}
	response.RespondJSON(w, http.StatusCreated, task)
}

// UpdateTask applies the supplied fields to an existing task.
//
// Endpoint: PUT /api/tasks/{uuid}
// Request: request.UpdateTaskRequest
// Response: 200 OK with service.TaskView
// Error: 400 on validation failure, 404 when the task does not exist
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateTaskRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	task, err := h.taskService.Update(r.Context(), chi.URLParam(r, "uuid"), req)
	if err != nil {
		response.RespondAppError(w, "failed to update task", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, task)
}

// DeleteTask removes a task.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.taskService.Delete(r.Context(), chi.URLParam(r, "uuid")); err != nil {
		response.RespondAppError(w, "failed to delete task", err)
		return
	}
	response.RespondJSON(w, http.StatusNoContent, nil)
}

// ToggleTask flips a task between completed and todo.
func (h *TaskHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.taskService.ToggleComplete(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		response.RespondAppError(w, "failed to toggle task", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, task)
}

// Stats returns task counts by status plus the overdue count.
func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.taskService.Stats(r.Context())
	if err != nil {
		response.RespondAppError(w, "failed to get task statistics", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, stats)
}
