package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/api/request"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/model"
)

// ParseDueDate accepts a calendar date (YYYY-MM-DD) or an RFC3339 timestamp.
func ParseDueDate(str string) (time.Time, error) {
	str = strings.TrimSpace(str)
	if t, err := time.Parse("2006-01-02", str); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, str)
	if err != nil {
		return time.Time{}, fmt.Errorf("dueDate must be YYYY-MM-DD or RFC3339: %s", str)
	}
	return t.UTC(), nil
}

// ValidateCreateTask validates a task creation request.
//
// Required fields:
//   - title: non-empty, 200 characters or less
//   - dueDate: YYYY-MM-DD or RFC3339
//
// Optional fields must be known values when present:
//   - priority: low, medium, high
//   - status: todo, in-progress, completed
func ValidateCreateTask(req request.CreateTaskRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Title) == "" {
		errors["title"] = "title is required"
	} else if len(req.Title) > 200 {
		errors["title"] = "title must be 200 characters or less"
	}

	if strings.TrimSpace(req.DueDate) == "" {
		errors["dueDate"] = "dueDate is required"
	} else if _, err := ParseDueDate(req.DueDate); err != nil {
		errors["dueDate"] = err.Error()
	}

	if req.Priority != "" && !model.TaskPriority(req.Priority).Valid() {
		errors["priority"] = fmt.Sprintf("invalid priority: %s", req.Priority)
	}

	if req.Status != "" && !model.TaskStatus(req.Status).Valid() {
		errors["status"] = fmt.Sprintf("invalid status: %s", req.Status)
	}

	validateTags(req.Tags, errors)

	return result(errors)
}

// ValidateUpdateTask validates the provided fields of a partial task update.
func ValidateUpdateTask(req request.UpdateTaskRequest) error {
	errors := make(map[string]string)

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			errors["title"] = "title cannot be empty"
		} else if len(*req.Title) > 200 {
			errors["title"] = "title must be 200 characters or less"
		}
	}

	if req.DueDate != nil {
		if _, err := ParseDueDate(*req.DueDate); err != nil {
			errors["dueDate"] = err.Error()
		}
	}

	if req.Priority != nil && !model.TaskPriority(*req.Priority).Valid() {
		errors["priority"] = fmt.Sprintf("invalid priority: %s", *req.Priority)
	}

	if req.Status != nil && !model.TaskStatus(*req.Status).Valid() {
		errors["status"] = fmt.Sprintf("invalid status: %s", *req.Status)
	}

	if req.Tags != nil {
		validateTags(*req.Tags, errors)
	}

	return result(errors)
}

// validateTags bounds the tag list. Blank tags are not an error; the service drops them.
func validateTags(tags []string, errors map[string]string) {
	if len(tags) > 20 {
		errors["tags"] = "at most 20 tags are allowed"
		return
	}
	for _, tag := range tags {
		if len(strings.TrimSpace(tag)) > 50 {
			errors["tags"] = "tags must be 50 characters or less"
			return
		}
	}
}
