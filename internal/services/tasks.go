package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"taskflow/internal/apierror"
	"taskflow/internal/models"
	"taskflow/internal/policy"
	"taskflow/internal/repository"
)

// Accepted dueDate layouts, tried in order.
var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDueDate converts a date string to epoch milliseconds. An empty string
// clears the due date.
func ParseDueDate(value string) (*int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			ms := t.UnixMilli()
			return &ms, nil
		}
	}
	return nil, apierror.BadRequest(fmt.Sprintf("invalid dueDate %q", value))
}

type CreateTaskInput struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	AssigneeID  *string `json:"assigneeId"`
	Priority    *int    `json:"priority"`
	DueDate     *string `json:"dueDate"`
}

type TaskService struct {
	store *repository.Store
	audit *AuditService
}

func NewTaskService(store *repository.Store, audit *AuditService) *TaskService {
	return &TaskService{store: store, audit: audit}
}

// List returns every task, newest first. Equal creation times fall back to
// id order so the listing is stable.
func (s *TaskService) List(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	err := s.store.View(ctx, func(doc *models.Document) error {
		tasks = append([]models.Task{}, doc.Tasks...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt != tasks[j].CreatedAt {
			return tasks[i].CreatedAt > tasks[j].CreatedAt
		}
		return tasks[i].ID < tasks[j].ID
	})
	return tasks, nil
}

func (s *TaskService) Get(ctx context.Context, id string) (models.Task, error) {
	var task models.Task
	err := s.store.View(ctx, func(doc *models.Document) error {
		i, ok := doc.FindTask(id)
		if !ok {
			return apierror.NotFound("Not found")
		}
		task = doc.Tasks[i]
		return nil
	})
	return task, err
}

func (s *TaskService) Create(ctx context.Context, actor Actor, input CreateTaskInput) (models.Task, error) {
	if !policy.Allowed(actor.Role, policy.CreateTask) {
		return models.Task{}, apierror.Forbidden("Forbidden")
	}
	input.Title = strings.TrimSpace(input.Title)
	if err := validateInput(input); err != nil {
		return models.Task{}, err
	}

	var dueDate *int64
	if input.DueDate != nil {
		var err error
		if dueDate, err = ParseDueDate(*input.DueDate); err != nil {
			return models.Task{}, err
		}
	}
	priority := models.DefaultPriority
	if input.Priority != nil && *input.Priority != 0 {
		priority = *input.Priority
	}

	var task models.Task
	err := s.audit.mutate(ctx, ActionCreateTask, actorRef(actor), func(doc *models.Document, now int64) (string, error) {
		task = models.Task{
			ID:          repository.NewID(),
			Title:       input.Title,
			Description: input.Description,
			AssigneeID:  nonEmpty(input.AssigneeID),
			Status:      models.StatusTodo,
			Priority:    priority,
			DueDate:     dueDate,
			CreatedBy:   actor.ID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		doc.Tasks = append(doc.Tasks, task)
		return task.ID, nil
	})
	return task, err
}

// Update applies a partial update. Only the fields the caller's role may
// write are read from fields; anything else in the payload is ignored.
func (s *TaskService) Update(ctx context.Context, actor Actor, id string, fields map[string]json.RawMessage) (models.Task, error) {
	writable := policy.TaskFields(actor.Role)
	if len(writable) == 0 || !policy.Allowed(actor.Role, policy.UpdateTask) {
		return models.Task{}, apierror.Forbidden("Forbidden")
	}

	var task models.Task
	err := s.audit.mutate(ctx, ActionUpdateTask, actorRef(actor), func(doc *models.Document, now int64) (string, error) {
		i, ok := doc.FindTask(id)
		if !ok {
			return "", apierror.NotFound("Not found")
		}
		if actor.Role == models.RoleEmployee {
			if _, ok := fields[policy.FieldStatus]; !ok {
				return "", apierror.BadRequest("Employee can update only status")
			}
		}

		updated := doc.Tasks[i]
		for _, name := range writable {
			raw, ok := fields[name]
			if !ok {
				continue
			}
			if err := applyTaskField(&updated, name, raw); err != nil {
				return "", err
			}
		}
		updated.UpdatedAt = now
		doc.Tasks[i] = updated
		task = updated
		return updated.ID, nil
	})
	return task, err
}

func (s *TaskService) Delete(ctx context.Context, actor Actor, id string) error {
	if !policy.Allowed(actor.Role, policy.DeleteTask) {
		return apierror.Forbidden("Forbidden")
	}
	return s.audit.mutate(ctx, ActionDeleteTask, actorRef(actor), func(doc *models.Document, _ int64) (string, error) {
		i, ok := doc.FindTask(id)
		if !ok {
			return "", apierror.NotFound("Not found")
		}
		doc.Tasks = append(doc.Tasks[:i], doc.Tasks[i+1:]...)
		return id, nil
	})
}

func applyTaskField(task *models.Task, name string, raw json.RawMessage) error {
	isNull := strings.TrimSpace(string(raw)) == "null"
	invalid := func() error {
		return apierror.BadRequest(fmt.Sprintf("invalid %s", name))
	}

	switch name {
	case policy.FieldTitle:
		var title string
		if isNull || json.Unmarshal(raw, &title) != nil {
			return invalid()
		}
		if title = strings.TrimSpace(title); title == "" {
			return apierror.BadRequest("title required")
		}
		task.Title = title
	case policy.FieldDescription:
		var description string
		if !isNull && json.Unmarshal(raw, &description) != nil {
			return invalid()
		}
		task.Description = description
	case policy.FieldAssigneeID:
		var assignee *string
		if json.Unmarshal(raw, &assignee) != nil {
			return invalid()
		}
		task.AssigneeID = nonEmpty(assignee)
	case policy.FieldStatus:
		var status string
		if isNull || json.Unmarshal(raw, &status) != nil {
			return invalid()
		}
		if status == "" {
			return apierror.BadRequest("status required")
		}
		task.Status = status
	case policy.FieldPriority:
		var priority *int
		if json.Unmarshal(raw, &priority) != nil {
			return invalid()
		}
		task.Priority = models.DefaultPriority
		if priority != nil {
			task.Priority = *priority
		}
	case policy.FieldDueDate:
		var value *string
		if json.Unmarshal(raw, &value) != nil {
			return invalid()
		}
		if value == nil {
			task.DueDate = nil
			return nil
		}
		due, err := ParseDueDate(*value)
		if err != nil {
			return err
		}
		task.DueDate = due
	}
	return nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
