package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"kanban-task-api/internal/models"
	"kanban-task-api/internal/realtime"
	"kanban-task-api/internal/repository"

	"github.com/google/uuid"
)

// now is replaced in tests.
var now = time.Now

// EventPublisher receives board change notifications. Publishing is best
// effort and never fails an operation.
type EventPublisher interface {
	Publish(evt realtime.Event)
}

// CreateTaskInput carries the fields accepted on creation. Status is not
// part of it: new tasks always start in TODO.
type CreateTaskInput struct {
	Title       string
	Description *string
	DueDate     *models.Date
	Priority    *models.TaskPriority
}

// UpdateTaskInput carries a partial update. Nil fields are left untouched.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	DueDate     *models.Date
}

// TaskService holds the task business rules.
type TaskService struct {
	repo   repository.TaskRepository
	events EventPublisher
}

// NewTaskService creates a service over repo. events may be nil.
func NewTaskService(repo repository.TaskRepository, events EventPublisher) *TaskService {
	return &TaskService{repo: repo, events: events}
}

// Create stores a new task in TODO with a trimmed title.
func (s *TaskService) Create(ctx context.Context, in CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(in.Title)

	fields := map[string]string{}
	if title == "" {
		fields["title"] = MsgTitleRequired
	}
	if in.DueDate == nil {
		fields["dueDate"] = MsgDueDateRequired
	}
	if in.Priority == nil {
		fields["priority"] = MsgPriorityRequired
	} else if !in.Priority.IsValid() {
		fields["priority"] = InvalidValue(*in.Priority)
	}
	if len(fields) > 0 {
		return nil, NewValidationError(fields)
	}

	task := &models.Task{
		Title:       title,
		Description: in.Description,
		Status:      models.StatusTodo,
		Priority:    *in.Priority,
		DueDate:     *in.DueDate,
		CreatedAt:   now().Truncate(time.Microsecond),
	}
	saved, err := s.repo.Save(ctx, task)
	if err != nil {
		return nil, NewInternalError(err)
	}

	s.publish(realtime.EventTaskCreated, saved)
	return saved, nil
}

// FindAll returns every task, or only those in status when it is set.
func (s *TaskService) FindAll(ctx context.Context, status *models.TaskStatus) ([]models.Task, error) {
	var (
		tasks []models.Task
		err   error
	)
	if status == nil {
		tasks, err = s.repo.FindAll(ctx)
	} else {
		tasks, err = s.repo.FindByStatus(ctx, *status)
	}
	if err != nil {
		return nil, NewInternalError(err)
	}
	return tasks, nil
}

// FindByID returns the task or a not-found error.
func (s *TaskService) FindByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, NewNotFoundError(fmt.Sprintf("Task não encontrada: %s", id), err)
		}
		return nil, NewInternalError(err)
	}
	return task, nil
}

// Update applies the non-nil fields of in. A title that is blank after
// trimming is ignored rather than cleared.
func (s *TaskService) Update(ctx context.Context, id uuid.UUID, in UpdateTaskInput) (*models.Task, error) {
	fields := map[string]string{}
	if in.Status != nil && !in.Status.IsValid() {
		fields["status"] = InvalidValue(*in.Status)
	}
	if in.Priority != nil && !in.Priority.IsValid() {
		fields["priority"] = InvalidValue(*in.Priority)
	}
	if len(fields) > 0 {
		return nil, NewValidationError(fields)
	}

	task, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if t := strings.TrimSpace(*in.Title); t != "" {
			task.Title = t
		}
	}
	if in.Description != nil {
		task.Description = in.Description
	}
	if in.Status != nil {
		task.Status = *in.Status
	}
	if in.Priority != nil {
		task.Priority = *in.Priority
	}
	if in.DueDate != nil {
		task.DueDate = *in.DueDate
	}

	saved, err := s.repo.Save(ctx, task)
	if err != nil {
		return nil, NewInternalError(err)
	}

	s.publish(realtime.EventTaskUpdated, saved)
	return saved, nil
}

// UpdateStatus moves the task to another column and touches nothing else.
func (s *TaskService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.TaskStatus) (*models.Task, error) {
	if !status.IsValid() {
		return nil, NewValidationError(map[string]string{"status": InvalidValue(status)})
	}

	task, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	task.Status = status
	saved, err := s.repo.Save(ctx, task)
	if err != nil {
		return nil, NewInternalError(err)
	}

	s.publish(realtime.EventTaskStatusChanged, saved)
	return saved, nil
}

// Delete removes the task permanently.
func (s *TaskService) Delete(ctx context.Context, id uuid.UUID) error {
	task, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, task); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return NewNotFoundError(fmt.Sprintf("Task não encontrada: %s", id), err)
		}
		return NewInternalError(err)
	}

	s.publish(realtime.EventTaskDeleted, task)
	return nil
}

func (s *TaskService) publish(eventType string, task *models.Task) {
	if s.events == nil {
		return
	}
	s.events.Publish(realtime.Event{
		Type:      eventType,
		TaskID:    task.ID.String(),
		Status:    string(task.Status),
		Timestamp: models.FormatDateTime(now()),
	})
}
