package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kanban-task-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrTaskNotFound is returned when no row has the requested id.
var ErrTaskNotFound = errors.New("task not found")

// TaskRepository is the data-access contract over the tasks table.
type TaskRepository interface {
	Save(ctx context.Context, task *models.Task) (*models.Task, error)
	FindAll(ctx context.Context) ([]models.Task, error)
	FindByStatus(ctx context.Context, status models.TaskStatus) ([]models.Task, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	Delete(ctx context.Context, task *models.Task) error
}

// GormTaskRepository implements TaskRepository on top of gorm.
type GormTaskRepository struct {
	db *gorm.DB
}

var _ TaskRepository = (*GormTaskRepository)(nil)

// NewTaskRepository creates a new task repository.
func NewTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// Save inserts the task when its id is unset, otherwise overwrites the row
// with that id.
func (r *GormTaskRepository) Save(ctx context.Context, task *models.Task) (*models.Task, error) {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
		if task.CreatedAt.IsZero() {
			task.CreatedAt = time.Now().Truncate(time.Microsecond)
		}
		if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
			return nil, fmt.Errorf("failed to create task: %w", err)
		}
		return task, nil
	}

	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// FindAll retrieves all tasks in storage order.
func (r *GormTaskRepository) FindAll(ctx context.Context) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	if err := r.db.WithContext(ctx).Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	return tasks, nil
}

// FindByStatus retrieves the tasks in one column. Served by idx_tasks_status.
func (r *GormTaskRepository) FindByStatus(ctx context.Context, status models.TaskStatus) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	if err := r.db.WithContext(ctx).Where("status = ?", status).Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to find tasks by status: %w", err)
	}
	return tasks, nil
}

// FindByID retrieves a task by its id.
func (r *GormTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

// Delete removes the task row permanently.
func (r *GormTaskRepository) Delete(ctx context.Context, task *models.Task) error {
	result := r.db.WithContext(ctx).Delete(&models.Task{}, "id = ?", task.ID)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}
