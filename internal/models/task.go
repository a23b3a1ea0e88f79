package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the Kanban column of a task
type TaskStatus string

const (
	StatusTodo  TaskStatus = "TODO"
	StatusDoing TaskStatus = "DOING"
	StatusDone  TaskStatus = "DONE"
)

// IsValid reports whether s is one of the known statuses.
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusTodo, StatusDoing, StatusDone:
		return true
	}
	return false
}

// ParseTaskStatus converts a wire value into a TaskStatus.
func ParseTaskStatus(value string) (TaskStatus, error) {
	s := TaskStatus(value)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid task status %q", value)
	}
	return s, nil
}

// TaskPriority represents the urgency of a task
type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

// IsValid reports whether p is one of the known priorities.
func (p TaskPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task represents one Kanban card. The schema lives in the SQL migrations,
// the tags only map columns.
type Task struct {
	ID          uuid.UUID    `gorm:"column:id;primaryKey"`
	Title       string       `gorm:"column:title"`
	Description *string      `gorm:"column:description"`
	Status      TaskStatus   `gorm:"column:status"`
	Priority    TaskPriority `gorm:"column:priority"`
	DueDate     Date         `gorm:"column:due_date"`
	CreatedAt   time.Time    `gorm:"column:created_at;<-:create"`
}

// TableName specifies the table name for Task Model
func (Task) TableName() string {
	return "tasks"
}
