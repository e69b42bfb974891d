package services

import (
	"context"

	"smart-va/internal/models"
)

// TaskStore defines the persistence operations for task requests.
// This allows switching between MongoDB, SQLite and in-memory implementations.
type TaskStore interface {
	// CreateTask stores a new task request; the caller assigns ID and timestamps
	CreateTask(ctx context.Context, task *models.TaskRequest) error

	// GetTask returns the full record or models.ErrTaskNotFound
	GetTask(ctx context.Context, id string) (*models.TaskRequest, error)

	// ListTasks returns one page of records, newest first, and the total matching count
	ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.TaskRequest, int64, error)

	// UpdateTaskStatus sets the status and returns the updated record or models.ErrTaskNotFound
	UpdateTaskStatus(ctx context.Context, id string, status models.TaskStatus) (*models.TaskRequest, error)

	// Ping checks that the backend is reachable
	Ping(ctx context.Context) error

	// Name identifies the backend in logs and the health endpoint
	Name() string
}
