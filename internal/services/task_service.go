package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"smart-va/internal/models"
	"smart-va/internal/utils"
)

// MemoryStore keeps task requests in process memory. It is the availability
// fallback when no database is reachable and loses everything on restart.
type MemoryStore struct {
	tasks map[string]*models.TaskRequest
	order []string // insertion order
	mutex sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks: make(map[string]*models.TaskRequest),
	}
}

// Name implements TaskStore
func (s *MemoryStore) Name() string {
	return "memory"
}

// Ping implements TaskStore; memory is always reachable
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// CreateTask stores a copy of the task
func (s *MemoryStore) CreateTask(ctx context.Context, task *models.TaskRequest) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.tasks[task.ID]; exists {
		return fmt.Errorf("task already exists: %s", task.ID)
	}

	stored := *task
	s.tasks[task.ID] = &stored
	s.order = append(s.order, task.ID)
	return nil
}

// GetTask retrieves a task by ID
func (s *MemoryStore) GetTask(ctx context.Context, id string) (*models.TaskRequest, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	task, exists := s.tasks[id]
	if !exists {
		return nil, models.ErrTaskNotFound
	}

	found := *task
	return &found, nil
}

// ListTasks filters by status and task type, newest first
func (s *MemoryStore) ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.TaskRequest, int64, error) {
	s.mutex.RLock()
	matched := make([]models.TaskRequest, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		task := s.tasks[s.order[i]]
		if filter.Status != "" && string(task.Status) != filter.Status {
			continue
		}
		if filter.TaskType != "" && task.TaskType != filter.TaskType {
			continue
		}
		matched = append(matched, *task)
	}
	s.mutex.RUnlock()

	// Records with identical timestamps stay newest-inserted first
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start, end := utils.PageBounds(len(matched), filter.Page, filter.Limit)
	return matched[start:end], total, nil
}

// UpdateTaskStatus updates the status of a task
func (s *MemoryStore) UpdateTaskStatus(ctx context.Context, id string, status models.TaskStatus) (*models.TaskRequest, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	task, exists := s.tasks[id]
	if !exists {
		return nil, models.ErrTaskNotFound
	}

	task.Status = status
	task.UpdatedAt = time.Now().UTC()

	updated := *task
	return &updated, nil
}
