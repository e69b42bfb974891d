package services

import (
	"context"
	"errors"
	"log"
	"sync/atomic"

	"smart-va/internal/models"
)

// FallbackStore routes every call to the durable store while it is
// available and to the in-memory store otherwise. Records written during an
// outage stay in memory and are still found by GetTask and UpdateTaskStatus.
type FallbackStore struct {
	primary   TaskStore // nil when no database is configured
	memory    *MemoryStore
	available atomic.Bool
}

// NewFallbackStore wraps primary (may be nil) with an in-memory fallback
func NewFallbackStore(primary TaskStore, memory *MemoryStore) *FallbackStore {
	s := &FallbackStore{primary: primary, memory: memory}
	s.available.Store(primary != nil)
	return s
}

// Name reports the backend currently receiving writes
func (s *FallbackStore) Name() string {
	if s.usePrimary() {
		return s.primary.Name()
	}
	return s.memory.Name()
}

// Available reports whether the durable store is in use
func (s *FallbackStore) Available() bool {
	return s.usePrimary()
}

// SetAvailable records the durable store's reachability. It logs transitions.
func (s *FallbackStore) SetAvailable(available bool) {
	if s.primary == nil {
		return
	}
	previous := s.available.Swap(available)
	if previous == available {
		return
	}
	if available {
		log.Printf("[STORE] %s is reachable again, resuming durable storage", s.primary.Name())
	} else {
		log.Printf("WARNING: [STORE] %s unavailable, using in-memory storage", s.primary.Name())
	}
}

// Ping checks the durable store and updates availability
func (s *FallbackStore) Ping(ctx context.Context) error {
	if s.primary == nil {
		return nil
	}
	err := s.primary.Ping(ctx)
	s.SetAvailable(err == nil)
	return err
}

func (s *FallbackStore) usePrimary() bool {
	return s.primary != nil && s.available.Load()
}

// CreateTask implements TaskStore
func (s *FallbackStore) CreateTask(ctx context.Context, task *models.TaskRequest) error {
	if s.usePrimary() {
		err := s.primary.CreateTask(ctx, task)
		if err == nil {
			return nil
		}
		log.Printf("WARNING: [STORE] failed to save task %s to %s: %v", task.ID, s.primary.Name(), err)
		s.SetAvailable(false)
	}
	log.Printf("[STORE] Using in-memory storage for task request %s", task.ID)
	return s.memory.CreateTask(ctx, task)
}

// GetTask implements TaskStore
func (s *FallbackStore) GetTask(ctx context.Context, id string) (*models.TaskRequest, error) {
	var primaryErr error
	if s.usePrimary() {
		task, err := s.primary.GetTask(ctx, id)
		if err == nil {
			return task, nil
		}
		if !errors.Is(err, models.ErrTaskNotFound) {
			primaryErr = err
		}
	}

	task, err := s.memory.GetTask(ctx, id)
	if err != nil && primaryErr != nil {
		return nil, primaryErr
	}
	return task, err
}

// ListTasks implements TaskStore
func (s *FallbackStore) ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.TaskRequest, int64, error) {
	if s.usePrimary() {
		tasks, total, err := s.primary.ListTasks(ctx, filter)
		if err == nil {
			return tasks, total, nil
		}
		log.Printf("WARNING: [STORE] failed to list tasks from %s: %v", s.primary.Name(), err)
		s.SetAvailable(false)
	}
	return s.memory.ListTasks(ctx, filter)
}

// UpdateTaskStatus implements TaskStore
func (s *FallbackStore) UpdateTaskStatus(ctx context.Context, id string, status models.TaskStatus) (*models.TaskRequest, error) {
	var primaryErr error
	if s.usePrimary() {
		task, err := s.primary.UpdateTaskStatus(ctx, id, status)
		if err == nil {
			return task, nil
		}
		if !errors.Is(err, models.ErrTaskNotFound) {
			primaryErr = err
		}
	}

	task, err := s.memory.UpdateTaskStatus(ctx, id, status)
	if err != nil && primaryErr != nil {
		return nil, primaryErr
	}
	return task, err
}
