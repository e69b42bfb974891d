package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"smart-va/internal/models"
)

func newTask(id string, status models.TaskStatus, taskType string, created time.Time) *models.TaskRequest {
	return &models.TaskRequest{
		ID:        id,
		Name:      "Jane Doe",
		Email:     "jane@example.com",
		TaskType:  taskType,
		Status:    status,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestMemoryStoreCreateAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	task := newTask("a", models.TaskStatusPending, "travel_planning", time.Now())

	if err := store.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if err := store.CreateTask(ctx, task); err == nil {
		t.Error("Expected duplicate ID to be rejected")
	}

	got, err := store.GetTask(ctx, "a")
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	got.Name = "mutated"

	again, _ := store.GetTask(ctx, "a")
	if again.Name != "Jane Doe" {
		t.Error("Expected GetTask to return a copy")
	}

	if _, err := store.GetTask(ctx, "missing"); !errors.Is(err, models.ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound, got %v", err)
	}
}

func TestMemoryStoreListTasks(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		status := models.TaskStatusPending
		if i%2 == 1 {
			status = models.TaskStatusCompleted
		}
		task := newTask(fmt.Sprintf("t%d", i), status, "travel_planning", base.Add(time.Duration(i)*time.Hour))
		if err := store.CreateTask(ctx, task); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
	}

	tasks, total, err := store.ListTasks(ctx, models.TaskFilter{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if total != 5 {
		t.Errorf("Expected total 5, got %d", total)
	}
	if len(tasks) != 2 || tasks[0].ID != "t4" || tasks[1].ID != "t3" {
		t.Errorf("Expected newest first [t4 t3], got %v", ids(tasks))
	}

	tasks, _, _ = store.ListTasks(ctx, models.TaskFilter{Page: 3, Limit: 2})
	if len(tasks) != 1 || tasks[0].ID != "t0" {
		t.Errorf("Expected last page [t0], got %v", ids(tasks))
	}

	tasks, total, _ = store.ListTasks(ctx, models.TaskFilter{Status: "completed", Page: 1, Limit: 10})
	if total != 2 || len(tasks) != 2 {
		t.Errorf("Expected 2 completed tasks, got %d", total)
	}

	tasks, total, _ = store.ListTasks(ctx, models.TaskFilter{TaskType: "meeting", Page: 1, Limit: 10})
	if total != 0 || len(tasks) != 0 {
		t.Errorf("Expected no meeting tasks, got %d", total)
	}
}

func TestMemoryStoreSameTimestampOrder(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Now()
	_ = store.CreateTask(ctx, newTask("first", models.TaskStatusPending, "other", now))
	_ = store.CreateTask(ctx, newTask("second", models.TaskStatusPending, "other", now))

	tasks, _, _ := store.ListTasks(ctx, models.TaskFilter{Page: 1, Limit: 10})
	if len(tasks) != 2 || tasks[0].ID != "second" {
		t.Errorf("Expected most recent insert first, got %v", ids(tasks))
	}
}

func TestMemoryStoreUpdateTaskStatus(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	created := time.Now().Add(-time.Hour)
	_ = store.CreateTask(ctx, newTask("a", models.TaskStatusPending, "other", created))

	updated, err := store.UpdateTaskStatus(ctx, "a", models.TaskStatusOnHold)
	if err != nil {
		t.Fatalf("UpdateTaskStatus failed: %v", err)
	}
	if updated.Status != models.TaskStatusOnHold {
		t.Errorf("Expected status on-hold, got %s", updated.Status)
	}
	if !updated.CreatedAt.Equal(created) {
		t.Error("Expected creation timestamp to be unchanged")
	}
	if !updated.UpdatedAt.After(created) {
		t.Error("Expected updatedAt to advance")
	}

	if _, err := store.UpdateTaskStatus(ctx, "missing", models.TaskStatusCompleted); !errors.Is(err, models.ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound, got %v", err)
	}
}

func ids(tasks []models.TaskRequest) []string {
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.ID
	}
	return out
}
