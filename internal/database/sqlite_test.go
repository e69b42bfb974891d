package database

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"smart-va/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "tasks.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleTask(id string, created time.Time) *models.TaskRequest {
	return &models.TaskRequest{
		ID:                  id,
		Name:                "Jane Doe",
		Email:               "jane@example.com",
		Company:             "Globex",
		TaskCategory:        "travel_planning",
		Description:         "Book flights and a hotel in Rome",
		Deadline:            "next Friday",
		CommunicationMethod: models.CommunicationEmail,
		Priority:            models.PriorityMedium,
		Status:              models.TaskStatusPending,
		TaskType:            "travel_planning",
		ConversationData:    map[string]interface{}{"name": "Jane Doe", "servicePreSelected": true},
		IPAddress:           "127.0.0.1",
		UserAgent:           "go-test",
		CreatedAt:           created,
		UpdatedAt:           created,
	}
}

func TestSQLiteStoreCreateAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	created := time.Date(2025, 8, 6, 14, 30, 0, 0, time.UTC)

	if err := store.CreateTask(ctx, sampleTask("a", created)); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	got, err := store.GetTask(ctx, "a")
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if got.Email != "jane@example.com" || got.Company != "Globex" {
		t.Errorf("Unexpected record: %+v", got)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("Expected createdAt %v, got %v", created, got.CreatedAt)
	}
	if got.ConversationData["servicePreSelected"] != true {
		t.Errorf("Expected conversation data to round-trip, got %v", got.ConversationData)
	}

	if _, err := store.GetTask(ctx, "missing"); !errors.Is(err, models.ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound, got %v", err)
	}
}

func TestSQLiteStoreListTasks(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		task := sampleTask(fmt.Sprintf("t%d", i), base.Add(time.Duration(i)*time.Hour))
		if i == 2 {
			task.Status = models.TaskStatusCompleted
			task.TaskType = "meeting"
		}
		if err := store.CreateTask(ctx, task); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
	}

	tasks, total, err := store.ListTasks(ctx, models.TaskFilter{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if total != 3 || len(tasks) != 2 {
		t.Fatalf("Expected 2 of 3 tasks, got %d of %d", len(tasks), total)
	}
	if tasks[0].ID != "t2" || tasks[1].ID != "t1" {
		t.Errorf("Expected newest first, got %s, %s", tasks[0].ID, tasks[1].ID)
	}

	tasks, total, _ = store.ListTasks(ctx, models.TaskFilter{Status: "pending", TaskType: "travel_planning", Page: 1, Limit: 10})
	if total != 2 || len(tasks) != 2 {
		t.Errorf("Expected 2 filtered tasks, got %d", total)
	}
}

func TestSQLiteStoreUpdateTaskStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	created := time.Now().UTC().Add(-time.Hour)
	_ = store.CreateTask(ctx, sampleTask("a", created))

	updated, err := store.UpdateTaskStatus(ctx, "a", models.TaskStatusCompleted)
	if err != nil {
		t.Fatalf("UpdateTaskStatus failed: %v", err)
	}
	if updated.Status != models.TaskStatusCompleted {
		t.Errorf("Expected completed, got %s", updated.Status)
	}
	if !updated.UpdatedAt.After(created) {
		t.Error("Expected updatedAt to advance")
	}

	if _, err := store.UpdateTaskStatus(ctx, "missing", models.TaskStatusCompleted); !errors.Is(err, models.ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound, got %v", err)
	}
}

func TestSQLiteStorePing(t *testing.T) {
	store := newTestStore(t)
	if err := store.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
	if store.Name() != "sqlite" {
		t.Errorf("Expected name sqlite, got %s", store.Name())
	}
}
