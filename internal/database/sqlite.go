package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"smart-va/internal/models"

	_ "modernc.org/sqlite"
)

// SQLiteStore stores task requests in an embedded SQLite database. It is the
// durable option for single-node deployments without MongoDB.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS task_requests (
	id                   TEXT PRIMARY KEY,
	name                 TEXT NOT NULL,
	email                TEXT NOT NULL,
	company              TEXT NOT NULL DEFAULT '',
	task_category        TEXT NOT NULL,
	task_subtype         TEXT NOT NULL DEFAULT '',
	description          TEXT NOT NULL,
	deadline             TEXT NOT NULL DEFAULT '',
	budget               TEXT NOT NULL DEFAULT '',
	communication_method TEXT NOT NULL,
	additional_details   TEXT NOT NULL DEFAULT '',
	priority             TEXT NOT NULL,
	status               TEXT NOT NULL,
	task_type            TEXT NOT NULL,
	message              TEXT NOT NULL DEFAULT '',
	schedule             TEXT NOT NULL DEFAULT '',
	conversation_data    TEXT NOT NULL DEFAULT '{}',
	ip_address           TEXT NOT NULL DEFAULT '',
	user_agent           TEXT NOT NULL DEFAULT '',
	created_at           DATETIME NOT NULL,
	updated_at           DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_task_requests_email ON task_requests(email, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_task_requests_type_status ON task_requests(task_type, status);
CREATE INDEX IF NOT EXISTS idx_task_requests_created ON task_requests(created_at DESC);
`

const taskColumns = `id, name, email, company, task_category, task_subtype, description, deadline, budget,
	communication_method, additional_details, priority, status, task_type, message, schedule,
	conversation_data, ip_address, user_agent, created_at, updated_at`

// NewSQLiteStore opens (or creates) the database at path and runs migrations
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Name implements services.TaskStore
func (s *SQLiteStore) Name() string {
	return "sqlite"
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping checks the database connection is alive
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateTask inserts a new task request
func (s *SQLiteStore) CreateTask(ctx context.Context, task *models.TaskRequest) error {
	conversation, err := json.Marshal(task.ConversationData)
	if err != nil {
		return fmt.Errorf("encode conversation data: %w", err)
	}
	if task.ConversationData == nil {
		conversation = []byte("{}")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO task_requests (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Name, task.Email, task.Company, task.TaskCategory, task.TaskSubtype, task.Description,
		task.Deadline, task.Budget, string(task.CommunicationMethod), task.AdditionalDetails, string(task.Priority),
		string(task.Status), task.TaskType, task.Message, task.Schedule, string(conversation),
		task.IPAddress, task.UserAgent, task.CreatedAt.UTC(), task.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert task request: %w", err)
	}
	return nil
}

// GetTask retrieves a task request by ID
func (s *SQLiteStore) GetTask(ctx context.Context, id string) (*models.TaskRequest, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM task_requests WHERE id = ?`, id)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query task request: %w", err)
	}
	return task, nil
}

// ListTasks returns one page of task requests, newest first
func (s *SQLiteStore) ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.TaskRequest, int64, error) {
	var where []string
	var args []interface{}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.TaskType != "" {
		where = append(where, "task_type = ?")
		args = append(args, filter.TaskType)
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM task_requests`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count task requests: %w", err)
	}

	pageArgs := append(append([]interface{}{}, args...), filter.Limit, filter.Skip())
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM task_requests`+clause+` ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?`,
		pageArgs...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("query task requests: %w", err)
	}
	defer rows.Close()

	tasks := []models.TaskRequest{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan task request: %w", err)
		}
		tasks = append(tasks, *task)
	}
	return tasks, total, rows.Err()
}

// UpdateTaskStatus sets the status of a task request
func (s *SQLiteStore) UpdateTaskStatus(ctx context.Context, id string, status models.TaskStatus) (*models.TaskRequest, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE task_requests SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update task status: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, models.ErrTaskNotFound
	}
	return s.GetTask(ctx, id)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*models.TaskRequest, error) {
	var task models.TaskRequest
	var method, priority, status, conversation string
	err := row.Scan(
		&task.ID, &task.Name, &task.Email, &task.Company, &task.TaskCategory, &task.TaskSubtype,
		&task.Description, &task.Deadline, &task.Budget, &method, &task.AdditionalDetails, &priority,
		&status, &task.TaskType, &task.Message, &task.Schedule, &conversation,
		&task.IPAddress, &task.UserAgent, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	task.CommunicationMethod = models.CommunicationMethod(method)
	task.Priority = models.Priority(priority)
	task.Status = models.TaskStatus(status)
	if conversation != "" && conversation != "{}" && conversation != "null" {
		if err := json.Unmarshal([]byte(conversation), &task.ConversationData); err != nil {
			return nil, fmt.Errorf("decode conversation data: %w", err)
		}
	}
	return &task, nil
}
