package models

import (
	"errors"
	"time"
)

// ErrTaskNotFound is returned by task stores when no record matches an identifier
var ErrTaskNotFound = errors.New("task request not found")

// TaskStatus represents the processing status of a task request
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
	TaskStatusOnHold     TaskStatus = "on-hold"
)

// UpdatableStatuses are the values accepted by the status-update endpoint
var UpdatableStatuses = []TaskStatus{
	TaskStatusPending,
	TaskStatusInProgress,
	TaskStatusCompleted,
	TaskStatusCancelled,
}

// Valid reports whether s is one of the stored status values
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled, TaskStatusOnHold:
		return true
	}
	return false
}

// Updatable reports whether s may be set through the status-update endpoint
func (s TaskStatus) Updatable() bool {
	for _, allowed := range UpdatableStatuses {
		if s == allowed {
			return true
		}
	}
	return false
}

// Priority of a task request
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// ParsePriority returns the priority named by s, if any
func ParsePriority(s string) (Priority, bool) {
	switch p := Priority(s); p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return p, true
	}
	return "", false
}

// CommunicationMethod is the requester's preferred contact channel
type CommunicationMethod string

const (
	CommunicationEmail CommunicationMethod = "email"
	CommunicationPhone CommunicationMethod = "phone"
	CommunicationVideo CommunicationMethod = "video_call"
	CommunicationSlack CommunicationMethod = "slack"
	CommunicationTeams CommunicationMethod = "teams"
	CommunicationOther CommunicationMethod = "other"
)

// ParseCommunicationMethod returns the method named by s, if any
func ParseCommunicationMethod(s string) (CommunicationMethod, bool) {
	switch m := CommunicationMethod(s); m {
	case CommunicationEmail, CommunicationPhone, CommunicationVideo, CommunicationSlack, CommunicationTeams, CommunicationOther:
		return m, true
	}
	return "", false
}

// TaskRequest is one submitted lead
type TaskRequest struct {
	ID                  string              `bson:"_id" json:"id"`
	Name                string              `bson:"name" json:"name"`
	Email               string              `bson:"email" json:"email"`
	Company             string              `bson:"company,omitempty" json:"company,omitempty"`
	TaskCategory        string              `bson:"taskCategory" json:"taskCategory"`
	TaskSubtype         string              `bson:"taskSubtype,omitempty" json:"taskSubtype,omitempty"`
	Description         string              `bson:"description" json:"description"`
	Deadline            string              `bson:"deadline,omitempty" json:"deadline,omitempty"`
	Budget              string              `bson:"budget,omitempty" json:"budget,omitempty"`
	CommunicationMethod CommunicationMethod `bson:"communicationMethod" json:"communicationMethod"`
	AdditionalDetails   string              `bson:"additionalDetails,omitempty" json:"additionalDetails,omitempty"`
	Priority            Priority            `bson:"priority" json:"priority"`
	Status              TaskStatus          `bson:"status" json:"status"`

	// Legacy mirrors kept for older clients
	TaskType string `bson:"taskType" json:"taskType"`
	Message  string `bson:"message,omitempty" json:"message,omitempty"`
	Schedule string `bson:"schedule,omitempty" json:"schedule,omitempty"`

	// Audit fields, stripped from listings
	ConversationData map[string]interface{} `bson:"conversationData,omitempty" json:"conversationData,omitempty"`
	IPAddress        string                 `bson:"ipAddress,omitempty" json:"ipAddress,omitempty"`
	UserAgent        string                 `bson:"userAgent,omitempty" json:"userAgent,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Redacted returns a copy with the audit fields removed
func (t TaskRequest) Redacted() TaskRequest {
	t.ConversationData = nil
	t.IPAddress = ""
	t.UserAgent = ""
	return t
}

// Summary returns the minimal view returned by the submission endpoint
func (t TaskRequest) Summary() TaskSummary {
	return TaskSummary{
		ID:        t.ID,
		Name:      t.Name,
		Email:     t.Email,
		TaskType:  t.TaskType,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
	}
}

// TaskSummary is the submission endpoint's response payload
type TaskSummary struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	TaskType  string     `json:"taskType"`
	Status    TaskStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
}

// TaskFilter selects a page of task requests
type TaskFilter struct {
	Status   string
	TaskType string
	Page     int // 1-based
	Limit    int
}

// Skip returns the number of records before the requested page
func (f TaskFilter) Skip() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}
