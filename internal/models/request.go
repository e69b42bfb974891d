package models

import "strings"

// CreateTaskRequest is the body of POST /api/tasks. Legacy clients send
// taskType/message/schedule instead of taskCategory/description/deadline.
type CreateTaskRequest struct {
	Name                string `json:"name" binding:"required,min=2,max=100"`
	Email               string `json:"email" binding:"required,email"`
	Company             string `json:"company" binding:"max=200"`
	TaskCategory        string `json:"taskCategory" binding:"omitempty,taskcategory"`
	TaskSubtype         string `json:"taskSubtype" binding:"max=100"`
	Description         string `json:"description" binding:"omitempty,min=10,max=2000"`
	Priority            string `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Deadline            string `json:"deadline" binding:"max=200"`
	Budget              string `json:"budget" binding:"max=100"`
	CommunicationMethod string `json:"communicationMethod" binding:"omitempty,oneof=email phone video_call slack teams other"`
	AdditionalDetails   string `json:"additionalDetails" binding:"max=1000"`

	TaskType string `json:"taskType" binding:"omitempty,oneof=meeting reminder support scheduling other"`
	Message  string `json:"message" binding:"omitempty,min=10,max=1000"`
	Schedule string `json:"schedule" binding:"max=200"`

	ConversationData map[string]interface{} `json:"conversationData"`
}

// Normalize trims free-text fields, lower-cases the email and maps category
// labels onto slugs. It runs before validation.
func (r *CreateTaskRequest) Normalize() {
	for _, field := range []*string{
		&r.Name, &r.Email, &r.Company, &r.TaskSubtype, &r.Description, &r.Priority,
		&r.Deadline, &r.Budget, &r.CommunicationMethod, &r.AdditionalDetails,
		&r.TaskType, &r.Message, &r.Schedule,
	} {
		*field = strings.TrimSpace(*field)
	}
	r.Email = strings.ToLower(r.Email)
	r.Priority = strings.ToLower(r.Priority)
	r.TaskCategory = NormalizeCategory(r.TaskCategory)
}

// ResolvedCategory applies the legacy fallbacks for the stored category
func (r *CreateTaskRequest) ResolvedCategory() string {
	if r.TaskCategory != "" {
		return r.TaskCategory
	}
	if r.TaskType != "" {
		return r.TaskType
	}
	return DefaultCategory
}

// ResolvedTaskType returns the legacy taskType mirror stored alongside the category
func (r *CreateTaskRequest) ResolvedTaskType() string {
	if r.TaskCategory != "" {
		return r.TaskCategory
	}
	if r.TaskType != "" {
		return r.TaskType
	}
	return "other"
}

// ResolvedDescription applies the legacy fallback for the description
func (r *CreateTaskRequest) ResolvedDescription() string {
	if r.Description != "" {
		return r.Description
	}
	return r.Message
}

// ResolvedDeadline applies the legacy fallback for the deadline
func (r *CreateTaskRequest) ResolvedDeadline() string {
	if r.Deadline != "" {
		return r.Deadline
	}
	return r.Schedule
}

// UpdateStatusRequest is the body of PATCH /api/tasks/:id/status
type UpdateStatusRequest struct {
	Status TaskStatus `json:"status"`
}

// ChatTurn is one prior message of the conversation transcript
type ChatTurn struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /api/ai/chat
type ChatRequest struct {
	Message             string             `json:"message" binding:"required,min=1,max=1000"`
	ConversationHistory []ChatTurn         `json:"conversationHistory" binding:"max=20,dive"`
	ConversationData    *ConversationState `json:"conversationData"`
}

// Normalize trims the utterance before validation
func (r *ChatRequest) Normalize() {
	r.Message = strings.TrimSpace(r.Message)
}

// State returns the caller's field-set, or an empty one
func (r *ChatRequest) State() ConversationState {
	if r.ConversationData == nil {
		return ConversationState{}
	}
	return *r.ConversationData
}

// ValidationError is a single field-level validation failure
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Pagination describes a page of a listing
type Pagination struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
}
