package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"smart-va/internal/models"
	"smart-va/internal/services"
	"smart-va/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// Handlers contains all HTTP handlers
type Handlers struct {
	store     services.TaskStore
	chat      *services.ChatService
	email     *services.EmailService
	pdf       *services.PDFService
	devErrors bool
}

// NewHandlers creates a new handlers instance. email may be nil.
func NewHandlers(
	store services.TaskStore,
	chat *services.ChatService,
	email *services.EmailService,
	pdf *services.PDFService,
	devErrors bool,
) *Handlers {
	return &Handlers{
		store:     store,
		chat:      chat,
		email:     email,
		pdf:       pdf,
		devErrors: devErrors,
	}
}

// CreateTaskHandler handles POST /api/tasks
func (h *Handlers) CreateTaskHandler(c *gin.Context) {
	var req models.CreateTaskRequest
	if err := bindJSON(c, &req); err != nil {
		respondValidation(c, err)
		return
	}

	task := newTaskRequest(&req, c.ClientIP(), c.Request.UserAgent(), time.Now().UTC())
	if err := h.store.CreateTask(c.Request.Context(), task); err != nil {
		log.Printf("ERROR: [TASKS] Failed to store task request: %v", err)
		h.respondError(c, "Failed to submit task request", err)
		return
	}
	log.Printf("[TASKS] Stored task request %s (%s) in %s", task.ID, task.TaskCategory, h.store.Name())

	h.email.NotifySubmitted(*task)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Task request submitted successfully",
		"data":    task.Summary(),
	})
}

// newTaskRequest applies the legacy mappings and defaults to a validated body
func newTaskRequest(req *models.CreateTaskRequest, ip, userAgent string, now time.Time) *models.TaskRequest {
	priority, ok := models.ParsePriority(req.Priority)
	if !ok {
		priority = models.PriorityMedium
	}
	method, ok := models.ParseCommunicationMethod(req.CommunicationMethod)
	if !ok {
		method = models.CommunicationEmail
	}
	conversation := req.ConversationData
	if conversation == nil {
		conversation = map[string]interface{}{}
	}

	description := req.ResolvedDescription()
	deadline := req.ResolvedDeadline()
	return &models.TaskRequest{
		ID:                  utils.GenerateUUID(),
		Name:                req.Name,
		Email:               req.Email,
		Company:             req.Company,
		TaskCategory:        req.ResolvedCategory(),
		TaskSubtype:         req.TaskSubtype,
		Description:         description,
		Deadline:            deadline,
		Budget:              req.Budget,
		CommunicationMethod: method,
		AdditionalDetails:   req.AdditionalDetails,
		Priority:            priority,
		Status:              models.TaskStatusPending,
		TaskType:            req.ResolvedTaskType(),
		Message:             description,
		Schedule:            deadline,
		ConversationData:    conversation,
		IPAddress:           ip,
		UserAgent:           userAgent,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// ListTasksHandler handles GET /api/tasks
func (h *Handlers) ListTasksHandler(c *gin.Context) {
	filter := models.TaskFilter{
		Status:   c.Query("status"),
		TaskType: c.Query("taskType"),
		Page:     queryInt(c, "page", 1),
		Limit:    queryInt(c, "limit", defaultPageLimit),
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}

	tasks, total, err := h.store.ListTasks(c.Request.Context(), filter)
	if err != nil {
		log.Printf("ERROR: [TASKS] Failed to list task requests: %v", err)
		h.respondError(c, "Failed to fetch task requests", err)
		return
	}

	data := make([]models.TaskRequest, len(tasks))
	for i, task := range tasks {
		data[i] = task.Redacted()
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
		"pagination": models.Pagination{
			Current: filter.Page,
			Pages:   utils.TotalPages(total, filter.Limit),
			Total:   total,
		},
	})
}

// queryInt parses a positive integer query parameter, falling back to def
func queryInt(c *gin.Context, key string, def int) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil || value < 1 {
		return def
	}
	return value
}

// GetTaskHandler handles GET /api/tasks/:id
func (h *Handlers) GetTaskHandler(c *gin.Context) {
	task, err := h.store.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondLookupError(c, "Failed to fetch task request", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": task})
}

// UpdateTaskStatusHandler handles PATCH /api/tasks/:id/status
func (h *Handlers) UpdateTaskStatusHandler(c *gin.Context) {
	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Status.Updatable() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid status value"})
		return
	}

	task, err := h.store.UpdateTaskStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.respondLookupError(c, "Failed to update task status", err)
		return
	}
	log.Printf("[TASKS] Task request %s moved to %s", task.ID, task.Status)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Task status updated successfully",
		"data":    task,
	})
}

// TaskReceiptHandler handles GET /api/tasks/:id/receipt
func (h *Handlers) TaskReceiptHandler(c *gin.Context) {
	task, err := h.store.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondLookupError(c, "Failed to fetch task request", err)
		return
	}

	pdfBytes, err := h.pdf.GenerateReceiptPDF(task)
	if err != nil {
		log.Printf("ERROR: [TASKS] Failed to render receipt for %s: %v", task.ID, err)
		h.respondError(c, "Failed to generate receipt", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="task-request-%s.pdf"`, task.ID))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

func (h *Handlers) respondLookupError(c *gin.Context, message string, err error) {
	if errors.Is(err, models.ErrTaskNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Task request not found"})
		return
	}
	log.Printf("ERROR: [TASKS] %s: %v", message, err)
	h.respondError(c, message, err)
}

// ChatHandler handles POST /api/ai/chat. Once the body is valid it always
// answers 200, falling back to the rule-based extractor when needed.
func (h *Handlers) ChatHandler(c *gin.Context) {
	var req models.ChatRequest
	if err := bindJSON(c, &req); err != nil {
		respondValidation(c, err)
		return
	}

	input := models.ChatInput{
		Message: req.Message,
		History: req.ConversationHistory,
		State:   req.State(),
	}
	reply, source := h.safeReply(c, input)
	log.Printf("[CHAT] Reply from %s (ready=%t, missing=%v)", source, reply.Ready, reply.MissingFields)

	c.JSON(http.StatusOK, gin.H{"success": true, "data": reply})
}

// safeReply answers with the extractor if anything on the primary path panics
func (h *Handlers) safeReply(c *gin.Context, input models.ChatInput) (reply models.ChatReply, source string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: [CHAT] Recovered from panic: %v", r)
			fallback := h.chat.Fallback()
			reply = fallback.Reply(input.Message, input.State)
			source = fallback.Name()
		}
	}()
	return h.chat.Reply(c.Request.Context(), input)
}

// HealthHandler handles GET /api/health
func (h *Handlers) HealthHandler(c *gin.Context) {
	ai := h.chat.PrimaryName()
	if ai == "" {
		ai = h.chat.Fallback().Name()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"message":   "Smart Virtual Assistant API is running",
		"timestamp": utils.FormatTimestamp(time.Now()),
		"storage":   h.store.Name(),
		"ai":        ai,
	})
}
