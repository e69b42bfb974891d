// Package apiclient talks to the intake server's JSON API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"smart-va/internal/models"
)

// DefaultClientTimeout is the default timeout for API requests.
const DefaultClientTimeout = 30 * time.Second

// Client wraps HTTP calls to the intake API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for baseURL (e.g. http://localhost:5000).
// token is sent as a bearer token when non-empty.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: DefaultClientTimeout,
		},
	}
}

// APIError is a non-2xx answer from the server
type APIError struct {
	StatusCode int
	Message    string
	Errors     []models.ValidationError
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		parts := make([]string, len(e.Errors))
		for i, fe := range e.Errors {
			parts[i] = fe.Field + ": " + fe.Message
		}
		return fmt.Sprintf("API error (%d): %s", e.StatusCode, strings.Join(parts, "; "))
	}
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

type envelope struct {
	Success    bool                     `json:"success"`
	Message    string                   `json:"message"`
	Error      string                   `json:"error"`
	Errors     []models.ValidationError `json:"errors"`
	Data       json.RawMessage          `json:"data"`
	Pagination *models.Pagination       `json:"pagination"`
}

// Health is the health endpoint payload
type Health struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Storage   string `json:"storage"`
	AI        string `json:"ai"`
}

// Chat sends one conversation turn
func (c *Client) Chat(ctx context.Context, req models.ChatRequest) (*models.ChatReply, error) {
	var reply models.ChatReply
	if _, err := c.do(ctx, http.MethodPost, "/api/ai/chat", req, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// SubmitTask submits a finished task request
func (c *Client) SubmitTask(ctx context.Context, req models.CreateTaskRequest) (*models.TaskSummary, error) {
	var summary models.TaskSummary
	if _, err := c.do(ctx, http.MethodPost, "/api/tasks", req, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// ListTasks fetches one page of task requests
func (c *Client) ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.TaskRequest, models.Pagination, error) {
	query := url.Values{}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.Status != "" {
		query.Set("status", filter.Status)
	}
	if filter.TaskType != "" {
		query.Set("taskType", filter.TaskType)
	}
	path := "/api/tasks"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var tasks []models.TaskRequest
	env, err := c.do(ctx, http.MethodGet, path, nil, &tasks)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	var page models.Pagination
	if env.Pagination != nil {
		page = *env.Pagination
	}
	return tasks, page, nil
}

// GetTask fetches the full record of one task request
func (c *Client) GetTask(ctx context.Context, id string) (*models.TaskRequest, error) {
	var task models.TaskRequest
	if _, err := c.do(ctx, http.MethodGet, "/api/tasks/"+url.PathEscape(id), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTaskStatus changes the status of a task request
func (c *Client) UpdateTaskStatus(ctx context.Context, id string, status models.TaskStatus) (*models.TaskRequest, error) {
	var task models.TaskRequest
	body := models.UpdateStatusRequest{Status: status}
	if _, err := c.do(ctx, http.MethodPatch, "/api/tasks/"+url.PathEscape(id)+"/status", body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Receipt downloads the PDF receipt of a task request
func (c *Client) Receipt(ctx context.Context, id string) ([]byte, error) {
	resp, err := c.send(ctx, http.MethodGet, "/api/tasks/"+url.PathEscape(id)+"/receipt", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, decodeError(resp.StatusCode, body)
	}
	return body, nil
}

// Health checks the server
func (c *Client) Health(ctx context.Context) (*Health, error) {
	resp, err := c.send(ctx, http.MethodGet, "/api/health", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var health Health
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return nil, fmt.Errorf("failed to decode health response: %w", err)
	}
	return &health, nil
}

func (c *Client) send(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	return resp, nil
}

// do performs a JSON round trip and decodes the data field into out
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) (*envelope, error) {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, decodeError(resp.StatusCode, raw)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return &env, nil
}

func decodeError(status int, body []byte) error {
	apiErr := &APIError{StatusCode: status}
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil {
		apiErr.Message = env.Message
		if apiErr.Message == "" {
			apiErr.Message = env.Error
		}
		apiErr.Errors = env.Errors
	}
	if apiErr.Message == "" && len(apiErr.Errors) == 0 {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}
