package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"smart-va/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 10 << 20

var registerOnce sync.Once

// registerValidators teaches gin's validator the json field names and the
// custom tags used by the request models
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("taskcategory", func(fl validator.FieldLevel) bool {
			return models.IsValidCategory(fl.Field().String())
		})
	})
}

// fieldMessages are keyed by the validator namespace with slice indices removed
var fieldMessages = map[string]string{
	"CreateTaskRequest.name":                "Name must be between 2 and 100 characters",
	"CreateTaskRequest.email":               "Please provide a valid email address",
	"CreateTaskRequest.company":             "Company name must be less than 200 characters",
	"CreateTaskRequest.taskCategory":        "Invalid task category",
	"CreateTaskRequest.taskSubtype":         "Task subtype must be less than 100 characters",
	"CreateTaskRequest.description":         "Description must be between 10 and 2000 characters",
	"CreateTaskRequest.priority":            "Priority must be low, medium, high, or urgent",
	"CreateTaskRequest.deadline":            "Deadline information must be less than 200 characters",
	"CreateTaskRequest.budget":              "Budget information must be less than 100 characters",
	"CreateTaskRequest.communicationMethod": "Invalid communication method",
	"CreateTaskRequest.additionalDetails":   "Additional details must be less than 1000 characters",
	"CreateTaskRequest.taskType":            "Invalid task type",
	"CreateTaskRequest.message":             "Message must be between 10 and 1000 characters",
	"CreateTaskRequest.schedule":            "Schedule information must be less than 200 characters",
	"ChatRequest.message":                   "Message must be between 1 and 1000 characters",
	"ChatRequest.conversationHistory":       "Conversation history must be an array with max 20 messages",
	"ChatRequest.conversationHistory.role":  "Conversation history roles must be user or assistant",
}

var indexSuffix = regexp.MustCompile(`\[\d+\]`)

// validationErrors converts a binding error into field-level messages
func validationErrors(err error) []models.ValidationError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]models.ValidationError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, models.ValidationError{
				Field:   fieldPath(fe.Namespace()),
				Message: fieldMessage(fe),
			})
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		message := fmt.Sprintf("%s has an invalid type", field)
		if field == "conversationData" {
			message = "Conversation data must be an object"
		}
		return []models.ValidationError{{Field: field, Message: message}}
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return []models.ValidationError{{Field: "body", Message: "Request body is too large"}}
	}

	return []models.ValidationError{{Field: "body", Message: "Request body must be valid JSON"}}
}

// fieldPath drops the top-level struct name from a validator namespace
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func fieldMessage(fe validator.FieldError) string {
	if msg, ok := fieldMessages[indexSuffix.ReplaceAllString(fe.Namespace(), "")]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "min", "max":
		return fmt.Sprintf("%s has an invalid length", fe.Field())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

// normalizer is implemented by request bodies that clean themselves up before validation
type normalizer interface {
	Normalize()
}

// bindJSON decodes the body into obj, normalizes it when supported, then
// runs the struct validator. An empty body decodes as an empty object.
func bindJSON(c *gin.Context, obj interface{}) error {
	registerValidators()

	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if n, ok := obj.(normalizer); ok {
		n.Normalize()
	}
	return binding.Validator.ValidateStruct(obj)
}

// respondValidation writes the 400 validation envelope
func respondValidation(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"errors":  validationErrors(err),
	})
}

// respondError writes a 500 envelope; the underlying error is only exposed in development
func (h *Handlers) respondError(c *gin.Context, message string, err error) {
	detail := "Internal server error"
	if h.devErrors {
		detail = err.Error()
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"message": message,
		"error":   detail,
	})
}
