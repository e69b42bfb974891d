package validation

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"smart-va/internal/models"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/chat_response.json
var chatResponseSchema []byte

var (
	chatSchemaOnce sync.Once
	chatSchema     *gojsonschema.Schema
	chatSchemaErr  error
)

// LoadSchema compiles a JSON schema document
func LoadSchema(schemaData []byte) (*gojsonschema.Schema, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaData))
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}
	return schema, nil
}

// ChatReplySchema returns the compiled schema for AI chat replies
func ChatReplySchema() (*gojsonschema.Schema, error) {
	chatSchemaOnce.Do(func() {
		chatSchema, chatSchemaErr = LoadSchema(chatResponseSchema)
	})
	return chatSchema, chatSchemaErr
}

// Validate validates a JSON document against a schema
func Validate(document string, schema *gojsonschema.Schema) error {
	result, err := schema.Validate(gojsonschema.NewStringLoader(document))
	if err != nil {
		return fmt.Errorf("failed to validate: %w", err)
	}

	if !result.Valid() {
		var errors []string
		for _, desc := range result.Errors() {
			errors = append(errors, desc.String())
		}
		return fmt.Errorf("validation failed: %v", errors)
	}

	return nil
}

// StripCodeFences removes a markdown code fence wrapped around a JSON reply
func StripCodeFences(reply string) string {
	reply = strings.TrimSpace(reply)
	if strings.HasPrefix(reply, "```json") {
		reply = strings.TrimPrefix(reply, "```json")
	} else if strings.HasPrefix(reply, "```") {
		reply = strings.TrimPrefix(reply, "```")
	} else {
		return reply
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(reply), "```"))
}

// ValidateAndParseChatReply validates and unmarshals an AI chat reply
func ValidateAndParseChatReply(replyJSON string) (*models.ChatReply, error) {
	schema, err := ChatReplySchema()
	if err != nil {
		return nil, err
	}

	replyJSON = StripCodeFences(replyJSON)
	if err := Validate(replyJSON, schema); err != nil {
		return nil, err
	}

	var reply models.ChatReply
	if err := json.Unmarshal([]byte(replyJSON), &reply); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return &reply, nil
}
