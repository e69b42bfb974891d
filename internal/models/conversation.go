package models

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
)

// MinDescriptionLength is the shortest description that counts as provided
const MinDescriptionLength = 15

// ConversationState is the field-set accumulated over a conversation. The
// caller owns it and sends it back on every chat turn.
type ConversationState struct {
	Name                string `json:"name"`
	Email               string `json:"email"`
	Company             string `json:"company"`
	TaskCategory        string `json:"taskCategory"`
	TaskSubtype         string `json:"taskSubtype,omitempty"`
	Description         string `json:"description"`
	Priority            string `json:"priority"`
	Deadline            string `json:"deadline"`
	Budget              string `json:"budget"`
	CommunicationMethod string `json:"communicationMethod"`
	AdditionalDetails   string `json:"additionalDetails"`

	// ServicePreSelected is set when the user picked a service shortcut
	ServicePreSelected bool `json:"servicePreSelected,omitempty"`
}

// UnmarshalJSON accepts numbers and booleans for the text fields, and a
// quoted boolean for servicePreSelected
func (s *ConversationState) UnmarshalJSON(data []byte) error {
	var wire struct {
		Name                looseString `json:"name"`
		Email               looseString `json:"email"`
		Company             looseString `json:"company"`
		TaskCategory        looseString `json:"taskCategory"`
		TaskSubtype         looseString `json:"taskSubtype"`
		Description         looseString `json:"description"`
		Priority            looseString `json:"priority"`
		Deadline            looseString `json:"deadline"`
		Budget              looseString `json:"budget"`
		CommunicationMethod looseString `json:"communicationMethod"`
		AdditionalDetails   looseString `json:"additionalDetails"`
		ServicePreSelected  looseBool   `json:"servicePreSelected"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*s = ConversationState{
		Name:                string(wire.Name),
		Email:               string(wire.Email),
		Company:             string(wire.Company),
		TaskCategory:        string(wire.TaskCategory),
		TaskSubtype:         string(wire.TaskSubtype),
		Description:         string(wire.Description),
		Priority:            string(wire.Priority),
		Deadline:            string(wire.Deadline),
		Budget:              string(wire.Budget),
		CommunicationMethod: string(wire.CommunicationMethod),
		AdditionalDetails:   string(wire.AdditionalDetails),
		ServicePreSelected:  bool(wire.ServicePreSelected),
	}
	return nil
}

// looseString decodes a JSON string, number or boolean as text
type looseString string

func (v *looseString) UnmarshalJSON(data []byte) error {
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = ""
	case data[0] == '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*v = looseString(text)
	case data[0] == '{':
		return &json.UnmarshalTypeError{Value: "object", Type: reflect.TypeOf("")}
	case data[0] == '[':
		return &json.UnmarshalTypeError{Value: "array", Type: reflect.TypeOf("")}
	default:
		*v = looseString(data)
	}
	return nil
}

// looseBool decodes a JSON boolean or a quoted one
type looseBool bool

func (v *looseBool) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*v = false
		return nil
	}
	text := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(text))
	if err != nil {
		return &json.UnmarshalTypeError{Value: text, Type: reflect.TypeOf(false)}
	}
	*v = looseBool(parsed)
	return nil
}

// HasDescription reports whether the description is long enough and is not
// just the requester's name echoed back
func (s ConversationState) HasDescription() bool {
	return len(s.Description) >= MinDescriptionLength && s.Description != s.Name
}

// Missing returns the first unmet required field, or "" when complete
func (s ConversationState) Missing() string {
	switch {
	case s.Name == "":
		return "name"
	case s.Email == "":
		return "email"
	case s.TaskCategory == "":
		return "taskCategory"
	case !s.HasDescription():
		return "description"
	case s.Deadline == "":
		return "deadline"
	}
	return ""
}

// Complete reports whether every field needed for submission is present
func (s ConversationState) Complete() bool {
	return s.Missing() == ""
}

// ToCreateRequest converts a finished conversation into a submission body,
// keeping the field-set as the audit payload
func (s ConversationState) ToCreateRequest() CreateTaskRequest {
	priority := strings.ToLower(s.Priority)
	if _, ok := ParsePriority(priority); !ok {
		priority = ""
	}
	method := s.CommunicationMethod
	if _, ok := ParseCommunicationMethod(method); !ok {
		method = ""
	}
	return CreateTaskRequest{
		Name:                s.Name,
		Email:               s.Email,
		Company:             s.Company,
		TaskCategory:        s.TaskCategory,
		TaskSubtype:         s.TaskSubtype,
		Description:         s.Description,
		Priority:            priority,
		Deadline:            s.Deadline,
		Budget:              s.Budget,
		CommunicationMethod: method,
		AdditionalDetails:   s.AdditionalDetails,
		ConversationData:    s.AsMap(),
	}
}

// AsMap returns the field-set as an opaque key-value bag
func (s ConversationState) AsMap() map[string]interface{} {
	m := map[string]interface{}{
		"name":                s.Name,
		"email":               s.Email,
		"company":             s.Company,
		"taskCategory":        s.TaskCategory,
		"description":         s.Description,
		"priority":            s.Priority,
		"deadline":            s.Deadline,
		"budget":              s.Budget,
		"communicationMethod": s.CommunicationMethod,
		"additionalDetails":   s.AdditionalDetails,
	}
	if s.TaskSubtype != "" {
		m["taskSubtype"] = s.TaskSubtype
	}
	if s.ServicePreSelected {
		m["servicePreSelected"] = true
	}
	return m
}

// ChatInput is one chat turn to be answered
type ChatInput struct {
	Message string
	History []ChatTurn
	State   ConversationState
}

// ChatReply is the answer to a chat turn, from the AI delegate or the extractor
type ChatReply struct {
	Message            string            `json:"message"`
	NeedsMoreInfo      bool              `json:"needsMoreInfo"`
	CollectedData      ConversationState `json:"collectedData"`
	MissingFields      []string          `json:"missingFields"`
	Ready              bool              `json:"ready"`
	SuggestedNextSteps []string          `json:"suggestedNextSteps"`
	EstimatedTimeline  string            `json:"estimatedTimeline"`
}
