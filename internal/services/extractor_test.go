package services

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"smart-va/internal/models"
)

func TestExtractName(t *testing.T) {
	e := NewExtractor()
	tests := []struct {
		message  string
		expected string
	}{
		{"my name is Jane Doe", "Jane Doe"},
		{"Hi, my name is Jane Doe.", "Jane Doe"},
		{"My name is Jane Doe and I need help with my calendar", "Jane Doe"},
		{"I'm Robert Smith, looking for an assistant", "Robert Smith"},
		{"Hello, I am Maria", "Maria"},
		{"Carlos here, need some help", "Carlos"},
		{"I'm looking for help with travel", ""},
		{"this is urgent", ""},
		{"I need help with Travel Planning", ""},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			state := e.Extract(tt.message, models.ConversationState{})
			if state.Name != tt.expected {
				t.Errorf("Expected name %q, got %q", tt.expected, state.Name)
			}
		})
	}
}

func TestExtractEmailPreservesCase(t *testing.T) {
	e := NewExtractor()
	state := e.Extract("You can reach me at Jane.Doe@Example.COM thanks", models.ConversationState{Name: "Jane Doe"})
	if state.Email != "Jane.Doe@Example.COM" {
		t.Errorf("Expected email Jane.Doe@Example.COM, got %q", state.Email)
	}
	if state.TaskCategory != "" {
		t.Errorf("Expected no category from an email address, got %q", state.TaskCategory)
	}
}

func TestExtractCompany(t *testing.T) {
	e := NewExtractor()
	tests := []struct {
		message  string
		expected string
	}{
		{"I work at Globex and need support", "Globex"},
		{"My name is Jane Doe from Initech", "Initech"},
		{"We are Acme Solutions", "Acme Solutions"},
		{"I got an email from my boss", ""},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			state := e.Extract(tt.message, models.ConversationState{})
			if state.Company != tt.expected {
				t.Errorf("Expected company %q, got %q", tt.expected, state.Company)
			}
		})
	}
}

func TestExtractDeadline(t *testing.T) {
	e := NewExtractor()
	tests := []struct {
		message  string
		expected string
	}{
		{"I need it done by Friday", "Friday"},
		{"the deadline is August 6, 2025", "August 6, 2025"},
		{"sometime next week would be good", "next week"},
		{"please finish before 8/6/2025", "8/6/2025"},
		{"ideally 12-15", "12-15"},
		{"call 555-1234", ""},
		{"asap please", "ASAP"},
		{"this is an emergency", "ASAP"},
		{"no particular date", ""},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			state := e.Extract(tt.message, models.ConversationState{})
			if state.Deadline != tt.expected {
				t.Errorf("Expected deadline %q, got %q", tt.expected, state.Deadline)
			}
		})
	}
}

func TestExtractKeepsStoredDeadline(t *testing.T) {
	e := NewExtractor()
	state := e.Extract("actually by tomorrow", models.ConversationState{Deadline: "next month"})
	if state.Deadline != "next month" {
		t.Errorf("Expected stored deadline to be kept, got %q", state.Deadline)
	}
}

func TestExtractPriority(t *testing.T) {
	e := NewExtractor()
	tests := []struct {
		message  string
		previous string
		expected string
	}{
		{"this is urgent", "", "urgent"},
		{"it is important but also no rush", "", "high"},
		{"no rush at all", "", "low"},
		{"just a regular request", "", "medium"},
		{"just a regular request", "high", "high"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			state := e.Extract(tt.message, models.ConversationState{Priority: tt.previous})
			if state.Priority != tt.expected {
				t.Errorf("Expected priority %q, got %q", tt.expected, state.Priority)
			}
		})
	}
}

func TestExtractCategory(t *testing.T) {
	e := NewExtractor()
	tests := []struct {
		message  string
		previous string
		expected string
	}{
		{"I need someone to schedule meetings", "", "Calendar Management"},
		{"Book a flight and a hotel in Rome", "", "Travel Planning"},
		{"Can you analyze our competitors", "", "Research & Analysis"},
		{"I need a spreadsheet cleaned up", "", "Data Processing"},
		{"Book a flight", "Email Management", "Email Management"},
		{"nothing relevant", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			state := e.Extract(tt.message, models.ConversationState{Name: "Jane Doe", Email: "jane@example.com", TaskCategory: tt.previous})
			if state.TaskCategory != tt.expected {
				t.Errorf("Expected category %q, got %q", tt.expected, state.TaskCategory)
			}
		})
	}
}

func TestExtractNameOverrideRequiresConfidence(t *testing.T) {
	e := NewExtractor()
	prev := models.ConversationState{Name: "Jane"}

	state := e.Extract("Carlos here", prev)
	if state.Name != "Jane" {
		t.Errorf("Expected low-confidence match to keep Jane, got %q", state.Name)
	}

	state = e.Extract("Actually, my name is Janet Doe", prev)
	if state.Name != "Janet Doe" {
		t.Errorf("Expected explicit introduction to override, got %q", state.Name)
	}
}

func TestReplyAsksForNameFirst(t *testing.T) {
	reply := NewExtractor().Reply("hello there", models.ConversationState{})
	if reply.Message != greetingPrompt {
		t.Errorf("Expected greeting prompt, got %q", reply.Message)
	}
	if !reflect.DeepEqual(reply.MissingFields, []string{"name"}) {
		t.Errorf("Expected missingFields [name], got %v", reply.MissingFields)
	}
	if reply.Ready {
		t.Error("Expected ready to be false")
	}
}

func TestReplyAsksForEmailWithName(t *testing.T) {
	reply := NewExtractor().Reply("my name is Jane Doe", models.ConversationState{})
	if !strings.Contains(reply.Message, "Jane Doe") || !strings.Contains(reply.Message, "email") {
		t.Errorf("Expected personalized email prompt, got %q", reply.Message)
	}
	if !reflect.DeepEqual(reply.MissingFields, []string{"email"}) {
		t.Errorf("Expected missingFields [email], got %v", reply.MissingFields)
	}
}

func TestReplyAsksForCategory(t *testing.T) {
	prev := models.ConversationState{Name: "Jane Doe", Email: "jane@example.com"}
	reply := NewExtractor().Reply("thanks!", prev)

	if !strings.Contains(reply.Message, "What type of assistance do you need?") {
		t.Errorf("Expected category prompt, got %q", reply.Message)
	}
	if !reflect.DeepEqual(reply.MissingFields, []string{"taskCategory"}) {
		t.Errorf("Expected missingFields [taskCategory], got %v", reply.MissingFields)
	}
}

func TestReplyCategorySpecificQuestion(t *testing.T) {
	prev := models.ConversationState{Name: "Jane Doe", Email: "jane@example.com", TaskCategory: "Travel Planning"}
	reply := NewExtractor().Reply("Trip to Rome", prev)

	if reply.CollectedData.Description == "" {
		t.Fatal("Expected description to be filled from the utterance")
	}
	if !strings.Contains(reply.Message, categoryQuestions["Travel Planning"]) {
		t.Errorf("Expected Travel Planning question, got %q", reply.Message)
	}
	if !strings.HasPrefix(reply.Message, "Excellent! For Travel Planning") {
		t.Errorf("Expected inferred-category phrasing, got %q", reply.Message)
	}
	if !reflect.DeepEqual(reply.MissingFields, []string{"description"}) {
		t.Errorf("Expected missingFields [description], got %v", reply.MissingFields)
	}
}

func TestReplyPreselectedPhrasing(t *testing.T) {
	prev := models.ConversationState{
		Name:               "Jane Doe",
		Email:              "jane@example.com",
		TaskCategory:       "Financial Tasks",
		ServicePreSelected: true,
	}
	reply := NewExtractor().Reply(models.ServiceSelectionMessage("Financial Tasks"), prev)

	if reply.CollectedData.Description != "" {
		t.Errorf("Expected shortcut utterance to be skipped, got description %q", reply.CollectedData.Description)
	}
	if !strings.HasPrefix(reply.Message, "Perfect! I see you need help with Financial Tasks.") {
		t.Errorf("Expected pre-selected phrasing, got %q", reply.Message)
	}
	if !reply.CollectedData.ServicePreSelected {
		t.Error("Expected servicePreSelected to be passed through")
	}
}

func TestReplyUnknownCategoryUsesGenericQuestion(t *testing.T) {
	prev := models.ConversationState{Name: "Jane Doe", Email: "jane@example.com", TaskCategory: "Technical Support"}
	reply := NewExtractor().Reply("fix", prev)
	if !strings.HasSuffix(reply.Message, genericCategoryQuestion) {
		t.Errorf("Expected generic question, got %q", reply.Message)
	}
}

func TestReplyAsksForDeadline(t *testing.T) {
	prev := models.ConversationState{
		Name:         "Jane Doe",
		Email:        "jane@example.com",
		TaskCategory: "Travel Planning",
		Description:  "Trip to Rome for a conference",
	}
	reply := NewExtractor().Reply("Two people, business class", prev)
	if reply.Message != deadlinePrompt {
		t.Errorf("Expected deadline prompt, got %q", reply.Message)
	}
	if !reflect.DeepEqual(reply.MissingFields, []string{"deadline"}) {
		t.Errorf("Expected missingFields [deadline], got %v", reply.MissingFields)
	}
}

func TestReplyReadyWhenComplete(t *testing.T) {
	prev := models.ConversationState{
		Name:         "Jane Doe",
		Email:        "jane@example.com",
		TaskCategory: "Travel Planning",
		Description:  "Trip to Rome for a conference",
	}
	reply := NewExtractor().Reply("by next Friday", prev)

	if !reply.Ready || reply.NeedsMoreInfo {
		t.Fatalf("Expected ready reply, got ready=%v needsMoreInfo=%v", reply.Ready, reply.NeedsMoreInfo)
	}
	if len(reply.MissingFields) != 0 {
		t.Errorf("Expected no missing fields, got %v", reply.MissingFields)
	}
	if reply.CollectedData.Deadline != "next Friday" {
		t.Errorf("Expected deadline next Friday, got %q", reply.CollectedData.Deadline)
	}
	for _, want := range []string{"travel planning request", "next Friday deadline", "jane@example.com", "24 hours"} {
		if !strings.Contains(reply.Message, want) {
			t.Errorf("Expected closing message to contain %q, got %q", want, reply.Message)
		}
	}
	if reply.EstimatedTimeline != "Initial progress within 24 hours, completion by next Friday" {
		t.Errorf("Unexpected timeline %q", reply.EstimatedTimeline)
	}
	if len(reply.SuggestedNextSteps) != len(readyNextSteps) {
		t.Errorf("Expected %d next steps, got %d", len(readyNextSteps), len(reply.SuggestedNextSteps))
	}
}

func TestReplyIdempotentWithoutNewInformation(t *testing.T) {
	e := NewExtractor()
	first := e.Reply("my name is Jane Doe, jane@example.com", models.ConversationState{})
	second := e.Reply("ok", first.CollectedData)

	if !reflect.DeepEqual(first.CollectedData, second.CollectedData) {
		t.Errorf("Expected unchanged field-set, got %+v then %+v", first.CollectedData, second.CollectedData)
	}
	if !reflect.DeepEqual(first.MissingFields, second.MissingFields) {
		t.Errorf("Expected same missing fields, got %v then %v", first.MissingFields, second.MissingFields)
	}
}

func TestMergeDescription(t *testing.T) {
	base := models.ConversationState{Name: "Jane Doe", TaskCategory: "Travel Planning"}
	tests := []struct {
		name     string
		current  string
		message  string
		expected string
	}{
		{"empty replaces", "", "Trip to Rome", "Trip to Rome"},
		{"name echo replaces", "Jane Doe", "Trip to Rome", "Trip to Rome"},
		{"appends", "Trip to Rome", "for two people", "Trip to Rome for two people"},
		{"skips contained", "Trip to Rome for two people", "for two people", "Trip to Rome for two people"},
		{"skips shortcut", "", "I need help with Travel Planning", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := base
			state.Description = tt.current
			if got := mergeDescription(state, tt.message); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestMergeDescriptionCapsLength(t *testing.T) {
	state := models.ConversationState{TaskCategory: "Travel Planning", Description: strings.Repeat("a", maxDescriptionLength-5)}
	got := mergeDescription(state, "another long sentence")
	if len(got) != maxDescriptionLength {
		t.Errorf("Expected length %d, got %d", maxDescriptionLength, len(got))
	}
}

func TestMergeDescriptionCapsOnRuneBoundary(t *testing.T) {
	state := models.ConversationState{TaskCategory: "Travel Planning", Description: strings.Repeat("é", maxDescriptionLength-3)}
	got := mergeDescription(state, "réservez un hôtel à Lisbonne")
	if !utf8.ValidString(got) {
		t.Fatal("Expected valid UTF-8 after truncation")
	}
	if n := utf8.RuneCountInString(got); n != maxDescriptionLength {
		t.Errorf("Expected %d runes, got %d", maxDescriptionLength, n)
	}
}
