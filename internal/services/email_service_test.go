package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"smart-va/internal/config"
	"smart-va/internal/models"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type recordingSender struct {
	sent   []*mail.SGMailV3
	status int
	err    error
}

func (r *recordingSender) Send(email *mail.SGMailV3) (*rest.Response, error) {
	r.sent = append(r.sent, email)
	if r.err != nil {
		return nil, r.err
	}
	return &rest.Response{StatusCode: r.status, Body: "response"}, nil
}

func testTask() *models.TaskRequest {
	return &models.TaskRequest{
		ID:                  "6f1c2a0e-8a44-4cf4-9f7e-1d2b3c4d5e6f",
		Name:                "Jane <Doe>",
		Email:               "jane@example.com",
		TaskCategory:        "travel_planning",
		Description:         "Book flights and a hotel in Rome for a conference",
		Deadline:            "next Friday",
		CommunicationMethod: models.CommunicationEmail,
		Priority:            models.PriorityHigh,
		Status:              models.TaskStatusPending,
		TaskType:            "travel_planning",
		CreatedAt:           time.Date(2025, 8, 6, 14, 30, 0, 0, time.UTC),
	}
}

func testEmailConfig() config.EmailConfig {
	return config.EmailConfig{Enabled: true, APIKey: "SG.test", FromEmail: "noreply@example.com", FromName: "Smart Virtual Assistant"}
}

func TestSendTaskConfirmation(t *testing.T) {
	sender := &recordingSender{status: 202}
	svc := NewEmailServiceWithSender(testEmailConfig(), sender, NewPDFService())

	if err := svc.SendTaskConfirmation(testTask()); err != nil {
		t.Fatalf("SendTaskConfirmation failed: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(sender.sent))
	}

	msg := sender.sent[0]
	if msg.Subject != confirmationSubject {
		t.Errorf("Expected subject %q, got %q", confirmationSubject, msg.Subject)
	}
	if len(msg.Attachments) != 1 || msg.Attachments[0].Type != "application/pdf" {
		t.Errorf("Expected one PDF attachment, got %+v", msg.Attachments)
	}

	var htmlBody string
	for _, c := range msg.Content {
		if c.Type == "text/html" {
			htmlBody = c.Value
		}
	}
	if !strings.Contains(htmlBody, "Travel Planning") {
		t.Error("Expected category label in HTML body")
	}
	if !strings.Contains(htmlBody, "Jane &lt;Doe&gt;") {
		t.Error("Expected name to be HTML-escaped")
	}
}

func TestSendTaskConfirmationErrors(t *testing.T) {
	tests := []struct {
		name   string
		sender *recordingSender
	}{
		{"transport error", &recordingSender{err: errors.New("connection refused")}},
		{"api error", &recordingSender{status: 401}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewEmailServiceWithSender(testEmailConfig(), tt.sender, nil)
			if err := svc.SendTaskConfirmation(testTask()); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestEmailServiceEnabled(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.EmailConfig
		expected bool
	}{
		{"enabled", testEmailConfig(), true},
		{"flag off", config.EmailConfig{APIKey: "SG.test"}, false},
		{"no key", config.EmailConfig{Enabled: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewEmailServiceWithSender(tt.cfg, &recordingSender{}, nil)
			if svc.Enabled() != tt.expected {
				t.Errorf("Expected Enabled() = %v", tt.expected)
			}
		})
	}

	var nilService *EmailService
	if nilService.Enabled() {
		t.Error("Expected nil service to be disabled")
	}
}
