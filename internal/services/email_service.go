package services

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html"
	"log"

	"smart-va/internal/config"
	"smart-va/internal/models"
	"smart-va/internal/utils"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const confirmationSubject = "Task Request Confirmation - Smart Virtual Assistant"

// MailSender delivers a prepared message; *sendgrid.Client satisfies it
type MailSender interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// EmailService handles email sending via SendGrid
type EmailService struct {
	enabled   bool
	fromEmail string
	fromName  string
	client    MailSender
	pdf       *PDFService
}

// NewEmailService creates a new email service
func NewEmailService(cfg config.EmailConfig, pdf *PDFService) *EmailService {
	return NewEmailServiceWithSender(cfg, sendgrid.NewSendClient(cfg.APIKey), pdf)
}

// NewEmailServiceWithSender creates an email service around an existing sender
func NewEmailServiceWithSender(cfg config.EmailConfig, client MailSender, pdf *PDFService) *EmailService {
	return &EmailService{
		enabled:   cfg.Enabled && cfg.APIKey != "",
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		client:    client,
		pdf:       pdf,
	}
}

// Enabled reports whether confirmation emails are sent
func (s *EmailService) Enabled() bool {
	return s != nil && s.enabled
}

// NotifySubmitted sends the confirmation in the background. Failures are
// logged and never reach the caller.
func (s *EmailService) NotifySubmitted(task models.TaskRequest) {
	if !s.Enabled() {
		return
	}
	go func() {
		if err := s.SendTaskConfirmation(&task); err != nil {
			log.Printf("ERROR: [EMAIL] Failed to send confirmation for task %s: %v", task.ID, err)
			return
		}
		log.Printf("[EMAIL] Confirmation email sent to %s", task.Email)
	}()
}

// SendTaskConfirmation sends the confirmation email with a PDF receipt attached
func (s *EmailService) SendTaskConfirmation(task *models.TaskRequest) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(task.Name, task.Email)

	message := mail.NewSingleEmail(from, confirmationSubject, to,
		s.buildConfirmationText(task), s.buildConfirmationHTML(task))

	if s.pdf != nil {
		pdfData, err := s.pdf.GenerateReceiptPDF(task)
		if err != nil {
			log.Printf("WARNING: [EMAIL] Failed to render receipt for task %s: %v", task.ID, err)
		} else {
			attachment := mail.NewAttachment()
			attachment.SetContent(base64.StdEncoding.EncodeToString(pdfData))
			attachment.SetType("application/pdf")
			attachment.SetFilename(fmt.Sprintf("task-request-%s.pdf", task.ID))
			attachment.SetDisposition("attachment")
			message.AddAttachment(attachment)
		}
	}

	response, err := s.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email via SendGrid: %w", err)
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("SendGrid API error: status %d, body: %s", response.StatusCode, response.Body)
	}

	return nil
}

// buildConfirmationHTML builds the HTML content for the confirmation email
func (s *EmailService) buildConfirmationHTML(task *models.TaskRequest) string {
	var b bytes.Buffer
	esc := html.EscapeString
	category := esc(models.CategoryLabel(task.TaskCategory))

	b.WriteString(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #0066cc; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background-color: #f8f9fa; }
        .footer { text-align: center; padding: 20px; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Thank you for your request!</h1>
        </div>
        <div class="content">
`)
	fmt.Fprintf(&b, "            <p>Dear %s,</p>\n", esc(task.Name))
	fmt.Fprintf(&b, "            <p>We have received your %s request and will get back to you soon.</p>\n", category)
	b.WriteString("            <p><strong>Request Details:</strong></p>\n            <ul>\n")
	fmt.Fprintf(&b, "                <li>Category: %s</li>\n", category)
	fmt.Fprintf(&b, "                <li>Description: %s</li>\n", esc(task.Description))
	if task.Deadline != "" {
		fmt.Fprintf(&b, "                <li>Deadline: %s</li>\n", esc(task.Deadline))
	}
	fmt.Fprintf(&b, "                <li>Priority: %s</li>\n", esc(string(task.Priority)))
	fmt.Fprintf(&b, "                <li>Request ID: %s</li>\n", esc(task.ID))
	b.WriteString(`            </ul>
            <p>A PDF copy of your request is attached.</p>
            <p>Best regards,<br>Smart Virtual Assistant Team</p>
        </div>
        <div class="footer">
`)
	fmt.Fprintf(&b, "            <p>Submitted %s</p>\n", esc(utils.FormatDisplayDate(task.CreatedAt)))
	b.WriteString(`        </div>
    </div>
</body>
</html>`)

	return b.String()
}

// buildConfirmationText builds the plain text content for the confirmation email
func (s *EmailService) buildConfirmationText(task *models.TaskRequest) string {
	var b bytes.Buffer
	category := models.CategoryLabel(task.TaskCategory)

	fmt.Fprintf(&b, "Dear %s,\n\n", task.Name)
	fmt.Fprintf(&b, "We have received your %s request and will get back to you soon.\n\n", category)
	b.WriteString("Request Details:\n")
	fmt.Fprintf(&b, "- Category: %s\n", category)
	fmt.Fprintf(&b, "- Description: %s\n", task.Description)
	if task.Deadline != "" {
		fmt.Fprintf(&b, "- Deadline: %s\n", task.Deadline)
	}
	fmt.Fprintf(&b, "- Priority: %s\n", task.Priority)
	fmt.Fprintf(&b, "- Request ID: %s\n\n", task.ID)
	b.WriteString("Best regards,\nSmart Virtual Assistant Team\n")

	return b.String()
}
