package services

import (
	"bytes"
	"fmt"
	"strings"

	"smart-va/internal/models"
	"smart-va/internal/utils"

	"github.com/jung-kurt/gofpdf/v2"
)

// PDFService renders task request receipts
type PDFService struct{}

// NewPDFService creates a new PDF service
func NewPDFService() *PDFService {
	return &PDFService{}
}

// GenerateReceiptPDF renders a one-page receipt for a submitted task request
func (s *PDFService) GenerateReceiptPDF(task *models.TaskRequest) ([]byte, error) {
	if task == nil || task.ID == "" {
		return nil, fmt.Errorf("invalid task request")
	}

	// Create PDF document (A4, portrait)
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 20, 15)
	pdf.SetAutoPageBreak(true, 20)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(108, 117, 125) // Gray
		pdf.CellFormat(0, 10, tr("Reference "+task.ID), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 22)
	pdf.SetTextColor(0, 102, 204) // Blue
	pdf.CellFormat(0, 15, "Task Request Receipt", "", 0, "C", false, 0, "")

	pdf.Ln(12)
	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(108, 117, 125)
	pdf.CellFormat(0, 8, tr("Submitted "+utils.FormatDisplayDate(task.CreatedAt)), "", 0, "C", false, 0, "")

	s.addHeader(pdf, "Contact")
	s.addRow(pdf, tr, "Name", task.Name)
	s.addRow(pdf, tr, "Email", task.Email)
	s.addRow(pdf, tr, "Company", task.Company)
	s.addRow(pdf, tr, "Preferred contact", string(task.CommunicationMethod))

	s.addHeader(pdf, "Request")
	s.addRow(pdf, tr, "Category", models.CategoryLabel(task.TaskCategory))
	s.addRow(pdf, tr, "Subtype", task.TaskSubtype)
	s.addRow(pdf, tr, "Priority", string(task.Priority))
	s.addRow(pdf, tr, "Status", string(task.Status))
	s.addRow(pdf, tr, "Deadline", task.Deadline)
	s.addRow(pdf, tr, "Budget", task.Budget)

	s.addHeader(pdf, "Description")
	s.addParagraph(pdf, tr, task.Description)
	if task.AdditionalDetails != "" {
		s.addHeader(pdf, "Additional Details")
		s.addParagraph(pdf, tr, task.AdditionalDetails)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// addHeader adds a section header with an underline
func (s *PDFService) addHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.Ln(14)
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(33, 37, 41) // Dark gray
	pdf.CellFormat(0, 8, title, "", 0, "L", false, 0, "")

	pdf.Ln(9)
	pdf.SetLineWidth(0.5)
	pdf.SetDrawColor(0, 102, 204)
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(3)
}

// addRow adds a label/value line; empty values are skipped
func (s *PDFService) addRow(pdf *gofpdf.Fpdf, tr func(string) string, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetTextColor(73, 80, 87)
	pdf.CellFormat(45, 7, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(33, 37, 41)
	pdf.CellFormat(0, 7, tr(value), "", 1, "L", false, 0, "")
}

func (s *PDFService) addParagraph(pdf *gofpdf.Fpdf, tr func(string) string, text string) {
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(33, 37, 41)
	pdf.MultiCell(0, 5, tr(text), "", "L", false)
}
