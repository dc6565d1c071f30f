// Package pdf renders performance reports with gofpdf.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"

	"github.com/MohamedAbusurra/CS438class/internal/reports/domain"
	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
)

// ContentType is the MIME type of rendered reports.
const ContentType = "application/pdf"

// Renderer lays out a PerformanceReport on A4 pages.
type Renderer struct{}

// NewRenderer creates a renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render returns the PDF bytes for report.
func (r *Renderer) Render(report domain.PerformanceReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 20, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AliasNbPages("{nb}")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(108, 117, 125)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 20)
	pdf.SetTextColor(0, 102, 204)
	pdf.CellFormat(0, 12, "Performance Report: "+report.ProjectName, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(108, 117, 125)
	pdf.CellFormat(0, 7, "Project ID: "+report.ProjectID.String(), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, "Generated on: "+report.GeneratedOn.Format(sharedDomain.DateLayout), "", 1, "L", false, 0, "")

	if report.IncludeCompleted {
		r.section(pdf, "Tasks Completed")
		r.taskLines(pdf, report.CompletedTasks, "No tasks completed yet.")
	}
	if report.IncludeMissed {
		r.section(pdf, "Tasks Missing Deadlines")
		r.taskLines(pdf, report.MissedDeadlines, "No tasks currently past their deadline.")
	}
	if report.IncludeContributions {
		r.section(pdf, "Individual Contributions (Completed Tasks)")
		if len(report.Contributions) == 0 {
			r.body(pdf, "No completed tasks assigned to users yet.")
		}
		for _, c := range report.Contributions {
			r.body(pdf, fmt.Sprintf("- %s: %d task(s)", c.Name, c.Completed))
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) section(pdf *gofpdf.Fpdf, title string) {
	pdf.Ln(8)
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(33, 37, 41)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.SetLineWidth(0.4)
	pdf.SetDrawColor(0, 102, 204)
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(3)
}

func (r *Renderer) taskLines(pdf *gofpdf.Fpdf, lines []domain.TaskLine, empty string) {
	if len(lines) == 0 {
		r.body(pdf, empty)
		return
	}
	for _, l := range lines {
		due := "N/A"
		if l.DueDate != nil {
			due = l.DueDate.Format(sharedDomain.DateLayout)
		}
		r.body(pdf, fmt.Sprintf("- %s (Assigned: %s, Due: %s)", l.Title, l.Assignee, due))
	}
}

func (r *Renderer) body(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(33, 37, 41)
	pdf.MultiCell(0, 6, text, "", "L", false)
}
