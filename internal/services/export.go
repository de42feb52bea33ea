package services

import (
	"fmt"
	"io"
	"os"

	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/config"
	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/models"
	"github.com/raykov/gofpdf"
)

const utf8FontFamily = "report"

// PDFExporter renders a customer assessment as an A4 PDF report. Without a
// UTF-8 font, text is mapped to cp1252 for the core Arial font.
type PDFExporter struct {
	Title    string
	font     []byte
	boldFont []byte
}

func NewPDFExporter() *PDFExporter {
	return &PDFExporter{Title: "Customer Credit Rating Assessment"}
}

// NewPDFExporterFromConfig loads the TrueType fonts named in cfg. The bold
// face falls back to the regular file.
func NewPDFExporterFromConfig(cfg *config.ExportConfig) (*PDFExporter, error) {
	e := NewPDFExporter()
	if cfg == nil || cfg.FontPath == "" {
		return e, nil
	}
	font, err := os.ReadFile(cfg.FontPath)
	if err != nil {
		return nil, fmt.Errorf("read export font: %w", err)
	}
	e.font, e.boldFont = font, font
	if cfg.BoldFontPath != "" {
		if e.boldFont, err = os.ReadFile(cfg.BoldFontPath); err != nil {
			return nil, fmt.Errorf("read export bold font: %w", err)
		}
	}
	return e, nil
}

// newDocument returns a page-less document, its font family and the text
// encoder matching that family.
func (e *PDFExporter) newDocument() (*gofpdf.Fpdf, string, func(string) string) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	if len(e.font) > 0 {
		pdf.AddUTF8FontFromBytes(utf8FontFamily, "", e.font)
		pdf.AddUTF8FontFromBytes(utf8FontFamily, "B", e.boldFont)
		return pdf, utf8FontFamily, func(s string) string { return s }
	}
	return pdf, "Arial", pdf.UnicodeTranslatorFromDescriptor("")
}

func (e *PDFExporter) ExportAssessment(w io.Writer, a *models.CustomerAssessment, tpl *models.AssessmentTemplate) error {
	pdf, family, tr := e.newDocument()
	pdf.SetTitle(e.Title, true)
	pdf.SetAuthor(a.AssessedBy, true)
	pdf.AddPage()

	pdf.SetFont(family, "B", 16)
	pdf.CellFormat(0, 10, tr(e.Title), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	templateName := a.AssessmentTemplateName
	if tpl != nil {
		templateName = tpl.Name
	}

	pdf.SetFont(family, "", 11)
	for _, row := range [][2]string{
		{"Customer ID", a.CustomerID},
		{"Customer Name", a.CustomerName},
		{"NIC", a.NIC},
		{"Customer Type", string(a.CustomerType)},
		{"Template", templateName},
		{"Status", string(a.ApprovalStatus)},
		{"Assessed By", a.AssessedBy},
		{"Submitted At", a.CreatedAt.Format("2006-01-02 15:04")},
	} {
		pdf.SetFont(family, "B", 11)
		pdf.CellFormat(45, 7, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont(family, "", 11)
		pdf.CellFormat(0, 7, tr(row[1]), "", 1, "L", false, 0, "")
	}
	if a.ApprovalStatus == models.ApprovalApproved && a.ApprovedAt != nil {
		pdf.CellFormat(45, 7, "Approved By", "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, tr(fmt.Sprintf("%s (%s)", a.ApprovedBy, a.ApprovedAt.Format("2006-01-02"))), "", 1, "L", false, 0, "")
	}
	if a.ApprovalStatus == models.ApprovalRejected {
		pdf.CellFormat(45, 7, "Rejection Remarks", "", 0, "L", false, 0, "")
		pdf.MultiCell(0, 7, tr(a.RejectionRemarks), "", "L", false)
	}
	pdf.Ln(4)

	// answers, grouped by category in stored order
	byCategory := make(map[string][]models.AnswerSnapshot)
	for _, ans := range a.Answers {
		byCategory[ans.CategoryID] = append(byCategory[ans.CategoryID], ans)
	}
	for _, cs := range a.CategoryScores {
		pdf.SetFont(family, "B", 12)
		pdf.SetFillColor(230, 230, 230)
		pdf.CellFormat(150, 8, tr(cs.CategoryName), "1", 0, "L", true, 0, "")
		pdf.CellFormat(0, 8, cs.Score.StringFixed(2), "1", 1, "R", true, 0, "")

		pdf.SetFont(family, "", 9)
		for _, ans := range byCategory[cs.CategoryID] {
			pdf.CellFormat(80, 6, tr(truncate(ans.QuestionText, 55)), "1", 0, "L", false, 0, "")
			pdf.CellFormat(70, 6, tr(truncate(ans.AnswerText, 48)), "1", 0, "L", false, 0, "")
			pdf.CellFormat(0, 6, fmt.Sprintf("%s x %s%%", ans.Score.String(), ans.Weight.String()), "1", 1, "R", false, 0, "")
		}
		pdf.Ln(2)
	}

	pdf.Ln(4)
	pdf.SetFont(family, "B", 14)
	pdf.CellFormat(150, 10, "Total Score", "1", 0, "L", false, 0, "")
	pdf.CellFormat(0, 10, a.TotalScore.StringFixed(2), "1", 1, "R", false, 0, "")
	pdf.CellFormat(150, 10, "Rating", "1", 0, "L", false, 0, "")
	pdf.CellFormat(0, 10, a.Rating, "1", 1, "R", false, 0, "")

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pdf.Output(w)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "~"
}
