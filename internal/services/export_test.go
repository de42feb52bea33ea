package services

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/config"
	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/models"
	"github.com/shopspring/decimal"
)

func exportFixture(name string) *models.CustomerAssessment {
	return &models.CustomerAssessment{
		ID:             "a-1",
		CustomerID:     "C-1",
		CustomerName:   name,
		CustomerType:   models.CustomerTypeNew,
		ApprovalStatus: models.ApprovalPending,
		AssessedBy:     "carol",
		CategoryScores: []models.CategoryScore{{CategoryID: "fin", CategoryName: "Financial", Score: decimal.NewFromInt(44)}},
		Answers: []models.AnswerSnapshot{{
			CategoryID: "fin", QuestionID: "q1", QuestionText: "Annual turnover",
			AnswerID: "a1", AnswerText: "High", Score: decimal.NewFromInt(80), Weight: decimal.NewFromInt(55),
		}},
		TotalScore: decimal.NewFromInt(44),
		Rating:     string(RatingC),
	}
}

func TestPDFExporter_Cp1252Fallback(t *testing.T) {
	_, family, tr := NewPDFExporter().newDocument()
	if family != "Arial" {
		t.Errorf("family = %q, expected Arial", family)
	}

	tests := []struct {
		in       string
		expected string
	}{
		{"Acme Traders", "Acme Traders"},
		{"Café Müller", "Caf\xe9 M\xfcller"},
		{"ශ්‍රී", "....."},
	}
	for _, tt := range tests {
		if got := tr(tt.in); got != tt.expected {
			t.Errorf("tr(%q) = %q, expected %q", tt.in, got, tt.expected)
		}
	}
}

func TestPDFExporter_ExportNonLatinName(t *testing.T) {
	for _, name := range []string{"Müller & Söhne", "சுப்பிரமணியம்", "ශ්‍රී ලංකා ට්‍රේඩර්ස්"} {
		var buf bytes.Buffer
		if err := NewPDFExporter().ExportAssessment(&buf, exportFixture(name), nil); err != nil {
			t.Fatalf("ExportAssessment(%q) error = %v", name, err)
		}
		if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
			t.Errorf("ExportAssessment(%q) did not produce a PDF", name)
		}
	}
}

func TestNewPDFExporterFromConfig(t *testing.T) {
	e, err := NewPDFExporterFromConfig(&config.ExportConfig{})
	if err != nil {
		t.Fatalf("NewPDFExporterFromConfig() error = %v", err)
	}
	if len(e.font) != 0 {
		t.Error("empty config should keep the core font")
	}

	missing := filepath.Join(t.TempDir(), "missing.ttf")
	if _, err := NewPDFExporterFromConfig(&config.ExportConfig{FontPath: missing}); err == nil {
		t.Error("NewPDFExporterFromConfig() with a missing font should fail")
	}
}

func TestPDFExporter_UTF8Font(t *testing.T) {
	font := "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf"
	if _, err := os.Stat(font); err != nil {
		t.Skipf("no system TrueType font at %s", font)
	}

	e, err := NewPDFExporterFromConfig(&config.ExportConfig{FontPath: font})
	if err != nil {
		t.Fatalf("NewPDFExporterFromConfig() error = %v", err)
	}
	_, family, tr := e.newDocument()
	if family != utf8FontFamily {
		t.Errorf("family = %q, expected %q", family, utf8FontFamily)
	}
	if got := tr("Müller"); got != "Müller" {
		t.Errorf("tr() = %q, expected UTF-8 text untouched", got)
	}

	var buf bytes.Buffer
	if err := e.ExportAssessment(&buf, exportFixture("Müller & Söhne"), nil); err != nil {
		t.Fatalf("ExportAssessment() error = %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Error("export does not start with a PDF header")
	}
}
