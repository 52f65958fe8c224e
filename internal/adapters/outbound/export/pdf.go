// Package export renders sectioned validation reports as PDF and Word files.
package export

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/etlvalidator/etlvalidator/internal/domain"
)

// documentDate is stamped into every document so identical reports produce
// identical bytes.
var documentDate = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// DejaVu Sans covers Latin, Greek, Cyrillic, math operators and dingbats.
// CJK text is kept in the content stream but has no glyphs, so viewers show
// empty boxes for it.
var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	regularFont []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	boldFont []byte
)

const fontFamily = "DejaVu"

// pdfRune drops the emoji the model decorates headings with. fpdf rejects
// runes outside the Basic Multilingual Plane outright.
func pdfRune(r rune) rune {
	switch {
	case r > 0xFFFF, r == '\uFE0F', r == '✅', r == '❌':
		return -1
	default:
		return r
	}
}

// PDFExporter implements domain.ReportExporter with fpdf flowing layout.
type PDFExporter struct {
	Compress bool
}

// NewPDF creates a PDF exporter with compressed content streams.
func NewPDF() *PDFExporter {
	return &PDFExporter{Compress: true}
}

// Export lays out the title, then each section heading followed by its
// bullets or the "No findings." placeholder.
func (e *PDFExporter) Export(r *domain.SectionedReport) (*domain.Artifact, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetCompression(e.Compress)
	pdf.SetCreationDate(documentDate)
	pdf.SetModificationDate(documentDate)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(domain.ReportTitle, true)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddUTF8FontFromBytes(fontFamily, "", regularFont)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", boldFont)
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("loading pdf font: %w", err)
	}
	pdf.AddPage()

	text := func(s string) string { return strings.TrimSpace(strings.Map(pdfRune, s)) }

	pdf.SetFont(fontFamily, "B", 20)
	pdf.MultiCell(0, 10, text(domain.ReportTitle), "", "C", false)
	pdf.Ln(6)

	for _, c := range domain.Categories {
		writePDFSection(pdf, text, string(c), r.Items(c))
	}
	if len(r.Uncategorized) > 0 {
		writePDFSection(pdf, text, domain.UncategorizedTitle, r.Uncategorized)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}

	return &domain.Artifact{
		FileName: domain.PDFFileName,
		MIMEType: domain.PDFMIMEType,
		Data:     buf.Bytes(),
	}, nil
}

func writePDFSection(pdf *fpdf.Fpdf, text func(string) string, title string, items []string) {
	pdf.SetFont(fontFamily, "B", 14)
	pdf.SetTextColor(29, 78, 216)
	pdf.MultiCell(0, 8, text(title), "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont(fontFamily, "", 11)

	if len(items) == 0 {
		pdf.MultiCell(0, 6, text(domain.NoFindings), "", "L", false)
		pdf.Ln(4)
		return
	}

	left, _, _, _ := pdf.GetMargins()
	for _, item := range items {
		pdf.SetX(left + 4)
		pdf.CellFormat(5, 6, text("•"), "", 0, "L", false, 0, "")
		pdf.MultiCell(0, 6, text(item), "", "L", false)
	}
	pdf.Ln(4)
}
