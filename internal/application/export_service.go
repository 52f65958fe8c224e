package application

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/etlvalidator/etlvalidator/internal/domain"
)

// ExportService turns a completed result into downloadable artifacts.
type ExportService struct {
	pdf  domain.ReportExporter
	docx domain.ReportExporter
}

func NewExportService(pdf, docx domain.ReportExporter) *ExportService {
	return &ExportService{pdf: pdf, docx: docx}
}

// PDF renders the report as a PDF document.
func (s *ExportService) PDF(r *domain.ValidationResult) (*domain.Artifact, error) {
	a, err := s.pdf.Export(sections(r))
	if err != nil {
		return nil, fmt.Errorf("exporting pdf: %w", err)
	}
	return a, nil
}

// Docx renders the report as a Word document.
func (s *ExportService) Docx(r *domain.ValidationResult) (*domain.Artifact, error) {
	a, err := s.docx.Export(sections(r))
	if err != nil {
		return nil, fmt.Errorf("exporting docx: %w", err)
	}
	return a, nil
}

// Corrected returns the corrected rewrite, or false when the run has none.
func (s *ExportService) Corrected(r *domain.ValidationResult) (*domain.Artifact, bool) {
	if !r.HasCorrection() {
		return nil, false
	}
	return domain.CorrectedArtifact(r.CorrectedCode), true
}

// Artifacts returns the PDF and Word reports, followed by the corrected code
// when the run produced one.
func (s *ExportService) Artifacts(r *domain.ValidationResult) ([]*domain.Artifact, error) {
	pdf, err := s.PDF(r)
	if err != nil {
		return nil, err
	}
	docx, err := s.Docx(r)
	if err != nil {
		return nil, err
	}

	out := []*domain.Artifact{pdf, docx}
	if a, ok := s.Corrected(r); ok {
		out = append(out, a)
	}
	return out, nil
}

// WriteArtifacts writes every artifact of r into dir and returns the paths.
func (s *ExportService) WriteArtifacts(r *domain.ValidationResult, dir string) ([]string, error) {
	artifacts, err := s.Artifacts(r)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	paths := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		fp := filepath.Join(dir, a.FileName)
		if err := os.WriteFile(fp, a.Data, 0644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", a.FileName, err)
		}
		paths = append(paths, fp)
	}
	return paths, nil
}

func sections(r *domain.ValidationResult) *domain.SectionedReport {
	if r.Sections == nil {
		return domain.NewSectionedReport()
	}
	return r.Sections
}
