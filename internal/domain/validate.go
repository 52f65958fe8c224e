package domain

import (
	"strings"
	"time"
)

// Options toggles optional stages of the validation pipeline.
type Options struct {
	GenerateCorrection bool `json:"generate_correction"`
}

// ValidationRequest carries one run's inputs. Either file may be nil when the
// user has not supplied it yet.
type ValidationRequest struct {
	Kind    ETLKind
	ETL     *UploadedFile
	PySpark *UploadedFile
	Options Options
}

// HasInputs reports whether both required files are present.
func (r ValidationRequest) HasInputs() bool {
	return r.ETL != nil && r.PySpark != nil
}

// ValidationResult is the outcome of one completed run.
type ValidationResult struct {
	RunID         string           `json:"run_id"`
	Kind          ETLKind          `json:"etl_kind"`
	ETLFile       string           `json:"etl_file"`
	PySparkFile   string           `json:"pyspark_file"`
	Report        string           `json:"report"`
	Sections      *SectionedReport `json:"sections"`
	CorrectedCode string           `json:"corrected_code,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// HasCorrection reports whether the run produced a corrected rewrite.
func (r *ValidationResult) HasCorrection() bool {
	return r.CorrectedCode != ""
}

// CleanCorrectedCode trims the model's rewrite and removes one enclosing
// Markdown code fence if present. The code itself is not checked.
func CleanCorrectedCode(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	body := strings.TrimSuffix(s, "```")
	nl := strings.IndexByte(body, '\n')
	if nl < 0 {
		return s
	}
	return strings.TrimSpace(body[nl+1:])
}

// Stage is the presentation state of a validation session.
type Stage string

const (
	StageIdle       Stage = "idle"
	StageValidating Stage = "validating"
	StageCompleted  Stage = "completed"
)

// Artifact is a downloadable file produced from a run.
type Artifact struct {
	FileName string `json:"file_name"`
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"-"`
}

const (
	ReportTitle       = "ETL → PySpark Validation Report"
	NoFindings        = "No findings."
	PDFFileName       = "Validation_Report.pdf"
	PDFMIMEType       = "application/pdf"
	DocxFileName      = "Validation_Report.docx"
	DocxMIMEType      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	CorrectedFileName = "Corrected_PySpark.py"
	CorrectedMIMEType = "text/x-python"
)

// CorrectedArtifact wraps a corrected rewrite as a downloadable Python file.
func CorrectedArtifact(code string) *Artifact {
	return &Artifact{
		FileName: CorrectedFileName,
		MIMEType: CorrectedMIMEType,
		Data:     []byte(code),
	}
}

// RunEntry is one line of the local run history.
type RunEntry struct {
	RunID       string         `json:"run_id"`
	Timestamp   string         `json:"timestamp"`
	Kind        ETLKind        `json:"etl_kind"`
	ETLFile     string         `json:"etl_file"`
	PySparkFile string         `json:"pyspark_file"`
	CommitHash  string         `json:"commit_hash,omitempty"`
	Counts      map[string]int `json:"counts"`
	Corrected   bool           `json:"corrected"`
}
