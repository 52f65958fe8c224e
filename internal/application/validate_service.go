package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/etlvalidator/etlvalidator/internal/domain"
)

// PipelineConfig tunes a ValidateService.
type PipelineConfig struct {
	// ProjectPath is where run history is written. Its repository supplies
	// the commit when the PySpark file has no repository of its own.
	ProjectPath string
	// Timeout bounds each model call. Zero leaves the caller's context alone.
	Timeout time.Duration
	// RecordHistory appends a RunEntry after each successful run.
	RecordHistory bool
}

// ValidateService runs the validation pipeline:
// check inputs → decode → validation prompt → sectionize → optional correction.
type ValidateService struct {
	llm     domain.LLMClient
	history domain.RunHistory
	git     domain.GitInfo
	cfg     PipelineConfig
	logger  *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewValidateService creates a ValidateService. history and git may be nil.
func NewValidateService(
	llm domain.LLMClient,
	history domain.RunHistory,
	git domain.GitInfo,
	cfg PipelineConfig,
	logger *zap.Logger,
) *ValidateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ProjectPath == "" {
		cfg.ProjectPath = "."
	}
	return &ValidateService{
		llm:     llm,
		history: history,
		git:     git,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
}

// Validate sends the two uploads to the model and returns the sectioned
// report, plus a corrected rewrite when req.Options.GenerateCorrection is set.
// Missing input fails before any remote call. Any remote failure returns an
// error and no result; a failed validation call skips the correction call.
func (s *ValidateService) Validate(ctx context.Context, req domain.ValidationRequest) (*domain.ValidationResult, error) {
	if !req.HasInputs() {
		return nil, domain.ErrMissingInput
	}
	if req.Kind == "" {
		req.Kind = domain.ETLKindInformatica
	}
	if err := req.ETL.CheckExtension(req.Kind); err != nil {
		return nil, err
	}
	if err := req.PySpark.CheckExtension(req.Kind); err != nil {
		return nil, err
	}

	etlText := req.ETL.Text()
	pysparkText := req.PySpark.Text()
	log := s.logger.With(
		zap.String("etl_kind", string(req.Kind)),
		zap.String("etl_file", req.ETL.Name),
		zap.String("pyspark_file", req.PySpark.Name),
	)

	log.Info("requesting validation report")
	report, err := s.complete(ctx, domain.BuildValidationPrompt(req.Kind, etlText, pysparkText))
	if err != nil {
		log.Error("validation request failed", zap.Error(err))
		return nil, fmt.Errorf("validation request: %w", err)
	}

	result := &domain.ValidationResult{
		RunID:       s.newID(),
		Kind:        req.Kind,
		ETLFile:     req.ETL.Name,
		PySparkFile: req.PySpark.Name,
		Report:      report,
		Sections:    domain.Sectionize(report),
		CreatedAt:   s.now().UTC(),
	}

	if req.Options.GenerateCorrection {
		log.Info("requesting corrected code")
		code, err := s.complete(ctx, domain.BuildCorrectionPrompt(etlText, pysparkText))
		if err != nil {
			log.Error("correction request failed", zap.Error(err))
			return nil, fmt.Errorf("correction request: %w", err)
		}
		result.CorrectedCode = domain.CleanCorrectedCode(code)
	}

	log.Info("validation complete",
		zap.String("run_id", result.RunID),
		zap.Int("findings", result.Sections.Count()),
		zap.Bool("corrected", result.HasCorrection()),
	)
	s.record(result, req.PySpark.Dir)
	return result, nil
}

func (s *ValidateService) complete(ctx context.Context, p domain.Prompt) (string, error) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	return s.llm.Complete(ctx, p)
}

// record appends run metadata to history. Failures are logged, not returned.
func (s *ValidateService) record(r *domain.ValidationResult, sourceDir string) {
	if !s.cfg.RecordHistory || s.history == nil {
		return
	}

	entry := domain.RunEntry{
		RunID:       r.RunID,
		Timestamp:   r.CreatedAt.Format(time.RFC3339),
		Kind:        r.Kind,
		ETLFile:     r.ETLFile,
		PySparkFile: r.PySparkFile,
		Counts:      r.Sections.Counts(),
		Corrected:   r.HasCorrection(),
	}
	entry.CommitHash = s.commitFor(sourceDir)

	if err := s.history.Save(s.cfg.ProjectPath, entry); err != nil {
		s.logger.Warn("saving run history", zap.Error(err))
	}
}

// commitFor returns the HEAD commit of the repository holding the PySpark
// file, falling back to the project's repository. Empty when neither is one.
func (s *ValidateService) commitFor(sourceDir string) string {
	if s.git == nil {
		return ""
	}
	dir := s.cfg.ProjectPath
	if sourceDir != "" && s.git.IsGitRepo(sourceDir) {
		dir = sourceDir
	}
	hash, err := s.git.CommitHash(dir)
	if err != nil {
		s.logger.Debug("no commit for run", zap.String("dir", dir), zap.Error(err))
		return ""
	}
	return hash
}

// History returns past runs recorded under the project path.
func (s *ValidateService) History() ([]domain.RunEntry, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.Load(s.cfg.ProjectPath)
}
