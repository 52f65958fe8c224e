package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/etlvalidator/etlvalidator/internal/adapters/outbound/config"
	"github.com/etlvalidator/etlvalidator/internal/adapters/outbound/export"
	"github.com/etlvalidator/etlvalidator/internal/adapters/outbound/gitinfo"
	"github.com/etlvalidator/etlvalidator/internal/adapters/outbound/history"
	"github.com/etlvalidator/etlvalidator/internal/adapters/outbound/llm"
	"github.com/etlvalidator/etlvalidator/internal/adapters/outbound/secret"
	"github.com/etlvalidator/etlvalidator/internal/application"
	"github.com/etlvalidator/etlvalidator/internal/domain"
)

// projectFlags are shared by every command that reads project settings.
type projectFlags struct {
	path       string
	configFile string
}

func (f *projectFlags) resolve() (string, domain.ProjectConfig, error) {
	path := f.path
	if path == "" {
		path = "."
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", domain.ProjectConfig{}, fmt.Errorf("resolving path: %w", err)
	}

	loader := config.New()
	var cfg domain.ProjectConfig
	if f.configFile != "" {
		cfg, err = loader.LoadFile(f.configFile)
	} else {
		cfg, err = loader.Load(absPath)
	}
	if err != nil {
		return "", domain.ProjectConfig{}, fmt.Errorf("loading config: %w", err)
	}
	return absPath, cfg, nil
}

// newValidateService resolves the API key and builds the model client.
func newValidateService(ctx context.Context, projectPath string, cfg domain.ProjectConfig) (*application.ValidateService, error) {
	secrets, err := secret.New(projectPath)
	if err != nil {
		return nil, err
	}
	key, err := secrets.APIKey(cfg.LLM.Provider)
	if err != nil {
		return nil, err
	}
	cfg.LLM.APIKey = key

	client, err := llm.New(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, err
	}

	return application.NewValidateService(
		client,
		history.New(),
		gitinfo.New(),
		application.PipelineConfig{
			ProjectPath:   projectPath,
			Timeout:       cfg.LLM.Timeout,
			RecordHistory: cfg.History,
		},
		logger,
	), nil
}

func newExportService() *application.ExportService {
	return application.NewExportService(export.NewPDF(), export.NewDocx())
}

// lazyValidator defers building the model client until the first run, so a
// missing credential only matters once both files are supplied.
type lazyValidator struct {
	once    sync.Once
	svc     *application.ValidateService
	err     error
	project string
	cfg     domain.ProjectConfig
}

func newLazyValidator(projectPath string, cfg domain.ProjectConfig) *lazyValidator {
	return &lazyValidator{project: projectPath, cfg: cfg}
}

func (l *lazyValidator) get(ctx context.Context) (application.Validator, error) {
	l.once.Do(func() {
		l.svc, l.err = newValidateService(ctx, l.project, l.cfg)
	})
	if l.err != nil {
		return nil, l.err
	}
	return l.svc, nil
}

func (l *lazyValidator) Validate(ctx context.Context, req domain.ValidationRequest) (*domain.ValidationResult, error) {
	v, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return v.Validate(ctx, req)
}
