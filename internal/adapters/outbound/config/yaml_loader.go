package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/etlvalidator/etlvalidator/internal/domain"
)

// FileName is the project config file looked up in the working directory.
const FileName = ".etlvalidator.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .etlvalidator.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .etlvalidator.yaml from projectPath and overlays it on the
// defaults. A missing file yields DefaultConfig.
func (l *YAMLLoader) Load(projectPath string) (domain.ProjectConfig, error) {
	data, err := os.ReadFile(filepath.Join(projectPath, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		return domain.ProjectConfig{}, err
	}
	return parse(data, FileName)
}

// LoadFile reads an explicitly named config file, which must exist.
func (l *YAMLLoader) LoadFile(path string) (domain.ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("%w: %w", domain.ErrConfig, err)
	}
	return parse(data, filepath.Base(path))
}

func parse(data []byte, name string) (domain.ProjectConfig, error) {

	// Model and endpoint depend on the provider, so they are resolved after decoding.
	cfg := domain.DefaultConfig()
	cfg.LLM.Model = ""
	cfg.LLM.BaseURL = ""
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("parsing %s: %w", name, err)
	}

	if err := cfg.Validate(); err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("%w: %s: %w", domain.ErrConfig, name, err)
	}
	cfg.LLM.ApplyDefaults()

	return cfg, nil
}

const fileHeader = `# etlvalidator configuration
# API keys are never read from this file. Set OPENAI_API_KEY or GEMINI_API_KEY,
# or put them in .etlvalidator/secrets.toml.

`

// Write stores cfg as .etlvalidator.yaml in projectPath. An existing file is
// only replaced when force is set.
func Write(projectPath string, cfg domain.ProjectConfig, force bool) (string, error) {
	fp := filepath.Join(projectPath, FileName)
	if !force {
		if _, err := os.Stat(fp); err == nil {
			return "", fmt.Errorf("%s already exists (use --force to overwrite)", FileName)
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encoding %s: %w", FileName, err)
	}
	if err := os.WriteFile(fp, append([]byte(fileHeader), data...), 0644); err != nil {
		return "", err
	}
	return fp, nil
}
