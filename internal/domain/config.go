package domain

import (
	"errors"
	"fmt"
	"time"
)

// Provider names a chat-completion backend.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// ValidProviders enumerates all supported providers.
var ValidProviders = []Provider{ProviderOpenAI, ProviderGemini}

// LLMConfig is the explicit client configuration injected at process start.
// APIKey is never read from or written to the project config file.
type LLMConfig struct {
	Provider    Provider      `yaml:"provider"    json:"provider"`
	Model       string        `yaml:"model"       json:"model"`
	BaseURL     string        `yaml:"base_url"    json:"base_url,omitempty"`
	Timeout     time.Duration `yaml:"timeout"     json:"timeout,omitempty"`
	Temperature float32       `yaml:"temperature" json:"temperature"`
	APIKey      string        `yaml:"-"           json:"-"`
}

// ServerConfig configures the web presentation layer.
type ServerConfig struct {
	Addr   string        `yaml:"addr"    json:"addr"`
	RunTTL time.Duration `yaml:"run_ttl" json:"run_ttl"`
}

// ProjectConfig holds settings loaded from .etlvalidator.yaml.
type ProjectConfig struct {
	LLM                LLMConfig    `yaml:"llm"                 json:"llm"`
	OutputDir          string       `yaml:"output_dir"          json:"output_dir,omitempty"`
	GenerateCorrection bool         `yaml:"generate_correction" json:"generate_correction"`
	History            bool         `yaml:"history"             json:"history"`
	Server             ServerConfig `yaml:"server"              json:"server"`
}

// DefaultModelFor returns the model used when none is configured.
func DefaultModelFor(p Provider) string {
	if p == ProviderGemini {
		return "gemini-2.5-pro"
	}
	return "gpt-4o"
}

// DefaultBaseURLFor returns the endpoint used when none is configured. An
// empty value lets the provider SDK pick its own.
func DefaultBaseURLFor(p Provider) string {
	if p == ProviderGemini {
		return ""
	}
	return "https://api.openai.com/v1"
}

// ApplyDefaults fills the provider, model and endpoint when they are unset.
func (c *LLMConfig) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderOpenAI
	}
	if c.Model == "" {
		c.Model = DefaultModelFor(c.Provider)
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURLFor(c.Provider)
	}
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() ProjectConfig {
	return ProjectConfig{
		LLM: LLMConfig{
			Provider: ProviderOpenAI,
			Model:    DefaultModelFor(ProviderOpenAI),
			BaseURL:  DefaultBaseURLFor(ProviderOpenAI),
		},
		OutputDir:          ".",
		GenerateCorrection: true,
		History:            true,
		Server: ServerConfig{
			Addr:   "127.0.0.1:8501",
			RunTTL: 30 * time.Minute,
		},
	}
}

// Validate checks a config and returns all problems found.
func (c ProjectConfig) Validate() error {
	var errs []error

	if c.LLM.Provider != "" {
		valid := false
		for _, p := range ValidProviders {
			if c.LLM.Provider == p {
				valid = true
				break
			}
		}
		if !valid {
			errs = append(errs, fmt.Errorf("unknown llm.provider %q (valid: openai, gemini)", c.LLM.Provider))
		}
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, fmt.Errorf("llm.temperature %.2f out of range [0, 2]", c.LLM.Temperature))
	}
	if c.LLM.Timeout < 0 {
		errs = append(errs, fmt.Errorf("llm.timeout must not be negative"))
	}
	if c.Server.RunTTL < 0 {
		errs = append(errs, fmt.Errorf("server.run_ttl must not be negative"))
	}

	return errors.Join(errs...)
}
