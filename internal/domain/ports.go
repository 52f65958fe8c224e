package domain

import "context"

// LLMClient sends one prompt to a chat-completion model and returns its full
// response text.
type LLMClient interface {
	Complete(ctx context.Context, p Prompt) (string, error)
}

// ReportExporter renders a sectioned report into a downloadable document.
type ReportExporter interface {
	Export(r *SectionedReport) (*Artifact, error)
}

// ConfigLoader loads project configuration from a directory.
type ConfigLoader interface {
	Load(projectPath string) (ProjectConfig, error)
}

// SecretStore resolves the API credential for a provider.
type SecretStore interface {
	APIKey(provider Provider) (string, error)
}

// RunHistory persists run metadata, never the uploads themselves.
type RunHistory interface {
	Save(projectPath string, entry RunEntry) error
	Load(projectPath string) ([]RunEntry, error)
}

// GitInfo reads version-control provenance for a path.
type GitInfo interface {
	IsGitRepo(path string) bool
	CommitHash(path string) (string, error)
}

// RunStore keeps completed results around long enough to be downloaded.
type RunStore interface {
	Put(result *ValidationResult)
	Get(runID string) (*ValidationResult, bool)
}
