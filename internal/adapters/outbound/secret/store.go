// Package secret resolves model API credentials from the environment or a
// local secrets file.
package secret

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/etlvalidator/etlvalidator/internal/domain"
)

// Dir and FileName locate the secrets file relative to the project path.
const (
	Dir      = ".etlvalidator"
	FileName = "secrets.toml"
)

// GenericKey is consulted after the provider-specific key.
const GenericKey = "ETLVALIDATOR_API_KEY"

var providerKeys = map[domain.Provider]string{
	domain.ProviderOpenAI: "OPENAI_API_KEY",
	domain.ProviderGemini: "GEMINI_API_KEY",
}

// ViperStore implements domain.SecretStore. Environment variables take
// precedence over values in secrets.toml.
type ViperStore struct {
	v *viper.Viper
}

// New loads secrets.toml from projectPath if present.
func New(projectPath string) (*ViperStore, error) {
	v := viper.New()
	v.AddConfigPath(filepath.Join(projectPath, Dir))
	v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
	v.SetConfigType("toml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, errors.Wrapf(err, "reading %s", filepath.Join(Dir, FileName))
		}
	}
	return &ViperStore{v: v}, nil
}

// KeyName returns the provider-specific variable name.
func KeyName(p domain.Provider) string {
	if k, ok := providerKeys[p]; ok {
		return k
	}
	return providerKeys[domain.ProviderOpenAI]
}

func (s *ViperStore) APIKey(p domain.Provider) (string, error) {
	for _, key := range []string{KeyName(p), GenericKey} {
		if val := strings.TrimSpace(s.v.GetString(key)); val != "" {
			return val, nil
		}
	}
	return "", errors.Wrapf(domain.ErrConfig, "no API key for %s: set %s or add it to %s",
		p, KeyName(p), filepath.Join(Dir, FileName))
}
