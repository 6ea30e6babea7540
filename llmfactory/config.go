// Package llmfactory creates model clients from a YAML configuration,
// allowing model, endpoint and credentials to change without code changes.
package llmfactory

import (
	"github.com/effective-security/x/configloader"
)

type Config struct {
	Providers []*ProviderConfig `json:"providers" yaml:"providers"`
}

// ProviderConfig for an Anthropic provider
type ProviderConfig struct {
	Name            string          `json:"name" yaml:"name"`
	Token           string          `json:"token,omitempty" yaml:"token,omitempty"`
	DefaultModel    string          `json:"default_model,omitempty" yaml:"default_model,omitempty"`
	AvailableModels []string        `json:"available_models,omitempty" yaml:"available_models,omitempty"`
	Anthropic       AnthropicConfig `json:"anthropic" yaml:"anthropic"`
}

// AnthropicConfig specifies options config
type AnthropicConfig struct {
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	// BetaHeader adds the anthropic-beta header to all requests,
	// to opt in to beta features.
	BetaHeader string `json:"beta_header,omitempty" yaml:"beta_header,omitempty"`
}

// LoadConfig from file. Values support environment variable expansion, so
// tokens can be kept out of the file itself.
func LoadConfig(file string) (*Config, error) {
	cfg := new(Config)
	if file == "" {
		return cfg, nil
	}

	err := configloader.UnmarshalAndExpand(file, cfg)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
