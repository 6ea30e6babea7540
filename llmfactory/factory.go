package llmfactory

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"

	"github.com/joaompinto/claudine/pkg/llms"
	"github.com/joaompinto/claudine/pkg/llms/anthropic"
)

var logger = xlog.NewPackageLogger("github.com/joaompinto/claudine", "llmfactory")

type Factory interface {
	DefaultModel() (llms.Model, error)
	ModelByName(name string) (llms.Model, error)
}

// Load returns a factory from a config file
func Load(location string) (Factory, error) {
	cfg, err := LoadConfig(location)
	if err != nil {
		return nil, err
	}
	return New(cfg), nil
}

type factory struct {
	cfg *Config

	byName map[string]llms.Model
	lock   sync.Mutex
}

// New creates a new LLM factory
func New(cfg *Config) Factory {
	f := &factory{
		cfg:    cfg,
		byName: make(map[string]llms.Model),
	}
	return f
}

func NewLLM(cfg *ProviderConfig) (llms.Model, error) {
	var opts []anthropic.Option
	if cfg.Token != "" {
		opts = append(opts, anthropic.WithToken(cfg.Token))
	}

	opts = append(opts, anthropic.WithModel(cfg.DefaultModel))

	if cfg.Anthropic.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.Anthropic.BaseURL))
	}
	if cfg.Anthropic.BetaHeader != "" {
		opts = append(opts, anthropic.WithAnthropicBetaHeader(cfg.Anthropic.BetaHeader))
	}
	return anthropic.New(opts...)
}

// DefaultModel returns the client of the first configured provider
func (f *factory) DefaultModel() (llms.Model, error) {
	if len(f.cfg.Providers) == 0 {
		return nil, errors.New("no providers configured")
	}
	return f.ModelByName(f.cfg.Providers[0].Name)
}

func (f *factory) ModelByName(name string) (llms.Model, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if client, ok := f.byName[name]; ok {
		return client, nil
	}

	for _, cfg := range f.cfg.Providers {
		if cfg.Name == name {
			model, err := NewLLM(cfg)
			if err != nil {
				return nil, err
			}

			logger.KV(xlog.DEBUG,
				"status", "created_llm",
				"model", cfg.DefaultModel,
				"name", cfg.Name)

			f.byName[name] = model
			return model, nil
		}
	}
	return nil, errors.Newf("provider not found for name: %s", name)
}
