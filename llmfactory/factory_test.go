package llmfactory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joaompinto/claudine/llmfactory"
	"github.com/joaompinto/claudine/pkg/llms"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("CLAUDINE_TEST_TOKEN", "sk-ant-test")

	cfg, err := llmfactory.LoadConfig("testdata/llm.yaml")
	require.NoError(t, err)
	require.Len(t, cfg.Providers, 2)

	p := cfg.Providers[0]
	assert.Equal(t, "ANTHROPIC", p.Name)
	// environment variables in the file are expanded on load
	assert.Equal(t, "sk-ant-test", p.Token)
	assert.Equal(t, "claude-3-7-sonnet-20250219", p.DefaultModel)
	assert.Len(t, p.AvailableModels, 2)
	assert.Equal(t, "http://localhost:8080", p.Anthropic.BaseURL)
	assert.Equal(t, "extended-cache-ttl-2025-04-11", p.Anthropic.BetaHeader)
}

func TestLoadConfig_Empty(t *testing.T) {
	t.Parallel()

	cfg, err := llmfactory.LoadConfig("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Providers)
}

func TestFactory(t *testing.T) {
	t.Setenv("CLAUDINE_TEST_TOKEN", "sk-ant-test")

	f, err := llmfactory.Load("testdata/llm.yaml")
	require.NoError(t, err)

	model, err := f.DefaultModel()
	require.NoError(t, err)
	assert.Equal(t, "claude-3-7-sonnet-20250219", model.GetName())
	assert.Equal(t, llms.ProviderAnthropic, model.GetProviderType())

	haiku, err := f.ModelByName("ANTHROPIC_HAIKU")
	require.NoError(t, err)
	assert.Equal(t, "claude-3-5-haiku-20241022", haiku.GetName())

	// clients are cached per provider name
	again, err := f.ModelByName("ANTHROPIC_HAIKU")
	require.NoError(t, err)
	assert.Same(t, haiku, again)

	_, err = f.ModelByName("OPENAI")
	assert.EqualError(t, err, "provider not found for name: OPENAI")
}

func TestFactory_NoProviders(t *testing.T) {
	t.Parallel()

	f := llmfactory.New(&llmfactory.Config{})
	_, err := f.DefaultModel()
	assert.EqualError(t, err, "no providers configured")
}
