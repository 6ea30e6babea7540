package anthropic

import (
	"testing"

	sdkanthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joaompinto/claudine/pkg/llms"
)

func newPromptCacheTestParams() sdkanthropic.MessageNewParams {
	return sdkanthropic.MessageNewParams{
		System: []sdkanthropic.TextBlockParam{
			{Type: "text", Text: "You are a helpful assistant."},
		},
		Tools: []sdkanthropic.ToolUnionParam{
			{
				OfTool: &sdkanthropic.ToolParam{
					Name: "get_weather",
					InputSchema: sdkanthropic.ToolInputSchemaParam{
						Type: "object",
					},
				},
			},
		},
	}
}

func TestApplyPromptCachePolicy(t *testing.T) {
	t.Parallel()

	params := newPromptCacheTestParams()
	opts := &llms.CallOptions{
		PromptCachePolicy: &llms.PromptCachePolicy{
			CacheSystemPrompt: true,
			CacheTools:        true,
			TTL:               llms.PromptCacheTTL1h,
		},
	}

	reqOpts, err := applyPromptCachePolicy(&LLM{Options: &Options{}}, &params, opts)
	require.NoError(t, err)

	assert.Equal(t, sdkanthropic.CacheControlEphemeralTTLTTL1h, params.System[0].CacheControl.TTL)
	require.NotNil(t, params.Tools[0].GetCacheControl())
	assert.Equal(t, "ephemeral", string(params.Tools[0].GetCacheControl().Type))
	// 1h TTL requires the extended-cache-ttl beta header
	assert.Len(t, reqOpts, 1)
}

func TestApplyPromptCachePolicy_DefaultTTL(t *testing.T) {
	t.Parallel()

	params := newPromptCacheTestParams()
	opts := &llms.CallOptions{
		PromptCachePolicy: &llms.PromptCachePolicy{
			CacheSystemPrompt: true,
		},
	}

	reqOpts, err := applyPromptCachePolicy(&LLM{Options: &Options{}}, &params, opts)
	require.NoError(t, err)

	assert.Equal(t, "ephemeral", string(params.System[0].CacheControl.Type))
	assert.Empty(t, params.Tools[0].GetCacheControl().Type)
	assert.Empty(t, reqOpts)
}

func TestApplyPromptCachePolicy_NoPolicy(t *testing.T) {
	t.Parallel()

	params := newPromptCacheTestParams()

	reqOpts, err := applyPromptCachePolicy(&LLM{Options: &Options{}}, &params, &llms.CallOptions{})
	require.NoError(t, err)
	assert.Empty(t, reqOpts)
	assert.Empty(t, params.System[0].CacheControl.Type)
}

func TestApplyPromptCachePolicy_InvalidTTL(t *testing.T) {
	t.Parallel()

	params := newPromptCacheTestParams()
	opts := &llms.CallOptions{
		PromptCachePolicy: &llms.PromptCachePolicy{
			CacheSystemPrompt: true,
			TTL:               llms.PromptCacheTTL("2d"),
		},
	}

	_, err := applyPromptCachePolicy(&LLM{Options: &Options{}}, &params, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported prompt cache TTL")
}

func TestPromptCacheRequestOptions_ExistingHeader(t *testing.T) {
	t.Parallel()

	betaToken := string(sdkanthropic.AnthropicBetaExtendedCacheTTL2025_04_11)

	// header already opted in, no request option needed
	o := &LLM{Options: &Options{AnthropicBetaHeader: betaToken}}
	assert.Empty(t, promptCacheRequestOptions(o, true))

	// other tokens are preserved
	o = &LLM{Options: &Options{AnthropicBetaHeader: "other-beta"}}
	assert.Len(t, promptCacheRequestOptions(o, true), 1)

	assert.True(t, containsBetaHeaderToken("a, "+betaToken+" , b", betaToken))
	assert.False(t, containsBetaHeaderToken("a, b", betaToken))
}
