package anthropic

// Prompt caching glossary:
//   - "cache_control": the request marker Anthropic uses to end a cacheable
//     prefix. At most 4 markers per request.
//   - "TTL": how long the cached prefix stays warm, 5m (default) or 1h.
//     The 1h TTL requires the extended-cache-ttl beta header.

import (
	"strings"

	sdkanthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cockroachdb/errors"

	"github.com/joaompinto/claudine/pkg/llms"
)

// applyPromptCachePolicy applies cache_control markers to the request
// in-place: the last system block when CacheSystemPrompt is set, and the last
// tool definition when CacheTools is set. The tools prefix includes the
// system prompt, so one marker on the last tool covers both when tools are
// present.
//
// The returned request options carry the beta header when the selected TTL
// requires it.
func applyPromptCachePolicy(o *LLM, params *sdkanthropic.MessageNewParams, opts *llms.CallOptions) ([]option.RequestOption, error) {
	if opts == nil || opts.PromptCachePolicy == nil {
		return nil, nil
	}
	policy := opts.PromptCachePolicy
	if !policy.CacheSystemPrompt && !policy.CacheTools {
		return nil, nil
	}

	cacheControl, needsExtendedTTLBeta, err := newCacheControl(policy.TTL)
	if err != nil {
		return nil, err
	}

	if policy.CacheSystemPrompt && len(params.System) > 0 {
		params.System[len(params.System)-1].CacheControl = cacheControl
	}

	if policy.CacheTools && len(params.Tools) > 0 {
		cacheControlPtr := params.Tools[len(params.Tools)-1].GetCacheControl()
		if cacheControlPtr == nil {
			return nil, errors.New("anthropic: prompt cache unsupported for the last tool")
		}
		*cacheControlPtr = cacheControl
	}

	return promptCacheRequestOptions(o, needsExtendedTTLBeta), nil
}

// newCacheControl maps TTL values to SDK cache_control params. The bool
// return value indicates whether the extended-cache-ttl beta header is
// required.
func newCacheControl(ttl llms.PromptCacheTTL) (sdkanthropic.CacheControlEphemeralParam, bool, error) {
	cacheControl := sdkanthropic.NewCacheControlEphemeralParam()
	switch ttl {
	case "":
		return cacheControl, false, nil
	case llms.PromptCacheTTL5m:
		cacheControl.TTL = sdkanthropic.CacheControlEphemeralTTLTTL5m
		return cacheControl, false, nil
	case llms.PromptCacheTTL1h:
		cacheControl.TTL = sdkanthropic.CacheControlEphemeralTTLTTL1h
		return cacheControl, true, nil
	default:
		return sdkanthropic.CacheControlEphemeralParam{}, false, errors.Newf("anthropic: unsupported prompt cache TTL: %q", ttl)
	}
}

// promptCacheRequestOptions appends per-request beta headers needed by
// selected TTLs. Request-scoped so the client-level header configuration is
// not mutated.
func promptCacheRequestOptions(o *LLM, needsExtendedTTLBeta bool) []option.RequestOption {
	if o == nil || o.Options == nil || !needsExtendedTTLBeta {
		return nil
	}

	betaToken := string(sdkanthropic.AnthropicBetaExtendedCacheTTL2025_04_11)
	if containsBetaHeaderToken(o.Options.AnthropicBetaHeader, betaToken) {
		return nil
	}

	headerValue := betaToken
	if strings.TrimSpace(o.Options.AnthropicBetaHeader) != "" {
		headerValue = strings.TrimSpace(o.Options.AnthropicBetaHeader) + "," + betaToken
	}
	return []option.RequestOption{
		option.WithHeader("anthropic-beta", headerValue),
	}
}

// containsBetaHeaderToken checks whether a comma-separated anthropic-beta
// header already contains the required token (whitespace-insensitive).
func containsBetaHeaderToken(headerValue, token string) bool {
	for _, part := range strings.Split(headerValue, ",") {
		if strings.TrimSpace(part) == token {
			return true
		}
	}
	return false
}
