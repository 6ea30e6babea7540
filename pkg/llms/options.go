package llms

import (
	"github.com/invopop/jsonschema"
)

// CallOption is a function that configures a CallOptions.
type CallOption func(*CallOptions)

// CallOptions is a set of options for calling models.
type CallOptions struct {
	// Model is the model to use.
	Model string
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int
	// Temperature is the temperature for sampling, between 0 and 1.
	Temperature float64
	// StopWords is a list of words to stop on.
	StopWords []string
	// TopK is the number of tokens to consider for top-k sampling.
	TopK int
	// TopP is the cumulative probability for top-p sampling.
	TopP float64

	// Tools is a list of tools the model may invoke.
	Tools []Tool
	// DisableParallelToolUse requests at most one tool call per model turn.
	// A single call per turn keeps token accounting attributable to the
	// tool that triggered it.
	DisableParallelToolUse bool

	// PromptCachePolicy selects which request blocks receive prompt-cache
	// breakpoints. Nil disables caching.
	PromptCachePolicy *PromptCachePolicy
}

// Tool is a tool that can be used by the model.
type Tool struct {
	// Type is the type of the tool: "function", or an Anthropic built-in
	// tool type such as "bash_20250124" or "text_editor_20250124".
	Type string `json:"type"`
	// Function is the function definition, nil for built-in tools whose
	// schema lives server-side.
	Function *FunctionDefinition `json:"function,omitempty"`
}

// FunctionDefinition is a definition of a function that can be called by the
// model.
type FunctionDefinition struct {
	// Name is the name of the function.
	Name string `json:"name"`
	// Description is a description of the function.
	Description string `json:"description"`
	// Parameters is the JSON schema of the function parameters.
	Parameters *jsonschema.Schema `json:"parameters,omitempty"`
}

// Anthropic built-in tool types. The schema for these tools is defined
// server-side; the client only supplies the implementation.
const (
	ToolTypeFunction   = "function"
	ToolTypeBash       = "bash_20250124"
	ToolTypeTextEditor = "text_editor_20250124"
)

// PromptCacheTTL selects the prompt-cache entry lifetime.
type PromptCacheTTL string

const (
	PromptCacheTTL5m PromptCacheTTL = "5m"
	PromptCacheTTL1h PromptCacheTTL = "1h"
)

// PromptCachePolicy describes where to place prompt-cache breakpoints in a
// request. Anthropic caches the prefix up to each breakpoint, so marking the
// system prompt and tool definitions makes every turn after the first reuse
// them at the cache-read rate.
type PromptCachePolicy struct {
	// CacheSystemPrompt places a breakpoint after the system prompt.
	CacheSystemPrompt bool
	// CacheTools places a breakpoint after the last tool definition.
	CacheTools bool
	// TTL is the cache entry lifetime. Empty selects the vendor default.
	TTL PromptCacheTTL
}

// WithModel specifies which model to call.
func WithModel(model string) CallOption {
	return func(o *CallOptions) {
		o.Model = model
	}
}

// WithMaxTokens specifies the max number of tokens to generate.
func WithMaxTokens(maxTokens int) CallOption {
	return func(o *CallOptions) {
		o.MaxTokens = maxTokens
	}
}

// WithTemperature specifies the model temperature.
func WithTemperature(temperature float64) CallOption {
	return func(o *CallOptions) {
		o.Temperature = temperature
	}
}

// WithStopWords specifies a list of words to stop generation on.
func WithStopWords(stopWords []string) CallOption {
	return func(o *CallOptions) {
		o.StopWords = stopWords
	}
}

// WithTopK will add an option to use top-k sampling.
func WithTopK(topK int) CallOption {
	return func(o *CallOptions) {
		o.TopK = topK
	}
}

// WithTopP will add an option to use top-p sampling.
func WithTopP(topP float64) CallOption {
	return func(o *CallOptions) {
		o.TopP = topP
	}
}

// WithTools specifies the tools the model may invoke.
func WithTools(tools []Tool) CallOption {
	return func(o *CallOptions) {
		o.Tools = tools
	}
}

// WithDisableParallelToolUse requests at most one tool call per turn.
func WithDisableParallelToolUse(disable bool) CallOption {
	return func(o *CallOptions) {
		o.DisableParallelToolUse = disable
	}
}

// WithPromptCachePolicy sets the prompt-cache breakpoint policy.
func WithPromptCachePolicy(policy *PromptCachePolicy) CallOption {
	return func(o *CallOptions) {
		o.PromptCachePolicy = policy
	}
}
