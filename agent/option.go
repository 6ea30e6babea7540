package agent

import (
	"net/http"

	"github.com/joaompinto/claudine/callbacks"
	"github.com/joaompinto/claudine/pkg/llms"
	"github.com/joaompinto/claudine/store"
	"github.com/joaompinto/claudine/tokens"
	"github.com/joaompinto/claudine/tools"
)

const (
	// DefaultMaxTokens is the default generation limit per model call.
	DefaultMaxTokens = 1024
	// DefaultTemperature is the default sampling temperature.
	DefaultTemperature = 0.7
	// DefaultMaxRounds caps the number of tool-use round trips per prompt.
	DefaultMaxRounds = 30
	// DefaultMaxMessages caps the conversation length sent to the model.
	DefaultMaxMessages = 1000
	// DefaultMaxContentSize caps the total content bytes sent to the model.
	DefaultMaxContentSize = 1_000_000
)

// Option is a function that can be used to modify the behavior of the Agent Config.
type Option func(*Config)

type Config struct {
	// APIKey is the Anthropic API key. If empty, the ANTHROPIC_API_KEY
	// environment variable is used.
	APIKey string

	// Model is the model to use in an LLM call.
	Model string

	// BaseURL overrides the Anthropic API endpoint.
	BaseURL string

	// HTTPClient overrides the HTTP client used for API calls.
	HTTPClient *http.Client

	// MaxTokens is the maximum number of tokens to generate in an LLM call.
	MaxTokens int

	// Temperature is the temperature for sampling, between 0 and 1.
	Temperature float64

	// SystemPrompt guides the model's behavior for the whole conversation.
	SystemPrompt string

	// MaxRounds is the maximum number of tool-use round trips per prompt.
	MaxRounds int

	// MaxMessages caps the conversation length sent to the model.
	MaxMessages int

	// MaxContentSize caps the total content bytes sent to the model.
	MaxContentSize uint64

	// Tools is the list of tools available to the model.
	Tools []tools.ITool

	// PreInterceptor is invoked before each tool execution and may replace
	// the input.
	PreInterceptor PreToolInterceptor
	// PostInterceptor is invoked after each tool execution and may replace
	// the result.
	PostInterceptor PostToolInterceptor

	// Callback receives lifecycle events.
	Callback callbacks.Handler

	// Verbose prints diagnostics to stdout when no callback is set.
	Verbose bool

	// Store persists conversation history across agents when set.
	Store store.MessageStore

	// ChatID identifies the conversation in the store. Generated when empty.
	ChatID string

	// PromptCache enables Anthropic prompt caching for the system prompt and
	// tool definitions.
	PromptCache *llms.PromptCachePolicy

	// DisableParallelToolUse asks the model for at most one tool call per
	// round, keeping per-tool token accounting exact. Enabled by default.
	DisableParallelToolUse bool

	// LLM overrides the model client, mainly for tests.
	LLM llms.Model

	bashFunc       tools.BashFunc
	textEditorFunc tools.TextEditorFunc
}

func NewConfig(opts ...Option) *Config {
	cfg := &Config{
		Model:                  tokens.DefaultModel,
		MaxTokens:              DefaultMaxTokens,
		Temperature:            DefaultTemperature,
		MaxRounds:              DefaultMaxRounds,
		MaxMessages:            DefaultMaxMessages,
		MaxContentSize:         DefaultMaxContentSize,
		DisableParallelToolUse: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithAPIKey sets the Anthropic API key.
func WithAPIKey(apiKey string) Option {
	return func(c *Config) {
		c.APIKey = apiKey
	}
}

// WithModel sets the model to use.
func WithModel(model string) Option {
	return func(c *Config) {
		c.Model = model
	}
}

// WithBaseURL overrides the Anthropic API endpoint.
func WithBaseURL(baseURL string) Option {
	return func(c *Config) {
		c.BaseURL = baseURL
	}
}

// WithHTTPClient overrides the HTTP client used for API calls.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// WithMaxTokens sets the maximum number of tokens to generate per call.
func WithMaxTokens(maxTokens int) Option {
	return func(c *Config) {
		c.MaxTokens = maxTokens
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float64) Option {
	return func(c *Config) {
		c.Temperature = temperature
	}
}

// WithSystemPrompt sets the instructions that guide the model's behavior.
func WithSystemPrompt(instructions string) Option {
	return func(c *Config) {
		c.SystemPrompt = instructions
	}
}

// WithMaxRounds caps the number of tool-use round trips per prompt.
func WithMaxRounds(maxRounds int) Option {
	return func(c *Config) {
		c.MaxRounds = maxRounds
	}
}

// WithMaxMessages caps the conversation length sent to the model.
func WithMaxMessages(maxMessages int) Option {
	return func(c *Config) {
		c.MaxMessages = maxMessages
	}
}

// WithMaxContentSize caps the total content bytes sent to the model.
func WithMaxContentSize(size uint64) Option {
	return func(c *Config) {
		c.MaxContentSize = size
	}
}

// WithTools adds tools to the agent.
func WithTools(list ...tools.ITool) Option {
	return func(c *Config) {
		c.Tools = append(c.Tools, list...)
	}
}

// WithBashTool registers the Anthropic built-in bash tool with the given
// implementation.
func WithBashTool(fn tools.BashFunc) Option {
	return func(c *Config) {
		c.bashFunc = fn
	}
}

// WithTextEditorTool registers the Anthropic built-in text-editor tool with
// the given implementation.
func WithTextEditorTool(fn tools.TextEditorFunc) Option {
	return func(c *Config) {
		c.textEditorFunc = fn
	}
}

// WithInterceptors sets the pre and post tool-execution interceptors.
// Either may be nil.
func WithInterceptors(pre PreToolInterceptor, post PostToolInterceptor) Option {
	return func(c *Config) {
		c.PreInterceptor = pre
		c.PostInterceptor = post
	}
}

// WithCallback sets a custom callback handler.
func WithCallback(handler callbacks.Handler) Option {
	return func(c *Config) {
		c.Callback = handler
	}
}

// WithVerbose prints diagnostics to stdout when no callback is set.
func WithVerbose(verbose bool) Option {
	return func(c *Config) {
		c.Verbose = verbose
	}
}

// WithStore persists conversation history in the given store.
func WithStore(messageStore store.MessageStore) Option {
	return func(c *Config) {
		c.Store = messageStore
	}
}

// WithChatID sets the conversation ID used by the store.
func WithChatID(chatID string) Option {
	return func(c *Config) {
		c.ChatID = chatID
	}
}

// WithPromptCache enables prompt caching with the given policy.
func WithPromptCache(policy *llms.PromptCachePolicy) Option {
	return func(c *Config) {
		c.PromptCache = policy
	}
}

// WithDisableParallelToolUse controls whether the model may request several
// tool calls in one round.
func WithDisableParallelToolUse(disable bool) Option {
	return func(c *Config) {
		c.DisableParallelToolUse = disable
	}
}

// WithLLM overrides the model client.
func WithLLM(model llms.Model) Option {
	return func(c *Config) {
		c.LLM = model
	}
}
