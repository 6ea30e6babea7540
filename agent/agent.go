// Package agent provides the conversational loop over the Anthropic API:
// it sends prompts, dispatches the tool calls the model requests, maintains
// the conversation history, and tracks token usage and cost per message.
package agent

import (
	"os"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/google/uuid"

	"github.com/joaompinto/claudine/callbacks"
	"github.com/joaompinto/claudine/pkg/llms"
	"github.com/joaompinto/claudine/pkg/llms/anthropic"
	"github.com/joaompinto/claudine/tokens"
	"github.com/joaompinto/claudine/tools"
)

var logger = xlog.NewPackageLogger("github.com/joaompinto/claudine", "agent")

// DefaultAgentName is used in metrics and callback events.
const DefaultAgentName = "claudine"

// Agent drives conversations with the model. It is safe for concurrent use,
// but prompts are processed one at a time: ProcessPrompt holds the
// conversation lock for the whole tool-use loop.
type Agent struct {
	llm      llms.Model
	registry *tools.Registry
	tracker  *tokens.Tracker
	cfg      *Config
	callback callbacks.Handler
	chatID   string

	mu       sync.Mutex
	model    string
	messages []llms.Message
	loaded   bool
}

// New creates an Agent. The API key is taken from the options or the
// ANTHROPIC_API_KEY environment variable.
func New(opts ...Option) (*Agent, error) {
	cfg := NewConfig(opts...)

	toolList := cfg.Tools
	if cfg.bashFunc != nil {
		bashTool, err := tools.NewBashTool(cfg.bashFunc)
		if err != nil {
			return nil, err
		}
		toolList = append(toolList, bashTool)
	}
	if cfg.textEditorFunc != nil {
		editorTool, err := tools.NewTextEditorTool(cfg.textEditorFunc)
		if err != nil {
			return nil, err
		}
		toolList = append(toolList, editorTool)
	}

	registry, err := tools.NewRegistry(toolList...)
	if err != nil {
		return nil, err
	}

	llm := cfg.LLM
	if llm == nil {
		llm, err = newAnthropicModel(cfg)
		if err != nil {
			return nil, err
		}
	}

	callback := cfg.Callback
	if callback == nil && cfg.Verbose {
		callback = callbacks.NewPrinter(os.Stdout, callbacks.ModeVerbose)
	}

	chatID := cfg.ChatID
	if chatID == "" {
		chatID = uuid.NewString()
	}

	return &Agent{
		llm:      llm,
		registry: registry,
		tracker:  tokens.NewTracker(),
		cfg:      cfg,
		callback: callback,
		chatID:   chatID,
		model:    cfg.Model,
	}, nil
}

func newAnthropicModel(cfg *Config) (llms.Model, error) {
	clientOpts := []anthropic.Option{
		anthropic.WithModel(cfg.Model),
	}
	if cfg.APIKey != "" {
		clientOpts = append(clientOpts, anthropic.WithToken(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, anthropic.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		clientOpts = append(clientOpts, anthropic.WithHTTPClient(cfg.HTTPClient))
	}
	llm, err := anthropic.New(clientOpts...)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create Anthropic client")
	}
	return llm, nil
}

// Name returns the agent name used in metrics and callback events.
func (a *Agent) Name() string {
	return DefaultAgentName
}

// ChatID returns the conversation ID used by the store.
func (a *Agent) ChatID() string {
	return a.chatID
}

// Model returns the model currently in use.
func (a *Agent) Model() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.model
}

// SetModel switches the model for subsequent calls. Usage already tracked is
// kept; Cost reflects the new model's pricing.
func (a *Agent) SetModel(model string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.model = model
}

// Tools returns the registered tools.
func (a *Agent) Tools() []tools.ITool {
	return a.registry.List()
}

// History returns a copy of the conversation history.
func (a *Agent) History() []llms.Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	history := make([]llms.Message, len(a.messages))
	copy(history, a.messages)
	return history
}

// SetHistory replaces the conversation history, allowing a conversation to
// be resumed from messages captured elsewhere. Token usage is not affected.
func (a *Agent) SetHistory(messages []llms.Message) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.messages = make([]llms.Message, len(messages))
	copy(a.messages, messages)
	a.loaded = true
}

// ResetHistory clears the conversation history, keeping tracked token usage.
func (a *Agent) ResetHistory() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.messages = nil
	a.loaded = true
}

// Usage returns the token usage accumulated so far, split between text
// generation and tool use.
func (a *Agent) Usage() tokens.UsageInfo {
	return a.tracker.Usage()
}

// MessageUsage returns the tracked usage for a single API message.
func (a *Agent) MessageUsage(messageID string) (tokens.MessageUsage, bool) {
	return a.tracker.MessageUsage(messageID)
}

// Cost returns the cost of the accumulated usage at the current model's
// pricing.
func (a *Agent) Cost() tokens.CostInfo {
	return a.tracker.Usage().Cost(a.Model())
}
