// Package callbacks provides handlers for agent lifecycle events: Noop,
// Printer, PackageLogger and Fanout.
package callbacks

import (
	"context"

	"github.com/joaompinto/claudine/pkg/llms"
	"github.com/joaompinto/claudine/tools"
)

// Mode defines the mode for callback printing
type Mode int

const (
	// ModeDefault is the default mode for callback printing
	ModeDefault Mode = iota
	// ModeVerbose is the verbose mode for callback printing
	ModeVerbose
)

// Handler receives agent lifecycle events. All methods are invoked
// synchronously from the prompt-processing loop.
type Handler interface {
	// OnAgentStart is called when a prompt is accepted for processing.
	OnAgentStart(ctx context.Context, agent, prompt string)
	// OnAgentEnd is called with the final text answer.
	OnAgentEnd(ctx context.Context, agent, prompt, result string)
	// OnAgentError is called when prompt processing fails.
	OnAgentError(ctx context.Context, agent, prompt string, err error)

	// OnLLMCallStart is called before each model round trip.
	OnLLMCallStart(ctx context.Context, agent, model string, payload []llms.Message)
	// OnLLMCallEnd is called after each model round trip.
	OnLLMCallEnd(ctx context.Context, agent, model string, resp *llms.ContentResponse)

	// OnToolNotFound is called when the model requests an unknown tool.
	OnToolNotFound(ctx context.Context, agent, tool string)

	tools.Callback
}

// ensure that the callbacks implement the correct interfaces
var (
	_ Handler        = (*Noop)(nil)
	_ tools.Callback = (*Noop)(nil)
	_ Handler        = (*Printer)(nil)
	_ tools.Callback = (*Printer)(nil)
	_ Handler        = (*PackageLogger)(nil)
	_ tools.Callback = (*PackageLogger)(nil)
	_ Handler        = (*Fanout)(nil)
	_ tools.Callback = (*Fanout)(nil)
)
