package callbacks

import (
	"context"

	"github.com/joaompinto/claudine/pkg/llms"
	"github.com/joaompinto/claudine/tools"
)

// Fanout is a callback handler that forwards the events to multiple handlers.
type Fanout struct {
	handlers []Handler
}

func NewFanout(handlers ...Handler) *Fanout {
	return &Fanout{handlers: handlers}
}

func (l *Fanout) Add(handler Handler) {
	l.handlers = append(l.handlers, handler)
}

func (l *Fanout) OnAgentStart(ctx context.Context, agent, prompt string) {
	for _, handler := range l.handlers {
		handler.OnAgentStart(ctx, agent, prompt)
	}
}

func (l *Fanout) OnAgentEnd(ctx context.Context, agent, prompt, result string) {
	for _, handler := range l.handlers {
		handler.OnAgentEnd(ctx, agent, prompt, result)
	}
}

func (l *Fanout) OnAgentError(ctx context.Context, agent, prompt string, err error) {
	for _, handler := range l.handlers {
		handler.OnAgentError(ctx, agent, prompt, err)
	}
}

func (l *Fanout) OnLLMCallStart(ctx context.Context, agent, model string, payload []llms.Message) {
	for _, handler := range l.handlers {
		handler.OnLLMCallStart(ctx, agent, model, payload)
	}
}

func (l *Fanout) OnLLMCallEnd(ctx context.Context, agent, model string, resp *llms.ContentResponse) {
	for _, handler := range l.handlers {
		handler.OnLLMCallEnd(ctx, agent, model, resp)
	}
}

func (l *Fanout) OnToolNotFound(ctx context.Context, agent, tool string) {
	for _, handler := range l.handlers {
		handler.OnToolNotFound(ctx, agent, tool)
	}
}

func (l *Fanout) OnToolStart(ctx context.Context, tool tools.ITool, input string) {
	for _, handler := range l.handlers {
		handler.OnToolStart(ctx, tool, input)
	}
}

func (l *Fanout) OnToolEnd(ctx context.Context, tool tools.ITool, input, output string) {
	for _, handler := range l.handlers {
		handler.OnToolEnd(ctx, tool, input, output)
	}
}

func (l *Fanout) OnToolError(ctx context.Context, tool tools.ITool, input string, err error) {
	for _, handler := range l.handlers {
		handler.OnToolError(ctx, tool, input, err)
	}
}
