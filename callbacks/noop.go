package callbacks

import (
	"context"

	"github.com/joaompinto/claudine/pkg/llms"
	"github.com/joaompinto/claudine/tools"
)

// Noop does nothing.
type Noop struct{}

func NewNoop() *Noop {
	return &Noop{}
}

func (l *Noop) OnAgentStart(ctx context.Context, agent, prompt string) {}

func (l *Noop) OnAgentEnd(ctx context.Context, agent, prompt, result string) {}

func (l *Noop) OnAgentError(ctx context.Context, agent, prompt string, err error) {}

func (l *Noop) OnLLMCallStart(ctx context.Context, agent, model string, payload []llms.Message) {}

func (l *Noop) OnLLMCallEnd(ctx context.Context, agent, model string, resp *llms.ContentResponse) {}

func (l *Noop) OnToolNotFound(ctx context.Context, agent, tool string) {}

func (l *Noop) OnToolStart(ctx context.Context, tool tools.ITool, input string) {}

func (l *Noop) OnToolEnd(ctx context.Context, tool tools.ITool, input, output string) {}

func (l *Noop) OnToolError(ctx context.Context, tool tools.ITool, input string, err error) {}
