package callbacks

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/effective-security/x/values"

	"github.com/joaompinto/claudine/pkg/llms"
	"github.com/joaompinto/claudine/pkg/llmutils"
	"github.com/joaompinto/claudine/tools"
)

// Printer is a callback handler that prints to the Writer. In ModeVerbose it
// also prints the messages sent to the model, the responses, and the token
// usage of each round trip.
type Printer struct {
	Out  io.Writer
	Mode Mode

	lock sync.Mutex
}

func NewPrinter(out io.Writer, mode Mode) *Printer {
	return &Printer{Out: out, Mode: mode}
}

func (l *Printer) OnAgentStart(ctx context.Context, agent, prompt string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Agent Start: %s\n", agent)
	fmt.Fprintf(l.Out, "Prompt: %s\n", prompt)
}

func (l *Printer) OnAgentEnd(ctx context.Context, agent, prompt, result string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Agent End: %s\n", agent)
	if l.Mode == ModeVerbose && result != "" {
		fmt.Fprintln(l.Out, result)
	}
}

func (l *Printer) OnAgentError(ctx context.Context, agent, prompt string, err error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Agent Error: %s: %s\n", agent, err.Error())
}

func (l *Printer) OnLLMCallStart(ctx context.Context, agent, model string, payload []llms.Message) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "LLM Call: %s: %s model, %d messages\n", agent, model, len(payload))
	if l.Mode == ModeVerbose {
		llmutils.PrintMessages(l.Out, payload)
	}
}

func (l *Printer) OnLLMCallEnd(ctx context.Context, agent, model string, resp *llms.ContentResponse) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "LLM Call End: %s: %s model, %d choices\n", agent, model, len(resp.Choices))
	if l.Mode == ModeVerbose && len(resp.Choices) > 0 {
		info := values.MapAny(resp.Choices[0].GenerationInfo)
		fmt.Fprintf(l.Out, "Usage: input=%d, output=%d, cache_write=%d, cache_read=%d\n",
			info.Int64(llms.InfoInputTokens),
			info.Int64(llms.InfoOutputTokens),
			info.Int64(llms.InfoCacheCreationInputTokens),
			info.Int64(llms.InfoCacheReadInputTokens),
		)
	}
}

func (l *Printer) OnToolNotFound(ctx context.Context, agent, tool string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Tool Not Found: %s\n", tool)
}

func (l *Printer) OnToolStart(ctx context.Context, tool tools.ITool, input string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Tool Start: %s\n", tool.Name())
	fmt.Fprintf(l.Out, "Input: %s\n", input)
}

func (l *Printer) OnToolEnd(ctx context.Context, tool tools.ITool, input, output string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Tool End: %s\n", tool.Name())
	if l.Mode == ModeVerbose {
		fmt.Fprintf(l.Out, "Output: %s\n", output)
	}
}

func (l *Printer) OnToolError(ctx context.Context, tool tools.ITool, input string, err error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Tool Error: %s: %s\n", tool.Name(), err.Error())
}
