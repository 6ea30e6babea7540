package callbacks_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joaompinto/claudine/callbacks"
	"github.com/joaompinto/claudine/pkg/llms"
	"github.com/joaompinto/claudine/tools"
)

func newEchoTool(t *testing.T) tools.ITool {
	t.Helper()
	tool, err := tools.NewTool("echo", "Echoes the input.",
		func(_ context.Context, _ *struct{}) (string, error) {
			return "echo", nil
		})
	require.NoError(t, err)
	return tool
}

func TestPrinterDefault(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	var buf bytes.Buffer
	p := callbacks.NewPrinter(&buf, callbacks.ModeDefault)
	tool := newEchoTool(t)

	p.OnAgentStart(ctx, "claudine", "hello")
	p.OnLLMCallStart(ctx, "claudine", "claude-3-7-sonnet-20250219", []llms.Message{
		llms.MessageFromTextParts(llms.RoleHuman, "hello"),
	})
	p.OnLLMCallEnd(ctx, "claudine", "claude-3-7-sonnet-20250219", &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: "hi"}},
	})
	p.OnToolStart(ctx, tool, `{"a":1}`)
	p.OnToolEnd(ctx, tool, `{"a":1}`, "echo")
	p.OnAgentEnd(ctx, "claudine", "hello", "hi")

	out := buf.String()
	assert.Contains(t, out, "Agent Start: claudine\n")
	assert.Contains(t, out, "Prompt: hello\n")
	assert.Contains(t, out, "LLM Call: claudine: claude-3-7-sonnet-20250219 model, 1 messages\n")
	assert.Contains(t, out, "Tool Start: echo\n")
	assert.Contains(t, out, "Tool End: echo\n")
	assert.Contains(t, out, "Agent End: claudine\n")

	// the conversation payload and the result are only printed in verbose mode
	assert.NotContains(t, out, "HUMAN:")
	assert.NotContains(t, out, "Output:")
	assert.NotContains(t, out, "Usage:")
}

func TestPrinterVerbose(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	var buf bytes.Buffer
	p := callbacks.NewPrinter(&buf, callbacks.ModeVerbose)

	p.OnLLMCallStart(ctx, "claudine", "claude-3-7-sonnet-20250219", []llms.Message{
		llms.MessageFromTextParts(llms.RoleHuman, "hello"),
	})
	p.OnLLMCallEnd(ctx, "claudine", "claude-3-7-sonnet-20250219", &llms.ContentResponse{
		Choices: []*llms.ContentChoice{
			{
				Content: "hi",
				GenerationInfo: map[string]any{
					llms.InfoInputTokens:          int64(100),
					llms.InfoOutputTokens:         int64(25),
					llms.InfoCacheReadInputTokens: int64(0),
				},
			},
		},
	})
	p.OnAgentEnd(ctx, "claudine", "hello", "hi")

	out := buf.String()
	assert.Contains(t, out, "HUMAN: hello\n")
	assert.Contains(t, out, "Usage: input=100, output=25, cache_write=0, cache_read=0\n")
	assert.Contains(t, out, "hi\n")
}

func TestPrinterErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	var buf bytes.Buffer
	p := callbacks.NewPrinter(&buf, callbacks.ModeDefault)
	tool := newEchoTool(t)

	p.OnToolNotFound(ctx, "claudine", "no_such_tool")
	p.OnToolError(ctx, tool, `{}`, errors.New("kaboom"))
	p.OnAgentError(ctx, "claudine", "hello", errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, "Tool Not Found: no_such_tool\n")
	assert.Contains(t, out, "Tool Error: echo: kaboom\n")
	assert.Contains(t, out, "Agent Error: claudine: boom\n")
}

func TestFanout(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	var buf1, buf2 bytes.Buffer
	fanout := callbacks.NewFanout(
		callbacks.NewPrinter(&buf1, callbacks.ModeDefault),
		callbacks.NewNoop(),
	)
	fanout.Add(callbacks.NewPrinter(&buf2, callbacks.ModeDefault))

	tool := newEchoTool(t)
	fanout.OnAgentStart(ctx, "claudine", "hello")
	fanout.OnToolStart(ctx, tool, `{}`)
	fanout.OnToolNotFound(ctx, "claudine", "missing")
	fanout.OnAgentEnd(ctx, "claudine", "hello", "done")

	for _, buf := range []*bytes.Buffer{&buf1, &buf2} {
		out := buf.String()
		assert.Contains(t, out, "Agent Start: claudine\n")
		assert.Contains(t, out, "Tool Start: echo\n")
		assert.Contains(t, out, "Tool Not Found: missing\n")
		assert.Contains(t, out, "Agent End: claudine\n")
	}
}
