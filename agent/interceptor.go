package agent

import (
	"context"
	"fmt"
	"io"
)

// PreToolInterceptor is invoked before a tool executes. The input is the raw
// JSON arguments supplied by the model; the returned input is what the tool
// receives, allowing it to be rewritten.
type PreToolInterceptor func(ctx context.Context, toolName, input string) string

// PostToolInterceptor is invoked after a tool executes and returns the
// result to fold into the conversation, allowing it to be rewritten.
type PostToolInterceptor func(ctx context.Context, toolName, input, result string) string

// NewLoggingInterceptors creates simple logging interceptors for tool
// execution.
func NewLoggingInterceptors(out io.Writer, logPrefix string) (PreToolInterceptor, PostToolInterceptor) {
	pre := func(_ context.Context, toolName, input string) string {
		fmt.Fprintf(out, "%s Executing: %s\n", logPrefix, toolName)
		fmt.Fprintf(out, "%s Input: %s\n", logPrefix, input)
		return input
	}
	post := func(_ context.Context, toolName, input, result string) string {
		fmt.Fprintf(out, "%s Result: %s\n", logPrefix, result)
		return result
	}
	return pre, post
}
