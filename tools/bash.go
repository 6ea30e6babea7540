package tools

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"

	"github.com/joaompinto/claudine/pkg/llms"
)

// BashToolName is the tool name the Anthropic bash tool responds to.
const BashToolName = "bash"

// BashInput is the input of the Anthropic built-in bash tool.
type BashInput struct {
	// Command is the shell command to run.
	Command string `json:"command"`
	// Restart requests a restart of the shell session instead of running
	// a command.
	Restart bool `json:"restart,omitempty"`
}

// BashFunc is a user-supplied implementation of the bash tool.
type BashFunc func(ctx context.Context, input *BashInput) (string, error)

type bashTool struct {
	fn BashFunc
}

// NewBashTool wraps a callback as the Anthropic built-in bash tool. The
// input schema is defined server-side; only the implementation is supplied
// by the caller.
func NewBashTool(fn BashFunc) (BuiltinTool, error) {
	if fn == nil {
		return nil, errors.New("tools: bash: callback is required")
	}
	return &bashTool{fn: fn}, nil
}

func (t *bashTool) Name() string {
	return BashToolName
}

func (t *bashTool) Description() string {
	return "Run commands in a bash shell session."
}

func (t *bashTool) Parameters() *jsonschema.Schema {
	// schema is defined by the vendor for built-in tools
	return nil
}

func (t *bashTool) BuiltinType() string {
	return llms.ToolTypeBash
}

func (t *bashTool) Call(ctx context.Context, input string) (string, error) {
	var in BashInput
	if err := json.Unmarshal([]byte(input), &in); err != nil {
		return "", errors.WithMessage(ErrFailedUnmarshalInput, "tool bash")
	}
	return t.fn(ctx, &in)
}
