// Package tools defines the tool interface the agent dispatches to, a typed
// tool constructor, and the registry of tools available to a conversation.
package tools

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"

	"github.com/joaompinto/claudine/pkg/llmutils"
)

// ErrFailedUnmarshalInput is returned when a tool cannot parse the input
// supplied by the model. The agent folds it back into the conversation so
// the model can correct the arguments.
var ErrFailedUnmarshalInput = errors.New("failed to unmarshal input: check the schema and try again")

// ITool is a tool the model can invoke during a conversation.
type ITool interface {
	// Name returns the name of the Tool.
	Name() string
	// Description returns the description of the tool, to be used in the prompt.
	// Should not exceed LLM model limit.
	Description() string
	// Parameters returns the JSON schema of the tool input, nil for
	// built-in tools whose schema is defined server-side.
	Parameters() *jsonschema.Schema

	// Call executes the tool with the given input and returns the result.
	// If the tool fails to parse the input, it should return
	// ErrFailedUnmarshalInput.
	Call(context.Context, string) (string, error)
}

// BuiltinTool is implemented by tools backed by an Anthropic built-in tool
// type (bash, text editor). The vendor defines their input schema; the
// client supplies only the implementation.
type BuiltinTool interface {
	ITool
	// BuiltinType returns the Anthropic tool type, e.g. "bash_20250124".
	BuiltinType() string
}

// Callback receives tool lifecycle events.
type Callback interface {
	OnToolStart(context.Context, ITool, string)
	OnToolEnd(context.Context, ITool, string, string)
	OnToolError(context.Context, ITool, string, error)
}

type toolDescription struct {
	Name        string `json:"Name" yaml:"Name"`
	Description string `json:"Description" yaml:"Description"`
}

type toolsDescription struct {
	Tools []toolDescription `json:"Tools" yaml:"Tools"`
}

// GetDescriptions renders the tool names and descriptions as fenced JSON,
// for embedding in prompts.
func GetDescriptions(list ...ITool) string {
	var d toolsDescription
	for _, tool := range list {
		d.Tools = append(d.Tools, toolDescription{
			Name:        tool.Name(),
			Description: tool.Description(),
		})
	}
	return llmutils.BackticksJSON(llmutils.ToJSONIndent(d))
}
