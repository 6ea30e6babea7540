package tools

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"

	"github.com/joaompinto/claudine/pkg/llms"
)

// TextEditorToolName is the tool name the Anthropic text editor tool
// responds to.
const TextEditorToolName = "str_replace_editor"

// Text editor commands issued by the model.
const (
	TextEditorView       = "view"
	TextEditorCreate     = "create"
	TextEditorStrReplace = "str_replace"
	TextEditorInsert     = "insert"
	TextEditorUndoEdit   = "undo_edit"
)

// TextEditorInput is the input of the Anthropic built-in text editor tool.
// Which fields are set depends on Command.
type TextEditorInput struct {
	// Command is one of view, create, str_replace, insert, undo_edit.
	Command string `json:"command"`
	// Path is an absolute path to the file or directory.
	Path string `json:"path"`
	// FileText is the content for create.
	FileText string `json:"file_text,omitempty"`
	// OldStr is the exact text to replace for str_replace.
	OldStr string `json:"old_str,omitempty"`
	// NewStr is the replacement for str_replace, or the text for insert.
	NewStr string `json:"new_str,omitempty"`
	// InsertLine is the line after which to insert for insert.
	InsertLine int `json:"insert_line,omitempty"`
	// ViewRange optionally limits view to [start, end] lines.
	ViewRange []int `json:"view_range,omitempty"`
}

// TextEditorFunc is a user-supplied implementation of the text editor tool.
type TextEditorFunc func(ctx context.Context, input *TextEditorInput) (string, error)

type textEditorTool struct {
	fn TextEditorFunc
}

// NewTextEditorTool wraps a callback as the Anthropic built-in text editor
// tool. The input schema is defined server-side; only the implementation is
// supplied by the caller.
func NewTextEditorTool(fn TextEditorFunc) (BuiltinTool, error) {
	if fn == nil {
		return nil, errors.New("tools: text editor: callback is required")
	}
	return &textEditorTool{fn: fn}, nil
}

func (t *textEditorTool) Name() string {
	return TextEditorToolName
}

func (t *textEditorTool) Description() string {
	return "View, create, and edit files."
}

func (t *textEditorTool) Parameters() *jsonschema.Schema {
	// schema is defined by the vendor for built-in tools
	return nil
}

func (t *textEditorTool) BuiltinType() string {
	return llms.ToolTypeTextEditor
}

func (t *textEditorTool) Call(ctx context.Context, input string) (string, error) {
	var in TextEditorInput
	if err := json.Unmarshal([]byte(input), &in); err != nil {
		return "", errors.WithMessage(ErrFailedUnmarshalInput, "tool str_replace_editor")
	}
	return t.fn(ctx, &in)
}
