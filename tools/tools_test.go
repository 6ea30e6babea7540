package tools_test

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joaompinto/claudine/pkg/llms"
	"github.com/joaompinto/claudine/tools"
)

type weatherInput struct {
	Location string `json:"location" jsonschema:"description=City and state"`
	Unit     string `json:"unit,omitempty"`
}

func newWeatherTool(t *testing.T) tools.ITool {
	t.Helper()
	tool, err := tools.NewTool("get_weather", "Get the current weather for a location.",
		func(_ context.Context, input *weatherInput) (string, error) {
			return "72F in " + input.Location, nil
		})
	require.NoError(t, err)
	return tool
}

func TestNewTool(t *testing.T) {
	t.Parallel()

	tool := newWeatherTool(t)
	assert.Equal(t, "get_weather", tool.Name())
	assert.Equal(t, "Get the current weather for a location.", tool.Description())

	params := tool.Parameters()
	require.NotNil(t, params)
	require.NotNil(t, params.Properties)
	_, ok := params.Properties.Get("location")
	assert.True(t, ok)

	res, err := tool.Call(context.Background(), `{"location": "Lisbon"}`)
	require.NoError(t, err)
	assert.Equal(t, "72F in Lisbon", res)
}

func TestNewToolValidation(t *testing.T) {
	t.Parallel()

	_, err := tools.NewTool("", "desc", func(_ context.Context, _ *weatherInput) (string, error) {
		return "", nil
	})
	assert.EqualError(t, err, "tools: name is required")

	_, err = tools.NewTool[weatherInput]("get_weather", "desc", nil)
	assert.EqualError(t, err, "tools: get_weather: callback is required")
}

func TestToolCallCleansInput(t *testing.T) {
	t.Parallel()

	tool := newWeatherTool(t)
	// models occasionally wrap the arguments in prose
	res, err := tool.Call(context.Background(), "Here you go: {\"location\": \"Porto\"} hope it helps")
	require.NoError(t, err)
	assert.Equal(t, "72F in Porto", res)
}

func TestToolCallUnmarshalError(t *testing.T) {
	t.Parallel()

	tool := newWeatherTool(t)
	_, err := tool.Call(context.Background(), `{"location": 42`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, tools.ErrFailedUnmarshalInput))
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	weather := newWeatherTool(t)
	registry, err := tools.NewRegistry(weather)
	require.NoError(t, err)

	assert.Equal(t, 1, registry.Len())
	assert.Equal(t, []string{"get_weather"}, registry.Names())

	// lookups are case-insensitive
	assert.NotNil(t, registry.Get("Get_Weather"))
	assert.Nil(t, registry.Get("unknown"))

	err = registry.Register(weather)
	assert.EqualError(t, err, "tools: get_weather is already registered")
}

func TestRegistryDefinitions(t *testing.T) {
	t.Parallel()

	bash, err := tools.NewBashTool(func(_ context.Context, input *tools.BashInput) (string, error) {
		return "ok", nil
	})
	require.NoError(t, err)

	registry, err := tools.NewRegistry(newWeatherTool(t), bash)
	require.NoError(t, err)

	defs := registry.Definitions()
	require.Len(t, defs, 2)

	assert.Equal(t, llms.ToolTypeFunction, defs[0].Type)
	assert.Equal(t, "get_weather", defs[0].Function.Name)
	require.NotNil(t, defs[0].Function.Parameters)

	assert.Equal(t, llms.ToolTypeBash, defs[1].Type)
	assert.Equal(t, tools.BashToolName, defs[1].Function.Name)
	assert.Nil(t, defs[1].Function.Parameters)
}

func TestBashTool(t *testing.T) {
	t.Parallel()

	var gotCommand string
	bash, err := tools.NewBashTool(func(_ context.Context, input *tools.BashInput) (string, error) {
		gotCommand = input.Command
		return "total 0", nil
	})
	require.NoError(t, err)

	assert.Equal(t, tools.BashToolName, bash.Name())
	assert.Equal(t, llms.ToolTypeBash, bash.BuiltinType())
	assert.Nil(t, bash.Parameters())

	res, err := bash.Call(context.Background(), `{"command": "ls -la"}`)
	require.NoError(t, err)
	assert.Equal(t, "total 0", res)
	assert.Equal(t, "ls -la", gotCommand)

	_, err = tools.NewBashTool(nil)
	assert.EqualError(t, err, "tools: bash: callback is required")
}

func TestTextEditorTool(t *testing.T) {
	t.Parallel()

	var gotInput tools.TextEditorInput
	editor, err := tools.NewTextEditorTool(func(_ context.Context, input *tools.TextEditorInput) (string, error) {
		gotInput = *input
		return "done", nil
	})
	require.NoError(t, err)

	assert.Equal(t, tools.TextEditorToolName, editor.Name())
	assert.Equal(t, llms.ToolTypeTextEditor, editor.BuiltinType())

	res, err := editor.Call(context.Background(),
		`{"command": "str_replace", "path": "/tmp/a.txt", "old_str": "foo", "new_str": "bar"}`)
	require.NoError(t, err)
	assert.Equal(t, "done", res)
	assert.Equal(t, tools.TextEditorStrReplace, gotInput.Command)
	assert.Equal(t, "/tmp/a.txt", gotInput.Path)
	assert.Equal(t, "foo", gotInput.OldStr)
	assert.Equal(t, "bar", gotInput.NewStr)

	_, err = tools.NewTextEditorTool(nil)
	assert.EqualError(t, err, "tools: text editor: callback is required")
}

func TestGetDescriptions(t *testing.T) {
	t.Parallel()

	out := tools.GetDescriptions(newWeatherTool(t))
	assert.Contains(t, out, "get_weather")
	assert.Contains(t, out, "```json")
}

func TestMustNewTool(t *testing.T) {
	t.Parallel()

	tool := tools.MustNewTool("get_weather", "Get the current weather for a location.",
		func(_ context.Context, input *weatherInput) (string, error) {
			return "72F in " + input.Location, nil
		})
	assert.Equal(t, "get_weather", tool.Name())

	assert.Panics(t, func() {
		tools.MustNewTool[weatherInput]("", "missing name", nil)
	})
}
