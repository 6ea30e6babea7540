package tools

import (
	"context"
	"encoding/json"
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"

	"github.com/joaompinto/claudine/pkg/llmutils"
	"github.com/joaompinto/claudine/pkg/schema"
)

// Func is a user-supplied tool callback with a typed input.
type Func[I any] func(ctx context.Context, input *I) (string, error)

type funcTool[I any] struct {
	name        string
	description string
	params      *jsonschema.Schema
	fn          Func[I]
}

// NewTool registers a callback as a tool. The input schema is derived from
// the fields of I, so parameter names, types, and descriptions come from the
// struct definition and its jsonschema tags.
func NewTool[I any](name, description string, fn Func[I]) (ITool, error) {
	if name == "" {
		return nil, errors.New("tools: name is required")
	}
	if fn == nil {
		return nil, errors.Newf("tools: %s: callback is required", name)
	}

	var input I
	sc, err := schema.New(reflect.TypeOf(input))
	if err != nil {
		return nil, errors.WithMessagef(err, "tools: %s: failed to build input schema", name)
	}

	return &funcTool[I]{
		name:        name,
		description: description,
		params:      sc.Parameters,
		fn:          fn,
	}, nil
}

// MustNewTool is NewTool panicking on error, for package-level definitions.
func MustNewTool[I any](name, description string, fn Func[I]) ITool {
	t, err := NewTool(name, description, fn)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *funcTool[I]) Name() string {
	return t.name
}

func (t *funcTool[I]) Description() string {
	return t.description
}

func (t *funcTool[I]) Parameters() *jsonschema.Schema {
	return t.params
}

func (t *funcTool[I]) Call(ctx context.Context, input string) (string, error) {
	var in I
	err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &in)
	if err != nil {
		return "", errors.WithMessagef(ErrFailedUnmarshalInput, "tool %s", t.name)
	}
	return t.fn(ctx, &in)
}
