package tools

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/joaompinto/claudine/pkg/llms"
)

// Registry maps tool names to their implementations. The agent populates it
// at construction; lookups are case-insensitive because models occasionally
// change the casing of tool names.
type Registry struct {
	byName map[string]ITool
	names  []string
	list   []ITool
}

// NewRegistry creates a registry with the given tools.
func NewRegistry(list ...ITool) (*Registry, error) {
	r := &Registry{
		byName: make(map[string]ITool),
	}
	for _, tool := range list {
		if err := r.Register(tool); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a tool. Duplicate names are rejected.
func (r *Registry) Register(tool ITool) error {
	name := tool.Name()
	if name == "" {
		return errors.New("tools: name is required")
	}
	key := strings.ToLower(name)
	if r.byName[key] != nil {
		return errors.Newf("tools: %s is already registered", name)
	}
	r.byName[key] = tool
	r.names = append(r.names, name)
	r.list = append(r.list, tool)
	return nil
}

// Get returns the tool registered under the given name, nil if missing.
func (r *Registry) Get(name string) ITool {
	return r.byName[strings.ToLower(name)]
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	return r.names
}

// List returns the registered tools in registration order.
func (r *Registry) List() []ITool {
	return r.list
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.list)
}

// Definitions renders the registered tools as LLM tool definitions.
// Built-in tools carry their vendor tool type and no schema.
func (r *Registry) Definitions() []llms.Tool {
	if len(r.list) == 0 {
		return nil
	}
	defs := make([]llms.Tool, 0, len(r.list))
	for _, tool := range r.list {
		if builtin, ok := tool.(BuiltinTool); ok {
			defs = append(defs, llms.Tool{
				Type: builtin.BuiltinType(),
				Function: &llms.FunctionDefinition{
					Name: tool.Name(),
				},
			})
			continue
		}
		defs = append(defs, llms.Tool{
			Type: llms.ToolTypeFunction,
			Function: &llms.FunctionDefinition{
				Name:        tool.Name(),
				Description: tool.Description(),
				Parameters:  tool.Parameters(),
			},
		})
	}
	return defs
}
