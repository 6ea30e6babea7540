package anthropic

import (
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/cockroachdb/errors"

	"github.com/joaompinto/claudine/pkg/llms"
)

// ToTools converts LLM tool definitions to Anthropic SDK tool parameters.
//
// Function tools carry the JSON schema of their input; the schema properties
// are flattened from orderedmap to the plain map the SDK expects. Builtin
// bash and text-editor tools are sent as their server-defined variants, which
// carry no schema: the API knows their shape from the tool type.
func ToTools(tools []llms.Tool) ([]anthropic.ToolUnionParam, error) {
	if len(tools) == 0 {
		return nil, nil
	}

	sdkTools := make([]anthropic.ToolUnionParam, len(tools))
	for i, tool := range tools {
		switch tool.Type {
		case llms.ToolTypeBash:
			sdkTools[i] = anthropic.ToolUnionParam{
				OfBashTool20250124: &anthropic.ToolBash20250124Param{},
			}
		case llms.ToolTypeTextEditor:
			sdkTools[i] = anthropic.ToolUnionParam{
				OfTextEditor20250124: &anthropic.ToolTextEditor20250124Param{},
			}
		case llms.ToolTypeFunction, "":
			sdkTool, err := toFunctionTool(tool)
			if err != nil {
				return nil, err
			}
			sdkTools[i] = sdkTool
		default:
			return nil, errors.Newf("anthropic: unsupported tool type: %s", tool.Type)
		}
	}
	return sdkTools, nil
}

func toFunctionTool(tool llms.Tool) (anthropic.ToolUnionParam, error) {
	if tool.Function == nil {
		return anthropic.ToolUnionParam{}, errors.New("anthropic: function tool without definition")
	}

	inputSchema := anthropic.ToolInputSchemaParam{
		Type: "object",
	}
	if tool.Function.Parameters != nil {
		// flatten Properties from orderedmap to the plain map the SDK expects
		if tool.Function.Parameters.Properties != nil {
			properties := make(map[string]any)
			for pair := tool.Function.Parameters.Properties.Oldest(); pair != nil; pair = pair.Next() {
				properties[pair.Key] = pair.Value
			}
			inputSchema.Properties = properties
		}
		if len(tool.Function.Parameters.Required) > 0 {
			inputSchema.Required = tool.Function.Parameters.Required
		}
	}

	return anthropic.ToolUnionParam{
		OfTool: &anthropic.ToolParam{
			Name:        tool.Function.Name,
			Description: anthropic.String(tool.Function.Description),
			InputSchema: inputSchema,
		},
	}, nil
}
