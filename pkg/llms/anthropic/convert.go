package anthropic

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/cockroachdb/errors"

	"github.com/joaompinto/claudine/pkg/llms"
)

// ProcessMessages converts generic messages to the SDK request form.
// System messages are collapsed into a single system prompt, returned
// separately since the Anthropic API carries it outside the message list.
func ProcessMessages(messages []llms.Message) ([]anthropic.MessageParam, string, error) {
	sdkMessages := make([]anthropic.MessageParam, 0, len(messages))
	systemPrompt := ""
	for _, msg := range messages {
		switch msg.Role {
		case llms.RoleSystem:
			content, err := handleSystemMessage(msg)
			if err != nil {
				return nil, "", errors.Wrap(err, "anthropic: failed to handle system message")
			}
			if systemPrompt != "" {
				systemPrompt += "\n"
			}
			systemPrompt += content
		case llms.RoleHuman:
			sdkMessage, err := handleHumanMessage(msg)
			if err != nil {
				return nil, "", errors.Wrap(err, "anthropic: failed to handle human message")
			}
			sdkMessages = append(sdkMessages, sdkMessage)
		case llms.RoleAI:
			sdkMessage, err := handleAIMessage(msg)
			if err != nil {
				return nil, "", errors.Wrap(err, "anthropic: failed to handle AI message")
			}
			sdkMessages = append(sdkMessages, sdkMessage)
		case llms.RoleTool:
			sdkMessage, err := handleToolMessage(msg)
			if err != nil {
				return nil, "", errors.Wrap(err, "anthropic: failed to handle tool message")
			}
			sdkMessages = append(sdkMessages, sdkMessage)
		default:
			return nil, "", errors.WithMessagef(ErrUnsupportedMessageType, "anthropic: %v", msg.Role)
		}
	}
	return sdkMessages, systemPrompt, nil
}

func handleSystemMessage(msg llms.Message) (string, error) {
	var sb strings.Builder
	for _, part := range msg.Parts {
		textContent, ok := part.(llms.TextContent)
		if !ok {
			return "", errors.WithMessagef(ErrInvalidContentType, "anthropic: %T", part)
		}
		sb.WriteString(textContent.Text)
	}
	return sb.String(), nil
}

func handleHumanMessage(msg llms.Message) (anthropic.MessageParam, error) {
	contents := make([]anthropic.ContentBlockParamUnion, 0, len(msg.Parts))
	for _, part := range msg.Parts {
		switch p := part.(type) {
		case llms.TextContent:
			contents = append(contents, anthropic.NewTextBlock(p.Text))
		case llms.BinaryContent:
			contents = append(contents, anthropic.NewImageBlockBase64(p.MIMEType, base64.StdEncoding.EncodeToString(p.Data)))
		default:
			return anthropic.MessageParam{}, errors.WithMessagef(ErrInvalidContentType, "anthropic: %T", part)
		}
	}
	if len(contents) == 0 {
		return anthropic.MessageParam{}, errors.New("anthropic: no content in human message")
	}
	return anthropic.NewUserMessage(contents...), nil
}

func handleAIMessage(msg llms.Message) (anthropic.MessageParam, error) {
	contents := make([]anthropic.ContentBlockParamUnion, 0, len(msg.Parts))
	for _, part := range msg.Parts {
		switch p := part.(type) {
		case llms.TextContent:
			// the API rejects empty text blocks
			if p.Text != "" {
				contents = append(contents, anthropic.NewTextBlock(p.Text))
			}
		case llms.ToolCall:
			input := json.RawMessage(p.FunctionCall.Arguments)
			if len(input) == 0 {
				input = json.RawMessage("{}")
			}
			contents = append(contents, anthropic.NewToolUseBlock(p.ID, input, p.FunctionCall.Name))
		default:
			return anthropic.MessageParam{}, errors.WithMessagef(ErrInvalidContentType, "anthropic: %T", part)
		}
	}
	if len(contents) == 0 {
		return anthropic.MessageParam{}, errors.New("anthropic: no content in AI message")
	}
	return anthropic.NewAssistantMessage(contents...), nil
}

// handleToolMessage converts a tool response to a user message carrying
// tool_result blocks, propagating the error flag so the model can see a
// failed tool call.
func handleToolMessage(msg llms.Message) (anthropic.MessageParam, error) {
	contents := make([]anthropic.ContentBlockParamUnion, 0, len(msg.Parts))
	for _, part := range msg.Parts {
		toolResponse, ok := part.(llms.ToolCallResponse)
		if !ok {
			return anthropic.MessageParam{}, errors.WithMessagef(ErrInvalidContentType, "anthropic: %T", part)
		}
		contents = append(contents, anthropic.NewToolResultBlock(toolResponse.ToolCallID, toolResponse.Content, toolResponse.IsError))
	}
	if len(contents) == 0 {
		return anthropic.MessageParam{}, errors.New("anthropic: no content in tool message")
	}
	return anthropic.NewUserMessage(contents...), nil
}
