// Package store provides persistence for conversation history, keyed by chat
// ID. The memory store is the default; the Redis store allows history to
// survive process restarts and be shared across instances.
package store

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"

	"github.com/joaompinto/claudine/pkg/llms"
)

var logger = xlog.NewPackageLogger("github.com/joaompinto/claudine", "store")

// MessageStore persists conversation messages per chat.
type MessageStore interface {
	// Messages returns the stored messages for the chat, oldest first.
	Messages(ctx context.Context, chatID string) []llms.Message
	// Add appends messages to the chat history.
	Add(ctx context.Context, chatID string, msgs ...llms.Message) error
	// Reset removes the chat history.
	Reset(ctx context.Context, chatID string) error
}

// MessageModel is the serialization form of llms.Message. Message parts are
// interface values, so they are flattened to a tagged union for JSON.
type MessageModel struct {
	Role  llms.Role   `json:"role"`
	Parts []PartModel `json:"parts"`
}

// part type discriminators
const (
	PartTypeText         = "text"
	PartTypeBinary       = "binary"
	PartTypeToolCall     = "tool_call"
	PartTypeToolResponse = "tool_response"
)

type PartModel struct {
	Type string `json:"type"`

	Text         string                 `json:"text,omitempty"`
	MIMEType     string                 `json:"mime_type,omitempty"`
	Data         []byte                 `json:"data,omitempty"`
	ToolCall     *llms.ToolCall         `json:"tool_call,omitempty"`
	ToolResponse *llms.ToolCallResponse `json:"tool_response,omitempty"`
}

// ToModel converts a message to its serialization form.
func ToModel(msg llms.Message) (MessageModel, error) {
	model := MessageModel{
		Role:  msg.Role,
		Parts: make([]PartModel, 0, len(msg.Parts)),
	}
	for _, part := range msg.Parts {
		switch p := part.(type) {
		case llms.TextContent:
			model.Parts = append(model.Parts, PartModel{Type: PartTypeText, Text: p.Text})
		case llms.BinaryContent:
			model.Parts = append(model.Parts, PartModel{Type: PartTypeBinary, MIMEType: p.MIMEType, Data: p.Data})
		case llms.ToolCall:
			tc := p
			model.Parts = append(model.Parts, PartModel{Type: PartTypeToolCall, ToolCall: &tc})
		case llms.ToolCallResponse:
			tr := p
			model.Parts = append(model.Parts, PartModel{Type: PartTypeToolResponse, ToolResponse: &tr})
		default:
			return MessageModel{}, errors.Newf("store: unsupported content part: %T", part)
		}
	}
	return model, nil
}

// ToMessage converts the serialization form back to a message. Parts with an
// unknown type are skipped so that history written by a newer version can
// still be read.
func (m MessageModel) ToMessage() llms.Message {
	msg := llms.Message{
		Role:  m.Role,
		Parts: make([]llms.ContentPart, 0, len(m.Parts)),
	}
	for _, part := range m.Parts {
		switch part.Type {
		case PartTypeText:
			msg.Parts = append(msg.Parts, llms.TextContent{Text: part.Text})
		case PartTypeBinary:
			msg.Parts = append(msg.Parts, llms.BinaryContent{MIMEType: part.MIMEType, Data: part.Data})
		case PartTypeToolCall:
			if part.ToolCall != nil {
				msg.Parts = append(msg.Parts, *part.ToolCall)
			}
		case PartTypeToolResponse:
			if part.ToolResponse != nil {
				msg.Parts = append(msg.Parts, *part.ToolResponse)
			}
		}
	}
	return msg
}

// ToMessages converts models back to messages.
func ToMessages(models []MessageModel) []llms.Message {
	if len(models) == 0 {
		return nil
	}
	messages := make([]llms.Message, len(models))
	for i, model := range models {
		messages[i] = model.ToMessage()
	}
	return messages
}
