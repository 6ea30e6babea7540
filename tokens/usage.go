// Package tokens tracks token usage and cost across a conversation.
//
// The API reports token usage per message; the Tracker keeps a record per
// vendor message ID, attributes turns to the tool that triggered them, and
// rolls the records up into text vs tool usage with cost derived on demand
// from fixed per-million-token rates.
package tokens

import (
	"sync"

	"github.com/effective-security/x/values"
	"github.com/google/uuid"

	"github.com/joaompinto/claudine/pkg/llms"
)

// TokenUsage holds the token counters reported for one or more API messages.
type TokenUsage struct {
	InputTokens              int64 `json:"input_tokens"`
	OutputTokens             int64 `json:"output_tokens"`
	CacheCreationInputTokens int64 `json:"cache_creation_input_tokens"`
	CacheReadInputTokens     int64 `json:"cache_read_input_tokens"`
}

// TotalTokens returns the sum of all counters.
func (u TokenUsage) TotalTokens() int64 {
	return u.InputTokens + u.OutputTokens + u.CacheCreationInputTokens + u.CacheReadInputTokens
}

// Add accumulates another usage into this one.
func (u *TokenUsage) Add(other TokenUsage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.CacheCreationInputTokens += other.CacheCreationInputTokens
	u.CacheReadInputTokens += other.CacheReadInputTokens
}

// MessageUsage is the usage record of a single API message.
type MessageUsage struct {
	// MessageID is the vendor message ID.
	MessageID string `json:"message_id"`
	// Usage holds the token counters reported for this message.
	Usage TokenUsage `json:"usage"`
	// ToolRelated marks messages that belong to a tool-call sequence:
	// either a turn requesting a tool call, or the turn following a tool
	// result.
	ToolRelated bool `json:"tool_related,omitempty"`
	// ToolName is the tool the sequence belongs to, when known.
	ToolName string `json:"tool_name,omitempty"`
}

// UsageInfo is the consolidated usage of a conversation.
type UsageInfo struct {
	// Text is the usage of plain text turns.
	Text TokenUsage `json:"text"`
	// Tools is the usage of tool-related turns.
	Tools TokenUsage `json:"tools"`
	// ByTool breaks the tool-related usage down per tool name.
	ByTool map[string]TokenUsage `json:"by_tool,omitempty"`
}

// Total returns the combined text and tool usage.
func (i UsageInfo) Total() TokenUsage {
	total := i.Text
	total.Add(i.Tools)
	return total
}

// Tracker accumulates per-message usage records. Safe for concurrent use.
type Tracker struct {
	mu       sync.Mutex
	messages map[string]MessageUsage
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		messages: make(map[string]MessageUsage),
	}
}

// Record stores the usage of one API message, keyed by its message ID.
// Recording the same ID twice overwrites the earlier record, so replayed
// responses do not double count. Records without a message ID get a
// generated key, so they accumulate instead of collapsing onto one entry.
func (t *Tracker) Record(mu MessageUsage) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if mu.MessageID == "" {
		mu.MessageID = uuid.NewString()
	}
	t.messages[mu.MessageID] = mu
}

// MessageUsage returns the record of a single message by ID.
func (t *Tracker) MessageUsage(messageID string) (MessageUsage, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	mu, ok := t.messages[messageID]
	return mu, ok
}

// Usage consolidates all records into text vs tool usage with a per-tool
// breakdown.
func (t *Tracker) Usage() UsageInfo {
	t.mu.Lock()
	defer t.mu.Unlock()

	info := UsageInfo{}
	for _, msg := range t.messages {
		if !msg.ToolRelated {
			info.Text.Add(msg.Usage)
			continue
		}
		info.Tools.Add(msg.Usage)
		if msg.ToolName != "" {
			if info.ByTool == nil {
				info.ByTool = make(map[string]TokenUsage)
			}
			usage := info.ByTool[msg.ToolName]
			usage.Add(msg.Usage)
			info.ByTool[msg.ToolName] = usage
		}
	}
	return info
}

// Cost derives the cost of all recorded usage at the rates for the given
// model.
func (t *Tracker) Cost(model string) CostInfo {
	return t.Usage().Cost(model)
}

// Reset drops all usage records.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = make(map[string]MessageUsage)
}

// FromGenerationInfo extracts the vendor message ID and token usage from a
// response choice's generation info.
func FromGenerationInfo(info map[string]any) (string, TokenUsage) {
	ma := values.MapAny(info)
	return ma.String(llms.InfoMessageID), TokenUsage{
		InputTokens:              ma.Int64(llms.InfoInputTokens),
		OutputTokens:             ma.Int64(llms.InfoOutputTokens),
		CacheCreationInputTokens: ma.Int64(llms.InfoCacheCreationInputTokens),
		CacheReadInputTokens:     ma.Int64(llms.InfoCacheReadInputTokens),
	}
}

// FromResponse extracts the message ID and combined usage of a response.
// Choices originating from the same vendor message share one usage record,
// which is counted once.
func FromResponse(resp *llms.ContentResponse) (string, TokenUsage) {
	var id string
	var usage TokenUsage
	seen := map[string]bool{}
	for _, choice := range resp.Choices {
		choiceID, choiceUsage := FromGenerationInfo(choice.GenerationInfo)
		if choiceID != "" && seen[choiceID] {
			continue
		}
		seen[choiceID] = true
		if id == "" {
			id = choiceID
		}
		usage.Add(choiceUsage)
	}
	return id, usage
}
