package tokens_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joaompinto/claudine/pkg/llms"
	"github.com/joaompinto/claudine/tokens"
)

func TestTrackerUsage(t *testing.T) {
	t.Parallel()

	tracker := tokens.NewTracker()
	tracker.Record(tokens.MessageUsage{
		MessageID: "msg_1",
		Usage:     tokens.TokenUsage{InputTokens: 100, OutputTokens: 50},
	})
	tracker.Record(tokens.MessageUsage{
		MessageID:   "msg_2",
		Usage:       tokens.TokenUsage{InputTokens: 200, OutputTokens: 20},
		ToolRelated: true,
		ToolName:    "get_weather",
	})
	tracker.Record(tokens.MessageUsage{
		MessageID:   "msg_3",
		Usage:       tokens.TokenUsage{InputTokens: 300, OutputTokens: 30, CacheReadInputTokens: 40},
		ToolRelated: true,
		ToolName:    "get_weather",
	})

	info := tracker.Usage()
	assert.Equal(t, int64(100), info.Text.InputTokens)
	assert.Equal(t, int64(50), info.Text.OutputTokens)
	assert.Equal(t, int64(500), info.Tools.InputTokens)
	assert.Equal(t, int64(50), info.Tools.OutputTokens)
	assert.Equal(t, int64(40), info.Tools.CacheReadInputTokens)

	require.Contains(t, info.ByTool, "get_weather")
	assert.Equal(t, int64(500), info.ByTool["get_weather"].InputTokens)

	total := info.Total()
	assert.Equal(t, int64(600), total.InputTokens)
	assert.Equal(t, int64(100), total.OutputTokens)
	assert.Equal(t, int64(740), total.TotalTokens())

	mu, ok := tracker.MessageUsage("msg_2")
	require.True(t, ok)
	assert.True(t, mu.ToolRelated)
	assert.Equal(t, "get_weather", mu.ToolName)

	_, ok = tracker.MessageUsage("msg_404")
	assert.False(t, ok)
}

func TestTrackerRecordEmptyID(t *testing.T) {
	t.Parallel()

	// providers that report no message ID still accumulate per record
	tracker := tokens.NewTracker()
	tracker.Record(tokens.MessageUsage{
		Usage: tokens.TokenUsage{InputTokens: 100, OutputTokens: 10},
	})
	tracker.Record(tokens.MessageUsage{
		Usage: tokens.TokenUsage{InputTokens: 200, OutputTokens: 20},
	})

	total := tracker.Usage().Total()
	assert.Equal(t, int64(300), total.InputTokens)
	assert.Equal(t, int64(30), total.OutputTokens)
}

func TestTrackerRecordOverwrites(t *testing.T) {
	t.Parallel()

	tracker := tokens.NewTracker()
	usage := tokens.MessageUsage{
		MessageID: "msg_1",
		Usage:     tokens.TokenUsage{InputTokens: 100, OutputTokens: 10},
	}
	tracker.Record(usage)
	tracker.Record(usage)

	info := tracker.Usage()
	assert.Equal(t, int64(100), info.Text.InputTokens)
	assert.Equal(t, int64(10), info.Text.OutputTokens)
}

func TestTrackerReset(t *testing.T) {
	t.Parallel()

	tracker := tokens.NewTracker()
	tracker.Record(tokens.MessageUsage{
		MessageID: "msg_1",
		Usage:     tokens.TokenUsage{InputTokens: 100},
	})
	tracker.Reset()

	info := tracker.Usage()
	assert.Zero(t, info.Total().TotalTokens())
	_, ok := tracker.MessageUsage("msg_1")
	assert.False(t, ok)
}

func TestFromResponse(t *testing.T) {
	t.Parallel()

	info := map[string]any{
		llms.InfoMessageID:                "msg_1",
		llms.InfoInputTokens:              int64(100),
		llms.InfoOutputTokens:             int64(25),
		llms.InfoCacheCreationInputTokens: int64(10),
		llms.InfoCacheReadInputTokens:     int64(5),
	}
	resp := &llms.ContentResponse{
		Choices: []*llms.ContentChoice{
			{Content: "part one", GenerationInfo: info},
			// same vendor message, must not double count
			{Content: "part two", GenerationInfo: info},
		},
	}

	id, usage := tokens.FromResponse(resp)
	assert.Equal(t, "msg_1", id)
	assert.Equal(t, int64(100), usage.InputTokens)
	assert.Equal(t, int64(25), usage.OutputTokens)
	assert.Equal(t, int64(10), usage.CacheCreationInputTokens)
	assert.Equal(t, int64(5), usage.CacheReadInputTokens)
	assert.Equal(t, int64(140), usage.TotalTokens())
}
