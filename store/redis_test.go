package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	rediscon "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/joaompinto/claudine/pkg/llms"
	"github.com/joaompinto/claudine/store"
)

func Test_RedisStore(t *testing.T) {
	ctx := context.Background()
	redisContainer, err := rediscon.Run(ctx, "redis:7",
		testcontainers.WithConfigModifier(func(config *container.Config) {
			config.Env = []string{
				"ALLOW_EMPTY_PASSWORD=yes",
			}
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, redisContainer.Terminate(ctx))
	})

	state, err := redisContainer.State(ctx)
	require.NoError(t, err)
	require.True(t, state.Running)

	root := fmt.Sprintf("test-%d", time.Now().Unix())

	host, err := redisContainer.ConnectionString(ctx)
	require.NoError(t, err)

	options, err := redis.ParseURL(host)
	require.NoError(t, err)

	client := redis.NewClient(options)

	rs := client.Ping(ctx) // Ensure the connection is established
	require.NoError(t, rs.Err(), "failed to connect to Redis")

	st := store.NewRedisStore(client, root)

	chatID := "chat1"
	assert.Empty(t, st.Messages(ctx, chatID))

	err = st.Add(ctx, chatID,
		llms.MessageFromTextParts(llms.RoleHuman, "Hello"),
		llms.MessageFromTextParts(llms.RoleAI, "Hi there!"),
	)
	require.NoError(t, err)

	// a tool-use exchange survives the round trip
	err = st.Add(ctx, chatID,
		llms.MessageFromParts(llms.RoleAI,
			llms.ToolCall{
				ID:   "toolu_1",
				Type: llms.ToolTypeFunction,
				FunctionCall: &llms.FunctionCall{
					Name:      "get_weather",
					Arguments: `{"location":"Lisbon"}`,
				},
			},
		),
		llms.MessageFromToolResponse(llms.RoleTool, llms.ToolCallResponse{
			ToolCallID: "toolu_1",
			Name:       "get_weather",
			Content:    "72F and sunny",
		}),
	)
	require.NoError(t, err)

	msgs := st.Messages(ctx, chatID)
	require.Len(t, msgs, 4)
	assert.Equal(t, llms.RoleHuman, msgs[0].Role)
	assert.Equal(t, "Hello", msgs[0].GetContent())
	assert.Equal(t, "Hi there!", msgs[1].GetContent())

	toolCall, ok := msgs[2].Parts[0].(llms.ToolCall)
	require.True(t, ok)
	assert.Equal(t, "toolu_1", toolCall.ID)
	assert.Equal(t, "get_weather", toolCall.FunctionCall.Name)

	toolResp, ok := msgs[3].Parts[0].(llms.ToolCallResponse)
	require.True(t, ok)
	assert.Equal(t, "72F and sunny", toolResp.Content)

	// chats are isolated by ID
	assert.Empty(t, st.Messages(ctx, "chat2"))

	// the list is capped at the most recent messages
	for i := 0; i < store.DefaultMaxStoredMessages+10; i++ {
		err = st.Add(ctx, chatID, llms.MessageFromTextParts(llms.RoleHuman, fmt.Sprintf("msg-%d", i)))
		require.NoError(t, err)
	}
	msgs = st.Messages(ctx, chatID)
	require.Len(t, msgs, store.DefaultMaxStoredMessages)
	assert.Equal(t, fmt.Sprintf("msg-%d", store.DefaultMaxStoredMessages+9), msgs[len(msgs)-1].GetContent())

	require.NoError(t, st.Reset(ctx, chatID))
	assert.Empty(t, st.Messages(ctx, chatID))
}
