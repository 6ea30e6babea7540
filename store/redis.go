package store

import (
	"context"
	"encoding/json"
	"path"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/redis/go-redis/v9"

	"github.com/joaompinto/claudine/pkg/llms"
)

// The redis store implements the MessageStore interface using Redis as the
// backend. The keys namespace is organized as follows:
// - `/<prefix>/chatstore/messages/<chatID>` for storing chat messages

// DefaultMaxStoredMessages bounds the Redis list per chat. Older messages are
// trimmed away as new ones arrive.
const DefaultMaxStoredMessages = 50

type redisStore struct {
	client      *redis.Client
	prefix      string
	maxMessages int64
}

func NewRedisStore(client *redis.Client, prefix string) MessageStore {
	return &redisStore{
		client:      client,
		prefix:      prefix,
		maxMessages: DefaultMaxStoredMessages,
	}
}

func (m *redisStore) getRedisMessagesKey(chatID string) string {
	return path.Join(m.prefix, "chatstore", "messages", chatID)
}

func (m *redisStore) Messages(ctx context.Context, chatID string) []llms.Message {
	key := m.getRedisMessagesKey(chatID)
	// Get all messages in the list
	data, err := m.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		logger.ContextKV(ctx, xlog.ERROR, "reason", "GetRedisMessages", "err", err.Error())
		return nil
	}

	var models []MessageModel
	for _, item := range data {
		var model MessageModel
		if err := json.Unmarshal([]byte(item), &model); err != nil {
			logger.ContextKV(ctx, xlog.ERROR, "reason", "unmarshal message", "err", err.Error())
			continue
		}
		models = append(models, model)
	}
	return ToMessages(models)
}

func (m *redisStore) Add(ctx context.Context, chatID string, msgs ...llms.Message) error {
	if len(msgs) == 0 {
		return nil
	}

	key := m.getRedisMessagesKey(chatID)
	pipe := m.client.Pipeline()
	for _, msg := range msgs {
		model, err := ToModel(msg)
		if err != nil {
			return err
		}
		data, err := json.Marshal(model)
		if err != nil {
			return errors.Wrap(err, "failed to marshal message")
		}
		pipe.RPush(ctx, key, data)
	}
	// Keep only the most recent messages
	pipe.LTrim(ctx, key, -m.maxMessages, -1)
	_, err := pipe.Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to store messages in Redis")
	}
	return nil
}

func (m *redisStore) Reset(ctx context.Context, chatID string) error {
	key := m.getRedisMessagesKey(chatID)
	err := m.client.Del(ctx, key).Err()
	if err != nil {
		return errors.Wrap(err, "failed to reset chat in Redis")
	}
	return nil
}
