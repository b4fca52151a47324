package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/user/sitekit/internal/entity"
	"github.com/user/sitekit/internal/repository"
)

// DefaultQueueKey is the Redis list holding the shared dataLayer.
const DefaultQueueKey = "sitekit:datalayer"

// QueueRepoImpl provides a concrete implementation for the CommandQueue interface using Redis Lists.
type QueueRepoImpl struct {
	client *redis.Client
	key    string
}

// NewQueueRepo creates a new instance of QueueRepoImpl. An empty key selects DefaultQueueKey.
func NewQueueRepo(client *redis.Client, key string) *QueueRepoImpl {
	if key == "" {
		key = DefaultQueueKey
	}
	return &QueueRepoImpl{client: client, key: key}
}

// Push adds a command to the left side of the Redis list (acting as a queue).
func (r *QueueRepoImpl) Push(ctx context.Context, cmd entity.Command) error {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("encode command %q: %w", cmd.Name, err)
	}
	return r.client.LPush(ctx, r.key, payload).Err()
}

// Pop removes and returns a command from the right side of the Redis list.
func (r *QueueRepoImpl) Pop(ctx context.Context) (entity.Command, error) {
	raw, err := r.client.RPop(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return entity.Command{}, repository.ErrQueueEmpty
		}
		return entity.Command{}, err
	}
	var cmd entity.Command
	if err := json.Unmarshal(raw, &cmd); err != nil {
		return entity.Command{}, fmt.Errorf("decode queued command: %w", err)
	}
	return cmd, nil
}

// Size returns the current number of items in the queue.
func (r *QueueRepoImpl) Size(ctx context.Context) (int64, error) {
	return r.client.LLen(ctx, r.key).Result()
}
