package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/you/accountsvc/domain"
)

// DefaultStream is the Redis stream account events are appended to
const DefaultStream = "accounts:events"

// maxStreamLen caps the stream; older entries are trimmed approximately.
const maxStreamLen = 10000

// RedisPublisher implements domain.EventPublisher with a Redis stream
type RedisPublisher struct {
	client *redis.Client
	stream string
}

// NewRedisPublisher creates a publisher appending to stream
func NewRedisPublisher(client *redis.Client, stream string) domain.EventPublisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisPublisher{client: client, stream: stream}
}

// Publish implements domain.EventPublisher
func (p *RedisPublisher) Publish(ctx context.Context, event *domain.AccountEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: maxStreamLen,
		Approx: true,
		Values: map[string]interface{}{
			"type":    string(event.EventType),
			"user_id": event.UserID.String(),
			"payload": string(payload),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.EventType, err)
	}
	return nil
}
