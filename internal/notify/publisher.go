package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Publisher pushes real-time notifications to a user's channel.
type Publisher interface {
	Publish(ctx context.Context, userID string, payload any) error
}

// RedisPublisher publishes JSON payloads on "<prefix><userID>".
type RedisPublisher struct {
	client *redis.Client
	prefix string
}

// NewRedisPublisher wraps a go-redis client.
func NewRedisPublisher(client *redis.Client, prefix string) *RedisPublisher {
	return &RedisPublisher{client: client, prefix: prefix}
}

// Channel returns the channel name for userID.
func (p *RedisPublisher) Channel(userID string) string {
	return p.prefix + userID
}

func (p *RedisPublisher) Publish(ctx context.Context, userID string, payload any) error {
	if p == nil || p.client == nil {
		return fmt.Errorf("redis publisher not configured")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	return p.client.Publish(ctx, p.Channel(userID), body).Err()
}
