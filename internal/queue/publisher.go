package queue

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// DefaultStreamMaxLen caps the moderation stream. Trimming is approximate (MAXLEN ~).
const DefaultStreamMaxLen = 10000

// Publisher hands moderation events to the notification workers.
type Publisher interface {
	// Publish appends event to stream and returns the Redis message ID.
	Publish(ctx context.Context, stream string, event ModerationEvent) (messageID string, err error)
}

// RedisPublisher appends events with XADD.
type RedisPublisher struct {
	client *redis.Client
	maxLen int64
}

// NewPublisher returns a publisher that keeps at most about DefaultStreamMaxLen entries.
func NewPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client, maxLen: DefaultStreamMaxLen}
}

// WithMaxLen changes the trim threshold; 0 disables trimming.
func (p *RedisPublisher) WithMaxLen(n int64) *RedisPublisher {
	p.maxLen = n
	return p
}

func (p *RedisPublisher) Publish(ctx context.Context, stream string, event ModerationEvent) (string, error) {
	if event.Type == "" || event.ListingID <= 0 {
		return "", fmt.Errorf("publish to %s: incomplete event %+v", stream, event)
	}

	values, err := event.ToMap()
	if err != nil {
		return "", err
	}

	args := &redis.XAddArgs{Stream: stream, Values: values}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	id, err := p.client.XAdd(ctx, args).Result()
	if err != nil {
		log.Printf("[Publisher] XADD FAILED: stream=%s type=%s listing=%d err=%v", stream, event.Type, event.ListingID, err)
		return "", fmt.Errorf("xadd %s: %w", stream, err)
	}

	log.Printf("[Publisher] %s listing=%d owner=%d msgID=%s", event.Type, event.ListingID, event.OwnerID, id)
	return id, nil
}
