package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/Vinay400/chat-buddy/internal/models"
)

// RedisArchive stores messages in Redis, one sorted set per room scored by
// timestamp, with the retention horizon enforced by key TTL plus pruning.
type RedisArchive struct {
	client *redis.Client
}

// NewRedisArchive creates a new Redis-backed archive.
func NewRedisArchive(ctx context.Context, redisURL string) (*RedisArchive, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisArchive{client: client}, nil
}

// Close closes the Redis connection.
func (a *RedisArchive) Close() error {
	return a.client.Close()
}

// Ping checks the Redis connection.
func (a *RedisArchive) Ping(ctx context.Context) error {
	return a.client.Ping(ctx).Err()
}

// roomMessagesKey returns the key for a room's message sorted set.
func roomMessagesKey(room string) string {
	return fmt.Sprintf("room:%s:messages", room)
}

// Append stores a message in the room's sorted set.
func (a *RedisArchive) Append(ctx context.Context, msg *models.Message) error {
	// Generate ULID if not set
	if msg.ID == "" {
		msg.ID = ulid.Make().String()
	}

	// Set timestamp if not set
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().UnixMilli()
	}

	// Serialize message
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	key := roomMessagesKey(msg.Room)

	// Add to sorted set
	err = a.client.ZAdd(ctx, key, redis.Z{
		Score:  float64(msg.Timestamp),
		Member: string(data),
	}).Err()
	if err != nil {
		return err
	}

	// TTL keeps idle rooms from leaking keys; pruning below enforces the
	// horizon inside active rooms.
	a.client.Expire(ctx, key, Retention)

	horizon := time.Now().Add(-Retention).UnixMilli()
	a.client.ZRemRangeByScore(ctx, key, "-inf", fmt.Sprintf("(%d", horizon))

	return nil
}

// Recent retrieves the room's messages with timestamp >= since, ascending.
func (a *RedisArchive) Recent(ctx context.Context, room string, since time.Time) ([]models.Message, error) {
	key := roomMessagesKey(room)

	results, err := a.client.ZRangeByScore(ctx, key, &redis.ZRangeBy{
		Min: fmt.Sprintf("%d", since.UnixMilli()),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, err
	}

	messages := make([]models.Message, 0, len(results))
	for _, data := range results {
		var msg models.Message
		if err := json.Unmarshal([]byte(data), &msg); err != nil {
			continue
		}
		messages = append(messages, msg)
	}

	return messages, nil
}
