package buffer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"codeberg.org/metastamp/server/internal/logger"
)

var (
	ErrNegativeReport = errors.New("buffer: touch reports cannot be negative")
)

// handles Redis-backed buffering of touch counters
type TouchBuffer struct {
	client *redis.Client
}

// creates a new touch buffer with Redis connection
func NewTouchBuffer(redisURL string) (*TouchBuffer, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	// test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("connected to redis")

	return NewTouchBufferFromClient(client), nil
}

// wraps an existing client
func NewTouchBufferFromClient(client *redis.Client) *TouchBuffer {
	return &TouchBuffer{client: client}
}

// exposes the client so other Redis consumers share the connection
func (b *TouchBuffer) Client() *redis.Client {
	return b.client
}

// closes the Redis connection
func (b *TouchBuffer) Close() error {
	return b.client.Close()
}

// increments the buffered counters for a content row and marks it dirty
func (b *TouchBuffer) Add(ctx context.Context, report TouchReport) error {
	if report.Touches < 0 || report.Earnings < 0 {
		return ErrNegativeReport
	}

	if report.Empty() {
		return nil
	}

	key := fmt.Sprintf(keyContentTouches, report.ContentID)

	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, key, fieldTouches, report.Touches)
		pipe.HIncrByFloat(ctx, key, fieldEarnings, report.Earnings)
		pipe.SAdd(ctx, keyDirtyContentTouches, report.ContentID)
		return nil
	})

	if err != nil {
		return fmt.Errorf("failed to buffer touches in redis: %w", err)
	}

	return nil
}

// returns all content IDs with unflushed touches
func (b *TouchBuffer) Dirty(ctx context.Context) ([]string, error) {
	return b.client.SMembers(ctx, keyDirtyContentTouches).Result()
}

// returns buffered counters without draining them
func (b *TouchBuffer) Pending(ctx context.Context, contentID string) (TouchReport, error) {
	key := fmt.Sprintf(keyContentTouches, contentID)

	fields, err := b.client.HGetAll(ctx, key).Result()
	if err != nil {
		return TouchReport{}, fmt.Errorf("failed to read buffered touches: %w", err)
	}

	return parseReport(contentID, fields)
}

// atomically reads and clears the buffered counters for a content row
func (b *TouchBuffer) Drain(ctx context.Context, contentID string) (TouchReport, error) {
	key := fmt.Sprintf(keyContentTouches, contentID)

	var fields *redis.MapStringStringCmd

	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		fields = pipe.HGetAll(ctx, key)
		pipe.Del(ctx, key)
		pipe.SRem(ctx, keyDirtyContentTouches, contentID)
		return nil
	})

	if err != nil {
		return TouchReport{}, fmt.Errorf("failed to drain touches: %w", err)
	}

	return parseReport(contentID, fields.Val())
}

func parseReport(contentID string, fields map[string]string) (TouchReport, error) {
	report := TouchReport{ContentID: contentID}

	if v, ok := fields[fieldTouches]; ok {
		touches, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return report, fmt.Errorf("invalid buffered touches %q: %w", v, err)
		}
		report.Touches = touches
	}

	if v, ok := fields[fieldEarnings]; ok {
		earnings, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return report, fmt.Errorf("invalid buffered earnings %q: %w", v, err)
		}
		report.Earnings = earnings
	}

	return report, nil
}
