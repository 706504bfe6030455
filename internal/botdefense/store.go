package botdefense

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// why an IP was trapped
type TrapReason string

const (
	ReasonHoneypot   TrapReason = "honeypot"
	ReasonBotPattern TrapReason = "bot_pattern"
)

const (
	keyTrapped = "botdefense:trapped:%s"
	keyRate    = "botdefense:rate:%s"
)

// keeps trap and rate state in Redis so every instance shares it
type Store struct {
	client *redis.Client
	config *Config
}

// creates a store over an existing client
func NewStore(client *redis.Client, config *Config) *Store {
	return &Store{client: client, config: config}
}

// marks an IP as trapped for the configured TTL
func (s *Store) TrapIP(ctx context.Context, ip string, reason TrapReason) error {
	return s.client.Set(ctx, fmt.Sprintf(keyTrapped, ip), string(reason), s.config.TrapTTL).Err()
}

// reports whether an IP is trapped and why
func (s *Store) IsTrapped(ctx context.Context, ip string) (bool, TrapReason, error) {
	reason, err := s.client.Get(ctx, fmt.Sprintf(keyTrapped, ip)).Result()
	if errors.Is(err, redis.Nil) {
		return false, "", nil
	}

	if err != nil {
		return false, "", err
	}

	return true, TrapReason(reason), nil
}

// counts a request in the IP's current window
func (s *Store) IncrementRate(ctx context.Context, ip string) (int64, error) {
	key := fmt.Sprintf(keyRate, ip)

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}

	// the first request opens the window
	if count == 1 {
		if err := s.client.Expire(ctx, key, s.config.RateLimitWindow).Err(); err != nil {
			return count, err
		}
	}

	return count, nil
}
