package chanlock

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// DefaultTTL bounds how long a crashed holder can keep a channel claimed.
const DefaultTTL = 2 * time.Minute

// releaseScript deletes the key only while it still holds the caller's
// claim token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a Locker shared by every bot replica connected to one Redis.
type Redis struct {
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis connects to addr and checks it with a ping.
func NewRedis(ctx context.Context, addr string, ttl time.Duration) (*Redis, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Redis{
		rdb:    rdb,
		prefix: "inference:chanlock:",
		ttl:    ttl,
	}, nil
}

func (r *Redis) key(channelID string) string {
	return r.prefix + channelID
}

// TryEnter claims the channel with a fresh token, so a claim that expired
// mid-stream cannot release its successor.
func (r *Redis) TryEnter(ctx context.Context, channelID string) (string, bool, error) {
	token := uuid.NewString()
	ok, err := r.rdb.SetNX(ctx, r.key(channelID), token, r.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("redis setnx: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

func (r *Redis) Exit(ctx context.Context, channelID, token string) error {
	if err := releaseScript.Run(ctx, r.rdb, []string{r.key(channelID)}, token).Err(); err != nil {
		return fmt.Errorf("redis release: %w", err)
	}
	return nil
}

func (r *Redis) Held(ctx context.Context, channelID string) (bool, error) {
	n, err := r.rdb.Exists(ctx, r.key(channelID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

// Close closes the Redis client.
func (r *Redis) Close() error {
	return r.rdb.Close()
}
