package realtime

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Presence answers whether a user has an open channel anywhere.
type Presence interface {
	Connect(ctx context.Context, userID uuid.UUID) error
	Disconnect(ctx context.Context, userID uuid.UUID) error
	// Refresh extends the lifetime of the user's online marker.
	Refresh(ctx context.Context, userID uuid.UUID) error
	IsOnline(ctx context.Context, userID uuid.UUID) (bool, error)
}

type localPresence struct {
	hub *Hub
}

// NewLocalPresence reads presence from the local hub. It fits single-instance deployments.
func NewLocalPresence(hub *Hub) Presence {
	return &localPresence{hub: hub}
}

func (p *localPresence) Connect(context.Context, uuid.UUID) error    { return nil }
func (p *localPresence) Disconnect(context.Context, uuid.UUID) error { return nil }
func (p *localPresence) Refresh(context.Context, uuid.UUID) error    { return nil }

func (p *localPresence) IsOnline(_ context.Context, userID uuid.UUID) (bool, error) {
	return p.hub.Online(userID), nil
}

// decrScript decrements the counter and drops it at zero so stale keys do not linger.
var decrScript = redis.NewScript(`
local n = redis.call("DECR", KEYS[1])
if n <= 0 then
	redis.call("DEL", KEYS[1])
	return 0
end
return n
`)

type redisPresence struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisPresence keeps a per-user connection counter in Redis. The counter
// expires after ttl unless refreshed, which clears counts left by a crashed instance.
func NewRedisPresence(rdb *redis.Client, prefix string, ttl time.Duration) Presence {
	if prefix == "" {
		prefix = "presence:"
	}
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &redisPresence{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (p *redisPresence) key(userID uuid.UUID) string {
	return p.prefix + userID.String()
}

func (p *redisPresence) Connect(ctx context.Context, userID uuid.UUID) error {
	key := p.key(userID)
	pipe := p.rdb.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, p.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("presence connect: %w", err)
	}
	return nil
}

func (p *redisPresence) Disconnect(ctx context.Context, userID uuid.UUID) error {
	if err := decrScript.Run(ctx, p.rdb, []string{p.key(userID)}).Err(); err != nil {
		return fmt.Errorf("presence disconnect: %w", err)
	}
	return nil
}

func (p *redisPresence) Refresh(ctx context.Context, userID uuid.UUID) error {
	if err := p.rdb.Expire(ctx, p.key(userID), p.ttl).Err(); err != nil {
		return fmt.Errorf("presence refresh: %w", err)
	}
	return nil
}

func (p *redisPresence) IsOnline(ctx context.Context, userID uuid.UUID) (bool, error) {
	n, err := p.rdb.Get(ctx, p.key(userID)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("presence lookup: %w", err)
	}
	return n > 0, nil
}
