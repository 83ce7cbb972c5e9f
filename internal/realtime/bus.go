package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gdugdh24/meetmatch-backend/internal/domain"
	"github.com/gdugdh24/meetmatch-backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Envelope carries a push for one user between instances.
type Envelope struct {
	Origin  string          `json:"origin,omitempty"`
	UserID  uuid.UUID       `json:"userId"`
	Event   Event           `json:"event"`
	Message *domain.Message `json:"message,omitempty"`
}

// Bus fans pushes out to every instance holding clients.
type Bus interface {
	Publish(ctx context.Context, env Envelope) error
	StartForwarder(ctx context.Context, onMsg func(env Envelope)) error
	Close() error
}

type localBus struct {
	mu    sync.RWMutex
	onMsg func(env Envelope)
}

// NewLocalBus delivers published envelopes in-process.
func NewLocalBus() Bus {
	return &localBus{}
}

func (b *localBus) Publish(_ context.Context, env Envelope) error {
	b.mu.RLock()
	onMsg := b.onMsg
	b.mu.RUnlock()
	if onMsg == nil {
		return fmt.Errorf("local bus: forwarder not started")
	}
	onMsg(env)
	return nil
}

func (b *localBus) StartForwarder(_ context.Context, onMsg func(env Envelope)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onMsg = onMsg
	return nil
}

func (b *localBus) Close() error { return nil }

type redisBus struct {
	log     *logger.Logger
	rdb     *redis.Client
	channel string
}

func NewRedisBus(rdb *redis.Client, channel string, log *logger.Logger) Bus {
	if channel == "" {
		channel = "realtime"
	}
	return &redisBus{
		log:     log.With("component", "RedisBus"),
		rdb:     rdb,
		channel: channel,
	}
}

func (b *redisBus) Publish(ctx context.Context, env Envelope) error {
	raw, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *redisBus) StartForwarder(ctx context.Context, onMsg func(env Envelope)) error {
	sub := b.rdb.Subscribe(ctx, b.channel)

	// wait for the subscription to be confirmed
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				var env Envelope
				if err := json.Unmarshal([]byte(m.Payload), &env); err != nil {
					b.log.Warn("bad realtime bus payload", "error", err)
					continue
				}
				onMsg(env)
			}
		}
	}()

	return nil
}

// Close is a no-op; the Redis client is owned by the container.
func (b *redisBus) Close() error { return nil }
