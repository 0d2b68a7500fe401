// Package sequence hands out the daily counter that ends every offer number.
package sequence

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/javajack/xloffer/internal/config"
)

// Sequencer allocates increasing numbers per calendar day, starting at 1.
type Sequencer interface {
	Next(ctx context.Context, day time.Time) (int, error)
}

func dayKey(day time.Time) string {
	return day.Format("20060102")
}

// Memory keeps counters in process memory; they reset on restart.
type Memory struct {
	mu       sync.Mutex
	counters map[string]int
}

func NewMemory() *Memory {
	return &Memory{counters: make(map[string]int)}
}

func (m *Memory) Next(_ context.Context, day time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := dayKey(day)
	m.counters[key]++
	return m.counters[key], nil
}

// Redis shares counters between processes with INCR on one key per day.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis uses client for "{prefix}:{yyyyMMdd}" keys that expire after ttl.
func NewRedis(client *redis.Client, prefix string, ttl time.Duration) *Redis {
	return &Redis{client: client, prefix: prefix, ttl: ttl}
}

func (r *Redis) Next(ctx context.Context, day time.Time) (int, error) {
	key := r.prefix + ":" + dayKey(day)
	n, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("incr %s: %w", key, err)
	}
	if n == 1 && r.ttl > 0 {
		if err := r.client.Expire(ctx, key, r.ttl).Err(); err != nil {
			return 0, fmt.Errorf("expire %s: %w", key, err)
		}
	}
	return int(n), nil
}

// Close releases the Redis connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}

// New builds the Sequencer selected by cfg. The Redis backend is pinged
// before it is returned.
func New(ctx context.Context, cfg config.SequenceConfig) (Sequencer, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemory(), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("redis ping failed: %w", err)
		}
		return NewRedis(client, cfg.KeyPrefix, cfg.TTL), nil
	}
	return nil, fmt.Errorf("unknown sequence backend %q", cfg.Backend)
}
