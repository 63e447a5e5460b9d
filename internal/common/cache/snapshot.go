// Package cache holds the Redis-backed snapshot store that feeds the
// completion gateway's fallback answers.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"helpdesk-insights/internal/common/config"
)

const (
	snapshotKey = "snapshot:context"
	snapshotTTL = 24 * time.Hour
)

// SnapshotStore keeps the most recent usable context block so a question can
// still get a data-backed answer when the live pipeline comes up empty.
type SnapshotStore struct {
	client *redis.Client
}

// New creates a snapshot store over a Redis connection.
func New(cfg config.RedisConfig) *SnapshotStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	return &SnapshotStore{client: rdb}
}

// NewWithClient wraps an existing Redis client (used by tests).
func NewWithClient(client *redis.Client) *SnapshotStore {
	return &SnapshotStore{client: client}
}

// Ping tests the Redis connection.
func (s *SnapshotStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// SaveContext stores the latest context block with a 24h TTL.
func (s *SnapshotStore) SaveContext(ctx context.Context, contextBlock string) error {
	return s.client.Set(ctx, snapshotKey, contextBlock, snapshotTTL).Err()
}

// LatestContext returns the most recent context block, or "" when none is
// cached or the lookup fails.
func (s *SnapshotStore) LatestContext(ctx context.Context) string {
	val, err := s.client.Get(ctx, snapshotKey).Result()
	if err != nil {
		return ""
	}
	return val
}

// Close closes the Redis connection.
func (s *SnapshotStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
