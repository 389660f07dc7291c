package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Ondalf/spothinta/internal/model"
)

const (
	keyPrefix = "spothinta:snapshot:"

	// Stored datasets only cover today plus the forward day, so anything
	// older than two days is garbage regardless of the refresh policy.
	snapshotTTL = 48 * time.Hour
)

// RedisStore persists snapshots as JSON documents in Redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed snapshot store.
func NewRedisStore(addr, password string, db int) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStore{client: rdb}
}

// NewRedisStoreWithClient wraps an existing Redis client.
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func regionKey(region model.Region) string {
	return keyPrefix + region.String()
}

// Load returns the stored snapshot for region, or ErrNotFound.
func (r *RedisStore) Load(ctx context.Context, region model.Region) (*model.RegionSnapshot, error) {
	val, err := r.client.Get(ctx, regionKey(region)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot for %s: %w", region, err)
	}

	var snap model.RegionSnapshot
	if err := json.Unmarshal([]byte(val), &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot for %s: %w", region, err)
	}
	return &snap, nil
}

// Save replaces the stored snapshot for the snapshot's region.
func (r *RedisStore) Save(ctx context.Context, snap model.RegionSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot for %s: %w", snap.Region, err)
	}
	if err := r.client.Set(ctx, regionKey(snap.Region), string(data), snapshotTTL).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot for %s: %w", snap.Region, err)
	}
	return nil
}

// Ping checks that the Redis connection is alive.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
