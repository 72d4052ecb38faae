// Package cache wraps Redis as a read-through cache for catalog responses.
// All operations degrade to no-ops when Redis is unreachable or disabled,
// so the store stays usable without it.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/danuartha/kopistore/config"
	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client

// Connect initialises the Redis client and verifies the connection with a
// ping. Returns an error so the caller can log a warning and continue.
func Connect() error {
	if !config.CacheEnabled() {
		return nil
	}

	RDB = redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	if err := RDB.Ping(context.Background()).Err(); err != nil {
		RDB = nil // mark as unavailable so Get/Set/Del no-op safely
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	return nil
}

// Get retrieves a cached value by key and unmarshals into dest.
// Returns true on a cache hit, false on miss or error.
func Get(ctx context.Context, key string, dest interface{}) bool {
	if RDB == nil {
		return false
	}

	val, err := RDB.Get(ctx, key).Result()
	if err != nil {
		return false
	}

	return json.Unmarshal([]byte(val), dest) == nil
}

// Set stores value under key for the given TTL.
func Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if RDB == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return RDB.Set(ctx, key, data, ttl).Err()
}

// Del removes one or more keys.
func Del(ctx context.Context, keys ...string) error {
	if RDB == nil {
		return nil
	}
	return RDB.Del(ctx, keys...).Err()
}

// DelPattern removes every key matching a glob pattern, e.g. "products:*".
// Used to invalidate catalog listings after a product mutation.
func DelPattern(ctx context.Context, pattern string) error {
	if RDB == nil {
		return nil
	}

	iter := RDB.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := RDB.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
