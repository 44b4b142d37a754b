package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// Stats responses are cached briefly on the read side only; the core
// recomputes from the repository on every call.
const statsCacheTTL = 30 * time.Second

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

// CacheStats stores a computed stats payload under the user's key.
func CacheStats(ctx context.Context, kind string, userID uint, stats interface{}) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	key := statsKey(kind, userID)
	return RedisClient.Set(ctx, key, data, statsCacheTTL).Err()
}

// GetCachedStats loads a cached stats payload into out. Returns false on
// a cache miss.
func GetCachedStats(ctx context.Context, kind string, userID uint, out interface{}) (bool, error) {
	data, err := RedisClient.Get(ctx, statsKey(kind, userID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal([]byte(data), out)
}

// InvalidateStats drops the cached stats for a user after a mutation
// that affects their aggregates.
func InvalidateStats(ctx context.Context, kind string, userID uint) {
	RedisClient.Del(ctx, statsKey(kind, userID))
}

func statsKey(kind string, userID uint) string {
	return fmt.Sprintf("stats:%s:%d", kind, userID)
}
