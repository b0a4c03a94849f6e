// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"servihub/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient is the generic cache client, used for schedule month views.
	CacheClient *redis.Client
)

// ScheduleCacheTTL bounds how stale a cached month view may get between
// invalidations.
const ScheduleCacheTTL = 2 * time.Minute

// ScheduleCacheKey builds the cache key for a provider's month view.
func ScheduleCacheKey(providerID, month string) string {
	return "schedule:" + providerID + ":" + month
}

// InitCache initializes the generic Redis cache client.
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPass,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := CacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}
