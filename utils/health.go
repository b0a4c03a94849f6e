package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus is the snapshot served on /health: the Mongo datastore
// (schedules, slot_records, bookings), the Redis cache DB backing month
// views, and the Redis queue DB backing notifications and the
// reconciliation sweep.
type HealthStatus struct {
	Datastore bool      `json:"datastore"`
	Cache     bool      `json:"cache"`
	Queue     bool      `json:"queue"`
	CheckedAt time.Time `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	healthMu      sync.RWMutex
)

// GetHealthStatus returns the latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	healthMu.RLock()
	defer healthMu.RUnlock()
	return currentHealth
}

// probeHealth pings each dependency once. A nil client reports unhealthy
// instead of panicking, so partially wired setups still get a snapshot.
func probeHealth(ctx context.Context, cache, queue *redis.Client, mongoClient *mongo.Client) HealthStatus {
	s := HealthStatus{CheckedAt: time.Now()}
	if mongoClient != nil {
		s.Datastore = mongoClient.Ping(ctx, nil) == nil
	}
	if cache != nil {
		s.Cache = cache.Ping(ctx).Err() == nil
	}
	if queue != nil {
		s.Queue = queue.Ping(ctx).Err() == nil
	}
	return s
}

// StartHealthMonitor refreshes the health snapshot once a minute.
func StartHealthMonitor(cache, queue *redis.Client, mongoClient *mongo.Client) {
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			s := probeHealth(ctx, cache, queue, mongoClient)
			cancel()

			healthMu.Lock()
			currentHealth = s
			healthMu.Unlock()
		}
	}()
}
