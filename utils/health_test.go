package utils

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
)

func TestProbeHealthUnreachableDependencies(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	dead := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
	})
	defer dead.Close()

	s := probeHealth(ctx, dead, dead, nil)
	if s.Cache || s.Queue || s.Datastore {
		t.Errorf("probe = %+v, want every dependency unhealthy", s)
	}
	if s.CheckedAt.IsZero() {
		t.Error("checkedAt not set")
	}
}

func TestGetHealthStatusReturnsSnapshot(t *testing.T) {
	healthMu.Lock()
	currentHealth = HealthStatus{Datastore: true, Cache: true, CheckedAt: time.Now()}
	healthMu.Unlock()

	got := GetHealthStatus()
	if !got.Datastore || !got.Cache || got.Queue {
		t.Errorf("snapshot = %+v", got)
	}
}
