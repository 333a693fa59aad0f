package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/adarsh062/VibeCart/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

// snapshotKey is fixed: there is a single global cart.
const snapshotKey = "cart:snapshot"

type RedisCache struct {
	client  *redis.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	baseTTL time.Duration
}

// NewRedisCache wraps every redis round-trip in a circuit breaker so a
// flapping redis degrades the service to store reads instead of adding a
// timeout to every snapshot.
func NewRedisCache(client *redis.Client) *RedisCache {
	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "snapshot-cache",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &RedisCache{
		client:  client,
		breaker: breaker,
		baseTTL: 15 * time.Minute,
	}
}

func (r *RedisCache) Get(ctx context.Context) (*domain.CartSnapshot, error) {
	data, err := r.breaker.Execute(func() ([]byte, error) {
		data, err := r.client.Get(ctx, snapshotKey).Bytes()
		if errors.Is(err, redis.Nil) {
			// A miss is a normal outcome, not a breaker failure.
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("redis get failed: %w", err)
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrCacheMiss
	}

	var snapshot domain.CartSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot failed: %w", err)
	}

	return &snapshot, nil
}

func (r *RedisCache) Set(ctx context.Context, snapshot *domain.CartSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(5)) * time.Minute
	ttl := r.baseTTL + jitter

	_, err = r.breaker.Execute(func() ([]byte, error) {
		if err := r.client.Set(ctx, snapshotKey, data, ttl).Err(); err != nil {
			return nil, fmt.Errorf("redis set failed: %w", err)
		}
		return nil, nil
	})
	return err
}

func (r *RedisCache) Delete(ctx context.Context) error {
	_, err := r.breaker.Execute(func() ([]byte, error) {
		if err := r.client.Del(ctx, snapshotKey).Err(); err != nil {
			return nil, fmt.Errorf("redis delete failed: %w", err)
		}
		return nil, nil
	})
	return err
}
