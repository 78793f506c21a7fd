package services

import (
	"context"
	"fmt"
	"frietkot_server/structs"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds a pooled client; it does not connect until first use.
func NewRedisClient(cfg *structs.CacheConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,

		// Connection pool settings
		PoolSize: cfg.PoolSize,

		// Timeouts
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,

		// Retry settings
		MaxRetries: 2,
	})
}

// RateLimitService keeps fixed-window request counters in Redis.
type RateLimitService struct {
	logger *gecho.Logger
	client *redis.Client
}

func NewRateLimitService(logger *gecho.Logger, client *redis.Client) *RateLimitService {
	return &RateLimitService{
		logger: logger,
		client: client,
	}
}

func rateLimitKey(ip, endpoint string) string {
	return fmt.Sprintf("ratelimit:%s:%s", ip, strings.TrimSuffix(endpoint, "/"))
}

// IncrementRateLimit increments the counter for ip and endpoint and starts the
// window on the first hit. INCR is not idempotent, so it is never retried.
func (rs *RateLimitService) IncrementRateLimit(ctx context.Context, ip, endpoint string, window time.Duration) (int, error) {
	key := rateLimitKey(ip, endpoint)

	val, err := rs.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	// Set expiration only on first increment
	if val == 1 {
		if err := rs.client.Expire(ctx, key, window).Err(); err != nil {
			return int(val), fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	return int(val), nil
}

// Ping tests the Redis connection
func (rs *RateLimitService) Ping(ctx context.Context) error {
	return rs.client.Ping(ctx).Err()
}

func (rs *RateLimitService) Close() error {
	return rs.client.Close()
}
