package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"postguard/internal/config"
	"postguard/internal/logging"
	"postguard/pkg/models"
)

const domainKeyPrefix = "postguard:domain:"

// RedisClient wraps the Redis client with domain verification caching.
// Verifying one domain costs a DNS round trip plus an archive lookup, so
// repeat requests for the same employer are served from cache.
type RedisClient struct {
	client *redis.Client
	config *config.Config
	logger logging.Logger
}

// NewRedisClient creates a new Redis client instance
func NewRedisClient(cfg *config.Config) *RedisClient {
	// Parse Redis URL
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		// Fallback to default configuration
		opts = &redis.Options{
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
		}
	}

	// Configure timeouts
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	return &RedisClient{
		client: client,
		config: cfg,
		logger: logging.GetGlobalLogger(),
	}
}

// Ping tests the Redis connection
func (r *RedisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	return r.client.Close()
}

// GetDomainVerification returns a cached verification result for a domain,
// or (nil, false) on a miss. Cache errors count as misses; the caller
// verifies directly.
func (r *RedisClient) GetDomainVerification(ctx context.Context, domain string) (*models.DomainVerificationResult, bool) {
	data, err := r.client.Get(ctx, domainKeyPrefix+domain).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.logger.Debug("Domain cache read failed", map[string]interface{}{
				"domain": domain,
				"error":  err.Error(),
			})
		}
		return nil, false
	}

	var result models.DomainVerificationResult
	if err := json.Unmarshal(data, &result); err != nil {
		r.logger.Warn("Dropping corrupt domain cache entry", map[string]interface{}{
			"domain": domain,
			"error":  err.Error(),
		})
		r.client.Del(ctx, domainKeyPrefix+domain)
		return nil, false
	}

	return &result, true
}

// SetDomainVerification caches a verification result with the configured TTL
func (r *RedisClient) SetDomainVerification(ctx context.Context, domain string, result *models.DomainVerificationResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal verification result: %w", err)
	}

	ttl := r.config.Verifier.CacheTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	if err := r.client.Set(ctx, domainKeyPrefix+domain, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache verification result: %w", err)
	}

	return nil
}
