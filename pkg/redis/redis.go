package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/richxcame/devcert-dashboard/pkg/config"
	"github.com/richxcame/devcert-dashboard/pkg/resilience"
)

// ClientInterface is the subset of Redis used by the dashboard cache
type ClientInterface interface {
	GetString(ctx context.Context, key string) (string, error)
	SetWithExpiration(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Increment(ctx context.Context, key string) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

// Client wraps the Redis client
type Client struct {
	*redis.Client
	retry resilience.RetryConfig
}

// NewRedisClient creates a new Redis client
func NewRedisClient(cfg *config.RedisConfig) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("unable to connect to redis: %w", err)
	}

	return NewFromClient(client), nil
}

// NewFromClient wraps an existing go-redis client
func NewFromClient(client *redis.Client) *Client {
	return &Client{Client: client, retry: ConservativeRetryConfig()}
}

// SetWithExpiration sets a key-value pair with expiration
func (c *Client) SetWithExpiration(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	_, err := resilience.Retry(ctx, c.retry, func(ctx context.Context) (interface{}, error) {
		return nil, c.Set(ctx, key, value, expiration).Err()
	})
	return err
}

// GetString gets a string value by key. A missing key returns redis.Nil.
func (c *Client) GetString(ctx context.Context, key string) (string, error) {
	result, err := resilience.Retry(ctx, c.retry, func(ctx context.Context) (interface{}, error) {
		return c.Get(ctx, key).Result()
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// Increment atomically increments a counter key
func (c *Client) Increment(ctx context.Context, key string) (int64, error) {
	return c.Incr(ctx, key).Result()
}

// Ping checks connectivity
func (c *Client) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

// Close closes the Redis client
func (c *Client) Close() error {
	return c.Client.Close()
}

// IsNil reports whether err means the key does not exist
func IsNil(err error) bool {
	return errors.Is(err, redis.Nil)
}

// ConservativeRetryConfig retries transient failures a couple of times
func ConservativeRetryConfig() resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxAttempts:      3,
		InitialBackoff:   50 * time.Millisecond,
		MaxBackoff:       1 * time.Second,
		Multiplier:       2,
		Jitter:           true,
		RetryableChecker: isRedisRetryable,
	}
}

var nonRetryablePrefixes = []string{
	"wrongtype", "err ", "noauth", "wrongpass", "noperm", "execabort",
}

func isRedisRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, redis.Nil) {
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, prefix := range nonRetryablePrefixes {
		if strings.HasPrefix(msg, prefix) {
			return false
		}
	}
	// connection, cluster and loading errors all fall through here
	return true
}
