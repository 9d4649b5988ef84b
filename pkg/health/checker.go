package health

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

// CheckerConfig configures dependency checks
type CheckerConfig struct {
	Timeout time.Duration
}

// DefaultCheckerConfig returns the default checker configuration
func DefaultCheckerConfig() CheckerConfig {
	return CheckerConfig{Timeout: 2 * time.Second}
}

// Pinger is anything that can report connectivity
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingChecker returns a health check function that runs ping with a deadline
func PingChecker(cfg CheckerConfig, ping func(ctx context.Context) error) func() error {
	return func() error {
		ctx := context.Background()
		if cfg.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()
		}
		return ping(ctx)
	}
}

// RedisChecker returns a health check function for Redis
func RedisChecker(client Pinger) func() error {
	return PingChecker(DefaultCheckerConfig(), client.Ping)
}

// FirestoreChecker returns a health check function that reads at most one
// document from collection
func FirestoreChecker(client *firestore.Client, collection string) func() error {
	return PingChecker(DefaultCheckerConfig(), func(ctx context.Context) error {
		iter := client.Collection(collection).Limit(1).Documents(ctx)
		defer iter.Stop()
		_, err := iter.Next()
		if err == nil || errors.Is(err, iterator.Done) {
			return nil
		}
		return err
	})
}
