package resilience

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// RetryConfig controls Retry
type RetryConfig struct {
	MaxAttempts      int
	InitialBackoff   time.Duration
	MaxBackoff       time.Duration
	Multiplier       float64
	Jitter           bool
	RetryableChecker func(err error) bool
}

// DefaultRetryConfig returns conservative defaults for remote store writes
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     2 * time.Second,
		Multiplier:     2,
		Jitter:         true,
	}
}

// Retry runs operation until it succeeds, returns a non-retryable error, the
// attempts are exhausted, or ctx is done.
func Retry(ctx context.Context, config RetryConfig, operation func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(calculateBackoff(config, attempt))
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}

		result, err := operation(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isRetryable(config, err) {
			return nil, err
		}
	}

	return nil, lastErr
}

func isRetryable(config RetryConfig, err error) bool {
	if errors.Is(err, ErrCircuitOpen) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if config.RetryableChecker != nil {
		return config.RetryableChecker(err)
	}
	return true
}

func calculateBackoff(config RetryConfig, attempt int) time.Duration {
	backoff := float64(config.InitialBackoff)
	multiplier := config.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}
	for i := 1; i < attempt; i++ {
		backoff *= multiplier
	}
	if config.MaxBackoff > 0 && backoff > float64(config.MaxBackoff) {
		backoff = float64(config.MaxBackoff)
	}
	if config.Jitter {
		backoff = backoff/2 + rand.Float64()*backoff/2
	}
	return time.Duration(backoff)
}
