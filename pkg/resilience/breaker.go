package resilience

import (
	"context"
	"errors"

	"github.com/richxcame/devcert-dashboard/pkg/logger"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ErrCircuitOpen is returned when the breaker rejects a call
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreaker wraps gobreaker with context awareness and Prometheus metrics
type CircuitBreaker struct {
	name string
	cb   *gobreaker.CircuitBreaker
}

// NewCircuitBreaker creates a breaker from settings
func NewCircuitBreaker(settings Settings) *CircuitBreaker {
	settings = settings.normalized()
	name := settings.Name
	failureThreshold := settings.FailureThreshold

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: settings.SuccessThreshold,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failureThreshold
		},
		IsSuccessful: func(err error) bool {
			// a cancelled caller says nothing about the health of the backend
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			observeTransition(name, to)
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	observeState(name, gobreaker.StateClosed)

	return &CircuitBreaker{name: name, cb: cb}
}

// Name returns the breaker name
func (b *CircuitBreaker) Name() string {
	return b.name
}

// State returns the current breaker state as a string
func (b *CircuitBreaker) State() string {
	return b.cb.State().String()
}

// Execute runs operation through the breaker. Open and half-open rejections
// are reported as ErrCircuitOpen.
func (b *CircuitBreaker) Execute(ctx context.Context, operation func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := b.cb.Execute(func() (interface{}, error) {
		return operation(ctx)
	})
	if err == nil {
		observeCall(b.name, outcomeSuccess)
		return result, nil
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		observeCall(b.name, outcomeRejected)
		return nil, ErrCircuitOpen
	}

	observeCall(b.name, outcomeFailure)
	return nil, err
}
