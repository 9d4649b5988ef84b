package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakePinger struct {
	err   error
	delay time.Duration
}

func (f fakePinger) Ping(ctx context.Context) error {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return f.err
}

func TestDefaultCheckerConfig(t *testing.T) {
	assert.Equal(t, 2*time.Second, DefaultCheckerConfig().Timeout)
}

func TestRedisChecker(t *testing.T) {
	assert.NoError(t, RedisChecker(fakePinger{})())

	down := errors.New("connection refused")
	assert.ErrorIs(t, RedisChecker(fakePinger{err: down})(), down)
}

func TestPingChecker_Timeout(t *testing.T) {
	check := PingChecker(CheckerConfig{Timeout: 10 * time.Millisecond}, fakePinger{delay: time.Second}.Ping)

	assert.ErrorIs(t, check(), context.DeadlineExceeded)
}

func TestPingChecker_NoTimeout(t *testing.T) {
	check := PingChecker(CheckerConfig{}, fakePinger{}.Ping)

	assert.NoError(t, check())
}
