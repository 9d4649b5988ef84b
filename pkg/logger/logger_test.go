package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInit_Environments(t *testing.T) {
	for _, env := range []string{"production", "staging", "development"} {
		require.NoError(t, Init("dashboard", env))
		assert.NotNil(t, Get())
	}
}

func TestInit_ProductionLevel(t *testing.T) {
	require.NoError(t, Init("devimport", "production"))
	assert.True(t, Get().Core().Enabled(zapcore.InfoLevel))
	assert.False(t, Get().Core().Enabled(zapcore.DebugLevel))
}

func TestCorrelationIDRoundTrip(t *testing.T) {
	ctx := ContextWithCorrelationID(context.Background(), "req-123")

	assert.Equal(t, "req-123", CorrelationIDFromContext(ctx))
	assert.Equal(t, "", CorrelationIDFromContext(context.Background()))
	assert.NotNil(t, WithContext(ctx))
}

func TestWithContextAndComponentFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := log
	log = zap.New(core)
	t.Cleanup(func() { log = prev })

	WithContext(ContextWithCorrelationID(context.Background(), "req-9")).Info("listed")
	WithComponent("csvimport").Warn("row skipped")

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "req-9", entries[0].ContextMap()["correlation_id"])
	assert.Equal(t, "csvimport", entries[1].ContextMap()["component"])
}
