package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestInit verifies logger initialization for different environments.
func TestInit(t *testing.T) {
	t.Run("Development", func(t *testing.T) {
		err := Init("development", "debug")
		require.NoError(t, err)
		require.NotNil(t, globalLogger.Load())
		assert.True(t, Get().Core().Enabled(zap.DebugLevel))
	})

	t.Run("Production", func(t *testing.T) {
		err := Init("production", "info")
		require.NoError(t, err)
		assert.False(t, Get().Core().Enabled(zap.DebugLevel))
		assert.True(t, Get().Core().Enabled(zap.InfoLevel))
	})

	t.Run("InvalidLevel", func(t *testing.T) {
		err := Init("development", "invalid_level")
		require.NoError(t, err)
	})
}

// TestGet verifies that Get never returns nil.
func TestGet(t *testing.T) {
	globalLogger.Store(nil)
	assert.NotNil(t, Get())

	require.NoError(t, Init("development", "info"))
	assert.NotNil(t, Get())
}

// TestSet verifies that a replaced logger receives entries, including named ones.
func TestSet(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	Set(zap.New(core))
	defer Set(nil)

	Get().Info("direct")
	Named("distance").Warn("scoped")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "direct", logs.All()[0].Message)
	assert.Equal(t, "distance", logs.All()[1].LoggerName)
}

// TestSync verifies that Sync does not panic even if logger is nil.
func TestSync(t *testing.T) {
	globalLogger.Store(nil)
	Sync()

	require.NoError(t, Init("development", "info"))
	Sync()
}
