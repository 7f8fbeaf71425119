package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"kumaydet/internal/config"
)

func TestNew(t *testing.T) {
	t.Run("production default", func(t *testing.T) {
		logger, err := New(config.LoggingConfig{Level: "info"})
		require.NoError(t, err)
		assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
		assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	})

	t.Run("debug mode", func(t *testing.T) {
		logger, err := New(config.LoggingConfig{Debug: true})
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("warn level", func(t *testing.T) {
		logger, err := New(config.LoggingConfig{Level: "warn"})
		require.NoError(t, err)
		assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	})

	t.Run("unknown level", func(t *testing.T) {
		_, err := New(config.LoggingConfig{Level: "loud"})
		assert.Error(t, err)
	})
}
