package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	charmlog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	t.Run("Should return logger from context when present", func(t *testing.T) {
		expectedLogger := NewLogger(TestConfig())
		ctx := ContextWithLogger(t.Context(), expectedLogger)

		actualLogger := FromContext(ctx)

		require.NotNil(t, actualLogger)
		assert.Equal(t, expectedLogger, actualLogger)
	})

	t.Run("Should return default logger when no logger in context", func(t *testing.T) {
		logger := FromContext(t.Context())

		require.NotNil(t, logger)
	})

	t.Run("Should return default logger when wrong type in context", func(t *testing.T) {
		ctx := context.WithValue(t.Context(), LoggerCtxKey, "not a logger")

		logger := FromContext(ctx)

		require.NotNil(t, logger)
	})
}

func TestLogLevel_ToCharmlogLevel(t *testing.T) {
	t.Run("Should convert all log levels to charm log levels correctly", func(t *testing.T) {
		testCases := []struct {
			level    LogLevel
			expected charmlog.Level
		}{
			{DebugLevel, charmlog.DebugLevel},
			{InfoLevel, charmlog.InfoLevel},
			{WarnLevel, charmlog.WarnLevel},
			{ErrorLevel, charmlog.ErrorLevel},
			{LogLevel("bogus"), charmlog.InfoLevel},
		}
		for _, tc := range testCases {
			assert.Equal(t, tc.expected, tc.level.ToCharmlogLevel())
		}
	})
}

func TestNewLogger(t *testing.T) {
	t.Run("Should write structured output to the configured writer", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewLogger(&Config{Level: DebugLevel, Output: &buf, TimeFormat: "15:04:05"})

		log.Info("session opened", "role", "ROLE_ADMIN")

		out := buf.String()
		assert.Contains(t, out, "session opened")
		assert.Contains(t, out, "ROLE_ADMIN")
	})

	t.Run("Should respect the configured level", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewLogger(&Config{Level: ErrorLevel, Output: &buf, TimeFormat: "15:04:05"})

		log.Debug("hidden")
		log.Error("visible")

		assert.False(t, strings.Contains(buf.String(), "hidden"))
		assert.Contains(t, buf.String(), "visible")
	})

	t.Run("Should fall back to defaults for nil config", func(t *testing.T) {
		require.NotNil(t, NewLogger(nil))
	})
}

func TestSetupLogger(t *testing.T) {
	t.Run("Should build a logger for every known level", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "unknown"} {
			require.NotNil(t, SetupLogger(level, false, false))
		}
	})
}
