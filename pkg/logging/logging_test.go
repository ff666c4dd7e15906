package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"WARN":    zapcore.WarnLevel,
		" error ": zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}

	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestLogger_KeyValues(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := newWithCore(core).With("component", "scheduler")

	log.Warn("category refresh failed", "category", "DevOps", "attempt", 2)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "category refresh failed", entries[0].Message)
	assert.Equal(t, map[string]any{
		"component": "scheduler",
		"category":  "DevOps",
		"attempt":   int64(2),
	}, entries[0].ContextMap())
}
