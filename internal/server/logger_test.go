package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCoreLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewCoreLogger(zap.New(core))

	l.Info("GET %s", "/api/3.21/sites/s1/datasources")
	l.Debug("headers: %v", "redacted")
	l.Error("failed: %d", 500)

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "GET /api/3.21/sites/s1/datasources", entries[0].Message)
	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
	assert.Equal(t, "failed: 500", entries[2].Message)
	assert.Equal(t, "tableau", entries[0].ContextMap()["component"])
}
