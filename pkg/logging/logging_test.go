package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   DEBUG,
		" DEBUG ": DEBUG,
		"warning": WARN,
		"error":   ERROR,
		"":        INFO,
		"bogus":   INFO,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "input %q", in)
	}
}

func TestGetLogger_TagsRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := FromZap(zap.New(core))

	ctx := WithRequestID(context.Background(), "req-1")
	l, ctx := base.GetLogger(ctx)
	l.Info("hello")

	again, _ := base.GetLogger(ctx)
	assert.Same(t, l, again, "logger is cached in the context")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-1", entries[0].ContextMap()["request_id"])
}

func TestGetLogger_NoRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l, _ := FromZap(zap.New(core)).GetLogger(context.Background())

	l.Warn("w")
	l.Debug("dropped")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "no-request-id", logs.All()[0].ContextMap()["request_id"])
}

func TestEnabled(t *testing.T) {
	core, _ := observer.New(zapcore.WarnLevel)
	l := FromZap(zap.New(core))

	assert.False(t, l.Enabled(DEBUG))
	assert.True(t, l.Enabled(ERROR))
}

func TestNewRequestID(t *testing.T) {
	a, b := NewRequestID(), NewRequestID()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
}
