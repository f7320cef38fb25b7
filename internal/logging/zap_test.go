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

func TestZapLogger_FieldsAndLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapLogger(zap.New(core)).With("module", "documents")
	ctx := context.Background()

	log.Debug(ctx, "hash computed", "hash", "abc")
	log.Warn(ctx, "orphaned object", "key", "u1/doc.pdf")

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "hash computed", entries[0].Message)
	assert.Equal(t, "documents", entries[0].ContextMap()["module"])
	assert.Equal(t, "abc", entries[0].ContextMap()["hash"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "u1/doc.pdf", entries[1].ContextMap()["key"])
}

func TestNew_Backends(t *testing.T) {
	l, err := New("slog", "info")
	require.NoError(t, err)
	assert.IsType(t, &SlogLogger{}, l)

	l, err = New("zap", "debug")
	require.NoError(t, err)
	assert.IsType(t, &ZapLogger{}, l)

	_, err = New("logrus", "info")
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	l := Nop().With("k", "v")
	l.Info(context.Background(), "ignored")
}
