package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogDispatch(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})).
		WithDevice("cpu").
		WithKernel("by-abs")

	l.LogDispatch(context.Background(), "sort", "bitonic", 8, nil)
	out := buf.String()
	assert.Contains(t, out, "dispatch completed")
	assert.Contains(t, out, "algorithm=sort")
	assert.Contains(t, out, "variant=bitonic")
	assert.Contains(t, out, "n=8")
	assert.Contains(t, out, "device=cpu")
	assert.Contains(t, out, "kernel=by-abs")

	buf.Reset()
	l.LogDispatch(context.Background(), "reduce", "group", 3, errors.New("device lost"))
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), `error="device lost"`)
}

func TestLogDispatch_InfoLevelHidesDebug(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	l.LogDispatch(context.Background(), "sort", "sequential", 7, nil)
	assert.Empty(t, buf.String())
}

func TestNoopLogger(t *testing.T) {
	l := NoopLogger()
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
}
