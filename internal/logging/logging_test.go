package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		assert.NilError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.ErrorContains(t, err, "unknown log level")
}

func TestSetupLoggerConsoleOnly(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := SetupLogger(Options{Level: "warn", Output: &buf})
	assert.NilError(t, err)
	defer closeFn()

	logger.Info("hidden")
	logger.Warn("shown", "table", "users")

	out := buf.String()
	assert.Check(t, !bytes.Contains(buf.Bytes(), []byte("hidden")))
	assert.Check(t, is.Contains(out, "msg=shown"))
	assert.Check(t, is.Contains(out, "table=users"))
}

func TestMultiHandlerFansOut(t *testing.T) {
	var debug, errs bytes.Buffer
	multi := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&errs, &slog.HandlerOptions{Level: slog.LevelError}),
	}}
	logger := slog.New(multi).With("trace_id", "t-1")

	logger.Debug("step")
	logger.Error("boom")

	assert.Check(t, is.Contains(debug.String(), "msg=step"))
	assert.Check(t, is.Contains(debug.String(), "msg=boom"))
	assert.Check(t, !bytes.Contains(errs.Bytes(), []byte("msg=step")))
	assert.Check(t, is.Contains(errs.String(), "trace_id=t-1"))
}
