package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T, l slog.Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut := SetOutput(&buf)
	prevLevel := GetLevel()
	SetLevel(l)
	t.Cleanup(func() {
		SetOutput(prevOut)
		SetLevel(prevLevel)
	})
	return &buf
}

func TestSetLevel(t *testing.T) {
	prev := GetLevel()
	defer SetLevel(prev)

	SetLevel(LevelDebug)
	assert.Equal(t, LevelDebug, GetLevel())

	SetLevel(LevelError)
	assert.Equal(t, LevelError, GetLevel())
}

func TestDebugSuppressedAtWarn(t *testing.T) {
	buf := capture(t, LevelWarn)

	Debug("hidden %d", 1)
	Info("hidden %d", 2)
	assert.Empty(t, buf.String())

	Warn("shown %s", "warn")
	assert.Equal(t, "[WARN] shown warn\n", buf.String())
}

func TestDebugEmittedAtDebug(t *testing.T) {
	buf := capture(t, LevelDebug)

	Debug("fetching %s", "catalog")
	assert.Equal(t, "[DEBUG] fetching catalog\n", buf.String())
}

func TestErrorAlwaysEmitted(t *testing.T) {
	buf := capture(t, LevelError)

	Warn("hidden")
	Error("boom")
	assert.Equal(t, "[ERROR] boom\n", buf.String())
}

func TestSetOutputNilDiscards(t *testing.T) {
	prev := SetOutput(nil)
	defer SetOutput(prev)

	Error("nowhere")
}
