package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogLogger_JSONOutput(t *testing.T) {
	t.Setenv("ENV", "")

	var buf bytes.Buffer
	l := NewSlogWithWriter(&buf, InfoLevel, false)

	l.Debug("hidden")
	assert.Zero(t, buf.Len(), "debug must be filtered at info level")

	l.Info("command sent", "instruction", "Handshake", "length", 12)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "command sent", rec["msg"])
	assert.Equal(t, "Handshake", rec["instruction"])
	assert.EqualValues(t, 12, rec["length"])
	assert.Contains(t, rec, "ts")
}

func TestSlogLogger_SetLevel(t *testing.T) {
	t.Setenv("ENV", "")

	var buf bytes.Buffer
	l := NewSlogWithWriter(&buf, ErrorLevel, false)
	assert.Equal(t, ErrorLevel, l.Level())

	l.SetLevel(DebugLevel)
	assert.Equal(t, DebugLevel, l.Level())

	l.Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestSlogLogger_WithSharesLevel(t *testing.T) {
	t.Setenv("ENV", "")

	var buf bytes.Buffer
	parent := NewSlogWithWriter(&buf, WarnLevel, false)
	child := parent.With("port", "/dev/ttyUSB0")

	child.Info("dropped")
	assert.Zero(t, buf.Len())

	parent.SetLevel(InfoLevel)
	child.Info("kept")
	assert.Contains(t, buf.String(), `"port":"/dev/ttyUSB0"`)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want Level
	}{
		{"debug", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"fatal", FatalLevel},
		{"bogus", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.name))
		})
	}
}

func TestMockLogger(t *testing.T) {
	m := NewMockLogger()
	m.On("Warn", "timeout", []any{"instruction", "Search"}).Return()

	m.Warn("timeout", "instruction", "Search")

	m.AssertExpectations(t)
}

func TestSlogLogger_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogWithFormat(&buf, FormatConsole, DebugLevel, false)

	l.Debug("fragment", "received", 6)

	out := buf.String()
	assert.Contains(t, out, "fragment")
	assert.Contains(t, out, "received")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestSlogLogger_AutoFormatFollowsEnv(t *testing.T) {
	t.Setenv("ENV", "development")

	var buf bytes.Buffer
	NewSlogWithWriter(&buf, InfoLevel, false).Info("opened")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestSetDefault(t *testing.T) {
	prev := GetLogger()
	t.Cleanup(func() { SetDefault(prev) })

	m := NewMockLogger()
	m.On("Info", "hello", []any{"k", 1}).Return()
	m.On("With", []any{"a", "b"}).Return(nil)

	SetDefault(m)
	SetDefault(nil)
	require.Same(t, m, GetLogger())

	With("a", "b").Info("hello", "k", 1)
	m.AssertExpectations(t)
}

func TestDiscard(t *testing.T) {
	l := Discard()
	assert.Equal(t, FatalLevel, l.Level())
	l.Error("never written")
}
