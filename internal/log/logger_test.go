package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_TextIncludesComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Component: ComponentStore, Writer: &buf})
	l.Info("payments replaced", FieldCount, 3)

	out := buf.String()
	assert.Contains(t, out, "component=store")
	assert.Contains(t, out, "count=3")
	assert.Contains(t, out, "payments replaced")
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelDebug, Format: "json", Writer: &buf})
	l.WithComponent(ComponentImporter).Debug("sheet scanned", FieldSheet, "Q1")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "sheet scanned", rec["msg"])
	assert.Equal(t, "Q1", rec[FieldSheet])
	assert.Equal(t, ComponentImporter, rec[FieldComponent])
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelWarn, Writer: &buf})
	l.Info("hidden")
	assert.Empty(t, buf.String())
	l.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestWithComponent(t *testing.T) {
	l := New(Config{Writer: &bytes.Buffer{}})
	assert.Equal(t, ComponentApp, l.Component())
	assert.Equal(t, ComponentStore, l.WithComponent(ComponentStore).Component())
	assert.Equal(t, ComponentApp, l.With("k", "v").Component())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error("nothing")
	assert.False(t, l.Enabled(t.Context(), slog.LevelError))
}
