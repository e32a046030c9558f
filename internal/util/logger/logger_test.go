package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseConfig(t *testing.T) {
	cfg := ParseConfig("core/h2pool=debug, core/negotiator=error,warn", "json")

	assert.Equal(t, slog.LevelWarn, cfg.DefaultLevel)
	assert.Equal(t, slog.LevelDebug, cfg.LevelFor("core/h2pool"))
	assert.Equal(t, slog.LevelError, cfg.LevelFor("core/negotiator"))
	assert.Equal(t, slog.LevelWarn, cfg.LevelFor("core/settings"))
	assert.Equal(t, FormatJSON, cfg.Format)
}

func TestParseConfig_IgnoresUnknownLevels(t *testing.T) {
	cfg := ParseConfig("core/h2pool=loud,verbose", "")

	assert.Equal(t, slog.LevelInfo, cfg.DefaultLevel)
	assert.Empty(t, cfg.ComponentLevels)
	assert.Equal(t, FormatText, cfg.Format)
}

func TestNew_ComponentLevels(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(buf, ParseConfig("core/h2pool=debug,warn", ""))

	l.With("component", "core/h2pool").Debug("pooled")
	l.With("component", "core/settings").Info("dropped")
	l.With("component", "core/settings").Warn("kept")

	out := buf.String()
	assert.Contains(t, out, "pooled")
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")
	assert.Contains(t, out, "ts=")
}
