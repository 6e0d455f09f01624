// ABOUTME: Tests for logger construction and the color handler
// ABOUTME: Color output is disabled so lines can be matched as plain text

package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/solvedbot/internal/config"
)

func init() {
	color.NoColor = true
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for name, want := range tests {
		assert.Equal(t, want, ParseLevel(name), "level %q", name)
	}
}

func TestNew_TextFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.LoggingConfig{Level: "warn", Format: "text"}, &buf)

	logger.Info("quiet")
	logger.Warn("loud", "handle", "alice")

	out := buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "WRN loud")
	assert.Contains(t, out, " handle=alice")
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestNew_TextWithAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.LoggingConfig{Level: "debug", Format: "text"}, &buf).
		With("component", "store").
		WithGroup("db")

	logger.Debug("opened", "path", "db.sqlite3")

	line := buf.String()
	assert.Contains(t, line, "DBG opened")
	assert.Contains(t, line, " component=store")
	assert.Contains(t, line, " db.path=db.sqlite3")
	assert.Less(t, strings.Index(line, "component="), strings.Index(line, "db.path="))
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.LoggingConfig{Level: "info", Format: "json"}, &buf)

	logger.With("instance", "abc").Info("SQLite store initialized", "path", ":memory:")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "SQLite store initialized", record["msg"])
	assert.Equal(t, "INFO", record["level"])
	assert.Equal(t, "abc", record["instance"])
	assert.Equal(t, ":memory:", record["path"])
}

func TestColorHandler_ConcurrentWritesDoNotInterleave(t *testing.T) {
	var buf bytes.Buffer
	base := New(config.LoggingConfig{Level: "info"}, &buf)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			base.With("worker", i).Info("tick")
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 16)
	for _, line := range lines {
		assert.Contains(t, line, "INF tick worker=")
	}
}
