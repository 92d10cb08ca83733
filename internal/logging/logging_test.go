package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/nikbrunner/placemarks/internal/logging"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"loud":    slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, logging.ParseLevel(in), want, "level %q", in)
	}
}

func TestNew_JSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: "warn", Format: "json", Output: &buf})

	logger.Info("hidden")
	logger.Warn("provider switched", "to", "cached")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Assert(t, is.Len(lines, 1))

	var entry map[string]any
	assert.NilError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, entry["msg"], "provider switched")
	assert.Equal(t, entry["to"], "cached")
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{Format: "text", Output: &buf})

	logger.Info("loaded", "files", 2)
	assert.Assert(t, is.Contains(buf.String(), "msg=loaded files=2"))
}

func TestOpenFile_CreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "placemarks.log")

	f, err := logging.OpenFile(path)
	assert.NilError(t, err)
	logger := logging.New(logging.Config{Format: "text", Output: f})
	logger.Info("hello")
	assert.NilError(t, f.Close())

	data, err := os.ReadFile(path)
	assert.NilError(t, err)
	assert.Assert(t, is.Contains(string(data), "msg=hello"))
}
