package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARNING"))
	assert.Equal(t, slog.LevelError, ParseLevel(" ERROR "))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNew_ErrorCarriesStack(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "INFO").With("sync_id", "abc")

	log.Debug("hidden")
	log.Info("synced table", "table", "items", "rows", 3)
	log.Error("sync table failed", "table", "rooms")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var info, failure map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &info))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &failure))

	assert.Equal(t, "items", info["table"])
	assert.Equal(t, "abc", info["sync_id"])
	assert.NotContains(t, info, "stacktrace")
	assert.Contains(t, failure["stacktrace"], "goroutine")
	assert.Equal(t, "abc", failure["sync_id"])
}
