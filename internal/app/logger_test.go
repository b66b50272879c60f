package app

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SuramyaVimal/dag-cd/internal/config"
	"github.com/SuramyaVimal/dag-cd/internal/testutil"
)

func TestNewLogger(t *testing.T) {
	testCases := []struct {
		name      string
		level     string
		format    string
		wantDebug bool
		wantJSON  bool
	}{
		{name: "info text", level: "info", format: "text"},
		{name: "debug text", level: "debug", format: "text", wantDebug: true},
		{name: "warn json", level: "warn", format: "json", wantJSON: true},
		{name: "unknown level falls back to info", level: "loud", format: "text"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			settings := config.Default()
			settings.LogLevel = tc.level
			settings.LogFormat = tc.format
			buf := &testutil.SafeBuffer{}

			// --- Act ---
			logger := newLogger(settings, buf)
			logger.Debug("debug line")
			logger.Warn("warn line", "node_count", 3)

			// --- Assert ---
			out := buf.String()
			assert.Equal(t, tc.wantDebug, strings.Contains(out, "debug line"))
			require.Contains(t, out, "warn line")
			if tc.wantJSON {
				var record map[string]any
				require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &record))
				assert.Equal(t, "dagcd", record["app"])
				assert.Equal(t, float64(3), record["node_count"])
			} else {
				assert.Contains(t, out, "app=dagcd")
			}
		})
	}
}
