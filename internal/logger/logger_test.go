package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"TRACE", LevelDebug, false},
		{"info", LevelInfo, false},
		{"", LevelInfo, false},
		{"Warning", LevelWarn, false},
		{"error", LevelError, false},
		{"off", LevelNone, false},
		{"loud", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false, false)

	log.Debug("hidden %d", 1)
	log.Info("shown %d", 2)
	log.WithLevel(LevelError)
	log.Warn("hidden %d", 3)
	log.Error("shown %d", 4)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INFO] shown 2")
	assert.Contains(t, out, "ERROR] shown 4")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestSetLevelUnknownFallsBackToInfo(t *testing.T) {
	log := New(&bytes.Buffer{}, true, false)
	require.Equal(t, LevelDebug, log.Level())

	log.SetLevel("nonsense")
	assert.Equal(t, LevelInfo, log.Level())
	assert.True(t, log.Enabled(LevelWarn))
	assert.False(t, log.Enabled(LevelDebug))
}
