package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", DebugLevel, false},
		{"INFO", InfoLevel, false},
		{"", InfoLevel, false},
		{"warning", WarnLevel, false},
		{" error ", ErrorLevel, false},
		{"verbose", InfoLevel, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			require.Error(t, err, tt.in)
		} else {
			require.NoError(t, err, tt.in)
		}
		require.Equal(t, tt.want, got, tt.in)
	}
}

func TestStructuredLoggerWritesContextValues(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger("movie-ratings", "1.0.0", InfoLevel)
	logger.SetOutput(&buf)

	ctx := WithView(WithRequestID(context.Background(), "req-1"), "ratings_statistics")
	logger.WithFields(Fields{"component": "views"}).Error(ctx, "[VIEW_ERROR] render failed", Fields{"rows": 3}, errors.New("boom"))

	var entry LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "ERROR", entry.Level)
	require.Equal(t, "req-1", entry.RequestID)
	require.Equal(t, "ratings_statistics", entry.View)
	require.Equal(t, "boom", entry.Error)
	require.Equal(t, "views", entry.Fields["component"])
	require.EqualValues(t, 3, entry.Fields["rows"])
	require.NotEmpty(t, entry.File)
}

func TestStructuredLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger("movie-ratings", "1.0.0", WarnLevel)
	logger.SetOutput(&buf)

	logger.Info(context.Background(), "dropped", nil)
	require.Zero(t, buf.Len())

	logger.SetLevel(DebugLevel)
	logger.Debug(context.Background(), "kept", nil)
	require.Contains(t, buf.String(), `"message":"kept"`)
}

func TestRequestIDFromEmptyContext(t *testing.T) {
	require.Equal(t, "", RequestIDFrom(context.Background()))
}
