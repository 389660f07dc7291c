package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(t *testing.T, level LogLevel, format LogFormat) (*StructuredLogger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	logger, err := NewStructuredLogger(DefaultConfig().WithLevel(level).WithFormat(format).WithOutput(buf))
	require.NoError(t, err)
	return logger, buf
}

func TestStructuredLogger_JSONOutput(t *testing.T) {
	logger, buf := newBufferLogger(t, LevelInfo, FormatJSON)
	ctx := WithRequestID(context.Background(), "req_test_1")

	logger.Info(ctx, "Installed price series", Fields{FieldRegion: "FI", "points": 96})

	var entry LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, LevelInfo, entry.Level)
	assert.Equal(t, "Installed price series", entry.Message)
	assert.Equal(t, "req_test_1", entry.RequestID)
	assert.Equal(t, "spothinta", entry.Service)
	assert.Equal(t, "FI", entry.Fields[FieldRegion])
}

func TestStructuredLogger_LevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(t, LevelWarn, FormatJSON)
	ctx := context.Background()

	logger.Debug(ctx, "not emitted", nil)
	logger.Info(ctx, "not emitted", nil)
	assert.Zero(t, buf.Len())

	logger.Warn(ctx, "emitted", nil)
	logger.Error(ctx, "emitted", nil)
	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))
}

func TestStructuredLogger_SetLevel(t *testing.T) {
	logger, buf := newBufferLogger(t, LevelError, FormatJSON)

	logger.Info(context.Background(), "dropped", nil)
	assert.Zero(t, buf.Len())

	logger.SetLevel(LevelDebug)
	logger.Debug(context.Background(), "now visible", nil)
	assert.NotZero(t, buf.Len())
}

func TestStructuredLogger_ErrorEnrichment(t *testing.T) {
	logger, buf := newBufferLogger(t, LevelInfo, FormatJSON)

	logger.ErrorWithError(context.Background(), "Fetch failed", errors.New("connection refused"), Fields{FieldRegion: "SE3"})

	var entry LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "connection refused", entry.Fields[FieldError])
	assert.Equal(t, "SE3", entry.Fields[FieldRegion])
	assert.NotEmpty(t, entry.Fields[FieldErrorType])
}

func TestStructuredLogger_TextFormat(t *testing.T) {
	logger, buf := newBufferLogger(t, LevelInfo, FormatText)
	ctx := WithRequestID(context.Background(), "req_test_2")

	logger.Info(ctx, "HTTP request completed", Fields{FieldStatusCode: 200})

	line := buf.String()
	assert.Contains(t, line, "[INFO]")
	assert.Contains(t, line, "req:req_test_2")
	assert.Contains(t, line, "HTTP request completed")
	assert.Contains(t, line, `"status_code":200`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, LevelInfo, ParseLevel("bogus"))
}

func TestGenerateRequestID(t *testing.T) {
	first := GenerateRequestID()
	second := GenerateRequestID()

	assert.True(t, strings.HasPrefix(first, "req_"))
	assert.NotEqual(t, first, second)
}
