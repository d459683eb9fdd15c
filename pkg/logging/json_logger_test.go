package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEntries(t *testing.T, data []byte) []LogEntry {
	t.Helper()
	var entries []LogEntry
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		var e LogEntry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
		entries = append(entries, e)
	}
	return entries
}

func TestJSONLogger_WritesEntries(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, LevelDebug)

	logger.Info("test passed", StringField("test", "mul"))
	logger.Debug("case evaluated", IntField("case", 2))

	entries := decodeEntries(t, buf.Bytes())
	require.Len(t, entries, 2)
	assert.Equal(t, "INFO", entries[0].Level)
	assert.Equal(t, "test passed", entries[0].Message)
	assert.Equal(t, "mul", entries[0].Fields["test"])
	assert.Equal(t, "DEBUG", entries[1].Level)
	assert.Equal(t, float64(2), entries[1].Fields["case"])

	_, err := time.Parse(time.RFC3339Nano, entries[0].Timestamp)
	assert.NoError(t, err)
}

func TestJSONLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, LevelError)

	logger.Info("dropped")
	logger.Warn("dropped")
	logger.Error("kept")

	entries := decodeEntries(t, buf.Bytes())
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0].Message)
}

func TestJSONLogger_WithFieldsSharesOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, LevelInfo)

	child := logger.WithFields(StringField("session", "abc"))
	child.Info("from child")
	logger.Info("from parent")

	entries := decodeEntries(t, buf.Bytes())
	require.Len(t, entries, 2)
	assert.Equal(t, "abc", entries[0].Fields["session"])
	assert.Nil(t, entries[1].Fields["session"])
}

func TestJSONLogger_MarshalError(t *testing.T) {
	orig := jsonMarshal
	defer func() { jsonMarshal = orig }()
	jsonMarshal = func(any) ([]byte, error) {
		return nil, errors.New("boom")
	}

	var buf bytes.Buffer
	NewJSONLogger(&buf, LevelInfo).Info("lost")
	assert.Empty(t, buf.String())
}

func TestJSONLogger_CloseStopsOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, LevelInfo)

	require.NoError(t, logger.Close())
	require.NoError(t, logger.Close())
	logger.Info("after close")
	assert.Empty(t, buf.String())
}

func TestOpenJSONLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "probe.log")

	logger, err := OpenJSONLogger(path, LevelInfo)
	require.NoError(t, err)
	logger.Info("to file")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	entries := decodeEntries(t, data)
	require.Len(t, entries, 1)
	assert.Equal(t, "to file", entries[0].Message)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{" error ", LevelError, false},
		{"verbose", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogLevel_String(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}
