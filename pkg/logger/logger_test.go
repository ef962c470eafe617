package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(level Level) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return New(Options{Output: buf, Level: level}), buf
}

func TestLogger_WritesJSONEntry(t *testing.T) {
	log, buf := testLogger(LevelInfo)

	log.Info("partner saved", PartnerID("p-1"), Bool("geocoded", true))

	var entry LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "partner saved", entry.Message)
	assert.Equal(t, "p-1", entry.Fields["partner_id"])
	assert.Equal(t, true, entry.Fields["geocoded"])
}

func TestLogger_LevelFiltersLowerSeverities(t *testing.T) {
	log, buf := testLogger(LevelWarn)

	log.Debug("noise")
	log.Info("noise")
	assert.Zero(t, buf.Len())

	log.Error("db down", Err(errors.New("connection refused")))
	var entry LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "connection refused", entry.Fields["error"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel(" WARNING "))
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
}
