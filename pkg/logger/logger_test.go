package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLogger_WritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithWriter(&buf, "debug", "json")

	log.With("conversation_id", "c1").Error("falha ao salvar", "error", errors.New("boom"), "attempt", 2)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "falha ao salvar", entry["message"])
	assert.Equal(t, "c1", entry["conversation_id"])
	assert.Equal(t, "boom", entry["error"])
	assert.EqualValues(t, 2, entry["attempt"])
}

func TestZerologLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithWriter(&buf, "warn", "json")

	log.Info("ignorado")
	log.Debug("ignorado")
	assert.Empty(t, buf.String())

	log.Warn("registrado", "odd")
	assert.Contains(t, buf.String(), `"odd":"(MISSING)"`)
}

func TestNewLoggerWithWriter_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithWriter(&buf, "verbose", "json")

	log.Debug("ignorado")
	assert.Empty(t, buf.String())

	log.Info("registrado")
	assert.NotEmpty(t, buf.String())
}
