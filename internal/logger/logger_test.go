package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	log := Component(New(&buf, "debug", "json"), "college_service")

	log.Info().Str("college_code", "CCS").Msg("College added")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "college_service", entry["component"])
	assert.Equal(t, "CCS", entry["college_code"])
	assert.Equal(t, "College added", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNew_LevelFiltersOnlyThisLogger(t *testing.T) {
	var quiet, loud bytes.Buffer
	quietLog := New(&quiet, "warn", "json")
	quietLog.Info().Msg("dropped")
	loudLog := New(&loud, "debug", "json")
	loudLog.Debug().Msg("kept")

	assert.Empty(t, quiet.String())
	assert.Contains(t, loud.String(), "kept")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel(" DEBUG "))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("chatty"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
}
