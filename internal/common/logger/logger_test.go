package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleLevels(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "giveaway-engine", false, FormatConsole)

	Debug().Msg("hidden")
	Info().Str("giveaway_id", "g-1").Msg("visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
	assert.Contains(t, out, "giveaway_id:g-1")
	assert.Contains(t, out, "service:giveaway-engine")
}

func TestDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "giveaway-engine", true, "")

	Debug().Msg("details")
	assert.Contains(t, buf.String(), "details")
}

func TestJSONFormatAndGiveawayLogger(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "giveaway-engine", false, "JSON")

	l := Giveaway("g-7")
	l.Warn().Int("attempt", 3).Msg("save failed")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line), buf.String())
	assert.Equal(t, "g-7", line["giveaway_id"])
	assert.Equal(t, "giveaway-engine", line["service"])
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "save failed", line["message"])
	assert.Equal(t, float64(3), line["attempt"])
	assert.NotEmpty(t, line["timestamp"])
}
