package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
}

func TestBuild_WritesJSONAndFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	l := build(&buf, "warn")

	l.Info().Msg("dropped")
	l.Warn().Str("bot_id", "BOT-01").Msg("low battery")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "low battery", line["message"])
	assert.Equal(t, "BOT-01", line["bot_id"])
	assert.Equal(t, "warehouse", line["app"])
}
