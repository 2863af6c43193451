package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestSetupWriter(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	lvl := SetupWriter(&buf, "warn", false)
	assert.Equal(t, zerolog.WarnLevel, lvl)

	log.Info().Msg("hidden")
	log.Warn().Str("symbol", "AAPL").Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"symbol":"AAPL"`)
}

func TestSetupWriter_UnknownLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	assert.Equal(t, zerolog.InfoLevel, SetupWriter(&buf, "loud", true))
	assert.Equal(t, zerolog.InfoLevel, SetupWriter(&buf, "", true))
}
