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
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("desconocido"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
}

func TestComponent_FieldsAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{App: "distribuidora-api", Env: "production", Level: "warn", Out: &buf})

	sales := l.Component("sales")
	sales.Info().Msg("filtrado por nivel")
	assert.Zero(t, buf.Len())

	sales.Warn().Str("order_id", "o-1").Msg("transición rechazada")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "distribuidora-api", entry["app"])
	assert.Equal(t, "sales", entry["component"])
	assert.Equal(t, "o-1", entry["order_id"])
	assert.Equal(t, "warn", entry["level"])
}
