package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "debug", false)
	t.Cleanup(func() { Init("info", false) })

	WithComponent("engine").Debug().Int("records", 3).Msg("aggregated")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "engine", entry["component"])
	assert.Equal(t, "debug", entry["level"])
	assert.EqualValues(t, 3, entry["records"])
}

func TestInitWriterUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "chatty", false)
	t.Cleanup(func() { Init("info", false) })

	L().Debug().Msg("hidden")
	assert.Empty(t, buf.String())
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf).With().Str("request_id", "abc").Logger()

	ctx := WithLogger(context.Background(), l)
	FromContext(ctx).Info().Msg("hello")
	assert.Contains(t, buf.String(), `"request_id":"abc"`)

	var global bytes.Buffer
	SetLogger(zerolog.New(&global))
	t.Cleanup(func() { Init("info", false) })
	FromContext(context.Background()).Info().Msg("global")
	assert.Contains(t, global.String(), `"message":"global"`)
}
