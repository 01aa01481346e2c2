package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "info", "json")
	require.NoError(t, err)

	log.Debug().Msg("hidden")
	log.Info().Str("file", "a.csv").Msg("parsed")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"file":"a.csv"`)
	assert.Contains(t, out, `"message":"parsed"`)
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "debug", "console")
	require.NoError(t, err)

	log.Debug().Int("line", 4).Msg("skipping row")
	assert.Contains(t, buf.String(), "skipping row")
	assert.Contains(t, buf.String(), "line=4")
}

func TestNewInvalid(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "loud", "json")
	assert.Error(t, err)

	_, err = New(&bytes.Buffer{}, "info", "xml")
	assert.Error(t, err)
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "info", "json")
	require.NoError(t, err)

	ctx := WithContext(context.Background(), log)
	got := FromContext(ctx)
	got.Info().Msg("from context")
	assert.Contains(t, buf.String(), "from context")
}

func TestFromContextDefault(t *testing.T) {
	log := FromContext(context.Background())
	// Nop logger must not panic.
	log.Info().Msg("dropped")
}
