package diagnostics

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromError(t *testing.T) {
	d := FromError(Warn, LabelBuildFailed, "label build failed", errors.New("no glyphs"))
	assert.Equal(t, Warn, d.Severity)
	assert.Equal(t, "no glyphs", d.Detail)
	assert.False(t, d.Time.IsZero())

	assert.Empty(t, FromError(Info, DriverStarted, "started", nil).Detail)
}

func TestJSONOmitsEmpty(t *testing.T) {
	b, err := json.Marshal(New(Info, AudioPlaying, "playing"))
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "AUDIO.PLAYING", m["code"])
	assert.NotContains(t, m, "detail")
	assert.NotContains(t, m, "evidence")
}
