package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledcode-go/types"
	"ledcode-go/x/jsonx"
)

func TestDefaultConfig(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.Strip.Pixels)
	assert.Equal(t, 2, cfg.Sim.CellWidth)
	assert.NotContains(t, cfg.raw, "sim")

	boot, err := jsonx.Decode[types.LEDBootConfig](cfg.raw["led"])
	require.NoError(t, err)
	require.NotNil(t, boot.Brightness)
	assert.Equal(t, uint8(200), *boot.Brightness)
	assert.Equal(t, "linear_padding", boot.GradientMode)
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parseConfig([]byte("strip:\n  dual: true\n  interleaved: true\n"))
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.Strip.Pixels)
	assert.Equal(t, 1, cfg.Sim.CellWidth)
	assert.True(t, cfg.Strip.Interleaved)
	assert.Empty(t, cfg.Sim.StateDir)

	_, err = parseConfig([]byte("strip: [unclosed"))
	assert.Error(t, err)
}
