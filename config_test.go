package msgame

import (
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 600, cfg.Width)
	assert.Equal(t, 400, cfg.Height)
	assert.Equal(t, 60, cfg.FPS)
	assert.Equal(t, 0.3, cfg.DblClickDuration)
	assert.Equal(t, 10*time.Millisecond, cfg.LoadPollInterval)
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(`
title: Runner
height: 600
fps: 30
load_poll_interval: 25ms
volume_level: 0.5
background: "#203040"
`))
	require.NoError(t, err)
	assert.Equal(t, "Runner", cfg.Title)
	assert.Equal(t, 600, cfg.Width, "kept default")
	assert.Equal(t, 600, cfg.Height)
	assert.Equal(t, 30, cfg.FPS)
	assert.Equal(t, 25*time.Millisecond, cfg.LoadPollInterval)
	assert.Equal(t, 0.5, cfg.VolumeLevel)
}

func TestLoadConfigEmpty(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigRejects(t *testing.T) {
	tests := map[string]string{
		"unknown field": "speed: 3\n",
		"bad fps":       "fps: 0\n",
		"bad volume":    "volume_level: 2\n",
		"bad color":     "background: not-a-color\n",
		"bad yaml":      "width: [\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	fsys := fstest.MapFS{"game.yaml": {Data: []byte("title: Tiles\n")}}
	cfg, err := LoadConfigFile(fsys, "game.yaml")
	require.NoError(t, err)
	assert.Equal(t, "Tiles", cfg.Title)

	_, err = LoadConfigFile(fsys, "missing.yaml")
	assert.Error(t, err)
}
