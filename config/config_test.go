package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 60.0, cfg.TickRate)
	assert.Equal(t, 1200, cfg.FlightDurationMs)
	assert.InDelta(t, 0.6, cfg.SelectionZoom, 1e-6)
	assert.Equal(t, "Venue Walkthrough", cfg.Window.Title)
	assert.Equal(t, "ACESFilmic", cfg.Render.ToneMapping)
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
assetUrl: https://cdn.example.com/venue.glb
tickRate: 30
tunerAddr: "localhost:9000"
startView: top view
window:
  title: Club Preview
  width: 1920
  height: 1080
render:
  toneMapping: Reinhard
  bloomStrength: 0.8
lights:
  - keyword: purple
    intensity: 12
    color: "#4700ff"
    distance: 50
    visible: true
`))
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/venue.glb", cfg.AssetURL)
	assert.Equal(t, 30.0, cfg.TickRate)
	assert.Equal(t, "localhost:9000", cfg.TunerAddr)
	assert.Equal(t, "top view", cfg.StartView)
	assert.Equal(t, "Club Preview", cfg.Window.Title)
	assert.Equal(t, 1920, cfg.Window.Width)
	assert.Equal(t, "Reinhard", cfg.Render.ToneMapping)
	assert.InDelta(t, 0.8, cfg.Render.BloomStrength, 1e-6)

	// Untouched fields keep defaults.
	assert.Equal(t, 1200, cfg.FlightDurationMs)
	assert.InDelta(t, 0.6, cfg.SelectionZoom, 1e-6)

	require.Len(t, cfg.Lights, 1)
	assert.Equal(t, "purple", cfg.Lights[0].Keyword)
	assert.InDelta(t, 12.0, cfg.Lights[0].Intensity, 1e-6)
}

func TestParseAnchors(t *testing.T) {
	cfg, err := Parse([]byte(`
anchors:
  balcony view:
    position: [0, 8, 12]
    target: [0, 2, 0]
`))
	require.NoError(t, err)
	require.Contains(t, cfg.Anchors, "balcony view")
	assert.Equal(t, [3]float32{0, 8, 12}, cfg.Anchors["balcony view"].Position)
	assert.Equal(t, [3]float32{0, 2, 0}, cfg.Anchors["balcony view"].Target)
}

func TestParseIgnoresUnknownFields(t *testing.T) {
	cfg, err := Parse([]byte("futureFeature: true\ntickRate: 24\n"))
	require.NoError(t, err)
	assert.Equal(t, 24.0, cfg.TickRate)
}

func TestParseRestoresFloorsForInvalidValues(t *testing.T) {
	cfg, err := Parse([]byte("tickRate: -5\nselectionZoom: 0\nwindow:\n  width: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 60.0, cfg.TickRate)
	assert.InDelta(t, 0.6, cfg.SelectionZoom, 1e-6)
	assert.Equal(t, 1280, cfg.Window.Width)
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("window: [unclosed"))
	assert.Error(t, err)
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walkview.yaml")
	require.NoError(t, os.WriteFile(path, []byte("assetUrl: venue.glb\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "venue.glb", cfg.AssetURL)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
