package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WindowConfig sets the platform window placement and title.
type WindowConfig struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	MinWidth  int    `yaml:"minWidth"`
	MinHeight int    `yaml:"minHeight"`
	MaxWidth  int    `yaml:"maxWidth"`
	MaxHeight int    `yaml:"maxHeight"`
}

// RenderConfig sets the initial post-processing state. The live values are
// adjusted afterwards through the tuning panel.
type RenderConfig struct {
	Exposure         float32 `yaml:"exposure"`
	ToneMapping      string  `yaml:"toneMapping"`
	BloomStrength    float32 `yaml:"bloomStrength"`
	VignetteStrength float32 `yaml:"vignetteStrength"`
	OutlineStrength  float32 `yaml:"outlineStrength"`
}

// LightOverride replaces the tunable parameters of every light whose name
// contains the keyword, overriding the built-in name presets.
type LightOverride struct {
	Keyword   string  `yaml:"keyword"`
	Intensity float32 `yaml:"intensity"`
	Color     string  `yaml:"color"` // "#rrggbb"
	Distance  float32 `yaml:"distance"`
	Decay     float32 `yaml:"decay"`
	Angle     float32 `yaml:"angle"`
	Penumbra  float32 `yaml:"penumbra"`
	Visible   bool    `yaml:"visible"`
}

// AnchorConfig defines an extra named camera anchor, merged over the anchors
// found in the model.
type AnchorConfig struct {
	Position [3]float32 `yaml:"position"`
	Target   [3]float32 `yaml:"target"`
}

// Config is the viewer configuration file.
type Config struct {
	// AssetURL is the venue model source, either an http(s) URL or a local
	// file path.
	AssetURL string `yaml:"assetUrl"`

	// TickRate is the simulation tick rate in ticks per second.
	TickRate float64 `yaml:"tickRate"`

	// FlightDurationMs is the camera flight length in milliseconds.
	FlightDurationMs int `yaml:"flightDurationMs"`

	// SelectionZoom is the radius multiplier applied when framing a selected
	// group. Values below 1 move the camera closer.
	SelectionZoom float32 `yaml:"selectionZoom"`

	// TunerAddr is the tuning panel listen address. Empty disables the panel.
	TunerAddr string `yaml:"tunerAddr"`

	// StartView is the camera anchor flown to after loading. Empty keeps the
	// model's default pose.
	StartView string `yaml:"startView"`

	Window  WindowConfig            `yaml:"window"`
	Render  RenderConfig            `yaml:"render"`
	Lights  []LightOverride         `yaml:"lights"`
	Anchors map[string]AnchorConfig `yaml:"anchors"`
}

// Default returns the configuration used when no file is provided.
//
// Returns:
//   - *Config: the default configuration
func Default() *Config {
	return &Config{
		TickRate:         60,
		FlightDurationMs: 1200,
		SelectionZoom:    0.6,
		Window: WindowConfig{
			Title:     "Venue Walkthrough",
			Width:     1280,
			Height:    720,
			MinWidth:  600,
			MinHeight: 200,
			MaxWidth:  1600,
			MaxHeight: 1200,
		},
		Render: RenderConfig{
			Exposure:    1.0,
			ToneMapping: "ACESFilmic",
		},
	}
}

// Load reads a YAML configuration file. Fields absent from the file keep
// their defaults; unknown fields are ignored.
//
// Parameters:
//   - path: the configuration file path
//
// Returns:
//   - *Config: the loaded configuration
//   - error: error if the file cannot be read or parsed
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration bytes over the defaults.
//
// Parameters:
//   - data: the raw YAML document
//
// Returns:
//   - *Config: the decoded configuration
//   - error: error if the document is not valid YAML
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse: %w", err)
	}
	cfg.applyFloors()
	return cfg, nil
}

// applyFloors restores defaults for zero or negative values that would stall
// the viewer.
func (c *Config) applyFloors() {
	if c.TickRate <= 0 {
		c.TickRate = 60
	}
	if c.FlightDurationMs <= 0 {
		c.FlightDurationMs = 1200
	}
	if c.SelectionZoom <= 0 {
		c.SelectionZoom = 0.6
	}
	if c.Window.Width <= 0 {
		c.Window.Width = 1280
	}
	if c.Window.Height <= 0 {
		c.Window.Height = 720
	}
	if c.Window.Title == "" {
		c.Window.Title = "Venue Walkthrough"
	}
	if c.Render.Exposure <= 0 {
		c.Render.Exposure = 1.0
	}
	if c.Render.ToneMapping == "" {
		c.Render.ToneMapping = "ACESFilmic"
	}
}
