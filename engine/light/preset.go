package light

import (
	"fmt"
	"strings"

	"github.com/venuelab/walkview/common"
)

// LightParameterSet is the full tunable state of one light, applied in one
// shot to a live light instance. It is never persisted.
type LightParameterSet struct {
	Intensity float32
	Color     common.Vec3
	Distance  float32
	Decay     float32

	// Angle and Penumbra only apply to spot lights and are ignored for
	// other kinds.
	Angle    float32
	Penumbra float32

	Visible bool
}

// Apply sets every parameter of the set on the given light.
//
// Parameters:
//   - l: the light to mutate
func (p LightParameterSet) Apply(l Light) {
	l.SetIntensity(p.Intensity)
	l.SetColor(p.Color)
	l.SetRange(p.Distance)
	l.SetDecay(p.Decay)
	if l.Type() == LightTypeSpot {
		l.SetSpotCone(p.Angle, p.Penumbra)
	}
	l.SetVisible(p.Visible)
}

// ParameterSetOf captures the current tunable state of a light.
//
// Parameters:
//   - l: the light to read
//
// Returns:
//   - LightParameterSet: the light's current parameters
func ParameterSetOf(l Light) LightParameterSet {
	return LightParameterSet{
		Intensity: l.Intensity(),
		Color:     l.Color(),
		Distance:  l.Range(),
		Decay:     l.Decay(),
		Angle:     l.Angle(),
		Penumbra:  l.Penumbra(),
		Visible:   l.Visible(),
	}
}

// Preset couples a name keyword with the parameter set it applies. A light
// whose name contains the keyword (case-insensitive) receives the parameters.
type Preset struct {
	Keyword    string
	Parameters LightParameterSet
}

// presets is the ordered preset table. Matching is first-match-wins in this
// order, so a light named "purple_pink_01" receives the purple preset.
var presets = []Preset{
	{
		Keyword: "purple",
		Parameters: LightParameterSet{
			Intensity: 39,
			Color:     MustParseHexColor("#4700ff"),
			Distance:  100,
			Decay:     0,
			Visible:   true,
		},
	},
	{
		Keyword: "pink",
		Parameters: LightParameterSet{
			Intensity: 30,
			Color:     MustParseHexColor("#ff2d95"),
			Distance:  80,
			Decay:     0,
			Visible:   true,
		},
	},
	{
		Keyword: "spot",
		Parameters: LightParameterSet{
			Intensity: 50,
			Color:     common.Vec3{1, 1, 1},
			Distance:  120,
			Decay:     1,
			Angle:     30,
			Penumbra:  0.4,
			Visible:   true,
		},
	},
}

// Presets returns a copy of the ordered preset table.
//
// Returns:
//   - []Preset: the presets in match order
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// ApplyPresetByName applies the first preset whose keyword is a
// case-insensitive substring of the light's name.
//
// Parameters:
//   - l: the light to match and mutate
//
// Returns:
//   - bool: true if a preset matched and was applied
func ApplyPresetByName(l Light) bool {
	name := strings.ToLower(l.Name())
	for _, p := range presets {
		if strings.Contains(name, p.Keyword) {
			p.Parameters.Apply(l)
			return true
		}
	}
	return false
}

// ParseHexColor parses a "#rrggbb" hex color string into an RGB vector with
// components in [0, 1].
//
// Parameters:
//   - s: the hex color string, with or without the leading '#'
//
// Returns:
//   - common.Vec3: the parsed color
//   - error: error if the string is not a 6-digit hex color
func ParseHexColor(s string) (common.Vec3, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return common.Vec3{}, fmt.Errorf("invalid hex color %q: expected 6 hex digits", s)
	}
	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		var v uint8
		if _, err := fmt.Sscanf(s[i*2:i*2+2], "%02x", &v); err != nil {
			return common.Vec3{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		rgb[i] = v
	}
	return common.Vec3{
		float32(rgb[0]) / 255.0,
		float32(rgb[1]) / 255.0,
		float32(rgb[2]) / 255.0,
	}, nil
}

// MustParseHexColor is ParseHexColor for compile-time constant colors;
// panics on malformed input.
//
// Parameters:
//   - s: the hex color string
//
// Returns:
//   - common.Vec3: the parsed color
func MustParseHexColor(s string) common.Vec3 {
	c, err := ParseHexColor(s)
	if err != nil {
		panic(err)
	}
	return c
}
