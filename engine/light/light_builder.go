package light

import (
	"github.com/venuelab/walkview/common"
)

// LightBuilderOption is a functional option applied to a light during
// construction via NewLight.
type LightBuilderOption func(*lightImpl)

// WithName sets the light's identifying name. Preset matching is keyed on
// substrings of this name.
//
// Parameters:
//   - name: the light name
//
// Returns:
//   - LightBuilderOption: functional option to set the name
func WithName(name string) LightBuilderOption {
	return func(l *lightImpl) {
		l.name = name
	}
}

// WithPosition sets the world-space position of the light.
//
// Parameters:
//   - p: the position
//
// Returns:
//   - LightBuilderOption: functional option to set the position
func WithPosition(p common.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = p
	}
}

// WithDirection sets the light direction, normalized on assignment.
//
// Parameters:
//   - d: the direction (will be normalized)
//
// Returns:
//   - LightBuilderOption: functional option to set the direction
func WithDirection(d common.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		l.direction = d.Normalize()
	}
}

// WithColor sets the RGB color of the light.
//
// Parameters:
//   - c: the color as (r, g, b) in [0, 1]
//
// Returns:
//   - LightBuilderOption: functional option to set the color
func WithColor(c common.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = c
	}
}

// WithIntensity sets the scalar intensity multiplier.
//
// Parameters:
//   - intensity: the intensity value
//
// Returns:
//   - LightBuilderOption: functional option to set the intensity
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = intensity
	}
}

// WithRange sets the maximum attenuation distance for point and spot lights.
//
// Parameters:
//   - lightRange: the range value
//
// Returns:
//   - LightBuilderOption: functional option to set the range
func WithRange(lightRange float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.lightRange = lightRange
	}
}

// WithDecay sets the distance attenuation exponent.
//
// Parameters:
//   - decay: the decay exponent
//
// Returns:
//   - LightBuilderOption: functional option to set the decay
func WithDecay(decay float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.decay = decay
	}
}

// WithSpotCone sets the spot cone from a half-angle in degrees and a penumbra
// fraction in [0, 1].
//
// Parameters:
//   - angleDeg: cone half-angle in degrees
//   - penumbra: falloff fraction
//
// Returns:
//   - LightBuilderOption: functional option to set the spot cone
func WithSpotCone(angleDeg, penumbra float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.setSpotCone(angleDeg, penumbra)
	}
}

// WithVisible sets the initial visibility of the light.
//
// Parameters:
//   - visible: true to include the light in rendering
//
// Returns:
//   - LightBuilderOption: functional option to set visibility
func WithVisible(visible bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.visible = visible
	}
}

// WithCastsShadows sets whether the light is eligible for shadow mapping.
//
// Parameters:
//   - castsShadows: true to enable shadow casting
//
// Returns:
//   - LightBuilderOption: functional option to set shadow casting
func WithCastsShadows(castsShadows bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.castsShadows = castsShadows
	}
}
