package light

import (
	"sync"

	"github.com/chewxy/math32"

	"github.com/venuelab/walkview/common"
)

// LightType identifies the kind of light source. Dispatch on light kind is
// always done through this tag; there are no per-kind capability flags.
type LightType int

const (
	// LightTypeDirectional represents a light with no position, only direction.
	// Used for large distant sources like the sun. Affects all fragments
	// uniformly with no distance attenuation.
	LightTypeDirectional LightType = iota

	// LightTypePoint represents a light that emits in all directions from a
	// position. Attenuates with distance up to a configurable range.
	LightTypePoint

	// LightTypeSpot represents a light that emits in a cone from a position
	// along a direction. Attenuates with both distance and angle from the
	// cone axis.
	LightTypeSpot
)

// String returns the lowercase name of the light type.
func (t LightType) String() string {
	switch t {
	case LightTypeDirectional:
		return "directional"
	case LightTypePoint:
		return "point"
	case LightTypeSpot:
		return "spot"
	default:
		return "unknown"
	}
}

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	mu *sync.Mutex

	name      string
	lightType LightType
	position  common.Vec3
	direction common.Vec3
	color     common.Vec3
	intensity float32

	// Point/spot attenuation: zero energy beyond lightRange, falloff
	// exponent decay (0 = none, 1 = linear, 2 = physical inverse-square).
	lightRange float32
	decay      float32

	// Spot cone, stored both as the authored angle/penumbra pair and as the
	// derived cosines used at shading time.
	angleDeg  float32
	penumbra  float32
	innerCone float32 // cos(inner half-angle)
	outerCone float32 // cos(outer half-angle)

	visible      bool
	castsShadows bool
}

// Light defines the interface for a light source in the scene.
//
// Lights are scene-level entities discovered during asset load and tuned live
// through the tuning panel. All light types (directional, point, spot) share
// this interface; type-specific properties (e.g. cone angles for spot lights)
// return zero values when not applicable.
type Light interface {
	// Name returns the light's identifying name from the source asset.
	// Preset matching is keyed on substrings of this name.
	//
	// Returns:
	//   - string: the light name
	Name() string

	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type (directional, point, or spot)
	Type() LightType

	// Position returns the world-space position of the light.
	// Meaningless for directional lights.
	//
	// Returns:
	//   - common.Vec3: the position
	Position() common.Vec3

	// Direction returns the normalized direction of the light.
	// For directional lights this is the light direction. For spot lights
	// this is the cone axis. Meaningless for point lights.
	//
	// Returns:
	//   - common.Vec3: the normalized direction
	Direction() common.Vec3

	// Color returns the RGB color of the light with components in [0, 1].
	//
	// Returns:
	//   - common.Vec3: the color as (r, g, b)
	Color() common.Vec3

	// Intensity returns the scalar intensity multiplier for the light.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// Range returns the maximum attenuation distance for point and spot
	// lights. Beyond this distance the light contributes zero energy.
	// Meaningless for directional lights.
	//
	// Returns:
	//   - float32: the range value
	Range() float32

	// Decay returns the distance attenuation exponent for point and spot
	// lights. Zero means no falloff within range.
	//
	// Returns:
	//   - float32: the decay exponent
	Decay() float32

	// Angle returns the spot cone half-angle in degrees. Meaningless for
	// directional and point lights.
	//
	// Returns:
	//   - float32: the cone half-angle in degrees
	Angle() float32

	// Penumbra returns the fraction [0, 1] of the spot cone over which
	// intensity falls off to zero at the cone edge.
	//
	// Returns:
	//   - float32: the penumbra fraction
	Penumbra() float32

	// InnerCone returns the cosine of the inner cone half-angle for spot
	// lights. Fragments within this angle receive full intensity.
	//
	// Returns:
	//   - float32: cos(inner half-angle)
	InnerCone() float32

	// OuterCone returns the cosine of the outer cone half-angle for spot
	// lights. Fragments outside this angle receive zero spot intensity.
	//
	// Returns:
	//   - float32: cos(outer half-angle)
	OuterCone() float32

	// Visible returns whether this light contributes to rendering.
	//
	// Returns:
	//   - bool: true if the light is visible
	Visible() bool

	// CastsShadows returns whether this light is eligible for shadow map
	// generation.
	//
	// Returns:
	//   - bool: true if the light casts shadows
	CastsShadows() bool

	// SetPosition sets the world-space position of the light.
	//
	// Parameters:
	//   - p: the position
	SetPosition(p common.Vec3)

	// SetDirection sets the direction of the light and normalizes it.
	//
	// Parameters:
	//   - d: the direction (will be normalized)
	SetDirection(d common.Vec3)

	// SetColor sets the RGB color of the light.
	//
	// Parameters:
	//   - c: the color as (r, g, b)
	SetColor(c common.Vec3)

	// SetIntensity sets the scalar intensity multiplier.
	//
	// Parameters:
	//   - intensity: the intensity value
	SetIntensity(intensity float32)

	// SetRange sets the maximum attenuation distance.
	//
	// Parameters:
	//   - lightRange: the range value
	SetRange(lightRange float32)

	// SetDecay sets the distance attenuation exponent.
	//
	// Parameters:
	//   - decay: the decay exponent
	SetDecay(decay float32)

	// SetSpotCone sets the spot cone from a half-angle and penumbra fraction.
	// The angle is specified in degrees; the derived inner/outer cosines are
	// recomputed.
	//
	// Parameters:
	//   - angleDeg: cone half-angle in degrees
	//   - penumbra: falloff fraction in [0, 1]
	SetSpotCone(angleDeg, penumbra float32)

	// SetVisible shows or hides the light.
	//
	// Parameters:
	//   - visible: true to include the light in rendering
	SetVisible(visible bool)

	// SetCastsShadows sets whether the light is eligible for shadow mapping.
	//
	// Parameters:
	//   - castsShadows: true to enable shadow casting
	SetCastsShadows(castsShadows bool)
}

var _ Light = &lightImpl{}

// NewLight creates a new Light of the specified type with sensible defaults
// and any provided options applied.
//
// Parameters:
//   - lightType: the kind of light to create (directional, point, or spot)
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		mu:         &sync.Mutex{},
		lightType:  lightType,
		direction:  common.Vec3{0, -1, 0},
		color:      common.Vec3{1, 1, 1},
		intensity:  1.0,
		lightRange: 10.0,
		visible:    true,
	}
	l.setSpotCone(30, 0)
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Name() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.name
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() common.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.position
}

func (l *lightImpl) Direction() common.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.direction
}

func (l *lightImpl) Color() common.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.intensity
}

func (l *lightImpl) Range() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lightRange
}

func (l *lightImpl) Decay() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.decay
}

func (l *lightImpl) Angle() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.angleDeg
}

func (l *lightImpl) Penumbra() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.penumbra
}

func (l *lightImpl) InnerCone() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.innerCone
}

func (l *lightImpl) OuterCone() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.outerCone
}

func (l *lightImpl) Visible() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.visible
}

func (l *lightImpl) CastsShadows() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.castsShadows
}

func (l *lightImpl) SetPosition(p common.Vec3) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.position = p
}

func (l *lightImpl) SetDirection(d common.Vec3) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.direction = d.Normalize()
}

func (l *lightImpl) SetColor(c common.Vec3) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.color = c
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.intensity = intensity
}

func (l *lightImpl) SetRange(lightRange float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lightRange = lightRange
}

func (l *lightImpl) SetDecay(decay float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.decay = decay
}

func (l *lightImpl) SetSpotCone(angleDeg, penumbra float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.setSpotCone(angleDeg, penumbra)
}

func (l *lightImpl) SetVisible(visible bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.visible = visible
}

func (l *lightImpl) SetCastsShadows(castsShadows bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.castsShadows = castsShadows
}

// setSpotCone recomputes the derived cone cosines from an angle/penumbra
// pair. Caller must hold the mutex (or own the light during construction).
func (l *lightImpl) setSpotCone(angleDeg, penumbra float32) {
	if penumbra < 0 {
		penumbra = 0
	}
	if penumbra > 1 {
		penumbra = 1
	}
	l.angleDeg = angleDeg
	l.penumbra = penumbra
	l.innerCone = cosDeg(angleDeg * (1 - penumbra))
	l.outerCone = cosDeg(angleDeg)
}

// cosDeg returns the cosine of an angle given in degrees.
func cosDeg(deg float32) float32 {
	return math32.Cos(deg * math32.Pi / 180.0)
}
