package light

// ShadowMapResolution is the default width and height in texels of the shadow
// depth texture.
const ShadowMapResolution = 2048

// DefaultShadowHalfExtent is the orthographic half-extent (in world units)
// used for the directional light shadow frustum. Controls how much of the
// scene around the camera target is captured in the shadow map.
const DefaultShadowHalfExtent float32 = 40.0

// DefaultShadowNear is the near plane for shadow projections.
const DefaultShadowNear float32 = 0.1

// DefaultShadowFar is the far plane for shadow projections.
const DefaultShadowFar float32 = 200.0

// DefaultShadowBias is the constant depth bias applied to shadow comparisons
// to reduce shadow acne artifacts.
const DefaultShadowBias float32 = 0.001

// ShadowConfig describes the shadow map parameters for one light. Directional
// lights use an orthographic frustum bounded by HalfExtent; point and spot
// lights use a perspective projection bounded by Near/Far only, leaving
// HalfExtent zero.
type ShadowConfig struct {
	MapResolution int
	Bias          float32
	Near          float32
	Far           float32

	// HalfExtent bounds the orthographic frustum; set only for directional
	// lights.
	HalfExtent float32
}

// ShadowConfigFor returns the shadow configuration for a light kind. It is a
// pure function of the kind tag.
//
// Parameters:
//   - t: the light kind
//
// Returns:
//   - ShadowConfig: the shadow parameters for that kind
func ShadowConfigFor(t LightType) ShadowConfig {
	cfg := ShadowConfig{
		MapResolution: ShadowMapResolution,
		Bias:          DefaultShadowBias,
		Near:          DefaultShadowNear,
		Far:           DefaultShadowFar,
	}
	if t == LightTypeDirectional {
		cfg.HalfExtent = DefaultShadowHalfExtent
	}
	return cfg
}
