package render

import (
	"log"
	"sync"
)

// configImpl is the implementation of the Config interface.
type configImpl struct {
	mu *sync.Mutex

	exposure    float32
	toneMapping ToneMapping

	bloomStrength    float32
	vignetteStrength float32
	outlineStrength  float32

	onChange func(Snapshot)
}

// Snapshot is an immutable copy of the post-processing state, delivered to
// change subscribers and serialized to tuning panel clients.
type Snapshot struct {
	Exposure         float32     `json:"exposure"`
	ToneMapping      ToneMapping `json:"-"`
	ToneMappingName  string      `json:"toneMapping"`
	BloomStrength    float32     `json:"bloomStrength"`
	VignetteStrength float32     `json:"vignetteStrength"`
	OutlineStrength  float32     `json:"outlineStrength"`
}

// Config holds the global post-processing parameters: exposure, tone-mapping
// mode, and bloom/vignette/outline strengths. State is process-wide, mutated
// only through setters (the tuning panel), and reset only by restarting the
// viewer. Each setter applies immediately; the change callback lets the
// renderer pick up new values on the next frame.
type Config interface {
	// Exposure returns the current exposure multiplier.
	//
	// Returns:
	//   - float32: the exposure
	Exposure() float32

	// SetExposure sets the exposure multiplier.
	//
	// Parameters:
	//   - exposure: the new exposure
	SetExposure(exposure float32)

	// ToneMapping returns the current tone-mapping mode.
	//
	// Returns:
	//   - ToneMapping: the active mode
	ToneMapping() ToneMapping

	// SetToneMapping sets the tone-mapping mode directly.
	//
	// Parameters:
	//   - t: the mode to apply
	SetToneMapping(t ToneMapping)

	// SetToneMappingByName resolves a mode name and applies it. An unknown
	// name is rejected with a diagnostic log and the current mode is left
	// unchanged.
	//
	// Parameters:
	//   - name: the tone-mapping mode name
	//
	// Returns:
	//   - error: error if the name matches no known mode
	SetToneMappingByName(name string) error

	// BloomStrength returns the bloom pass strength.
	//
	// Returns:
	//   - float32: the bloom strength
	BloomStrength() float32

	// SetBloomStrength sets the bloom pass strength.
	//
	// Parameters:
	//   - strength: the new strength
	SetBloomStrength(strength float32)

	// VignetteStrength returns the vignette pass strength.
	//
	// Returns:
	//   - float32: the vignette strength
	VignetteStrength() float32

	// SetVignetteStrength sets the vignette pass strength.
	//
	// Parameters:
	//   - strength: the new strength
	SetVignetteStrength(strength float32)

	// OutlineStrength returns the selection outline strength.
	//
	// Returns:
	//   - float32: the outline strength
	OutlineStrength() float32

	// SetOutlineStrength sets the selection outline strength.
	//
	// Parameters:
	//   - strength: the new strength
	SetOutlineStrength(strength float32)

	// Snapshot returns a copy of the full post-processing state.
	//
	// Returns:
	//   - Snapshot: the current state
	Snapshot() Snapshot

	// OnChange registers a callback invoked with a snapshot after every
	// successful mutation. At most one callback is kept.
	//
	// Parameters:
	//   - fn: the callback to invoke
	OnChange(fn func(Snapshot))
}

var _ Config = &configImpl{}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*configImpl)

// WithExposure sets the initial exposure multiplier.
//
// Parameters:
//   - exposure: the exposure value
//
// Returns:
//   - ConfigOption: functional option to set the exposure
func WithExposure(exposure float32) ConfigOption {
	return func(c *configImpl) {
		c.exposure = exposure
	}
}

// WithToneMapping sets the initial tone-mapping mode.
//
// Parameters:
//   - t: the mode
//
// Returns:
//   - ConfigOption: functional option to set the mode
func WithToneMapping(t ToneMapping) ConfigOption {
	return func(c *configImpl) {
		c.toneMapping = t
	}
}

// WithBloomStrength sets the initial bloom strength.
//
// Parameters:
//   - strength: the bloom strength
//
// Returns:
//   - ConfigOption: functional option to set the bloom strength
func WithBloomStrength(strength float32) ConfigOption {
	return func(c *configImpl) {
		c.bloomStrength = strength
	}
}

// WithVignetteStrength sets the initial vignette strength.
//
// Parameters:
//   - strength: the vignette strength
//
// Returns:
//   - ConfigOption: functional option to set the vignette strength
func WithVignetteStrength(strength float32) ConfigOption {
	return func(c *configImpl) {
		c.vignetteStrength = strength
	}
}

// WithOutlineStrength sets the initial outline strength.
//
// Parameters:
//   - strength: the outline strength
//
// Returns:
//   - ConfigOption: functional option to set the outline strength
func WithOutlineStrength(strength float32) ConfigOption {
	return func(c *configImpl) {
		c.outlineStrength = strength
	}
}

// NewConfig creates a post-processing Config with neutral defaults.
//
// Parameters:
//   - options: functional options to configure the initial state
//
// Returns:
//   - Config: the newly created config
func NewConfig(options ...ConfigOption) Config {
	c := &configImpl{
		mu:          &sync.Mutex{},
		exposure:    1.0,
		toneMapping: ToneMappingACESFilmic,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *configImpl) Exposure() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exposure
}

func (c *configImpl) SetExposure(exposure float32) {
	c.mu.Lock()
	c.exposure = exposure
	c.mu.Unlock()
	c.notify()
}

func (c *configImpl) ToneMapping() ToneMapping {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.toneMapping
}

func (c *configImpl) SetToneMapping(t ToneMapping) {
	c.mu.Lock()
	c.toneMapping = t
	c.mu.Unlock()
	c.notify()
}

func (c *configImpl) SetToneMappingByName(name string) error {
	t, err := ParseToneMapping(name)
	if err != nil {
		log.Printf("render: rejected tone mapping request: %v", err)
		return err
	}
	c.SetToneMapping(t)
	return nil
}

func (c *configImpl) BloomStrength() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bloomStrength
}

func (c *configImpl) SetBloomStrength(strength float32) {
	c.mu.Lock()
	c.bloomStrength = strength
	c.mu.Unlock()
	c.notify()
}

func (c *configImpl) VignetteStrength() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vignetteStrength
}

func (c *configImpl) SetVignetteStrength(strength float32) {
	c.mu.Lock()
	c.vignetteStrength = strength
	c.mu.Unlock()
	c.notify()
}

func (c *configImpl) OutlineStrength() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outlineStrength
}

func (c *configImpl) SetOutlineStrength(strength float32) {
	c.mu.Lock()
	c.outlineStrength = strength
	c.mu.Unlock()
	c.notify()
}

func (c *configImpl) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *configImpl) OnChange(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// snapshotLocked assembles a Snapshot. Caller must hold the mutex.
func (c *configImpl) snapshotLocked() Snapshot {
	return Snapshot{
		Exposure:         c.exposure,
		ToneMapping:      c.toneMapping,
		ToneMappingName:  c.toneMapping.String(),
		BloomStrength:    c.bloomStrength,
		VignetteStrength: c.vignetteStrength,
		OutlineStrength:  c.outlineStrength,
	}
}

func (c *configImpl) notify() {
	c.mu.Lock()
	fn := c.onChange
	snap := c.snapshotLocked()
	c.mu.Unlock()
	if fn != nil {
		fn(snap)
	}
}
