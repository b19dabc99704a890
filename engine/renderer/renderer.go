package renderer

import (
	"sync"

	"github.com/venuelab/walkview/engine/render"
	"github.com/venuelab/walkview/engine/window"
)

// rendererImpl is the implementation of the Renderer interface.
type rendererImpl struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	clearColor           [3]float32
}

// Renderer owns the GPU surface, device, and queue, and drives the per-frame
// render pass for the walkthrough viewport. Post-processing parameters arrive
// through ApplySnapshot, typically wired to a render.Config change callback.
type Renderer interface {
	// Resize configures the underlying backend to handle a new surface size.
	// This should be called when re-sizing the window or when the surface size should change.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// BeginFrame acquires the swapchain texture and begins the main render pass.
	// Must be paired with EndFrame within a single frame.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// EndFrame ends the current render pass and submits the command buffer to the GPU.
	// Does not present the surface. Call Present() after EndFrame to display the frame.
	EndFrame()

	// Present presents the surface to the display and releases the swapchain texture.
	// Must be called once per frame after EndFrame.
	Present()

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	// A call to Resize is required after changing this for the new mode to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// ApplySnapshot pushes the current render configuration into the frame
	// state. Exposure scales the clear color immediately; the remaining
	// parameters are retained for the post-processing passes.
	//
	// Parameters:
	//   - snap: the configuration snapshot to apply
	ApplySnapshot(snap render.Snapshot)
}

var _ Renderer = &rendererImpl{}

// NewRenderer creates a new Renderer instance with the specified backend type, bound
// to the given window's surface.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - win: the window providing the platform surface descriptor and initial size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) Renderer {
	r := &rendererImpl{
		mu:          &sync.Mutex{},
		backendType: backendType,
		clearColor:  [3]float32{0.1, 0.1, 0.1},
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x // default
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.backend.SetClearColor(r.clearColor, 1.0)
	r.backend.ConfigureSurface(win.Width(), win.Height())
	return r
}

func (r *rendererImpl) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *rendererImpl) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *rendererImpl) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *rendererImpl) EndFrame() {
	r.backend.EndFrame()
}

func (r *rendererImpl) Present() {
	r.backend.Present()
}

func (r *rendererImpl) ApplySnapshot(snap render.Snapshot) {
	r.mu.Lock()
	clear := r.clearColor
	r.mu.Unlock()
	r.backend.SetClearColor(clear, snap.Exposure)
}
