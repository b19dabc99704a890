package viewer

import (
	"time"

	"github.com/venuelab/walkview/engine/camera"
	"github.com/venuelab/walkview/engine/overlay"
	"github.com/venuelab/walkview/engine/picker"
	"github.com/venuelab/walkview/engine/profiler"
	"github.com/venuelab/walkview/engine/render"
	"github.com/venuelab/walkview/engine/renderer"
	"github.com/venuelab/walkview/engine/window"
)

// ViewerOption is a functional option for configuring a Viewer.
type ViewerOption func(*viewerImpl)

// WithWindow attaches a platform window. Input events are wired into camera
// control and pick gestures, and Run drives the window message loop.
//
// Parameters:
//   - win: the window to attach
//
// Returns:
//   - ViewerOption: functional option to set the window
func WithWindow(win window.Window) ViewerOption {
	return func(v *viewerImpl) {
		v.window = win
	}
}

// WithRenderer attaches a renderer driven by the render loop. Render
// configuration changes are forwarded to it as snapshots.
//
// Parameters:
//   - r: the renderer to attach
//
// Returns:
//   - ViewerOption: functional option to set the renderer
func WithRenderer(r renderer.Renderer) ViewerOption {
	return func(v *viewerImpl) {
		v.renderer = r
	}
}

// WithRenderConfig replaces the default render configuration layer.
//
// Parameters:
//   - cfg: the render configuration to use
//
// Returns:
//   - ViewerOption: functional option to set the render configuration
func WithRenderConfig(cfg render.Config) ViewerOption {
	return func(v *viewerImpl) {
		v.config = cfg
	}
}

// WithTickRate sets the tick loop rate in ticks per second.
//
// Parameters:
//   - fps: ticks per second, must be positive
//
// Returns:
//   - ViewerOption: functional option to set the tick rate
func WithTickRate(fps float64) ViewerOption {
	return func(v *viewerImpl) {
		if fps > 0 {
			v.tickRate = time.Second / time.Duration(fps)
		}
	}
}

// WithFlightDuration sets the duration of selection and anchor flights.
//
// Parameters:
//   - d: the flight duration, must be positive
//
// Returns:
//   - ViewerOption: functional option to set the flight duration
func WithFlightDuration(d time.Duration) ViewerOption {
	return func(v *viewerImpl) {
		if d > 0 {
			v.flightDuration = d
		}
	}
}

// WithSelectionZoom sets the radius multiplier applied when flying to a
// selected group. Values below 1 move the camera closer.
//
// Parameters:
//   - zoom: the radius multiplier, must be positive
//
// Returns:
//   - ViewerOption: functional option to set the selection zoom
func WithSelectionZoom(zoom float32) ViewerOption {
	return func(v *viewerImpl) {
		if zoom > 0 {
			v.selectionZoom = zoom
		}
	}
}

// WithViewport sets the initial viewport dimensions. Superseded by the window
// dimensions when a window is attached.
//
// Parameters:
//   - width: viewport width in pixels
//   - height: viewport height in pixels
//
// Returns:
//   - ViewerOption: functional option to set the viewport
func WithViewport(width, height int) ViewerOption {
	return func(v *viewerImpl) {
		v.width = width
		v.height = height
	}
}

// WithProfiler attaches a frame profiler ticked once per rendered frame.
//
// Parameters:
//   - p: the profiler to attach
//
// Returns:
//   - ViewerOption: functional option to set the profiler
func WithProfiler(p *profiler.Profiler) ViewerOption {
	return func(v *viewerImpl) {
		v.profiler = p
	}
}

// WithFlightAnimator replaces the default flight animator.
//
// Parameters:
//   - fa: the flight animator to use
//
// Returns:
//   - ViewerOption: functional option to set the flight animator
func WithFlightAnimator(fa camera.FlightAnimator) ViewerOption {
	return func(v *viewerImpl) {
		v.flight = fa
	}
}

// WithPicker replaces the default ray picker.
//
// Parameters:
//   - pk: the picker to use
//
// Returns:
//   - ViewerOption: functional option to set the picker
func WithPicker(pk picker.Picker) ViewerOption {
	return func(v *viewerImpl) {
		v.picker = pk
	}
}

// WithProjector replaces the default overlay projector.
//
// Parameters:
//   - p: the projector to use
//
// Returns:
//   - ViewerOption: functional option to set the projector
func WithProjector(p overlay.Projector) ViewerOption {
	return func(v *viewerImpl) {
		v.overlay = p
	}
}
