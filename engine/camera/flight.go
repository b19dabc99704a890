package camera

import (
	"sync"
	"time"

	"github.com/venuelab/walkview/common"
)

// FlightRequest describes an eased camera transition toward a destination
// pose. The start pose is always the controller's pose at Start time.
type FlightRequest struct {
	// To is the destination pose.
	To CameraPose

	// Duration is the wall-clock length of the flight. A non-positive
	// duration completes on the first tick.
	Duration time.Duration

	// Locked, when true, leaves user rotate/pan/zoom input disabled after
	// the flight completes. When false, input is re-enabled.
	Locked bool

	// ZoomMultiplier scales the destination radius. Zero means no scaling.
	ZoomMultiplier float32
}

// FlightAnimator drives eased camera transitions over spherical coordinates.
// Starting a new flight supersedes any in-flight one; ticks belonging to a
// superseded flight have no effect on the camera.
type FlightAnimator interface {
	// Start begins a new flight from the controller's current pose. Any
	// flight already in progress is superseded. The controller is locked for
	// the duration of the flight.
	//
	// Parameters:
	//   - req: the flight destination, duration, and completion flags
	//
	// Returns:
	//   - uint64: the generation of the new flight
	Start(req FlightRequest) uint64

	// Tick advances the current flight according to wall-clock elapsed time
	// and applies the interpolated pose to the controller. No-op when no
	// flight is active.
	Tick()

	// Active reports whether a flight is currently in progress.
	//
	// Returns:
	//   - bool: true while a flight is running
	Active() bool

	// Generation returns the generation of the most recently started flight.
	//
	// Returns:
	//   - uint64: the current flight generation
	Generation() uint64
}

type flightAnimatorImpl struct {
	mu *sync.Mutex

	ctrl CameraController
	now  func() time.Time

	generation uint64
	active     bool

	start        CameraPose
	end          CameraPose
	azimuthDelta float32
	startTime    time.Time
	duration     time.Duration
	lockOnDone   bool
}

var _ FlightAnimator = &flightAnimatorImpl{}

// FlightAnimatorOption is a functional option for configuring a FlightAnimator.
type FlightAnimatorOption func(*flightAnimatorImpl)

// WithClock overrides the wall-clock source used to measure flight progress.
// Intended for deterministic tests.
//
// Parameters:
//   - now: the clock function to use
//
// Returns:
//   - FlightAnimatorOption: functional option to set the clock
func WithClock(now func() time.Time) FlightAnimatorOption {
	return func(f *flightAnimatorImpl) {
		f.now = now
	}
}

// NewFlightAnimator creates a FlightAnimator bound to a camera controller.
// Panics if ctrl is nil.
//
// Parameters:
//   - ctrl: the controller whose pose the animator drives
//   - options: functional options to configure the animator
//
// Returns:
//   - FlightAnimator: the newly created animator
func NewFlightAnimator(ctrl CameraController, options ...FlightAnimatorOption) FlightAnimator {
	if ctrl == nil {
		panic("flight animator requires a camera controller")
	}
	f := &flightAnimatorImpl{
		mu:   &sync.Mutex{},
		ctrl: ctrl,
		now:  time.Now,
	}
	for _, option := range options {
		option(f)
	}
	return f
}

func (f *flightAnimatorImpl) Start(req FlightRequest) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	start := f.ctrl.Pose()
	end := req.To
	if req.ZoomMultiplier != 0 {
		end.Offset.Radius *= req.ZoomMultiplier
		end = PoseFromOffset(end.Target, end.Offset)
	}

	// A degenerate zero-radius endpoint has no meaningful angles; adopt the
	// other endpoint's angles so the flight performs no rotation.
	if start.Offset.Radius == 0 {
		start.Offset.Polar = end.Offset.Polar
		start.Offset.Azimuth = end.Offset.Azimuth
	}
	if end.Offset.Radius == 0 {
		end.Offset.Polar = start.Offset.Polar
		end.Offset.Azimuth = start.Offset.Azimuth
	}

	f.generation++
	f.active = true
	f.start = start
	f.end = end
	f.azimuthDelta = common.ShortestAngleDelta(start.Offset.Azimuth, end.Offset.Azimuth)
	f.startTime = f.now()
	f.duration = req.Duration
	f.lockOnDone = req.Locked

	f.ctrl.SetLocked(true)
	return f.generation
}

func (f *flightAnimatorImpl) Tick() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.active {
		return
	}

	progress := float32(1)
	if f.duration > 0 {
		progress = float32(f.now().Sub(f.startTime)) / float32(f.duration)
		if progress > 1 {
			progress = 1
		}
	}

	if progress >= 1 {
		// Terminal tick: snap the exact end state and apply the lock flag.
		f.ctrl.SetPose(f.end)
		f.ctrl.SetLocked(f.lockOnDone)
		f.active = false
		return
	}

	eased := easeInOutQuad(progress)
	offset := common.Spherical{
		Radius:  lerp(f.start.Offset.Radius, f.end.Offset.Radius, eased),
		Polar:   lerp(f.start.Offset.Polar, f.end.Offset.Polar, eased),
		Azimuth: f.start.Offset.Azimuth + f.azimuthDelta*eased,
	}
	target := f.start.Target.Lerp(f.end.Target, eased)
	f.ctrl.SetPose(PoseFromOffset(target, offset))
}

func (f *flightAnimatorImpl) Active() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

func (f *flightAnimatorImpl) Generation() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.generation
}

// easeInOutQuad is the piecewise quadratic ease: accelerate through the first
// half, decelerate through the second. Fixed points at 0, 0.5, and 1.
func easeInOutQuad(t float32) float32 {
	if t <= 0.5 {
		return 2 * t * t
	}
	u := -2*t + 2
	return 1 - (u*u)/2
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}
