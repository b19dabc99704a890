package camera

import (
	"testing"
	"time"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venuelab/walkview/common"
)

const epsilon = 1e-3

// fakeClock provides a manually advanced wall clock for deterministic flights.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestAnimator(t *testing.T, opts ...CameraControllerOption) (FlightAnimator, CameraController, *fakeClock) {
	t.Helper()
	base := []CameraControllerOption{
		WithRadius(10),
		WithAzimuth(0),
		WithElevation(math32.Pi / 6),
		WithRadiusBounds(0.1, 1000),
	}
	ctrl := NewCameraController(append(base, opts...)...)
	clock := &fakeClock{t: time.Unix(1000, 0)}
	return NewFlightAnimator(ctrl, WithClock(clock.now)), ctrl, clock
}

func TestEaseInOutQuadBoundaries(t *testing.T) {
	assert.InDelta(t, 0.0, easeInOutQuad(0), epsilon)
	assert.InDelta(t, 0.5, easeInOutQuad(0.5), epsilon)
	assert.InDelta(t, 1.0, easeInOutQuad(1), epsilon)

	// Ease-in below the midpoint, ease-out above it.
	assert.Less(t, easeInOutQuad(0.25), float32(0.25))
	assert.Greater(t, easeInOutQuad(0.75), float32(0.75))
}

func TestFlightReachesExactEndPose(t *testing.T) {
	anim, ctrl, clock := newTestAnimator(t)

	end := PoseFromOffset(common.Vec3{5, 0, 5}, common.Spherical{Radius: 20, Polar: 1.0, Azimuth: 2.0})
	anim.Start(FlightRequest{To: end, Duration: time.Second})

	clock.advance(500 * time.Millisecond)
	anim.Tick()
	assert.True(t, anim.Active())

	clock.advance(600 * time.Millisecond)
	anim.Tick()
	assert.False(t, anim.Active())

	pose := ctrl.Pose()
	assert.InDelta(t, end.Offset.Radius, pose.Offset.Radius, epsilon)
	assert.InDelta(t, end.Offset.Polar, pose.Offset.Polar, epsilon)
	assert.InDelta(t, end.Offset.Azimuth, pose.Offset.Azimuth, epsilon)
	assert.InDelta(t, end.Target[0], pose.Target[0], epsilon)
	assert.InDelta(t, end.Target[2], pose.Target[2], epsilon)
}

func TestFlightAzimuthTakesShortestArc(t *testing.T) {
	// Start azimuth 3.0 rad, end -3.0 rad: the short way wraps through π
	// (path length 2π-6 ≈ 0.28 rad), never traversing 6 rad the long way.
	anim, ctrl, clock := newTestAnimator(t, WithAzimuth(3.0))

	end := PoseFromOffset(common.Vec3{}, common.Spherical{Radius: 10, Polar: math32.Pi / 3, Azimuth: -3.0})
	anim.Start(FlightRequest{To: end, Duration: time.Second})

	prev := float32(3.0)
	traversed := float32(0)
	for i := 0; i < 10; i++ {
		clock.advance(100 * time.Millisecond)
		anim.Tick()
		cur := ctrl.Pose().Offset.Azimuth
		traversed += math32.Abs(common.ShortestAngleDelta(prev, cur))
		prev = cur
	}

	assert.LessOrEqual(t, traversed, math32.Pi)
	assert.InDelta(t, 2*math32.Pi-6.0, traversed, 0.01)
	assert.InDelta(t, -3.0, ctrl.Pose().Offset.Azimuth, epsilon)
}

func TestFlightZoomMultiplierScalesEndRadius(t *testing.T) {
	anim, ctrl, clock := newTestAnimator(t)

	end := PoseFromOffset(common.Vec3{}, common.Spherical{Radius: 20, Polar: 1.0, Azimuth: 0.5})
	anim.Start(FlightRequest{To: end, Duration: time.Second, ZoomMultiplier: 0.5})

	clock.advance(2 * time.Second)
	anim.Tick()

	assert.InDelta(t, 10.0, ctrl.Pose().Offset.Radius, epsilon)
}

func TestFlightLockFlagAppliedOnCompletion(t *testing.T) {
	anim, ctrl, clock := newTestAnimator(t)

	end := PoseFromOffset(common.Vec3{}, common.Spherical{Radius: 15, Polar: 1.0, Azimuth: 1.0})
	anim.Start(FlightRequest{To: end, Duration: time.Second, Locked: true})

	// Input is disabled while the flight runs.
	assert.True(t, ctrl.Locked())
	radiusBefore := ctrl.Radius()
	ctrl.Zoom(5)
	assert.Equal(t, radiusBefore, ctrl.Radius())

	clock.advance(2 * time.Second)
	anim.Tick()
	assert.True(t, ctrl.Locked())

	// An unlocked flight re-enables input at its terminal tick.
	anim.Start(FlightRequest{To: end, Duration: time.Second})
	clock.advance(2 * time.Second)
	anim.Tick()
	assert.False(t, ctrl.Locked())
}

func TestFlightSupersededByNewRequest(t *testing.T) {
	anim, ctrl, clock := newTestAnimator(t)

	first := PoseFromOffset(common.Vec3{}, common.Spherical{Radius: 50, Polar: 1.2, Azimuth: 2.5})
	gen1 := anim.Start(FlightRequest{To: first, Duration: time.Second})

	clock.advance(300 * time.Millisecond)
	anim.Tick()

	second := PoseFromOffset(common.Vec3{1, 0, 1}, common.Spherical{Radius: 5, Polar: 0.8, Azimuth: -1.0})
	gen2 := anim.Start(FlightRequest{To: second, Duration: time.Second})
	require.Greater(t, gen2, gen1)

	clock.advance(2 * time.Second)
	anim.Tick()

	// Only the second flight's end state survives.
	pose := ctrl.Pose()
	assert.InDelta(t, second.Offset.Radius, pose.Offset.Radius, epsilon)
	assert.InDelta(t, second.Offset.Azimuth, pose.Offset.Azimuth, epsilon)
	assert.False(t, anim.Active())
}

func TestFlightDegenerateZeroRadiusEndpoint(t *testing.T) {
	anim, ctrl, clock := newTestAnimator(t, WithAzimuth(1.5))

	// Destination pose with position == target has a zero-radius offset.
	end := PoseFrom(common.Vec3{2, 2, 2}, common.Vec3{2, 2, 2})
	anim.Start(FlightRequest{To: end, Duration: time.Second})

	clock.advance(500 * time.Millisecond)
	anim.Tick()
	// No rotation: the start azimuth is retained throughout.
	assert.InDelta(t, 1.5, ctrl.Pose().Offset.Azimuth, epsilon)

	clock.advance(time.Second)
	anim.Tick()
	assert.False(t, anim.Active())
}

func TestFlightZeroDurationCompletesImmediately(t *testing.T) {
	anim, ctrl, _ := newTestAnimator(t)

	end := PoseFromOffset(common.Vec3{}, common.Spherical{Radius: 30, Polar: 1.0, Azimuth: 0.2})
	anim.Start(FlightRequest{To: end})
	anim.Tick()

	assert.False(t, anim.Active())
	assert.InDelta(t, 30.0, ctrl.Pose().Offset.Radius, epsilon)
}
