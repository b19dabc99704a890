package overlay

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venuelab/walkview/common"
	"github.com/venuelab/walkview/engine/camera"
)

// testCamera looks down -Z at the origin from (0, 0, 10).
func testCamera(height float32) camera.Camera {
	return camera.NewCamera(
		camera.WithFov(math32.Pi/3),
		camera.WithAspect(1.0),
		camera.WithNear(0.1),
		camera.WithFar(100),
		camera.WithController(camera.NewCameraController(
			camera.WithRadius(10),
			camera.WithAzimuth(0),
			camera.WithElevation(0),
			camera.WithElevationBounds(0, math32.Pi/2),
			camera.WithTarget(common.Vec3{0, height, 0}),
		)),
	)
}

func TestProjectCenterPoint(t *testing.T) {
	p := NewProjector(testCamera(0), 800, 600)

	// The camera target projects to the viewport center.
	proj := p.Project(common.Vec3{0, 0, 0})
	assert.InDelta(t, 400, proj.X, 0.5)
	assert.InDelta(t, 300, proj.Y, 0.5)
	assert.True(t, proj.Visible)
	assert.Greater(t, proj.Depth, float32(0))
	assert.Less(t, proj.Depth, float32(1))
}

func TestProjectYAxisFlipsToScreenSpace(t *testing.T) {
	p := NewProjector(testCamera(0), 800, 600)

	// A point above the target lands in the upper half of the screen.
	above := p.Project(common.Vec3{0, 2, 0})
	assert.Less(t, above.Y, float32(300))

	// A point to the right lands in the right half.
	right := p.Project(common.Vec3{2, 0, 0})
	assert.Greater(t, right.X, float32(400))
}

func TestProjectVisibilityByDepth(t *testing.T) {
	p := NewProjector(testCamera(0), 800, 600)

	// In front of the camera, within the far plane: visible.
	assert.True(t, p.Project(common.Vec3{0, 0, 0}).Visible)

	// Beyond the far plane (far=100, camera at z=10): depth >= 1, hidden.
	far := p.Project(common.Vec3{0, 0, -200})
	assert.GreaterOrEqual(t, far.Depth, float32(1))
	assert.False(t, far.Visible)

	// Behind the camera: hidden.
	assert.False(t, p.Project(common.Vec3{0, 0, 20}).Visible)
}

func TestProjectTiltProportionalToCameraHeight(t *testing.T) {
	level := NewProjector(testCamera(0), 800, 600)
	assert.InDelta(t, 0.0, level.Project(common.Vec3{}).TiltDeg, 1e-3)

	raised := NewProjector(testCamera(8), 800, 600)
	assert.InDelta(t, 8*DefaultTiltFactor, raised.Project(common.Vec3{}).TiltDeg, 1e-3)

	// Tilt clamps at MaxTiltDeg.
	high := NewProjector(testCamera(100), 800, 600)
	assert.InDelta(t, MaxTiltDeg, high.Project(common.Vec3{}).TiltDeg, 1e-3)
}

func TestTickInvokesAnchorCallbacks(t *testing.T) {
	p := NewProjector(testCamera(0), 800, 600)

	var got []Projection
	p.AddAnchor("popup", common.Vec3{0, 0, 0}, func(pr Projection) {
		got = append(got, pr)
	})

	p.Tick()
	p.Tick()
	require.Len(t, got, 2)
	assert.InDelta(t, 400, got[1].X, 0.5)

	p.RemoveAnchor("popup")
	p.Tick()
	assert.Len(t, got, 2)
}

func TestSetViewportRescalesProjection(t *testing.T) {
	p := NewProjector(testCamera(0), 800, 600)
	p.SetViewport(400, 300)

	proj := p.Project(common.Vec3{0, 0, 0})
	assert.InDelta(t, 200, proj.X, 0.5)
	assert.InDelta(t, 150, proj.Y, 0.5)
}
