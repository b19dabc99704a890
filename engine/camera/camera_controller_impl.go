package camera

import (
	"sync"

	"github.com/chewxy/math32"

	"github.com/venuelab/walkview/common"
)

// cameraControllerImpl is the single implementation of CameraController.
// Supports both orbit and planar controls simultaneously. Orbit methods modify
// spherical coordinates and recompute position; planar methods translate both
// position and target along local camera axes, preserving the orbit
// relationship. The locked flag disables user-facing input methods while a
// flight holds the camera.
type cameraControllerImpl struct {
	mu *sync.Mutex

	// Camera position (computed from target + spherical coords)
	position common.Vec3
	target   common.Vec3

	// Spherical coordinates (offset from target)
	radius    float32
	azimuth   float32 // horizontal angle around Y axis
	elevation float32 // vertical angle from the horizontal plane

	// Orbit constraints
	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	mouseSensitivity float32
	zoomSpeed        float32
	panSpeed         float32

	locked bool
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a new camera controller with sensible defaults
// for an indoor venue walkthrough.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu: &sync.Mutex{},

		radius:    25.0,
		azimuth:   0.0,
		elevation: math32.Pi / 6,

		minRadius:    1.0,
		maxRadius:    200.0,
		minElevation: 0.05,
		maxElevation: math32.Pi/2 - 0.05,

		mouseSensitivity: 0.005,
		zoomSpeed:        2.0,
		panSpeed:         1.0,
	}

	for _, option := range options {
		option(cc)
	}

	cc.updatePosition()
	return cc
}

// updatePosition recomputes the camera position from spherical coordinates.
// Must be called whenever radius, azimuth, elevation, or target changes.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) updatePosition() {
	cosElev := math32.Cos(cc.elevation)
	sinElev := math32.Sin(cc.elevation)

	cc.position[0] = cc.target[0] + cc.radius*cosElev*math32.Sin(cc.azimuth)
	cc.position[1] = cc.target[1] + cc.radius*sinElev
	cc.position[2] = cc.target[2] + cc.radius*cosElev*math32.Cos(cc.azimuth)
}

// localAxes computes the camera's local coordinate axes consistent with the
// LookAt matrix. If position and target coincide, all axes are zero.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) localAxes() (right, up, forward common.Vec3) {
	// backward = normalize(position - target), matching LookAt's z-axis
	backward := cc.position.Sub(cc.target)
	if backward.LengthSq() < 1e-16 {
		return
	}
	backward = backward.Normalize()

	// right = normalize(cross(worldUp, backward)) with worldUp = (0, 1, 0)
	right = common.Vec3{backward[2], 0, -backward[0]}
	if right.LengthSq() < 1e-16 {
		return common.Vec3{}, common.Vec3{}, common.Vec3{}
	}
	right = right.Normalize()

	up = backward.Cross(right)
	forward = backward.Scale(-1)
	return
}

func (cc *cameraControllerImpl) Position() common.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *cameraControllerImpl) Target() common.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target
}

func (cc *cameraControllerImpl) SetTarget(t common.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = t
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Pose() CameraPose {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return CameraPose{
		Position: cc.position,
		Target:   cc.target,
		Offset: common.Spherical{
			Radius:  cc.radius,
			Polar:   math32.Pi/2 - cc.elevation,
			Azimuth: cc.azimuth,
		},
	}
}

func (cc *cameraControllerImpl) SetPose(p CameraPose) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = p.Target
	cc.radius = p.Offset.Radius
	cc.azimuth = p.Offset.Azimuth
	cc.elevation = math32.Pi/2 - p.Offset.Polar
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Locked() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.locked
}

func (cc *cameraControllerImpl) SetLocked(locked bool) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.locked = locked
}

func (cc *cameraControllerImpl) Zoom(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if cc.locked {
		return
	}
	cc.radius -= delta * cc.zoomSpeed
	cc.radius = clampf(cc.radius, cc.minRadius, cc.maxRadius)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Rotate(deltaAzimuth, deltaElevation float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if cc.locked {
		return
	}
	cc.azimuth += deltaAzimuth
	cc.elevation = clampf(cc.elevation+deltaElevation, cc.minElevation, cc.maxElevation)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius
}

func (cc *cameraControllerImpl) SetRadius(radius float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius = clampf(radius, cc.minRadius, cc.maxRadius)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.azimuth
}

func (cc *cameraControllerImpl) SetAzimuth(azimuth float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth = azimuth
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Elevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.elevation
}

func (cc *cameraControllerImpl) SetElevation(elevation float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.elevation = clampf(elevation, cc.minElevation, cc.maxElevation)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) MouseSensitivity() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.mouseSensitivity
}

func (cc *cameraControllerImpl) ZoomSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.zoomSpeed
}

func (cc *cameraControllerImpl) PanRight(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if cc.locked {
		return
	}
	right, _, _ := cc.localAxes()
	offset := right.Scale(delta * cc.panSpeed)
	cc.target = cc.target.Add(offset)
	cc.position = cc.position.Add(offset)
}

func (cc *cameraControllerImpl) PanUp(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if cc.locked {
		return
	}
	_, up, _ := cc.localAxes()
	offset := up.Scale(delta * cc.panSpeed)
	cc.target = cc.target.Add(offset)
	cc.position = cc.position.Add(offset)
}

func (cc *cameraControllerImpl) PanForward(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if cc.locked {
		return
	}
	_, _, forward := cc.localAxes()
	offset := forward.Scale(delta * cc.panSpeed)
	cc.target = cc.target.Add(offset)
	cc.position = cc.position.Add(offset)
}

func (cc *cameraControllerImpl) PanSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.panSpeed
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
