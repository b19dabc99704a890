package camera

import (
	"github.com/venuelab/walkview/common"
)

// CameraController defines the union interface for camera control systems.
// Controllers own positional state (position, target). Camera reads from the
// controller and computes view/projection matrices. Embeds both
// orbitCameraController and planarCameraController, enabling orbit and planar
// controls to work simultaneously from a single controller instance.
type CameraController interface {
	orbitCameraController
	planarCameraController

	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - common.Vec3: world-space camera position
	Position() common.Vec3

	// Target returns the look-at point.
	//
	// Returns:
	//   - common.Vec3: world-space target position
	Target() common.Vec3

	// SetTarget sets the look-at/pivot point and recomputes position from
	// spherical coordinates.
	//
	// Parameters:
	//   - t: world-space coordinates
	SetTarget(t common.Vec3)

	// Pose returns a snapshot of the current camera state including the
	// derived spherical offset. Flights use this as their start state.
	//
	// Returns:
	//   - CameraPose: the current pose
	Pose() CameraPose

	// SetPose applies a pose directly, bypassing the orbit clamps. Flight
	// animations own the camera while active, so intermediate poses are
	// applied verbatim.
	//
	// Parameters:
	//   - p: the pose to apply
	SetPose(p CameraPose)

	// Locked reports whether user rotate/pan/zoom input is disabled.
	//
	// Returns:
	//   - bool: true when input controls are disabled
	Locked() bool

	// SetLocked enables or disables user rotate/pan/zoom input. Flights set
	// this at their terminal tick according to the request's Locked flag.
	//
	// Parameters:
	//   - locked: true to disable input controls
	SetLocked(locked bool)

	// Zoom adjusts the camera's distance by modifying orbit radius.
	// Positive delta zooms in (closer to target). No-op while locked.
	//
	// Parameters:
	//   - delta: zoom amount scaled by ZoomSpeed
	Zoom(delta float32)

	// Rotate adjusts azimuth and elevation by the given deltas, clamped to
	// the elevation bounds. This is the pointer-drag entry point and is a
	// no-op while locked.
	//
	// Parameters:
	//   - deltaAzimuth: azimuth change in radians
	//   - deltaElevation: elevation change in radians
	Rotate(deltaAzimuth, deltaElevation float32)
}

// orbitCameraController defines orbit-specific control methods.
// Provides third-person orbit controls using spherical coordinates
// (radius, azimuth, elevation) relative to the target/pivot point.
type orbitCameraController interface {
	// Radius returns the current orbit radius (distance from target).
	//
	// Returns:
	//   - float32: current distance from target
	Radius() float32

	// SetRadius sets the orbit radius directly, clamped to min/max bounds.
	//
	// Parameters:
	//   - radius: new distance from target
	SetRadius(radius float32)

	// Azimuth returns the current horizontal angle around the Y axis.
	//
	// Returns:
	//   - float32: azimuth in radians
	Azimuth() float32

	// SetAzimuth sets the horizontal angle directly and recomputes position.
	//
	// Parameters:
	//   - azimuth: new horizontal angle in radians
	SetAzimuth(azimuth float32)

	// Elevation returns the current vertical angle from the horizontal plane.
	//
	// Returns:
	//   - float32: elevation in radians
	Elevation() float32

	// SetElevation sets the vertical angle directly, clamped to min/max
	// bounds.
	//
	// Parameters:
	//   - elevation: new vertical angle in radians
	SetElevation(elevation float32)

	// MouseSensitivity returns the mouse drag sensitivity multiplier.
	//
	// Returns:
	//   - float32: multiplier for mouse movement
	MouseSensitivity() float32

	// ZoomSpeed returns the zoom speed multiplier.
	//
	// Returns:
	//   - float32: multiplier for zoom input
	ZoomSpeed() float32
}

// planarCameraController defines planar translation control methods.
// Panning shifts both position and target by the same offset, preserving the
// orbit relationship. All pan methods are no-ops while the controller is
// locked.
type planarCameraController interface {
	// PanRight translates the camera along its local right axis.
	// Positive delta moves right, negative moves left.
	//
	// Parameters:
	//   - delta: pan amount scaled by PanSpeed
	PanRight(delta float32)

	// PanUp translates the camera along its local up axis.
	// Positive delta moves up, negative moves down.
	//
	// Parameters:
	//   - delta: pan amount scaled by PanSpeed
	PanUp(delta float32)

	// PanForward translates the camera along its local forward axis (dolly).
	// Positive delta moves toward the target, negative moves away.
	//
	// Parameters:
	//   - delta: pan amount scaled by PanSpeed
	PanForward(delta float32)

	// PanSpeed returns the pan speed multiplier.
	//
	// Returns:
	//   - float32: multiplier for pan input
	PanSpeed() float32
}
