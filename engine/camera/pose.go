package camera

import (
	"github.com/venuelab/walkview/common"
)

// CameraPose is a snapshot of a camera state: a world-space position, the
// pivot/target point it looks at, and the derived spherical offset of the
// position relative to the target. The offset is redundant with position and
// target but is the representation flights interpolate over.
type CameraPose struct {
	Position common.Vec3
	Target   common.Vec3
	Offset   common.Spherical
}

// PoseFrom builds a CameraPose from a position and target, deriving the
// spherical offset. A position coincident with the target produces a
// degenerate zero-radius offset.
//
// Parameters:
//   - position: world-space camera position
//   - target: world-space pivot point
//
// Returns:
//   - CameraPose: the assembled pose
func PoseFrom(position, target common.Vec3) CameraPose {
	return CameraPose{
		Position: position,
		Target:   target,
		Offset:   common.SphericalFromVec3(position.Sub(target)),
	}
}

// PoseFromOffset builds a CameraPose from a target and a spherical offset,
// deriving the world-space position.
//
// Parameters:
//   - target: world-space pivot point
//   - offset: spherical offset of the camera relative to the target
//
// Returns:
//   - CameraPose: the assembled pose
func PoseFromOffset(target common.Vec3, offset common.Spherical) CameraPose {
	return CameraPose{
		Position: target.Add(offset.Vec3()),
		Target:   target,
		Offset:   offset,
	}
}
