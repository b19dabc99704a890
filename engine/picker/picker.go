package picker

import (
	"github.com/chewxy/math32"

	"github.com/venuelab/walkview/common"
	"github.com/venuelab/walkview/engine/camera"
	"github.com/venuelab/walkview/engine/scene"
)

// DragThresholdPx is the Euclidean pixel distance between pointer-down and
// pointer-up beyond which the gesture is a drag and no pick is attempted.
const DragThresholdPx float32 = 6.0

// Pointer is a pointer event position in window pixel coordinates.
type Pointer struct {
	X, Y float32
}

// DistanceTo returns the Euclidean pixel distance to another pointer position.
func (p Pointer) DistanceTo(o Pointer) float32 {
	dx := p.X - o.X
	dy := p.Y - o.Y
	return math32.Sqrt(dx*dx + dy*dy)
}

// Result describes a resolved pick: the struck node, its selectable group,
// and the world-space hit point.
type Result struct {
	Node     *scene.Node
	Group    *scene.SelectableGroup
	Point    common.Vec3
	Distance float32
}

// pickerImpl is the implementation of the Picker interface.
type pickerImpl struct {
	scene  scene.Scene
	camera camera.Camera
}

// Picker converts a tap gesture into at most one struck scene node and its
// logical group root. Drags are filtered out before any ray is cast.
type Picker interface {
	// Resolve classifies the down/up pair and, for a tap, casts a ray
	// through the scene and walks the hit node's ancestry to its selectable
	// root. Returns nil when the gesture is a drag, nothing is struck, or
	// the struck node has no selectable ancestor.
	//
	// Parameters:
	//   - down: pointer-down position in pixels
	//   - up: pointer-up position in pixels
	//   - width: viewport width in pixels
	//   - height: viewport height in pixels
	//
	// Returns:
	//   - *Result: the resolved pick, or nil
	Resolve(down, up Pointer, width, height int) *Result

	// PickAt casts a ray through the given pixel position and returns the
	// nearest mesh intersection regardless of selectability. Returns nil
	// when nothing is struck.
	//
	// Parameters:
	//   - p: the pixel position
	//   - width: viewport width in pixels
	//   - height: viewport height in pixels
	//
	// Returns:
	//   - *Result: the nearest hit with Group left nil, or nil
	PickAt(p Pointer, width, height int) *Result
}

var _ Picker = &pickerImpl{}

// NewPicker creates a Picker over a scene and camera. Panics if either is nil.
//
// Parameters:
//   - sc: the scene whose meshes are tested
//   - cam: the camera providing the inverse view-projection
//
// Returns:
//   - Picker: the newly created picker
func NewPicker(sc scene.Scene, cam camera.Camera) Picker {
	if sc == nil || cam == nil {
		panic("picker requires a scene and a camera")
	}
	return &pickerImpl{scene: sc, camera: cam}
}

// IsDrag reports whether the down/up pair moved farther than the drag
// threshold.
//
// Parameters:
//   - down: pointer-down position in pixels
//   - up: pointer-up position in pixels
//
// Returns:
//   - bool: true when the gesture is a drag
func IsDrag(down, up Pointer) bool {
	return down.DistanceTo(up) > DragThresholdPx
}

func (pk *pickerImpl) Resolve(down, up Pointer, width, height int) *Result {
	if IsDrag(down, up) {
		return nil
	}

	hit := pk.PickAt(up, width, height)
	if hit == nil {
		return nil
	}

	root := hit.Node.SelectableRoot()
	if root == nil {
		return nil
	}

	group := pk.scene.GroupByRoot(root)
	if group == nil {
		return nil
	}

	// Multiple groups may share a centroid-proximity match; the first group
	// whose reference sub-part lies within the threshold wins, in scan
	// order. Fall back to the ancestry match when proximity finds nothing.
	if byCentroid := pk.scene.GroupNearCentroid(group.Centroid); byCentroid != nil {
		group = byCentroid
	}

	hit.Group = group
	return hit
}

func (pk *pickerImpl) PickAt(p Pointer, width, height int) *Result {
	origin, dir, ok := pk.ray(p, width, height)
	if !ok {
		return nil
	}

	var best *Result
	pk.scene.Root().Walk(func(n *scene.Node) bool {
		if n.Mesh == nil {
			return true
		}
		if !rayIntersectsAABB(origin, dir, n.Mesh.Min, n.Mesh.Max) {
			return true
		}
		if t, hit := rayMeshIntersection(origin, dir, n.Mesh); hit {
			if best == nil || t < best.Distance {
				best = &Result{
					Node:     n,
					Point:    origin.Add(dir.Scale(t)),
					Distance: t,
				}
			}
		}
		return true
	})
	return best
}

// ray unprojects a pixel position into a world-space ray through the near and
// far planes.
func (pk *pickerImpl) ray(p Pointer, width, height int) (origin, dir common.Vec3, ok bool) {
	if width <= 0 || height <= 0 {
		return common.Vec3{}, common.Vec3{}, false
	}

	ndcX := (p.X/float32(width))*2 - 1
	ndcY := -((p.Y/float32(height))*2 - 1)

	inv := pk.camera.InverseViewProjectionMatrix()
	near, wn := common.TransformPoint(inv[:], common.Vec3{ndcX, ndcY, 0})
	far, wf := common.TransformPoint(inv[:], common.Vec3{ndcX, ndcY, 1})
	if wn == 0 || wf == 0 {
		return common.Vec3{}, common.Vec3{}, false
	}

	dir = far.Sub(near)
	if dir.LengthSq() == 0 {
		return common.Vec3{}, common.Vec3{}, false
	}
	return near, dir.Normalize(), true
}
