package picker

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venuelab/walkview/common"
	"github.com/venuelab/walkview/engine/camera"
	"github.com/venuelab/walkview/engine/scene"
)

// quadMesh builds a two-triangle quad in the plane z=depth spanning
// [-half, half] on x and y.
func quadMesh(half, depth float32) *scene.Mesh {
	m := &scene.Mesh{
		Positions: []common.Vec3{
			{-half, -half, depth},
			{half, -half, depth},
			{half, half, depth},
			{-half, half, depth},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
	m.ComputeBounds()
	return m
}

// testCamera looks down -Z at the origin from (0, 0, 10).
func testCamera() camera.Camera {
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
			camera.WithTarget(common.Vec3{0, 0, 0}),
		)),
	)
}

// selectableScene has one selectable table quad at z=0 and a non-selectable
// backdrop quad behind it at z=-5.
func selectableScene() scene.Scene {
	root := &scene.Node{Name: "root"}

	table := &scene.Node{Name: "VIP_Table_A"}
	proxy := &scene.Node{Name: "table_selector_A"}
	part := &scene.Node{Name: "A_top", Mesh: quadMesh(2, 0)}
	proxy.AddChild(part)
	table.AddChild(proxy)
	root.AddChild(table)

	root.AddChild(&scene.Node{Name: "Backdrop", Mesh: quadMesh(20, -5)})

	return scene.NewScene("venue", root)
}

func TestIsDragThreshold(t *testing.T) {
	// Distance ≈ 5: a tap. Distance ≈ 14: a drag.
	assert.False(t, IsDrag(Pointer{100, 100}, Pointer{104, 103}))
	assert.True(t, IsDrag(Pointer{100, 100}, Pointer{110, 110}))
	// Exactly at the threshold is still a tap.
	assert.False(t, IsDrag(Pointer{0, 0}, Pointer{6, 0}))
}

func TestResolveTapHitsSelectableGroup(t *testing.T) {
	pk := NewPicker(selectableScene(), testCamera())

	center := Pointer{400, 400}
	res := pk.Resolve(center, center, 800, 800)
	require.NotNil(t, res)
	assert.Equal(t, "A_top", res.Node.Name)
	require.NotNil(t, res.Group)
	assert.Equal(t, "VIP_Table_A", res.Group.Name)

	// The hit point lies on the quad's plane near the origin.
	assert.InDelta(t, 0.0, res.Point[2], 1e-3)
	assert.InDelta(t, 0.0, res.Point[0], 1e-3)
}

func TestResolveDragSkipsPick(t *testing.T) {
	pk := NewPicker(selectableScene(), testCamera())
	assert.Nil(t, pk.Resolve(Pointer{400, 400}, Pointer{410, 410}, 800, 800))
}

func TestResolveMissReturnsNil(t *testing.T) {
	root := &scene.Node{Name: "root"}
	table := &scene.Node{Name: "VIP_Table_A"}
	table.AddChild(&scene.Node{Name: "A_top", Mesh: quadMesh(2, 0)})
	root.AddChild(table)
	pk := NewPicker(scene.NewScene("venue", root), testCamera())

	// Corner ray passes outside the table quad; nothing is struck.
	assert.Nil(t, pk.Resolve(Pointer{1, 1}, Pointer{1, 1}, 800, 800))
	assert.Nil(t, pk.PickAt(Pointer{1, 1}, 800, 800))
}

func TestResolveNonSelectableHitReturnsNil(t *testing.T) {
	root := &scene.Node{Name: "root"}
	root.AddChild(&scene.Node{Name: "Floor", Mesh: quadMesh(5, 0)})
	sc := scene.NewScene("venue", root)
	pk := NewPicker(sc, testCamera())

	center := Pointer{400, 400}
	assert.Nil(t, pk.Resolve(center, center, 800, 800))

	// The raw pick still reports the struck node.
	hit := pk.PickAt(center, 800, 800)
	require.NotNil(t, hit)
	assert.Equal(t, "Floor", hit.Node.Name)
	assert.Nil(t, hit.Group)
}

func TestPickAtReturnsNearestIntersection(t *testing.T) {
	pk := NewPicker(selectableScene(), testCamera())

	// Both the table quad (z=0) and the backdrop (z=-5) lie on the center
	// ray; the table is nearer.
	hit := pk.PickAt(Pointer{400, 400}, 800, 800)
	require.NotNil(t, hit)
	assert.Equal(t, "A_top", hit.Node.Name)

	// A ray outside the table but inside the backdrop strikes the backdrop.
	offCenter := pk.PickAt(Pointer{700, 400}, 800, 800)
	require.NotNil(t, offCenter)
	assert.Equal(t, "Backdrop", offCenter.Node.Name)
}

func TestRayIntersectsAABB(t *testing.T) {
	min := common.Vec3{-1, -1, -1}
	max := common.Vec3{1, 1, 1}

	assert.True(t, rayIntersectsAABB(common.Vec3{0, 0, 5}, common.Vec3{0, 0, -1}, min, max))
	assert.False(t, rayIntersectsAABB(common.Vec3{0, 5, 5}, common.Vec3{0, 0, -1}, min, max))
	// Parallel ray inside the slab.
	assert.True(t, rayIntersectsAABB(common.Vec3{0.5, 0, 5}, common.Vec3{0, 0, -1}, min, max))
}

func TestRayTriangleIntersection(t *testing.T) {
	v0 := common.Vec3{-1, -1, 0}
	v1 := common.Vec3{1, -1, 0}
	v2 := common.Vec3{0, 1, 0}

	tt, hit := rayTriangleIntersection(common.Vec3{0, 0, 5}, common.Vec3{0, 0, -1}, v0, v1, v2)
	require.True(t, hit)
	assert.InDelta(t, 5.0, tt, 1e-4)

	// Behind the origin: no hit.
	_, hit = rayTriangleIntersection(common.Vec3{0, 0, -5}, common.Vec3{0, 0, -1}, v0, v1, v2)
	assert.False(t, hit)

	// Outside the triangle.
	_, hit = rayTriangleIntersection(common.Vec3{5, 5, 5}, common.Vec3{0, 0, -1}, v0, v1, v2)
	assert.False(t, hit)
}
