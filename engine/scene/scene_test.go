package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venuelab/walkview/common"
	"github.com/venuelab/walkview/engine/light"
)

// meshAt builds a small triangle mesh centered on the given point.
func meshAt(center common.Vec3) *Mesh {
	m := &Mesh{
		Positions: []common.Vec3{
			center.Add(common.Vec3{-1, 0, -1}),
			center.Add(common.Vec3{1, 0, -1}),
			center.Add(common.Vec3{0, 0, 2}),
		},
		Indices: []uint32{0, 1, 2},
	}
	m.ComputeBounds()
	return m
}

// buildVenueTree assembles a miniature venue graph:
//
//	root
//	├── VIP_Table_A
//	│   └── table_selector_A
//	│       ├── part (mesh at 10,0,0)
//	│       └── part (mesh at 12,0,0)
//	├── VIP_Table_B (no proxy, mesh at -5,0,0)
//	├── LED_Screen001_main
//	├── Window_glass_south
//	└── Floor (mesh at origin)
func buildVenueTree() *Node {
	root := &Node{Name: "root"}

	tableA := &Node{Name: "VIP_Table_A"}
	proxyA := &Node{Name: "table_selector_A"}
	partA1 := &Node{Name: "A_top", Mesh: meshAt(common.Vec3{10, 0, 0})}
	partA2 := &Node{Name: "A_base", Mesh: meshAt(common.Vec3{12, 0, 0})}
	proxyA.AddChild(partA1)
	proxyA.AddChild(partA2)
	tableA.AddChild(proxyA)
	root.AddChild(tableA)

	tableB := &Node{Name: "VIP_Table_B"}
	tableB.AddChild(&Node{Name: "B_top", Mesh: meshAt(common.Vec3{-5, 0, 0})})
	root.AddChild(tableB)

	root.AddChild(&Node{Name: "LED_Screen001_main", Mesh: meshAt(common.Vec3{0, 5, -20})})
	root.AddChild(&Node{Name: "Window_glass_south", Mesh: meshAt(common.Vec3{8, 2, 8})})
	root.AddChild(&Node{Name: "Floor", Mesh: meshAt(common.Vec3{0, 0, 0})})

	return root
}

func TestSceneScanBuildsGroups(t *testing.T) {
	sc := NewScene("venue", buildVenueTree())

	groups := sc.Groups()
	require.Len(t, groups, 2)

	a := groups[0]
	assert.Equal(t, "VIP_Table_A", a.Name)
	require.Len(t, a.Parts, 2)
	assert.Equal(t, "A_top", a.Parts[0].Name)
	// Centroid of the two part centroids at x=10 and x=12.
	assert.InDelta(t, 11.0, a.Centroid[0], 1e-3)

	b := groups[1]
	assert.Equal(t, "VIP_Table_B", b.Name)
	require.Len(t, b.Parts, 1)
	assert.Equal(t, "B_top", b.Parts[0].Name)
}

func TestSceneScanFindsVideoAndGlassNodes(t *testing.T) {
	sc := NewScene("venue", buildVenueTree())

	require.NotNil(t, sc.VideoNode())
	assert.Equal(t, "LED_Screen001_main", sc.VideoNode().Name)

	require.Len(t, sc.GlassNodes(), 1)
	assert.Equal(t, "Window_glass_south", sc.GlassNodes()[0].Name)
}

func TestSceneScanFindsMarkersInsideSelectableGroups(t *testing.T) {
	// Glass and video markers nested under a selectable root must register
	// like any other node; the group scan only claims parts and proxies.
	root := buildVenueTree()
	booth := &Node{Name: "VIP_Booth_C"}
	booth.AddChild(&Node{Name: "C_seat", Mesh: meshAt(common.Vec3{20, 0, 0})})
	booth.AddChild(&Node{Name: "Booth_glass_divider", Mesh: meshAt(common.Vec3{21, 1, 0})})
	root.AddChild(booth)

	sc := NewScene("venue", root)

	names := make([]string, 0, len(sc.GlassNodes()))
	for _, n := range sc.GlassNodes() {
		names = append(names, n.Name)
	}
	assert.Contains(t, names, "Booth_glass_divider")
	assert.Contains(t, names, "Window_glass_south")

	// A screen inside a group is still found when no top-level screen exists.
	inner := &Node{Name: "root"}
	table := &Node{Name: "VIP_Table_D"}
	table.AddChild(&Node{Name: "D_top", Mesh: meshAt(common.Vec3{0, 0, 0})})
	table.AddChild(&Node{Name: "LED_Screen002_menu", Mesh: meshAt(common.Vec3{0, 1, 0})})
	inner.AddChild(table)

	sc2 := NewScene("venue", inner)
	require.NotNil(t, sc2.VideoNode())
	assert.Equal(t, "LED_Screen002_menu", sc2.VideoNode().Name)
}

func TestSelectableRootAncestorWalk(t *testing.T) {
	root := buildVenueTree()
	part := root.FindByName("A_base")
	require.NotNil(t, part)

	sel := part.SelectableRoot()
	require.NotNil(t, sel)
	assert.Equal(t, "VIP_Table_A", sel.Name)

	floor := root.FindByName("Floor")
	require.NotNil(t, floor)
	assert.Nil(t, floor.SelectableRoot())
}

func TestGroupNearCentroid(t *testing.T) {
	sc := NewScene("venue", buildVenueTree())

	// Group A's reference sub-part is A_top's centroid at (10, 0, 0.?).
	ref := sc.Groups()[0].ReferencePoint()

	match := sc.GroupNearCentroid(ref.Add(common.Vec3{0.04, 0, 0}))
	require.NotNil(t, match)
	assert.Equal(t, "VIP_Table_A", match.Name)

	assert.Nil(t, sc.GroupNearCentroid(ref.Add(common.Vec3{0.1, 0, 0})))
}

func TestSceneAppliesLightPresetsOnScan(t *testing.T) {
	lights := []light.Light{
		light.NewLight(light.LightTypePoint, light.WithName("Purple_01")),
		light.NewLight(light.LightTypeDirectional, light.WithName("Sun")),
	}
	sc := NewScene("venue", buildVenueTree(), WithLights(lights))

	b := sc.Lights()
	require.Len(t, b.Point, 1)
	require.Len(t, b.Directional, 1)
	assert.Equal(t, float32(39), b.Point[0].Intensity())
	assert.Equal(t, float32(1), b.Directional[0].Intensity())
}

func TestSceneActiveSelection(t *testing.T) {
	sc := NewScene("venue", buildVenueTree())
	assert.Nil(t, sc.ActiveSelection())

	g := sc.Groups()[0]
	sc.SetActiveSelection(g)
	assert.Equal(t, g, sc.ActiveSelection())

	sc.SetActiveSelection(nil)
	assert.Nil(t, sc.ActiveSelection())
}

func TestFindNodeMissingReturnsNil(t *testing.T) {
	sc := NewScene("venue", buildVenueTree())
	assert.Nil(t, sc.FindNode("Nonexistent"))
}
