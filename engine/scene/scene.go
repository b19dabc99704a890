package scene

import (
	"log"
	"strings"
	"sync"

	"github.com/venuelab/walkview/common"
	"github.com/venuelab/walkview/engine/camera"
	"github.com/venuelab/walkview/engine/light"
)

// CentroidMatchThreshold is the maximum distance between a group's reference
// sub-part and a computed centroid for the group to count as a match during
// selection resolution.
const CentroidMatchThreshold float32 = 0.05

// SelectableGroup is a named selectable root plus the ordered list of its
// highlightable sub-parts. Groups are built once after scene load by scanning
// for naming-convention markers and are immutable afterward.
type SelectableGroup struct {
	// Name is the root node's name, including the selectable-root prefix.
	Name string

	// Root is the group's ancestor node in the scene graph.
	Root *Node

	// Parts are the highlightable sub-parts: children of the group's
	// highlight proxy when one exists, otherwise the root's mesh-bearing
	// descendants, in traversal order.
	Parts []*Node

	// Centroid is the average of the parts' mesh centroids.
	Centroid common.Vec3
}

// ReferencePoint returns the world-space point used for centroid-proximity
// matching: the first part's mesh centroid, falling back to the group
// centroid when the group has no mesh-bearing part.
//
// Returns:
//   - common.Vec3: the reference point
func (g *SelectableGroup) ReferencePoint() common.Vec3 {
	for _, p := range g.Parts {
		if p.Mesh != nil {
			return p.Mesh.Centroid
		}
	}
	return g.Centroid
}

// sceneImpl is the implementation of the Scene interface.
type sceneImpl struct {
	mu *sync.Mutex

	name string
	root *Node

	groups     []*SelectableGroup
	lights     light.Buckets
	anchors    map[string]camera.CameraPose
	videoNode  *Node
	glassNodes []*Node

	activeSelection *SelectableGroup
}

// Scene is the loaded venue: the scene graph plus the registries derived from
// it in a single post-load scan (selectable groups, light buckets, camera
// anchors, the video screen node, and glass-flagged nodes). The derived
// registries are immutable; only the active selection changes at runtime.
type Scene interface {
	// Name returns the scene's display name.
	//
	// Returns:
	//   - string: the scene name
	Name() string

	// Root returns the scene graph root.
	//
	// Returns:
	//   - *Node: the root node
	Root() *Node

	// FindNode returns the node with the exact given name, or nil. Callers
	// are expected to log and no-op when an expected node is missing.
	//
	// Parameters:
	//   - name: the node name
	//
	// Returns:
	//   - *Node: the matching node, or nil
	FindNode(name string) *Node

	// Groups returns the selectable groups in scan order.
	//
	// Returns:
	//   - []*SelectableGroup: the groups
	Groups() []*SelectableGroup

	// GroupByRoot returns the group whose root is the given node, or nil.
	//
	// Parameters:
	//   - root: the candidate root node
	//
	// Returns:
	//   - *SelectableGroup: the matching group, or nil
	GroupByRoot(root *Node) *SelectableGroup

	// GroupNearCentroid returns the first group whose reference sub-part
	// lies within CentroidMatchThreshold of the given centroid; ties are
	// broken by scan order.
	//
	// Parameters:
	//   - centroid: the computed centroid to match
	//
	// Returns:
	//   - *SelectableGroup: the matching group, or nil
	GroupNearCentroid(centroid common.Vec3) *SelectableGroup

	// Lights returns the scene lights bucketed by kind.
	//
	// Returns:
	//   - light.Buckets: the light buckets
	Lights() light.Buckets

	// AnchorPose returns the named camera anchor.
	//
	// Parameters:
	//   - name: the anchor name
	//
	// Returns:
	//   - camera.CameraPose: the anchor pose
	//   - bool: false when no anchor has that name
	AnchorPose(name string) (camera.CameraPose, bool)

	// VideoNode returns the node that receives the video texture, or nil
	// when the asset has none.
	//
	// Returns:
	//   - *Node: the video screen node, or nil
	VideoNode() *Node

	// GlassNodes returns the nodes flagged for glass material handling.
	//
	// Returns:
	//   - []*Node: the glass nodes in traversal order
	GlassNodes() []*Node

	// ActiveSelection returns the currently selected group, or nil.
	//
	// Returns:
	//   - *SelectableGroup: the active selection
	ActiveSelection() *SelectableGroup

	// SetActiveSelection replaces the highlight set. Passing nil clears the
	// selection.
	//
	// Parameters:
	//   - g: the group to select, or nil
	SetActiveSelection(g *SelectableGroup)
}

var _ Scene = &sceneImpl{}

// SceneOption is a functional option for configuring a Scene.
type SceneOption func(*sceneImpl)

// WithLights provides the lights discovered during asset load. They are
// bucketed by kind and name-matched presets are applied during the scan.
//
// Parameters:
//   - lights: the loaded lights
//
// Returns:
//   - SceneOption: functional option to set the lights
func WithLights(lights []light.Light) SceneOption {
	return func(s *sceneImpl) {
		for _, l := range lights {
			if light.ApplyPresetByName(l) {
				log.Printf("scene: applied lighting preset to %q", l.Name())
			}
		}
		s.lights = light.BucketByType(lights)
	}
}

// WithAnchors provides the named camera anchors discovered during asset load.
//
// Parameters:
//   - anchors: anchor poses keyed by name
//
// Returns:
//   - SceneOption: functional option to set the anchors
func WithAnchors(anchors map[string]camera.CameraPose) SceneOption {
	return func(s *sceneImpl) {
		s.anchors = anchors
	}
}

// NewScene builds a Scene from a loaded node tree, running the single
// post-load scan that derives selectable groups, the video screen node, and
// glass-flagged nodes from the asset's naming convention. Panics if root is
// nil.
//
// Parameters:
//   - name: the scene's display name
//   - root: the loaded scene graph root
//   - options: functional options providing lights and anchors
//
// Returns:
//   - Scene: the assembled scene
func NewScene(name string, root *Node, options ...SceneOption) Scene {
	if root == nil {
		panic("scene requires a root node")
	}
	s := &sceneImpl{
		mu:      &sync.Mutex{},
		name:    name,
		root:    root,
		anchors: map[string]camera.CameraPose{},
	}
	for _, option := range options {
		option(s)
	}
	s.scan()
	return s
}

// scan walks the tree once, building every naming-convention registry.
func (s *sceneImpl) scan() {
	s.root.Walk(func(n *Node) bool {
		lower := strings.ToLower(n.Name)
		switch {
		case strings.HasPrefix(n.Name, SelectableRootPrefix):
			s.groups = append(s.groups, buildGroup(n))
			// Keep walking: glass and video markers can live inside a
			// selectable subtree, and buildGroup only owns parts and proxies.
		case s.videoNode == nil && strings.HasPrefix(n.Name, VideoScreenPrefix):
			s.videoNode = n
		case strings.Contains(lower, GlassSubstring):
			s.glassNodes = append(s.glassNodes, n)
		}
		return true
	})

	if s.videoNode == nil {
		log.Printf("scene: no %q node found; video texture disabled", VideoScreenPrefix)
	}
	log.Printf("scene %q: %d selectable groups, %d point / %d spot / %d directional lights, %d anchors",
		s.name, len(s.groups), len(s.lights.Point), len(s.lights.Spot), len(s.lights.Directional), len(s.anchors))
}

// buildGroup assembles a SelectableGroup from a selectable root. Parts come
// from the children of the first highlight proxy under the root; when the
// root carries no proxy, every mesh-bearing descendant is a part.
func buildGroup(root *Node) *SelectableGroup {
	g := &SelectableGroup{
		Name: root.Name,
		Root: root,
	}

	var proxy *Node
	root.Walk(func(n *Node) bool {
		if proxy == nil && strings.HasPrefix(n.Name, HighlightProxyPrefix) {
			proxy = n
			return false
		}
		return true
	})

	if proxy != nil {
		g.Parts = append(g.Parts, proxy.Children...)
	} else {
		root.Walk(func(n *Node) bool {
			if n.Mesh != nil {
				g.Parts = append(g.Parts, n)
			}
			return true
		})
	}

	var sum common.Vec3
	count := 0
	for _, p := range g.Parts {
		if p.Mesh != nil {
			sum = sum.Add(p.Mesh.Centroid)
			count++
		}
	}
	if count > 0 {
		g.Centroid = sum.Scale(1.0 / float32(count))
	}
	return g
}

func (s *sceneImpl) Name() string {
	return s.name
}

func (s *sceneImpl) Root() *Node {
	return s.root
}

func (s *sceneImpl) FindNode(name string) *Node {
	return s.root.FindByName(name)
}

func (s *sceneImpl) Groups() []*SelectableGroup {
	return s.groups
}

func (s *sceneImpl) GroupByRoot(root *Node) *SelectableGroup {
	for _, g := range s.groups {
		if g.Root == root {
			return g
		}
	}
	return nil
}

func (s *sceneImpl) GroupNearCentroid(centroid common.Vec3) *SelectableGroup {
	for _, g := range s.groups {
		if g.ReferencePoint().DistanceTo(centroid) <= CentroidMatchThreshold {
			return g
		}
	}
	return nil
}

func (s *sceneImpl) Lights() light.Buckets {
	return s.lights
}

func (s *sceneImpl) AnchorPose(name string) (camera.CameraPose, bool) {
	pose, ok := s.anchors[name]
	return pose, ok
}

func (s *sceneImpl) VideoNode() *Node {
	return s.videoNode
}

func (s *sceneImpl) GlassNodes() []*Node {
	return s.glassNodes
}

func (s *sceneImpl) ActiveSelection() *SelectableGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeSelection
}

func (s *sceneImpl) SetActiveSelection(g *SelectableGroup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeSelection = g
}
