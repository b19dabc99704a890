package scene

import (
	"strings"

	"github.com/venuelab/walkview/common"
)

// Scene-graph naming convention, an external contract baked into the venue
// asset authoring pipeline.
const (
	// SelectableRootPrefix marks a node as the root of a selectable group.
	SelectableRootPrefix = "VIP_"

	// HighlightProxyPrefix marks a node whose children are the highlightable
	// sub-parts of the enclosing selectable group.
	HighlightProxyPrefix = "table_selector_"

	// GlassSubstring flags a node for special-cased translucent material
	// handling.
	GlassSubstring = "glass"

	// VideoScreenPrefix identifies the node that receives the video texture.
	VideoScreenPrefix = "LED_Screen001"
)

// Mesh holds the picking geometry of one node: world-space triangle data and
// its precomputed bounds.
type Mesh struct {
	// Positions are vertex positions in world space, baked at load time.
	Positions []common.Vec3

	// Indices address Positions in groups of three, one triangle each.
	Indices []uint32

	// Min and Max are the world-space axis-aligned bounds of Positions.
	Min, Max common.Vec3

	// Centroid is the average of Positions.
	Centroid common.Vec3
}

// ComputeBounds fills Min, Max, and Centroid from Positions. Meshes with no
// positions keep zero bounds.
func (m *Mesh) ComputeBounds() {
	if len(m.Positions) == 0 {
		return
	}
	m.Min = m.Positions[0]
	m.Max = m.Positions[0]
	var sum common.Vec3
	for _, p := range m.Positions {
		for i := 0; i < 3; i++ {
			if p[i] < m.Min[i] {
				m.Min[i] = p[i]
			}
			if p[i] > m.Max[i] {
				m.Max[i] = p[i]
			}
		}
		sum = sum.Add(p)
	}
	m.Centroid = sum.Scale(1.0 / float32(len(m.Positions)))
}

// Node is one element of the loaded scene graph. The tree is built once by
// the loader and immutable afterward; only lights and render parameters are
// mutated at runtime.
type Node struct {
	Name     string
	Parent   *Node
	Children []*Node

	// Local and World are column-major transforms. World is baked during
	// load by composing ancestors.
	Local [16]float32
	World [16]float32

	// Mesh is nil for pure grouping nodes.
	Mesh *Mesh
}

// AddChild links a child node and sets its parent pointer.
//
// Parameters:
//   - child: the node to attach
func (n *Node) AddChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Walk visits n and every descendant in depth-first order. Traversal stops
// early when fn returns false.
//
// Parameters:
//   - fn: visitor invoked per node; return false to stop
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn)
	}
}

func (n *Node) walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn)
	}
}

// FindByName returns the first node in n's subtree whose name matches
// exactly, or nil.
//
// Parameters:
//   - name: the node name to look up
//
// Returns:
//   - *Node: the matching node, or nil
func (n *Node) FindByName(name string) *Node {
	var found *Node
	n.Walk(func(node *Node) bool {
		if node.Name == name {
			found = node
			return false
		}
		return true
	})
	return found
}

// SelectableRoot walks upward through n's ancestor chain (including n
// itself) and returns the first node carrying the selectable-root prefix,
// or nil when no ancestor is selectable.
//
// Returns:
//   - *Node: the selectable root, or nil
func (n *Node) SelectableRoot() *Node {
	for cur := n; cur != nil; cur = cur.Parent {
		if strings.HasPrefix(cur.Name, SelectableRootPrefix) {
			return cur
		}
	}
	return nil
}
