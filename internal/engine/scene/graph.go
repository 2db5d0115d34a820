// Package scene provides the transform hierarchy of a loaded model and the
// traversal that flattens it into per-frame draw records.
package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"

	"github.com/Faultbox/scenery/internal/engine/model"
)

// NodeID addresses a node in a Graph. IDs equal source node indices.
type NodeID uint32

// NoParent marks a root node.
const NoParent = ^NodeID(0)

// Kind tells traversal what a node contributes.
type Kind uint8

const (
	// KindGroup nodes only carry a transform.
	KindGroup Kind = iota
	// KindMesh nodes draw a mesh with their world transform.
	KindMesh
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "Group"
	case KindMesh:
		return "Mesh"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Node is one entry of the scene arena.
type Node struct {
	Local mgl32.Mat4
	World mgl32.Mat4 // Valid after Finalize

	Parent   NodeID
	Children []NodeID

	Kind Kind
	Mesh uint32 // Index into the model's meshes when Kind is KindMesh
}

// Graph is a forest of nodes stored in an arena.
// A finalized Graph is read-only and safe for concurrent traversal.
type Graph struct {
	nodes []Node
	roots []NodeID
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{}
}

// AddNode appends a node without parent or children and returns its ID.
func (g *Graph) AddNode(local mgl32.Mat4, kind Kind, mesh uint32) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, Node{
		Local:  local,
		World:  local,
		Parent: NoParent,
		Kind:   kind,
		Mesh:   mesh,
	})
	return id
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node returns the node with the given ID. The returned pointer must not be
// used to modify a finalized graph.
func (g *Graph) Node(id NodeID) *Node {
	return &g.nodes[id]
}

// Roots returns the parentless nodes in ID order. Empty until Finalize.
func (g *Graph) Roots() []NodeID {
	return g.roots
}

// Attach makes child a child of parent. A node can have at most one parent.
func (g *Graph) Attach(parent, child NodeID) error {
	if int(parent) >= len(g.nodes) {
		return fmt.Errorf("%w: parent node %d (have %d)", model.ErrMissingReference, parent, len(g.nodes))
	}
	if int(child) >= len(g.nodes) {
		return fmt.Errorf("%w: node %d lists child %d (have %d)", model.ErrMissingReference, parent, child, len(g.nodes))
	}
	if parent == child {
		return fmt.Errorf("%w: node %d lists itself as a child", model.ErrParse, child)
	}
	c := &g.nodes[child]
	if c.Parent != NoParent {
		return fmt.Errorf("%w: node %d has parents %d and %d", model.ErrParse, child, c.Parent, parent)
	}

	c.Parent = parent
	g.nodes[parent].Children = append(g.nodes[parent].Children, child)
	return nil
}

// Finalize collects the roots and computes every world transform.
// It fails if a node cannot be reached from any root, which happens when
// parent links form a cycle.
func (g *Graph) Finalize() error {
	g.roots = g.roots[:0]
	for i := range g.nodes {
		if g.nodes[i].Parent == NoParent {
			g.roots = append(g.roots, NodeID(i))
		}
	}

	visited := 0
	stack := make([]NodeID, 0, len(g.nodes))
	for _, root := range g.roots {
		g.nodes[root].World = g.nodes[root].Local
		stack = append(stack, root)

		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			visited++

			parentWorld := g.nodes[id].World
			for _, child := range g.nodes[id].Children {
				c := &g.nodes[child]
				c.World = parentWorld.Mul4(c.Local)
				stack = append(stack, child)
			}
		}
	}

	if visited != len(g.nodes) {
		return fmt.Errorf("%w: %d of %d nodes are not reachable from a root (parent cycle)",
			model.ErrParse, len(g.nodes)-visited, len(g.nodes))
	}
	return nil
}

// BuildOptions controls how source nodes map onto graph nodes.
type BuildOptions struct {
	// AllowEmptyNodes turns nodes without a mesh into group nodes instead of
	// failing the build.
	AllowEmptyNodes bool
}

// Build creates one graph node per source node, in source order.
// Hierarchy links are added by Link.
func Build(nodes []*gltf.Node, meshCount int, opts BuildOptions) (*Graph, error) {
	g := &Graph{nodes: make([]Node, 0, len(nodes))}

	for i, n := range nodes {
		if n == nil {
			return nil, fmt.Errorf("%w: node %d is null", model.ErrParse, i)
		}
		local := LocalTransform(n)

		if n.Mesh == nil {
			if !opts.AllowEmptyNodes {
				return nil, fmt.Errorf("%w: node %d (%q) has no mesh", model.ErrMissingReference, i, n.Name)
			}
			g.AddNode(local, KindGroup, 0)
			continue
		}
		if int(*n.Mesh) >= meshCount {
			return nil, fmt.Errorf("%w: node %d (%q) references mesh %d (have %d)",
				model.ErrMissingReference, i, n.Name, *n.Mesh, meshCount)
		}
		g.AddNode(local, KindMesh, *n.Mesh)
	}

	return g, nil
}

// Link attaches the children listed by each source node.
func (g *Graph) Link(nodes []*gltf.Node) error {
	for i, n := range nodes {
		if n == nil {
			continue
		}
		for _, child := range n.Children {
			if err := g.Attach(NodeID(i), NodeID(child)); err != nil {
				return err
			}
		}
	}
	return nil
}

// LocalTransform decodes a node's transform. An explicit matrix wins unless
// it is zero or identity; otherwise the result is T * R * S.
func LocalTransform(n *gltf.Node) mgl32.Mat4 {
	m := mgl32.Mat4(n.Matrix)
	if m != (mgl32.Mat4{}) && m != mgl32.Ident4() {
		return m
	}

	t := mgl32.Translate3D(n.Translation[0], n.Translation[1], n.Translation[2])

	r := mgl32.Ident4()
	if n.Rotation != ([4]float32{}) {
		q := mgl32.Quat{W: n.Rotation[3], V: mgl32.Vec3{n.Rotation[0], n.Rotation[1], n.Rotation[2]}}
		r = q.Normalize().Mat4()
	}

	s := mgl32.Ident4()
	if n.Scale != ([3]float32{}) {
		s = mgl32.Scale3D(n.Scale[0], n.Scale[1], n.Scale[2])
	}

	return t.Mul4(r).Mul4(s)
}
