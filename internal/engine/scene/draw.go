package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/scenery/internal/engine/model"
)

// RenderRecord is one draw call: an index range, its material and the
// transform to draw it with.
type RenderRecord struct {
	IndexCount    uint32
	FirstIndex    uint32
	MaterialIndex uint32
	Transform     mgl32.Mat4
}

// DrawContext collects the records of one frame.
// Reuse it across frames with Reset to keep its allocations.
type DrawContext struct {
	Records []RenderRecord

	stack []frame
}

type frame struct {
	id   NodeID
	next int // Next child to visit
}

// Reset clears the records, keeping capacity.
func (c *DrawContext) Reset() {
	c.Records = c.Records[:0]
}

// Accumulate appends a record for every batch of every mesh node reachable
// from the roots. Children are emitted before their parent's own batches.
// Transform is view * world. The graph must be finalized.
func (g *Graph) Accumulate(view mgl32.Mat4, meshes []model.MeshAsset, ctx *DrawContext) {
	stack := ctx.stack[:0]

	for _, root := range g.roots {
		stack = append(stack, frame{id: root})

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			n := &g.nodes[top.id]

			if top.next < len(n.Children) {
				child := n.Children[top.next]
				top.next++
				stack = append(stack, frame{id: child})
				continue
			}
			stack = stack[:len(stack)-1]

			if n.Kind != KindMesh || int(n.Mesh) >= len(meshes) {
				continue
			}
			transform := view.Mul4(n.World)
			for _, b := range meshes[n.Mesh].Batches {
				ctx.Records = append(ctx.Records, RenderRecord{
					IndexCount:    b.IndexCount,
					FirstIndex:    b.StartIndex,
					MaterialIndex: b.MaterialIndex,
					Transform:     transform,
				})
			}
		}
	}

	ctx.stack = stack
}
