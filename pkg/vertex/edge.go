package vertex

import (
	"math"

	"github.com/voxellight/bdpt/pkg/core"
)

// minEdgeDistSq is the smallest squared distance between two vertices
// that is still treated as a real connecting edge. Anything closer is
// geometrically degenerate (a surface connecting to itself through an
// epsilon offset) and is rejected outright rather than producing a
// near-infinite geometric term. Chosen between a 0.001 shadow-ray skip
// distance and a tighter 1e-4 occlusion epsilon, squared.
const minEdgeDistSq = 1e-8

// PathEdge is the geometric relationship between two adjacent
// vertices: unit direction, distance, and squared distance, the three
// quantities every area-measure pdf conversion and connection term
// needs. It always points from the earlier vertex to the later one in
// whatever pair it was built from; Reverse flips that sense.
type PathEdge struct {
	D    core.Vec3
	Dist float64
	RSq  float64
}

// NewPathEdge builds the edge from `from` to `to`. It returns false
// when the two points are coincident (within minEdgeDistSq), in which
// case the caller must treat the connection as zero contribution
// rather than divide by a near-zero rSq.
func NewPathEdge(from, to core.Vec3) (PathEdge, bool) {
	delta := to.Subtract(from)
	rSq := delta.LengthSquared()
	if rSq < minEdgeDistSq {
		return PathEdge{}, false
	}
	dist := math.Sqrt(rSq)
	return PathEdge{D: delta.Multiply(1 / dist), Dist: dist, RSq: rSq}, true
}

// Reverse returns the same edge seen from the other endpoint.
func (e PathEdge) Reverse() PathEdge {
	return PathEdge{D: e.D.Negate(), Dist: e.Dist, RSq: e.RSq}
}
