// Package mis computes the balance-heuristic multiple-importance-
// sampling weight for one bidirectional connection strategy: given a
// split (s, t) of a combined emitter/camera path, how much of the
// connection's contribution this strategy should claim relative to
// every other (s', t') split that could have produced the very same
// full path.
package mis

import (
	"github.com/voxellight/bdpt/pkg/collab"
	"github.com/voxellight/bdpt/pkg/path"
	"github.com/voxellight/bdpt/pkg/vertex"
)

// Weight returns the balance-heuristic MIS weight for the strategy
// that joins the first s+1 vertices of emitterPath (vertex 0..s,
// light endpoint included) to the first t+1 vertices of cameraPath
// (vertex 0..t, camera endpoint included) across connectEdge, the
// edge from emitterPath.Vertex(s) to cameraPath.Vertex(t).
//
// It builds the combined path's per-vertex forward/backward
// area-measure pdfs into two scratch arrays (emitter vertices in their
// own order, then camera vertices in reverse), overwrites the three
// pdf values that depend on connectEdge rather than either subpath's
// own stored continuation, then sums pdf ratios along both directions
// from the actual split point and inverts (PBRT's "Veach-style"
// combined-array MIS weight).
func Weight(emitterPath, cameraPath *path.LightPath, s, t int, connectEdge vertex.PathEdge) float64 {
	n := (s + 1) + (t + 1)
	forward := make([]float64, n)
	backward := make([]float64, n)

	for i := 0; i <= s; i++ {
		v := emitterPath.Vertex(i)
		forward[i] = v.PdfForward
		backward[i] = v.PdfBackward
	}
	for i := s + 1; i < n; i++ {
		k := n - 1 - i
		v := cameraPath.Vertex(k)
		forward[i] = v.PdfBackward
		backward[i] = v.PdfForward
	}

	emitterS := emitterPath.Vertex(s)
	cameraT := cameraPath.Vertex(t)
	wiAtS := emitterS.Frame.ToWorld(emitterS.WiLocal)
	wiAtT := cameraT.Frame.ToWorld(cameraT.WiLocal)
	cosineAtT := cameraT.CosineFactor(connectEdge.D)
	cosineAtS := emitterS.CosineFactor(connectEdge.D)

	// forward[s+1]: density of sampling cameraT from emitterS across
	// the connecting edge, using emitterS's real arrival direction.
	// This replaces whatever emitterS's own stored continuation was,
	// since in this combined path its successor is cameraT, not
	// emitterPath.Vertex(s+1).
	if pdf, isDelta := emitterS.Pdf(wiAtS, connectEdge.D); !isDelta {
		forward[s+1] = vertex.SolidAngleToArea(pdf, cosineAtT, connectEdge.RSq)
	}
	// backward[s+1]: density of sampling emitterS from cameraT across
	// the same edge, using cameraT's real arrival direction.
	if pdf, isDelta := cameraT.Pdf(wiAtT, connectEdge.Reverse().D); !isDelta {
		backward[s+1] = vertex.SolidAngleToArea(pdf, cosineAtS, connectEdge.RSq)
	}
	// backward[s]: density of regenerating emitterS's real predecessor,
	// but now using the connecting edge as the arrival direction
	// instead of emitterS's own stored outgoing edge. Undefined (and
	// unused by the sums below) when s == 0: there is no predecessor.
	if s >= 1 {
		predEdge := emitterPath.Edge(s)
		predecessor := emitterPath.Vertex(s - 1)
		if pdf, isDelta := emitterS.Pdf(connectEdge.D, wiAtS); !isDelta {
			backward[s] = vertex.SolidAngleToArea(pdf, predecessor.CosineFactor(predEdge.D), predEdge.RSq)
		}
	}

	weight := 1.0

	pi := 1.0
	for i := s; i <= s+t-1; i++ {
		if backward[i+1] == 0 {
			pi = 0
		} else {
			pi *= forward[i+1] / backward[i+1]
		}
		weight += pi
	}

	// i == 0 is deliberately excluded: that term is the strategy of
	// sampling the emitter endpoint directly from the camera path,
	// which is mathematically identical to this family of strategies
	// rather than a distinct one.
	pi = 1.0
	for i := s - 1; i >= 1; i-- {
		if forward[i+1] == 0 {
			pi = 0
		} else {
			pi *= backward[i+1] / forward[i+1]
		}
		weight += pi
	}

	if weight <= 0 {
		return 0
	}
	return 1 / weight
}

// WeightDirectHit computes the balance-heuristic weight for the pure
// path-tracing strategy in which the camera path's own vertex t is
// itself emissive. There is no real emitter subpath to connect
// against, only the hypothesis that some other (s', t') strategy could
// have produced the same endpoint by sampling it directly off the
// emitter, or by sampling a point one bounce earlier.
// lightSelectionPdf is the discrete probability of choosing this
// emitter; emitter is the one recorded on the hit vertex itself.
func WeightDirectHit(cameraPath *path.LightPath, t int, lightSelectionPdf float64, emitter collab.Emitter) float64 {
	if t == 0 {
		return 1
	}
	hit := cameraPath.Vertex(t)
	pred := cameraPath.Vertex(t - 1)
	predEdge := cameraPath.Edge(t)

	lightOriginPdf := lightSelectionPdf * emitter.AreaPdf(hit.Point, hit.Normal)
	dirToPred := predEdge.Reverse().D
	lightPdf := vertex.SolidAngleToArea(
		emitter.DirectionalPdf(hit.Point, hit.Normal, dirToPred),
		pred.CosineFactor(predEdge.D),
		predEdge.RSq,
	)

	weight := 1.0
	pi := 1.0
	for i := t; i >= 1; i-- {
		var reverse, forward float64
		switch i {
		case t:
			reverse, forward = lightOriginPdf, hit.PdfForward
		case t - 1:
			reverse, forward = lightPdf, pred.PdfForward
		default:
			v := cameraPath.Vertex(i)
			reverse, forward = v.PdfBackward, v.PdfForward
		}
		if forward == 0 {
			pi = 0
		} else {
			pi *= reverse / forward
		}
		weight += pi
	}

	if weight <= 0 {
		return 0
	}
	return 1 / weight
}
