// Package path builds bounded camera and emitter subpaths out of
// pkg/vertex's tagged-union vertices, driving CommitRoot/Scatter in a
// loop and recording the geometric edge between every adjacent pair.
package path

import (
	"github.com/voxellight/bdpt/pkg/collab"
	"github.com/voxellight/bdpt/pkg/vertex"
)

// LightPath is a bounded sequence of vertices, 0-indexed from the
// camera or emitter endpoint its root committed to (the root itself is
// not stored), with the edges between them. Vertex(i) and Edge(i) give
// the i-th vertex and the edge from vertex i-1 into vertex i (Edge(0)
// is never called: there is nothing before the endpoint).
type LightPath struct {
	vertices []vertex.Vertex
	edges    []vertex.PathEdge // edges[i] is the edge into vertices[i+1]
}

// Length returns the number of committed vertices in the subpath
// (the root itself does not count: a path that failed to commit its
// root has Length() == 0).
func (p *LightPath) Length() int {
	return len(p.vertices)
}

// Vertex returns the i-th committed vertex.
func (p *LightPath) Vertex(i int) vertex.Vertex {
	return p.vertices[i]
}

// Edge returns the edge from vertex i-1 into vertex i. i must be in
// [1, Length()-1].
func (p *LightPath) Edge(i int) vertex.PathEdge {
	return p.edges[i-1]
}

// StartCameraPath commits a CameraRoot for the given pixel and returns
// the one-vertex path it produces (or a zero-length path if the
// camera could not be positioned, e.g. a depth-of-field sample that
// missed the aperture).
func StartCameraPath(camera collab.Camera, pixel collab.Pixel, sampler collab.Sampler) *LightPath {
	return startSubpath(vertex.NewCameraRoot(camera, pixel), sampler)
}

// StartEmitterPath commits an EmitterRoot for the given emitter, which
// the caller chose with probability selectionPdf, and returns the
// one-vertex path it produces.
func StartEmitterPath(emitter collab.Emitter, selectionPdf float64, sampler collab.Sampler) *LightPath {
	return startSubpath(vertex.NewEmitterRoot(emitter, selectionPdf), sampler)
}

func startSubpath(root vertex.Vertex, sampler collab.Sampler) *LightPath {
	p := &LightPath{}
	committed, ok := root.CommitRoot(sampler)
	if !ok {
		return p
	}
	p.vertices = append(p.vertices, committed)
	return p
}

// Extend grows the path by one vertex, scattering off the current
// last vertex. It returns false once the path cannot be extended
// further: the scattering event terminated (Russian roulette,
// absorption, an emitter/camera with no outgoing direction), or the
// ray left the scene with no background to hit.
//
// On success it also backfills the PREVIOUS last vertex's
// PdfBackward, using the vertex that just scattered's own
// ReverseAreaPdf (the reverse density of an edge is always computed
// from the later vertex's BSDF, not the earlier one's), since that
// computation needs the edge on both sides of the scattering vertex to
// exist.
func (p *LightPath) Extend(scene collab.Scene, sampler collab.Sampler) bool {
	n := len(p.vertices)
	if n == 0 {
		return false
	}
	last := p.vertices[n-1]

	// last is addressable (a local variable), so this mutates it in
	// place: Scatter records WoLocal/hasScattered on the receiver
	// before returning the new vertex and edge.
	next, edge, ok := last.Scatter(scene, sampler)
	if !ok {
		return false
	}
	p.vertices[n-1] = last

	if n >= 2 {
		predecessor := p.vertices[n-2]
		predEdge := p.edges[n-2]
		cosineAtPred := predecessor.CosineFactor(predEdge.D)
		predecessor.PdfBackward = last.ReverseAreaPdf(cosineAtPred, predEdge.RSq)
		p.vertices[n-2] = predecessor
	}

	p.vertices = append(p.vertices, next)
	p.edges = append(p.edges, edge)
	return true
}

// TracePath extends a freshly-started path until it reaches maxLength
// vertices or Extend returns false, whichever comes first.
func (p *LightPath) TracePath(scene collab.Scene, sampler collab.Sampler, maxLength int) {
	for p.Length() < maxLength {
		if !p.Extend(scene, sampler) {
			return
		}
	}
}
