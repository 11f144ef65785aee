// Package connect implements the bidirectional connection between a
// camera subpath vertex and an emitter subpath vertex: a visibility
// test plus the throughput-times-BSDF-times-geometry term that links
// the two, and the light-tracer splat variant that returns a t=0/t=1
// contribution together with the pixel it lands on, for the caller to
// splat there instead of adding it at the current pixel.
package connect

import (
	"github.com/voxellight/bdpt/pkg/collab"
	"github.com/voxellight/bdpt/pkg/core"
	"github.com/voxellight/bdpt/pkg/vertex"
)

// Connect evaluates the unweighted contribution of joining emitter
// vertex a to camera vertex b with a shadow ray: both vertices' BSDF
// response toward each other, the geometric term across the edge, and
// an occlusion test. It returns the zero vector if the vertices are
// not connectible, the edge is degenerate, or the segment is occluded.
func Connect(scene collab.Scene, a, b vertex.Vertex) core.Vec3 {
	if !a.IsConnectible() || !b.IsConnectible() {
		return core.Vec3{}
	}

	edge, ok := vertex.NewPathEdge(a.Pos(), b.Pos())
	if !ok {
		return core.Vec3{}
	}

	fA := edgeValue(a, edge)
	if fA.IsZero() {
		return core.Vec3{}
	}
	fB := edgeValue(b, edge.Reverse())
	if fB.IsZero() {
		return core.Vec3{}
	}

	shadowRay := core.NewRay(a.Pos(), edge.D)
	if scene.Occluded(shadowRay, edge.Dist*0.999) {
		return core.Vec3{}
	}

	geometricTerm := a.CosineFactor(edge.D) * b.CosineFactor(edge.D) / edge.RSq
	return a.Beta.MultiplyVec(fA).MultiplyVec(fB).MultiplyVec(b.Beta).Multiply(geometricTerm)
}

// ConnectSplat is Connect's t=0/t=1 counterpart: it evaluates the
// camera's response to an emitter subpath vertex (rather than a
// committed camera-subpath vertex's BSDF), returning the pixel the
// contribution lands on so a caller can splat it directly instead of
// adding it to the pixel currently being shaded.
func ConnectSplat(scene collab.Scene, camera collab.Camera, b vertex.Vertex, sampler collab.Sampler) (core.Vec3, collab.Pixel, bool) {
	if !b.IsConnectible() {
		return core.Vec3{}, collab.Pixel{}, false
	}

	positionSample, ok := camera.SamplePosition(sampler)
	if !ok || positionSample.Pdf <= 0 {
		return core.Vec3{}, collab.Pixel{}, false
	}

	edge, ok := vertex.NewPathEdge(b.Pos(), positionSample.Point)
	if !ok {
		return core.Vec3{}, collab.Pixel{}, false
	}

	weight, pixel, ok := camera.EvalDirection(sampler, positionSample.Point, edge.Reverse().D)
	if !ok || weight.IsZero() {
		return core.Vec3{}, collab.Pixel{}, false
	}

	fB := edgeValue(b, edge)
	if fB.IsZero() {
		return core.Vec3{}, collab.Pixel{}, false
	}

	shadowRay := core.NewRay(b.Pos(), edge.D)
	if scene.Occluded(shadowRay, edge.Dist*0.999) {
		return core.Vec3{}, collab.Pixel{}, false
	}

	geometricTerm := b.CosineFactor(edge.D) / edge.RSq
	contribution := b.Beta.MultiplyVec(fB).MultiplyVec(weight).
		Multiply(geometricTerm).Multiply(1 / positionSample.Pdf)
	return contribution, pixel, true
}

// edgeValue evaluates a vertex's scattering response toward the given
// edge's direction (pointing away from v): for a light vertex this is
// its directional emission, and for a surface or volume vertex it is
// the BSDF/phase function evaluated against the vertex's own recorded
// incoming direction.
func edgeValue(v vertex.Vertex, towardEdge vertex.PathEdge) core.Vec3 {
	if v.IsLight() {
		emitter := v.Emitter
		if emitter == nil {
			emitter = v.SurfaceEmitter()
		}
		if emitter == nil {
			return core.Vec3{}
		}
		return emitter.EvalDirectionalEmission(v.Pos(), v.Normal, towardEdge.D)
	}
	return v.Eval(towardEdge.D)
}
