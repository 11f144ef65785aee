package connect

import (
	"testing"

	"github.com/voxellight/bdpt/pkg/collab"
	"github.com/voxellight/bdpt/pkg/core"
	"github.com/voxellight/bdpt/pkg/vertex"
)

type openScene struct{ occluded bool }

func (s openScene) Intersect(ray core.Ray) (collab.Intersection, bool) { return collab.Intersection{}, false }
func (s openScene) Occluded(ray core.Ray, tMax float64) bool          { return s.occluded }
func (s openScene) Background(ray core.Ray) (core.Vec3, bool)         { return core.Vec3{}, false }

type diffuseMaterial struct{ albedo core.Vec3 }

func (m diffuseMaterial) Sample(wiLocal core.Vec3, sampler collab.Sampler) (collab.ScatterSample, bool) {
	return collab.ScatterSample{WoLocal: core.NewVec3(0, 0, 1), Pdf: 1, Weight: m.albedo}, true
}

func (m diffuseMaterial) Eval(wiLocal, woLocal core.Vec3) core.Vec3 { return m.albedo }

func (m diffuseMaterial) Pdf(wiLocal, woLocal core.Vec3) (float64, bool) { return 1, false }

type pointEmitter struct{ radiance core.Vec3 }

func (e pointEmitter) SamplePosition(sampler collab.Sampler) (collab.PositionSample, bool) {
	return collab.PositionSample{}, false
}

func (e pointEmitter) SampleDirection(sampler collab.Sampler, point, normal core.Vec3) (collab.DirectionSample, bool) {
	return collab.DirectionSample{}, false
}

func (e pointEmitter) EvalDirectionalEmission(point, normal, direction core.Vec3) core.Vec3 {
	return e.radiance
}

func (e pointEmitter) DirectionalPdf(point, normal, direction core.Vec3) float64 { return 0 }

func (e pointEmitter) AreaPdf(point, normal core.Vec3) float64 { return 1 }

func surfaceVertexAt(point, normal core.Vec3, albedo core.Vec3, incoming core.Vec3) vertex.Vertex {
	frame := core.NewFrame(normal)
	return vertex.Vertex{
		Kind:   vertex.SurfaceVertex,
		Point:  point,
		Normal: normal,
		Frame:  frame,
		Intersection: collab.Intersection{
			Point:           point,
			GeometricNormal: normal,
			Frame:           frame,
			Material:        diffuseMaterial{albedo: albedo},
		},
		Beta: core.NewVec3(1, 1, 1),
	}
}

func TestConnect_UnoccludedDiffusePair(t *testing.T) {
	a := surfaceVertexAt(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), core.NewVec3(0.8, 0.8, 0.8), core.Vec3{})
	b := surfaceVertexAt(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1), core.NewVec3(0.5, 0.5, 0.5), core.Vec3{})

	contribution := Connect(openScene{}, a, b)
	if contribution.IsZero() {
		t.Fatal("expected a non-zero contribution between two facing diffuse surfaces")
	}
}

func TestConnect_Occluded(t *testing.T) {
	a := surfaceVertexAt(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), core.NewVec3(0.8, 0.8, 0.8), core.Vec3{})
	b := surfaceVertexAt(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1), core.NewVec3(0.5, 0.5, 0.5), core.Vec3{})

	contribution := Connect(openScene{occluded: true}, a, b)
	if !contribution.IsZero() {
		t.Fatal("expected zero contribution when the segment is occluded")
	}
}

func TestConnect_DeltaVertexNotConnectible(t *testing.T) {
	a := surfaceVertexAt(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), core.NewVec3(0.8, 0.8, 0.8), core.Vec3{})
	b := surfaceVertexAt(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1), core.NewVec3(0.5, 0.5, 0.5), core.Vec3{})
	b.IsDelta = true

	if contribution := Connect(openScene{}, a, b); !contribution.IsZero() {
		t.Fatal("expected zero contribution when connecting to a delta vertex")
	}
}

func TestConnect_SamePointDegenerate(t *testing.T) {
	a := surfaceVertexAt(core.NewVec3(1, 1, 1), core.NewVec3(0, 0, 1), core.NewVec3(1, 1, 1), core.Vec3{})
	b := a

	if contribution := Connect(openScene{}, a, b); !contribution.IsZero() {
		t.Fatal("expected zero contribution for a degenerate (coincident) edge")
	}
}

type fixedPositionCamera struct {
	point  core.Vec3
	pixel  collab.Pixel
	weight core.Vec3
}

func (c fixedPositionCamera) SamplePosition(sampler collab.Sampler) (collab.PositionSample, bool) {
	return collab.PositionSample{Point: c.point, Normal: core.NewVec3(0, 0, -1), Pdf: 1, Weight: core.NewVec3(1, 1, 1)}, true
}

func (c fixedPositionCamera) SampleDirection(sampler collab.Sampler, point core.Vec3, pixel collab.Pixel) (collab.DirectionSample, bool) {
	return collab.DirectionSample{}, false
}

func (c fixedPositionCamera) EvalDirection(sampler collab.Sampler, point, direction core.Vec3) (core.Vec3, collab.Pixel, bool) {
	return c.weight, c.pixel, true
}

func (c fixedPositionCamera) DirectionPdf(point, direction core.Vec3) float64 { return 1 }

func TestConnectSplat_ReturnsTargetPixel(t *testing.T) {
	b := vertex.Vertex{
		Kind:    vertex.EmitterVertex,
		Point:   core.NewVec3(0, 0, 2),
		Normal:  core.NewVec3(0, 0, -1),
		Frame:   core.NewFrame(core.NewVec3(0, 0, -1)),
		Emitter: pointEmitter{radiance: core.NewVec3(3, 3, 3)},
		Beta:    core.NewVec3(1, 1, 1),
	}
	cam := fixedPositionCamera{point: core.NewVec3(0, 0, 0), pixel: collab.Pixel{X: 4, Y: 7}, weight: core.NewVec3(1, 1, 1)}

	contribution, pixel, ok := ConnectSplat(openScene{}, cam, b, nil)
	if !ok {
		t.Fatal("expected ConnectSplat to succeed")
	}
	if pixel != (collab.Pixel{X: 4, Y: 7}) {
		t.Errorf("pixel = %v, want {4 7}", pixel)
	}
	if contribution.IsZero() {
		t.Error("expected a non-zero splatted contribution")
	}
}
