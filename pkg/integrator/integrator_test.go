package integrator

import (
	"testing"

	"github.com/voxellight/bdpt/pkg/collab"
	"github.com/voxellight/bdpt/pkg/core"
)

type fixedSampler struct{ u float64 }

func (s fixedSampler) Get1D() float64   { return s.u }
func (s fixedSampler) Get2D() core.Vec2 { return core.NewVec2(s.u, s.u) }

type diffuseMaterial struct{ albedo core.Vec3 }

func (m diffuseMaterial) Sample(wiLocal core.Vec3, sampler collab.Sampler) (collab.ScatterSample, bool) {
	return collab.ScatterSample{WoLocal: core.NewVec3(0, 0, 1), Pdf: 1, Weight: m.albedo}, true
}

func (m diffuseMaterial) Eval(wiLocal, woLocal core.Vec3) core.Vec3 { return m.albedo }

func (m diffuseMaterial) Pdf(wiLocal, woLocal core.Vec3) (float64, bool) { return 1, false }

type pointEmitter struct {
	point, normal core.Vec3
	radiance      core.Vec3
}

func (e pointEmitter) SamplePosition(sampler collab.Sampler) (collab.PositionSample, bool) {
	return collab.PositionSample{Point: e.point, Normal: e.normal, Pdf: 1, Weight: core.NewVec3(1, 1, 1)}, true
}

func (e pointEmitter) SampleDirection(sampler collab.Sampler, point, normal core.Vec3) (collab.DirectionSample, bool) {
	return collab.DirectionSample{Direction: normal.Negate(), Pdf: 1, Weight: e.radiance}, true
}

func (e pointEmitter) EvalDirectionalEmission(point, normal, direction core.Vec3) core.Vec3 {
	return e.radiance
}

func (e pointEmitter) DirectionalPdf(point, normal, direction core.Vec3) float64 { return 1 }

func (e pointEmitter) AreaPdf(point, normal core.Vec3) float64 { return 1 }

type fixedCamera struct{ point, normal core.Vec3 }

func (c fixedCamera) SamplePosition(sampler collab.Sampler) (collab.PositionSample, bool) {
	return collab.PositionSample{Point: c.point, Normal: c.normal, Pdf: 1, Weight: core.NewVec3(1, 1, 1)}, true
}

func (c fixedCamera) SampleDirection(sampler collab.Sampler, point core.Vec3, pixel collab.Pixel) (collab.DirectionSample, bool) {
	return collab.DirectionSample{Direction: c.normal, Pdf: 1, Weight: core.NewVec3(1, 1, 1)}, true
}

func (c fixedCamera) EvalDirection(sampler collab.Sampler, point, direction core.Vec3) (core.Vec3, collab.Pixel, bool) {
	return core.Vec3{}, collab.Pixel{}, false
}

func (c fixedCamera) DirectionPdf(point, direction core.Vec3) float64 { return 1 }

// cornellScene puts a diffuse floor one unit ahead of anything fired
// from the camera, and a light one unit past that in the same
// direction, so a camera->light connection is reachable within a
// couple of bounces. With diffuseMaterial's fixed along-the-normal
// bounce, the camera path itself only shuttles between the floor and
// the camera position and never hits the light directly.
type cornellScene struct{ emitter pointEmitter }

func (s cornellScene) Intersect(ray core.Ray) (collab.Intersection, bool) {
	hitPoint := ray.At(1)
	normal := ray.Direction.Normalize().Negate()
	var emitter collab.Emitter
	if hitPoint.Subtract(s.emitter.point).LengthSquared() < 1e-6 {
		emitter = s.emitter
	}
	return collab.Intersection{
		Point:           hitPoint,
		GeometricNormal: normal,
		Frame:           core.NewFrame(normal),
		Material:        diffuseMaterial{albedo: core.NewVec3(0.7, 0.7, 0.7)},
		Emitter:         emitter,
	}, true
}

func (s cornellScene) Occluded(ray core.Ray, tMax float64) bool   { return false }
func (s cornellScene) Background(ray core.Ray) (core.Vec3, bool) { return core.Vec3{}, false }

type singleEmitterDist struct{}

func (singleEmitterDist) Sample(u float64) (int, float64) { return 0, 1 }
func (singleEmitterDist) Pdf(index int) float64           { return 1 }
func (singleEmitterDist) Count() int                      { return 1 }

type recordingFramebuffer struct {
	splats []core.Vec3
}

func (f *recordingFramebuffer) Splat(pixel collab.Pixel, color core.Vec3) {
	f.splats = append(f.splats, color)
}

func TestTraceSample_ReturnsFiniteNonNegativeColor(t *testing.T) {
	emitter := pointEmitter{point: core.NewVec3(0, 0, 2), normal: core.NewVec3(0, 0, -1), radiance: core.NewVec3(4, 4, 4)}
	scene := cornellScene{emitter: emitter}
	fb := &recordingFramebuffer{}

	bdpt := &Integrator{
		Scene:       scene,
		Camera:      fixedCamera{point: core.NewVec3(0, 0, 0), normal: core.NewVec3(0, 0, 1)},
		Emitters:    []collab.Emitter{emitter},
		EmitterDist: singleEmitterDist{},
		Framebuffer: fb,
		MaxBounces:  3,
	}

	color := bdpt.TraceSample(collab.Pixel{X: 0, Y: 0}, fixedSampler{u: 0.5})

	if color.X < 0 || color.Y < 0 || color.Z < 0 {
		t.Fatalf("expected a non-negative color, got %v", color)
	}
}

func TestTraceSample_NoEmitters_StillReturnsCameraPathRadiance(t *testing.T) {
	emitter := pointEmitter{point: core.NewVec3(0, 0, 2), normal: core.NewVec3(0, 0, -1), radiance: core.NewVec3(4, 4, 4)}
	scene := cornellScene{emitter: emitter}
	fb := &recordingFramebuffer{}

	bdpt := &Integrator{
		Scene:       scene,
		Camera:      fixedCamera{point: core.NewVec3(0, 0, 0), normal: core.NewVec3(0, 0, 1)},
		Framebuffer: fb,
		MaxBounces:  3,
	}

	color := bdpt.TraceSample(collab.Pixel{X: 0, Y: 0}, fixedSampler{u: 0.5})
	if color.X < 0 {
		t.Fatalf("expected a well-formed color with no emitter distribution, got %v", color)
	}
}
