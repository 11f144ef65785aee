package main

import (
	"math"

	"github.com/voxellight/bdpt/pkg/collab"
	"github.com/voxellight/bdpt/pkg/core"
)

// diffuseMaterial is a Lambertian BRDF: constant albedo/pi, cosine-
// weighted importance sampling.
type diffuseMaterial struct {
	albedo core.Vec3
}

func (m diffuseMaterial) Sample(wiLocal core.Vec3, sampler collab.Sampler) (collab.ScatterSample, bool) {
	wo, pdf := cosineSampleHemisphere(sampler.Get2D())
	if pdf <= 0 {
		return collab.ScatterSample{}, false
	}
	return collab.ScatterSample{WoLocal: wo, Pdf: pdf, Weight: m.albedo}, true
}

func (m diffuseMaterial) Eval(wiLocal, woLocal core.Vec3) core.Vec3 {
	if woLocal.Z <= 0 {
		return core.Vec3{}
	}
	return m.albedo.Multiply(1 / math.Pi)
}

func (m diffuseMaterial) Pdf(wiLocal, woLocal core.Vec3) (float64, bool) {
	if woLocal.Z <= 0 {
		return 0, false
	}
	return woLocal.Z / math.Pi, false
}

func cosineSampleHemisphere(u core.Vec2) (core.Vec3, float64) {
	r := math.Sqrt(u.X)
	theta := 2 * math.Pi * u.Y
	z := math.Sqrt(math.Max(0, 1-u.X))
	return core.NewVec3(r*math.Cos(theta), r*math.Sin(theta), z), z / math.Pi
}

// sphereLight is a one-sided diffuse area emitter shaped as a sphere:
// uniform over its surface, cosine-weighted over its outward
// hemisphere, zero emission on the back side.
type sphereLight struct {
	center   core.Vec3
	radius   float64
	radiance core.Vec3
}

func (l sphereLight) area() float64 {
	return 4 * math.Pi * l.radius * l.radius
}

func (l sphereLight) SamplePosition(sampler collab.Sampler) (collab.PositionSample, bool) {
	u := sampler.Get2D()
	z := 1 - 2*u.X
	r := math.Sqrt(math.Max(0, 1-z*z))
	phi := 2 * math.Pi * u.Y
	normal := core.NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
	point := l.center.Add(normal.Multiply(l.radius))
	return collab.PositionSample{
		Point:  point,
		Normal: normal,
		Pdf:    1 / l.area(),
		Weight: core.NewVec3(1, 1, 1),
	}, true
}

func (l sphereLight) AreaPdf(point, normal core.Vec3) float64 {
	return 1 / l.area()
}

func (l sphereLight) SampleDirection(sampler collab.Sampler, point, normal core.Vec3) (collab.DirectionSample, bool) {
	local, pdf := cosineSampleHemisphere(sampler.Get2D())
	if pdf <= 0 {
		return collab.DirectionSample{}, false
	}
	direction := core.NewFrame(normal).ToWorld(local)
	// Lambertian emission: constant radiance over the hemisphere, so
	// the cosine term in the weight cancels the cosine in the pdf.
	return collab.DirectionSample{Direction: direction, Pdf: pdf, Weight: l.radiance.Multiply(math.Pi)}, true
}

func (l sphereLight) EvalDirectionalEmission(point, normal, direction core.Vec3) core.Vec3 {
	if direction.Dot(normal) <= 0 {
		return core.Vec3{}
	}
	return l.radiance
}

func (l sphereLight) DirectionalPdf(point, normal, direction core.Vec3) float64 {
	cos := direction.Dot(normal)
	if cos <= 0 {
		return 0
	}
	return cos / math.Pi
}

// pinholeCamera is a delta-position camera: SamplePosition always
// returns the fixed eye point, and both direction methods share one
// frame so SampleDirection/EvalDirection invert each other exactly.
type pinholeCamera struct {
	eye        core.Vec3
	frame      core.Frame
	width      int
	height     int
	halfFovTan float64
	aspect     float64
}

func newPinholeCamera(eye, lookAt core.Vec3, fovYDegrees float64, width, height int) *pinholeCamera {
	forward := lookAt.Subtract(eye).Normalize()
	return &pinholeCamera{
		eye:        eye,
		frame:      core.NewFrame(forward),
		width:      width,
		height:     height,
		halfFovTan: math.Tan(fovYDegrees * math.Pi / 180 / 2),
		aspect:     float64(width) / float64(height),
	}
}

func (c *pinholeCamera) SamplePosition(sampler collab.Sampler) (collab.PositionSample, bool) {
	return collab.PositionSample{Point: c.eye, Normal: c.frame.Normal, Pdf: 1, Weight: core.NewVec3(1, 1, 1)}, true
}

func (c *pinholeCamera) SampleDirection(sampler collab.Sampler, point core.Vec3, pixel collab.Pixel) (collab.DirectionSample, bool) {
	jitter := sampler.Get2D()
	ndcX := (float64(pixel.X)+jitter.X)/float64(c.width)*2 - 1
	ndcY := 1 - (float64(pixel.Y)+jitter.Y)/float64(c.height)*2
	local := core.NewVec3(ndcX*c.halfFovTan*c.aspect, ndcY*c.halfFovTan, 1).Normalize()
	return collab.DirectionSample{Direction: c.frame.ToWorld(local), Pdf: 1, Weight: core.NewVec3(1, 1, 1)}, true
}

func (c *pinholeCamera) EvalDirection(sampler collab.Sampler, point, direction core.Vec3) (core.Vec3, collab.Pixel, bool) {
	local := c.frame.ToLocal(direction.Normalize())
	if local.Z <= 0 {
		return core.Vec3{}, collab.Pixel{}, false
	}
	ndcX := local.X / (local.Z * c.halfFovTan * c.aspect)
	ndcY := local.Y / (local.Z * c.halfFovTan)
	if ndcX < -1 || ndcX >= 1 || ndcY < -1 || ndcY >= 1 {
		return core.Vec3{}, collab.Pixel{}, false
	}
	px := int((ndcX + 1) / 2 * float64(c.width))
	py := int((1 - ndcY) / 2 * float64(c.height))
	return core.NewVec3(1, 1, 1), collab.Pixel{X: px, Y: py}, true
}

func (c *pinholeCamera) DirectionPdf(point, direction core.Vec3) float64 {
	return 1
}

// box is a minimal Cornell-style scene: a diffuse floor plane and one
// spherical area light above it, enough to exercise every connection
// strategy the integrator drives (direct hit, generic s/t connection,
// and the t=0 splat family).
type box struct {
	light  sphereLight
	floorY float64
	floor  diffuseMaterial
}

func newBox() *box {
	return &box{
		light:  sphereLight{center: core.NewVec3(0, 4, -5), radius: 0.6, radiance: core.NewVec3(8, 8, 7)},
		floorY: -1,
		floor:  diffuseMaterial{albedo: core.NewVec3(0.7, 0.7, 0.7)},
	}
}

func (s *box) Intersect(ray core.Ray) (collab.Intersection, bool) {
	bestT := math.Inf(1)
	var hit collab.Intersection
	found := false

	if t, ok := intersectSphere(ray, s.light.center, s.light.radius); ok && t < bestT {
		point := ray.At(t)
		normal := point.Subtract(s.light.center).Normalize()
		hit = collab.Intersection{Point: point, GeometricNormal: normal, Frame: core.NewFrame(normal), Emitter: s.light}
		bestT, found = t, true
	}

	if t, ok := intersectPlaneY(ray, s.floorY); ok && t < bestT {
		point := ray.At(t)
		normal := core.NewVec3(0, 1, 0)
		hit = collab.Intersection{Point: point, GeometricNormal: normal, Frame: core.NewFrame(normal), Material: s.floor}
		bestT, found = t, true
	}

	return hit, found
}

func (s *box) Occluded(ray core.Ray, tMax float64) bool {
	if t, ok := intersectSphere(ray, s.light.center, s.light.radius); ok && t < tMax {
		return true
	}
	if t, ok := intersectPlaneY(ray, s.floorY); ok && t < tMax {
		return true
	}
	return false
}

func (s *box) Background(ray core.Ray) (core.Vec3, bool) {
	t := 0.5 * (ray.Direction.Normalize().Y + 1)
	sky := core.NewVec3(1, 1, 1).Multiply(1 - t).Add(core.NewVec3(0.5, 0.7, 1.0).Multiply(t))
	return sky.Multiply(0.15), true
}

func intersectSphere(ray core.Ray, center core.Vec3, radius float64) (float64, bool) {
	oc := ray.Origin.Subtract(center)
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - radius*radius
	disc := halfB*halfB - a*c
	if disc < 0 {
		return 0, false
	}
	sqrtDisc := math.Sqrt(disc)
	t := (-halfB - sqrtDisc) / a
	if t < 1e-4 {
		t = (-halfB + sqrtDisc) / a
	}
	if t < 1e-4 {
		return 0, false
	}
	return t, true
}

func intersectPlaneY(ray core.Ray, y float64) (float64, bool) {
	if math.Abs(ray.Direction.Y) < 1e-9 {
		return 0, false
	}
	t := (y - ray.Origin.Y) / ray.Direction.Y
	if t < 1e-4 {
		return 0, false
	}
	return t, true
}

// uniformEmitterDistribution picks among a fixed emitter list with
// equal probability; the box scene here has only one light, but
// Integrator needs the interface regardless of scene size.
type uniformEmitterDistribution struct {
	n int
}

func (d uniformEmitterDistribution) Sample(u float64) (int, float64) {
	if d.n == 0 {
		return -1, 0
	}
	index := int(u * float64(d.n))
	if index >= d.n {
		index = d.n - 1
	}
	return index, 1 / float64(d.n)
}

func (d uniformEmitterDistribution) Pdf(index int) float64 {
	if d.n == 0 {
		return 0
	}
	return 1 / float64(d.n)
}

func (d uniformEmitterDistribution) Count() int {
	return d.n
}
