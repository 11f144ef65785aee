// Package collab declares the external collaborators the BDPT core
// consumes: scene intersection, materials, media, emitters, the
// camera, sample generation, light selection, and the splat
// framebuffer. None of these are implemented here. This package is a
// set of narrow interfaces, deliberately kept separate from any
// concrete geometry, material, or camera model so the core never
// depends on a specific scene representation.
package collab

import "github.com/voxellight/bdpt/pkg/core"

// Pixel identifies a target pixel on the sensor, either the one
// currently being shaded or one discovered by splatting.
type Pixel struct {
	X, Y int
}

// Sampler is the opaque RNG service every sampling call draws from.
// Implementations may be a plain PRNG, a stratified sample generator,
// or a replay buffer for deterministic tests.
type Sampler interface {
	Get1D() float64
	Get2D() core.Vec2
}

// PositionSample is the result of sampling a position on an emitter or
// the sensor: a point with its sampling pdf (area measure) and the
// associated Monte-Carlo weight (value / pdf, already divided).
type PositionSample struct {
	Point  core.Vec3
	Normal core.Vec3
	Pdf    float64
	Weight core.Vec3
}

// DirectionSample is the result of sampling an outgoing direction from
// an already-committed position (solid-angle measure).
type DirectionSample struct {
	Direction core.Vec3
	Pdf       float64
	Weight    core.Vec3
}

// Emitter is a light source that can be positioned and given an
// outgoing direction for emitter-subpath construction, and evaluated
// for its directional emission when hit or connected to.
type Emitter interface {
	SamplePosition(sampler Sampler) (PositionSample, bool)
	SampleDirection(sampler Sampler, point core.Vec3, normal core.Vec3) (DirectionSample, bool)
	EvalDirectionalEmission(point core.Vec3, normal core.Vec3, direction core.Vec3) core.Vec3
	DirectionalPdf(point core.Vec3, normal core.Vec3, direction core.Vec3) float64

	// AreaPdf is the area-measure density of SamplePosition having
	// produced this exact point (e.g. uniform over a shape's surface
	// area). The camera-path-hits-emitter strategy needs it to weigh
	// itself against the strategy that would have sampled this same
	// point directly off the light.
	AreaPdf(point core.Vec3, normal core.Vec3) float64
}

// Camera is the sensor model: it can be positioned, given an outgoing
// direction toward a chosen pixel for camera-subpath construction, and
// asked to evaluate its response to an arbitrary incoming direction
// (the light-tracer splat path).
type Camera interface {
	SamplePosition(sampler Sampler) (PositionSample, bool)
	SampleDirection(sampler Sampler, point core.Vec3, pixel Pixel) (DirectionSample, bool)
	EvalDirection(sampler Sampler, point core.Vec3, direction core.Vec3) (weight core.Vec3, pixel Pixel, ok bool)
	DirectionPdf(point core.Vec3, direction core.Vec3) float64
}

// EmitterDistribution is a precomputed discrete distribution over the
// scene's emitters, typically proportional to emitted power.
type EmitterDistribution interface {
	Sample(u float64) (index int, pdf float64)
	Pdf(index int) float64
	Count() int
}

// Material is a surface BSDF: it can be importance-sampled, evaluated,
// and queried for its (possibly flipped) pdf.
type Material interface {
	Sample(wiLocal core.Vec3, sampler Sampler) (ScatterSample, bool)
	Eval(wiLocal, woLocal core.Vec3) core.Vec3
	Pdf(wiLocal, woLocal core.Vec3) (pdf float64, isDelta bool)
}

// Medium is a participating-medium phase function, the volumetric
// analogue of Material. pkg/vertex's VolumeVertex.Scatter never calls
// it: no participating media are modeled yet.
type Medium interface {
	SamplePhase(wiLocal core.Vec3, sampler Sampler) (ScatterSample, bool)
	EvalPhase(wiLocal, woLocal core.Vec3) core.Vec3
	PhasePdf(wiLocal, woLocal core.Vec3) float64
}

// ScatterSample is the result of importance-sampling a BSDF or phase
// function: the sampled local outgoing direction plus its pdf and
// Monte-Carlo weight (attenuation / pdf, or 1 for delta events).
type ScatterSample struct {
	WoLocal  core.Vec3
	Pdf      float64
	Weight   core.Vec3
	IsDelta  bool
	Terminal bool // Russian-roulette or absorption: path ends here
}

// Intersection is a committed ray-surface hit: world position,
// geometric normal, shading frame, and the material handle at that
// point. It is stored BY VALUE inside the SurfaceVertex that owns it
// so nothing outlives the vertex array it lives in.
type Intersection struct {
	Point           core.Vec3
	GeometricNormal core.Vec3
	Frame           core.Frame
	Material        Material
	Emitter         Emitter // non-nil if this surface is itself emissive
}

// Scene is the minimal ray-query surface the core needs: find the
// nearest hit, test a segment for any occluder, or evaluate what a
// ray that escaped the scene sees (an infinite/background light).
type Scene interface {
	Intersect(ray core.Ray) (Intersection, bool)
	Occluded(ray core.Ray, tMax float64) bool
	Background(ray core.Ray) (core.Vec3, bool)
}

// Framebuffer accepts splatted contributions from light-tracer (t=0)
// strategies. Implementations must support concurrent Splat calls from
// many rendering threads with add-into-cell semantics (relaxed
// ordering is fine: the final image is a sum regardless of order).
type Framebuffer interface {
	Splat(pixel Pixel, color core.Vec3)
}
