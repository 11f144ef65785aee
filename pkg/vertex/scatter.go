package vertex

import (
	"math"

	"github.com/voxellight/bdpt/pkg/collab"
	"github.com/voxellight/bdpt/pkg/core"
)

// CommitRoot samples a concrete position from a root vertex's handle,
// turning an EmitterRoot into an EmitterVertex or a CameraRoot into a
// CameraVertex. It is the only operation a root vertex supports; every
// other Vertex method assumes Kind.IsRoot() is false.
func (v Vertex) CommitRoot(sampler collab.Sampler) (Vertex, bool) {
	switch v.Kind {
	case EmitterRoot:
		if v.SelectionPdf <= 0 {
			return Vertex{}, false
		}
		sample, ok := v.Emitter.SamplePosition(sampler)
		if !ok || sample.Pdf <= 0 {
			return Vertex{}, false
		}
		return Vertex{
			Kind:       EmitterVertex,
			Point:      sample.Point,
			Normal:     sample.Normal,
			Frame:      core.NewFrame(sample.Normal),
			Emitter:    v.Emitter,
			Beta:       sample.Weight.Multiply(1 / v.SelectionPdf),
			PdfForward: sample.Pdf * v.SelectionPdf, // fused with selection
		}, true
	case CameraRoot:
		sample, ok := v.Camera.SamplePosition(sampler)
		if !ok || sample.Pdf <= 0 {
			return Vertex{}, false
		}
		return Vertex{
			Kind:       CameraVertex,
			Point:      sample.Point,
			Normal:     sample.Normal,
			Frame:      core.NewFrame(sample.Normal),
			Camera:     v.Camera,
			Pixel:      v.Pixel,
			Beta:       sample.Weight,
			PdfForward: sample.Pdf,
		}, true
	default:
		return Vertex{}, false
	}
}

// Scatter extends the path one step past v: it samples an outgoing
// direction (from the emitter/camera model for the two subpath-start
// kinds, or from the material/phase function for surface and volume
// vertices, using v's own WiLocal, already recorded when v was
// committed by extend, see below), casts a ray, and commits whatever
// it hits as the next vertex.
//
// Scatter also records v's own WoLocal and hasScattered, so a caller
// holding the full path array can later derive the predecessor's
// PdfBackward via v.ReverseAreaPdf once v has scattered (see
// pkg/path).
func (v *Vertex) Scatter(scene collab.Scene, sampler collab.Sampler) (Vertex, PathEdge, bool) {
	var (
		woWorld core.Vec3
		pdf     float64
		weight  core.Vec3
		isDelta bool
	)

	switch v.Kind {
	case EmitterVertex:
		ds, ok := v.Emitter.SampleDirection(sampler, v.Point, v.Normal)
		if !ok || ds.Pdf <= 0 {
			return Vertex{}, PathEdge{}, false
		}
		woWorld, pdf, weight = ds.Direction, ds.Pdf, ds.Weight
		v.WoLocal = v.Frame.ToLocal(woWorld)

	case CameraVertex:
		ds, ok := v.Camera.SampleDirection(sampler, v.Point, v.Pixel)
		if !ok || ds.Pdf <= 0 {
			return Vertex{}, PathEdge{}, false
		}
		woWorld, pdf, weight = ds.Direction, ds.Pdf, ds.Weight
		v.WoLocal = v.Frame.ToLocal(woWorld)

	case SurfaceVertex:
		if v.Intersection.Material == nil {
			return Vertex{}, PathEdge{}, false
		}
		ss, ok := v.Intersection.Material.Sample(v.WiLocal, sampler)
		if !ok || ss.Terminal || ss.Pdf <= 0 {
			return Vertex{}, PathEdge{}, false
		}
		v.WoLocal = ss.WoLocal
		woWorld, pdf, weight, isDelta = v.Frame.ToWorld(ss.WoLocal), ss.Pdf, ss.Weight, ss.IsDelta

	case VolumeVertex:
		// Phase-function scattering is unimplemented: no participating
		// media are modeled yet.
		return Vertex{}, PathEdge{}, false

	default:
		return Vertex{}, PathEdge{}, false
	}

	v.hasScattered = true
	return extend(scene, v.Point, v.Beta.MultiplyVec(weight), woWorld, pdf, isDelta)
}

// extend is the shared ray-cast tail every Scatter case funnels
// through: cast from origin along woWorld, and commit either a normal
// finite SurfaceVertex or, if the ray escapes the scene, a terminal
// infinite-light vertex for rays that leave the scene bounds.
func extend(scene collab.Scene, origin, nextBeta core.Vec3, woWorld core.Vec3, pdf float64, isDelta bool) (Vertex, PathEdge, bool) {
	ray := core.NewRay(origin, woWorld)

	hit, ok := scene.Intersect(ray)
	if !ok {
		emitted, hasBackground := scene.Background(ray)
		if !hasBackground {
			return Vertex{}, PathEdge{}, false
		}
		next := Vertex{
			Kind:         SurfaceVertex,
			Beta:         nextBeta,
			PdfForward:   pdf,
			IsDelta:      isDelta,
			IsInfinite:   true,
			EmittedLight: emitted,
		}
		edge := PathEdge{D: woWorld.Normalize(), Dist: math.Inf(1), RSq: math.Inf(1)}
		return next, edge, true
	}

	edge, ok := NewPathEdge(origin, hit.Point)
	if !ok {
		return Vertex{}, PathEdge{}, false
	}

	cosineAtNext := hit.GeometricNormal.AbsDot(edge.D)
	next := Vertex{
		Kind:         SurfaceVertex,
		Point:        hit.Point,
		Normal:       hit.GeometricNormal,
		Frame:        hit.Frame,
		Intersection: hit,
		Beta:         nextBeta,
		PdfForward:   solidAngleToArea(pdf, cosineAtNext, edge.RSq),
		IsDelta:      isDelta,
	}
	// WiLocal is recorded now, at commit time, rather than lazily
	// inside Scatter: a vertex may be used for a bidirectional
	// connection without ever scattering along its own subpath, and
	// the connection needs the same incoming direction a later Scatter
	// call would have used.
	next.WiLocal = next.Frame.ToLocal(edge.Reverse().D)
	if hit.Emitter != nil {
		next.EmittedLight = hit.Emitter.EvalDirectionalEmission(hit.Point, hit.GeometricNormal, edge.Reverse().D)
	}
	return next, edge, true
}
