// Package integrator drives one pixel sample of bidirectional path
// tracing: build a camera subpath and an emitter subpath, connect
// every admissible pair with a balance-heuristic MIS weight, and
// splat the light-tracing family directly to the framebuffer. It is
// the entry point a surrounding tile scheduler calls concurrently;
// an Integrator holds no per-call state, so workers may share one.
package integrator

import (
	"github.com/voxellight/bdpt/pkg/collab"
	"github.com/voxellight/bdpt/pkg/connect"
	"github.com/voxellight/bdpt/pkg/core"
	"github.com/voxellight/bdpt/pkg/mis"
	"github.com/voxellight/bdpt/pkg/path"
	"github.com/voxellight/bdpt/pkg/vertex"

	"github.com/voxellight/bdpt/internal/rlog"
)

// Integrator owns the scene collaborators a single TraceSample call
// needs. Every field is read-only once constructed, so one Integrator
// can safely be shared across concurrent render goroutines; nothing
// here holds per-call mutable state.
type Integrator struct {
	Scene       collab.Scene
	Camera      collab.Camera
	Emitters    []collab.Emitter
	EmitterDist collab.EmitterDistribution
	Framebuffer collab.Framebuffer
	MaxBounces  int
	Log         rlog.Logger
}

// TraceSample renders one sample of the given pixel: it builds both
// subpaths, sums every generic-connection strategy into the returned
// color, splats every t=0 light-tracing strategy onto Framebuffer, and
// folds in the path-tracing (camera-hits-emitter) estimator for the
// camera path's own final vertex.
func (bdpt *Integrator) TraceSample(pixel collab.Pixel, sampler collab.Sampler) core.Vec3 {
	cameraPath := path.StartCameraPath(bdpt.Camera, pixel, sampler)
	cameraPath.TracePath(bdpt.Scene, sampler, bdpt.MaxBounces+1)

	emitterPath := bdpt.startEmitterPath(sampler)
	if emitterPath != nil {
		emitterPath.TracePath(bdpt.Scene, sampler, bdpt.MaxBounces+1)
	}

	color := core.Vec3{}

	if cameraPath.Length() > 0 {
		color = color.Add(bdpt.directHitContribution(cameraPath))
	}

	if emitterPath == nil {
		return color
	}

	for s := 0; s < emitterPath.Length(); s++ {
		for t := 0; t <= cameraPath.Length()-2 && s+t <= bdpt.MaxBounces; t++ {
			a := emitterPath.Vertex(s)
			b := cameraPath.Vertex(t)

			if t == 0 {
				bdpt.splatStrategy(a, s, t, cameraPath, emitterPath, sampler)
				continue
			}

			contribution := connect.Connect(bdpt.Scene, a, b)
			if contribution.IsZero() {
				continue
			}

			edge, ok := vertex.NewPathEdge(a.Pos(), b.Pos())
			if !ok {
				continue
			}
			weight := mis.Weight(emitterPath, cameraPath, s, t, edge)
			if bdpt.Log != nil {
				bdpt.Log.Debugf("(s=%d,t=%d) connect=%v weight=%.4g", s, t, contribution, weight)
			}
			color = color.Add(contribution.Multiply(weight))
		}
	}

	return color
}

// splatStrategy handles the t==0 family: the connection targets the
// camera's own sampled lens position rather than a vertex already on
// cameraPath, so the contribution belongs to whatever pixel the
// camera resolves it to, not the one currently being shaded.
func (bdpt *Integrator) splatStrategy(a vertex.Vertex, s, t int, cameraPath, emitterPath *path.LightPath, sampler collab.Sampler) {
	contribution, pixel, ok := connect.ConnectSplat(bdpt.Scene, bdpt.Camera, a, sampler)
	if !ok || contribution.IsZero() {
		return
	}

	edge, ok := vertex.NewPathEdge(a.Pos(), cameraPath.Vertex(0).Pos())
	if !ok {
		return
	}
	weight := mis.Weight(emitterPath, cameraPath, s, 0, edge)
	if weight <= 0 {
		return
	}
	bdpt.Framebuffer.Splat(pixel, contribution.Multiply(weight))
}

// directHitContribution evaluates the camera path's own final vertex
// as a light source it happened to hit: no emitter subpath is
// involved, so its MIS weight comes from
// mis.WeightDirectHit instead of mis.Weight, using the selection pdf
// of whichever emitter this particular vertex landed on (not the one
// chosen for the emitter subpath, which is independent).
func (bdpt *Integrator) directHitContribution(cameraPath *path.LightPath) core.Vec3 {
	last := cameraPath.Vertex(cameraPath.Length() - 1)
	if last.EmittedLight.IsZero() {
		return core.Vec3{}
	}

	t := cameraPath.Length() - 1
	weight := 1.0
	if emitter := last.SurfaceEmitter(); emitter != nil && t > 0 {
		weight = mis.WeightDirectHit(cameraPath, t, bdpt.selectionPdfOf(emitter), emitter)
	}

	return last.EmittedLight.MultiplyVec(last.Beta).Multiply(weight)
}

// selectionPdfOf returns the discrete probability EmitterDist assigns
// to e. Emitters implementations are typically small, stable scene
// objects, so a linear scan against the Integrator's own registry is
// cheap compared to the ray intersection that found e in the first
// place.
func (bdpt *Integrator) selectionPdfOf(e collab.Emitter) float64 {
	if bdpt.EmitterDist == nil {
		return 0
	}
	for i, candidate := range bdpt.Emitters {
		if candidate == e {
			return bdpt.EmitterDist.Pdf(i)
		}
	}
	return 0
}

// startEmitterPath selects an emitter via EmitterDist (power-
// proportional selection) and begins an emitter subpath from it.
// Returns nil when the scene has no emitters.
func (bdpt *Integrator) startEmitterPath(sampler collab.Sampler) *path.LightPath {
	if bdpt.EmitterDist == nil || bdpt.EmitterDist.Count() == 0 {
		return nil
	}
	index, pdf := bdpt.EmitterDist.Sample(sampler.Get1D())
	if pdf <= 0 || index < 0 || index >= len(bdpt.Emitters) {
		return nil
	}
	return path.StartEmitterPath(bdpt.Emitters[index], pdf, sampler)
}
