package vertex

import "github.com/voxellight/bdpt/pkg/core"

// PositionWeight returns the position-sampling Monte-Carlo weight
// (value / pdf) recorded when this vertex was committed: an emitter or
// camera PositionSample's Weight field, already fused with the
// emitter/camera selection pdf for a root-successor. For any other
// vertex it is simply Beta, the accumulated path throughput.
func (v Vertex) PositionWeight() core.Vec3 {
	return v.Beta
}

// Eval returns the local scattering value (BSDF or phase function)
// this vertex contributes toward the direction `toward`, arriving from
// this vertex's own recorded WiLocal (set when the vertex was
// committed; see pkg/vertex/scatter.go). `toward` is a world-space
// direction; it is transformed into this vertex's shading frame here.
func (v Vertex) Eval(toward core.Vec3) core.Vec3 {
	switch v.Kind {
	case SurfaceVertex:
		if v.Intersection.Material == nil {
			return core.Vec3{}
		}
		return v.Intersection.Material.Eval(v.WiLocal, v.Frame.ToLocal(toward))
	case VolumeVertex:
		if v.Medium == nil {
			return core.Vec3{}
		}
		return v.Medium.EvalPhase(v.WiLocal, v.Frame.ToLocal(toward))
	default:
		return core.Vec3{}
	}
}

// EvalPdfs returns the forward pdf (sampling `nextEdge`'s direction
// given arrival from this vertex's own WiLocal) and the reverse pdf
// (sampling this vertex's incoming direction given a hypothetical
// arrival from `nextEdge` instead), both converted to area measure:
// forward at the vertex nextEdge points at, reverse at prevCosine/
// prevRSq's end (the vertex this one's WiLocal points back to).
func (v Vertex) EvalPdfs(nextEdge PathEdge, nextCosine, prevCosine, prevRSq float64) (forward, reverse float64) {
	wo := v.Frame.ToLocal(nextEdge.D)
	switch v.Kind {
	case SurfaceVertex:
		if v.Intersection.Material == nil {
			return 0, 0
		}
		if pdf, isDelta := v.Intersection.Material.Pdf(v.WiLocal, wo); !isDelta {
			forward = solidAngleToArea(pdf, nextCosine, nextEdge.RSq)
		}
		if pdf, isDelta := v.Intersection.Material.Pdf(wo, v.WiLocal); !isDelta {
			reverse = solidAngleToArea(pdf, prevCosine, prevRSq)
		}
		return forward, reverse
	case VolumeVertex:
		if v.Medium == nil {
			return 0, 0
		}
		forward = solidAngleToArea(v.Medium.PhasePdf(v.WiLocal, wo), nextCosine, nextEdge.RSq)
		reverse = solidAngleToArea(v.Medium.PhasePdf(wo, v.WiLocal), prevCosine, prevRSq)
		return forward, reverse
	default:
		return 0, 0
	}
}

// solidAngleToArea converts a solid-angle-measure pdf to area measure
// across an edge of squared length rSq, using the cosine at the
// receiving end: the standard cos theta / r^2 Jacobian (PBRT's
// ConvertDensity).
func solidAngleToArea(solidAnglePdf, cosine, rSq float64) float64 {
	if rSq <= 0 {
		return 0
	}
	return solidAnglePdf * cosine / rSq
}

// SolidAngleToArea is the exported form of the same conversion, for
// callers outside this package (pkg/mis) that need to build an
// area-measure pdf from a raw world-space material/phase query instead
// of one of this type's fixed-wi helpers above.
func SolidAngleToArea(solidAnglePdf, cosine, rSq float64) float64 {
	return solidAngleToArea(solidAnglePdf, cosine, rSq)
}

// Pdf is the raw, unconverted solid-angle pdf of this vertex's
// material or phase function responding to an arbitrary pair of
// world-space directions. Unlike Eval/EvalPdfs, it does not assume
// either direction is this vertex's own recorded WiLocal. pkg/mis uses
// this to recompute the pdfs at the two vertices adjacent to a
// bidirectional connection, where the relevant directions are the
// connecting edge rather than either vertex's original subpath
// continuation.
func (v Vertex) Pdf(wiWorld, woWorld core.Vec3) (pdf float64, isDelta bool) {
	wi, wo := v.Frame.ToLocal(wiWorld), v.Frame.ToLocal(woWorld)
	switch v.Kind {
	case SurfaceVertex:
		if v.Intersection.Material == nil {
			return 0, false
		}
		return v.Intersection.Material.Pdf(wi, wo)
	case VolumeVertex:
		if v.Medium == nil {
			return 0, false
		}
		return v.Medium.PhasePdf(wi, wo), false
	default:
		return 0, false
	}
}

// ReverseAreaPdf returns the area-measure pdf of having sampled v's
// OWN predecessor, as seen by running v's scattering event backwards:
// it queries v's material/phase function with v's own WiLocal/WoLocal
// swapped (the direction transport actually took was prev->v->next;
// this asks "what is the density of prev, given arrival from next and
// departure towards prev"), then converts to area measure using the
// predecessor's cosine and squared distance. The caller stores the
// result into the PREDECESSOR vertex's PdfBackward field, not v's own,
// since it is v's scattering event, not the predecessor's, that
// determines it. Requires v.hasScattered; returns 0 otherwise.
func (v Vertex) ReverseAreaPdf(prevCosine, prevRSq float64) float64 {
	if !v.hasScattered {
		return 0
	}
	switch v.Kind {
	case SurfaceVertex:
		if v.Intersection.Material == nil {
			return 0
		}
		pdf, isDelta := v.Intersection.Material.Pdf(v.WoLocal, v.WiLocal)
		if isDelta {
			return 0
		}
		return solidAngleToArea(pdf, prevCosine, prevRSq)
	case VolumeVertex:
		if v.Medium == nil {
			return 0
		}
		return solidAngleToArea(v.Medium.PhasePdf(v.WoLocal, v.WiLocal), prevCosine, prevRSq)
	default:
		return 0
	}
}
