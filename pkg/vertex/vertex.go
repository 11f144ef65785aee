package vertex

import (
	"github.com/voxellight/bdpt/pkg/collab"
	"github.com/voxellight/bdpt/pkg/core"
)

// Vertex is one stop on a camera or emitter subpath. Every kind shares
// this one struct; Kind says which fields are meaningful. A root
// vertex (EmitterRoot/CameraRoot) only carries the handle fields
// (Emitter/Camera) until CommitRoot commits it into a real position.
type Vertex struct {
	Kind Kind

	// Position state, valid for every non-root kind.
	Point  core.Vec3
	Normal core.Vec3
	Frame  core.Frame

	// Handles back into the external collaborators, borrowed for the
	// vertex's lifetime and never owned. At most one of these is set,
	// matching Kind.
	Emitter collab.Emitter
	Camera  collab.Camera
	Medium  collab.Medium

	// Intersection holds the full ray-surface hit for a SurfaceVertex,
	// stored BY VALUE so the vertex array never holds a pointer into
	// shared scene state.
	Intersection collab.Intersection

	// Pixel is the sensor target for CameraRoot/CameraVertex.
	Pixel collab.Pixel

	// Beta is the accumulated path throughput up to and including this
	// vertex: the product of every weight term along the way, already
	// divided by its sampling pdf.
	Beta core.Vec3

	// PdfForward is the area-measure pdf of having sampled this vertex
	// given its predecessor. For a root-successor this already
	// includes the emitter/camera selection pdf.
	PdfForward float64
	// PdfBackward is the area-measure pdf of having sampled THIS
	// vertex from its successor, computed from the successor's reverse
	// BSDF query (see ReverseAreaPdf) once the successor's incoming and
	// outgoing directions are both known. Zero until pkg/path fills it
	// in after the successor's own Scatter call.
	PdfBackward float64

	// SelectionPdf is the bare probability of having chosen this root's
	// emitter among all of them, meaningful only before CommitRoot:
	// CommitRoot divides it into Beta and multiplies it into the
	// committed vertex's PdfForward, then discards it. A camera root's
	// selection pdf is always 1 (there is one camera).
	SelectionPdf float64

	// IsDelta marks a vertex reached via a specular (delta) scattering
	// event: it can never be hit by another strategy's connection, and
	// MIS must give it a reverse pdf of zero rather than try to
	// evaluate a continuous density that doesn't exist.
	IsDelta bool

	// IsInfinite marks a terminal vertex created when a camera ray
	// escaped the scene and hit the background/infinite light instead
	// of a surface; EmittedLight is filled and no geometric pdf
	// conversion applies (there is no finite point to convert around).
	IsInfinite bool

	// EmittedLight is the radiance leaving this vertex toward its
	// predecessor: either a surface's own emission or the background's
	// response to an escaping ray.
	EmittedLight core.Vec3

	// WiLocal and WoLocal are the local-frame incoming/outgoing
	// directions used by the scattering event that produced this
	// vertex's successor. They are retained so ReverseAreaPdf can query
	// the material a second time with the directions flipped, without
	// needing the predecessor's geometry again.
	WiLocal, WoLocal core.Vec3
	hasScattered     bool
}

// NewEmitterRoot starts an emitter subpath at the placeholder root; it
// holds only the chosen emitter handle until CommitRoot samples a
// position on it.
func NewEmitterRoot(emitter collab.Emitter, selectionPdf float64) Vertex {
	return Vertex{Kind: EmitterRoot, Emitter: emitter, SelectionPdf: selectionPdf}
}

// NewCameraRoot starts a camera subpath at the placeholder root for
// the given target pixel.
func NewCameraRoot(camera collab.Camera, pixel collab.Pixel) Vertex {
	return Vertex{Kind: CameraRoot, Camera: camera, Pixel: pixel, SelectionPdf: 1}
}

// Pos returns the vertex's world-space position. It must not be called
// on a root vertex.
func (v Vertex) Pos() core.Vec3 {
	return v.Point
}

// CosineFactor returns the absolute cosine between this vertex's
// geometric normal and the given direction, used when converting a
// solid-angle pdf to area measure across the edge `d` was built from.
func (v Vertex) CosineFactor(d core.Vec3) float64 {
	return v.Normal.AbsDot(d)
}

// IsConnectible reports whether this vertex can participate in a
// bidirectional connection. Delta vertices and the unset roots cannot.
func (v Vertex) IsConnectible() bool {
	return !v.Kind.IsRoot() && !v.IsDelta
}

// IsLight reports whether this vertex is capable of emitting toward a
// predecessor: an EmitterVertex, or a surface vertex whose
// intersection carries an emitter.
func (v Vertex) IsLight() bool {
	if v.Kind == EmitterVertex {
		return true
	}
	return v.Kind == SurfaceVertex && v.Intersection.Emitter != nil
}

// SurfaceEmitter returns the emitter handle for a surface vertex that
// is itself emissive, or nil.
func (v Vertex) SurfaceEmitter() collab.Emitter {
	if v.Kind == SurfaceVertex {
		return v.Intersection.Emitter
	}
	return nil
}

// IsCamera reports whether this vertex is a camera endpoint.
func (v Vertex) IsCamera() bool {
	return v.Kind == CameraVertex
}
