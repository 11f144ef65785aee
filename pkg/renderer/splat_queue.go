// Package renderer holds the one external collaborator this module
// ships a concrete implementation of: the splat framebuffer. Every
// other collab.* interface (scene, camera, materials, emitters) is
// left to the caller, but a lock-free atomic accumulation target is
// general-purpose infrastructure worth shipping, turning an
// append-only splat log into a true per-pixel accumulator.
package renderer

import (
	"math"
	"sync/atomic"

	"github.com/voxellight/bdpt/pkg/collab"
	"github.com/voxellight/bdpt/pkg/core"
)

// AtomicFramebuffer is a width*height grid of RGB accumulators that
// many rendering goroutines can Splat into concurrently with no
// locking: each channel is a uint64 holding the IEEE-754 bits of the
// accumulated float64, updated with a compare-and-swap retry loop.
type AtomicFramebuffer struct {
	width, height int
	r, g, b       []uint64
}

// NewAtomicFramebuffer allocates a zeroed framebuffer of the given
// dimensions.
func NewAtomicFramebuffer(width, height int) *AtomicFramebuffer {
	n := width * height
	return &AtomicFramebuffer{
		width:  width,
		height: height,
		r:      make([]uint64, n),
		g:      make([]uint64, n),
		b:      make([]uint64, n),
	}
}

// Splat adds color into the cell at pixel, ignoring out-of-bounds
// pixels (a light-tracing connection can resolve to a pixel outside
// the current crop window).
func (fb *AtomicFramebuffer) Splat(pixel collab.Pixel, color core.Vec3) {
	if pixel.X < 0 || pixel.X >= fb.width || pixel.Y < 0 || pixel.Y >= fb.height {
		return
	}
	i := pixel.Y*fb.width + pixel.X
	addFloat64(&fb.r[i], color.X)
	addFloat64(&fb.g[i], color.Y)
	addFloat64(&fb.b[i], color.Z)
}

// At returns the accumulated color at (x, y). Callers typically divide
// by the sample count once rendering completes.
func (fb *AtomicFramebuffer) At(x, y int) core.Vec3 {
	i := y*fb.width + x
	return core.Vec3{
		X: math.Float64frombits(atomic.LoadUint64(&fb.r[i])),
		Y: math.Float64frombits(atomic.LoadUint64(&fb.g[i])),
		Z: math.Float64frombits(atomic.LoadUint64(&fb.b[i])),
	}
}

// Width and Height report the framebuffer's dimensions.
func (fb *AtomicFramebuffer) Width() int  { return fb.width }
func (fb *AtomicFramebuffer) Height() int { return fb.height }

func addFloat64(addr *uint64, delta float64) {
	for {
		old := atomic.LoadUint64(addr)
		newVal := math.Float64bits(math.Float64frombits(old) + delta)
		if atomic.CompareAndSwapUint64(addr, old, newVal) {
			return
		}
	}
}
