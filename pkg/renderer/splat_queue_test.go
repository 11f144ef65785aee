package renderer

import (
	"sync"
	"testing"

	"github.com/voxellight/bdpt/pkg/collab"
	"github.com/voxellight/bdpt/pkg/core"
)

func TestAtomicFramebuffer_SplatAccumulates(t *testing.T) {
	fb := NewAtomicFramebuffer(4, 4)

	fb.Splat(collab.Pixel{X: 1, Y: 2}, core.Vec3{X: 0.5, Y: 0.3, Z: 0.1})
	fb.Splat(collab.Pixel{X: 1, Y: 2}, core.Vec3{X: 0.5, Y: 0.3, Z: 0.1})

	got := fb.At(1, 2)
	want := core.Vec3{X: 1.0, Y: 0.6, Z: 0.2}
	if got.Subtract(want).Length() > 1e-9 {
		t.Errorf("expected accumulated %v, got %v", want, got)
	}
}

func TestAtomicFramebuffer_OutOfBoundsIgnored(t *testing.T) {
	fb := NewAtomicFramebuffer(4, 4)

	fb.Splat(collab.Pixel{X: -1, Y: 0}, core.Vec3{X: 1, Y: 1, Z: 1})
	fb.Splat(collab.Pixel{X: 0, Y: 10}, core.Vec3{X: 1, Y: 1, Z: 1})

	if got := fb.At(0, 0); !got.IsZero() {
		t.Errorf("expected untouched cell to stay zero, got %v", got)
	}
}

func TestAtomicFramebuffer_ConcurrentSplatsDontLoseUpdates(t *testing.T) {
	fb := NewAtomicFramebuffer(1, 1)

	const goroutines = 20
	const perGoroutine = 50

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				fb.Splat(collab.Pixel{X: 0, Y: 0}, core.Vec3{X: 1, Y: 0, Z: 0})
			}
		}()
	}
	wg.Wait()

	want := float64(goroutines * perGoroutine)
	if got := fb.At(0, 0).X; got != want {
		t.Errorf("expected %v accumulated splats, got %v", want, got)
	}
}
