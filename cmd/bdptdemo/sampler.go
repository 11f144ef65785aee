package main

import (
	"math/rand"

	"github.com/voxellight/bdpt/pkg/core"
)

// randomSampler wraps a standard Go random generator to satisfy
// collab.Sampler, one per render goroutine.
type randomSampler struct {
	random *rand.Rand
}

func newRandomSampler(seed int64) *randomSampler {
	return &randomSampler{random: rand.New(rand.NewSource(seed))}
}

func (s *randomSampler) Get1D() float64 {
	return s.random.Float64()
}

func (s *randomSampler) Get2D() core.Vec2 {
	return core.NewVec2(s.random.Float64(), s.random.Float64())
}
