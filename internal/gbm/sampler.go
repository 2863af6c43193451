package gbm

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler draws standard normal variates. distuv.Normal satisfies it.
type Sampler interface {
	Rand() float64
}

var _ Sampler = distuv.UnitNormal

// seededSampler is a reproducible standard normal source.
type seededSampler struct {
	rnd *rand.Rand
}

// NewSeededSampler returns a Sampler that yields the same sequence for the same seed.
func NewSeededSampler(seed uint64) Sampler {
	return &seededSampler{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *seededSampler) Rand() float64 { return s.rnd.NormFloat64() }

// ConstantSampler always returns its value. Useful to pin paths in tests.
type ConstantSampler float64

func (c ConstantSampler) Rand() float64 { return float64(c) }
