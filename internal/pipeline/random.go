package pipeline

import (
	"math/bits"

	"gonum.org/v1/gonum/mathext/prng"
)

// Generator draws the uniform values used to synthesize attributes.
type Generator interface {
	// IntRange returns an integer in [low, high).
	IntRange(low, high int) int
	// Uniform returns a real in [low, high).
	Uniform(low, high float64) float64
}

// GeneratorFactory returns a freshly seeded Generator.
type GeneratorFactory func(seed uint64) Generator

// MT19937 is a Mersenne Twister generator seeded with init_genrand. Integers
// use masked rejection over 32-bit draws and doubles take 53 bits from two
// draws, so a seed always yields the same published reference sequence.
type MT19937 struct {
	src *prng.MT19937
}

// NewMT19937 returns an MT19937 seeded with seed. It satisfies GeneratorFactory.
func NewMT19937(seed uint64) Generator {
	src := prng.NewMT19937()
	src.Seed(seed)
	return &MT19937{src: src}
}

// IntRange uses masked rejection sampling over 32-bit draws.
func (g *MT19937) IntRange(low, high int) int {
	if high-low <= 1 {
		return low
	}
	rng := uint64(high - low - 1)
	if rng <= 0xFFFFFFFF {
		mask := uint32(1)<<bits.Len32(uint32(rng)) - 1
		for {
			v := g.src.Uint32() & mask
			if uint64(v) <= rng {
				return low + int(v)
			}
		}
	}
	mask := uint64(1)<<bits.Len64(rng) - 1
	for {
		v := g.src.Uint64() & mask
		if v <= rng {
			return low + int(v)
		}
	}
}

// Float64 returns a 53-bit double in [0, 1).
func (g *MT19937) Float64() float64 {
	a := g.src.Uint32() >> 5
	b := g.src.Uint32() >> 6
	return (float64(a)*67108864.0 + float64(b)) / 9007199254740992.0
}

func (g *MT19937) Uniform(low, high float64) float64 {
	return low + (high-low)*g.Float64()
}
