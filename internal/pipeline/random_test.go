package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Reference draws for seed 0.
func TestMT19937ReferenceSequence(t *testing.T) {
	g := NewMT19937(0)
	var got []int
	for i := 0; i < 5; i++ {
		got = append(got, g.IntRange(50, 500))
	}
	assert.Equal(t, []int{222, 97, 167, 242, 373}, got)

	g = NewMT19937(0)
	assert.InDelta(t, 3.195254015709299, g.Uniform(1, 5), 1e-15)
	assert.InDelta(t, 3.860757465489678, g.Uniform(1, 5), 1e-15)

	mt := NewMT19937(0).(*MT19937)
	assert.Equal(t, 0.5488135039273248, mt.Float64())
}

func TestMT19937OtherSeed(t *testing.T) {
	g := NewMT19937(42)
	assert.Equal(t, 152, g.IntRange(50, 500))
	assert.Equal(t, 485, g.IntRange(50, 500))
	assert.Equal(t, 398, g.IntRange(50, 500))
}

func TestMT19937Ranges(t *testing.T) {
	g := NewMT19937(123)
	for i := 0; i < 2000; i++ {
		n := g.IntRange(50, 500)
		assert.GreaterOrEqual(t, n, 50)
		assert.Less(t, n, 500)
		u := g.Uniform(-124, -67)
		assert.GreaterOrEqual(t, u, -124.0)
		assert.Less(t, u, -67.0)
	}
	assert.Equal(t, 7, g.IntRange(7, 8))
}

func TestRoundTenthsHalfEven(t *testing.T) {
	assert.Equal(t, 3.2, roundTenths(3.195254015709299))
	assert.Equal(t, 0.2, roundTenths(0.25))
	assert.Equal(t, 5.0, roundTenths(4.99))
}
