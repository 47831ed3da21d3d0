package smiley

import (
	"math/rand/v2"

	"github.com/edwinsyarief/kecil/console"
)

// Kinematics is a ball's position and velocity in pixels per frame.
type Kinematics struct {
	X, Y   float32
	VX, VY float32
}

// Physics holds the constants the physics system applies to a ball.
type Physics struct {
	GravityMult float32
	W, H        float32
	Elasticity  float32
}

// Raining marks a ball that is replaced by a fresh one when its countdown
// reaches zero.
type Raining struct {
	Countdown int
}

// Rng is the cart's random source, stored as a world resource.
type Rng struct {
	r *rand.Rand
}

// NewRng returns a PCG generator seeded with seed.
func NewRng(seed uint64) *Rng {
	return &Rng{r: rand.New(rand.NewPCG(seed, seed))}
}

// Range returns a value in [lo, hi).
func (g *Rng) Range(lo, hi float32) float32 {
	return lo + g.r.Float32()*(hi-lo)
}

// IntN returns a value in [0, n).
func (g *Rng) IntN(n int) int {
	return g.r.IntN(n)
}

// Screen gives systems the console memory they draw into and read input from.
type Screen struct {
	Mem *console.Memory
}
