package physics

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// jiggleScale bounds the displacement used to separate coincident bodies
const jiggleScale = 1e-6

// Jitter is a deterministic noise source seeded per simulation. It perturbs
// the initial layout and breaks ties between coincident bodies.
type Jitter struct {
	noise opensimplex.Noise
	step  float64
}

// NewJitter creates a jitter source for the given seed
func NewJitter(seed int64) *Jitter {
	return &Jitter{noise: opensimplex.New(seed)}
}

// Jiggle returns a tiny non-zero value. The walk offsets keep samples off the
// integer lattice where simplex noise vanishes.
func (j *Jitter) Jiggle() float64 {
	j.step += 0.618034
	v := j.noise.Eval2(j.step, 0.5+j.step*0.37)
	if math.Abs(v) < 1e-3 {
		v = math.Copysign(1e-3, v)
	}
	return v * jiggleScale
}

// Offset returns a smooth 2-D perturbation for body i with the given amplitude
func (j *Jitter) Offset(i int, amplitude float64) Vector {
	t := float64(i) * 0.73
	return Vector{
		X: j.noise.Eval2(t, 17.31) * amplitude,
		Y: j.noise.Eval2(41.07, t) * amplitude,
	}
}
