package physics

import (
	"math"
)

// CollisionConstraint treats each body as a disc and pushes overlapping discs
// apart. It works on positions after integration, so it removes overlap
// without cancelling the velocity the attraction forces built up.
type CollisionConstraint struct {
	Padding    float64
	Iterations int
	jitter     *Jitter
}

// NewCollisionConstraint creates a collision pass. The collision radius of a
// body is its visual radius plus padding.
func NewCollisionConstraint(padding float64, iterations int, jitter *Jitter) *CollisionConstraint {
	return &CollisionConstraint{Padding: padding, Iterations: iterations, jitter: jitter}
}

// Name returns the name of the constraint
func (c *CollisionConstraint) Name() string { return "collide" }

// Radius is the collision radius of a body
func (c *CollisionConstraint) Radius(b Body) float64 {
	return b.Radius + c.Padding
}

// Correct separates overlapping discs. Pinned bodies never move; the other
// body of the pair takes the whole correction.
func (c *CollisionConstraint) Correct(bodies []Body) {
	if len(bodies) < 2 {
		return
	}
	for iter := 0; iter < c.Iterations; iter++ {
		root := buildQuadtree(bodies)
		moved := false

		for i := range bodies {
			ri := c.Radius(bodies[i])
			// the tree holds positions from the start of this iteration
			qx, qy := bodies[i].X, bodies[i].Y
			root.visit(func(q *quad) bool {
				reach := ri + q.maxR + c.Padding
				if qx+reach < q.x0 || qx-reach > q.x0+q.size ||
					qy+reach < q.y0 || qy-reach > q.y0+q.size {
					return true
				}
				if !q.leaf() {
					return false
				}
				for _, j := range q.bodies {
					if j <= i {
						continue
					}
					if c.separate(&bodies[i], &bodies[j], ri) {
						moved = true
					}
				}
				return true
			})
		}

		if !moved {
			return
		}
	}
}

// separate resolves one pair and reports whether anything moved
func (c *CollisionConstraint) separate(a, b *Body, ra float64) bool {
	rb := c.Radius(*b)
	minDist := ra + rb
	dx := b.X - a.X
	dy := b.Y - a.Y
	d2 := dx*dx + dy*dy
	if d2 >= minDist*minDist {
		return false
	}
	if a.Pinned && b.Pinned {
		return false
	}
	if d2 == 0 {
		dx = c.jitter.Jiggle()
		dy = c.jitter.Jiggle()
		d2 = dx*dx + dy*dy
	}
	d := math.Sqrt(d2)
	overlap := minDist - d
	ux, uy := dx/d, dy/d

	// heavier (larger) discs move less
	wa := rb * rb / (ra*ra + rb*rb)
	switch {
	case a.Pinned:
		wa = 0
	case b.Pinned:
		wa = 1
	}
	wb := 1 - wa

	a.X -= ux * overlap * wa
	a.Y -= uy * overlap * wa
	b.X += ux * overlap * wb
	b.Y += uy * overlap * wb
	return true
}
