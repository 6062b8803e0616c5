package physics

import (
	"math"
)

// Force contributes an alpha-scaled per-body force. Forces only read the
// bodies and add into acc; the simulation sums all contributions before
// integrating, so their order does not matter.
type Force interface {
	Name() string
	Apply(alpha float64, bodies []Body, acc []Vector)
}

// Constraint corrects body positions after integration
type Constraint interface {
	Name() string
	Correct(bodies []Body)
}

// link is an edge resolved to body indices
type link struct {
	source, target int
	strength       float64
	bias           float64
}

// LinkForce pulls the endpoints of every edge toward a rest distance
type LinkForce struct {
	Distance float64
	links    []link
	jitter   *Jitter
}

// NewLinkForce resolves edges to springs. Each spring's strength is the
// inverse of the smaller endpoint degree, and its bias moves the lower-degree
// endpoint more. Self-loops are dropped.
func NewLinkForce(pairs [][2]int, bodyCount int, distance float64, jitter *Jitter) *LinkForce {
	degree := make([]int, bodyCount)
	for _, p := range pairs {
		if p[0] == p[1] {
			continue
		}
		degree[p[0]]++
		degree[p[1]]++
	}

	links := make([]link, 0, len(pairs))
	for _, p := range pairs {
		if p[0] == p[1] {
			continue
		}
		ds, dt := float64(degree[p[0]]), float64(degree[p[1]])
		links = append(links, link{
			source:   p[0],
			target:   p[1],
			strength: 1 / math.Min(ds, dt),
			bias:     ds / (ds + dt),
		})
	}
	return &LinkForce{Distance: distance, links: links, jitter: jitter}
}

// Name returns the name of the force
func (f *LinkForce) Name() string { return "link" }

// Apply adds the spring contributions
func (f *LinkForce) Apply(alpha float64, bodies []Body, acc []Vector) {
	for _, l := range f.links {
		s, t := &bodies[l.source], &bodies[l.target]
		dx := t.X - s.X
		dy := t.Y - s.Y
		if dx == 0 && dy == 0 {
			dx = f.jitter.Jiggle()
			dy = f.jitter.Jiggle()
		}
		dist := math.Sqrt(dx*dx + dy*dy)
		k := (dist - f.Distance) / dist * alpha * l.strength
		dx *= k
		dy *= k
		acc[l.target].X -= dx * l.bias
		acc[l.target].Y -= dy * l.bias
		acc[l.source].X += dx * (1 - l.bias)
		acc[l.source].Y += dy * (1 - l.bias)
	}
}

// Springs returns the number of active springs (self-loops excluded)
func (f *LinkForce) Springs() int { return len(f.links) }

// ChargeForce makes every body repel every other with a magnitude inversely
// proportional to the squared distance. Far-away groups are approximated by
// their center of mass (Barnes-Hut); Theta 0 evaluates every pair.
type ChargeForce struct {
	Strength    float64
	DistanceMin float64
	Theta       float64
	jitter      *Jitter
}

// NewChargeForce creates a repulsion force
func NewChargeForce(strength, distanceMin, theta float64, jitter *Jitter) *ChargeForce {
	return &ChargeForce{Strength: strength, DistanceMin: distanceMin, Theta: theta, jitter: jitter}
}

// Name returns the name of the force
func (f *ChargeForce) Name() string { return "charge" }

// Apply adds the repulsion contributions
func (f *ChargeForce) Apply(alpha float64, bodies []Body, acc []Vector) {
	if len(bodies) < 2 || f.Strength == 0 {
		return
	}
	root := buildQuadtree(bodies)
	minD2 := f.DistanceMin * f.DistanceMin
	theta2 := f.Theta * f.Theta

	for i := range bodies {
		bx, by := bodies[i].X, bodies[i].Y
		var fx, fy float64

		root.visit(func(q *quad) bool {
			if !q.leaf() {
				dx := q.cx - bx
				dy := q.cy - by
				d2 := dx*dx + dy*dy
				// open the cell unless it is small relative to its distance
				if d2 > 0 && q.size*q.size < theta2*d2 {
					cx, cy := f.push(dx, dy, d2, minD2, alpha*q.mass)
					fx += cx
					fy += cy
					return true
				}
				return false
			}
			for _, j := range q.bodies {
				if j == i {
					continue
				}
				dx := bodies[j].X - bx
				dy := bodies[j].Y - by
				d2 := dx*dx + dy*dy
				if d2 == 0 {
					dx = f.jitter.Jiggle()
					dy = f.jitter.Jiggle()
					d2 = dx*dx + dy*dy
				}
				cx, cy := f.push(dx, dy, d2, minD2, alpha)
				fx += cx
				fy += cy
			}
			return true
		})

		acc[i].X += fx
		acc[i].Y += fy
	}
}

// push returns the force on a body from a source at offset (dx, dy)
func (f *ChargeForce) push(dx, dy, d2, minD2, weight float64) (float64, float64) {
	d := math.Sqrt(d2)
	w := f.Strength * weight / math.Max(d2, minD2)
	return dx / d * w, dy / d * w
}

// CenterForce translates all bodies together so their centroid moves toward
// the center. It never changes relative positions.
type CenterForce struct {
	Center   Vector
	Strength float64
}

// Name returns the name of the force
func (f *CenterForce) Name() string { return "center" }

// Apply adds the same correction to every body
func (f *CenterForce) Apply(alpha float64, bodies []Body, acc []Vector) {
	if len(bodies) == 0 {
		return
	}
	var sx, sy float64
	for _, b := range bodies {
		sx += b.X
		sy += b.Y
	}
	n := float64(len(bodies))
	shiftX := (f.Center.X - sx/n) * f.Strength * alpha
	shiftY := (f.Center.Y - sy/n) * f.Strength * alpha
	for i := range acc {
		acc[i].X += shiftX
		acc[i].Y += shiftY
	}
}

// GravityForce pulls each body toward the center in proportion to its
// distance, so isolated nodes and small components do not drift away
type GravityForce struct {
	Center   Vector
	Strength float64
}

// Name returns the name of the force
func (f *GravityForce) Name() string { return "gravity" }

// Apply adds the per-body pull
func (f *GravityForce) Apply(alpha float64, bodies []Body, acc []Vector) {
	k := f.Strength * alpha
	for i, b := range bodies {
		acc[i].X += (f.Center.X - b.X) * k
		acc[i].Y += (f.Center.Y - b.Y) * k
	}
}
