package physics

import "math"

// maxQuadDepth stops subdivision; bodies reaching it share a leaf. This is
// what keeps coincident bodies from recursing forever.
const maxQuadDepth = 24

// quad is a square cell of the spatial decomposition used by the charge
// (Barnes-Hut) and collision passes.
type quad struct {
	x0, y0, size float64

	children [4]*quad
	bodies   []int // body indices, leaves only

	// aggregates, filled by finish
	mass   float64
	cx, cy float64
	maxR   float64
}

func (q *quad) leaf() bool {
	return q.children == [4]*quad{}
}

// buildQuadtree constructs a quadtree over the body positions
func buildQuadtree(bodies []Body) *quad {
	if len(bodies) == 0 {
		return nil
	}

	minX, maxX := bodies[0].X, bodies[0].X
	minY, maxY := bodies[0].Y, bodies[0].Y
	for i := 1; i < len(bodies); i++ {
		minX = math.Min(minX, bodies[i].X)
		maxX = math.Max(maxX, bodies[i].X)
		minY = math.Min(minY, bodies[i].Y)
		maxY = math.Max(maxY, bodies[i].Y)
	}

	// Square bounds with a little padding so no body sits on the border
	size := math.Max(maxX-minX, maxY-minY)
	padding := math.Max(size*0.05, 1)
	size += 2 * padding

	root := &quad{x0: minX - padding, y0: minY - padding, size: size}
	for i := range bodies {
		root.insert(bodies, i, 0)
	}
	root.finish(bodies)
	return root
}

func (q *quad) insert(bodies []Body, i, depth int) {
	if q.leaf() {
		if len(q.bodies) == 0 || depth >= maxQuadDepth {
			q.bodies = append(q.bodies, i)
			return
		}
		// Split: push the existing occupants down one level
		occupants := q.bodies
		q.bodies = nil
		half := q.size / 2
		q.children[0] = &quad{x0: q.x0, y0: q.y0, size: half}
		q.children[1] = &quad{x0: q.x0 + half, y0: q.y0, size: half}
		q.children[2] = &quad{x0: q.x0, y0: q.y0 + half, size: half}
		q.children[3] = &quad{x0: q.x0 + half, y0: q.y0 + half, size: half}
		for _, j := range occupants {
			q.child(bodies[j].X, bodies[j].Y).insert(bodies, j, depth+1)
		}
	}
	q.child(bodies[i].X, bodies[i].Y).insert(bodies, i, depth+1)
}

func (q *quad) child(x, y float64) *quad {
	half := q.size / 2
	idx := 0
	if x >= q.x0+half {
		idx |= 1
	}
	if y >= q.y0+half {
		idx |= 2
	}
	return q.children[idx]
}

// finish computes center of mass, body count and largest radius bottom-up
func (q *quad) finish(bodies []Body) {
	if q.leaf() {
		for _, i := range q.bodies {
			q.cx += bodies[i].X
			q.cy += bodies[i].Y
			q.maxR = math.Max(q.maxR, bodies[i].Radius)
		}
		q.mass = float64(len(q.bodies))
		if q.mass > 0 {
			q.cx /= q.mass
			q.cy /= q.mass
		}
		return
	}

	for _, c := range q.children {
		c.finish(bodies)
		if c.mass == 0 {
			continue
		}
		q.cx += c.cx * c.mass
		q.cy += c.cy * c.mass
		q.mass += c.mass
		q.maxR = math.Max(q.maxR, c.maxR)
	}
	if q.mass > 0 {
		q.cx /= q.mass
		q.cy /= q.mass
	}
}

// visit walks the tree depth-first; returning true from fn skips the children
func (q *quad) visit(fn func(q *quad) bool) {
	if q == nil || q.mass == 0 {
		return
	}
	if fn(q) || q.leaf() {
		return
	}
	for _, c := range q.children {
		c.visit(fn)
	}
}
