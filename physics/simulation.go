// Package physics implements the force-directed layout engine: a simulation
// that assigns 2-D positions to graph nodes, the forces it sums each tick and
// a scheduler that drives it one frame at a time.
package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/TFMV/ontograph/models"
)

// ErrUnknownNode is returned by the pin API for ids not in the graph
var ErrUnknownNode = errors.New("unknown node")

// Vector is a 2-D vector
type Vector struct {
	X, Y float64
}

// Body is the simulated state of one node
type Body struct {
	ID     string
	Type   models.NodeType
	X, Y   float64 // position in layout coordinates
	VX, VY float64 // velocity
	FX, FY float64 // pinned position, meaningful only while Pinned
	Pinned bool
	Radius float64 // visual radius
}

// Simulation is the layout engine for one graph. It is not safe for
// concurrent use; the Scheduler serializes access to it.
type Simulation struct {
	graph  *models.Graph
	cfg    Config
	bodies []Body
	index  map[string]int
	pairs  [][2]int
	acc    []Vector
	jitter *Jitter

	forces      []Force
	constraints []Constraint

	alpha       float64
	alphaTarget float64
	ticks       int
}

// NewSimulation validates the graph and seeds the initial layout. An invalid
// graph is rejected here, before any tick can run.
func NewSimulation(g *models.Graph, cfg Config) (*Simulation, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Simulation{
		graph:  g,
		cfg:    cfg,
		bodies: make([]Body, len(g.Nodes)),
		index:  g.Index(),
		pairs:  make([][2]int, 0, len(g.Edges)),
		acc:    make([]Vector, len(g.Nodes)),
		jitter: NewJitter(cfg.Seed),
		alpha:  1,
	}

	for _, e := range g.Edges {
		s.pairs = append(s.pairs, [2]int{s.index[e.Source], s.index[e.Target]})
	}
	s.seed()

	center := cfg.Center()
	s.forces = []Force{
		NewLinkForce(s.pairs, len(s.bodies), cfg.LinkDistance, s.jitter),
		NewChargeForce(cfg.ChargeStrength, cfg.ChargeDistanceMin, cfg.Theta, s.jitter),
		&CenterForce{Center: center, Strength: cfg.CenterStrength},
		&GravityForce{Center: center, Strength: cfg.GravityStrength},
	}
	s.constraints = []Constraint{
		NewCollisionConstraint(cfg.CollisionPadding, cfg.CollisionIterations, s.jitter),
	}
	return s, nil
}

// seed places the bodies on a phyllotaxis spiral around the center and
// perturbs them with noise, so no two bodies start at the same point
func (s *Simulation) seed() {
	center := s.cfg.Center()
	golden := math.Pi * (3 - math.Sqrt(5))
	for i, node := range s.graph.Nodes {
		r := s.cfg.InitialRadius * math.Sqrt(0.5+float64(i))
		angle := float64(i) * golden
		off := s.jitter.Offset(i, s.cfg.InitialRadius*0.2)
		s.bodies[i] = Body{
			ID:     node.ID,
			Type:   node.Type,
			X:      center.X + r*math.Cos(angle) + off.X,
			Y:      center.Y + r*math.Sin(angle) + off.Y,
			Radius: models.RadiusFor(node.Type),
		}
	}
}

// Name returns the name of the layout algorithm
func (s *Simulation) Name() string {
	return "Force-Directed Layout"
}

// Step performs one tick and returns true once the simulation has settled
func (s *Simulation) Step() bool {
	s.alpha += (s.alphaTarget - s.alpha) * s.cfg.AlphaDecay

	for i := range s.acc {
		s.acc[i] = Vector{}
	}
	for _, f := range s.forces {
		f.Apply(s.alpha, s.bodies, s.acc)
	}

	damping := 1 - s.cfg.VelocityDecay
	for i := range s.bodies {
		b := &s.bodies[i]
		if b.Pinned {
			b.X, b.Y = b.FX, b.FY
			b.VX, b.VY = 0, 0
			continue
		}
		b.VX = (b.VX + s.acc[i].X) * damping
		b.VY = (b.VY + s.acc[i].Y) * damping
		b.X += b.VX
		b.Y += b.VY
	}

	for _, c := range s.constraints {
		c.Correct(s.bodies)
	}

	s.ticks++
	return s.Settled()
}

// Settled reports whether alpha has decayed below the minimum and nothing is
// holding it up
func (s *Simulation) Settled() bool {
	return s.alpha < s.cfg.AlphaMin && s.alphaTarget < s.cfg.AlphaMin
}

// Alpha returns the current alpha
func (s *Simulation) Alpha() float64 { return s.alpha }

// AlphaTarget returns the value alpha decays toward
func (s *Simulation) AlphaTarget() float64 { return s.alphaTarget }

// SetAlphaTarget sets the value alpha decays toward
func (s *Simulation) SetAlphaTarget(target float64) {
	s.alphaTarget = math.Max(0, math.Min(1, target))
}

// Reheat raises alpha to at least the given value
func (s *Simulation) Reheat(alpha float64) {
	s.alpha = math.Max(s.alpha, math.Min(1, alpha))
}

// Ticks returns the number of ticks run so far
func (s *Simulation) Ticks() int { return s.ticks }

// Config returns the parameters the simulation was built with
func (s *Simulation) Config() Config { return s.cfg }

// Graph returns the graph being laid out
func (s *Simulation) Graph() *models.Graph { return s.graph }

// Pairs returns the edges as (source, target) body indices, in graph order
func (s *Simulation) Pairs() [][2]int { return s.pairs }

// Forces returns the active forces
func (s *Simulation) Forces() []Force { return s.forces }

// AddForce registers an extra force
func (s *Simulation) AddForce(f Force) {
	s.forces = append(s.forces, f)
}

// RemoveForce drops the named force or constraint and reports whether one
// was found
func (s *Simulation) RemoveForce(name string) bool {
	for i, f := range s.forces {
		if f.Name() == name {
			s.forces = append(s.forces[:i], s.forces[i+1:]...)
			return true
		}
	}
	for i, c := range s.constraints {
		if c.Name() == name {
			s.constraints = append(s.constraints[:i], s.constraints[i+1:]...)
			return true
		}
	}
	return false
}

// Positions returns a copy of every body
func (s *Simulation) Positions() []Body {
	out := make([]Body, len(s.bodies))
	copy(out, s.bodies)
	return out
}

// Position returns the current position of a node
func (s *Simulation) Position(id string) (Vector, error) {
	i, ok := s.index[id]
	if !ok {
		return Vector{}, fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	return Vector{X: s.bodies[i].X, Y: s.bodies[i].Y}, nil
}

// Pin fixes a node at (x, y). The pin replaces integration on every tick
// until Unpin.
func (s *Simulation) Pin(id string, x, y float64) error {
	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	b := &s.bodies[i]
	b.Pinned = true
	b.FX, b.FY = x, y
	return nil
}

// Unpin releases a node back to free simulation
func (s *Simulation) Unpin(id string) error {
	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	b := &s.bodies[i]
	b.Pinned = false
	b.FX, b.FY = 0, 0
	return nil
}

// Pinned reports whether a node is pinned
func (s *Simulation) Pinned(id string) bool {
	i, ok := s.index[id]
	return ok && s.bodies[i].Pinned
}

// NodeAt returns the topmost node whose disc contains the layout point
func (s *Simulation) NodeAt(x, y float64) (string, bool) {
	for i := len(s.bodies) - 1; i >= 0; i-- {
		b := s.bodies[i]
		dx, dy := x-b.X, y-b.Y
		if dx*dx+dy*dy <= b.Radius*b.Radius {
			return b.ID, true
		}
	}
	return "", false
}
