// Package render turns simulation state into a declarative scene and encodes
// scenes as SVG, ASCII, JSON or DOT.
package render

import (
	"math"

	"github.com/TFMV/ontograph/models"
	"github.com/TFMV/ontograph/physics"
	"github.com/TFMV/ontograph/viewport"
)

// Point is a screen-space point
type Point = viewport.Point

// Label is a piece of text placed in screen space
type Label struct {
	Text   string  `json:"text"`
	At     Point   `json:"at"`
	Anchor string  `json:"anchor"` // start, middle or end
	Size   float64 `json:"size"`
}

// Loop is the arc drawn for a self-loop
type Loop struct {
	Center Point   `json:"center"`
	Radius float64 `json:"radius"`
}

// EdgeShape is one drawn edge. Ordinary edges run from the source disc
// boundary to the target disc boundary with an arrowhead touching the target;
// self-loops carry a Loop instead.
type EdgeShape struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Type   string   `json:"type"`
	From   Point    `json:"from"`
	To     Point    `json:"to"`
	Arrow  [3]Point `json:"arrow"` // tip, left, right
	Loop   *Loop    `json:"loop,omitempty"`
	Label  Label    `json:"label"`
}

// NodeShape is one drawn node
type NodeShape struct {
	ID     string          `json:"id"`
	Type   models.NodeType `json:"type"`
	Center Point           `json:"center"`
	Radius float64         `json:"radius"`
	Color  string          `json:"color"`
	Pinned bool            `json:"pinned"`
	Label  Label           `json:"label"`
}

// Scene is everything needed to draw one frame, in screen coordinates.
// Edges come first so nodes paint over them.
type Scene struct {
	GraphID   string             `json:"graph_id"`
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Transform viewport.Transform `json:"transform"`
	Edges     []EdgeShape        `json:"edges"`
	Nodes     []NodeShape        `json:"nodes"`
}

// layoutPlan is the per-graph part of a scene: which bodies every edge joins
// and how every node looks. It only changes when the graph does.
type layoutPlan struct {
	graph   *models.Graph
	graphID string
	pairs   [][2]int
	edges   []models.Edge
	colors  []string
	labels  []string
}

func newLayoutPlan(g *models.Graph) *layoutPlan {
	index := g.Index()
	p := &layoutPlan{
		graph:   g,
		graphID: g.ID,
		pairs:   make([][2]int, 0, len(g.Edges)),
		edges:   make([]models.Edge, 0, len(g.Edges)),
		colors:  make([]string, len(g.Nodes)),
		labels:  make([]string, len(g.Nodes)),
	}
	for _, e := range g.Edges {
		s, okS := index[e.Source]
		t, okT := index[e.Target]
		if !okS || !okT {
			continue
		}
		p.pairs = append(p.pairs, [2]int{s, t})
		p.edges = append(p.edges, e)
	}
	for i, n := range g.Nodes {
		p.colors[i] = models.ColorFor(n.Type)
		p.labels[i] = n.Label
		if p.labels[i] == "" {
			p.labels[i] = n.ID
		}
	}
	return p
}

// BuildScene computes the scene for one frame. It is a pure function of its
// inputs; bodies must be in graph node order.
func BuildScene(g *models.Graph, bodies []physics.Body, t viewport.Transform, options *OutputOptions) Scene {
	return newLayoutPlan(g).scene(bodies, t, options)
}

func (p *layoutPlan) scene(bodies []physics.Body, t viewport.Transform, options *OutputOptions) Scene {
	scene := Scene{
		GraphID:   p.graphID,
		Width:     options.Width,
		Height:    options.Height,
		Transform: t,
		Edges:     make([]EdgeShape, 0, len(p.pairs)),
		Nodes:     make([]NodeShape, 0, len(bodies)),
	}

	centers := make([]Point, len(bodies))
	radii := make([]float64, len(bodies))
	for i, b := range bodies {
		centers[i] = t.Apply(Point{X: b.X, Y: b.Y})
		radii[i] = b.Radius * t.K
	}

	for k, pair := range p.pairs {
		if pair[0] >= len(bodies) || pair[1] >= len(bodies) {
			continue
		}
		e := p.edges[k]
		shape := EdgeShape{Source: e.Source, Target: e.Target, Type: e.Type}
		if pair[0] == pair[1] {
			selfLoop(&shape, centers[pair[0]], radii[pair[0]], options)
		} else {
			straightEdge(&shape, centers[pair[0]], radii[pair[0]], centers[pair[1]], radii[pair[1]], t.K, options)
		}
		scene.Edges = append(scene.Edges, shape)
	}

	for i, b := range bodies {
		c, r := centers[i], radii[i]
		scene.Nodes = append(scene.Nodes, NodeShape{
			ID:     b.ID,
			Type:   b.Type,
			Center: c,
			Radius: r,
			Color:  p.colors[i],
			Pinned: b.Pinned,
			Label: Label{
				Text:   p.labels[i],
				At:     Point{X: c.X + r + options.LabelGap, Y: c.Y},
				Anchor: "start",
				Size:   options.FontSize,
			},
		})
	}
	return scene
}

func straightEdge(shape *EdgeShape, cs Point, rs float64, ct Point, rt float64, k float64, options *OutputOptions) {
	dx, dy := ct.X-cs.X, ct.Y-cs.Y
	d := math.Hypot(dx, dy)
	ux, uy := 1.0, 0.0
	if d > 0 {
		ux, uy = dx/d, dy/d
	}

	shape.From = Point{X: cs.X + ux*rs, Y: cs.Y + uy*rs}
	shape.To = Point{X: ct.X - ux*rt, Y: ct.Y - uy*rt}

	length := options.ArrowSize * k
	half := length / 2
	base := Point{X: shape.To.X - ux*length, Y: shape.To.Y - uy*length}
	shape.Arrow = [3]Point{
		shape.To,
		{X: base.X - uy*half, Y: base.Y + ux*half},
		{X: base.X + uy*half, Y: base.Y - ux*half},
	}

	shape.Label = Label{
		Text:   shape.Type,
		At:     Point{X: (shape.From.X + shape.To.X) / 2, Y: (shape.From.Y + shape.To.Y) / 2},
		Anchor: "middle",
		Size:   options.FontSize * 0.8,
	}
}

// selfLoop places a small circle straddling the top of the disc
func selfLoop(shape *EdgeShape, c Point, r float64, options *OutputOptions) {
	loopR := r * 0.6
	center := Point{X: c.X, Y: c.Y - r}
	shape.From, shape.To = c, c
	shape.Loop = &Loop{Center: center, Radius: loopR}
	shape.Arrow = [3]Point{{X: c.X, Y: c.Y}, {X: c.X, Y: c.Y}, {X: c.X, Y: c.Y}}
	shape.Label = Label{
		Text:   shape.Type,
		At:     Point{X: center.X, Y: center.Y - loopR - options.LabelGap},
		Anchor: "middle",
		Size:   options.FontSize * 0.8,
	}
}

// Frame is the result of one Draw
type Frame struct {
	Scene   Scene
	Rebuilt bool // the graph changed since the previous frame
}

// SceneRenderer draws successive frames of one view. It remembers the graph
// it last drew; a graph with a different identity replaces all shapes,
// otherwise only the geometry is recomputed.
type SceneRenderer struct {
	options *OutputOptions
	plan    *layoutPlan
	frames  int
}

// NewSceneRenderer creates a renderer with the given options
func NewSceneRenderer(options *OutputOptions) *SceneRenderer {
	if options == nil {
		options = NewDefaultOptions("svg")
	}
	return &SceneRenderer{options: options}
}

// Options returns the renderer options
func (r *SceneRenderer) Options() *OutputOptions { return r.options }

// Frames returns the number of frames drawn
func (r *SceneRenderer) Frames() int { return r.frames }

// Draw builds the scene for the current state
func (r *SceneRenderer) Draw(g *models.Graph, bodies []physics.Body, t viewport.Transform) Frame {
	rebuilt := false
	if !r.plan.matches(g, bodies) {
		r.plan = newLayoutPlan(g)
		rebuilt = true
	}
	r.frames++
	return Frame{Scene: r.plan.scene(bodies, t, r.options), Rebuilt: rebuilt}
}

// matches reports whether the plan was built for g. Graph ids are not
// required, so the pointer and node count are checked too.
func (p *layoutPlan) matches(g *models.Graph, bodies []physics.Body) bool {
	return p != nil && p.graph == g && p.graphID == g.ID &&
		len(p.colors) == len(g.Nodes) && len(p.colors) == len(bodies)
}

// Reset forgets the last graph, so the next Draw rebuilds
func (r *SceneRenderer) Reset() {
	r.plan = nil
}
