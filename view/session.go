// Package view hosts one mounted graph view: the simulation, its scheduler,
// the viewport, gesture routing and the scene renderer, with every mutation
// funnelled between ticks.
package view

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/TFMV/ontograph/interact"
	"github.com/TFMV/ontograph/models"
	"github.com/TFMV/ontograph/physics"
	"github.com/TFMV/ontograph/render"
	"github.com/TFMV/ontograph/viewport"
)

var (
	// ErrNoGraph is returned by operations that need a loaded graph
	ErrNoGraph = errors.New("no graph loaded")

	// ErrClosed is returned after Close
	ErrClosed = errors.New("session closed")
)

// Config configures a session
type Config struct {
	Physics  physics.Config
	Render   *render.OutputOptions
	Interval time.Duration
	Observer physics.TickObserver
	Debug    bool
}

// DefaultConfig returns the stock session configuration
func DefaultConfig() Config {
	return Config{
		Physics:  physics.DefaultConfig(),
		Render:   render.NewDefaultOptions("svg"),
		Interval: physics.DefaultInterval,
	}
}

// Stats is a snapshot of the session state
type Stats struct {
	GraphID   string             `json:"graph_id"`
	Nodes     int                `json:"nodes"`
	Edges     int                `json:"edges"`
	Ticks     int                `json:"ticks"`
	Alpha     float64            `json:"alpha"`
	Settled   bool               `json:"settled"`
	Dragging  int                `json:"dragging"`
	Transform viewport.Transform `json:"transform"`
}

// mount is everything that belongs to one loaded graph
type mount struct {
	graph  *models.Graph
	sim    *physics.Simulation
	sched  *physics.Scheduler
	router *interact.Router
}

// Session is one view. Loading a graph replaces the whole mount; the
// viewport and renderer persist across loads.
type Session struct {
	cfg  Config
	view *viewport.Controller

	drawMu   sync.Mutex
	renderer *render.SceneRenderer

	mu      sync.Mutex
	current *mount
	closed  bool
	ctx     context.Context
	onFrame func(render.Frame)
}

// NewSession creates an empty session
func NewSession(cfg Config) *Session {
	if cfg.Render == nil {
		cfg.Render = render.NewDefaultOptions("svg")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = physics.DefaultInterval
	}
	return &Session{
		cfg:      cfg,
		view:     viewport.NewController(),
		renderer: render.NewSceneRenderer(cfg.Render),
	}
}

// OnFrame sets the callback receiving the scene after every tick
func (s *Session) OnFrame(fn func(render.Frame)) {
	s.mu.Lock()
	s.onFrame = fn
	s.mu.Unlock()
}

// Load validates g and mounts it in place of whatever was loaded before. The
// previous scheduler is stopped and its drags are dropped. If the session
// loop is running the new graph starts ticking immediately.
func (s *Session) Load(g *models.Graph) error {
	sim, err := physics.NewSimulation(g, s.cfg.Physics)
	if err != nil {
		return fmt.Errorf("load graph: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	if old := s.current; old != nil {
		old.sched.Stop()
	}

	opts := []physics.SchedulerOption{physics.WithInterval(s.cfg.Interval)}
	if s.cfg.Observer != nil {
		opts = append(opts, physics.WithObserver(s.cfg.Observer))
	}
	m := &mount{
		graph: g,
		sim:   sim,
		sched: physics.NewScheduler(sim, opts...),
	}
	m.router = interact.NewRouter(sim, s.view, s.cfg.Physics.DragAlphaTarget, m.sched.Wake)
	m.sched.OnTick(func(ev physics.TickEvent) { s.tick(m, ev) })
	s.drawMu.Lock()
	s.view.Reset()
	s.renderer.Reset()
	s.drawMu.Unlock()
	s.current = m

	if s.cfg.Debug {
		log.Printf("Mounted graph %s: %d nodes, %d edges", g.ID, len(g.Nodes), len(g.Edges))
	}

	if s.ctx != nil {
		return m.sched.Start(s.ctx)
	}
	return nil
}

// Start runs the frame loop until ctx is done or Close. Graphs loaded later
// start on the same context.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.ctx = ctx
	if s.current == nil {
		return nil
	}
	return s.current.sched.Start(ctx)
}

// Close stops the scheduler. Ticks still in flight are dropped and every
// later call returns ErrClosed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.current != nil {
		s.current.sched.Stop()
	}
}

func (s *Session) mounted() (*mount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	if s.current == nil {
		return nil, ErrNoGraph
	}
	return s.current, nil
}

// tick runs after every completed tick of a mount's scheduler
func (s *Session) tick(m *mount, ev physics.TickEvent) {
	s.mu.Lock()
	live := !s.closed && s.current == m
	onFrame := s.onFrame
	s.mu.Unlock()
	if !live || onFrame == nil {
		return
	}

	var frame render.Frame
	err := m.sched.Do(func(sim *physics.Simulation) {
		frame = s.draw(sim)
	})
	if err != nil {
		return
	}
	if s.cfg.Debug && ev.Settled {
		log.Printf("Graph %s settled after %d ticks", m.graph.ID, ev.Tick)
	}
	onFrame(frame)
}

// draw must be called from inside Scheduler.Do
func (s *Session) draw(sim *physics.Simulation) render.Frame {
	s.drawMu.Lock()
	defer s.drawMu.Unlock()
	return s.renderer.Draw(sim.Graph(), sim.Positions(), s.view.Transform())
}

// do runs fn between ticks of the current mount
func (s *Session) do(fn func(m *mount, sim *physics.Simulation) error) error {
	m, err := s.mounted()
	if err != nil {
		return err
	}
	var inner error
	if err := m.sched.Do(func(sim *physics.Simulation) { inner = fn(m, sim) }); err != nil {
		if errors.Is(err, physics.ErrStopped) {
			return ErrClosed
		}
		return err
	}
	return inner
}

// Step runs one tick by hand
func (s *Session) Step() error {
	m, err := s.mounted()
	if err != nil {
		return err
	}
	return m.sched.Step()
}

// Settle ticks by hand until the layout settles or maxTicks have run
func (s *Session) Settle(maxTicks int) (int, error) {
	m, err := s.mounted()
	if err != nil {
		return 0, err
	}
	return m.sched.Settle(maxTicks)
}

// PointerDown starts a drag on a node or a pan on empty canvas
func (s *Session) PointerDown(pointerID int, screen viewport.Point) (interact.Gesture, error) {
	var g interact.Gesture
	err := s.do(func(m *mount, _ *physics.Simulation) error {
		var err error
		g, err = m.router.PointerDown(pointerID, screen)
		return err
	})
	return g, err
}

// PointerMove continues the gesture owning the pointer
func (s *Session) PointerMove(pointerID int, screen viewport.Point) error {
	return s.do(func(m *mount, _ *physics.Simulation) error {
		return m.router.PointerMove(pointerID, screen)
	})
}

// PointerUp ends the gesture owning the pointer
func (s *Session) PointerUp(pointerID int, screen viewport.Point) error {
	return s.do(func(m *mount, _ *physics.Simulation) error {
		return m.router.PointerUp(pointerID, screen)
	})
}

// Wheel zooms around the pointer
func (s *Session) Wheel(deltaY float64, screen viewport.Point) error {
	return s.do(func(m *mount, _ *physics.Simulation) error {
		m.router.Wheel(deltaY, screen)
		return nil
	})
}

// PanBy translates the view
func (s *Session) PanBy(dx, dy float64) error {
	return s.do(func(*mount, *physics.Simulation) error {
		s.view.PanBy(dx, dy)
		return nil
	})
}

// ZoomAt zooms by factor around a screen point
func (s *Session) ZoomAt(factor float64, screen viewport.Point) error {
	return s.do(func(*mount, *physics.Simulation) error {
		s.view.ZoomAt(factor, screen)
		return nil
	})
}

// ResetView returns the viewport to the identity transform
func (s *Session) ResetView() error {
	return s.do(func(*mount, *physics.Simulation) error {
		s.view.Reset()
		return nil
	})
}

// Reheat restarts a settled layout
func (s *Session) Reheat() error {
	return s.do(func(m *mount, sim *physics.Simulation) error {
		sim.Reheat(1)
		m.sched.Wake()
		return nil
	})
}

// Scene returns the current frame
func (s *Session) Scene() (render.Frame, error) {
	var frame render.Frame
	err := s.do(func(_ *mount, sim *physics.Simulation) error {
		frame = s.draw(sim)
		return nil
	})
	return frame, err
}

// Frame encodes the current scene in the given format
func (s *Session) Frame(format string) ([]byte, error) {
	frame, err := s.Scene()
	if err != nil {
		return nil, err
	}
	opts := *s.cfg.Render
	opts.Format = format
	return render.Encode(&frame.Scene, &opts)
}

// RenderOptions returns the options scenes are built with
func (s *Session) RenderOptions() *render.OutputOptions {
	return s.cfg.Render
}

// Stats returns a snapshot of the session
func (s *Session) Stats() (Stats, error) {
	var st Stats
	err := s.do(func(m *mount, sim *physics.Simulation) error {
		st = Stats{
			GraphID:   m.graph.ID,
			Nodes:     len(m.graph.Nodes),
			Edges:     len(m.graph.Edges),
			Ticks:     sim.Ticks(),
			Alpha:     sim.Alpha(),
			Settled:   sim.Settled(),
			Dragging:  m.router.Drag().Active(),
			Transform: s.view.Transform(),
		}
		return nil
	})
	return st, err
}
