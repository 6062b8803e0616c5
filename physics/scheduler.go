package physics

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultInterval is one frame at roughly 60 Hz
const DefaultInterval = 16 * time.Millisecond

var (
	// ErrStopped is returned by every call made after Stop
	ErrStopped = errors.New("scheduler stopped")

	// ErrReentrantTick is returned when Step is called while a tick is in flight
	ErrReentrantTick = errors.New("tick already in progress")

	// ErrAlreadyStarted is returned by a second call to Start
	ErrAlreadyStarted = errors.New("scheduler already started")
)

// TickEvent describes a completed tick
type TickEvent struct {
	Tick     int
	Alpha    float64
	Settled  bool
	Duration time.Duration
}

// TickObserver receives every completed tick, typically to record metrics
type TickObserver interface {
	ObserveTick(TickEvent)
}

// Scheduler drives a Simulation one tick per frame and hands each result to a
// single OnTick callback. All access to the simulation goes through the
// scheduler, so mutations made with Do always land between ticks.
type Scheduler struct {
	sim      *Simulation
	interval time.Duration
	onTick   func(TickEvent)
	observer TickObserver

	mu      sync.Mutex
	busy    atomic.Bool
	stopped atomic.Bool
	started bool
	cancel  context.CancelFunc
	wake    chan struct{}
	done    chan struct{}
}

// SchedulerOption configures a Scheduler
type SchedulerOption func(*Scheduler)

// WithInterval sets the frame interval of the loop
func WithInterval(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithObserver attaches a tick observer
func WithObserver(o TickObserver) SchedulerOption {
	return func(s *Scheduler) { s.observer = o }
}

// NewScheduler creates a scheduler for sim. Nothing runs until Start or Step.
func NewScheduler(sim *Simulation, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		sim:      sim,
		interval: DefaultInterval,
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnTick sets the callback invoked after every tick. Only one callback is
// kept; setting another replaces it.
func (s *Scheduler) OnTick(fn func(TickEvent)) {
	s.mu.Lock()
	s.onTick = fn
	s.mu.Unlock()
}

// Start runs the frame loop on its own goroutine until ctx is cancelled or
// Stop is called
func (s *Scheduler) Start(ctx context.Context) error {
	if s.stopped.Load() {
		return ErrStopped
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return ErrAlreadyStarted
	}
	s.started = true

	ctx, s.cancel = context.WithCancel(ctx)
	go s.run(ctx)
	return nil
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if s.Settled() {
			// park until something reheats the simulation
			select {
			case <-ctx.Done():
				return
			case <-s.wake:
				continue
			}
		}

		if err := s.Step(); errors.Is(err, ErrStopped) {
			return
		}
	}
}

// Stop ends the loop. It does not wait for the loop goroutine, so it is safe
// to call from inside OnTick; use Done to wait.
func (s *Scheduler) Stop() {
	if s.stopped.Swap(true) {
		return
	}
	s.mu.Lock()
	cancel, started := s.cancel, s.started
	s.started = true
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if !started {
		close(s.done)
	}
}

// Done is closed once the loop has exited after Stop
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

// Stopped reports whether Stop has been called
func (s *Scheduler) Stopped() bool {
	return s.stopped.Load()
}

// Wake resumes a loop parked on a settled simulation
func (s *Scheduler) Wake() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Step runs exactly one tick and delivers it to OnTick. Calling Step from
// inside OnTick, or while another tick is running, returns ErrReentrantTick.
func (s *Scheduler) Step() error {
	if s.stopped.Load() {
		return ErrStopped
	}
	if !s.busy.CompareAndSwap(false, true) {
		return ErrReentrantTick
	}
	defer s.busy.Store(false)

	s.mu.Lock()
	if s.stopped.Load() {
		s.mu.Unlock()
		return ErrStopped
	}
	start := time.Now()
	settled := s.sim.Step()
	ev := TickEvent{
		Tick:     s.sim.Ticks(),
		Alpha:    s.sim.Alpha(),
		Settled:  settled,
		Duration: time.Since(start),
	}
	onTick, observer := s.onTick, s.observer
	s.mu.Unlock()

	if observer != nil {
		observer.ObserveTick(ev)
	}
	if onTick != nil {
		onTick(ev)
	}
	return nil
}

// Do runs fn against the simulation between ticks. fn must not call back
// into the scheduler.
func (s *Scheduler) Do(fn func(sim *Simulation)) error {
	if s.stopped.Load() {
		return ErrStopped
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped.Load() {
		return ErrStopped
	}
	fn(s.sim)
	return nil
}

// Settled reports whether the simulation has come to rest
func (s *Scheduler) Settled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sim.Settled()
}

// Settle steps until the simulation settles or maxTicks ticks have run, and
// returns the number of ticks taken. It is the manual mode used by snapshot
// rendering.
func (s *Scheduler) Settle(maxTicks int) (int, error) {
	n := 0
	for n < maxTicks && !s.Settled() {
		if err := s.Step(); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
