package scheduler

import (
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/alanyang/engn/internal/adapter/memory"
	"github.com/alanyang/engn/internal/domain/event"
	porteventbus "github.com/alanyang/engn/internal/port/eventbus"
	portframe "github.com/alanyang/engn/internal/port/frame"
)

type Option func(*Scheduler)

// WithClock replaces the wall clock used to measure frame deltas.
func WithClock(c clock.Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithBus makes the scheduler publish through bus instead of a private one.
func WithBus(bus porteventbus.EventBus[event.Event]) Option {
	return func(s *Scheduler) { s.bus = bus }
}

// Scheduler drives a repeating, host-synchronised frame loop and reports its
// lifecycle over an owned EventBus: one init per Run, one tick per frame.
//
// Init and tick delivery is serialised: handlers of one scheduler never run
// concurrently, even across a Stop/Run issued while a tick is still being
// handled. The host must never invoke a frame callback from inside RequestFrame.
type Scheduler struct {
	id    uuid.UUID
	bus   porteventbus.EventBus[event.Event]
	host  portframe.Host
	clock clock.Clock

	// deliver is held for the whole of every init and tick publish.
	deliver sync.Mutex

	mu            sync.Mutex
	running       bool
	lastTimestamp time.Time
	pending       portframe.Handle
	// generation is bumped on every Run so callbacks from an earlier run are dropped.
	generation uint64
	frames     uint64
	// delivering is set while a goroutine holds deliver and publishes. A Run
	// issued meanwhile leaves its init to that goroutine via initPending.
	delivering  bool
	initPending bool
}

func New(host portframe.Host, opts ...Option) *Scheduler {
	s := &Scheduler{
		id:    uuid.New(),
		host:  host,
		clock: clock.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.bus == nil {
		s.bus = memory.NewBus[event.Event]()
	}
	return s
}

func (s *Scheduler) ID() uuid.UUID { return s.id }

func (s *Scheduler) Bus() porteventbus.EventBus[event.Event] { return s.bus }

// On subscribes h to lifecycle events of type t on the scheduler's bus.
func (s *Scheduler) On(t event.Type, h porteventbus.Handler[event.Event]) (porteventbus.Subscription, error) {
	return s.bus.Subscribe(t, h)
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Frames returns the number of ticks published since the last Run.
func (s *Scheduler) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Run publishes init and requests the first frame. It is a no-op while the
// scheduler is already running.
//
// When called from an init or tick handler, or while another goroutine is
// delivering one, Run returns at once and init is published by the delivering
// goroutine as soon as the current handlers return.
func (s *Scheduler) Run() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.generation++
	s.frames = 0
	s.initPending = true
	deferred := s.delivering
	s.mu.Unlock()

	slog.Debug("scheduler started", "scheduler_id", s.id)
	if deferred {
		return
	}

	s.deliver.Lock()
	defer s.deliver.Unlock()
	s.drain()
}

// Stop cancels the outstanding frame request. It publishes nothing and is a
// no-op while idle.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	if s.pending != 0 {
		s.host.CancelFrame(s.pending)
	}
	s.pending = 0
	s.running = false
	s.initPending = false
	slog.Debug("scheduler stopped", "scheduler_id", s.id, "frames", s.frames)
}

func (s *Scheduler) step(gen uint64) {
	s.deliver.Lock()
	defer s.deliver.Unlock()

	s.mu.Lock()
	if !s.running || s.generation != gen {
		s.mu.Unlock()
		return
	}
	now := s.clock.Now()
	dt := now.Sub(s.lastTimestamp).Seconds()
	if dt < 0 {
		dt = 0
	}
	s.lastTimestamp = now
	s.pending = 0
	s.frames++
	n := s.frames
	s.delivering = true
	s.mu.Unlock()

	s.bus.Publish(event.TypeTick, event.Tick(n, dt, now))

	s.mu.Lock()
	if s.running && s.generation == gen {
		s.pending = s.host.RequestFrame(func() { s.step(gen) })
	}
	s.mu.Unlock()
	s.drain()
}

// drain publishes init for a run started during delivery and arms its first
// frame, repeating while init handlers restart the loop. deliver must be held.
func (s *Scheduler) drain() {
	for {
		s.mu.Lock()
		if !s.initPending {
			s.delivering = false
			s.mu.Unlock()
			return
		}
		s.initPending = false
		s.delivering = true
		gen := s.generation
		s.mu.Unlock()

		s.bus.Publish(event.TypeInit, event.Init(s.clock.Now()))

		s.mu.Lock()
		// An init handler may have stopped (and restarted) the loop already.
		if s.running && s.generation == gen {
			s.lastTimestamp = s.clock.Now()
			s.pending = s.host.RequestFrame(func() { s.step(gen) })
		}
		s.mu.Unlock()
	}
}
