package memory

import (
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/alanyang/engn/internal/domain/event"
	porteventbus "github.com/alanyang/engn/internal/port/eventbus"
)

var _ porteventbus.EventBus[event.Event] = (*Bus[event.Event])(nil)

// PanicHook observes a handler panic recovered during Publish.
type PanicHook func(t event.Type, recovered any)

type Option func(*options)

type options struct {
	onPanic PanicHook
	logger  *slog.Logger
}

// WithPanicHook registers fn to be called after a handler panic has been recovered and logged.
func WithPanicHook(fn PanicHook) Option {
	return func(o *options) { o.onPanic = fn }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Bus is an in-process, synchronous EventBus.
//
// Delivery iterates a snapshot of the subscribers registered when Publish
// started: handlers added during a publish are first called on the next one.
// Handlers removed during a publish are skipped if they have not run yet.
// A panicking handler is recovered and logged; the remaining handlers still run.
type Bus[E any] struct {
	opts options

	mu sync.RWMutex
	// Slices are copy-on-write so Publish can iterate without holding mu.
	subs map[event.Type][]*registration[E]
}

type registration[E any] struct {
	handler porteventbus.Handler[E]
	once    bool
	active  atomic.Bool
	fired   atomic.Bool
}

func NewBus[E any](opts ...Option) *Bus[E] {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Bus[E]{
		opts: o,
		subs: make(map[event.Type][]*registration[E]),
	}
}

// Subscribe registers h for t. Subscribing a handler that is already
// registered for t is a no-op and returns a handle to the existing registration.
func (b *Bus[E]) Subscribe(t event.Type, h porteventbus.Handler[E]) (porteventbus.Subscription, error) {
	return b.add(t, h, false)
}

// SubscribeOnce registers h for t and removes it right before its first delivery.
func (b *Bus[E]) SubscribeOnce(t event.Type, h porteventbus.Handler[E]) (porteventbus.Subscription, error) {
	return b.add(t, h, true)
}

// Unsubscribe removes h from t. Unknown types and handlers are ignored.
func (b *Bus[E]) Unsubscribe(t event.Type, h porteventbus.Handler[E]) {
	if h == nil || !reflect.TypeOf(h).Comparable() {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, reg := range b.subs[t] {
		if reg.handler == h {
			b.removeLocked(t, reg)
			return
		}
	}
}

// Publish calls every handler registered for t, in registration order, on the caller's goroutine.
func (b *Bus[E]) Publish(t event.Type, e E) {
	b.mu.RLock()
	snapshot := b.subs[t]
	b.mu.RUnlock()

	for _, reg := range snapshot {
		if !reg.active.Load() {
			continue
		}
		if reg.once {
			if !reg.fired.CompareAndSwap(false, true) {
				continue
			}
			b.remove(t, reg)
		}
		b.deliver(t, reg.handler, e)
	}
}

// Len reports how many handlers are registered for t.
func (b *Bus[E]) Len(t event.Type) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[t])
}

func (b *Bus[E]) add(t event.Type, h porteventbus.Handler[E], once bool) (porteventbus.Subscription, error) {
	if h == nil {
		return nil, porteventbus.ErrNilHandler
	}
	if !reflect.TypeOf(h).Comparable() {
		return nil, porteventbus.ErrHandlerNotComparable
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, reg := range b.subs[t] {
		if reg.handler == h {
			return &subscription[E]{bus: b, topic: t, reg: reg}, nil
		}
	}

	reg := &registration[E]{handler: h, once: once}
	reg.active.Store(true)
	b.subs[t] = append(b.subs[t], reg)
	return &subscription[E]{bus: b, topic: t, reg: reg}, nil
}

func (b *Bus[E]) remove(t event.Type, reg *registration[E]) {
	b.mu.Lock()
	b.removeLocked(t, reg)
	b.mu.Unlock()
}

func (b *Bus[E]) removeLocked(t event.Type, reg *registration[E]) {
	current := b.subs[t]
	idx := -1
	for i, r := range current {
		if r == reg {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	reg.active.Store(false)

	if len(current) == 1 {
		delete(b.subs, t)
		return
	}
	next := make([]*registration[E], 0, len(current)-1)
	next = append(next, current[:idx]...)
	next = append(next, current[idx+1:]...)
	b.subs[t] = next
}

func (b *Bus[E]) deliver(t event.Type, h porteventbus.Handler[E], e E) {
	defer func() {
		if r := recover(); r != nil {
			b.opts.logger.Error("event handler panicked", "type", t, "panic", r)
			if b.opts.onPanic != nil {
				b.opts.onPanic(t, r)
			}
		}
	}()
	h.Handle(e)
}

type subscription[E any] struct {
	bus   *Bus[E]
	topic event.Type
	reg   *registration[E]
	done  atomic.Bool
}

func (s *subscription[E]) Unsubscribe() {
	if !s.done.CompareAndSwap(false, true) {
		return
	}
	s.bus.remove(s.topic, s.reg)
}
