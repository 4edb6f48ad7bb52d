package eventbus

import (
	"errors"

	"github.com/alanyang/engn/internal/domain/event"
)

var (
	ErrNilHandler           = errors.New("eventbus: nil handler")
	ErrHandlerNotComparable = errors.New("eventbus: handler is not comparable")
)

// Handler receives events of one type. Implementations must be comparable
// (pointer receivers, or plain functions wrapped with Func) so that the same
// handler can be recognised on re-subscribe and on Unsubscribe.
type Handler[E any] interface {
	Handle(e E)
}

// FuncHandler adapts a plain function into a Handler with a stable identity.
type FuncHandler[E any] struct {
	fn func(E)
}

// Func wraps fn. Every call returns a distinct handler; keep the pointer to
// unsubscribe by reference later.
func Func[E any](fn func(E)) *FuncHandler[E] {
	return &FuncHandler[E]{fn: fn}
}

func (h *FuncHandler[E]) Handle(e E) { h.fn(e) }

// Subscription removes exactly one registration. Unsubscribe is safe to call
// any number of times.
type Subscription interface {
	Unsubscribe()
}

type EventBus[E any] interface {
	Publish(t event.Type, e E)
	Subscribe(t event.Type, h Handler[E]) (Subscription, error)
	SubscribeOnce(t event.Type, h Handler[E]) (Subscription, error)
	Unsubscribe(t event.Type, h Handler[E])
}
