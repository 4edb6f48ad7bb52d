package clockhost

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	portframe "github.com/alanyang/engn/internal/port/frame"
)

var _ portframe.Host = (*Host)(nil)

const DefaultFPS = 60

// Host emulates a display refresh on top of a clock: every frame request arms
// a one-shot timer that fires one frame interval later.
type Host struct {
	clock    clock.Clock
	interval time.Duration

	mu      sync.Mutex
	next    portframe.Handle
	pending map[portframe.Handle]*clock.Timer
}

// New returns a Host ticking at fps frames per second. fps <= 0 selects DefaultFPS.
func New(c clock.Clock, fps int) *Host {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &Host{
		clock:    c,
		interval: time.Second / time.Duration(fps),
		pending:  make(map[portframe.Handle]*clock.Timer),
	}
}

func (h *Host) Interval() time.Duration { return h.interval }

func (h *Host) RequestFrame(cb func()) portframe.Handle {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.next++
	handle := h.next
	h.pending[handle] = h.clock.AfterFunc(h.interval, func() {
		h.mu.Lock()
		_, live := h.pending[handle]
		delete(h.pending, handle)
		h.mu.Unlock()
		if live {
			cb()
		}
	})
	return handle
}

func (h *Host) CancelFrame(handle portframe.Handle) {
	h.mu.Lock()
	t, ok := h.pending[handle]
	delete(h.pending, handle)
	h.mu.Unlock()
	if ok {
		t.Stop()
	}
}

// Pending reports the number of outstanding frame requests.
func (h *Host) Pending() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.pending)
}
