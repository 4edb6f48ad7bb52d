package testutil

import (
	"sort"
	"sync"

	portframe "github.com/alanyang/engn/internal/port/frame"
)

// ManualHost is a frame host driven by the test: nothing fires until Fire is called.
// It keeps cancelled callbacks around so tests can replay a late frame.
type ManualHost struct {
	mu        sync.Mutex
	next      portframe.Handle
	pending   map[portframe.Handle]func()
	cancelled map[portframe.Handle]func()
	requests  int
}

func NewManualHost() *ManualHost {
	return &ManualHost{
		pending:   make(map[portframe.Handle]func()),
		cancelled: make(map[portframe.Handle]func()),
	}
}

func (h *ManualHost) RequestFrame(cb func()) portframe.Handle {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	h.requests++
	h.pending[h.next] = cb
	return h.next
}

func (h *ManualHost) CancelFrame(handle portframe.Handle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cb, ok := h.pending[handle]; ok {
		h.cancelled[handle] = cb
		delete(h.pending, handle)
	}
}

// Fire runs every pending callback once, oldest first, and returns how many ran.
func (h *ManualHost) Fire() int {
	h.mu.Lock()
	handles := make([]portframe.Handle, 0, len(h.pending))
	for k := range h.pending {
		handles = append(handles, k)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })
	cbs := make([]func(), 0, len(handles))
	for _, k := range handles {
		cbs = append(cbs, h.pending[k])
		delete(h.pending, k)
	}
	h.mu.Unlock()

	for _, cb := range cbs {
		cb()
	}
	return len(cbs)
}

// FireCancelled replays callbacks whose requests were cancelled, as a host
// racing with cancellation might.
func (h *ManualHost) FireCancelled() {
	h.mu.Lock()
	cbs := make([]func(), 0, len(h.cancelled))
	for _, cb := range h.cancelled {
		cbs = append(cbs, cb)
	}
	h.mu.Unlock()

	for _, cb := range cbs {
		cb()
	}
}

func (h *ManualHost) Pending() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.pending)
}

func (h *ManualHost) Requests() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.requests
}
