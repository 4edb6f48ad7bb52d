package frame

// Handle identifies one outstanding frame request. The zero Handle never
// refers to a live request.
type Handle uint64

// Host is the environment's per-frame scheduling primitive: "call me back
// before the next redraw" plus cancellation of a pending request.
type Host interface {
	RequestFrame(cb func()) Handle
	CancelFrame(h Handle)
}
