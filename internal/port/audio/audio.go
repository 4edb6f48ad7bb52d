package audio

import (
	"context"
)

type State string

const (
	StateRunning     State = "running"
	StateSuspended   State = "suspended"
	StateInterrupted State = "interrupted"
	StateClosed      State = "closed"
)

// Buffer is a decoded, playable sound.
type Buffer interface {
	Duration() float64
}

// Source is one playing instance of a Buffer.
type Source interface {
	Stop() error
}

// Context is the platform audio device. It is constructed by the caller and
// passed to whatever needs decoding or playback; there is no global instance.
type Context interface {
	Decode(ctx context.Context, data []byte) (Buffer, error)
	State() State
	Resume(ctx context.Context) error
	// Start plays buf through the context's master gain, starting offset seconds in.
	Start(buf Buffer, offset float64, loop bool) (Source, error)
	SetGain(gain float64)
}
