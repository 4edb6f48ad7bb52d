package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	portaudio "github.com/alanyang/engn/internal/port/audio"
)

var (
	ErrNilBuffer = errors.New("audio: nil buffer")
	ErrNilSource = errors.New("audio: nil source")
)

// Mixer plays decoded buffers through one explicitly owned audio context and
// controls its master volume.
type Mixer struct {
	ctx portaudio.Context

	mu     sync.Mutex
	volume float64
}

func NewMixer(ctx portaudio.Context) *Mixer {
	return &Mixer{ctx: ctx, volume: 1}
}

// Play starts buf at offset seconds, optionally looping, and returns the
// playing source so it can be stopped later.
func (m *Mixer) Play(buf portaudio.Buffer, offset float64, loop bool) (portaudio.Source, error) {
	if buf == nil {
		return nil, ErrNilBuffer
	}
	if offset < 0 {
		offset = 0
	}
	src, err := m.ctx.Start(buf, offset, loop)
	if err != nil {
		return nil, fmt.Errorf("start source: %w", err)
	}
	return src, nil
}

func (m *Mixer) Stop(src portaudio.Source) error {
	if src == nil {
		return ErrNilSource
	}
	if err := src.Stop(); err != nil {
		return fmt.Errorf("stop source: %w", err)
	}
	return nil
}

// SetVolume sets the master gain, clamped to [0, 1].
func (m *Mixer) SetVolume(v float64) float64 {
	switch {
	case v < 0:
		v = 0
	case v > 1:
		v = 1
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = v
	m.ctx.SetGain(v)
	return v
}

func (m *Mixer) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

func (m *Mixer) State() portaudio.State { return m.ctx.State() }

// Resume wakes a suspended or interrupted context. Call it from a user input
// handler; other states are left alone. It reports whether a resume was issued.
func (m *Mixer) Resume(ctx context.Context) (bool, error) {
	switch m.ctx.State() {
	case portaudio.StateSuspended, portaudio.StateInterrupted:
	default:
		return false, nil
	}
	if err := m.ctx.Resume(ctx); err != nil {
		return false, fmt.Errorf("resume audio context: %w", err)
	}
	slog.InfoContext(ctx, "audio context resumed")
	return true, nil
}
