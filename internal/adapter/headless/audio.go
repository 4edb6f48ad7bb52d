package headless

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-audio/wav"

	portaudio "github.com/alanyang/engn/internal/port/audio"
)

var (
	ErrNotWAV     = errors.New("headless audio: not a RIFF/WAVE stream")
	ErrClosed     = errors.New("headless audio: context closed")
	ErrBadBuffer  = errors.New("headless audio: buffer was not decoded by this context")
	ErrNotPlaying = errors.New("headless audio: source already stopped")
)

var _ portaudio.Context = (*Context)(nil)

// Buffer is PCM decoded from a WAV container. Samples are interleaved.
type Buffer struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Samples    []int
}

// Frames returns the number of sample frames, one sample per channel each.
func (b *Buffer) Frames() int {
	if b.Channels == 0 {
		return 0
	}
	return len(b.Samples) / b.Channels
}

func (b *Buffer) Duration() float64 {
	if b.SampleRate == 0 {
		return 0
	}
	return float64(b.Frames()) / float64(b.SampleRate)
}

// Context is an audio device without output. It starts suspended, like a
// browser context created before any user gesture, and tracks playing sources.
type Context struct {
	mu      sync.Mutex
	state   portaudio.State
	gain    float64
	playing map[*Source]struct{}
}

func New() *Context {
	return &Context{
		state:   portaudio.StateSuspended,
		gain:    1,
		playing: make(map[*Source]struct{}),
	}
}

func (c *Context) Decode(ctx context.Context, data []byte) (portaudio.Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return decodeWAV(data)
}

func (c *Context) State() portaudio.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Context) Resume(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == portaudio.StateClosed {
		return ErrClosed
	}
	c.state = portaudio.StateRunning
	return nil
}

// Interrupt simulates the platform taking the device away.
func (c *Context) Interrupt() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != portaudio.StateClosed {
		c.state = portaudio.StateInterrupted
	}
}

func (c *Context) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = portaudio.StateClosed
	c.playing = make(map[*Source]struct{})
}

func (c *Context) Gain() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gain
}

func (c *Context) SetGain(gain float64) {
	c.mu.Lock()
	c.gain = gain
	c.mu.Unlock()
}

func (c *Context) Start(buf portaudio.Buffer, offset float64, loop bool) (portaudio.Source, error) {
	b, ok := buf.(*Buffer)
	if !ok || b == nil {
		return nil, ErrBadBuffer
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == portaudio.StateClosed {
		return nil, ErrClosed
	}
	src := &Source{ctx: c, Buffer: b, Offset: offset, Loop: loop}
	c.playing[src] = struct{}{}
	return src, nil
}

// Playing returns the number of sources started and not yet stopped.
func (c *Context) Playing() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.playing)
}

type Source struct {
	ctx    *Context
	Buffer *Buffer
	Offset float64
	Loop   bool
}

func (s *Source) Stop() error {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()
	if _, ok := s.ctx.playing[s]; !ok {
		return ErrNotPlaying
	}
	delete(s.ctx.playing, s)
	return nil
}

func decodeWAV(data []byte) (*Buffer, error) {
	d := wav.NewDecoder(bytes.NewReader(data))
	if !d.IsValidFile() {
		return nil, ErrNotWAV
	}
	pcm, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotWAV, err)
	}
	if want := d.PCMSize / int(d.BitDepth/8); len(pcm.Data) < want {
		return nil, fmt.Errorf("%w: data chunk truncated after %d of %d samples", ErrNotWAV, len(pcm.Data), want)
	}
	return &Buffer{
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
		BitDepth:   int(d.BitDepth),
		Samples:    pcm.Data,
	}, nil
}
