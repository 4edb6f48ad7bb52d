package loop

import (
	"errors"
	"fmt"

	"github.com/alanyang/engn/internal/domain/event"
	porteventbus "github.com/alanyang/engn/internal/port/eventbus"
	portframe "github.com/alanyang/engn/internal/port/frame"
	"github.com/alanyang/engn/internal/service/scheduler"
)

var ErrNilCallback = errors.New("loop: init, update and render are required")

// Run builds a scheduler on host, binds the callbacks to it and starts it.
func Run(host portframe.Host, init func(), update func(dt float64), render func(), opts ...scheduler.Option) (*scheduler.Scheduler, error) {
	s := scheduler.New(host, opts...)
	if err := Bind(s, init, update, render); err != nil {
		return nil, err
	}
	s.Run()
	return s, nil
}

// Bind wires init to the scheduler's init event and update+render to its tick
// event without starting it. update always runs before render, with the same
// dt; if update panics render is skipped for that frame.
func Bind(s *scheduler.Scheduler, init func(), update func(dt float64), render func()) error {
	if init == nil || update == nil || render == nil {
		return ErrNilCallback
	}

	if _, err := s.On(event.TypeInit, porteventbus.Func(func(event.Event) { init() })); err != nil {
		return fmt.Errorf("subscribe init: %w", err)
	}
	frame := func(e event.Event) {
		update(e.DT)
		render()
	}
	if _, err := s.On(event.TypeTick, porteventbus.Func(frame)); err != nil {
		return fmt.Errorf("subscribe tick: %w", err)
	}
	return nil
}
