package wire

import (
	"log/slog"

	assetsvc "github.com/alanyang/engn/internal/service/asset"
)

// reportEvery is the simulated time between frame-rate log lines.
const reportEvery = 5.0

// session is the headless game bound to the loop: it tracks simulated time and
// periodically reports the achieved frame rate. The scheduler serialises init,
// update and render, so the fields need no lock.
type session struct {
	library *assetsvc.Library

	elapsed  float64
	window   float64
	rendered int
}

func newSession(lib *assetsvc.Library) *session {
	return &session{library: lib}
}

func (s *session) init() {
	s.elapsed, s.window, s.rendered = 0, 0, 0
	slog.Info("loop init", "assets", s.library.Bundle().Len())
}

func (s *session) update(dt float64) {
	s.elapsed += dt
	s.window += dt
}

func (s *session) render() {
	s.rendered++
	if s.window < reportEvery {
		return
	}
	slog.Debug("frame rate", "fps", float64(s.rendered)/s.window, "elapsed", s.elapsed)
	s.window, s.rendered = 0, 0
}
