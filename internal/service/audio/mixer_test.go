package audio_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/alanyang/engn/internal/mocks"
	portaudio "github.com/alanyang/engn/internal/port/audio"
	audiosvc "github.com/alanyang/engn/internal/service/audio"
)

func newMixer(t *testing.T) (*audiosvc.Mixer, *mocks.MockContext, *gomock.Controller) {
	t.Helper()
	ctrl := gomock.NewController(t)
	ac := mocks.NewMockContext(ctrl)
	return audiosvc.NewMixer(ac), ac, ctrl
}

// ── Play / Stop ───────────────────────────────────────────────────────────────

func TestPlay_StartsThroughContext(t *testing.T) {
	m, ac, ctrl := newMixer(t)
	buf := mocks.NewMockBuffer(ctrl)
	src := mocks.NewMockSource(ctrl)
	ac.EXPECT().Start(buf, 1.5, true).Return(src, nil)

	got, err := m.Play(buf, 1.5, true)
	require.NoError(t, err)
	assert.Same(t, src, got)
}

func TestPlay_NegativeOffsetStartsAtZero(t *testing.T) {
	m, ac, ctrl := newMixer(t)
	buf := mocks.NewMockBuffer(ctrl)
	ac.EXPECT().Start(buf, 0.0, false).Return(mocks.NewMockSource(ctrl), nil)

	_, err := m.Play(buf, -3, false)
	require.NoError(t, err)
}

func TestPlay_NilBuffer(t *testing.T) {
	m, _, _ := newMixer(t)
	_, err := m.Play(nil, 0, false)
	assert.ErrorIs(t, err, audiosvc.ErrNilBuffer)
}

func TestPlay_ContextError(t *testing.T) {
	m, ac, ctrl := newMixer(t)
	ac.EXPECT().Start(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("device lost"))

	_, err := m.Play(mocks.NewMockBuffer(ctrl), 0, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start source")
}

func TestStop(t *testing.T) {
	m, _, ctrl := newMixer(t)
	src := mocks.NewMockSource(ctrl)
	src.EXPECT().Stop().Return(nil)

	assert.NoError(t, m.Stop(src))
}

func TestStop_NilSource(t *testing.T) {
	m, _, _ := newMixer(t)

	assert.ErrorIs(t, m.Stop(nil), audiosvc.ErrNilSource)
}

// ── Volume ────────────────────────────────────────────────────────────────────

func TestSetVolume_Clamps(t *testing.T) {
	m, ac, _ := newMixer(t)
	gomock.InOrder(
		ac.EXPECT().SetGain(0.5),
		ac.EXPECT().SetGain(1.0),
		ac.EXPECT().SetGain(0.0),
	)

	assert.Equal(t, 0.5, m.SetVolume(0.5))
	assert.Equal(t, 1.0, m.SetVolume(4))
	assert.Equal(t, 0.0, m.SetVolume(-1))
	assert.Equal(t, 0.0, m.Volume())
}

// ── Resume ────────────────────────────────────────────────────────────────────

func TestResume_OnlyWhenSuspendedOrInterrupted(t *testing.T) {
	cases := []struct {
		state  portaudio.State
		resume bool
	}{
		{portaudio.StateSuspended, true},
		{portaudio.StateInterrupted, true},
		{portaudio.StateRunning, false},
		{portaudio.StateClosed, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.state), func(t *testing.T) {
			m, ac, _ := newMixer(t)
			ac.EXPECT().State().Return(tc.state)
			if tc.resume {
				ac.EXPECT().Resume(gomock.Any()).Return(nil)
			}

			resumed, err := m.Resume(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tc.resume, resumed)
		})
	}
}

func TestResume_Error(t *testing.T) {
	m, ac, _ := newMixer(t)
	ac.EXPECT().State().Return(portaudio.StateSuspended)
	ac.EXPECT().Resume(gomock.Any()).Return(errors.New("not allowed"))

	_, err := m.Resume(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resume audio context")
}
