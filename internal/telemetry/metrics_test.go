package telemetry_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyang/engn/internal/adapter/memory"
	"github.com/alanyang/engn/internal/domain/event"
	porteventbus "github.com/alanyang/engn/internal/port/eventbus"
	"github.com/alanyang/engn/internal/telemetry"
)

func TestHandle_CountsTicksOnly(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := telemetry.NewMetrics(reg)

	m.Handle(event.Init(time.Now()))
	m.Handle(event.Tick(1, 0.016, time.Now()))
	m.Handle(event.Tick(2, 0.017, time.Now()))

	n, err := testutil.GatherAndCount(reg, "engn_frames_total", "engn_frame_dt_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		switch f.GetName() {
		case "engn_frames_total":
			assert.Equal(t, 2.0, f.GetMetric()[0].GetCounter().GetValue())
		case "engn_frame_dt_seconds":
			assert.Equal(t, uint64(2), f.GetMetric()[0].GetHistogram().GetSampleCount())
		}
	}
}

func TestLoadFinished_ByResult(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := telemetry.NewMetrics(reg)

	m.LoadFinished(3, 10*time.Millisecond, nil)
	m.LoadFinished(2, 5*time.Millisecond, errors.New("x"))
	m.LoadFinished(1, time.Millisecond, nil)

	n, err := testutil.GatherAndCount(reg, "engn_asset_loads_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "one series per result")
}

func TestHandlerPanicked_WiredThroughBus(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := telemetry.NewMetrics(reg)
	bus := memory.NewBus[event.Event](memory.WithPanicHook(m.HandlerPanicked))

	_, err := bus.Subscribe(event.TypeTick, porteventbus.Func(func(event.Event) { panic("render failed") }))
	require.NoError(t, err)
	_, err = bus.Subscribe(event.TypeTick, m)
	require.NoError(t, err)

	bus.Publish(event.TypeTick, event.Tick(1, 0.01, time.Now()))

	n, err := testutil.GatherAndCount(reg, "engn_event_handler_panics_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = testutil.GatherAndCount(reg, "engn_frames_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n, "handlers after the panicking one still run")
}
