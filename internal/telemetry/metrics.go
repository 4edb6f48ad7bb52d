package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/alanyang/engn/internal/domain/event"
)

// Metrics exports frame and asset-loading counters. It subscribes to ticks
// directly and plugs into the asset pipeline and the bus panic hook.
type Metrics struct {
	frames       prometheus.Counter
	frameDT      prometheus.Histogram
	loads        *prometheus.CounterVec
	loadDuration prometheus.Histogram
	panics       *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "engn_frames_total",
			Help: "Ticks published by the frame scheduler.",
		}),
		frameDT: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "engn_frame_dt_seconds",
			Help:    "Elapsed time between consecutive frames.",
			Buckets: []float64{0.004, 0.008, 0.0167, 0.025, 0.0334, 0.05, 0.1, 0.25},
		}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "engn_asset_loads_total",
			Help: "Asset load batches by result.",
		}, []string{"result"}),
		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "engn_asset_load_duration_seconds",
			Help:    "Wall time of asset load batches.",
			Buckets: prometheus.DefBuckets,
		}),
		panics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "engn_event_handler_panics_total",
			Help: "Event handler panics recovered by the bus.",
		}, []string{"type"}),
	}
	reg.MustRegister(m.frames, m.frameDT, m.loads, m.loadDuration, m.panics)
	return m
}

// Handle records one tick.
func (m *Metrics) Handle(e event.Event) {
	if e.Type != event.TypeTick {
		return
	}
	m.frames.Inc()
	m.frameDT.Observe(e.DT)
}

func (m *Metrics) LoadFinished(_ int, elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.loads.WithLabelValues(result).Inc()
	m.loadDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) HandlerPanicked(t event.Type, _ any) {
	m.panics.WithLabelValues(string(t)).Inc()
}
