package wire

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/benbjohnson/clock"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/afero"

	"github.com/alanyang/engn/internal/adapter/clockhost"
	"github.com/alanyang/engn/internal/adapter/fsfetch"
	"github.com/alanyang/engn/internal/adapter/headless"
	"github.com/alanyang/engn/internal/adapter/httpfetch"
	"github.com/alanyang/engn/internal/adapter/memory"
	pgdb "github.com/alanyang/engn/internal/adapter/postgres"
	"github.com/alanyang/engn/internal/adapter/postgres/assetstore"
	"github.com/alanyang/engn/internal/config"
	"github.com/alanyang/engn/internal/domain/event"
	portfetcher "github.com/alanyang/engn/internal/port/fetcher"

	assetsvc "github.com/alanyang/engn/internal/service/asset"
	audiosvc "github.com/alanyang/engn/internal/service/audio"
	"github.com/alanyang/engn/internal/service/loop"
	"github.com/alanyang/engn/internal/service/scheduler"
	"github.com/alanyang/engn/internal/telemetry"

	"github.com/alanyang/engn/internal/transport"
	mcptransport "github.com/alanyang/engn/internal/transport/mcp"
	wshandler "github.com/alanyang/engn/internal/transport/ws"
)

// App holds the top-level resources needed to run and gracefully stop the process.
type App struct {
	Pool      *pgxpool.Pool // nil unless assets come from Postgres
	Server    *http.Server
	Scheduler *scheduler.Scheduler
	Library   *assetsvc.Library
	Audio     *headless.Context
	MCPServer *mcptransport.Server
}

// Close stops the frame loop and releases the audio device and database pool.
func (a *App) Close() {
	a.Scheduler.Stop()
	a.Audio.Close()
	if a.Pool != nil {
		a.Pool.Close()
	}
}

// Build is the composition root: the only place concrete types are wired to their
// interface dependencies.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	// ── Asset source ─────────────────────────────────────────────────────────
	fetch, pool, err := buildFetcher(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// ── Telemetry ────────────────────────────────────────────────────────────
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := telemetry.NewMetrics(registry)
	hub := wshandler.NewHub(cfg.TelemetryHz)

	// ── Audio ────────────────────────────────────────────────────────────────
	audioCtx := headless.New()
	mixer := audiosvc.NewMixer(audioCtx)

	// ── Assets ───────────────────────────────────────────────────────────────
	loader := assetsvc.NewLoader(fetch, assetsvc.WithAudioContext(audioCtx))
	pipeline := assetsvc.NewPipeline(assetsvc.WithRecorder(metrics))
	library := assetsvc.NewLibrary(fetch, loader, pipeline, cfg.AssetManifest)
	if _, err := library.Reload(ctx); err != nil {
		closePool(pool)
		return nil, fmt.Errorf("initial asset load: %w", err)
	}

	// ── Frame loop ───────────────────────────────────────────────────────────
	bus := memory.NewBus[event.Event](memory.WithPanicHook(metrics.HandlerPanicked))
	host := clockhost.New(clock.New(), cfg.FPS)
	sched := scheduler.New(host, scheduler.WithBus(bus))

	for _, t := range []event.Type{event.TypeInit, event.TypeTick} {
		if _, err := bus.Subscribe(t, hub); err != nil {
			closePool(pool)
			return nil, fmt.Errorf("subscribe telemetry hub: %w", err)
		}
	}
	if _, err := bus.Subscribe(event.TypeTick, metrics); err != nil {
		closePool(pool)
		return nil, fmt.Errorf("subscribe metrics: %w", err)
	}

	sess := newSession(library)
	if err := loop.Bind(sched, sess.init, sess.update, sess.render); err != nil {
		closePool(pool)
		return nil, fmt.Errorf("bind loop: %w", err)
	}

	// ── Transport ────────────────────────────────────────────────────────────
	mcpServer := mcptransport.New(sched, library, mixer)
	router := transport.NewRouter(
		sched,
		library,
		mixer,
		hub,
		mcpServer.Handler(),
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	)
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	slog.Info("application wired", "port", cfg.Port, "fps", cfg.FPS, "scheduler_id", sched.ID())

	if cfg.Autostart {
		sched.Run()
	}

	return &App{
		Pool:      pool,
		Server:    server,
		Scheduler: sched,
		Library:   library,
		Audio:     audioCtx,
		MCPServer: mcpServer,
	}, nil
}

func buildFetcher(ctx context.Context, cfg config.Config) (portfetcher.Fetcher, *pgxpool.Pool, error) {
	switch {
	case cfg.DatabaseURL != "":
		pool, err := pgdb.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		if err := pgdb.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		slog.Info("serving assets from postgres")
		return assetstore.New(pool), pool, nil
	case cfg.AssetBaseURL != "":
		f, err := httpfetch.New(cfg.AssetBaseURL, cfg.HTTPTimeout)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("serving assets over http", "base_url", cfg.AssetBaseURL)
		return f, nil, nil
	default:
		slog.Info("serving assets from disk", "root", cfg.AssetRoot)
		return fsfetch.New(afero.NewOsFs(), cfg.AssetRoot), nil, nil
	}
}

func closePool(pool *pgxpool.Pool) {
	if pool != nil {
		pool.Close()
	}
}
