package app

import (
	"context"
	stdhttp "net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/mobtimer-server/internal/config"
	"github.com/vovakirdan/mobtimer-server/internal/core"
	"github.com/vovakirdan/mobtimer-server/internal/names"
	"github.com/vovakirdan/mobtimer-server/internal/stats"
	transporthttp "github.com/vovakirdan/mobtimer-server/internal/transport/http"
)

// App wires together the room registry, the scheduled background tasks and
// the HTTP transport.
type App struct {
	server          *stdhttp.Server
	registry        *core.Registry
	monitor         *core.Sink[core.Gauge]
	clock           clockwork.Clock
	sweepInterval   time.Duration
	monitorInterval time.Duration
	shutdownTimeout time.Duration
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg config.Config, clock clockwork.Clock, logger *zerolog.Logger) *App {
	registry := core.NewRegistry(cfg.HistoryRetention, cfg.SubscriberBuffer, *logger)
	collector := stats.New(clock.Now())
	monitor := core.NewSink(4, func(g core.Gauge) string { return string(g.Name) })
	generator := names.New()

	server := transporthttp.NewServer(registry, collector, monitor, generator, clock, cfg, logger)

	return &App{
		server:          server,
		registry:        registry,
		monitor:         monitor,
		clock:           clock,
		sweepInterval:   cfg.SweepInterval,
		monitorInterval: cfg.MonitorInterval,
		shutdownTimeout: cfg.ShutdownTimeout,
		log:             logger,
	}
}

// Run starts the HTTP server and background tasks, blocking until context
// cancellation or a fatal server error.
func (a *App) Run(ctx context.Context) error {
	go a.runSweeper(ctx)
	go a.runMonitor(ctx)

	serverErr := make(chan error, 1)
	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}

// runSweeper evicts stale history entries from every room on a fixed interval.
func (a *App) runSweeper(ctx context.Context) {
	ticker := a.clock.NewTicker(a.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			a.registry.Sweep(a.clock.Now())
		}
	}
}

// runMonitor samples process-wide gauges for index page subscribers.
func (a *App) runMonitor(ctx context.Context) {
	ticker := a.clock.NewTicker(a.monitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			a.monitor.Publish(core.Gauge{Name: core.GaugeActiveUsers, Value: int64(a.registry.CountConnections())})
			a.monitor.Publish(core.Gauge{Name: core.GaugeActiveTimers, Value: int64(a.registry.CountActiveTimers(a.clock.Now()))})
		}
	}
}
