package http

import (
	"bytes"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/mobtimer-server/internal/config"
	"github.com/vovakirdan/mobtimer-server/internal/core"
	"github.com/vovakirdan/mobtimer-server/internal/names"
	"github.com/vovakirdan/mobtimer-server/internal/stats"
)

type testEnv struct {
	handler  stdhttp.Handler
	registry *core.Registry
	monitor  *core.Sink[core.Gauge]
	clock    *clockwork.FakeClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := zerolog.New(nil)
	clock := clockwork.NewFakeClockAt(time.Date(2020, 1, 24, 6, 0, 0, 0, time.UTC))
	cfg := config.Default()

	registry := core.NewRegistry(cfg.HistoryRetention, cfg.SubscriberBuffer, logger)
	collector := stats.New(clock.Now())
	monitor := core.NewSink(4, func(g core.Gauge) string { return string(g.Name) })

	server := NewServer(registry, collector, monitor, names.New(), clock, cfg, &logger)
	return &testEnv{
		handler:  server.Handler,
		registry: registry,
		monitor:  monitor,
		clock:    clock,
	}
}

func (env *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *stdhttp.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	resp := httptest.NewRecorder()
	env.handler.ServeHTTP(resp, req)
	return resp
}
