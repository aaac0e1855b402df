package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/mobtimer-server/internal/core"
	"github.com/vovakirdan/mobtimer-server/internal/names"
	"github.com/vovakirdan/mobtimer-server/internal/stats"
)

// IndexHandlers provides the process-wide endpoints: landing page data, the
// gauges stream, room name generation and usage statistics.
type IndexHandlers struct {
	registry  *core.Registry
	stats     *stats.Collector
	monitor   *core.Sink[core.Gauge]
	generator *names.Generator
	clock     clockwork.Clock
	log       *zerolog.Logger
}

// NewIndexHandlers creates a new index handlers instance.
func NewIndexHandlers(
	registry *core.Registry,
	collector *stats.Collector,
	monitor *core.Sink[core.Gauge],
	generator *names.Generator,
	clock clockwork.Clock,
	logger *zerolog.Logger,
) *IndexHandlers {
	return &IndexHandlers{
		registry:  registry,
		stats:     collector,
		monitor:   monitor,
		generator: generator,
		clock:     clock,
		log:       logger,
	}
}

// IndexResponse summarizes the process for the landing page.
type IndexResponse struct {
	Rooms        int `json:"rooms"`
	Connections  int `json:"connections"`
	ActiveTimers int `json:"active_timers"`
}

// RoomNameResponse carries a freshly generated unused room name.
type RoomNameResponse struct {
	Room string `json:"room"`
}

// Index returns current process-wide counts.
// GET /
func (h *IndexHandlers) Index(c *gin.Context) {
	c.JSON(http.StatusOK, IndexResponse{
		Rooms:        h.registry.Count(),
		Connections:  h.registry.CountConnections(),
		ActiveTimers: h.registry.CountActiveTimers(h.clock.Now()),
	})
}

// Events streams sampled gauges (active users, active timers) over SSE.
// GET /events
func (h *IndexHandlers) Events(c *gin.Context) {
	gauges, cancel := h.monitor.Subscribe()
	defer cancel()

	setStreamHeaders(c)
	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case g := <-gauges:
			c.SSEvent(string(g.Name), g.Value)
			c.Writer.Flush()
		}
	}
}

// RoomName returns a random room name that is not in use yet.
// GET /room-name
func (h *IndexHandlers) RoomName(c *gin.Context) {
	c.JSON(http.StatusOK, RoomNameResponse{
		Room: h.registry.UnusedName(h.generator.RandomName),
	})
}

// Stats returns usage counters since process start.
// GET /stats
func (h *IndexHandlers) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.stats.Snapshot())
}
