package http

import (
	"fmt"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/mobtimer-server/internal/config"
	"github.com/vovakirdan/mobtimer-server/internal/core"
	"github.com/vovakirdan/mobtimer-server/internal/names"
	"github.com/vovakirdan/mobtimer-server/internal/stats"
)

// NewServer builds the HTTP server with all timer routes.
func NewServer(
	registry *core.Registry,
	collector *stats.Collector,
	monitor *core.Sink[core.Gauge],
	generator *names.Generator,
	clock clockwork.Clock,
	cfg config.Config,
	logger *zerolog.Logger,
) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(LoggerMiddleware(logger), gin.Recovery())

	rooms := NewRoomHandlers(registry, collector, clock, cfg.KeepAliveInterval, logger)
	index := NewIndexHandlers(registry, collector, monitor, generator, clock, logger)

	router.GET("/health", healthHandler)
	router.GET("/", index.Index)
	router.GET("/events", index.Events)
	router.GET("/room-name", index.RoomName)
	router.GET("/stats", index.Stats)

	room := router.Group("/:room", RoomNameMiddleware())
	room.PUT("", rooms.PutTimer)
	room.GET("/events", rooms.Events)
	room.GET("/ws", rooms.Stream)
	room.GET("/goal", rooms.GetGoal)
	room.PUT("/goal", rooms.PutGoal)
	room.DELETE("/goal", rooms.DeleteGoal)
	room.GET("/team", rooms.Team)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           cors.AllowAll().Handler(router),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	_, _ = fmt.Fprint(c.Writer, "ok")
}
