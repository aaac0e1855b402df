package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/mobtimer-server/internal/core"
	"github.com/vovakirdan/mobtimer-server/internal/stats"
)

// RoomHandlers provides HTTP handlers for a single room's commands and streams.
type RoomHandlers struct {
	registry  *core.Registry
	stats     *stats.Collector
	clock     clockwork.Clock
	keepAlive time.Duration
	log       *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(
	registry *core.Registry,
	collector *stats.Collector,
	clock clockwork.Clock,
	keepAlive time.Duration,
	logger *zerolog.Logger,
) *RoomHandlers {
	return &RoomHandlers{
		registry:  registry,
		stats:     collector,
		clock:     clock,
		keepAlive: keepAlive,
		log:       logger,
	}
}

// PutTimerRequest starts a work or break timer. Exactly one of Timer and
// Breaktimer is expected.
type PutTimerRequest struct {
	Timer      *int64 `json:"timer"`
	Breaktimer *int64 `json:"breaktimer"`
	User       string `json:"user"`
}

// PutGoalRequest sets the room goal.
type PutGoalRequest struct {
	Goal *string `json:"goal"`
	User string `json:"user"`
}

// DeleteGoalRequest clears the room goal.
type DeleteGoalRequest struct {
	User string `json:"user"`
}

// GoalResponse is the current goal in API responses.
type GoalResponse struct {
	Goal string `json:"goal"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// PutTimer handles timer and break requests.
// PUT /:room
func (h *RoomHandlers) PutTimer(c *gin.Context) {
	var req PutTimerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid timer request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	room := h.registry.Get(c.Param("room"))
	switch {
	case req.Timer != nil:
		minutes := core.ClampMinutes(*req.Timer)
		room.AddTimer(minutes, req.User, h.clock.Now())
		h.stats.RecordTimer(room.Name(), minutes)
		h.log.Info().
			Int64("timer", minutes).
			Str("user", req.User).
			Str("room", room.Name()).
			Msg("added timer")
	case req.Breaktimer != nil:
		minutes := core.ClampMinutes(*req.Breaktimer)
		room.AddBreak(minutes, req.User, h.clock.Now())
		h.stats.RecordBreak(room.Name(), minutes)
		h.log.Info().
			Int64("breaktimer", minutes).
			Str("user", req.User).
			Str("room", room.Name()).
			Msg("added break timer")
	default:
		h.log.Warn().Str("room", room.Name()).Msg("could not understand timer request")
	}
	c.Status(http.StatusAccepted)
}

// PutGoal handles goal updates.
// PUT /:room/goal
func (h *RoomHandlers) PutGoal(c *gin.Context) {
	var req PutGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid goal request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	room := h.registry.Get(c.Param("room"))
	if req.Goal == nil {
		h.log.Warn().Str("room", room.Name()).Msg("could not understand goal request")
		c.Status(http.StatusAccepted)
		return
	}

	goal := core.TruncateGoal(*req.Goal)
	room.SetGoal(goal, req.User, h.clock.Now())
	h.stats.RecordGoal(room.Name())
	h.log.Info().
		Str("goal", goal).
		Str("user", req.User).
		Str("room", room.Name()).
		Msg("set goal")
	c.Status(http.StatusAccepted)
}

// DeleteGoal clears the room goal.
// DELETE /:room/goal
func (h *RoomHandlers) DeleteGoal(c *gin.Context) {
	var req DeleteGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid delete goal request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	h.registry.Get(c.Param("room")).DeleteGoal(req.User)
	c.Status(http.StatusAccepted)
}

// GetGoal returns the current goal, or 204 when none is set.
// GET /:room/goal
func (h *RoomHandlers) GetGoal(c *gin.Context) {
	goal := h.registry.Get(c.Param("room")).CurrentGoal()
	if !goal.IsSet() {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, GoalResponse{Goal: goal.Text})
}

// Team returns the sorted distinct users who requested timers in this room.
// GET /:room/team
func (h *RoomHandlers) Team(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.Get(c.Param("room")).Team())
}
