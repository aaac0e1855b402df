package http

import (
	"time"

	"github.com/samber/lo"

	"github.com/vovakirdan/mobtimer-server/internal/core"
)

// Event names that exist only on the wire, next to core.EventTimer and
// core.EventGoal.
const (
	eventInitialHistory = "INITIAL_HISTORY"
	eventKeepAlive      = "KEEP_ALIVE"
)

// TimerEntryDTO is a history entry as serialized on event streams.
type TimerEntryDTO struct {
	Type      string     `json:"type"`
	Timer     *int64     `json:"timer,omitempty"`
	Requested *time.Time `json:"requested,omitempty"`
	User      *string    `json:"user,omitempty"`
	NextUser  *string    `json:"nextUser,omitempty"`
}

// GoalDTO is a goal state as serialized on event streams. Goal is null when
// the goal was cleared.
type GoalDTO struct {
	Goal      *string    `json:"goal"`
	User      *string    `json:"user,omitempty"`
	Requested *time.Time `json:"requested,omitempty"`
}

// Frame wraps a stream event for WebSocket delivery.
type Frame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

func entryDTO(e core.TimerEntry) TimerEntryDTO {
	dto := TimerEntryDTO{Type: string(e.Kind)}
	if e.Kind == core.KindEmpty {
		return dto
	}
	dto.Timer = &e.Minutes
	dto.Requested = &e.RequestedAt
	if e.RequestedBy != "" {
		dto.User = &e.RequestedBy
	}
	if e.NextUser != "" {
		dto.NextUser = &e.NextUser
	}
	return dto
}

func goalDTO(g core.Goal) GoalDTO {
	if !g.IsSet() {
		return GoalDTO{}
	}
	return GoalDTO{Goal: &g.Text, User: &g.SetBy, Requested: &g.SetAt}
}

func historyDTO(entries []core.TimerEntry) []TimerEntryDTO {
	return lo.Map(entries, func(e core.TimerEntry, _ int) TimerEntryDTO {
		return entryDTO(e)
	})
}

// eventPayload maps a room event to its wire name and body.
func eventPayload(ev core.Event) (string, any) {
	if ev.Type == core.EventGoal && ev.Goal != nil {
		return string(ev.Type), goalDTO(*ev.Goal)
	}
	if ev.Entry != nil {
		return string(ev.Type), entryDTO(*ev.Entry)
	}
	return string(ev.Type), nil
}
