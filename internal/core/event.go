package core

// EventType names what a room event carries. The values double as the SSE
// event names seen by clients.
type EventType string

const (
	// EventTimer carries a new history entry, including the reset sentinel.
	EventTimer EventType = "TIMER_REQUEST"
	// EventGoal carries the current goal, or a cleared goal after deletion.
	EventGoal EventType = "GOAL_REQUEST"
)

// Event is what room subscribers receive. Exactly one of Entry or Goal is set,
// matching Type.
type Event struct {
	Type  EventType
	Entry *TimerEntry
	Goal  *Goal
}

// GaugeName identifies a process-wide sampled metric.
type GaugeName string

const (
	// GaugeActiveUsers is the number of live event-stream subscribers.
	GaugeActiveUsers GaugeName = "ACTIVE_USERS_UPDATE"
	// GaugeActiveTimers is the number of rooms with a running timer.
	GaugeActiveTimers GaugeName = "ACTIVE_TIMERS_UPDATE"
)

// Gauge is one sample published to index page subscribers.
type Gauge struct {
	Name  GaugeName
	Value int64
}
