package core

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// Room owns one mob session: its append-only history, the current goal, and
// the event sink every connected viewer subscribes to. All mutations are
// serialized behind one mutex, and each mutation publishes its event before
// releasing that mutex, so no reader can observe an appended entry without its
// broadcast (or two entries out of order).
type Room struct {
	name string
	log  zerolog.Logger

	mu      sync.RWMutex
	history []TimerEntry
	goal    Goal
	sink    *Sink[Event]
}

// NewRoom builds an empty room. buffer is the per-subscriber event buffer.
func NewRoom(name string, buffer int, logger zerolog.Logger) *Room {
	return &Room{
		name: name,
		log:  logger.With().Str("room", name).Logger(),
		sink: NewSink(buffer, func(ev Event) string { return string(ev.Type) }),
	}
}

// Name returns the immutable room identifier.
func (r *Room) Name() string {
	return r.name
}

// AddTimer appends a work timer entry and broadcasts it. The next turn user is
// computed against the history snapshot the entry is appended to. Minutes are
// expected to be sanitized by the caller (see ClampMinutes).
func (r *Room) AddTimer(minutes int64, user string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := TimerEntry{
		Kind:        KindTimer,
		Minutes:     minutes,
		RequestedBy: user,
		NextUser:    nextTurnUser(r.history, user),
		RequestedAt: at,
	}
	r.history = append(r.history, entry)
	r.sink.Publish(Event{Type: EventTimer, Entry: &entry})
}

// AddBreak appends a break entry and broadcasts it. Breaks inherit the next
// turn user from the most recent entry instead of advancing the rotation.
func (r *Room) AddBreak(minutes int64, user string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := ""
	if len(r.history) > 0 {
		next = r.history[len(r.history)-1].NextUser
	}
	entry := TimerEntry{
		Kind:        KindBreak,
		Minutes:     minutes,
		RequestedBy: user,
		NextUser:    next,
		RequestedAt: at,
	}
	r.history = append(r.history, entry)
	r.sink.Publish(Event{Type: EventTimer, Entry: &entry})
}

// SetGoal replaces the current goal and broadcasts it. Text is expected to be
// sanitized by the caller (see TruncateGoal).
func (r *Room) SetGoal(text, user string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.goal = Goal{Text: text, SetBy: user, SetAt: at}
	goal := r.goal
	r.sink.Publish(Event{Type: EventGoal, Goal: &goal})
}

// DeleteGoal clears the current goal and broadcasts the cleared state.
// Deleting an absent goal is a logged no-op.
func (r *Room) DeleteGoal(user string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.goal.IsSet() {
		r.log.Info().Str("user", user).Msg("no goal to delete")
		return
	}
	r.log.Info().Str("user", user).Str("goal", r.goal.Text).Msg("goal deleted")
	r.goal = Goal{}
	r.sink.Publish(Event{Type: EventGoal, Goal: &Goal{}})
}

// CurrentGoal returns a snapshot of the goal slot.
func (r *Room) CurrentGoal() Goal {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.goal
}

// TimeLeft describes the state of the most recent timer at some instant.
// Minutes, RequestedAt and User are zero values when the history is empty.
type TimeLeft struct {
	Remaining   time.Duration
	Minutes     int64
	RequestedAt time.Time
	User        string
}

// TimeLeft derives the remaining time of the latest entry at now. It never
// returns a negative duration.
func (r *Room) TimeLeft(now time.Time) TimeLeft {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.history) == 0 {
		return TimeLeft{}
	}
	last := r.history[len(r.history)-1]
	remaining := last.RequestedAt.Add(time.Duration(last.Minutes) * time.Minute).Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	return TimeLeft{
		Remaining:   remaining,
		Minutes:     last.Minutes,
		RequestedAt: last.RequestedAt,
		User:        last.RequestedBy,
	}
}

// IsTimerActive reports whether the latest entry is still running at now.
func (r *Room) IsTimerActive(now time.Time) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.history) == 0 {
		return false
	}
	last := r.history[len(r.history)-1]
	return last.Minutes > 0 && last.RequestedAt.Add(time.Duration(last.Minutes)*time.Minute).After(now)
}

// HistoryExcludingLatest returns a copy of all but the last entry, in append
// order. New subscribers are seeded with this backlog; the latest entry
// reaches them through the sink's replay instead.
func (r *Room) HistoryExcludingLatest() []TimerEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.history) <= 1 {
		return nil
	}
	backlog := make([]TimerEntry, len(r.history)-1)
	copy(backlog, r.history[:len(r.history)-1])
	return backlog
}

// EvictStale drops every entry requested more than maxAge before now. When
// that empties the history it broadcasts the reset sentinel so connected
// subscribers clear their view.
func (r *Room) EvictStale(now time.Time, maxAge time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := now.Add(-maxAge)
	kept := r.history[:0:0]
	for _, e := range r.history {
		if !e.RequestedAt.Before(cutoff) {
			kept = append(kept, e)
		}
	}
	removed := len(r.history) - len(kept)
	if removed == 0 {
		return
	}
	r.history = kept
	r.log.Info().Int("removed", removed).Msg("evicted stale timer requests")

	if len(r.history) == 0 {
		entry := EmptyEntry()
		r.sink.Publish(Event{Type: EventTimer, Entry: &entry})
		r.log.Info().Msg("room history emptied")
	}
}

// Team returns the sorted distinct non-blank users who requested work timers.
func (r *Room) Team() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]string, 0, len(r.history))
	for _, e := range r.history {
		if e.Kind == KindTimer && e.RequestedBy != "" {
			users = append(users, e.RequestedBy)
		}
	}
	users = lo.Uniq(users)
	sort.Strings(users)
	return users
}

// Subscribe attaches a new viewer to the room's event stream. The channel is
// seeded with the latest timer and goal events; cancel detaches the viewer.
func (r *Room) Subscribe() (<-chan Event, func()) {
	return r.sink.Subscribe()
}

// SubscriberCount returns the number of live subscribers.
func (r *Room) SubscriberCount() int {
	return r.sink.SubscriberCount()
}
