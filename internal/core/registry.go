package core

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Registry owns every room in the process. Rooms are created lazily on first
// access and are never deleted; the sweep only trims their histories, so an
// emptied room revives on the next timer request.
type Registry struct {
	log       zerolog.Logger
	buffer    int
	retention time.Duration

	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewRegistry builds an empty registry. retention is how long history entries
// live before the sweep removes them; buffer is the per-subscriber event
// buffer handed to new rooms.
func NewRegistry(retention time.Duration, buffer int, logger zerolog.Logger) *Registry {
	return &Registry{
		log:       logger,
		buffer:    buffer,
		retention: retention,
		rooms:     make(map[string]*Room),
	}
}

// Get returns the room with the given name, creating it on first access.
// Concurrent calls for the same name observe a single room instance.
func (reg *Registry) Get(name string) *Room {
	reg.mu.RLock()
	room, ok := reg.rooms[name]
	reg.mu.RUnlock()
	if ok {
		return room
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if room, ok := reg.rooms[name]; ok {
		return room
	}
	room = NewRoom(name, reg.buffer, reg.log)
	reg.rooms[name] = room
	reg.log.Info().Str("room", name).Msg("created room")
	return room
}

// Has reports whether a room with the given name exists.
func (reg *Registry) Has(name string) bool {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	_, ok := reg.rooms[name]
	return ok
}

// Sweep evicts stale entries from every room. Rooms are swept one by one
// without holding the registry lock, so unrelated rooms keep serving commands,
// and a panic while sweeping one room never aborts the rest.
func (reg *Registry) Sweep(now time.Time) {
	for _, room := range reg.snapshot() {
		reg.sweepRoom(room, now)
	}
}

func (reg *Registry) sweepRoom(room *Room, now time.Time) {
	defer func() {
		if rec := recover(); rec != nil {
			reg.log.Error().Str("room", room.Name()).Any("panic", rec).Msg("room sweep panicked")
		}
	}()
	room.EvictStale(now, reg.retention)
}

// Count returns the number of known rooms, including emptied ones.
func (reg *Registry) Count() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

// CountConnections sums live subscriber counts across rooms. The value is a
// point-in-time sample for display purposes only.
func (reg *Registry) CountConnections() int {
	total := 0
	for _, room := range reg.snapshot() {
		total += room.SubscriberCount()
	}
	return total
}

// CountActiveTimers counts rooms whose latest timer is still running at now.
func (reg *Registry) CountActiveTimers(now time.Time) int {
	total := 0
	for _, room := range reg.snapshot() {
		if room.IsTimerActive(now) {
			total++
		}
	}
	return total
}

// UnusedName keeps drawing names from generate until one does not collide
// with an existing room.
func (reg *Registry) UnusedName(generate func() string) string {
	for {
		name := generate()
		if !reg.Has(name) {
			return name
		}
	}
}

func (reg *Registry) snapshot() []*Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	rooms := make([]*Room, 0, len(reg.rooms))
	for _, room := range reg.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}
