package core

import (
	"sync"

	"github.com/google/uuid"
)

// Sink is a multi-subscriber fan-out channel with replay-latest semantics:
// a new subscriber immediately receives the most recently published value for
// each replay key (in first-publish order), then every later value in
// publication order. Publication never blocks the writer; a subscriber whose
// buffer is full misses that delivery instead of slowing anyone else down.
type Sink[T any] struct {
	mu     sync.Mutex
	subs   map[string]chan T
	buffer int
	keyFn  func(T) string
	order  []string
	latest map[string]T
}

// NewSink builds a sink. keyFn maps a value to its replay slot; values sharing
// a key overwrite each other's replay entry. buffer is the per-subscriber
// channel capacity.
func NewSink[T any](buffer int, keyFn func(T) string) *Sink[T] {
	if buffer < 1 {
		buffer = 1
	}
	return &Sink[T]{
		subs:   make(map[string]chan T),
		buffer: buffer,
		keyFn:  keyFn,
		latest: make(map[string]T),
	}
}

// Publish records v as the latest value for its key and delivers it to every
// current subscriber.
func (s *Sink[T]) Publish(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.keyFn(v)
	if _, seen := s.latest[key]; !seen {
		s.order = append(s.order, key)
	}
	s.latest[key] = v

	for _, ch := range s.subs {
		select {
		case ch <- v:
		default:
			// Slow subscriber: skip this delivery for it.
		}
	}
}

// Subscribe registers a new subscriber seeded with the latest value per replay
// key. The cancel func detaches the subscriber; calling it more than once is
// safe, and it never disturbs other subscribers.
func (s *Sink[T]) Subscribe() (<-chan T, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Extra capacity so the replay seed always fits alongside live events.
	ch := make(chan T, s.buffer+len(s.order))
	for _, key := range s.order {
		ch <- s.latest[key]
	}

	id := uuid.NewString()
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
	return ch, cancel
}

// SubscriberCount returns the number of live subscribers.
func (s *Sink[T]) SubscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
