package core

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestRoom(t *testing.T, name string) *Room {
	t.Helper()
	return NewRoom(name, 16, zerolog.New(nil))
}

func mustEvent(t *testing.T, ch <-chan Event, kind EventType) Event {
	t.Helper()
	select {
	case ev := <-ch:
		if ev.Type != kind {
			t.Fatalf("expected event %s, got %s", kind, ev.Type)
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatalf("expected event %s not received", kind)
		return Event{}
	}
}

func mustNoEvent(t *testing.T, ch <-chan Event) {
	t.Helper()
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %s", ev.Type)
	default:
	}
}

func TestTimeLeftScenario(t *testing.T) {
	room := newTestRoom(t, "big-boar-37")
	start := time.Date(2020, 1, 24, 6, 0, 0, 0, time.UTC)

	room.AddTimer(10, "alice", start)

	left := room.TimeLeft(start.Add(5 * time.Minute))
	if left.Remaining != 5*time.Minute {
		t.Errorf("remaining = %v, want 5m", left.Remaining)
	}
	if left.Minutes != 10 || left.User != "alice" || !left.RequestedAt.Equal(start) {
		t.Errorf("unexpected time left: %+v", left)
	}

	history := room.HistoryExcludingLatest()
	if len(history) != 0 {
		t.Fatalf("single entry must yield empty backlog, got %d", len(history))
	}
	if next := latestEntry(t, room); next.NextUser != "" {
		t.Errorf("first timer must have no next user, got %q", next.NextUser)
	}
}

// latestEntry grabs the most recent history entry for assertions.
func latestEntry(t *testing.T, r *Room) TimerEntry {
	t.Helper()
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.history) == 0 {
		t.Fatal("history is empty")
	}
	return r.history[len(r.history)-1]
}

func TestRotationAlternatesThroughRoom(t *testing.T) {
	room := newTestRoom(t, "rotation")
	now := time.Date(2020, 1, 24, 6, 0, 0, 0, time.UTC)

	room.AddTimer(5, "alice", now)
	room.AddTimer(5, "bob", now.Add(time.Minute))
	if e := latestEntry(t, room); e.NextUser != "alice" {
		t.Errorf("bob's entry next user = %q, want alice", e.NextUser)
	}

	room.AddBreak(3, "carol", now.Add(2*time.Minute))
	if e := latestEntry(t, room); e.NextUser != "alice" {
		t.Errorf("break must inherit next user, got %q", e.NextUser)
	}

	room.AddTimer(5, "alice", now.Add(3*time.Minute))
	if e := latestEntry(t, room); e.NextUser != "bob" {
		t.Errorf("alice's entry next user = %q, want bob", e.NextUser)
	}
}

func TestTimeLeftMonotonicNonIncreasing(t *testing.T) {
	room := newTestRoom(t, "monotonic")
	start := time.Date(2020, 1, 24, 6, 0, 0, 0, time.UTC)
	room.AddTimer(10, "alice", start)

	previous := room.TimeLeft(start).Remaining
	for _, advance := range []time.Duration{time.Minute, 5 * time.Minute, 10 * time.Minute, time.Hour} {
		remaining := room.TimeLeft(start.Add(advance)).Remaining
		if remaining > previous {
			t.Fatalf("remaining increased from %v to %v", previous, remaining)
		}
		if remaining < 0 {
			t.Fatalf("remaining went negative: %v", remaining)
		}
		previous = remaining
	}
	if previous != 0 {
		t.Errorf("expired timer must floor at zero, got %v", previous)
	}
}

func TestTimeLeftEmptyHistory(t *testing.T) {
	room := newTestRoom(t, "empty")
	now := time.Date(2020, 1, 24, 6, 0, 0, 0, time.UTC)

	left := room.TimeLeft(now)
	if left.Remaining != 0 || left.Minutes != 0 || left.User != "" || !left.RequestedAt.IsZero() {
		t.Errorf("empty room must return zero time left, got %+v", left)
	}
	if room.IsTimerActive(now) {
		t.Error("empty room must not have an active timer")
	}
}

func TestIsTimerActive(t *testing.T) {
	room := newTestRoom(t, "active")
	start := time.Date(2020, 1, 24, 6, 0, 0, 0, time.UTC)
	room.AddTimer(10, "alice", start)

	if !room.IsTimerActive(start.Add(9 * time.Minute)) {
		t.Error("timer must be active before expiry")
	}
	if room.IsTimerActive(start.Add(10 * time.Minute)) {
		t.Error("timer must be inactive at its exact expiry instant")
	}

	room.AddTimer(0, "alice", start.Add(11*time.Minute))
	if room.IsTimerActive(start.Add(11 * time.Minute)) {
		t.Error("zero-minute timer must never be active")
	}
}

func TestHistoryExcludingLatest(t *testing.T) {
	room := newTestRoom(t, "history")
	start := time.Date(2020, 1, 24, 6, 0, 0, 0, time.UTC)

	const n = 5
	for i := 0; i < n; i++ {
		room.AddTimer(int64(i+1), "alice", start.Add(time.Duration(i)*time.Minute))
	}

	backlog := room.HistoryExcludingLatest()
	if len(backlog) != n-1 {
		t.Fatalf("backlog length = %d, want %d", len(backlog), n-1)
	}
	for i, e := range backlog {
		if e.Minutes != int64(i+1) {
			t.Errorf("backlog[%d].Minutes = %d, want %d (original order)", i, e.Minutes, i+1)
		}
	}
}

func TestGoalLifecycle(t *testing.T) {
	room := newTestRoom(t, "goal")
	now := time.Date(2020, 1, 24, 6, 0, 0, 0, time.UTC)

	events, cancel := room.Subscribe()
	defer cancel()

	room.SetGoal("Ship it", "alice", now)
	ev := mustEvent(t, events, EventGoal)
	if ev.Goal == nil || ev.Goal.Text != "Ship it" || ev.Goal.SetBy != "alice" {
		t.Fatalf("unexpected goal event: %+v", ev.Goal)
	}

	room.DeleteGoal("bob")
	ev = mustEvent(t, events, EventGoal)
	if ev.Goal == nil || ev.Goal.IsSet() {
		t.Fatalf("goal deletion must publish a cleared goal, got %+v", ev.Goal)
	}
	if room.CurrentGoal().IsSet() {
		t.Error("goal must be cleared after deletion")
	}

	// Deleting an absent goal is a no-op and publishes nothing.
	room.DeleteGoal("bob")
	mustNoEvent(t, events)
}

func TestEvictStaleIdempotent(t *testing.T) {
	room := newTestRoom(t, "evict")
	start := time.Date(2020, 1, 24, 6, 0, 0, 0, time.UTC)
	now := start.Add(30 * time.Hour)

	room.AddTimer(10, "alice", start)
	room.AddTimer(10, "bob", start.Add(25*time.Hour))
	room.SetGoal("keep me", "alice", start)

	events, cancel := room.Subscribe()
	defer cancel()
	drainEvents(events)

	room.EvictStale(now, 24*time.Hour)
	if got := len(room.HistoryExcludingLatest()); got != 0 {
		t.Fatalf("expected a single surviving entry, backlog length %d", got)
	}
	if e := latestEntry(t, room); e.RequestedBy != "bob" {
		t.Fatalf("wrong entry survived: %+v", e)
	}
	mustNoEvent(t, events)

	// Second sweep with no new appends removes nothing and keeps the goal.
	room.EvictStale(now, 24*time.Hour)
	mustNoEvent(t, events)
	if goal := room.CurrentGoal(); goal.Text != "keep me" {
		t.Errorf("eviction must not touch the goal, got %+v", goal)
	}
}

func TestEvictStalePublishesResetSentinel(t *testing.T) {
	room := newTestRoom(t, "evict-empty")
	start := time.Date(2020, 1, 24, 6, 0, 0, 0, time.UTC)

	room.AddTimer(10, "alice", start)
	events, cancel := room.Subscribe()
	defer cancel()
	drainEvents(events)

	room.EvictStale(start.Add(25*time.Hour), 24*time.Hour)
	ev := mustEvent(t, events, EventTimer)
	if ev.Entry == nil || ev.Entry.Kind != KindEmpty {
		t.Fatalf("expected reset sentinel, got %+v", ev.Entry)
	}
	if room.TimeLeft(start.Add(25 * time.Hour)).Remaining != 0 {
		t.Error("emptied room must report zero time left")
	}
}

func TestSubscribeReplaysLatestState(t *testing.T) {
	room := newTestRoom(t, "replay")
	now := time.Date(2020, 1, 24, 6, 0, 0, 0, time.UTC)

	room.AddTimer(10, "alice", now)
	room.AddTimer(5, "bob", now.Add(time.Minute))
	room.SetGoal("focus", "alice", now)

	events, cancel := room.Subscribe()
	defer cancel()

	ev := mustEvent(t, events, EventTimer)
	if ev.Entry == nil || ev.Entry.RequestedBy != "bob" {
		t.Fatalf("late joiner must see the latest entry first, got %+v", ev.Entry)
	}
	ev = mustEvent(t, events, EventGoal)
	if ev.Goal == nil || ev.Goal.Text != "focus" {
		t.Fatalf("late joiner must see the latest goal, got %+v", ev.Goal)
	}

	room.AddTimer(7, "carol", now.Add(2*time.Minute))
	ev = mustEvent(t, events, EventTimer)
	if ev.Entry == nil || ev.Entry.RequestedBy != "carol" {
		t.Fatalf("live event after replay, got %+v", ev.Entry)
	}
}

func TestConcurrentAddsLoseNothing(t *testing.T) {
	room := newTestRoom(t, "concurrent")
	now := time.Date(2020, 1, 24, 6, 0, 0, 0, time.UTC)

	const k = 64
	var wg sync.WaitGroup
	wg.Add(k)
	for i := 0; i < k; i++ {
		go func(i int) {
			defer wg.Done()
			room.AddTimer(int64(i%30+1), "alice", now.Add(time.Duration(i)*time.Second))
		}(i)
	}
	wg.Wait()

	if got := len(room.HistoryExcludingLatest()) + 1; got != k {
		t.Fatalf("history length = %d, want %d", got, k)
	}
}

func TestTeam(t *testing.T) {
	room := newTestRoom(t, "team")
	now := time.Date(2020, 1, 24, 6, 0, 0, 0, time.UTC)

	room.AddTimer(5, "carol", now)
	room.AddTimer(5, "alice", now)
	room.AddBreak(5, "zoe", now)
	room.AddTimer(5, "alice", now)
	room.AddTimer(5, "", now)

	team := room.Team()
	want := []string{"alice", "carol"}
	if len(team) != len(want) {
		t.Fatalf("team = %v, want %v", team, want)
	}
	for i := range want {
		if team[i] != want[i] {
			t.Fatalf("team = %v, want %v", team, want)
		}
	}
}

func drainEvents(ch <-chan Event) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}
