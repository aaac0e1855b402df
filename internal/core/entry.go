package core

import "time"

// EntryKind tags a history entry.
type EntryKind string

const (
	// KindTimer is a work timer request.
	KindTimer EntryKind = "TIMER"
	// KindBreak is a break timer request. Breaks never advance the turn rotation.
	KindBreak EntryKind = "BREAKTIMER"
	// KindEmpty is the sentinel published when eviction empties a room so that
	// connected subscribers reset their view. It never appears in history.
	KindEmpty EntryKind = "EMPTY"
)

// TimerEntry is one immutable fact about a requested work or break period.
// NextUser is computed once at append time and never changes afterwards.
type TimerEntry struct {
	Kind        EntryKind
	Minutes     int64
	RequestedBy string
	NextUser    string
	RequestedAt time.Time
}

// EmptyEntry returns the reset sentinel.
func EmptyEntry() TimerEntry {
	return TimerEntry{Kind: KindEmpty}
}

// Goal is the single shared objective of a room. The zero value means
// "no goal", which is a regular state rather than an error.
type Goal struct {
	Text  string
	SetBy string
	SetAt time.Time
}

// IsSet reports whether a goal is currently present.
func (g Goal) IsSet() bool {
	return g.Text != ""
}
