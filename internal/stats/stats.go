// Package stats keeps process-wide usage counters for the stats page.
package stats

import (
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"
)

// smoketestRoom is exercised by the external smoketest and excluded from
// counters so it does not skew the numbers.
const smoketestRoom = "testroom-310a9c47-515c-4ad7-a229-ae8efbab7387"

// Collector counts timer, break and goal requests since process start.
// All methods are safe for concurrent use.
type Collector struct {
	since time.Time

	mu     sync.Mutex
	timers map[int64]int64
	breaks map[int64]int64
	goals  int64
}

// New builds a collector; now becomes the "statistics since" instant.
func New(now time.Time) *Collector {
	return &Collector{
		since:  now,
		timers: make(map[int64]int64),
		breaks: make(map[int64]int64),
	}
}

// RecordTimer counts one work timer of the given length.
func (c *Collector) RecordTimer(room string, minutes int64) {
	if room == smoketestRoom {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timers[minutes]++
}

// RecordBreak counts one break timer of the given length.
func (c *Collector) RecordBreak(room string, minutes int64) {
	if room == smoketestRoom {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.breaks[minutes]++
}

// RecordGoal counts one goal update.
func (c *Collector) RecordGoal(room string) {
	if room == smoketestRoom {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.goals++
}

// LengthCount is how many timers of one length were requested.
type LengthCount struct {
	Minutes int64 `json:"minutes"`
	Count   int64 `json:"count"`
}

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	Since  time.Time     `json:"since"`
	Timers []LengthCount `json:"timers"`
	Breaks []LengthCount `json:"breaktimers"`
	Goals  int64         `json:"goals"`
}

// Snapshot returns the counters with timer lengths in ascending order.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Since:  c.since,
		Timers: sortedCounts(c.timers),
		Breaks: sortedCounts(c.breaks),
		Goals:  c.goals,
	}
}

func sortedCounts(counts map[int64]int64) []LengthCount {
	minutes := lo.Keys(counts)
	sort.Slice(minutes, func(i, j int) bool { return minutes[i] < minutes[j] })
	result := make([]LengthCount, 0, len(minutes))
	for _, m := range minutes {
		result = append(result, LengthCount{Minutes: m, Count: counts[m]})
	}
	return result
}
