package core

import (
	"fmt"

	"github.com/samber/lo"
)

// nextTurnUser computes who should drive after user, given the history before
// the new entry. Only work timers by non-blank users count as turns. The
// trailing run of entries by user itself is stripped first, so requesting
// several timers in a row does not rotate the turn back to the requester.
// Returns "" when nobody else has taken a turn yet.
//
// Callers must pass the same history snapshot that the new entry is appended
// to, under the same lock, so rotation and append cannot race.
func nextTurnUser(history []TimerEntry, user string) string {
	users := make([]string, 0, len(history))
	for _, e := range history {
		if e.Kind == KindTimer && e.RequestedBy != "" {
			users = append(users, e.RequestedBy)
		}
	}

	for len(users) > 0 && users[len(users)-1] == user {
		users = users[:len(users)-1]
	}
	if len(users) == 0 {
		return ""
	}

	last := lo.LastIndexOf(users, user)
	if last == len(users)-1 {
		// Stripping guarantees the tail differs from user, so the candidate
		// index is always in bounds. Reaching this line is a bug; wrong
		// rotation data is worse than a crash.
		panic(fmt.Sprintf("turn rotation: no candidate after user %q", user))
	}
	return users[last+1]
}
