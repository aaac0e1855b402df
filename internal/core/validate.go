package core

import "unicode/utf8"

const (
	// MaxTimerMinutes caps a single timer at 24 hours.
	MaxTimerMinutes = 24 * 60
	// MaxGoalLength caps goal text length in runes.
	MaxGoalLength = 256

	goalEllipsis = "..."
)

// ClampMinutes bounds a requested timer length to [0, MaxTimerMinutes].
// Out-of-range values are clamped, never rejected.
func ClampMinutes(minutes int64) int64 {
	if minutes < 0 {
		return 0
	}
	if minutes > MaxTimerMinutes {
		return MaxTimerMinutes
	}
	return minutes
}

// TruncateGoal bounds goal text to MaxGoalLength runes, marking a cut with an
// ellipsis so the result stays within the limit.
func TruncateGoal(text string) string {
	if utf8.RuneCountInString(text) <= MaxGoalLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:MaxGoalLength-1-len(goalEllipsis)]) + goalEllipsis
}
