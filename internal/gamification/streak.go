package gamification

import "time"

// Streak bonus thresholds
const (
	weekStreakBonus  = 0.5
	shortStreakBonus = 0.2
)

// SameDay reports whether two timestamps fall on the same calendar day in UTC.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// AdvanceStreak computes the streak transition for one activity on today.
//
// Activity on the day after lastActivity extends the streak; a second
// activity on the same day leaves it unchanged; anything else (a gap of two
// or more days, or no prior activity) resets it to 1. The longest streak
// only ever grows.
func AdvanceStreak(lastActivity, today time.Time, current, longest int) (int, int) {
	switch {
	case SameDay(lastActivity, today.AddDate(0, 0, -1)):
		current++
		if current > longest {
			longest = current
		}
	case SameDay(lastActivity, today):
		// already credited today
	default:
		current = 1
	}
	return current, longest
}

// StreakBonus returns the bonus multiplier earned by a streak:
// 50% from 7 days, 20% from 3 days, otherwise nothing.
func StreakBonus(streak int) float64 {
	switch {
	case streak >= 7:
		return weekStreakBonus
	case streak >= 3:
		return shortStreakBonus
	default:
		return 0
	}
}

// BonusPoints returns the extra points a streak would add on top of a base
// award, rounded down. Callers decide whether and where to credit it.
func BonusPoints(basePoints, streak int) int {
	return int(float64(basePoints) * StreakBonus(streak))
}
