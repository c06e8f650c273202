package gamification

import "math"

// LevelFor maps accumulated XP to a level. Progression slows at higher
// levels: level = floor((xp/100)^0.6) + 1, so level 1 covers 0-99 XP and
// level 2 starts at 100.
func LevelFor(xp int) int {
	if xp <= 0 {
		return 1
	}
	return int(math.Pow(float64(xp)/100, 0.6)) + 1
}
