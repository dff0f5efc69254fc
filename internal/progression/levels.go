// Package progression maps cumulative XP to levels over a fixed threshold
// table. Everything here is pure; the table is the single source of truth.
package progression

// levelRequirements[i] is the cumulative XP needed to hold level i+1.
// Level 1 starts at 0; entries are strictly ascending. Progression caps at
// the last entry, there is no extrapolation beyond it.
var levelRequirements = []int{
	0, 100, 250, 450, 700, 1000, 1350, 1750, 2200, 2700, 3250,
	3850, 4500, 5200, 5950, 6750, 7600, 8500, 9450, 10450, 11500,
}

// MaxLevel returns the highest attainable level.
func MaxLevel() int {
	return len(levelRequirements)
}

// LevelForXP returns the highest level whose requirement is within totalXP.
// The lower boundary is inclusive: totalXP exactly at a requirement counts
// as having reached that level.
func LevelForXP(totalXP int) int {
	level := 1
	for i, req := range levelRequirements {
		if totalXP < req {
			break
		}
		level = i + 1
	}
	return level
}

// XPForLevel returns the cumulative XP required to hold the given level,
// clamped to the table bounds.
func XPForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	if level > len(levelRequirements) {
		level = len(levelRequirements)
	}
	return levelRequirements[level-1]
}

// XPForNextLevel returns the cumulative XP needed to reach level+1. At or
// beyond the top of the table it returns the last requirement.
func XPForNextLevel(level int) int {
	if level < 1 {
		level = 1
	}
	if level >= len(levelRequirements) {
		return levelRequirements[len(levelRequirements)-1]
	}
	return levelRequirements[level]
}
