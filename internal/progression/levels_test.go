package progression

import "testing"

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		name    string
		totalXP int
		want    int
	}{
		{"zero XP is level 1", 0, 1},
		{"below first threshold", 99, 1},
		{"exactly at threshold reaches the level", 100, 2},
		{"just past a threshold", 101, 2},
		{"upper edge of level 2", 249, 2},
		{"third threshold", 250, 3},
		{"mid table", 1000, 6},
		{"last threshold", 11500, 21},
		{"beyond the table clamps", 1_000_000, 21},
		{"negative clamps to level 1", -50, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LevelForXP(tt.totalXP); got != tt.want {
				t.Errorf("LevelForXP(%d) = %d, want %d", tt.totalXP, got, tt.want)
			}
		})
	}
}

func TestLevelForXPMonotonic(t *testing.T) {
	prev := LevelForXP(0)
	for xp := 0; xp <= 13000; xp += 25 {
		level := LevelForXP(xp)
		if level < prev {
			t.Fatalf("LevelForXP decreased: xp=%d level=%d prev=%d", xp, level, prev)
		}
		prev = level
	}
}

func TestXPForNextLevel(t *testing.T) {
	tests := []struct {
		name  string
		level int
		want  int
	}{
		{"level 1 needs 100", 1, 100},
		{"level 2 needs 250", 2, 250},
		{"max level caps at the last entry", 21, 11500},
		{"beyond max still caps", 30, 11500},
		{"below 1 clamps to level 1", 0, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := XPForNextLevel(tt.level); got != tt.want {
				t.Errorf("XPForNextLevel(%d) = %d, want %d", tt.level, got, tt.want)
			}
		})
	}
}

func TestXPForLevel(t *testing.T) {
	if got := XPForLevel(1); got != 0 {
		t.Errorf("XPForLevel(1) = %d, want 0", got)
	}
	if got := XPForLevel(2); got != 100 {
		t.Errorf("XPForLevel(2) = %d, want 100", got)
	}
	if got := XPForLevel(99); got != 11500 {
		t.Errorf("XPForLevel(99) = %d, want 11500", got)
	}
}

func TestRequirementsStrictlyAscending(t *testing.T) {
	for i := 1; i < len(levelRequirements); i++ {
		if levelRequirements[i] <= levelRequirements[i-1] {
			t.Fatalf("requirement %d (%d) not above %d (%d)",
				i, levelRequirements[i], i-1, levelRequirements[i-1])
		}
	}
}
