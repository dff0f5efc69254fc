// internal/models/progress.go
package models

import "time"

// UserProgress is the single progression record for the (only) user.
// TotalXP and TasksCompleted only ever grow; BestStreak never drops below
// CurrentStreak. Themes and achievements are opaque pass-through state for
// the presentation layer.
type UserProgress struct {
	Level            int       `json:"level"`
	TotalXP          int       `json:"total_xp"`
	CurrentStreak    int       `json:"current_streak"`
	BestStreak       int       `json:"best_streak"`
	TasksCompleted   int       `json:"tasks_completed"`
	LastActivityDate time.Time `json:"last_activity_date"`
	UnlockedThemes   []string  `json:"unlocked_themes"`
	ActiveTheme      string    `json:"active_theme"`
	Achievements     []string  `json:"achievements"`
}

// Combo is the rolling-window completion bonus. ExpiresAt is advisory
// bookkeeping: nothing expires the combo on a timer, it is re-evaluated
// lazily at the next completion.
type Combo struct {
	Active       bool      `json:"active"`
	TasksInCombo int       `json:"tasks_in_combo"`
	StartTime    time.Time `json:"start_time"`
	Multiplier   float64   `json:"multiplier"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// DailyMission is the date-scoped subset of pending tasks. It references
// tasks by id; the grimoire stays the single owner of task records and
// completion state is resolved from there on read.
type DailyMission struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	TaskIDs   []string  `json:"task_ids"`
	Completed bool      `json:"completed"`
	TotalXP   int       `json:"total_xp"`
}

// MissionView is a mission with its task ids resolved against the grimoire,
// the shape handed to the presentation layer.
type MissionView struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	Tasks     []Task    `json:"tasks"`
	Completed bool      `json:"completed"`
	TotalXP   int       `json:"total_xp"`
}

// GameState is the whole persisted aggregate, serialized as one blob under
// a fixed storage key.
type GameState struct {
	UserProgress UserProgress  `json:"user_progress"`
	Grimoire     []Task        `json:"grimoire"`
	DailyMission *DailyMission `json:"daily_mission,omitempty"`
	Combo        Combo         `json:"combo"`
}
