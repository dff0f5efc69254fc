// internal/models/task.go
package models

import "time"

// Priority defines how urgently a task should surface in the daily mission.
type Priority string

const (
	PriorityCritical  Priority = "critical"
	PriorityImportant Priority = "important"
	PriorityNormal    Priority = "normal"
	PriorityOptional  Priority = "optional"
)

// priorityRank orders priorities for mission selection, critical first.
var priorityRank = map[Priority]int{
	PriorityCritical:  1,
	PriorityImportant: 2,
	PriorityNormal:    3,
	PriorityOptional:  4,
}

func (p Priority) Valid() bool {
	_, ok := priorityRank[p]
	return ok
}

// Rank returns the mission sort rank (lower sorts first). Unknown values
// rank after every known priority.
func (p Priority) Rank() int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return len(priorityRank) + 1
}

// Effort is the size tier of a task; each tier awards a fixed XP amount.
type Effort string

const (
	EffortQuick  Effort = "quick"
	EffortMedium Effort = "medium"
	EffortLarge  Effort = "large"
)

var xpValues = map[Effort]int{
	EffortQuick:  10,
	EffortMedium: 30,
	EffortLarge:  70,
}

func (e Effort) Valid() bool {
	_, ok := xpValues[e]
	return ok
}

// XP returns the reward for completing a task of this effort tier.
func (e Effort) XP() int {
	return xpValues[e]
}

// Task is a single grimoire entry. CompletedAt is set exactly when
// Completed flips to true; completed tasks are never edited, only deleted.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    Priority   `json:"priority"`
	Effort      Effort     `json:"effort"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// TaskUpdate carries the fields an edit may change. Nil fields are left
// untouched. Completion state is deliberately absent: completing goes
// through CompleteTask only.
type TaskUpdate struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	Effort      *Effort   `json:"effort,omitempty"`
}
