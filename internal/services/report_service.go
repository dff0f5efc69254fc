// internal/services/report_service.go
package services

import (
	"sort"
	"time"

	"grimoire/internal/clock"
	"grimoire/internal/models"
	"grimoire/internal/progression"
)

const recentCompletionsLimit = 10

// ProgressReport is a point-in-time summary of the user's progression,
// consumed by the JSON report endpoint and the PDF generator.
type ProgressReport struct {
	GeneratedAt       time.Time               `json:"generated_at"`
	Level             int                     `json:"level"`
	MaxLevel          int                     `json:"max_level"`
	TotalXP           int                     `json:"total_xp"`
	XPIntoLevel       int                     `json:"xp_into_level"`
	XPForNextLevel    int                     `json:"xp_for_next_level"`
	CurrentStreak     int                     `json:"current_streak"`
	BestStreak        int                     `json:"best_streak"`
	TasksCompleted    int                     `json:"tasks_completed"`
	TasksPending      int                     `json:"tasks_pending"`
	PendingByPriority map[models.Priority]int `json:"pending_by_priority"`
	ComboActive       bool                    `json:"combo_active"`
	ComboMultiplier   float64                 `json:"combo_multiplier"`
	RecentCompletions []models.Task           `json:"recent_completions"`
}

type ReportService interface {
	ProgressReport() ProgressReport
}

type reportService struct {
	game  GameService
	clock clock.Clock
}

func NewReportService(game GameService, clk clock.Clock) ReportService {
	return &reportService{game: game, clock: clk}
}

func (s *reportService) ProgressReport() ProgressReport {
	progress := s.game.Progress()
	combo := s.game.Combo()
	tasks := s.game.Tasks()

	pending := 0
	byPriority := map[models.Priority]int{}
	var completed []models.Task
	for _, t := range tasks {
		if t.Completed {
			completed = append(completed, t)
			continue
		}
		pending++
		byPriority[t.Priority]++
	}
	sort.Slice(completed, func(i, j int) bool {
		return completed[i].CompletedAt.After(*completed[j].CompletedAt)
	})
	if len(completed) > recentCompletionsLimit {
		completed = completed[:recentCompletionsLimit]
	}

	return ProgressReport{
		GeneratedAt:       s.clock.Now(),
		Level:             progress.Level,
		MaxLevel:          progression.MaxLevel(),
		TotalXP:           progress.TotalXP,
		XPIntoLevel:       progress.TotalXP - progression.XPForLevel(progress.Level),
		XPForNextLevel:    progression.XPForNextLevel(progress.Level),
		CurrentStreak:     progress.CurrentStreak,
		BestStreak:        progress.BestStreak,
		TasksCompleted:    progress.TasksCompleted,
		TasksPending:      pending,
		PendingByPriority: byPriority,
		ComboActive:       combo.Active,
		ComboMultiplier:   combo.Multiplier,
		RecentCompletions: completed,
	}
}
