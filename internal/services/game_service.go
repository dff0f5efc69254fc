// internal/services/game_service.go
package services

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"grimoire/internal/clock"
	"grimoire/internal/models"
	"grimoire/internal/progression"
	"grimoire/internal/repositories"
)

const (
	comboWindow     = 60 * time.Minute
	comboExpiry     = 30 * time.Minute
	comboActivation = 3
	comboMultiplier = 1.5
	missionSize     = 6
)

// ErrEmptyTitle rejects adds whose title is empty or whitespace-only.
var ErrEmptyTitle = errors.New("task title must not be empty")

// CompletionResult describes what a single successful completion changed.
type CompletionResult struct {
	Task      models.Task         `json:"task"`
	XPAwarded int                 `json:"xp_awarded"`
	LeveledUp bool                `json:"leveled_up"`
	Progress  models.UserProgress `json:"progress"`
	Combo     models.Combo        `json:"combo"`
}

// GameService owns the whole game aggregate. Every mutation is atomic and
// followed by a best-effort save of the serialized state; unknown-id
// mutations are silent no-ops returning (nil, nil).
type GameService interface {
	AddTask(ctx context.Context, title, description string, priority models.Priority, effort models.Effort) (*models.Task, error)
	EditTask(ctx context.Context, id string, update models.TaskUpdate) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error
	CompleteTask(ctx context.Context, id string) (*CompletionResult, error)

	GenerateDailyMission(ctx context.Context) (*models.MissionView, error)
	TodaysMission() *models.MissionView
	IsNewDay() bool

	Tasks() []models.Task
	Task(id string) *models.Task
	Progress() models.UserProgress
	Combo() models.Combo
}

type gameService struct {
	mu    sync.Mutex
	repo  repositories.StateRepository
	clock clock.Clock
	state models.GameState
}

// NewGameService loads the persisted aggregate (or initializes a fresh one)
// and returns the state-owning service.
func NewGameService(ctx context.Context, repo repositories.StateRepository, clk clock.Clock) (GameService, error) {
	loaded, err := repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	s := &gameService{repo: repo, clock: clk}
	if loaded != nil {
		s.state = *loaded
		// Serialized dates keep their instant but not their shape; the
		// mission day boundary is re-derived rather than trusted.
		if s.state.DailyMission != nil {
			s.state.DailyMission.Date = clock.Midnight(s.state.DailyMission.Date)
		}
		return s, nil
	}

	now := clk.Now()
	s.state = models.GameState{
		UserProgress: models.UserProgress{
			Level:            1,
			LastActivityDate: now,
			UnlockedThemes:   []string{"enchanted-forest"},
			ActiveTheme:      "enchanted-forest",
			Achievements:     []string{},
		},
		Grimoire: []models.Task{},
		Combo: models.Combo{
			Multiplier: 1,
			StartTime:  now,
			ExpiresAt:  now,
		},
	}
	return s, nil
}

func (s *gameService) AddTask(ctx context.Context, title, description string, priority models.Priority, effort models.Effort) (*models.Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyTitle
	}
	if priority == "" {
		priority = models.PriorityNormal
	}
	if effort == "" {
		effort = models.EffortMedium
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task := models.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Priority:    priority,
		Effort:      effort,
		CreatedAt:   s.clock.Now(),
	}
	s.state.Grimoire = append(s.state.Grimoire, task)
	s.persist(ctx)
	return &task, nil
}

func (s *gameService) EditTask(ctx context.Context, id string, update models.TaskUpdate) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findTask(id)
	if idx < 0 {
		return nil, nil
	}
	t := &s.state.Grimoire[idx]
	if update.Title != nil {
		t.Title = *update.Title
	}
	if update.Description != nil {
		t.Description = *update.Description
	}
	if update.Priority != nil {
		t.Priority = *update.Priority
	}
	if update.Effort != nil {
		t.Effort = *update.Effort
	}
	s.persist(ctx)
	out := *t
	return &out, nil
}

func (s *gameService) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findTask(id)
	if idx < 0 {
		return nil
	}
	// Already-counted XP stays counted; the mission keeps the stale id and
	// skips it at resolution time.
	s.state.Grimoire = append(s.state.Grimoire[:idx], s.state.Grimoire[idx+1:]...)
	s.persist(ctx)
	return nil
}

// CompleteTask is the single XP-granting path. Completion is exactly-once:
// unknown ids and already-completed tasks are no-ops returning (nil, nil).
func (s *gameService) CompleteTask(ctx context.Context, id string) (*CompletionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findTask(id)
	if idx < 0 {
		return nil, nil
	}
	t := &s.state.Grimoire[idx]
	if t.Completed {
		return nil, nil
	}

	now := s.clock.Now()
	t.Completed = true
	completedAt := now
	t.CompletedAt = &completedAt

	xp := t.Effort.XP()
	prevLevel := s.state.UserProgress.Level
	s.applyProgress(xp, now)
	s.updateCombo(now)

	if m := s.state.DailyMission; m != nil && containsID(m.TaskIDs, id) {
		m.TotalXP += xp
		m.Completed = s.missionDoneLocked(m)
	}

	s.persist(ctx)
	return &CompletionResult{
		Task:      *t,
		XPAwarded: xp,
		LeveledUp: s.state.UserProgress.Level > prevLevel,
		Progress:  s.state.UserProgress,
		Combo:     s.state.Combo,
	}, nil
}

// applyProgress runs the aggregator for one completion: XP, level, streak,
// counters. The combo multiplier is tracked elsewhere and intentionally not
// folded into the XP arithmetic.
func (s *gameService) applyProgress(xp int, now time.Time) {
	p := &s.state.UserProgress
	p.TotalXP += xp
	p.Level = progression.LevelForXP(p.TotalXP)

	switch days := clock.DaysBetween(p.LastActivityDate, now); {
	case days == 1:
		p.CurrentStreak++
	case days > 1:
		// Broken chain; today's completion starts a new one.
		p.CurrentStreak = 1
	default:
		// Same day, or a clock that moved backwards: leave the streak alone.
	}
	if p.CurrentStreak > p.BestStreak {
		p.BestStreak = p.CurrentStreak
	}
	p.TasksCompleted++
	if now.After(p.LastActivityDate) {
		p.LastActivityDate = now
	}
}

// updateCombo advances the rolling completion window for one completion.
func (s *gameService) updateCombo(now time.Time) {
	c := &s.state.Combo
	if now.Sub(c.StartTime) <= comboWindow {
		if c.TasksInCombo == 0 {
			c.StartTime = now
		}
		c.TasksInCombo++
		c.Active = c.TasksInCombo >= comboActivation
		if c.Active {
			c.Multiplier = comboMultiplier
		} else {
			c.Multiplier = 1
		}
		c.ExpiresAt = now.Add(comboExpiry)
		return
	}
	// Window broken: this completion starts over, already expired.
	*c = models.Combo{
		TasksInCombo: 1,
		StartTime:    now,
		Multiplier:   1,
		ExpiresAt:    now,
	}
}

// GenerateDailyMission rebuilds today's mission from pending tasks, sorted
// by priority then age, capped at the mission size. Regeneration replaces
// any existing mission; the grimoire itself is untouched.
func (s *gameService) GenerateDailyMission(ctx context.Context) (*models.MissionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	pending := make([]models.Task, 0, len(s.state.Grimoire))
	for _, t := range s.state.Grimoire {
		if !t.Completed {
			pending = append(pending, t)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		if pending[i].Priority.Rank() != pending[j].Priority.Rank() {
			return pending[i].Priority.Rank() < pending[j].Priority.Rank()
		}
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	if len(pending) > missionSize {
		pending = pending[:missionSize]
	}

	ids := make([]string, len(pending))
	for i, t := range pending {
		ids[i] = t.ID
	}
	s.state.DailyMission = &models.DailyMission{
		ID:      uuid.NewString(),
		Date:    clock.Midnight(now),
		TaskIDs: ids,
	}
	s.persist(ctx)
	return s.missionViewLocked(s.state.DailyMission), nil
}

// TodaysMission returns the current mission only when it is dated today;
// a stale or absent mission yields nil without mutating anything.
func (s *gameService) TodaysMission() *models.MissionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.state.DailyMission
	if m == nil || !clock.SameDay(m.Date, s.clock.Now()) {
		return nil
	}
	return s.missionViewLocked(m)
}

// IsNewDay reports whether the calendar day has rolled over since the last
// recorded activity.
func (s *gameService) IsNewDay() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !clock.SameDay(s.clock.Now(), s.state.UserProgress.LastActivityDate)
}

func (s *gameService) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Task(nil), s.state.Grimoire...)
}

func (s *gameService) Task(id string) *models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.findTask(id)
	if idx < 0 {
		return nil
	}
	out := s.state.Grimoire[idx]
	return &out
}

func (s *gameService) Progress() models.UserProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.UserProgress
}

func (s *gameService) Combo() models.Combo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Combo
}

func (s *gameService) findTask(id string) int {
	for i := range s.state.Grimoire {
		if s.state.Grimoire[i].ID == id {
			return i
		}
	}
	return -1
}

// missionViewLocked resolves mission task ids against the grimoire. Ids with
// no backing task (deleted since generation) are skipped.
func (s *gameService) missionViewLocked(m *models.DailyMission) *models.MissionView {
	tasks := make([]models.Task, 0, len(m.TaskIDs))
	for _, id := range m.TaskIDs {
		if idx := s.findTask(id); idx >= 0 {
			tasks = append(tasks, s.state.Grimoire[idx])
		}
	}
	return &models.MissionView{
		ID:        m.ID,
		Date:      m.Date,
		Tasks:     tasks,
		Completed: m.Completed,
		TotalXP:   m.TotalXP,
	}
}

// missionDoneLocked reports whether every still-resolvable mission member is
// completed.
func (s *gameService) missionDoneLocked(m *models.DailyMission) bool {
	resolved := false
	for _, id := range m.TaskIDs {
		if idx := s.findTask(id); idx >= 0 {
			resolved = true
			if !s.state.Grimoire[idx].Completed {
				return false
			}
		}
	}
	return resolved
}

// persist writes the aggregate through the blob store. Failures are logged,
// never surfaced: the in-memory state stays authoritative.
func (s *gameService) persist(ctx context.Context) {
	if err := s.repo.Save(ctx, &s.state); err != nil {
		log.Printf("[game][persist][err] %v", err)
	}
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
