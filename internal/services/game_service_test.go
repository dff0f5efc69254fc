package services

import (
	"context"
	"testing"
	"time"

	"grimoire/internal/clock"
	"grimoire/internal/models"
	"grimoire/internal/repositories"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func (c *fakeClock) nextDay() { c.now = c.now.AddDate(0, 0, 1) }

func newTestService(t *testing.T) (GameService, *fakeClock, repositories.StateRepository) {
	t.Helper()
	clk := &fakeClock{now: time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)}
	repo := repositories.NewMemoryStateRepository()
	svc, err := NewGameService(context.Background(), repo, clk)
	if err != nil {
		t.Fatalf("NewGameService: %v", err)
	}
	return svc, clk, repo
}

func mustAdd(t *testing.T, svc GameService, clk *fakeClock, title string, p models.Priority, e models.Effort) models.Task {
	t.Helper()
	task, err := svc.AddTask(context.Background(), title, "", p, e)
	if err != nil {
		t.Fatalf("AddTask(%q): %v", title, err)
	}
	clk.advance(time.Second) // distinct creation times for ordering
	return *task
}

func TestAddTask(t *testing.T) {
	svc, clk, _ := newTestService(t)
	ctx := context.Background()

	t.Run("rejects empty title", func(t *testing.T) {
		if _, err := svc.AddTask(ctx, "", "", models.PriorityNormal, models.EffortQuick); err != ErrEmptyTitle {
			t.Errorf("expected ErrEmptyTitle, got %v", err)
		}
	})

	t.Run("rejects whitespace-only title", func(t *testing.T) {
		if _, err := svc.AddTask(ctx, "   \t ", "", models.PriorityNormal, models.EffortQuick); err != ErrEmptyTitle {
			t.Errorf("expected ErrEmptyTitle, got %v", err)
		}
	})

	t.Run("defaults priority and effort", func(t *testing.T) {
		task, err := svc.AddTask(ctx, "defaulted", "", "", "")
		if err != nil {
			t.Fatalf("AddTask: %v", err)
		}
		if task.Priority != models.PriorityNormal || task.Effort != models.EffortMedium {
			t.Errorf("got priority=%s effort=%s, want normal/medium", task.Priority, task.Effort)
		}
	})

	t.Run("keeps insertion order and assigns unique ids", func(t *testing.T) {
		a := mustAdd(t, svc, clk, "first", models.PriorityNormal, models.EffortQuick)
		b := mustAdd(t, svc, clk, "second", models.PriorityNormal, models.EffortQuick)
		if a.ID == b.ID {
			t.Fatal("ids must be unique")
		}
		tasks := svc.Tasks()
		if tasks[len(tasks)-2].ID != a.ID || tasks[len(tasks)-1].ID != b.ID {
			t.Error("tasks not in insertion order")
		}
	})
}

func TestEditTask(t *testing.T) {
	svc, clk, _ := newTestService(t)
	ctx := context.Background()

	t.Run("unknown id is a no-op", func(t *testing.T) {
		task, err := svc.EditTask(ctx, "nope", models.TaskUpdate{})
		if err != nil || task != nil {
			t.Errorf("expected (nil, nil), got (%v, %v)", task, err)
		}
	})

	t.Run("merges provided fields only", func(t *testing.T) {
		orig := mustAdd(t, svc, clk, "read tome", models.PriorityNormal, models.EffortQuick)
		title := "read the whole tome"
		prio := models.PriorityCritical
		edited, err := svc.EditTask(ctx, orig.ID, models.TaskUpdate{Title: &title, Priority: &prio})
		if err != nil {
			t.Fatalf("EditTask: %v", err)
		}
		if edited.Title != title || edited.Priority != prio {
			t.Errorf("fields not merged: %+v", edited)
		}
		if edited.Effort != orig.Effort || !edited.CreatedAt.Equal(orig.CreatedAt) {
			t.Errorf("untouched fields changed: %+v", edited)
		}
	})

	t.Run("cannot un-complete through an edit", func(t *testing.T) {
		task := mustAdd(t, svc, clk, "slay", models.PriorityNormal, models.EffortQuick)
		if _, err := svc.CompleteTask(ctx, task.ID); err != nil {
			t.Fatalf("CompleteTask: %v", err)
		}
		title := "renamed"
		edited, err := svc.EditTask(ctx, task.ID, models.TaskUpdate{Title: &title})
		if err != nil {
			t.Fatalf("EditTask: %v", err)
		}
		if !edited.Completed || edited.CompletedAt == nil {
			t.Error("edit must not clear completion state")
		}
	})
}

func TestDeleteTask(t *testing.T) {
	svc, clk, _ := newTestService(t)
	ctx := context.Background()

	t.Run("unknown id is a no-op", func(t *testing.T) {
		if err := svc.DeleteTask(ctx, "nope"); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("removes the record", func(t *testing.T) {
		task := mustAdd(t, svc, clk, "scrap", models.PriorityNormal, models.EffortQuick)
		if err := svc.DeleteTask(ctx, task.ID); err != nil {
			t.Fatalf("DeleteTask: %v", err)
		}
		if svc.Task(task.ID) != nil {
			t.Error("task still present after delete")
		}
	})

	t.Run("deleting a completed task keeps counted XP", func(t *testing.T) {
		task := mustAdd(t, svc, clk, "done then gone", models.PriorityNormal, models.EffortLarge)
		if _, err := svc.CompleteTask(ctx, task.ID); err != nil {
			t.Fatalf("CompleteTask: %v", err)
		}
		before := svc.Progress()
		if err := svc.DeleteTask(ctx, task.ID); err != nil {
			t.Fatalf("DeleteTask: %v", err)
		}
		after := svc.Progress()
		if after.TotalXP != before.TotalXP || after.TasksCompleted != before.TasksCompleted {
			t.Errorf("delete revoked history: before=%+v after=%+v", before, after)
		}
	})
}

func TestCompleteTask(t *testing.T) {
	svc, clk, _ := newTestService(t)
	ctx := context.Background()

	t.Run("unknown id is a no-op", func(t *testing.T) {
		res, err := svc.CompleteTask(ctx, "nope")
		if err != nil || res != nil {
			t.Errorf("expected (nil, nil), got (%v, %v)", res, err)
		}
	})

	t.Run("awards effort XP exactly once", func(t *testing.T) {
		task := mustAdd(t, svc, clk, "forge", models.PriorityNormal, models.EffortMedium)
		res, err := svc.CompleteTask(ctx, task.ID)
		if err != nil {
			t.Fatalf("CompleteTask: %v", err)
		}
		if res.XPAwarded != 30 {
			t.Errorf("XPAwarded = %d, want 30", res.XPAwarded)
		}
		if !res.Task.Completed || res.Task.CompletedAt == nil {
			t.Error("completion state not set")
		}
		xpAfterFirst := svc.Progress().TotalXP

		// Second completion of the same id must change nothing.
		res, err = svc.CompleteTask(ctx, task.ID)
		if err != nil || res != nil {
			t.Errorf("double completion: expected (nil, nil), got (%v, %v)", res, err)
		}
		if got := svc.Progress().TotalXP; got != xpAfterFirst {
			t.Errorf("TotalXP changed on double completion: %d != %d", got, xpAfterFirst)
		}
	})

	t.Run("levels up when crossing a threshold", func(t *testing.T) {
		fresh, fclk, _ := newTestService(t)
		a := mustAdd(t, fresh, fclk, "big one", models.PriorityNormal, models.EffortLarge)
		b := mustAdd(t, fresh, fclk, "big two", models.PriorityNormal, models.EffortLarge)

		res, _ := fresh.CompleteTask(ctx, a.ID)
		if res.LeveledUp {
			t.Error("70 XP should not reach level 2")
		}
		res, _ = fresh.CompleteTask(ctx, b.ID)
		if !res.LeveledUp || res.Progress.Level != 2 {
			t.Errorf("140 XP should be level 2, got leveledUp=%v level=%d", res.LeveledUp, res.Progress.Level)
		}
	})
}

func TestStreak(t *testing.T) {
	svc, clk, _ := newTestService(t)
	ctx := context.Background()

	complete := func(title string) models.UserProgress {
		t.Helper()
		task := mustAdd(t, svc, clk, title, models.PriorityNormal, models.EffortQuick)
		if _, err := svc.CompleteTask(ctx, task.ID); err != nil {
			t.Fatalf("CompleteTask: %v", err)
		}
		return svc.Progress()
	}

	// Day 0: activity on the creation day leaves the streak alone.
	p := complete("day zero")
	if p.CurrentStreak != 0 {
		t.Fatalf("same-day completion changed streak: %d", p.CurrentStreak)
	}

	clk.nextDay()
	if p = complete("day one"); p.CurrentStreak != 1 {
		t.Fatalf("next-day completion: streak = %d, want 1", p.CurrentStreak)
	}

	clk.nextDay()
	if p = complete("day two"); p.CurrentStreak != 2 || p.BestStreak != 2 {
		t.Fatalf("streak = %d best = %d, want 2/2", p.CurrentStreak, p.BestStreak)
	}

	// Another completion the same day must not double-count.
	if p = complete("day two again"); p.CurrentStreak != 2 {
		t.Fatalf("same-day repeat changed streak: %d", p.CurrentStreak)
	}

	// Three-day gap breaks the chain; today still counts as 1.
	clk.advance(3 * 24 * time.Hour)
	if p = complete("after gap"); p.CurrentStreak != 1 {
		t.Fatalf("post-gap streak = %d, want 1", p.CurrentStreak)
	}
	if p.BestStreak != 2 {
		t.Fatalf("best streak dropped to %d", p.BestStreak)
	}
}

func TestStreakClockRollback(t *testing.T) {
	svc, clk, _ := newTestService(t)
	ctx := context.Background()

	clk.nextDay()
	task := mustAdd(t, svc, clk, "anchor", models.PriorityNormal, models.EffortQuick)
	if _, err := svc.CompleteTask(ctx, task.ID); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	before := svc.Progress()

	// Clock skew: "now" is a day before the last activity. Treated as
	// same-day; nothing about the streak or the activity date moves.
	clk.now = clk.now.AddDate(0, 0, -1)
	task = mustAdd(t, svc, clk, "from the past", models.PriorityNormal, models.EffortQuick)
	if _, err := svc.CompleteTask(ctx, task.ID); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	after := svc.Progress()
	if after.CurrentStreak != before.CurrentStreak {
		t.Errorf("rollback changed streak: %d -> %d", before.CurrentStreak, after.CurrentStreak)
	}
	if !after.LastActivityDate.Equal(before.LastActivityDate) {
		t.Errorf("rollback moved LastActivityDate backwards: %v -> %v",
			before.LastActivityDate, after.LastActivityDate)
	}
	if after.TasksCompleted != before.TasksCompleted+1 {
		t.Errorf("completion not counted: %d", after.TasksCompleted)
	}
}

func TestCombo(t *testing.T) {
	svc, clk, _ := newTestService(t)
	ctx := context.Background()

	complete := func(title string) models.Combo {
		t.Helper()
		task := mustAdd(t, svc, clk, title, models.PriorityNormal, models.EffortQuick)
		if _, err := svc.CompleteTask(ctx, task.ID); err != nil {
			t.Fatalf("CompleteTask: %v", err)
		}
		return svc.Combo()
	}

	c := complete("one")
	if c.Active || c.TasksInCombo != 1 || c.Multiplier != 1 {
		t.Fatalf("after 1: %+v", c)
	}
	clk.advance(10 * time.Minute)
	c = complete("two")
	if c.Active || c.TasksInCombo != 2 {
		t.Fatalf("after 2: %+v", c)
	}
	clk.advance(10 * time.Minute)
	c = complete("three")
	if !c.Active || c.TasksInCombo != 3 || c.Multiplier != 1.5 {
		t.Fatalf("after 3: %+v", c)
	}
	if want := clk.now.Add(comboExpiry); !c.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v", c.ExpiresAt, want)
	}

	// A 61-minute silence breaks the window; the next completion restarts it.
	clk.advance(61 * time.Minute)
	c = complete("late")
	if c.Active || c.TasksInCombo != 1 || c.Multiplier != 1 {
		t.Fatalf("after break: %+v", c)
	}
	if !c.StartTime.Equal(clk.now) || !c.ExpiresAt.Equal(clk.now) {
		t.Errorf("broken window not reset to now: %+v", c)
	}
}

func TestGenerateDailyMission(t *testing.T) {
	svc, clk, _ := newTestService(t)
	ctx := context.Background()

	priorities := []models.Priority{
		models.PriorityNormal,
		models.PriorityCritical,
		models.PriorityOptional,
		models.PriorityImportant,
		models.PriorityCritical,
		models.PriorityNormal,
		models.PriorityOptional,
		models.PriorityImportant,
	}
	ids := make([]string, len(priorities))
	for i, p := range priorities {
		task := mustAdd(t, svc, clk, string(p), p, models.EffortQuick)
		ids[i] = task.ID
	}

	mission, err := svc.GenerateDailyMission(ctx)
	if err != nil {
		t.Fatalf("GenerateDailyMission: %v", err)
	}
	if len(mission.Tasks) != 6 {
		t.Fatalf("mission size = %d, want 6", len(mission.Tasks))
	}
	// Both criticals lead, in creation order, then importants, then normals.
	wantOrder := []string{ids[1], ids[4], ids[3], ids[7], ids[0], ids[5]}
	for i, want := range wantOrder {
		if mission.Tasks[i].ID != want {
			t.Errorf("position %d: got %s (%s), want %s",
				i, mission.Tasks[i].ID, mission.Tasks[i].Priority, want)
		}
	}
	if !mission.Date.Equal(clock.Midnight(clk.now)) {
		t.Errorf("mission date %v not normalized to midnight", mission.Date)
	}
	if mission.Completed || mission.TotalXP != 0 {
		t.Errorf("fresh mission carries progress: %+v", mission)
	}
}

func TestMissionCompletionPropagation(t *testing.T) {
	svc, clk, _ := newTestService(t)
	ctx := context.Background()

	a := mustAdd(t, svc, clk, "inside a", models.PriorityCritical, models.EffortQuick)
	b := mustAdd(t, svc, clk, "inside b", models.PriorityCritical, models.EffortMedium)
	if _, err := svc.GenerateDailyMission(ctx); err != nil {
		t.Fatalf("GenerateDailyMission: %v", err)
	}
	outside := mustAdd(t, svc, clk, "outside", models.PriorityOptional, models.EffortLarge)

	if _, err := svc.CompleteTask(ctx, a.ID); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	mission := svc.TodaysMission()
	if mission.TotalXP != 10 || mission.Completed {
		t.Fatalf("after one member: xp=%d completed=%v", mission.TotalXP, mission.Completed)
	}
	if !mission.Tasks[0].Completed {
		t.Error("completion not visible through the mission view")
	}

	// A completion outside the mission changes nothing on it.
	if _, err := svc.CompleteTask(ctx, outside.ID); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if mission = svc.TodaysMission(); mission.TotalXP != 10 {
		t.Fatalf("outside completion leaked into mission: xp=%d", mission.TotalXP)
	}

	if _, err := svc.CompleteTask(ctx, b.ID); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if mission = svc.TodaysMission(); mission.TotalXP != 40 || !mission.Completed {
		t.Fatalf("after all members: xp=%d completed=%v", mission.TotalXP, mission.Completed)
	}
}

func TestMissionRegenerationIsDestructive(t *testing.T) {
	svc, clk, _ := newTestService(t)
	ctx := context.Background()

	a := mustAdd(t, svc, clk, "first", models.PriorityNormal, models.EffortQuick)
	mustAdd(t, svc, clk, "second", models.PriorityNormal, models.EffortQuick)
	if _, err := svc.GenerateDailyMission(ctx); err != nil {
		t.Fatalf("GenerateDailyMission: %v", err)
	}
	if _, err := svc.CompleteTask(ctx, a.ID); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if m := svc.TodaysMission(); m.TotalXP == 0 {
		t.Fatal("setup: expected mission progress")
	}

	regenerated, err := svc.GenerateDailyMission(ctx)
	if err != nil {
		t.Fatalf("GenerateDailyMission: %v", err)
	}
	if regenerated.TotalXP != 0 || regenerated.Completed {
		t.Errorf("regeneration kept old progress: %+v", regenerated)
	}
	for _, task := range regenerated.Tasks {
		if task.Completed {
			t.Errorf("completed task %q selected into fresh mission", task.Title)
		}
	}
	// The grimoire is untouched: the completed task still exists.
	if got := svc.Task(a.ID); got == nil || !got.Completed {
		t.Error("regeneration disturbed the grimoire")
	}
}

func TestMissionStaleness(t *testing.T) {
	svc, clk, _ := newTestService(t)
	ctx := context.Background()

	mustAdd(t, svc, clk, "quest", models.PriorityNormal, models.EffortQuick)
	if _, err := svc.GenerateDailyMission(ctx); err != nil {
		t.Fatalf("GenerateDailyMission: %v", err)
	}
	if svc.TodaysMission() == nil {
		t.Fatal("mission should be visible on its own day")
	}

	clk.nextDay()
	if svc.TodaysMission() != nil {
		t.Fatal("stale mission still returned the day after")
	}
	if _, err := svc.GenerateDailyMission(ctx); err != nil {
		t.Fatalf("GenerateDailyMission: %v", err)
	}
	if svc.TodaysMission() == nil {
		t.Fatal("regenerated mission not visible")
	}
}

func TestMissionSkipsDeletedTasks(t *testing.T) {
	svc, clk, _ := newTestService(t)
	ctx := context.Background()

	keep := mustAdd(t, svc, clk, "keep", models.PriorityNormal, models.EffortQuick)
	gone := mustAdd(t, svc, clk, "gone", models.PriorityNormal, models.EffortQuick)
	if _, err := svc.GenerateDailyMission(ctx); err != nil {
		t.Fatalf("GenerateDailyMission: %v", err)
	}
	if err := svc.DeleteTask(ctx, gone.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}

	mission := svc.TodaysMission()
	if len(mission.Tasks) != 1 || mission.Tasks[0].ID != keep.ID {
		t.Fatalf("deleted task not skipped: %+v", mission.Tasks)
	}
	// The surviving member alone decides mission completion now.
	if _, err := svc.CompleteTask(ctx, keep.ID); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if mission = svc.TodaysMission(); !mission.Completed {
		t.Error("mission not completed after last surviving member")
	}
}

func TestIsNewDay(t *testing.T) {
	svc, clk, _ := newTestService(t)

	if svc.IsNewDay() {
		t.Error("freshly initialized state should not report a new day")
	}
	clk.nextDay()
	if !svc.IsNewDay() {
		t.Error("expected a new day after the calendar rolled over")
	}
}

func TestStateRoundTrip(t *testing.T) {
	svc, clk, repo := newTestService(t)
	ctx := context.Background()

	mustAdd(t, svc, clk, "pending", models.PriorityImportant, models.EffortLarge)
	done := mustAdd(t, svc, clk, "done", models.PriorityCritical, models.EffortMedium)
	if _, err := svc.CompleteTask(ctx, done.ID); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if _, err := svc.GenerateDailyMission(ctx); err != nil {
		t.Fatalf("GenerateDailyMission: %v", err)
	}
	want := svc.Progress()
	wantMission := svc.TodaysMission()

	// A second service over the same blob must see identical state.
	reloaded, err := NewGameService(ctx, repo, clk)
	if err != nil {
		t.Fatalf("NewGameService (reload): %v", err)
	}
	if got := reloaded.Progress(); got.TotalXP != want.TotalXP ||
		got.TasksCompleted != want.TasksCompleted || got.Level != want.Level {
		t.Errorf("progress did not round-trip: got %+v want %+v", got, want)
	}
	gotTasks, wantTasks := reloaded.Tasks(), svc.Tasks()
	if len(gotTasks) != len(wantTasks) {
		t.Fatalf("grimoire size %d != %d", len(gotTasks), len(wantTasks))
	}
	for i := range wantTasks {
		if gotTasks[i].ID != wantTasks[i].ID || gotTasks[i].Completed != wantTasks[i].Completed {
			t.Errorf("task %d did not round-trip: %+v vs %+v", i, gotTasks[i], wantTasks[i])
		}
	}
	gotMission := reloaded.TodaysMission()
	if gotMission == nil {
		t.Fatal("mission lost in round-trip")
	}
	if !clock.SameDay(gotMission.Date, wantMission.Date) {
		t.Errorf("mission date day mismatch: %v vs %v", gotMission.Date, wantMission.Date)
	}
	if got := reloaded.Combo(); got.TasksInCombo != svc.Combo().TasksInCombo {
		t.Errorf("combo did not round-trip: %+v vs %+v", got, svc.Combo())
	}
}
