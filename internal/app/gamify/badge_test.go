package gamify_test

import (
	"errors"
	"testing"

	"github.com/questify-app/questify/internal/domain"
)

// ═══════════════════════════════════════════════════════════════════════════
// Badges
// ═══════════════════════════════════════════════════════════════════════════

func badgeByID(t *testing.T, badges []domain.Badge, id string) domain.Badge {
	t.Helper()
	for _, b := range badges {
		if b.ID == id {
			return b
		}
	}
	t.Fatalf("badge %s not in catalog", id)
	return domain.Badge{}
}

func TestBadges_FirstTaskUnlock(t *testing.T) {
	e, n := newEngine(t)

	_ = e.UpdateStats(func(s *domain.UserStats) { s.TasksCompleted = 1 })
	unlocked, err := e.CheckAchievementsAt(testDay)
	if err != nil {
		t.Fatalf("check: %v", err)
	}

	if len(unlocked) != 1 || unlocked[0].ID != "first_task" {
		t.Fatalf("expected only first_task, got %+v", unlocked)
	}
	b := badgeByID(t, e.Badges(), "first_task")
	if !b.Unlocked || b.UnlockedAt == nil || !b.UnlockedAt.Equal(testDay) {
		t.Errorf("unlock state wrong: %+v", b)
	}
	if b.Progress != 1 {
		t.Errorf("expected progress 1, got %d", b.Progress)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.badges) != 1 || n.badges[0] != "first_task" {
		t.Errorf("expected one badge notification, got %v", n.badges)
	}
}

func TestBadges_CheckIsIdempotent(t *testing.T) {
	e, n := newEngine(t)

	_ = e.UpdateStats(func(s *domain.UserStats) { s.TasksCompleted = 1 })
	_, _ = e.CheckAchievementsAt(testDay)

	unlocked, err := e.CheckAchievementsAt(testDay.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("second check: %v", err)
	}
	if len(unlocked) != 0 {
		t.Errorf("second sweep must unlock nothing, got %+v", unlocked)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.badges) != 1 {
		t.Errorf("no duplicate notifications, got %d", len(n.badges))
	}
}

func TestBadges_NeverRelock(t *testing.T) {
	e, _ := newEngine(t)

	_ = e.UpdateStats(func(s *domain.UserStats) { s.StreakDays = 7 })
	_, _ = e.CheckAchievementsAt(testDay)

	// Streak collapses afterwards; the badge stays.
	_ = e.UpdateStats(func(s *domain.UserStats) { s.StreakDays = 0 })
	_, _ = e.CheckAchievementsAt(testDay.AddDate(0, 0, 1))

	b := badgeByID(t, e.Badges(), "week_warrior")
	if !b.Unlocked {
		t.Error("week_warrior must stay unlocked after streak reset")
	}
	if b.Progress != 7 {
		t.Errorf("progress frozen at unlock value, got %d", b.Progress)
	}
}

func TestBadges_ProgressClampedToMax(t *testing.T) {
	e, _ := newEngine(t)

	_ = e.UpdateStats(func(s *domain.UserStats) { s.TasksCompleted = 500 })
	_, _ = e.CheckAchievementsAt(testDay)

	b := badgeByID(t, e.Badges(), "task_legend")
	if b.Progress != 200 {
		t.Errorf("expected progress clamped to 200, got %d", b.Progress)
	}
	if !b.Unlocked {
		t.Error("task_legend should be unlocked at 500 tasks")
	}
}

func TestBadges_TierThresholds(t *testing.T) {
	e, _ := newEngine(t)

	_ = e.UpdateStats(func(s *domain.UserStats) { s.TasksCompleted = 49 })
	_, _ = e.CheckAchievementsAt(testDay)
	if b := badgeByID(t, e.Badges(), "task_master"); b.Unlocked {
		t.Error("task_master must stay locked at 49")
	}

	_ = e.UpdateStats(func(s *domain.UserStats) { s.TasksCompleted = 50 })
	unlocked, _ := e.CheckAchievementsAt(testDay)
	if len(unlocked) != 1 || unlocked[0].ID != "task_master" {
		t.Errorf("expected task_master exactly at 50, got %+v", unlocked)
	}
}

func TestBadges_GPAPredicates(t *testing.T) {
	e, _ := newEngine(t)

	_ = e.UpdateStats(func(s *domain.UserStats) { s.GPA = 3.6 })
	_, _ = e.CheckAchievementsAt(testDay)
	if b := badgeByID(t, e.Badges(), "honor_roll"); !b.Unlocked {
		t.Error("honor_roll should unlock at 3.6")
	}
	if b := badgeByID(t, e.Badges(), "deans_list"); b.Unlocked {
		t.Error("deans_list must stay locked below 3.8")
	}

	_ = e.UpdateStats(func(s *domain.UserStats) { s.GPA = 3.8 })
	_, _ = e.CheckAchievementsAt(testDay)
	if b := badgeByID(t, e.Badges(), "deans_list"); !b.Unlocked {
		t.Error("deans_list should unlock at exactly 3.8")
	}
}

func TestBadges_AcademicStarterComposite(t *testing.T) {
	e, _ := newEngine(t)

	_ = e.UpdateStats(func(s *domain.UserStats) { s.CoursesPlanned = 1 })
	_, _ = e.CheckAchievementsAt(testDay)
	if b := badgeByID(t, e.Badges(), "academic_starter"); b.Unlocked {
		t.Error("starter needs both sides, only courses present")
	}

	_ = e.UpdateStats(func(s *domain.UserStats) { s.ScheduleSlots = 1 })
	_, _ = e.CheckAchievementsAt(testDay)
	b := badgeByID(t, e.Badges(), "academic_starter")
	if !b.Unlocked {
		t.Fatal("starter should unlock once both prerequisites have progress")
	}
	if b.Progress != b.MaxProgress {
		t.Errorf("composite unlock should fill progress, got %d/%d", b.Progress, b.MaxProgress)
	}
}

func TestBadges_ForceUnlock(t *testing.T) {
	e, n := newEngine(t)

	if err := e.UnlockBadgeAt(testDay, "centurion"); err != nil {
		t.Fatalf("force unlock: %v", err)
	}
	b := badgeByID(t, e.Badges(), "centurion")
	if !b.Unlocked || b.Progress != 100 {
		t.Errorf("forced unlock should fill progress, got %+v", b)
	}

	// Second call is a no-op.
	if err := e.UnlockBadgeAt(testDay, "centurion"); err != nil {
		t.Fatalf("repeat unlock: %v", err)
	}
	n.mu.Lock()
	count := len(n.badges)
	n.mu.Unlock()
	if count != 1 {
		t.Errorf("expected one notification, got %d", count)
	}

	if err := e.UnlockBadgeAt(testDay, "no_such_badge"); !errors.Is(err, domain.ErrBadgeNotFound) {
		t.Errorf("expected ErrBadgeNotFound, got %v", err)
	}
}

func TestBadges_RarityCoverage(t *testing.T) {
	e, _ := newEngine(t)
	counts := map[domain.BadgeRarity]int{}
	for _, b := range e.Badges() {
		counts[b.Rarity]++
	}
	for _, r := range []domain.BadgeRarity{
		domain.RarityCommon, domain.RarityRare, domain.RarityEpic, domain.RarityLegendary,
	} {
		if counts[r] == 0 {
			t.Errorf("no badges with rarity %s", r)
		}
	}
}

func TestBadges_ScheduleArchitectNeedsBothDimensions(t *testing.T) {
	e, _ := newEngine(t)

	// 5 blocks stacked onto 3 weekdays is not a built-out schedule.
	_ = e.UpdateStats(func(s *domain.UserStats) {
		s.ScheduleSlots = 5
		s.ScheduleDays = 3
	})
	if _, err := e.CheckAchievementsAt(testDay); err != nil {
		t.Fatalf("check: %v", err)
	}
	b := badgeByID(t, e.Badges(), "schedule_architect")
	if b.Unlocked {
		t.Error("5 slots on 3 days should not unlock schedule_architect")
	}
	if b.Progress != 3 {
		t.Errorf("progress tracks the narrower dimension: got %d, want 3", b.Progress)
	}

	_ = e.UpdateStats(func(s *domain.UserStats) { s.ScheduleDays = 5 })
	if _, err := e.CheckAchievementsAt(testDay); err != nil {
		t.Fatalf("check: %v", err)
	}
	if !badgeByID(t, e.Badges(), "schedule_architect").Unlocked {
		t.Error("5 slots across 5 days should unlock schedule_architect")
	}
}
