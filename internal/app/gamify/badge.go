package gamify

import (
	"fmt"
	"time"

	"github.com/questify-app/questify/internal/domain"
	"github.com/questify-app/questify/internal/infra/metrics"
	"github.com/questify-app/questify/internal/infra/sqlite"
)

// CheckAchievements re-evaluates every badge against current stats, in
// catalog order. Idempotent: unlocked badges are skipped entirely, so a
// badge never re-locks and never double-notifies. Returns newly unlocked
// badges.
func (e *Engine) CheckAchievements() ([]domain.Badge, error) {
	return e.CheckAchievementsAt(time.Now())
}

// CheckAchievementsAt is CheckAchievements with an explicit clock.
func (e *Engine) CheckAchievementsAt(now time.Time) ([]domain.Badge, error) {
	e.mu.Lock()
	unlocked, err := e.checkAchievementsLocked(now)
	queued, snap := e.takeQueuedLocked()
	e.mu.Unlock()

	e.afterCommit(snap, queued)
	return unlocked, err
}

func (e *Engine) checkAchievementsLocked(now time.Time) ([]domain.Badge, error) {
	states := make(map[string]domain.Badge, len(e.badges))
	for _, b := range e.badges {
		states[b.ID] = b
	}

	var newlyUnlocked []domain.Badge
	for i, def := range e.defs {
		b := &e.badges[i]
		if b.Unlocked {
			continue
		}

		dirty := false
		if def.Progress != nil {
			p := def.Progress(e.stats)
			if def.MaxProgress > 0 && p > def.MaxProgress {
				p = def.MaxProgress
			}
			if p != b.Progress {
				b.Progress = p
				states[b.ID] = *b
				dirty = true
			}
		}

		unlock := false
		switch {
		case def.Composite != nil:
			unlock = def.Composite(states)
		case def.Predicate != nil:
			unlock = def.Predicate(e.stats)
		case def.MaxProgress > 0:
			unlock = b.Progress >= def.MaxProgress
		}

		if unlock {
			at := now
			b.Unlocked = true
			b.UnlockedAt = &at
			if def.Progress == nil && def.MaxProgress > 0 && b.Progress < def.MaxProgress {
				b.Progress = def.MaxProgress
			}
			states[b.ID] = *b
			dirty = true
			newlyUnlocked = append(newlyUnlocked, *b)

			metrics.BadgesUnlocked.Inc()
			e.emitLocked(domain.Notification{
				Type:      domain.NotifyBadgeUnlocked,
				Title:     "Badge Unlocked!",
				Body:      fmt.Sprintf("%s — %s", b.Name, b.Description),
				CreatedAt: now,
				BadgeID:   b.ID,
				BadgeName: b.Name,
				BadgeIcon: b.Icon,
			})
		}

		if dirty {
			if err := e.db.UpsertBadge(sqlite.BadgeState{
				ID:         b.ID,
				Progress:   b.Progress,
				Unlocked:   b.Unlocked,
				UnlockedAt: b.UnlockedAt,
			}); err != nil {
				return newlyUnlocked, fmt.Errorf("save badge %s: %w", b.ID, err)
			}
		}
	}

	return newlyUnlocked, nil
}

// UnlockBadge force-unlocks one badge by id, bypassing its rule.
// No-op if already unlocked.
func (e *Engine) UnlockBadge(id string) error {
	return e.UnlockBadgeAt(time.Now(), id)
}

// UnlockBadgeAt is UnlockBadge with an explicit clock.
func (e *Engine) UnlockBadgeAt(now time.Time, id string) error {
	e.mu.Lock()
	i, ok := e.badgeIdx[id]
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrBadgeNotFound, id)
	}

	var err error
	if !e.badges[i].Unlocked {
		b := &e.badges[i]
		at := now
		b.Unlocked = true
		b.UnlockedAt = &at
		if b.MaxProgress > 0 && b.Progress < b.MaxProgress {
			b.Progress = b.MaxProgress
		}

		metrics.BadgesUnlocked.Inc()
		e.emitLocked(domain.Notification{
			Type:      domain.NotifyBadgeUnlocked,
			Title:     "Badge Unlocked!",
			Body:      fmt.Sprintf("%s — %s", b.Name, b.Description),
			CreatedAt: now,
			BadgeID:   b.ID,
			BadgeName: b.Name,
			BadgeIcon: b.Icon,
		})

		err = e.db.UpsertBadge(sqlite.BadgeState{
			ID:         b.ID,
			Progress:   b.Progress,
			Unlocked:   b.Unlocked,
			UnlockedAt: b.UnlockedAt,
		})
	}
	queued, snap := e.takeQueuedLocked()
	e.mu.Unlock()

	e.afterCommit(snap, queued)
	return err
}

// ─── Badge Catalog ──────────────────────────────────────────────────────────
// 29 badges across 6 groups. Progress is recomputed from stats on every
// sweep; externally-driven badges read the dedicated stat fields the
// dispatch helpers write. academic_starter is composite: it needs any
// progress on both course_planner and schedule_architect.

// Catalog returns the full badge catalog in display order.
func Catalog() []domain.BadgeDef {
	return []domain.BadgeDef{
		// ── Tasks ──────────────────────────────────────────────────────
		{
			ID: "first_task", Name: "First Steps", Rarity: domain.RarityCommon,
			Description: "Complete your first task", Icon: "✅", MaxProgress: 1,
			Progress: func(s domain.UserStats) int { return s.TasksCompleted },
		},
		{
			ID: "task_apprentice", Name: "Task Apprentice", Rarity: domain.RarityCommon,
			Description: "Complete 10 tasks", Icon: "📋", MaxProgress: 10,
			Progress: func(s domain.UserStats) int { return s.TasksCompleted },
		},
		{
			ID: "task_master", Name: "Task Master", Rarity: domain.RarityRare,
			Description: "Complete 50 tasks", Icon: "🎯", MaxProgress: 50,
			Progress: func(s domain.UserStats) int { return s.TasksCompleted },
		},
		{
			ID: "task_legend", Name: "Task Legend", Rarity: domain.RarityEpic,
			Description: "Complete 200 tasks", Icon: "🏆", MaxProgress: 200,
			Progress: func(s domain.UserStats) int { return s.TasksCompleted },
		},
		{
			ID: "early_bird", Name: "Early Bird", Rarity: domain.RarityRare,
			Description: "Finish 10 tasks ahead of their due date", Icon: "🐦", MaxProgress: 10,
			Progress: func(s domain.UserStats) int { return s.TasksCompletedEarly },
		},
		{
			ID: "deadline_slayer", Name: "Deadline Slayer", Rarity: domain.RarityEpic,
			Description: "Finish 25 tasks ahead of their due date", Icon: "⚔️", MaxProgress: 25,
			Progress: func(s domain.UserStats) int { return s.TasksCompletedEarly },
		},

		// ── Streaks ────────────────────────────────────────────────────
		{
			ID: "streak_starter", Name: "Streak Starter", Rarity: domain.RarityCommon,
			Description: "Stay active 3 days in a row", Icon: "✨", MaxProgress: 3,
			Progress: func(s domain.UserStats) int { return s.StreakDays },
		},
		{
			ID: "week_warrior", Name: "Week Warrior", Rarity: domain.RarityRare,
			Description: "Stay active 7 days in a row", Icon: "🔥", MaxProgress: 7,
			Progress: func(s domain.UserStats) int { return s.StreakDays },
		},
		{
			ID: "consistency_king", Name: "Consistency King", Rarity: domain.RarityEpic,
			Description: "Stay active 30 days in a row", Icon: "👑", MaxProgress: 30,
			Progress: func(s domain.UserStats) int { return s.StreakDays },
		},
		{
			ID: "centurion", Name: "Centurion", Rarity: domain.RarityLegendary,
			Description: "Stay active 100 days in a row", Icon: "🏛️", MaxProgress: 100,
			Progress: func(s domain.UserStats) int { return s.StreakDays },
		},

		// ── Study ──────────────────────────────────────────────────────
		{
			ID: "first_study", Name: "Getting Focused", Rarity: domain.RarityCommon,
			Description: "Log your first hour of study", Icon: "📖", MaxProgress: 1,
			Progress: func(s domain.UserStats) int { return int(s.StudyHours) },
		},
		{
			ID: "study_sprinter", Name: "Study Sprinter", Rarity: domain.RarityCommon,
			Description: "Log 10 hours of study", Icon: "⏱️", MaxProgress: 10,
			Progress: func(s domain.UserStats) int { return int(s.StudyHours) },
		},
		{
			ID: "study_machine", Name: "Study Machine", Rarity: domain.RarityRare,
			Description: "Log 50 hours of study", Icon: "⚙️", MaxProgress: 50,
			Progress: func(s domain.UserStats) int { return int(s.StudyHours) },
		},
		{
			ID: "scholar_supreme", Name: "Scholar Supreme", Rarity: domain.RarityEpic,
			Description: "Log 100 hours of study", Icon: "🎓", MaxProgress: 100,
			Progress: func(s domain.UserStats) int { return int(s.StudyHours) },
		},

		// ── Attendance ─────────────────────────────────────────────────
		{
			ID: "first_class", Name: "Present!", Rarity: domain.RarityCommon,
			Description: "Attend your first class", Icon: "🙋", MaxProgress: 1,
			Progress: func(s domain.UserStats) int { return s.ClassesAttended },
		},
		{
			ID: "class_regular", Name: "Class Regular", Rarity: domain.RarityRare,
			Description: "Attend 20 classes", Icon: "🪑", MaxProgress: 20,
			Progress: func(s domain.UserStats) int { return s.ClassesAttended },
		},
		{
			ID: "attendance_ace", Name: "Attendance Ace", Rarity: domain.RarityRare,
			Description: "Attend class 7 days in a row", Icon: "📅", MaxProgress: 7,
			Progress: func(s domain.UserStats) int { return s.AttendanceStreak },
		},
		{
			ID: "attendance_champion", Name: "Attendance Champion", Rarity: domain.RarityEpic,
			Description: "Attend class 30 days in a row", Icon: "🥇", MaxProgress: 30,
			Progress: func(s domain.UserStats) int { return s.AttendanceStreak },
		},
		{
			ID: "never_miss", Name: "Never Miss", Rarity: domain.RarityLegendary,
			Description: "Attend 100 classes", Icon: "💯", MaxProgress: 100,
			Progress: func(s domain.UserStats) int { return s.ClassesAttended },
		},

		// ── Schedule ───────────────────────────────────────────────────
		{
			ID: "schedule_architect", Name: "Schedule Architect", Rarity: domain.RarityRare,
			Description: "Build a schedule with 5 blocks across 5 days", Icon: "🏗️", MaxProgress: 5,
			Progress: func(s domain.UserStats) int { return min(s.ScheduleSlots, s.ScheduleDays) },
		},
		{
			ID: "block_by_block", Name: "Block by Block", Rarity: domain.RarityRare,
			Description: "Complete 25 schedule blocks", Icon: "🧱", MaxProgress: 25,
			Progress: func(s domain.UserStats) int { return s.ScheduleBlocksCompleted },
		},
		{
			ID: "perfect_week", Name: "Perfect Week", Rarity: domain.RarityEpic,
			Description: "Complete every scheduled block for a week", Icon: "🌟", MaxProgress: 1,
			Progress: func(s domain.UserStats) int { return s.PerfectWeeks },
		},
		{
			ID: "perfect_month", Name: "Perfect Month", Rarity: domain.RarityLegendary,
			Description: "Stack up 4 perfect weeks", Icon: "🌕", MaxProgress: 4,
			Progress: func(s domain.UserStats) int { return s.PerfectWeeks },
		},

		// ── Academics ──────────────────────────────────────────────────
		{
			ID: "course_planner", Name: "Course Planner", Rarity: domain.RarityCommon,
			Description: "Add your first course", Icon: "📚", MaxProgress: 1,
			Progress: func(s domain.UserStats) int { return min(s.CoursesPlanned, 1) },
		},
		{
			ID: "semester_organizer", Name: "Semester Organizer", Rarity: domain.RarityRare,
			Description: "Plan 4 courses for a term", Icon: "🗂️", MaxProgress: 4,
			Progress: func(s domain.UserStats) int { return s.CoursesPlanned },
		},
		{
			ID: "academic_starter", Name: "Academic Starter", Rarity: domain.RarityRare,
			Description: "Plan a course and start your schedule", Icon: "🚀", MaxProgress: 1,
			Composite: func(states map[string]domain.Badge) bool {
				return states["course_planner"].Progress > 0 &&
					states["schedule_architect"].Progress > 0
			},
		},
		{
			ID: "grade_warrior", Name: "Grade Warrior", Rarity: domain.RarityRare,
			Description: "Record grades for 10 assignments", Icon: "📝", MaxProgress: 10,
			Progress: func(s domain.UserStats) int { return s.GradedAssignments },
		},
		{
			ID: "honor_roll", Name: "Honor Roll", Rarity: domain.RarityEpic,
			Description: "Hold a GPA of 3.5 or higher", Icon: "🎖️",
			Predicate: func(s domain.UserStats) bool { return s.GPA >= 3.5 },
		},
		{
			ID: "deans_list", Name: "Dean's List", Rarity: domain.RarityLegendary,
			Description: "Hold a GPA of 3.8 or higher", Icon: "🏅",
			Predicate: func(s domain.UserStats) bool { return s.GPA >= 3.8 },
		},
	}
}
