// Package domain holds the pure data model of the gamification engine:
// user stats, badges, daily quests, and notification events.
// No infrastructure dependencies — everything here is plain state plus
// derivation functions.
package domain

// XPPerLevel is the fixed XP cost of each level.
const XPPerLevel = 500

// DateFormat is the calendar-day format used across the engine.
const DateFormat = "2006-01-02"

// FreezeState is a time-boxed suspension of streak decay. While active,
// the effective streak is pinned to the snapshot taken at activation;
// the underlying counter is left untouched so deactivation resumes from
// where it left off. Re-activating overwrites the snapshot (no stacking).
type FreezeState struct {
	Active     bool   `json:"active"`
	StartDate  string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    string `json:"end_date,omitempty"`   // open-ended if empty
	Reason     string `json:"reason,omitempty"`
	FrozenDays int    `json:"frozen_days"` // streak snapshot at activation
}

// UserStats is the root aggregate of the gamification engine. A single
// instance exists per user, created with zero values on first run and
// rehydrated from storage on subsequent runs. All counters are lifetime
// totals and monotonically non-decreasing except the streak counters.
type UserStats struct {
	TotalXP int `json:"total_xp"` // authoritative; level and in-level XP derive from it

	// General activity streak.
	StreakDays     int    `json:"streak_days"`
	LongestStreak  int    `json:"longest_streak"`
	LastActiveDate string `json:"last_active_date,omitempty"` // YYYY-MM-DD

	// Class attendance streak (independent track).
	AttendanceStreak        int    `json:"attendance_streak"`
	LongestAttendanceStreak int    `json:"longest_attendance_streak"`
	LastAttendanceDate      string `json:"last_attendance_date,omitempty"`

	// Lifetime counters.
	TasksCompleted          int     `json:"tasks_completed"`
	TasksCompletedEarly     int     `json:"tasks_completed_early"`
	StudyHours              float64 `json:"study_hours"`
	ScheduleBlocksCompleted int     `json:"schedule_blocks_completed"`
	PerfectWeeks            int     `json:"perfect_weeks"`
	ClassesAttended         int     `json:"classes_attended"`
	QuestsCompleted         int     `json:"quests_completed"`

	// Fields written by reward dispatch helpers and read by badge
	// progress functions.
	CoursesPlanned        int     `json:"courses_planned"`
	ScheduleSlots         int     `json:"schedule_slots"`
	ScheduleDays          int     `json:"schedule_days"` // distinct weekdays covered by the schedule
	ScheduleSetupRewarded bool    `json:"schedule_setup_rewarded"`
	GradedAssignments     int     `json:"graded_assignments"`
	GPA                   float64 `json:"gpa"`

	// Streak freezes, one per track.
	StreakFreeze     FreezeState `json:"streak_freeze"`
	AttendanceFreeze FreezeState `json:"attendance_freeze"`
}

// Level returns the current level derived from lifetime XP.
func (s UserStats) Level() int {
	return s.TotalXP/XPPerLevel + 1
}

// NextLevelXP returns the lifetime XP threshold for the next level.
func (s UserStats) NextLevelXP() int {
	return s.Level() * XPPerLevel
}

// XPWithinLevel returns XP accumulated inside the current level bucket.
func (s UserStats) XPWithinLevel() int {
	return s.TotalXP % XPPerLevel
}

// EffectiveStreak is the value display surfaces must read: the frozen
// snapshot while a freeze is active, the live counter otherwise.
func (s UserStats) EffectiveStreak() int {
	if s.StreakFreeze.Active {
		return s.StreakFreeze.FrozenDays
	}
	return s.StreakDays
}

// EffectiveAttendanceStreak mirrors EffectiveStreak for attendance.
func (s UserStats) EffectiveAttendanceStreak() int {
	if s.AttendanceFreeze.Active {
		return s.AttendanceFreeze.FrozenDays
	}
	return s.AttendanceStreak
}
