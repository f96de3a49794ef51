package gamify

import (
	"fmt"
	"time"

	"github.com/questify-app/questify/internal/domain"
	"github.com/questify-app/questify/internal/infra/metrics"
)

// Reward dispatch helpers: one per domain event. External collaborators
// (task store, schedule store, attendance widget, dashboard) call these;
// each performs the full fixed sequence — XP grant, stat update, quest
// progress, badge sweep — as a single committed mutation.

// IsTaskEarly reports whether a task completed at completedAt beat its
// due date, compared at day granularity. A task with no due date (or a
// malformed one) is never early.
func IsTaskEarly(dueDate string, completedAt time.Time) bool {
	due, err := time.ParseInLocation(domain.DateFormat, dueDate, completedAt.Location())
	if err != nil {
		return false
	}
	return dayString(completedAt) < dayString(due)
}

// IsTaskOnTime reports whether a task completed at completedAt made its
// due date, compared at day granularity. A task with no due date is
// always on time.
func IsTaskOnTime(dueDate string, completedAt time.Time) bool {
	due, err := time.ParseInLocation(domain.DateFormat, dueDate, completedAt.Location())
	if err != nil {
		return true
	}
	return dayString(completedAt) <= dayString(due)
}

// CompleteTask rewards a finished task. dueDate may be empty.
// XP: 50 if early, 35 if on the due day, 25 otherwise.
func (e *Engine) CompleteTask(dueDate string) error {
	return e.CompleteTaskAt(time.Now(), dueDate)
}

// CompleteTaskAt is CompleteTask with an explicit clock.
func (e *Engine) CompleteTaskAt(now time.Time, dueDate string) error {
	metrics.EventsDispatched.WithLabelValues("task_completed").Inc()

	early := IsTaskEarly(dueDate, now)
	xp := XPTaskComplete
	switch {
	case early:
		xp = XPTaskEarly
	case IsTaskOnTime(dueDate, now):
		xp = XPTaskOnTime
	}

	e.mu.Lock()
	e.stats.TasksCompleted++
	if early {
		e.stats.TasksCompletedEarly++
	}

	e.emitLocked(domain.Notification{
		Type:      domain.NotifyTaskCompleted,
		Title:     "Task Complete!",
		Body:      fmt.Sprintf("+%d XP", xp),
		CreatedAt: now,
		XPReward:  xp,
		TaskEarly: early,
	})

	err := e.dispatchTailLocked(now, xp, domain.XPTaskCompleted, domain.QuestTask, 1)
	queued, snap := e.takeQueuedLocked()
	e.mu.Unlock()

	e.afterCommit(snap, queued)
	return err
}

// LogStudySession rewards a study session of the given length. One
// reward unit is credited per full 25-minute block; study quests advance
// by fractional hours.
func (e *Engine) LogStudySession(minutes int) error {
	return e.LogStudySessionAt(time.Now(), minutes)
}

// LogStudySessionAt is LogStudySession with an explicit clock.
func (e *Engine) LogStudySessionAt(now time.Time, minutes int) error {
	if minutes <= 0 {
		return fmt.Errorf("%w: got %d", domain.ErrInvalidMinutes, minutes)
	}
	metrics.EventsDispatched.WithLabelValues("study_session").Inc()

	xp := (minutes / StudyBlockMinutes) * XPStudyBlock
	hours := float64(minutes) / 60.0

	e.mu.Lock()
	e.stats.StudyHours += hours
	err := e.dispatchTailLocked(now, xp, domain.XPStudySession, domain.QuestStudy, hours)
	queued, snap := e.takeQueuedLocked()
	e.mu.Unlock()

	e.afterCommit(snap, queued)
	return err
}

// AttendClass rewards one attended class and advances the attendance
// streak, at most once per calendar day.
func (e *Engine) AttendClass() error {
	return e.AttendClassAt(time.Now())
}

// AttendClassAt is AttendClass with an explicit clock.
func (e *Engine) AttendClassAt(now time.Time) error {
	metrics.EventsDispatched.WithLabelValues("class_attended").Inc()

	e.mu.Lock()
	e.stats.ClassesAttended++
	if e.stats.LastAttendanceDate != dayString(now) {
		e.incrementAttendanceStreakLocked(now)
	}
	err := e.dispatchTailLocked(now, XPClassAttended, domain.XPClassAttended, "", 0)
	queued, snap := e.takeQueuedLocked()
	e.mu.Unlock()

	e.afterCommit(snap, queued)
	return err
}

// AddScheduleBlock rewards a newly added schedule block. totalSlots and
// distinctDays are the cumulative schedule shape after the addition;
// reaching 5 slots across 5 distinct days earns a one-time setup bonus.
func (e *Engine) AddScheduleBlock(totalSlots, distinctDays int) error {
	return e.AddScheduleBlockAt(time.Now(), totalSlots, distinctDays)
}

// AddScheduleBlockAt is AddScheduleBlock with an explicit clock.
func (e *Engine) AddScheduleBlockAt(now time.Time, totalSlots, distinctDays int) error {
	metrics.EventsDispatched.WithLabelValues("schedule_block_added").Inc()

	e.mu.Lock()
	e.stats.ScheduleSlots = totalSlots
	e.stats.ScheduleDays = distinctDays

	if !e.stats.ScheduleSetupRewarded && totalSlots >= 5 && distinctDays >= 5 {
		e.stats.ScheduleSetupRewarded = true
		if _, _, err := e.addXPLocked(now, XPScheduleSetup, domain.XPScheduleSetup); err != nil {
			queued, snap := e.takeQueuedLocked()
			e.mu.Unlock()
			e.afterCommit(snap, queued)
			return err
		}
	}

	err := e.dispatchTailLocked(now, XPScheduleBlock, domain.XPScheduleBlock, domain.QuestSchedule, 1)
	queued, snap := e.takeQueuedLocked()
	e.mu.Unlock()

	e.afterCommit(snap, queued)
	return err
}

// CompleteScheduleBlock records a scheduled block checked off on the
// dashboard. Counter only; the XP reward belongs to block addition.
func (e *Engine) CompleteScheduleBlock() error {
	return e.CompleteScheduleBlockAt(time.Now())
}

// CompleteScheduleBlockAt is CompleteScheduleBlock with an explicit clock.
func (e *Engine) CompleteScheduleBlockAt(now time.Time) error {
	metrics.EventsDispatched.WithLabelValues("schedule_block_completed").Inc()

	e.mu.Lock()
	e.stats.ScheduleBlocksCompleted++
	err := e.dispatchTailLocked(now, 0, "", "", 0)
	queued, snap := e.takeQueuedLocked()
	e.mu.Unlock()

	e.afterCommit(snap, queued)
	return err
}

// RecordPerfectWeek records a week in which every scheduled block was
// completed.
func (e *Engine) RecordPerfectWeek() error {
	return e.RecordPerfectWeekAt(time.Now())
}

// RecordPerfectWeekAt is RecordPerfectWeek with an explicit clock.
func (e *Engine) RecordPerfectWeekAt(now time.Time) error {
	metrics.EventsDispatched.WithLabelValues("perfect_week").Inc()

	e.mu.Lock()
	e.stats.PerfectWeeks++
	err := e.dispatchTailLocked(now, 0, "", "", 0)
	queued, snap := e.takeQueuedLocked()
	e.mu.Unlock()

	e.afterCommit(snap, queued)
	return err
}

// AddCourse records the user's course count after an addition. The first
// course ever earns a one-time XP reward.
func (e *Engine) AddCourse(totalCourses int) error {
	return e.AddCourseAt(time.Now(), totalCourses)
}

// AddCourseAt is AddCourse with an explicit clock.
func (e *Engine) AddCourseAt(now time.Time, totalCourses int) error {
	metrics.EventsDispatched.WithLabelValues("course_added").Inc()

	e.mu.Lock()
	first := e.stats.CoursesPlanned == 0 && totalCourses >= 1
	e.stats.CoursesPlanned = totalCourses

	xp := 0
	if first {
		xp = XPFirstCourse
	}
	err := e.dispatchTailLocked(now, xp, domain.XPCourseAdded, domain.QuestAcademic, 1)
	queued, snap := e.takeQueuedLocked()
	e.mu.Unlock()

	e.afterCommit(snap, queued)
	return err
}

// EnterGrade rewards a task's transition from ungraded to graded.
// gradedCount is the total graded-assignment count across all courses
// and gpa the recomputed grade average, both supplied by the caller.
func (e *Engine) EnterGrade(gradedCount int, gpa float64) error {
	return e.EnterGradeAt(time.Now(), gradedCount, gpa)
}

// EnterGradeAt is EnterGrade with an explicit clock.
func (e *Engine) EnterGradeAt(now time.Time, gradedCount int, gpa float64) error {
	metrics.EventsDispatched.WithLabelValues("grade_entered").Inc()

	e.mu.Lock()
	e.stats.GradedAssignments = gradedCount
	e.stats.GPA = gpa
	err := e.dispatchTailLocked(now, XPGradeEntered, domain.XPGradeEntered, domain.QuestAcademic, 1)
	queued, snap := e.takeQueuedLocked()
	e.mu.Unlock()

	e.afterCommit(snap, queued)
	return err
}

// DailyLogin handles the first activity of a calendar day: reconciles
// missed days, then grants the login reward and advances the streak.
// Subsequent calls on the same day are no-ops.
func (e *Engine) DailyLogin() error {
	return e.DailyLoginAt(time.Now())
}

// DailyLoginAt is DailyLogin with an explicit clock.
func (e *Engine) DailyLoginAt(now time.Time) error {
	e.mu.Lock()
	e.reconcileStreaksLocked(now)

	if e.stats.LastActiveDate == dayString(now) {
		err := e.saveStatsLocked() // reconcile may have reset attendance
		queued, snap := e.takeQueuedLocked()
		e.mu.Unlock()
		e.afterCommit(snap, queued)
		return err
	}

	metrics.EventsDispatched.WithLabelValues("daily_login").Inc()
	e.incrementStreakLocked(now)
	err := e.dispatchTailLocked(now, XPDailyLogin, domain.XPDailyLogin, "", 0)
	queued, snap := e.takeQueuedLocked()
	e.mu.Unlock()

	e.afterCommit(snap, queued)
	return err
}

// dispatchTailLocked is the shared tail of every dispatch helper: grant
// XP (if any), advance matching quests (if any), persist stats, and run
// the badge sweep. Caller holds the lock and has already applied its
// stat updates.
func (e *Engine) dispatchTailLocked(now time.Time, xp int, source domain.XPSource, questType domain.QuestType, questAmount float64) error {
	if xp > 0 {
		if _, _, err := e.addXPLocked(now, xp, source); err != nil {
			return err
		}
	}
	if questType != "" && questAmount > 0 {
		if err := e.updateQuestProgressLocked(now, questType, questAmount); err != nil {
			return err
		}
	}
	if err := e.saveStatsLocked(); err != nil {
		return err
	}
	_, err := e.checkAchievementsLocked(now)
	return err
}
