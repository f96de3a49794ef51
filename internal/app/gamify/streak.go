package gamify

import (
	"fmt"
	"time"

	"github.com/questify-app/questify/internal/domain"
	"github.com/questify-app/questify/internal/infra/metrics"
)

// validFreezeDates checks that any non-empty freeze boundary parses as
// a calendar day.
func validFreezeDates(startDate, endDate string) error {
	for _, d := range []string{startDate, endDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(domain.DateFormat, d); err != nil {
			return fmt.Errorf("%w: %q", domain.ErrInvalidDate, d)
		}
	}
	return nil
}

// ─── Activity streak ────────────────────────────────────────────────────────

// IncrementStreak advances the activity streak by one day and records
// today as the last active date. The daily-login dispatcher guarantees
// the at-most-once-per-day contract; the engine itself only counts.
func (e *Engine) IncrementStreak() error {
	return e.IncrementStreakAt(time.Now())
}

// IncrementStreakAt is IncrementStreak with an explicit clock.
func (e *Engine) IncrementStreakAt(day time.Time) error {
	e.mu.Lock()
	e.incrementStreakLocked(day)
	err := e.saveStatsLocked()
	queued, snap := e.takeQueuedLocked()
	e.mu.Unlock()

	e.afterCommit(snap, queued)
	return err
}

func (e *Engine) incrementStreakLocked(day time.Time) {
	e.stats.StreakDays++
	if e.stats.StreakDays > e.stats.LongestStreak {
		e.stats.LongestStreak = e.stats.StreakDays
	}
	e.stats.LastActiveDate = dayString(day)
	metrics.StreakDays.Set(float64(e.stats.StreakDays))
}

// ResetStreak sets the activity streak back to zero. Longest streak is
// preserved.
func (e *Engine) ResetStreak() error {
	e.mu.Lock()
	e.stats.StreakDays = 0
	metrics.StreakDays.Set(0)
	err := e.saveStatsLocked()
	queued, snap := e.takeQueuedLocked()
	e.mu.Unlock()

	e.afterCommit(snap, queued)
	return err
}

// ─── Attendance streak ──────────────────────────────────────────────────────

// IncrementAttendanceStreakAt advances the attendance streak by one day.
func (e *Engine) IncrementAttendanceStreakAt(day time.Time) error {
	e.mu.Lock()
	e.incrementAttendanceStreakLocked(day)
	err := e.saveStatsLocked()
	queued, snap := e.takeQueuedLocked()
	e.mu.Unlock()

	e.afterCommit(snap, queued)
	return err
}

func (e *Engine) incrementAttendanceStreakLocked(day time.Time) {
	e.stats.AttendanceStreak++
	if e.stats.AttendanceStreak > e.stats.LongestAttendanceStreak {
		e.stats.LongestAttendanceStreak = e.stats.AttendanceStreak
	}
	e.stats.LastAttendanceDate = dayString(day)
	metrics.AttendanceStreakDays.Set(float64(e.stats.AttendanceStreak))
}

// ResetAttendanceStreak sets the attendance streak back to zero.
func (e *Engine) ResetAttendanceStreak() error {
	e.mu.Lock()
	e.stats.AttendanceStreak = 0
	metrics.AttendanceStreakDays.Set(0)
	err := e.saveStatsLocked()
	queued, snap := e.takeQueuedLocked()
	e.mu.Unlock()

	e.afterCommit(snap, queued)
	return err
}

// ─── Missed-day reconciliation ──────────────────────────────────────────────

// ReconcileStreaks checks both streak tracks against today and resets
// any track whose last counted day is more than one day in the past,
// unless that track's freeze is active. Called once at session start and
// before the daily-login dispatch.
func (e *Engine) ReconcileStreaks() error {
	return e.ReconcileStreaksAt(time.Now())
}

// ReconcileStreaksAt is ReconcileStreaks with an explicit clock.
func (e *Engine) ReconcileStreaksAt(today time.Time) error {
	e.mu.Lock()
	e.reconcileStreaksLocked(today)
	err := e.saveStatsLocked()
	queued, snap := e.takeQueuedLocked()
	e.mu.Unlock()

	e.afterCommit(snap, queued)
	return err
}

func (e *Engine) reconcileStreaksLocked(today time.Time) {
	if !e.stats.StreakFreeze.Active && missedDay(e.stats.LastActiveDate, today) {
		e.stats.StreakDays = 0
		metrics.StreakDays.Set(0)
	}
	if !e.stats.AttendanceFreeze.Active && missedDay(e.stats.LastAttendanceDate, today) {
		e.stats.AttendanceStreak = 0
		metrics.AttendanceStreakDays.Set(0)
	}
}

// missedDay reports whether lastDate (YYYY-MM-DD) is more than one
// calendar day before today. An empty or malformed lastDate never counts
// as a miss — there is nothing to decay yet.
func missedDay(lastDate string, today time.Time) bool {
	if lastDate == "" {
		return false
	}
	last, err := time.ParseInLocation(domain.DateFormat, lastDate, today.Location())
	if err != nil {
		return false
	}
	// Calendar days, not wall-clock hours: a DST transition makes the
	// midnight-to-midnight span 23 or 25 hours.
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	return day.After(last.AddDate(0, 0, 1))
}

// ─── Streak freeze ──────────────────────────────────────────────────────────

// ActivateStreakFreeze pins the effective activity streak at its current
// value. startDate defaults to today when empty; endDate may stay empty
// for an open-ended freeze. Re-activating overwrites the snapshot.
func (e *Engine) ActivateStreakFreeze(reason, startDate, endDate string) error {
	if err := validFreezeDates(startDate, endDate); err != nil {
		return err
	}
	e.mu.Lock()
	if startDate == "" {
		startDate = dayString(time.Now())
	}
	e.stats.StreakFreeze = domain.FreezeState{
		Active:     true,
		StartDate:  startDate,
		EndDate:    endDate,
		Reason:     reason,
		FrozenDays: e.stats.StreakDays,
	}
	err := e.saveStatsLocked()
	queued, snap := e.takeQueuedLocked()
	e.mu.Unlock()

	e.afterCommit(snap, queued)
	return err
}

// DeactivateStreakFreeze clears the activity freeze; the effective
// streak resumes from the live counter.
func (e *Engine) DeactivateStreakFreeze() error {
	e.mu.Lock()
	e.stats.StreakFreeze = domain.FreezeState{}
	err := e.saveStatsLocked()
	queued, snap := e.takeQueuedLocked()
	e.mu.Unlock()

	e.afterCommit(snap, queued)
	return err
}

// ActivateAttendanceStreakFreeze mirrors ActivateStreakFreeze for the
// attendance track.
func (e *Engine) ActivateAttendanceStreakFreeze(reason, startDate, endDate string) error {
	if err := validFreezeDates(startDate, endDate); err != nil {
		return err
	}
	e.mu.Lock()
	if startDate == "" {
		startDate = dayString(time.Now())
	}
	e.stats.AttendanceFreeze = domain.FreezeState{
		Active:     true,
		StartDate:  startDate,
		EndDate:    endDate,
		Reason:     reason,
		FrozenDays: e.stats.AttendanceStreak,
	}
	err := e.saveStatsLocked()
	queued, snap := e.takeQueuedLocked()
	e.mu.Unlock()

	e.afterCommit(snap, queued)
	return err
}

// DeactivateAttendanceStreakFreeze clears the attendance freeze.
func (e *Engine) DeactivateAttendanceStreakFreeze() error {
	e.mu.Lock()
	e.stats.AttendanceFreeze = domain.FreezeState{}
	err := e.saveStatsLocked()
	queued, snap := e.takeQueuedLocked()
	e.mu.Unlock()

	e.afterCommit(snap, queued)
	return err
}

// ─── Derived getters ────────────────────────────────────────────────────────

// EffectiveStreak returns the display value for the activity streak.
func (e *Engine) EffectiveStreak() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats.EffectiveStreak()
}

// EffectiveAttendanceStreak returns the display value for attendance.
func (e *Engine) EffectiveAttendanceStreak() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats.EffectiveAttendanceStreak()
}

// IsStreakFrozen reports whether the activity freeze is active.
func (e *Engine) IsStreakFrozen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats.StreakFreeze.Active
}

// IsAttendanceStreakFrozen reports whether the attendance freeze is active.
func (e *Engine) IsAttendanceStreakFrozen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats.AttendanceFreeze.Active
}
