package gamify_test

import (
	"errors"
	"testing"
	"time"

	"github.com/questify-app/questify/internal/domain"
)

// ═══════════════════════════════════════════════════════════════════════════
// Streaks
// ═══════════════════════════════════════════════════════════════════════════

func TestStreak_IncrementAndLongest(t *testing.T) {
	e, _ := newEngine(t)

	for i := 0; i < 5; i++ {
		if err := e.IncrementStreakAt(testDay.AddDate(0, 0, i)); err != nil {
			t.Fatalf("increment day %d: %v", i, err)
		}
	}

	s := e.Stats()
	if s.StreakDays != 5 || s.LongestStreak != 5 {
		t.Errorf("expected 5/5, got %d/%d", s.StreakDays, s.LongestStreak)
	}
	if s.LastActiveDate != testDay.AddDate(0, 0, 4).Format("2006-01-02") {
		t.Errorf("last active date wrong: %s", s.LastActiveDate)
	}
}

func TestStreak_ResetPreservesLongest(t *testing.T) {
	e, _ := newEngine(t)

	for i := 0; i < 7; i++ {
		_ = e.IncrementStreakAt(testDay.AddDate(0, 0, i))
	}
	if err := e.ResetStreak(); err != nil {
		t.Fatalf("reset: %v", err)
	}

	s := e.Stats()
	if s.StreakDays != 0 {
		t.Errorf("expected streak 0 after reset, got %d", s.StreakDays)
	}
	if s.LongestStreak != 7 {
		t.Errorf("longest must survive reset, got %d", s.LongestStreak)
	}
}

func TestStreak_ReconcileMissedDay(t *testing.T) {
	e, _ := newEngine(t)

	_ = e.IncrementStreakAt(testDay)
	_ = e.IncrementStreakAt(testDay.AddDate(0, 0, 1))

	// Next calendar day is not a miss.
	_ = e.ReconcileStreaksAt(testDay.AddDate(0, 0, 2))
	if got := e.Stats().StreakDays; got != 2 {
		t.Errorf("one-day gap must not reset, got %d", got)
	}

	// Two days later is.
	_ = e.ReconcileStreaksAt(testDay.AddDate(0, 0, 3))
	s := e.Stats()
	if s.StreakDays != 0 {
		t.Errorf("expected reset after missed day, got %d", s.StreakDays)
	}
	if s.LongestStreak != 2 {
		t.Errorf("longest must survive decay, got %d", s.LongestStreak)
	}
}

func TestStreak_ReconcileFreshStateNoop(t *testing.T) {
	e, _ := newEngine(t)

	if err := e.ReconcileStreaksAt(testDay); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	s := e.Stats()
	if s.StreakDays != 0 || s.LastActiveDate != "" {
		t.Errorf("reconcile on fresh state must change nothing: %+v", s)
	}
}

func TestStreak_TracksAreIndependent(t *testing.T) {
	e, _ := newEngine(t)

	_ = e.IncrementStreakAt(testDay)
	_ = e.IncrementAttendanceStreakAt(testDay)
	_ = e.IncrementAttendanceStreakAt(testDay.AddDate(0, 0, 1))

	// Activity misses a day, attendance does not.
	_ = e.ReconcileStreaksAt(testDay.AddDate(0, 0, 2))

	s := e.Stats()
	if s.StreakDays != 0 {
		t.Errorf("activity streak should have decayed, got %d", s.StreakDays)
	}
	if s.AttendanceStreak != 2 {
		t.Errorf("attendance streak should be untouched, got %d", s.AttendanceStreak)
	}
	if s.LongestAttendanceStreak != 2 {
		t.Errorf("expected longest attendance 2, got %d", s.LongestAttendanceStreak)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Streak Freeze
// ═══════════════════════════════════════════════════════════════════════════

func TestFreeze_PinsEffectiveStreak(t *testing.T) {
	e, _ := newEngine(t)

	for i := 0; i < 5; i++ {
		_ = e.IncrementStreakAt(testDay.AddDate(0, 0, i))
	}
	if err := e.ActivateStreakFreeze("finals week", "2025-09-06", "2025-09-13"); err != nil {
		t.Fatalf("activate: %v", err)
	}

	if !e.IsStreakFrozen() {
		t.Fatal("freeze should be active")
	}
	if got := e.EffectiveStreak(); got != 5 {
		t.Errorf("expected frozen snapshot 5, got %d", got)
	}

	// Counter keeps moving underneath; the display value does not.
	_ = e.IncrementStreakAt(testDay.AddDate(0, 0, 5))
	if got := e.EffectiveStreak(); got != 5 {
		t.Errorf("effective streak must stay pinned while frozen, got %d", got)
	}
	if got := e.Stats().StreakDays; got != 6 {
		t.Errorf("live counter must keep counting, got %d", got)
	}
}

func TestFreeze_BlocksDecay(t *testing.T) {
	e, _ := newEngine(t)

	for i := 0; i < 4; i++ {
		_ = e.IncrementStreakAt(testDay.AddDate(0, 0, i))
	}
	_ = e.ActivateStreakFreeze("sick", "", "")

	// A week of silence while frozen.
	_ = e.ReconcileStreaksAt(testDay.AddDate(0, 0, 10))
	if got := e.Stats().StreakDays; got != 4 {
		t.Errorf("frozen streak must not decay, got %d", got)
	}

	if err := e.DeactivateStreakFreeze(); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if e.IsStreakFrozen() {
		t.Error("freeze should be inactive")
	}
	if got := e.EffectiveStreak(); got != 4 {
		t.Errorf("after thaw the live counter is authoritative, got %d", got)
	}

	// Not frozen anymore: the same gap now decays.
	_ = e.ReconcileStreaksAt(testDay.AddDate(0, 0, 10))
	if got := e.Stats().StreakDays; got != 0 {
		t.Errorf("expected decay after thaw, got %d", got)
	}
}

func TestFreeze_ReactivationOverwritesSnapshot(t *testing.T) {
	e, _ := newEngine(t)

	_ = e.IncrementStreakAt(testDay)
	_ = e.ActivateStreakFreeze("one", "", "")
	_ = e.IncrementStreakAt(testDay.AddDate(0, 0, 1))
	_ = e.IncrementStreakAt(testDay.AddDate(0, 0, 2))
	_ = e.ActivateStreakFreeze("two", "", "")

	if got := e.EffectiveStreak(); got != 3 {
		t.Errorf("re-activation must snapshot the current counter, got %d", got)
	}
	if got := e.Stats().StreakFreeze.Reason; got != "two" {
		t.Errorf("expected latest reason, got %q", got)
	}
}

func TestFreeze_AttendanceIndependent(t *testing.T) {
	e, _ := newEngine(t)

	_ = e.IncrementStreakAt(testDay)
	_ = e.IncrementAttendanceStreakAt(testDay)
	_ = e.ActivateAttendanceStreakFreeze("field trip", "", "")

	if e.IsStreakFrozen() {
		t.Error("activity freeze must stay off")
	}
	if !e.IsAttendanceStreakFrozen() {
		t.Error("attendance freeze should be on")
	}

	// Only the unfrozen track decays.
	_ = e.ReconcileStreaksAt(testDay.AddDate(0, 0, 5))
	s := e.Stats()
	if s.StreakDays != 0 {
		t.Errorf("activity should decay, got %d", s.StreakDays)
	}
	if s.AttendanceStreak != 1 {
		t.Errorf("frozen attendance must not decay, got %d", s.AttendanceStreak)
	}
	if got := e.EffectiveAttendanceStreak(); got != 1 {
		t.Errorf("expected attendance snapshot 1, got %d", got)
	}

	_ = e.DeactivateAttendanceStreakFreeze()
	if e.IsAttendanceStreakFrozen() {
		t.Error("attendance freeze should be off after deactivation")
	}
}

func TestFreeze_DefaultStartDateIsToday(t *testing.T) {
	e, _ := newEngine(t)

	if err := e.ActivateStreakFreeze("", "", ""); err != nil {
		t.Fatalf("activate: %v", err)
	}
	got := e.Stats().StreakFreeze.StartDate
	if got != time.Now().Format("2006-01-02") {
		t.Errorf("expected today's date as default start, got %q", got)
	}
}

func TestFreeze_RejectsMalformedDates(t *testing.T) {
	e, _ := newEngine(t)

	err := e.ActivateStreakFreeze("trip", "09/01/2025", "")
	if !errors.Is(err, domain.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if e.Stats().StreakFreeze.Active {
		t.Error("freeze should stay inactive after rejected activation")
	}

	err = e.ActivateAttendanceStreakFreeze("", "2025-09-01", "not-a-date")
	if !errors.Is(err, domain.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate for end date, got %v", err)
	}
}

func TestStreak_ReconcileAcrossDSTFallBack(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	e, _ := newEngine(t)

	// US DST ends Nov 2 2025; midnight Nov 2 to midnight Nov 3 spans
	// 25 wall-clock hours.
	for i, day := range []time.Time{
		time.Date(2025, 11, 1, 9, 0, 0, 0, loc),
		time.Date(2025, 11, 2, 9, 0, 0, 0, loc),
	} {
		if err := e.IncrementStreakAt(day); err != nil {
			t.Fatalf("increment day %d: %v", i, err)
		}
	}

	if err := e.ReconcileStreaksAt(time.Date(2025, 11, 3, 8, 0, 0, 0, loc)); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if got := e.Stats().StreakDays; got != 2 {
		t.Errorf("consecutive-day reconcile across DST fall-back reset the streak: got %d, want 2", got)
	}

	// A real two-day gap still resets.
	if err := e.ReconcileStreaksAt(time.Date(2025, 11, 4, 8, 0, 0, 0, loc)); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if got := e.Stats().StreakDays; got != 0 {
		t.Errorf("expected reset after missed day, got %d", got)
	}
}
