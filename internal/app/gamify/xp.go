package gamify

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/questify-app/questify/internal/domain"
	"github.com/questify-app/questify/internal/infra/metrics"
)

// XP amounts per reward event. Fixed constants, matched by the dispatch
// helpers in rewards.go.
const (
	XPTaskEarly     = 50
	XPTaskOnTime    = 35
	XPTaskComplete  = 25
	XPStudyBlock    = 15 // per full 25-minute block
	XPClassAttended = 15
	XPScheduleSetup = 75 // one-time bonus: ≥5 slots across ≥5 distinct days
	XPScheduleBlock = 20
	XPFirstCourse   = 50
	XPGradeEntered  = 10
	XPDailyLogin    = 10

	// StudyBlockMinutes is the study interval that earns one XPStudyBlock.
	StudyBlockMinutes = 25
)

// AddXP applies an XP delta, recomputes the level, and emits a level-up
// notification when the level increased. Returns the new level and
// whether a level-up occurred. Non-positive amounts are rejected.
func (e *Engine) AddXP(amount int, source domain.XPSource) (int, bool, error) {
	return e.AddXPAt(time.Now(), amount, source)
}

// AddXPAt is AddXP with an explicit clock, for testability.
func (e *Engine) AddXPAt(now time.Time, amount int, source domain.XPSource) (int, bool, error) {
	if amount <= 0 {
		return 0, false, fmt.Errorf("%w: got %d", domain.ErrInvalidXPAmount, amount)
	}

	e.mu.Lock()
	level, leveledUp, err := e.addXPLocked(now, amount, source)
	if err == nil {
		err = e.saveStatsLocked()
	}
	queued, snap := e.takeQueuedLocked()
	e.mu.Unlock()

	e.afterCommit(snap, queued)
	return level, leveledUp, err
}

// addXPLocked is the shared XP-grant path. Quest completion and the
// dispatch helpers call it while already holding the lock; the caller is
// responsible for persisting stats afterwards.
func (e *Engine) addXPLocked(now time.Time, amount int, source domain.XPSource) (int, bool, error) {
	oldLevel := e.stats.Level()
	e.stats.TotalXP += amount
	newLevel := e.stats.Level()

	entry := domain.LedgerEntry{
		ID:         uuid.NewString(),
		Timestamp:  now,
		Source:     source,
		Amount:     amount,
		TotalAfter: e.stats.TotalXP,
	}
	if err := e.db.InsertLedgerEntry(entry); err != nil {
		return newLevel, false, fmt.Errorf("ledger append: %w", err)
	}

	metrics.XPGranted.WithLabelValues(string(source)).Add(float64(amount))
	metrics.Level.Set(float64(newLevel))

	if newLevel > oldLevel {
		e.emitLocked(domain.Notification{
			Type:      domain.NotifyLevelUp,
			Title:     "Level Up!",
			Body:      fmt.Sprintf("You reached level %d", newLevel),
			CreatedAt: now,
			NewLevel:  newLevel,
			XPGained:  amount,
		})
	}

	return newLevel, newLevel > oldLevel, nil
}
