// Package gamify implements the Questify gamification engine: XP and
// levels, activity and attendance streaks with freezes, the badge
// catalog, daily quests, and the reward dispatch helpers that external
// collaborators (task store, schedule store, attendance widget,
// dashboard) invoke.
//
// One Engine instance owns the whole UserStats aggregate. Every public
// operation takes the engine lock, mutates and persists state, and only
// then delivers queued notifications — so subscribers and the
// notification sink always observe committed state.
package gamify

import (
	"fmt"
	"sync"
	"time"

	"github.com/questify-app/questify/internal/domain"
	"github.com/questify-app/questify/internal/infra/metrics"
	"github.com/questify-app/questify/internal/infra/sqlite"
)

// DefaultQuestsPerDay is how many daily quests one generation produces.
const DefaultQuestsPerDay = 3

// Engine is the gamification engine. Construct with New and share the
// single instance; all methods are safe for concurrent use.
type Engine struct {
	mu       sync.Mutex
	db       *sqlite.DB
	notifier domain.Notifier // optional; nil means outbox-only

	defs     []domain.BadgeDef
	stats    domain.UserStats
	badges   []domain.Badge // catalog order
	badgeIdx map[string]int
	quests   []domain.DailyQuest // all days, oldest first

	questsPerDay int
	subs         []func(domain.UserStats)
	queued       []domain.Notification // emitted during the current mutation
}

// New loads persisted state from db and returns a ready engine.
// The badge list is migrated on every load: the in-code catalog decides
// membership and metadata, stored rows decide progress and unlock state.
// notifier may be nil.
func New(db *sqlite.DB, notifier domain.Notifier) (*Engine, error) {
	stats, err := db.LoadStats()
	if err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}

	stored, err := db.LoadBadgeStates()
	if err != nil {
		return nil, fmt.Errorf("load badges: %w", err)
	}

	defs := Catalog()
	badges := make([]domain.Badge, 0, len(defs))
	idx := make(map[string]int, len(defs))
	for i, def := range defs {
		b := domain.Badge{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Icon:        def.Icon,
			Rarity:      def.Rarity,
			MaxProgress: def.MaxProgress,
		}
		if s, ok := stored[def.ID]; ok {
			b.Progress = s.Progress
			b.Unlocked = s.Unlocked
			b.UnlockedAt = s.UnlockedAt
		}
		badges = append(badges, b)
		idx[def.ID] = i
	}

	quests, err := db.ListQuests()
	if err != nil {
		return nil, fmt.Errorf("load quests: %w", err)
	}

	e := &Engine{
		db:           db,
		notifier:     notifier,
		defs:         defs,
		stats:        stats,
		badges:       badges,
		badgeIdx:     idx,
		quests:       quests,
		questsPerDay: DefaultQuestsPerDay,
	}

	metrics.Level.Set(float64(stats.Level()))
	metrics.StreakDays.Set(float64(stats.StreakDays))
	metrics.AttendanceStreakDays.Set(float64(stats.AttendanceStreak))

	return e, nil
}

// SetQuestsPerDay overrides how many quests one generation produces.
func (e *Engine) SetQuestsPerDay(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n > 0 {
		e.questsPerDay = n
	}
}

// Subscribe registers fn to be called with a stats snapshot after every
// committed mutation. Callbacks run on the mutating goroutine.
func (e *Engine) Subscribe(fn func(domain.UserStats)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs = append(e.subs, fn)
}

// Stats returns a snapshot of the current user stats.
func (e *Engine) Stats() domain.UserStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// Badges returns the badge list in catalog order.
func (e *Engine) Badges() []domain.Badge {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.Badge, len(e.badges))
	copy(out, e.badges)
	return out
}

// UpdateStats applies a direct partial patch to the stats aggregate.
// Used by settings and reset flows; no XP, quest, or badge side effects.
func (e *Engine) UpdateStats(patch func(*domain.UserStats)) error {
	e.mu.Lock()
	patch(&e.stats)
	err := e.saveStatsLocked()
	queued, snap := e.takeQueuedLocked()
	e.mu.Unlock()

	e.afterCommit(snap, queued)
	return err
}

// Reset wipes all gamification state back to first-run defaults.
func (e *Engine) Reset() error {
	e.mu.Lock()

	if err := e.db.ResetAll(); err != nil {
		e.mu.Unlock()
		return err
	}

	e.stats = domain.UserStats{}
	e.quests = nil
	for i := range e.badges {
		e.badges[i].Progress = 0
		e.badges[i].Unlocked = false
		e.badges[i].UnlockedAt = nil
	}

	metrics.Level.Set(1)
	metrics.StreakDays.Set(0)
	metrics.AttendanceStreakDays.Set(0)

	queued, snap := e.takeQueuedLocked()
	e.mu.Unlock()

	e.afterCommit(snap, queued)
	return nil
}

// PendingNotifications returns undelivered outbox entries, oldest first.
func (e *Engine) PendingNotifications(limit int) ([]domain.Notification, error) {
	return e.db.ListPendingNotifications(limit)
}

// MarkNotificationShown marks an outbox entry as shown.
func (e *Engine) MarkNotificationShown(id int64) error {
	return e.db.MarkNotificationShown(id)
}

// Ledger returns the most recent XP grants, newest first.
func (e *Engine) Ledger(limit int) ([]domain.LedgerEntry, error) {
	return e.db.ListLedgerEntries(limit)
}

// ─── Commit pipeline ────────────────────────────────────────────────────────

// saveStatsLocked persists the scalar stats aggregate.
func (e *Engine) saveStatsLocked() error {
	return e.db.SaveStats(e.stats)
}

// emitLocked persists one notification to the outbox and queues it for
// delivery after the commit.
func (e *Engine) emitLocked(n domain.Notification) {
	id, err := e.db.InsertNotification(n)
	if err == nil {
		n.ID = id
	}
	metrics.NotificationsEmitted.WithLabelValues(string(n.Type)).Inc()
	e.queued = append(e.queued, n)
}

// takeQueuedLocked drains the queued notifications and snapshots stats.
// Called as the last step under the lock.
func (e *Engine) takeQueuedLocked() ([]domain.Notification, domain.UserStats) {
	queued := e.queued
	e.queued = nil
	return queued, e.stats
}

// afterCommit runs outside the lock: subscribers first, so every
// consumer can read the committed state, then the notification sink.
func (e *Engine) afterCommit(snap domain.UserStats, queued []domain.Notification) {
	e.mu.Lock()
	subs := make([]func(domain.UserStats), len(e.subs))
	copy(subs, e.subs)
	e.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
	if e.notifier == nil {
		return
	}
	for _, n := range queued {
		switch n.Type {
		case domain.NotifyLevelUp:
			e.notifier.ShowLevelUpNotification(n.NewLevel, n.XPGained)
		case domain.NotifyBadgeUnlocked:
			e.notifier.ShowBadgeNotification(n.BadgeName, n.BadgeIcon, n.BadgeID)
		case domain.NotifyQuestCompleted:
			e.notifier.ShowQuestCompletedNotification(n.QuestTitle, n.XPReward)
		case domain.NotifyTaskCompleted:
			e.notifier.ShowTaskCompletedNotification(n.XPReward, n.TaskEarly)
		}
	}
}

// dayString formats t as the engine's calendar-day key.
func dayString(t time.Time) string {
	return t.Format(domain.DateFormat)
}
