// Package metrics provides Prometheus metrics for Questify: counters and
// gauges over XP, levels, streaks, quests, badges, and event dispatch.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── XP & Levels ────────────────────────────────────────────────────────────

// XPGranted tracks XP granted by source.
var XPGranted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "questify",
	Name:      "xp_granted_total",
	Help:      "Total XP granted.",
}, []string{"source"})

// Level tracks the user's current level.
var Level = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "questify",
	Name:      "level",
	Help:      "Current user level.",
})

// ─── Streaks ────────────────────────────────────────────────────────────────

// StreakDays tracks the current general activity streak.
var StreakDays = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "questify",
	Name:      "streak_days",
	Help:      "Current activity streak in days.",
})

// AttendanceStreakDays tracks the current class attendance streak.
var AttendanceStreakDays = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "questify",
	Name:      "attendance_streak_days",
	Help:      "Current attendance streak in days.",
})

// ─── Quests & Badges ────────────────────────────────────────────────────────

// QuestsCompleted tracks completed daily quests.
var QuestsCompleted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "questify",
	Name:      "quests_completed_total",
	Help:      "Total daily quests completed.",
})

// BadgesUnlocked tracks badge unlocks.
var BadgesUnlocked = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "questify",
	Name:      "badges_unlocked_total",
	Help:      "Total badges unlocked.",
})

// ─── Dispatch ───────────────────────────────────────────────────────────────

// EventsDispatched tracks reward dispatch calls by event type.
var EventsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "questify",
	Name:      "events_dispatched_total",
	Help:      "Total reward events dispatched.",
}, []string{"event"})

// NotificationsEmitted tracks outbox notifications by type.
var NotificationsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "questify",
	Name:      "notifications_emitted_total",
	Help:      "Total notifications appended to the outbox.",
}, []string{"type"})
