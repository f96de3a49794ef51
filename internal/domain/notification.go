package domain

import "time"

// NotificationType categorizes outbox events.
type NotificationType string

const (
	NotifyLevelUp        NotificationType = "level_up"
	NotifyBadgeUnlocked  NotificationType = "badge_unlocked"
	NotifyQuestCompleted NotificationType = "quest_completed"
	NotifyTaskCompleted  NotificationType = "task_completed"
)

// Notification is one outbox event. It is appended after the state
// mutation that caused it has committed, so a consumer reading current
// stats always observes the post-mutation state. Payload fields are
// populated per type; unused fields stay zero.
type Notification struct {
	ID        int64            `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	CreatedAt time.Time        `json:"created_at"`
	Shown     bool             `json:"shown"`

	// level_up
	NewLevel int `json:"new_level,omitempty"`
	XPGained int `json:"xp_gained,omitempty"`

	// badge_unlocked
	BadgeID   string `json:"badge_id,omitempty"`
	BadgeName string `json:"badge_name,omitempty"`
	BadgeIcon string `json:"badge_icon,omitempty"`

	// quest_completed / task_completed
	QuestTitle string `json:"quest_title,omitempty"`
	XPReward   int    `json:"xp_reward,omitempty"`
	TaskEarly  bool   `json:"task_early,omitempty"`
}

// Notifier is the external notification sink. All calls are
// fire-and-forget; the engine never consumes a return value. Calls
// happen strictly after the causing mutation is committed and visible.
type Notifier interface {
	ShowLevelUpNotification(level, xpGained int)
	ShowBadgeNotification(name, icon, id string)
	ShowQuestCompletedNotification(title string, xpReward int)
	ShowTaskCompletedNotification(xpReward int, early bool)
}
