package sqlite

import (
	"encoding/json"
	"time"

	"github.com/questify-app/questify/internal/domain"
)

// notifPayload carries the typed per-notification fields as one JSON
// column so the schema stays stable as payloads evolve.
type notifPayload struct {
	NewLevel   int    `json:"new_level,omitempty"`
	XPGained   int    `json:"xp_gained,omitempty"`
	BadgeID    string `json:"badge_id,omitempty"`
	BadgeName  string `json:"badge_name,omitempty"`
	BadgeIcon  string `json:"badge_icon,omitempty"`
	QuestTitle string `json:"quest_title,omitempty"`
	XPReward   int    `json:"xp_reward,omitempty"`
	TaskEarly  bool   `json:"task_early,omitempty"`
}

// InsertNotification appends one outbox row and returns its id.
func (d *DB) InsertNotification(n domain.Notification) (int64, error) {
	payload, err := json.Marshal(notifPayload{
		NewLevel:   n.NewLevel,
		XPGained:   n.XPGained,
		BadgeID:    n.BadgeID,
		BadgeName:  n.BadgeName,
		BadgeIcon:  n.BadgeIcon,
		QuestTitle: n.QuestTitle,
		XPReward:   n.XPReward,
		TaskEarly:  n.TaskEarly,
	})
	if err != nil {
		return 0, err
	}

	result, err := d.db.Exec(
		`INSERT INTO notifications (type, title, body, payload, created_at, shown)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		string(n.Type), n.Title, n.Body, string(payload), n.CreatedAt.Unix(), n.Shown,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// ListPendingNotifications returns unshown notifications, oldest first
// so the UI replays them in emission order.
func (d *DB) ListPendingNotifications(limit int) ([]domain.Notification, error) {
	rows, err := d.db.Query(
		`SELECT id, type, title, body, payload, created_at, shown
		 FROM notifications WHERE shown = 0 ORDER BY id ASC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifs []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var payload string
		var createdAt int64
		if err := rows.Scan(&n.ID, &n.Type, &n.Title, &n.Body, &payload, &createdAt, &n.Shown); err != nil {
			return nil, err
		}
		n.CreatedAt = time.Unix(createdAt, 0)

		var p notifPayload
		if err := json.Unmarshal([]byte(payload), &p); err == nil {
			n.NewLevel = p.NewLevel
			n.XPGained = p.XPGained
			n.BadgeID = p.BadgeID
			n.BadgeName = p.BadgeName
			n.BadgeIcon = p.BadgeIcon
			n.QuestTitle = p.QuestTitle
			n.XPReward = p.XPReward
			n.TaskEarly = p.TaskEarly
		}
		notifs = append(notifs, n)
	}
	return notifs, rows.Err()
}

// MarkNotificationShown marks a notification as shown.
func (d *DB) MarkNotificationShown(id int64) error {
	_, err := d.db.Exec(`UPDATE notifications SET shown = 1 WHERE id = ?`, id)
	return err
}
