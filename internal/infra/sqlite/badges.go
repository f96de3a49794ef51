package sqlite

import (
	"database/sql"
	"time"
)

// BadgeState is the persisted slice of a badge: progress and unlock
// state only. Display metadata comes from the in-code catalog.
type BadgeState struct {
	ID         string
	Progress   int
	Unlocked   bool
	UnlockedAt *time.Time
}

// UpsertBadge writes one badge's progress and unlock state.
func (d *DB) UpsertBadge(b BadgeState) error {
	_, err := d.db.Exec(
		`INSERT INTO badges (id, progress, unlocked, unlocked_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			progress=excluded.progress,
			unlocked=excluded.unlocked,
			unlocked_at=excluded.unlocked_at`,
		b.ID, b.Progress, b.Unlocked, nullableUnix(b.UnlockedAt),
	)
	return err
}

// LoadBadgeStates returns all stored badge states keyed by id. Stored
// entries whose id is no longer in the catalog are simply left behind;
// the load-time merge only looks up catalog ids.
func (d *DB) LoadBadgeStates() (map[string]BadgeState, error) {
	rows, err := d.db.Query(`SELECT id, progress, unlocked, unlocked_at FROM badges`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	states := make(map[string]BadgeState)
	for rows.Next() {
		var b BadgeState
		var unlockedAt sql.NullInt64
		if err := rows.Scan(&b.ID, &b.Progress, &b.Unlocked, &unlockedAt); err != nil {
			return nil, err
		}
		if unlockedAt.Valid {
			t := time.Unix(unlockedAt.Int64, 0)
			b.UnlockedAt = &t
		}
		states[b.ID] = b
	}
	return states, rows.Err()
}

// UnlockedBadgeCount returns how many badges are unlocked.
func (d *DB) UnlockedBadgeCount() (int, error) {
	var count int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM badges WHERE unlocked = 1`).Scan(&count)
	return count, err
}

func nullableUnix(t *time.Time) sql.NullInt64 {
	if t == nil || t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}
