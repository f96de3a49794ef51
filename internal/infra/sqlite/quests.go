package sqlite

import (
	"database/sql"

	"github.com/questify-app/questify/internal/domain"
)

// ─── Quests ─────────────────────────────────────────────────────────────────

// InsertQuest creates a new daily quest row.
func (d *DB) InsertQuest(q domain.DailyQuest) error {
	_, err := d.db.Exec(
		`INSERT INTO quests (id, type, title, description, target, progress, xp_reward, completed, date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID, string(q.Type), q.Title, q.Description, q.Target, q.Progress,
		q.XPReward, q.Completed, q.Date,
	)
	return err
}

// UpdateQuest writes back a quest's progress and completion state.
func (d *DB) UpdateQuest(q domain.DailyQuest) error {
	_, err := d.db.Exec(
		`UPDATE quests SET progress = ?, completed = ? WHERE id = ?`,
		q.Progress, q.Completed, q.ID,
	)
	return err
}

// ListQuests returns all quests, oldest day first, in insertion order
// within a day.
func (d *DB) ListQuests() ([]domain.DailyQuest, error) {
	rows, err := d.db.Query(
		`SELECT id, type, title, description, target, progress, xp_reward, completed, date
		 FROM quests ORDER BY date ASC, id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quests []domain.DailyQuest
	for rows.Next() {
		q, err := scanQuest(rows)
		if err != nil {
			return nil, err
		}
		quests = append(quests, *q)
	}
	return quests, rows.Err()
}

// ListQuestsForDate returns the quests generated for one calendar day.
func (d *DB) ListQuestsForDate(date string) ([]domain.DailyQuest, error) {
	rows, err := d.db.Query(
		`SELECT id, type, title, description, target, progress, xp_reward, completed, date
		 FROM quests WHERE date = ? ORDER BY id ASC`, date,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quests []domain.DailyQuest
	for rows.Next() {
		q, err := scanQuest(rows)
		if err != nil {
			return nil, err
		}
		quests = append(quests, *q)
	}
	return quests, rows.Err()
}

func scanQuest(s scanner) (*domain.DailyQuest, error) {
	var q domain.DailyQuest
	err := s.Scan(&q.ID, &q.Type, &q.Title, &q.Description, &q.Target,
		&q.Progress, &q.XPReward, &q.Completed, &q.Date)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}
