package sqlite

import (
	"time"

	"github.com/questify-app/questify/internal/domain"
)

// ─── XP Ledger ──────────────────────────────────────────────────────────────

// InsertLedgerEntry appends one XP grant to the audit trail.
func (d *DB) InsertLedgerEntry(e domain.LedgerEntry) error {
	_, err := d.db.Exec(
		`INSERT INTO xp_ledger (id, timestamp, source, amount, total_after)
		 VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Timestamp.Unix(), string(e.Source), e.Amount, e.TotalAfter,
	)
	return err
}

// ListLedgerEntries returns the most recent XP grants, newest first.
func (d *DB) ListLedgerEntries(limit int) ([]domain.LedgerEntry, error) {
	rows, err := d.db.Query(
		`SELECT id, timestamp, source, amount, total_after
		 FROM xp_ledger ORDER BY timestamp DESC, id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		var ts int64
		if err := rows.Scan(&e.ID, &ts, &e.Source, &e.Amount, &e.TotalAfter); err != nil {
			return nil, err
		}
		e.Timestamp = time.Unix(ts, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
