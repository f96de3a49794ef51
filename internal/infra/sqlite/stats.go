package sqlite

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/questify-app/questify/internal/domain"
)

// ─── Stats Key-Value ────────────────────────────────────────────────────────

// SetStat stores one stats key-value pair.
func (d *DB) SetStat(key, value string) error {
	_, err := d.db.Exec(
		`INSERT INTO stats (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		key, value,
	)
	return err
}

// GetStat retrieves a stats value by key. Returns "" if not found.
func (d *DB) GetStat(key string) (string, error) {
	var value string
	err := d.db.QueryRow(`SELECT value FROM stats WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SaveStats persists every scalar field of UserStats to the KV table.
func (d *DB) SaveStats(s domain.UserStats) error {
	pairs := map[string]string{
		"total_xp":                  strconv.Itoa(s.TotalXP),
		"streak_days":               strconv.Itoa(s.StreakDays),
		"longest_streak":            strconv.Itoa(s.LongestStreak),
		"last_active_date":          s.LastActiveDate,
		"attendance_streak":         strconv.Itoa(s.AttendanceStreak),
		"longest_attendance_streak": strconv.Itoa(s.LongestAttendanceStreak),
		"last_attendance_date":      s.LastAttendanceDate,
		"tasks_completed":           strconv.Itoa(s.TasksCompleted),
		"tasks_completed_early":     strconv.Itoa(s.TasksCompletedEarly),
		"study_hours":               strconv.FormatFloat(s.StudyHours, 'f', -1, 64),
		"schedule_blocks_completed": strconv.Itoa(s.ScheduleBlocksCompleted),
		"perfect_weeks":             strconv.Itoa(s.PerfectWeeks),
		"classes_attended":          strconv.Itoa(s.ClassesAttended),
		"quests_completed":          strconv.Itoa(s.QuestsCompleted),
		"courses_planned":           strconv.Itoa(s.CoursesPlanned),
		"schedule_slots":            strconv.Itoa(s.ScheduleSlots),
		"schedule_days":             strconv.Itoa(s.ScheduleDays),
		"schedule_setup_rewarded":   boolStr(s.ScheduleSetupRewarded),
		"graded_assignments":        strconv.Itoa(s.GradedAssignments),
		"gpa":                       strconv.FormatFloat(s.GPA, 'f', -1, 64),

		"freeze_active":      boolStr(s.StreakFreeze.Active),
		"freeze_start":       s.StreakFreeze.StartDate,
		"freeze_end":         s.StreakFreeze.EndDate,
		"freeze_reason":      s.StreakFreeze.Reason,
		"freeze_frozen_days": strconv.Itoa(s.StreakFreeze.FrozenDays),

		"att_freeze_active":      boolStr(s.AttendanceFreeze.Active),
		"att_freeze_start":       s.AttendanceFreeze.StartDate,
		"att_freeze_end":         s.AttendanceFreeze.EndDate,
		"att_freeze_reason":      s.AttendanceFreeze.Reason,
		"att_freeze_frozen_days": strconv.Itoa(s.AttendanceFreeze.FrozenDays),
	}
	for k, v := range pairs {
		if err := d.SetStat(k, v); err != nil {
			return fmt.Errorf("save %s: %w", k, err)
		}
	}
	return nil
}

// LoadStats reads UserStats back from the KV table. Missing keys load as
// zero values, so a fresh database yields default stats.
func (d *DB) LoadStats() (domain.UserStats, error) {
	rows, err := d.db.Query(`SELECT key, value FROM stats`)
	if err != nil {
		return domain.UserStats{}, err
	}
	defer rows.Close()

	kv := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return domain.UserStats{}, err
		}
		kv[k] = v
	}
	if err := rows.Err(); err != nil {
		return domain.UserStats{}, err
	}

	s := domain.UserStats{
		TotalXP:                 atoi(kv["total_xp"]),
		StreakDays:              atoi(kv["streak_days"]),
		LongestStreak:           atoi(kv["longest_streak"]),
		LastActiveDate:          kv["last_active_date"],
		AttendanceStreak:        atoi(kv["attendance_streak"]),
		LongestAttendanceStreak: atoi(kv["longest_attendance_streak"]),
		LastAttendanceDate:      kv["last_attendance_date"],
		TasksCompleted:          atoi(kv["tasks_completed"]),
		TasksCompletedEarly:     atoi(kv["tasks_completed_early"]),
		StudyHours:              atof(kv["study_hours"]),
		ScheduleBlocksCompleted: atoi(kv["schedule_blocks_completed"]),
		PerfectWeeks:            atoi(kv["perfect_weeks"]),
		ClassesAttended:         atoi(kv["classes_attended"]),
		QuestsCompleted:         atoi(kv["quests_completed"]),
		CoursesPlanned:          atoi(kv["courses_planned"]),
		ScheduleSlots:           atoi(kv["schedule_slots"]),
		ScheduleDays:            atoi(kv["schedule_days"]),
		ScheduleSetupRewarded:   kv["schedule_setup_rewarded"] == "1",
		GradedAssignments:       atoi(kv["graded_assignments"]),
		GPA:                     atof(kv["gpa"]),
		StreakFreeze: domain.FreezeState{
			Active:     kv["freeze_active"] == "1",
			StartDate:  kv["freeze_start"],
			EndDate:    kv["freeze_end"],
			Reason:     kv["freeze_reason"],
			FrozenDays: atoi(kv["freeze_frozen_days"]),
		},
		AttendanceFreeze: domain.FreezeState{
			Active:     kv["att_freeze_active"] == "1",
			StartDate:  kv["att_freeze_start"],
			EndDate:    kv["att_freeze_end"],
			Reason:     kv["att_freeze_reason"],
			FrozenDays: atoi(kv["att_freeze_frozen_days"]),
		},
	}
	return s, nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func atof(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func boolStr(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
