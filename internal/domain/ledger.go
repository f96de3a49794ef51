package domain

import "time"

// XPSource categorizes how XP was earned.
type XPSource string

const (
	XPTaskCompleted   XPSource = "task_completed"
	XPStudySession    XPSource = "study_session"
	XPClassAttended   XPSource = "class_attended"
	XPScheduleBlock   XPSource = "schedule_block"
	XPScheduleSetup   XPSource = "schedule_setup"
	XPCourseAdded     XPSource = "course_added"
	XPGradeEntered    XPSource = "grade_entered"
	XPDailyLogin      XPSource = "daily_login"
	XPQuestCompleted  XPSource = "quest_completed"
	XPManualAdjust    XPSource = "manual_adjust"
)

// LedgerEntry is one row of the XP audit trail. Append-only; the ledger
// is never read back to compute state.
type LedgerEntry struct {
	ID         string    `json:"id"` // uuid
	Timestamp  time.Time `json:"timestamp"`
	Source     XPSource  `json:"source"`
	Amount     int       `json:"amount"`
	TotalAfter int       `json:"total_after"` // lifetime XP after this grant
}
