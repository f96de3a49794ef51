package domain

// QuestType is the event category a daily quest listens for.
type QuestType string

const (
	QuestTask     QuestType = "task"
	QuestStudy    QuestType = "study"
	QuestSchedule QuestType = "schedule"
	QuestAcademic QuestType = "academic"
)

// DailyQuest is an ephemeral per-day instance generated from the quest
// template catalog. Progress is float-valued because study quests advance
// by fractional hours. Completed is monotonic; the XP reward is granted
// exactly once, at the false→true transition.
type DailyQuest struct {
	ID          string    `json:"id"` // {date}-{templateIndex}
	Type        QuestType `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Target      float64   `json:"target"`
	Progress    float64   `json:"progress"` // clamped to Target
	XPReward    int       `json:"xp_reward"`
	Completed   bool      `json:"completed"`
	Date        string    `json:"date"` // YYYY-MM-DD; only today's quests are progressed
}

// ProgressPct returns completion percentage (0-100).
func (q DailyQuest) ProgressPct() float64 {
	if q.Target <= 0 {
		return 100.0
	}
	pct := q.Progress / q.Target * 100.0
	if pct > 100.0 {
		pct = 100.0
	}
	return pct
}

// QuestTemplate defines one entry of the fixed daily quest pool.
type QuestTemplate struct {
	Type        QuestType `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Target      float64   `json:"target"`
	XPReward    int       `json:"xp_reward"`
}
