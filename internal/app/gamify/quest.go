package gamify

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/questify-app/questify/internal/domain"
	"github.com/questify-app/questify/internal/infra/metrics"
)

// questTemplates is the fixed daily quest pool: 6 templates across the
// 4 quest types. 3 are picked at random each calendar day.
var questTemplates = []domain.QuestTemplate{
	{Type: domain.QuestTask, Title: "Task Tamer", Description: "Complete 2 tasks today", Target: 2, XPReward: 40},
	{Type: domain.QuestTask, Title: "Checklist Champion", Description: "Complete 4 tasks today", Target: 4, XPReward: 70},
	{Type: domain.QuestStudy, Title: "Deep Focus", Description: "Log 1 hour of study", Target: 1, XPReward: 50},
	{Type: domain.QuestStudy, Title: "Study Marathon", Description: "Log 2 hours of study", Target: 2, XPReward: 90},
	{Type: domain.QuestSchedule, Title: "Planner's Touch", Description: "Add 2 blocks to your schedule", Target: 2, XPReward: 45},
	{Type: domain.QuestAcademic, Title: "Academic Edge", Description: "Update a course or record a grade", Target: 1, XPReward: 35},
}

// GenerateDailyQuests creates today's quest set: a random selection of 3
// templates. Idempotent per calendar day — if quests for today already
// exist, they are returned unchanged. Prior days' quests are never
// touched or pruned.
func (e *Engine) GenerateDailyQuests() ([]domain.DailyQuest, error) {
	return e.GenerateDailyQuestsAt(time.Now())
}

// GenerateDailyQuestsAt is GenerateDailyQuests with an explicit clock.
func (e *Engine) GenerateDailyQuestsAt(now time.Time) ([]domain.DailyQuest, error) {
	today := dayString(now)

	e.mu.Lock()
	defer e.mu.Unlock()

	if existing := e.questsForDayLocked(today); len(existing) > 0 {
		return existing, nil
	}

	r := rand.New(rand.NewSource(now.UnixNano()))
	shuffled := make([]domain.QuestTemplate, len(questTemplates))
	copy(shuffled, questTemplates)
	r.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	n := e.questsPerDay
	if n > len(shuffled) {
		n = len(shuffled)
	}

	var generated []domain.DailyQuest
	for i := 0; i < n; i++ {
		tmpl := shuffled[i]
		quest := domain.DailyQuest{
			ID:          fmt.Sprintf("%s-%d", today, i),
			Type:        tmpl.Type,
			Title:       tmpl.Title,
			Description: tmpl.Description,
			Target:      tmpl.Target,
			Progress:    0,
			XPReward:    tmpl.XPReward,
			Completed:   false,
			Date:        today,
		}
		if err := e.db.InsertQuest(quest); err != nil {
			return nil, fmt.Errorf("insert quest: %w", err)
		}
		e.quests = append(e.quests, quest)
		generated = append(generated, quest)
	}

	return generated, nil
}

// TodayQuests returns the quests generated for the current day.
func (e *Engine) TodayQuests() []domain.DailyQuest {
	return e.TodayQuestsAt(time.Now())
}

// TodayQuestsAt is TodayQuests with an explicit clock.
func (e *Engine) TodayQuestsAt(now time.Time) []domain.DailyQuest {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.questsForDayLocked(dayString(now))
}

// AllQuests returns every quest ever generated, oldest day first.
func (e *Engine) AllQuests() []domain.DailyQuest {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.DailyQuest, len(e.quests))
	copy(out, e.quests)
	return out
}

func (e *Engine) questsForDayLocked(date string) []domain.DailyQuest {
	var out []domain.DailyQuest
	for _, q := range e.quests {
		if q.Date == date {
			out = append(out, q)
		}
	}
	return out
}

// UpdateQuestProgress advances every incomplete quest of the given type
// belonging to today. Progress is clamped to the target; crossing the
// target completes the quest and grants its XP reward exactly once.
func (e *Engine) UpdateQuestProgress(questType domain.QuestType, amount float64) error {
	return e.UpdateQuestProgressAt(time.Now(), questType, amount)
}

// UpdateQuestProgressAt is UpdateQuestProgress with an explicit clock.
func (e *Engine) UpdateQuestProgressAt(now time.Time, questType domain.QuestType, amount float64) error {
	e.mu.Lock()
	err := e.updateQuestProgressLocked(now, questType, amount)
	if err == nil {
		err = e.saveStatsLocked()
	}
	queued, snap := e.takeQueuedLocked()
	e.mu.Unlock()

	e.afterCommit(snap, queued)
	return err
}

func (e *Engine) updateQuestProgressLocked(now time.Time, questType domain.QuestType, amount float64) error {
	today := dayString(now)

	for i := range e.quests {
		q := &e.quests[i]
		if q.Date != today || q.Type != questType || q.Completed {
			continue
		}

		q.Progress += amount
		if q.Progress > q.Target {
			q.Progress = q.Target
		}

		if q.Progress >= q.Target {
			q.Completed = true
			e.stats.QuestsCompleted++
			metrics.QuestsCompleted.Inc()

			e.emitLocked(domain.Notification{
				Type:       domain.NotifyQuestCompleted,
				Title:      "Quest Complete!",
				Body:       fmt.Sprintf("%s (+%d XP)", q.Title, q.XPReward),
				CreatedAt:  now,
				QuestTitle: q.Title,
				XPReward:   q.XPReward,
			})
			if _, _, err := e.addXPLocked(now, q.XPReward, domain.XPQuestCompleted); err != nil {
				return err
			}
		}

		if err := e.db.UpdateQuest(*q); err != nil {
			return fmt.Errorf("save quest %s: %w", q.ID, err)
		}
	}
	return nil
}

// CompleteQuest force-completes one quest by id regardless of its date
// or progress. The XP reward still applies exactly once.
func (e *Engine) CompleteQuest(id string) error {
	return e.CompleteQuestAt(time.Now(), id)
}

// CompleteQuestAt is CompleteQuest with an explicit clock.
func (e *Engine) CompleteQuestAt(now time.Time, id string) error {
	e.mu.Lock()
	var err error
	found := false
	for i := range e.quests {
		q := &e.quests[i]
		if q.ID != id {
			continue
		}
		found = true
		if q.Completed {
			break
		}

		q.Progress = q.Target
		q.Completed = true
		e.stats.QuestsCompleted++
		metrics.QuestsCompleted.Inc()

		e.emitLocked(domain.Notification{
			Type:       domain.NotifyQuestCompleted,
			Title:      "Quest Complete!",
			Body:       fmt.Sprintf("%s (+%d XP)", q.Title, q.XPReward),
			CreatedAt:  now,
			QuestTitle: q.Title,
			XPReward:   q.XPReward,
		})
		if _, _, xpErr := e.addXPLocked(now, q.XPReward, domain.XPQuestCompleted); xpErr != nil {
			err = xpErr
			break
		}
		if dbErr := e.db.UpdateQuest(*q); dbErr != nil {
			err = fmt.Errorf("save quest %s: %w", q.ID, dbErr)
			break
		}
		if saveErr := e.saveStatsLocked(); saveErr != nil {
			err = saveErr
		}
		break
	}
	queued, snap := e.takeQueuedLocked()
	e.mu.Unlock()

	e.afterCommit(snap, queued)
	if !found {
		return fmt.Errorf("%w: %s", domain.ErrQuestNotFound, id)
	}
	return err
}
