package cli

import (
	"fmt"

	"github.com/questify-app/questify/internal/app/gamify"
	"github.com/questify-app/questify/internal/daemon"
	"github.com/questify-app/questify/internal/infra/sqlite"
)

// openEngine opens the local store and builds an engine with a terminal
// notification sink. The caller must invoke the returned closer.
func openEngine() (*gamify.Engine, func(), error) {
	cfg, err := daemon.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	db, err := sqlite.Open(cfg.Storage.Dir)
	if err != nil {
		return nil, nil, err
	}

	engine, err := gamify.New(db, termNotifier{})
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	engine.SetQuestsPerDay(cfg.Gamification.DailyQuestCount)

	return engine, func() { db.Close() }, nil
}

// withEngine opens the engine, runs fn, and closes the store.
func withEngine(fn func(*gamify.Engine) error) error {
	engine, closer, err := openEngine()
	if err != nil {
		return err
	}
	defer closer()
	return fn(engine)
}

// termNotifier prints notifications straight to the terminal, so CLI
// event logging gives the same feedback the dashboard would show.
type termNotifier struct{}

func (termNotifier) ShowLevelUpNotification(level, xpGained int) {
	fmt.Printf("🎉 Level up! You reached level %d (+%d XP)\n", level, xpGained)
}

func (termNotifier) ShowBadgeNotification(name, icon, id string) {
	fmt.Printf("🏅 Badge unlocked: %s %s\n", icon, name)
}

func (termNotifier) ShowQuestCompletedNotification(title string, xpReward int) {
	fmt.Printf("⚡ Quest complete: %s (+%d XP)\n", title, xpReward)
}

func (termNotifier) ShowTaskCompletedNotification(xpReward int, early bool) {
	if early {
		fmt.Printf("✅ Task done early! (+%d XP)\n", xpReward)
		return
	}
	fmt.Printf("✅ Task done (+%d XP)\n", xpReward)
}
