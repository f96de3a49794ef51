package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	questsCmd.Flags().BoolVar(&questsAll, "all", false, "Show quests from every day")
	questsCmd.AddCommand(questsGenerateCmd)
	questsCmd.AddCommand(questsCompleteCmd)
	rootCmd.AddCommand(questsCmd)
}

var questsAll bool

var questsCmd = &cobra.Command{
	Use:   "quests",
	Short: "Show today's daily quests",
	RunE:  runQuests,
}

var questsGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate today's quest set (no-op if it exists)",
	RunE:  runQuestsGenerate,
}

var questsCompleteCmd = &cobra.Command{
	Use:   "complete <id>",
	Short: "Force-complete a quest by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuestsComplete,
}

func runQuests(cmd *cobra.Command, args []string) error {
	engine, closer, err := openEngine()
	if err != nil {
		return err
	}
	defer closer()

	quests := engine.TodayQuests()
	if questsAll {
		quests = engine.AllQuests()
	}
	if len(quests) == 0 {
		fmt.Println("No quests yet. Run 'questify quests generate'.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tQUEST\tPROGRESS\tREWARD\tSTATUS")
	for _, q := range quests {
		status := "open"
		if q.Completed {
			status = "done"
		}
		fmt.Fprintf(w, "%s\t%s\t%.1f/%.1f (%.0f%%)\t%d XP\t%s\n",
			q.ID, q.Title, q.Progress, q.Target, q.ProgressPct(), q.XPReward, status)
	}
	return w.Flush()
}

func runQuestsGenerate(cmd *cobra.Command, args []string) error {
	engine, closer, err := openEngine()
	if err != nil {
		return err
	}
	defer closer()

	quests, err := engine.GenerateDailyQuests()
	if err != nil {
		return err
	}
	fmt.Printf("Today's quests (%d):\n", len(quests))
	for _, q := range quests {
		fmt.Printf("  %s — %s (+%d XP)\n", q.Title, q.Description, q.XPReward)
	}
	return nil
}

func runQuestsComplete(cmd *cobra.Command, args []string) error {
	engine, closer, err := openEngine()
	if err != nil {
		return err
	}
	defer closer()

	return engine.CompleteQuest(args[0])
}
