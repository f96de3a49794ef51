package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/questify-app/questify/internal/domain"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show your level, XP, and streaks",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	engine, closer, err := openEngine()
	if err != nil {
		return err
	}
	defer closer()

	s := engine.Stats()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Level\t%d\n", s.Level())
	fmt.Fprintf(w, "XP\t%d / %d (lifetime %d)\n", s.XPWithinLevel(), domain.XPPerLevel, s.TotalXP)
	fmt.Fprintf(w, "Streak\t%d days", s.EffectiveStreak())
	if s.StreakFreeze.Active {
		fmt.Fprintf(w, " (frozen: %s)", s.StreakFreeze.Reason)
	}
	fmt.Fprintf(w, "\tlongest %d\n", s.LongestStreak)
	fmt.Fprintf(w, "Attendance\t%d days", s.EffectiveAttendanceStreak())
	if s.AttendanceFreeze.Active {
		fmt.Fprintf(w, " (frozen: %s)", s.AttendanceFreeze.Reason)
	}
	fmt.Fprintf(w, "\tlongest %d\n", s.LongestAttendanceStreak)
	fmt.Fprintf(w, "Tasks\t%d completed (%d early)\n", s.TasksCompleted, s.TasksCompletedEarly)
	fmt.Fprintf(w, "Study\t%.1f hours\n", s.StudyHours)
	fmt.Fprintf(w, "Classes\t%d attended\n", s.ClassesAttended)
	fmt.Fprintf(w, "Quests\t%d completed\n", s.QuestsCompleted)
	return w.Flush()
}
