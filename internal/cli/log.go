package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/questify-app/questify/internal/app/gamify"
)

func init() {
	logTaskCmd.Flags().StringVar(&logDueDate, "due", "", "Task due date (YYYY-MM-DD)")
	logStudyCmd.Flags().IntVar(&logMinutes, "minutes", 25, "Session length in minutes")
	logScheduleCmd.Flags().IntVar(&logSlots, "slots", 0, "Total schedule blocks after this addition")
	logScheduleCmd.Flags().IntVar(&logDays, "days", 0, "Distinct weekdays the schedule covers")
	logCourseCmd.Flags().IntVar(&logCourses, "total", 1, "Total courses after this addition")
	logGradeCmd.Flags().IntVar(&logGraded, "count", 1, "Total graded assignments")
	logGradeCmd.Flags().Float64Var(&logGPA, "gpa", 0, "Recomputed grade average")

	logCmd.AddCommand(logTaskCmd)
	logCmd.AddCommand(logStudyCmd)
	logCmd.AddCommand(logClassCmd)
	logCmd.AddCommand(logScheduleCmd)
	logCmd.AddCommand(logBlockDoneCmd)
	logCmd.AddCommand(logPerfectWeekCmd)
	logCmd.AddCommand(logCourseCmd)
	logCmd.AddCommand(logGradeCmd)
	logCmd.AddCommand(logLoginCmd)
	rootCmd.AddCommand(logCmd)
}

var (
	logDueDate string
	logMinutes int
	logSlots   int
	logDays    int
	logCourses int
	logGraded  int
	logGPA     float64
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Log a rewardable event",
}

var logTaskCmd = &cobra.Command{
	Use:   "task",
	Short: "Log a completed task",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(e *gamify.Engine) error {
			return e.CompleteTask(logDueDate)
		})
	},
}

var logStudyCmd = &cobra.Command{
	Use:   "study",
	Short: "Log a study session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(e *gamify.Engine) error {
			return e.LogStudySession(logMinutes)
		})
	},
}

var logClassCmd = &cobra.Command{
	Use:   "class",
	Short: "Log an attended class",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(e *gamify.Engine) error {
			return e.AttendClass()
		})
	},
}

var logScheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Log a newly added schedule block",
	RunE: func(cmd *cobra.Command, args []string) error {
		if logSlots <= 0 {
			return fmt.Errorf("--slots must be positive")
		}
		return withEngine(func(e *gamify.Engine) error {
			return e.AddScheduleBlock(logSlots, logDays)
		})
	},
}

var logBlockDoneCmd = &cobra.Command{
	Use:   "block-done",
	Short: "Log a scheduled block checked off",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(e *gamify.Engine) error {
			return e.CompleteScheduleBlock()
		})
	},
}

var logPerfectWeekCmd = &cobra.Command{
	Use:   "perfect-week",
	Short: "Log a week with every scheduled block completed",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(e *gamify.Engine) error {
			return e.RecordPerfectWeek()
		})
	},
}

var logCourseCmd = &cobra.Command{
	Use:   "course",
	Short: "Log an added course",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(e *gamify.Engine) error {
			return e.AddCourse(logCourses)
		})
	},
}

var logGradeCmd = &cobra.Command{
	Use:   "grade",
	Short: "Log a newly graded assignment",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(e *gamify.Engine) error {
			return e.EnterGrade(logGraded, logGPA)
		})
	},
}

var logLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log the first activity of the day",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(e *gamify.Engine) error {
			return e.DailyLogin()
		})
	},
}
