// Package cli implements the Questify command-line interface using
// Cobra. Each subcommand maps to one engine capability (stats, badges,
// quests, streaks, event logging).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "questify",
	Short: "Questify — Gamify your academic life",
	Long: `Questify is a gamification engine for academic productivity.
Earn XP for tasks, study sessions, and attendance; keep streaks alive,
unlock badges, and clear daily quests — all stored locally.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
