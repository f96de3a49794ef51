package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Wipe all gamification state",
	Long:  `Reset XP, streaks, badges, quests, and the XP ledger back to zero.`,
	RunE:  runReset,
}

func runReset(cmd *cobra.Command, args []string) error {
	if !resetYes {
		fmt.Print("This erases all progress. Type 'reset' to confirm: ")
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if strings.TrimSpace(line) != "reset" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	engine, closer, err := openEngine()
	if err != nil {
		return err
	}
	defer closer()

	if err := engine.Reset(); err != nil {
		return err
	}
	fmt.Println("All progress reset.")
	return nil
}
