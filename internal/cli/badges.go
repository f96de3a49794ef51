package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	badgesCmd.Flags().BoolVar(&badgesAll, "all", false, "Include locked badges")
	rootCmd.AddCommand(badgesCmd)
}

var badgesAll bool

var badgesCmd = &cobra.Command{
	Use:   "badges",
	Short: "Show unlocked badges",
	RunE:  runBadges,
}

func runBadges(cmd *cobra.Command, args []string) error {
	engine, closer, err := openEngine()
	if err != nil {
		return err
	}
	defer closer()

	badges := engine.Badges()
	unlocked := 0
	for _, b := range badges {
		if b.Unlocked {
			unlocked++
		}
	}
	fmt.Printf("Badges: %d / %d unlocked\n\n", unlocked, len(badges))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BADGE\tRARITY\tPROGRESS\tUNLOCKED")
	for _, b := range badges {
		if !b.Unlocked && !badgesAll {
			continue
		}
		progress := "-"
		if b.MaxProgress > 0 {
			progress = fmt.Sprintf("%d/%d", b.Progress, b.MaxProgress)
		}
		when := ""
		if b.Unlocked && b.UnlockedAt != nil {
			when = b.UnlockedAt.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%s %s\t%s\t%s\t%s\n", b.Icon, b.Name, b.Rarity, progress, when)
	}
	return w.Flush()
}
