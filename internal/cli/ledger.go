package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	ledgerCmd.Flags().IntVar(&ledgerLimit, "limit", 20, "Number of entries to show")
	rootCmd.AddCommand(ledgerCmd)
}

var ledgerLimit int

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Show recent XP grants",
	RunE:  runLedger,
}

func runLedger(cmd *cobra.Command, args []string) error {
	engine, closer, err := openEngine()
	if err != nil {
		return err
	}
	defer closer()

	entries, err := engine.Ledger(ledgerLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No XP earned yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tSOURCE\tXP\tTOTAL")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t+%d\t%d\n",
			e.Timestamp.Format("2006-01-02 15:04"), e.Source, e.Amount, e.TotalAfter)
	}
	return w.Flush()
}
