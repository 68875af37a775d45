package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"kidcalc/internal/calculator"

	"github.com/spf13/cobra"
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "number of entries to show (default 10)")
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent calculations",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all stored calculations",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	list, err := a.store.RecentCalculations(context.Background(), historyLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(list) == 0 {
		fmt.Fprintln(out, "No calculations yet. Try 'kidcalc eval 2 + 2'.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tEXPRESSION\tRESULT")
	for _, c := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			c.Timestamp.Local().Format("2006-01-02 15:04"),
			c.Expression,
			calculator.FormatNumber(c.Result),
		)
	}
	return w.Flush()
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.store.ClearHistory(context.Background()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
	return nil
}
