package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kidcalc/internal/calculator"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(evalCmd)
}

var evalCmd = &cobra.Command{
	Use:   "eval <expression>",
	Short: "Evaluate an expression and add it to history",
	Example: `  kidcalc eval "12 × (3 + 4)"
  kidcalc eval 200 ÷ 8`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEval,
}

func runEval(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	opts, err := a.sessionOptions()
	if err != nil {
		return err
	}
	ctx := context.Background()
	sess := a.newSession(ctx, opts)
	defer sess.Close(ctx)

	expr := strings.Join(args, " ")
	c, err := sess.EvaluateAndStore(ctx, expr)
	if err != nil {
		if calculator.IsCalculationError(err) {
			return errors.New(calculator.FriendlyMessage(err))
		}
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), calculator.FormatNumber(c.Result))
	return nil
}
