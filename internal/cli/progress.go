package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"kidcalc/internal/gamification"

	"github.com/spf13/cobra"
)

func init() {
	progressCmd.AddCommand(progressResetCmd, progressUnlockCmd)
	rootCmd.AddCommand(progressCmd)
}

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show points, level, streak and achievements",
	Args:  cobra.NoArgs,
	RunE:  runProgress,
}

var progressResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase all progress and the event log",
	Args:  cobra.NoArgs,
	RunE:  runProgressReset,
}

var progressUnlockCmd = &cobra.Command{
	Use:   "unlock <KEY>",
	Short: "Unlock an achievement by key (e.g. TEN_CALC)",
	Args:  cobra.ExactArgs(1),
	RunE:  runProgressUnlock,
}

// loadEngine opens the app and restores the stored progress.
func loadEngine(ctx context.Context) (*app, *gamification.Engine, error) {
	a, err := openApp()
	if err != nil {
		return nil, nil, err
	}
	e := gamification.New(a.store)
	if err := e.Load(ctx); err != nil {
		a.Close()
		return nil, nil, err
	}
	return a, e, nil
}

func runProgress(cmd *cobra.Command, args []string) error {
	a, e, err := loadEngine(context.Background())
	if err != nil {
		return err
	}
	defer a.Close()

	printProgress(cmd.OutOrStdout(), e.Progress())
	return nil
}

func printProgress(out io.Writer, p gamification.Progress) {
	fmt.Fprintf(out, "Level %d  (%d points, %d to next level)\n",
		p.Level(), p.Points, gamification.PointsToNextLevel(p.Points))
	fmt.Fprintf(out, "Streak: %d day(s)\n", p.Streak)
	fmt.Fprintln(out, "Achievements:")
	for _, a := range gamification.Catalog() {
		mark := " "
		if p.Has(a.Key) {
			mark = "x"
		}
		fmt.Fprintf(out, "  [%s] %-15s %-22s %3d pts  %s\n", mark, a.Key, a.Name, a.Points, a.Description)
	}
}

func runProgressReset(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, e, err := loadEngine(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	e.ResetProgress(ctx)
	fmt.Fprintln(cmd.OutOrStdout(), "Progress reset.")
	return nil
}

func runProgressUnlock(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	key := gamification.AchievementKey(strings.ToUpper(args[0]))
	achievement, ok := gamification.Lookup(key)
	if !ok {
		return fmt.Errorf("unknown achievement %q", args[0])
	}

	a, e, err := loadEngine(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	if !e.UnlockAchievement(key, "unlocked from the command line") {
		fmt.Fprintf(out, "%s is already unlocked.\n", achievement.Name)
		return nil
	}
	if err := e.Save(ctx); err != nil {
		return err
	}
	fmt.Fprintf(out, "Unlocked %s (+%d points). Now level %d.\n",
		achievement.Name, achievement.Points, e.Progress().Level())
	return nil
}
