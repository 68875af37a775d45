// Package cli implements the kidcalc command line with Cobra. The same
// binary serves the HTTP API and offers local commands over the store.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	dataDir    string
)

var rootCmd = &cobra.Command{
	Use:   "kidcalc",
	Short: "kidcalc: a calculator that keeps score",
	Long: `kidcalc is a children's calculator with points, levels, streaks and
achievements. Run "kidcalc serve" for the HTTP API or "kidcalc play" to use it
in the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $KIDCALC_HOME/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (overrides config)")
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
