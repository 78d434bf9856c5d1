// Command remit ingests EDI and AlignRx remittance reports into the search
// indexes, either one file at a time or by sweeping the drop directory.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/joho/godotenv/autoload"

	"github.com/FACorreiaa/remit-engine/pkg/config"
)

var rootCmd = &cobra.Command{
	Use:           "remit",
	Short:         "Remittance report extraction engine",
	Long:          "Extracts payment transactions from EDI PDF reports and AlignRx spreadsheets and indexes them for search and duplicate detection.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// withDependencies loads config, wires everything, runs fn, and cleans up.
func withDependencies(fn func(deps *Dependencies, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger := newLogger(cfg.LogLevel)

		deps, err := InitDependencies(cfg, logger)
		if err != nil {
			return err
		}
		defer deps.Cleanup()

		return fn(deps, cmd, args)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
