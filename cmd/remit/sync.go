package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/remit-engine/pkg/cron"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sweep the report directory once",
	Args:  cobra.NoArgs,
	RunE: withDependencies(func(deps *Dependencies, cmd *cobra.Command, _ []string) error {
		summary, err := deps.Syncer.Sync(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Processed %d, skipped %d, failed %d (%d transactions)\n",
			summary.Processed, summary.Skipped, summary.Failed, summary.Transactions)
		return nil
	}),
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the sync on a schedule until interrupted",
	Args:  cobra.NoArgs,
	RunE: withDependencies(func(deps *Dependencies, cmd *cobra.Command, _ []string) error {
		timeout := time.Duration(deps.Config.Sync.TimeoutMinutes) * time.Minute
		scheduler := cron.NewScheduler(deps.Syncer, deps.Config.Sync.Schedule, timeout, deps.Logger)
		if err := scheduler.Start(); err != nil {
			return err
		}
		scheduler.RunNow()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		select {
		case <-stop:
		case <-cmd.Context().Done():
		}

		<-scheduler.Stop().Done()
		return nil
	}),
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index document counts",
	Args:  cobra.NoArgs,
	RunE: withDependencies(func(deps *Dependencies, cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		master, err := deps.MasterIndex.Count(ctx)
		if err != nil {
			return err
		}
		filtered, err := deps.FilteredIndex.Count(ctx)
		if err != nil {
			return err
		}
		reports, err := deps.ReportIndex.Count(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Master transactions: %d\n", master)
		fmt.Fprintf(cmd.OutOrStdout(), "Filtered transactions: %d\n", filtered)
		fmt.Fprintf(cmd.OutOrStdout(), "AlignRx reports: %d\n", reports)
		fmt.Fprintf(cmd.OutOrStdout(), "Processed files: %d\n", deps.Registry.Len())
		return nil
	}),
}

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Query the master transaction index",
	Long:  `Runs a query string search, e.g. 'trace_number:ABC123' or 'originator:bcbs'.`,
	Args:  cobra.ExactArgs(1),
	RunE: withDependencies(func(deps *Dependencies, cmd *cobra.Command, args []string) error {
		res, err := deps.MasterIndex.Search(cmd.Context(), args[0], searchLimit)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d matches\n", res.Total)
		for _, hit := range res.Hits {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s  trace=%v amount=%v file=%v\n",
				hit.ID, hit.Fields["trace_number"], hit.Fields["amount"], hit.Fields["file_name"])
		}
		return nil
	}),
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "maximum hits to print")
	rootCmd.AddCommand(syncCmd, watchCmd, statsCmd, searchCmd)
}
