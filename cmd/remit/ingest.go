package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	alignrxservice "github.com/FACorreiaa/remit-engine/internal/domain/alignrx/service"
	ediservice "github.com/FACorreiaa/remit-engine/internal/domain/edi/service"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest a single report file",
}

var ingestEDICmd = &cobra.Command{
	Use:   "edi <file.pdf>",
	Short: "Ingest one EDI remittance PDF",
	Args:  cobra.ExactArgs(1),
	RunE: withDependencies(func(deps *Dependencies, cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		summary, err := deps.EDIService.IngestFile(cmd.Context(), filepath.Base(args[0]), raw)
		var dup *ediservice.DuplicateError
		if errors.As(err, &dup) {
			fmt.Fprintf(cmd.OutOrStdout(), "Skipped: %s\n", dup)
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Ingested %s: %d transactions, %d filtered\n",
			summary.FileName, summary.TransactionCount, summary.FilteredCount)
		if summary.FilteredSkipped {
			fmt.Fprintln(cmd.OutOrStdout(), "Filtered upload withheld: trace already indexed")
		}
		return nil
	}),
}

var ingestAlignRxCmd = &cobra.Command{
	Use:   "alignrx <file.xlsx>",
	Short: "Ingest one AlignRx central-pay spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: withDependencies(func(deps *Dependencies, cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		report, err := deps.AlignRxService.IngestReport(cmd.Context(), filepath.Base(args[0]), raw)
		var dup *alignrxservice.DuplicateError
		if errors.As(err, &dup) {
			fmt.Fprintf(cmd.OutOrStdout(), "Skipped: %s\n", dup)
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Ingested %s: %s to %s, %d central payments\n",
			report.SourceFile, report.Date, report.Destination, len(report.CentralPayments))
		return nil
	}),
}

func init() {
	ingestCmd.AddCommand(ingestEDICmd, ingestAlignRxCmd)
	rootCmd.AddCommand(ingestCmd)
}
