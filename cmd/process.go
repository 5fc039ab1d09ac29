// =============================================================================
// Basket Enricher - Process Command
// =============================================================================
//
// This file defines the 'process' command, which runs one enrichment batch.
//
// COMMAND USAGE:
//   enricher process [flags]
//
// FLAGS:
//   --customers_location    : Customer source (.csv or .xlsx)
//   --products_location     : Product source (.csv or .xlsx)
//   --transactions_location : Root of the transaction tree
//   --output_location       : Output directory (created if absent)
//   --report_location       : Directory for the run summary and error log
//   --max_concurrency       : Goroutines used to build the frequency index
//   --log_level             : debug, info, warn or error
//
// EXIT STATUS:
//   0 on success, even when malformed transaction lines were skipped.
//   1 when reference data, transaction files or the output cannot be handled.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"

	"github.com/ginjaninja78/basket-enricher/internal/config"
	"github.com/ginjaninja78/basket-enricher/internal/logger"
	"github.com/ginjaninja78/basket-enricher/internal/pipeline"
	"github.com/spf13/cobra"
)

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Enrich transactions and write the output file",
	Long: `The process command loads the customer and product reference data, loads
every transactions file under the transactions location, and writes one
enriched JSON record per basket line to the output location.

Reference data is loaded strictly: a missing column, missing field or
non-integer loyalty score stops the run. Transaction lines that are not
valid JSON objects are logged and skipped; the run still succeeds.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		required := cmd.Flags().Changed("config")
		return runProcess(cmd.OutOrStdout(), required)
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(processCmd)

	flags := processCmd.Flags()
	flags.String(config.KeyCustomersLocation, "", "Path to the customer source (.csv or .xlsx)")
	flags.String(config.KeyProductsLocation, "", "Path to the product source (.csv or .xlsx)")
	flags.String(config.KeyTransactionsLocation, "", "Path to the transaction root directory")
	flags.String(config.KeyOutputLocation, "", "Path to the output directory")
	flags.String(config.KeyReportLocation, "", "Directory for the run summary and error log")
	flags.Int(config.KeyMaxConcurrency, 1, "Goroutines used to build the purchase-frequency index")
	flags.String(config.KeyLogLevel, "info", "Log level: debug, info, warn, error")

	// Only flags the user actually set override file and environment values.
	for _, key := range []string{
		config.KeyCustomersLocation,
		config.KeyProductsLocation,
		config.KeyTransactionsLocation,
		config.KeyOutputLocation,
		config.KeyReportLocation,
		config.KeyMaxConcurrency,
		config.KeyLogLevel,
	} {
		if err := v.BindPFlag(key, flags.Lookup(key)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", key, err))
		}
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runProcess resolves the configuration and runs the pipeline.
func runProcess(out io.Writer, configRequired bool) error {
	cfg, err := config.Load(v, cfgFile, configRequired)
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}

	log, err := logger.New(level)
	if err != nil {
		return err
	}
	defer log.Sync()

	result, err := pipeline.New(cfg, log).Run()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "=== Basket Enricher ===")
	fmt.Fprintf(out, "Run ID:            %s\n", result.RunID)
	fmt.Fprintf(out, "Transaction files: %d\n", result.Stats.TransactionFiles)
	fmt.Fprintf(out, "Transactions:      %d\n", result.Stats.Transactions)
	fmt.Fprintf(out, "Skipped lines:     %d\n", result.Stats.SkippedLines)
	fmt.Fprintf(out, "Records written:   %d\n", result.Stats.RecordsWritten)
	fmt.Fprintf(out, "Output:            %s\n", result.OutputFile)
	fmt.Fprintf(out, "Time elapsed:      %s\n", result.Stats.ProcessingTime)
	if result.SummaryFile != "" {
		fmt.Fprintf(out, "Summary:           %s\n", result.SummaryFile)
	}

	return nil
}
