// =============================================================================
// Basket Enricher - Pipeline Module
// =============================================================================
//
// This module runs one batch enrichment from inputs to output file.
//
// PIPELINE:
//   1. Load customer reference data        (fatal on error)
//   2. Load product reference data         (fatal on error)
//   3. Discover and load transaction files (bad lines skipped and reported)
//   4. Build the purchase-frequency index over every loaded transaction
//   5. Enrich every eligible basket line
//   6. Write the JSON Lines output file
//   7. Write the optional run report
//
// The pipeline is a sequential batch transform. The only concurrency is the
// optional parallel index build in step 4, which completes before step 5.
//
// =============================================================================

package pipeline

import (
	"fmt"
	"time"

	"github.com/ginjaninja78/basket-enricher/internal/config"
	"github.com/ginjaninja78/basket-enricher/internal/csvparser"
	"github.com/ginjaninja78/basket-enricher/internal/enrichment"
	"github.com/ginjaninja78/basket-enricher/internal/frequency"
	"github.com/ginjaninja78/basket-enricher/internal/logger"
	"github.com/ginjaninja78/basket-enricher/internal/output"
	"github.com/ginjaninja78/basket-enricher/internal/reference"
	"github.com/ginjaninja78/basket-enricher/internal/transactions"
	"github.com/ginjaninja78/basket-enricher/internal/types"
	"github.com/ginjaninja78/basket-enricher/pkg/utils"
	"github.com/google/uuid"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one run.
type Result struct {
	// RunID identifies the run in logs and report file names.
	RunID string

	// OutputFile is the path to the written JSON Lines file.
	OutputFile string

	// SummaryFile and ErrorLogFile are the report files, "" when not written.
	SummaryFile  string
	ErrorLogFile string

	// TransactionFiles holds the transaction files read, in load order.
	TransactionFiles []string

	// SkippedLines holds every transaction line that was skipped.
	SkippedLines []*transactions.ParseError

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the run.
type ProcessingStats struct {
	Customers            int
	Products             int
	TransactionFiles     int
	TransactionLines     int
	Transactions         int
	SkippedLines         int
	ExcludedTransactions int
	PurchasePairs        int
	RecordsWritten       int
	ProcessingTime       time.Duration
}

// =============================================================================
// PIPELINE STRUCTURE
// =============================================================================

// Pipeline runs the enrichment for one configuration.
type Pipeline struct {
	cfg    *config.Config
	runID  string
	logger logger.Logger
}

// New creates a pipeline. Every log entry carries the run id.
func New(cfg *config.Config, log logger.Logger) *Pipeline {
	if log == nil {
		log = logger.Nop()
	}
	runID := uuid.New().String()
	return &Pipeline{
		cfg:    cfg,
		runID:  runID,
		logger: log.With("run_id", runID),
	}
}

// RunID returns the id stamped on this pipeline's logs and reports.
func (p *Pipeline) RunID() string {
	return p.runID
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the pipeline.
//
// RETURNS:
//   - The run result. Skipped transaction lines do not make the run fail.
//   - An error for reference-load failures, unreadable transaction files or
//     output write failures.
func (p *Pipeline) Run() (*Result, error) {
	startTime := time.Now()
	result := &Result{RunID: p.runID}

	// =========================================================================
	// STEP 1-2: LOAD REFERENCE DATA
	// =========================================================================

	customers, products, err := p.loadReferenceData()
	if err != nil {
		return nil, err
	}
	result.Stats.Customers = len(customers)
	result.Stats.Products = len(products)

	// =========================================================================
	// STEP 3: LOAD TRANSACTIONS
	// =========================================================================

	fm := utils.NewFileManager(p.cfg.TransactionsLocation, p.cfg.ReportLocation)

	files, err := fm.DiscoverTransactionFiles(p.cfg.TransactionsFileName)
	if err != nil {
		return nil, fmt.Errorf("failed to discover transaction files: %w", err)
	}
	if len(files) == 0 {
		p.logger.Warn("No %s files found under %s", p.cfg.TransactionsFileName, p.cfg.TransactionsLocation)
	}
	p.logger.Debug("Found %d transaction file(s)", len(files))

	loader := transactions.NewLoader(transactions.LogReporter{Log: p.logger})
	loaded, err := loader.LoadFiles(files)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	txns := loaded.Transactions
	result.TransactionFiles = loaded.Files
	result.SkippedLines = loaded.ParseErrors
	result.Stats.TransactionFiles = len(loaded.Files)
	result.Stats.TransactionLines = loaded.Lines
	result.Stats.Transactions = len(txns)
	result.Stats.SkippedLines = len(loaded.ParseErrors)
	result.Stats.ExcludedTransactions = countExcluded(txns)

	if skipped := loaded.Err(); skipped != nil {
		p.logger.Warn("Skipped %d malformed transaction line(s): %v", len(loaded.ParseErrors), skipped)
	}
	p.logger.Info("Loaded %d transaction(s) from %d file(s)", len(txns), len(loaded.Files))

	// =========================================================================
	// STEP 4: BUILD PURCHASE-FREQUENCY INDEX
	// =========================================================================

	index := frequency.BuildParallel(txns, p.cfg.MaxConcurrency)
	result.Stats.PurchasePairs = index.Pairs()
	p.logger.Debug("Indexed %d customer/product pair(s)", index.Pairs())

	// =========================================================================
	// STEP 5: ENRICH
	// =========================================================================

	engine := enrichment.New(customers, products, index)
	records := engine.Enrich(txns)

	// =========================================================================
	// STEP 6: WRITE OUTPUT FILE
	// =========================================================================

	writer := output.NewWriter(p.cfg.OutputLocation, p.cfg.OutputFileName)
	p.logger.Debug("Writing %d record(s) to %s", len(records), writer.Path())

	outputPath, err := writer.Write(records)
	if err != nil {
		return nil, fmt.Errorf("failed to write output: %w", err)
	}
	result.OutputFile = outputPath
	result.Stats.RecordsWritten = len(records)
	p.logger.Info("Wrote %d record(s) to %s", len(records), outputPath)

	// =========================================================================
	// STEP 7: RUN REPORT
	// =========================================================================

	result.Stats.ProcessingTime = time.Since(startTime)

	if err := p.writeReport(fm, result, startTime); err != nil {
		// The output is already complete; a missing report does not fail the run.
		p.logger.Warn("Failed to write run report: %v", err)
	}

	return result, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// loadReferenceData loads customers and products. Both are fatal on error.
func (p *Pipeline) loadReferenceData() ([]types.Customer, []types.Product, error) {
	csvSettings := csvparser.Settings{Delimiter: p.cfg.CSVDelimiter}

	customers, err := reference.LoadCustomers(p.cfg.CustomersLocation, reference.Options{
		CSV:   csvSettings,
		Sheet: p.cfg.CustomersSheet,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load customers from %s: %w", p.cfg.CustomersLocation, err)
	}
	p.logger.Info("Loaded %d customer(s)", len(customers))

	products, err := reference.LoadProducts(p.cfg.ProductsLocation, reference.Options{
		CSV:   csvSettings,
		Sheet: p.cfg.ProductsSheet,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load products from %s: %w", p.cfg.ProductsLocation, err)
	}
	p.logger.Info("Loaded %d product(s)", len(products))

	return customers, products, nil
}

// writeReport writes the error log and summary when reports are enabled.
func (p *Pipeline) writeReport(fm *utils.FileManager, result *Result, startTime time.Time) error {
	if fm.ReportDir == "" {
		return nil
	}

	if err := fm.EnsureReportDir(); err != nil {
		return err
	}

	entries := make([]utils.ErrorLogEntry, len(result.SkippedLines))
	for i, pe := range result.SkippedLines {
		entries[i] = utils.ErrorLogEntry{
			FileName:     pe.File,
			LineNumber:   pe.Line,
			ErrorMessage: pe.Err.Error(),
		}
	}

	errorLog, err := fm.WriteErrorLog(entries, p.runID)
	if err != nil {
		return err
	}
	result.ErrorLogFile = errorLog

	endTime := time.Now()
	summary := utils.ProcessingSummary{
		RunID:            p.runID,
		StartTime:        startTime,
		EndTime:          endTime,
		Duration:         endTime.Sub(startTime).String(),
		CustomersFile:    p.cfg.CustomersLocation,
		ProductsFile:     p.cfg.ProductsLocation,
		TransactionFiles: result.TransactionFiles,
		OutputFile:       result.OutputFile,
		Customers:        result.Stats.Customers,
		Products:         result.Stats.Products,
		TransactionLines: result.Stats.TransactionLines,
		Transactions:     result.Stats.Transactions,
		SkippedLines:     result.Stats.SkippedLines,
		ExcludedTxns:     result.Stats.ExcludedTransactions,
		PurchasePairs:    result.Stats.PurchasePairs,
		RecordsWritten:   result.Stats.RecordsWritten,
		IndexConcurrency: p.cfg.MaxConcurrency,
		ErrorLogFile:     errorLog,
	}

	summaryPath, err := fm.WriteSummaryLog(summary)
	if err != nil {
		return err
	}
	result.SummaryFile = summaryPath
	p.logger.Debug("Wrote run summary to %s", summaryPath)

	return nil
}

// countExcluded counts transactions that produce no output records.
func countExcluded(txns []types.Transaction) int {
	n := 0
	for _, txn := range txns {
		if !txn.Enrichable() {
			n++
		}
	}
	return n
}
