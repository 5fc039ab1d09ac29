// =============================================================================
// Basket Enricher - File Manager Utility
// =============================================================================
//
// This module provides the filesystem glue around the pipeline:
//   - Transaction file discovery
//   - Report directory management
//   - Skipped-line error log generation
//   - Run summary generation (YAML)
//   - Report file naming
//
// DISCOVERY LAYOUT:
//   <transactions_location>/
//     2024-01-01/transactions.json
//     2024-01-02/transactions.json
//     ...
//   Only immediate subdirectories are searched, and hidden ones (".snapshot")
//   are skipped. Files are returned in lexical path order so the same tree
//   always loads in the same order.
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the pipeline.
type FileManager struct {
	// TransactionsDir is the root of the transaction tree.
	TransactionsDir string

	// ReportDir is where run reports are written. Empty disables reports.
	ReportDir string
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(transactionsDir, reportDir string) *FileManager {
	return &FileManager{
		TransactionsDir: transactionsDir,
		ReportDir:       reportDir,
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureReportDir creates the report directory if reports are enabled.
func (fm *FileManager) EnsureReportDir() error {
	if fm.ReportDir == "" {
		return nil
	}
	if err := os.MkdirAll(fm.ReportDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.ReportDir, err)
	}
	return nil
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverTransactionFiles finds fileName in every immediate subdirectory of
// the transaction root.
//
// PARAMETERS:
//   - fileName: The file to look for (e.g., "transactions.json").
//
// RETURNS:
//   - The matching file paths, sorted. A missing root yields no files.
//   - An error if the root exists but cannot be scanned.
func (fm *FileManager) DiscoverTransactionFiles(fileName string) ([]string, error) {
	info, err := os.Stat(fm.TransactionsDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan transactions directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("transactions location %s is not a directory", fm.TransactionsDir)
	}

	// Escape glob metacharacters in the literal file name.
	pattern := filepath.Join(fm.TransactionsDir, "*", escapeGlob(fileName))

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to scan transactions directory: %w", err)
	}

	// Filter out hidden subdirectories and directories.
	var files []string
	for _, match := range matches {
		if strings.HasPrefix(filepath.Base(filepath.Dir(match)), ".") {
			continue
		}
		info, err := os.Stat(match)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			files = append(files, match)
		}
	}

	sort.Strings(files)

	return files, nil
}

// escapeGlob escapes the characters filepath.Match treats specially.
func escapeGlob(name string) string {
	if filepath.Separator == '\\' {
		// No escaping on Windows; '\' is the separator there.
		return name
	}
	replacer := strings.NewReplacer(`*`, `\*`, `?`, `\?`, `[`, `\[`, `\`, `\\`)
	return replacer.Replace(name)
}

// =============================================================================
// REPORT FILE NAMING
// =============================================================================

// GenerateReportFileName builds a report file name.
//
// EXAMPLE:
//   GenerateReportFileName("summary", "1b4e28ba-...", ".yaml")
//   -> "summary_20240115_143022_1b4e28ba-....yaml"
//
// An empty runID gets a fresh UUID.
func GenerateReportFileName(prefix, runID, ext string) string {
	if runID == "" {
		runID = uuid.New().String()
	}
	timestamp := time.Now().Format("20060102_150405")
	return fmt.Sprintf("%s_%s_%s%s", prefix, timestamp, runID, ext)
}

// =============================================================================
// ERROR LOG GENERATION
// =============================================================================

// ErrorLogEntry represents a single skipped transaction line.
type ErrorLogEntry struct {
	FileName     string
	LineNumber   int
	ErrorMessage string
}

// WriteErrorLog writes skipped-line entries to a text file in the report
// directory. Nothing is written when reports are disabled or there are no
// entries.
//
// RETURNS:
//   - The path to the error log file, "" if none was written.
//   - An error if writing fails.
func (fm *FileManager) WriteErrorLog(entries []ErrorLogEntry, runID string) (string, error) {
	if fm.ReportDir == "" || len(entries) == 0 {
		return "", nil
	}

	logPath := filepath.Join(fm.ReportDir, GenerateReportFileName("error_log", runID, ".txt"))

	file, err := os.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("failed to create error log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	fmt.Fprintf(writer, "Basket Enricher - Skipped Transaction Lines\n"+
		"Run ID: %s\n"+
		"Generated: %s\n"+
		"Total Skipped: %d\n"+
		"================================================================================\n\n",
		runID,
		time.Now().Format("2006-01-02 15:04:05"),
		len(entries))

	for i, entry := range entries {
		fmt.Fprintf(writer, "Skipped #%d\n"+
			"  File:    %s\n"+
			"  Line:    %d\n"+
			"  Message: %s\n\n",
			i+1,
			entry.FileName,
			entry.LineNumber,
			entry.ErrorMessage)
	}

	writer.WriteString("================================================================================\n" +
		"End of Error Log\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush error log: %w", err)
	}

	return logPath, nil
}

// =============================================================================
// PROCESSING SUMMARY
// =============================================================================

// ProcessingSummary contains summary information about a run.
type ProcessingSummary struct {
	RunID     string    `yaml:"run_id"`
	StartTime time.Time `yaml:"start_time"`
	EndTime   time.Time `yaml:"end_time"`
	Duration  string    `yaml:"duration"`

	CustomersFile    string   `yaml:"customers_file"`
	ProductsFile     string   `yaml:"products_file"`
	TransactionFiles []string `yaml:"transaction_files"`
	OutputFile       string   `yaml:"output_file"`

	Customers        int    `yaml:"customers"`
	Products         int    `yaml:"products"`
	TransactionLines int    `yaml:"transaction_lines"`
	Transactions     int    `yaml:"transactions"`
	SkippedLines     int    `yaml:"skipped_lines"`
	ExcludedTxns     int    `yaml:"excluded_transactions"`
	PurchasePairs    int    `yaml:"purchase_pairs"`
	RecordsWritten   int    `yaml:"records_written"`
	IndexConcurrency int    `yaml:"index_concurrency"`
	ErrorLogFile     string `yaml:"error_log_file,omitempty"`
}

// WriteSummaryLog writes the run summary as YAML to the report directory.
//
// RETURNS:
//   - The path to the summary file, "" if reports are disabled.
//   - An error if writing fails.
func (fm *FileManager) WriteSummaryLog(summary ProcessingSummary) (string, error) {
	if fm.ReportDir == "" {
		return "", nil
	}

	summaryPath := filepath.Join(fm.ReportDir, GenerateReportFileName("processing_summary", summary.RunID, ".yaml"))

	data, err := yaml.Marshal(&summary)
	if err != nil {
		return "", fmt.Errorf("failed to encode summary: %w", err)
	}

	if err := os.WriteFile(summaryPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write summary file: %w", err)
	}

	return summaryPath, nil
}
