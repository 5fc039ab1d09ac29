// =============================================================================
// Basket Enricher - Transaction Loader
// =============================================================================
//
// This module decodes the line-delimited JSON transaction files.
//
// LINE FORMAT:
//   {"customer_id": "C1", "basket": [{"product_id": "P1", "price": 3}, ...]}
//   Unknown fields are ignored. A missing basket decodes as an empty basket.
//   A missing or null customer_id decodes as an absent customer.
//
// PARTIAL-FAILURE POLICY:
//   A line that is not a well-formed JSON object (syntax error, non-object
//   value, wrongly typed field) is reported through the ErrorReporter and
//   skipped. Loading continues with the next line. Failing to open or read
//   a file is fatal.
//
// ORDERING:
//   Transactions keep file order (as passed in) and line order within a file.
//
// =============================================================================

package transactions

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ginjaninja78/basket-enricher/internal/logger"
	"github.com/ginjaninja78/basket-enricher/internal/types"
	"go.uber.org/multierr"
)

// =============================================================================
// ERRORS
// =============================================================================

// errNotObject is returned for lines that hold valid JSON but not an object.
var errNotObject = errors.New("line is not a JSON object")

// ParseError identifies a skipped transaction line.
type ParseError struct {
	// File is the transaction file the line came from.
	File string

	// Line is the 1-indexed line number within File.
	Line int

	// Err is the underlying decode error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("error loading JSON in file %s (line %d): %v", e.File, e.Line, e.Err)
}

// Unwrap returns the underlying decode error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// =============================================================================
// ERROR REPORTING SIDE CHANNEL
// =============================================================================

// ErrorReporter receives every skipped line as it is encountered.
type ErrorReporter interface {
	Report(err *ParseError)
}

// ReporterFunc adapts a function to ErrorReporter.
type ReporterFunc func(err *ParseError)

// Report implements ErrorReporter.
func (f ReporterFunc) Report(err *ParseError) {
	f(err)
}

// LogReporter writes skipped lines to a logger at warn level.
type LogReporter struct {
	Log logger.Logger
}

// Report implements ErrorReporter.
func (r LogReporter) Report(err *ParseError) {
	r.Log.With("file", err.File, "line", err.Line).Warn("skipping transaction line: %v", err.Err)
}

// =============================================================================
// LOADER
// =============================================================================

// Result is the outcome of loading a set of transaction files.
type Result struct {
	// Transactions holds every decoded transaction in load order.
	Transactions []types.Transaction

	// ParseErrors holds every skipped line in load order.
	ParseErrors []*ParseError

	// Files holds the files that were read, in load order.
	Files []string

	// Lines is the number of non-blank lines read.
	Lines int
}

// Err combines all parse errors into one error, or nil if there were none.
func (r *Result) Err() error {
	var combined error
	for _, pe := range r.ParseErrors {
		combined = multierr.Append(combined, pe)
	}
	return combined
}

// Loader decodes transaction files.
type Loader struct {
	reporter ErrorReporter
}

// NewLoader creates a loader that reports skipped lines to reporter.
// A nil reporter discards the reports; they are still collected in Result.
func NewLoader(reporter ErrorReporter) *Loader {
	if reporter == nil {
		reporter = ReporterFunc(func(*ParseError) {})
	}
	return &Loader{reporter: reporter}
}

// LoadFiles loads every file in order and concatenates the transactions.
func (l *Loader) LoadFiles(paths []string) (*Result, error) {
	result := &Result{}

	for _, path := range paths {
		if err := l.loadFile(path, result); err != nil {
			return nil, err
		}
		result.Files = append(result.Files, path)
	}

	return result, nil
}

// loadFile opens one file and decodes it into result.
func (l *Loader) loadFile(path string, result *Result) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open transactions file: %w", err)
	}
	defer file.Close()

	if err := l.decode(path, file, result); err != nil {
		return fmt.Errorf("failed to read transactions file %s: %w", path, err)
	}

	return nil
}

// LoadReader decodes a single stream. name identifies the stream in errors.
func (l *Loader) LoadReader(name string, r io.Reader) (*Result, error) {
	result := &Result{}
	if err := l.decode(name, r, result); err != nil {
		return nil, err
	}
	result.Files = append(result.Files, name)
	return result, nil
}

// decode reads r line by line. Lines have no length limit.
func (l *Loader) decode(name string, r io.Reader, result *Result) error {
	reader := bufio.NewReader(r)
	lineNumber := 0

	for {
		line, readErr := reader.ReadBytes('\n')
		if readErr != nil && readErr != io.EOF {
			return readErr
		}

		if len(line) > 0 {
			lineNumber++
			l.decodeLine(name, lineNumber, line, result)
		}

		if readErr == io.EOF {
			return nil
		}
	}
}

// decodeLine decodes one line, appending either a transaction or a parse error.
func (l *Loader) decodeLine(name string, lineNumber int, line []byte, result *Result) {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return
	}
	result.Lines++

	txn, err := parseTransaction(trimmed)
	if err != nil {
		pe := &ParseError{File: name, Line: lineNumber, Err: err}
		result.ParseErrors = append(result.ParseErrors, pe)
		l.reporter.Report(pe)
		return
	}

	result.Transactions = append(result.Transactions, txn)
}

// parseTransaction decodes a single trimmed line.
func parseTransaction(line []byte) (types.Transaction, error) {
	var txn types.Transaction

	// json.Unmarshal accepts "null" into a struct; only objects are records.
	if line[0] != '{' {
		if !json.Valid(line) {
			return txn, json.Unmarshal(line, &txn)
		}
		return txn, errNotObject
	}

	if err := json.Unmarshal(line, &txn); err != nil {
		return types.Transaction{}, err
	}

	if txn.Basket == nil {
		txn.Basket = []types.BasketItem{}
	}

	return txn, nil
}
