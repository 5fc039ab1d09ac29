// =============================================================================
// Basket Enricher - CSV Parser Module
// =============================================================================
//
// This module reads the tabular reference sources (customers, products)
// when they are delivered as CSV files.
//
// FEATURES:
//   - Configurable delimiter (comma, pipe, tab, semicolon)
//   - Single header row, matched by exact (trimmed) column name
//   - Field values are kept exactly as read; no trimming or rewriting
//   - Short rows are kept; the missing cells are simply absent from the row
//     map so callers can tell "missing" apart from "empty"
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/basket-enricher/internal/types"
)

// utf8BOM is stripped from the first header cell when present.
const utf8BOM = "\ufeff"

// =============================================================================
// SETTINGS
// =============================================================================

// Settings contains settings for parsing CSV files.
type Settings struct {
	// Delimiter is the character used to separate fields in the CSV.
	// Common values: "," (comma), "|" (pipe), "\t" (tab)
	// Default: ","
	Delimiter string
}

// DefaultSettings returns comma-separated settings.
func DefaultSettings() Settings {
	return Settings{Delimiter: ","}
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file and returns the parsed table.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: The CSV parsing settings.
//
// RETURNS:
//   - The parsed table. The file handle is closed before Parse returns.
//   - An error if the file cannot be opened or is not valid CSV.
func Parse(filePath string, settings Settings) (*types.Table, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	table, err := ParseReader(bufio.NewReader(file), settings)
	if err != nil {
		return nil, err
	}
	table.SourceFile = filePath

	return table, nil
}

// ParseReader parses CSV content from any reader.
// The first non-empty record is the header row. Empty content yields a
// table with no headers and no rows.
func ParseReader(r io.Reader, settings Settings) (*types.Table, error) {
	csvReader := csv.NewReader(r)
	configureReader(csvReader, settings)

	table := &types.Table{}

	// Read headers.
	header, err := csvReader.Read()
	if err == io.EOF {
		// An empty file is an empty table.
		return table, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}
	table.Headers = cleanHeaders(header)

	// Read data rows one at a time so we can keep their line numbers.
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		line, _ := csvReader.FieldPos(0)

		table.Rows = append(table.Rows, toRowMap(table.Headers, record))
		table.RowNumbers = append(table.RowNumbers, line)
	}

	return table, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings Settings) {
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Rows may be shorter or longer than the header row.
	reader.FieldsPerRecord = -1

	reader.LazyQuotes = true
}

// cleanHeaders trims header names and strips a leading byte order mark.
// Values are never touched; only headers are normalized.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))

	for i, header := range headers {
		if i == 0 {
			header = strings.TrimPrefix(header, utf8BOM)
		}
		cleaned[i] = strings.TrimSpace(header)
	}

	return cleaned
}

// toRowMap converts a record to a header -> value map.
// Cells beyond the end of a short record are left out of the map.
func toRowMap(headers []string, record []string) map[string]string {
	row := make(map[string]string, len(headers))

	for i, header := range headers {
		if i >= len(record) {
			break
		}
		row[header] = record[i]
	}

	return row
}
