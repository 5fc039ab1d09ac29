// =============================================================================
// Basket Enricher - XLSX Parser Module
// =============================================================================
//
// This module reads reference sources delivered as Excel workbooks. Customer
// and product lists are often exported straight from a spreadsheet, so the
// reference loader accepts a .xlsx file wherever it accepts a CSV file.
//
// WORKBOOK LAYOUT:
//   - One sheet holds the table (the first sheet unless a name is given)
//   - Row 1 is the header row (customer_id, loyalty_score, ...)
//   - Every following non-empty row is one record
//
// Spreadsheets cannot tell an empty cell from a missing one, so every data
// row is padded to the header width with empty strings.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/basket-enricher/internal/types"
	"github.com/xuri/excelize/v2"
)

// Parse reads a worksheet and returns it as a table.
//
// PARAMETERS:
//   - path: The path to the XLSX workbook.
//   - sheetName: The sheet to read. Empty selects the first sheet.
//
// RETURNS:
//   - The parsed table. The workbook is closed before Parse returns.
//   - An error if the workbook or sheet cannot be read.
func Parse(path string, sheetName string) (*types.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheetName == "" {
		sheetName = f.GetSheetName(0)
		if sheetName == "" {
			return nil, fmt.Errorf("workbook has no sheets")
		}
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet '%s': %w", sheetName, err)
	}

	table, err := fromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("sheet '%s': %w", sheetName, err)
	}
	table.SourceFile = path

	return table, nil
}

// fromRows converts raw sheet rows into a table.
func fromRows(rows [][]string) (*types.Table, error) {
	table := &types.Table{}

	// A sheet without any content is an empty table.
	if allRowsEmpty(rows) {
		return table, nil
	}
	if isRowEmpty(rows[0]) {
		return nil, fmt.Errorf("sheet has no header row")
	}

	table.Headers = make([]string, len(rows[0]))
	for i, header := range rows[0] {
		table.Headers[i] = strings.TrimSpace(header)
	}

	for i := 1; i < len(rows); i++ {
		row := rows[i]

		// Skip empty rows.
		if isRowEmpty(row) {
			continue
		}

		rowMap := make(map[string]string, len(table.Headers))
		for col, header := range table.Headers {
			if col < len(row) {
				rowMap[header] = row[col]
			} else {
				rowMap[header] = ""
			}
		}

		table.Rows = append(table.Rows, rowMap)
		table.RowNumbers = append(table.RowNumbers, i+1)
	}

	return table, nil
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// allRowsEmpty reports whether no row has a non-empty cell.
func allRowsEmpty(rows [][]string) bool {
	for _, row := range rows {
		if !isRowEmpty(row) {
			return false
		}
	}
	return true
}
