// =============================================================================
// Basket Enricher - Validation Engine
// =============================================================================
//
// This module checks the required fields of the reference sources. Customer
// and product data is reference data, not best-effort input: the first row
// that fails a check aborts the load.
//
// CHECKS:
//   - Required column present in the header row
//   - Required field present in every data row
//   - Integer fields parse as base-10 integers
//
// Nothing else is validated. Duplicate ids, empty categories and unusual
// id formats are accepted as-is.
//
// =============================================================================

package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ginjaninja78/basket-enricher/internal/types"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// Rule names used in ValidationError.Rule.
const (
	RuleRequiredColumn = "required_column"
	RuleRequiredField  = "required_field"
	RuleInteger        = "integer"
)

// ValidationError describes a reference row that failed a required check.
type ValidationError struct {
	// SourceFile is the reference source being loaded.
	SourceFile string

	// Field is the name of the field that failed validation.
	Field string

	// Value is the actual value that failed validation.
	Value string

	// Rule is the validation rule that was violated.
	Rule string

	// Message is a human-readable error message.
	Message string

	// RowNumber is the source row number, 0 for header-level errors.
	RowNumber int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var b strings.Builder

	b.WriteString(e.SourceFile)
	if e.RowNumber > 0 {
		fmt.Fprintf(&b, ", row %d", e.RowNumber)
	}
	fmt.Fprintf(&b, ", field '%s': %s", e.Field, e.Message)
	if e.Rule == RuleInteger {
		fmt.Fprintf(&b, " (value: '%s')", e.Value)
	}

	return b.String()
}

// =============================================================================
// VALIDATION FUNCTIONS
// =============================================================================

// RequireColumns checks that every required column exists in the table header.
func RequireColumns(table *types.Table, columns ...string) error {
	for _, column := range columns {
		if !table.HasColumn(column) {
			return &ValidationError{
				SourceFile: table.SourceFile,
				Field:      column,
				Rule:       RuleRequiredColumn,
				Message:    "required column is missing",
			}
		}
	}
	return nil
}

// RequireField returns the value of a required field in a data row.
//
// PARAMETERS:
//   - table: The table the row belongs to (for error context).
//   - index: The index of the row in table.Rows.
//   - field: The required field name.
//
// RETURNS:
//   - The field value, exactly as read.
//   - A *ValidationError if the row has no value for the field.
func RequireField(table *types.Table, index int, field string) (string, error) {
	value, ok := table.Rows[index][field]
	if !ok {
		return "", &ValidationError{
			SourceFile: table.SourceFile,
			Field:      field,
			Rule:       RuleRequiredField,
			Message:    "required field is missing",
			RowNumber:  rowNumber(table, index),
		}
	}
	return value, nil
}

// RequireInteger returns a required field parsed as an integer.
// Surrounding whitespace is tolerated; anything else that is not a base-10
// integer is rejected.
func RequireInteger(table *types.Table, index int, field string) (int, error) {
	value, err := RequireField(table, index, field)
	if err != nil {
		return 0, err
	}

	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, &ValidationError{
			SourceFile: table.SourceFile,
			Field:      field,
			Value:      value,
			Rule:       RuleInteger,
			Message:    "value is not an integer",
			RowNumber:  rowNumber(table, index),
		}
	}

	return n, nil
}

// rowNumber maps a row index to its source row number.
func rowNumber(table *types.Table, index int) int {
	if index < len(table.RowNumbers) {
		return table.RowNumbers[index]
	}
	return index + 2 // header is row 1
}
