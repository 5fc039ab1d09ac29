// =============================================================================
// Basket Enricher - Reference Loader
// =============================================================================
//
// This module loads the customer and product reference sources into
// read-only slices, preserving source order and duplicate ids.
//
// SOURCE FORMATS:
//   - *.xlsx : read with the XLSX parser (first sheet unless configured)
//   - other  : read as CSV
//
// FAILURE POLICY:
//   Any missing required column, missing required field or non-integer
//   loyalty score aborts the load with a *validation.ValidationError.
//   A source with no data rows (empty file, header only, empty sheet) loads
//   as an empty slice; column checks only apply once a row exists.
//
// =============================================================================

package reference

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/basket-enricher/internal/csvparser"
	"github.com/ginjaninja78/basket-enricher/internal/types"
	"github.com/ginjaninja78/basket-enricher/internal/validation"
	"github.com/ginjaninja78/basket-enricher/internal/xlsxparser"
)

// Column names of the reference sources.
const (
	ColumnCustomerID      = "customer_id"
	ColumnLoyaltyScore    = "loyalty_score"
	ColumnProductID       = "product_id"
	ColumnProductCategory = "product_category"
)

// Options controls how reference sources are read.
type Options struct {
	// CSV holds the settings used for CSV sources.
	CSV csvparser.Settings

	// Sheet selects the worksheet for XLSX sources. Empty means the first sheet.
	Sheet string
}

// DefaultOptions returns comma-separated CSV settings and the first sheet.
func DefaultOptions() Options {
	return Options{CSV: csvparser.DefaultSettings()}
}

// =============================================================================
// LOADERS
// =============================================================================

// LoadCustomers loads every customer row from the source at path.
func LoadCustomers(path string, opts Options) ([]types.Customer, error) {
	table, err := readTable(path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read customers: %w", err)
	}

	// A source without data rows loads as empty; lookups then use defaults.
	if len(table.Rows) == 0 {
		return []types.Customer{}, nil
	}

	if err := validation.RequireColumns(table, ColumnCustomerID, ColumnLoyaltyScore); err != nil {
		return nil, fmt.Errorf("invalid customers source: %w", err)
	}

	customers := make([]types.Customer, 0, len(table.Rows))
	for i := range table.Rows {
		id, err := validation.RequireField(table, i, ColumnCustomerID)
		if err != nil {
			return nil, fmt.Errorf("invalid customers source: %w", err)
		}

		score, err := validation.RequireInteger(table, i, ColumnLoyaltyScore)
		if err != nil {
			return nil, fmt.Errorf("invalid customers source: %w", err)
		}

		customers = append(customers, types.Customer{
			CustomerID:   id,
			LoyaltyScore: score,
		})
	}

	return customers, nil
}

// LoadProducts loads every product row from the source at path.
func LoadProducts(path string, opts Options) ([]types.Product, error) {
	table, err := readTable(path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}

	if len(table.Rows) == 0 {
		return []types.Product{}, nil
	}

	if err := validation.RequireColumns(table, ColumnProductID, ColumnProductCategory); err != nil {
		return nil, fmt.Errorf("invalid products source: %w", err)
	}

	products := make([]types.Product, 0, len(table.Rows))
	for i := range table.Rows {
		id, err := validation.RequireField(table, i, ColumnProductID)
		if err != nil {
			return nil, fmt.Errorf("invalid products source: %w", err)
		}

		category, err := validation.RequireField(table, i, ColumnProductCategory)
		if err != nil {
			return nil, fmt.Errorf("invalid products source: %w", err)
		}

		products = append(products, types.Product{
			ProductID:       id,
			ProductCategory: category,
		})
	}

	return products, nil
}

// readTable picks the parser from the file extension.
func readTable(path string, opts Options) (*types.Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return xlsxparser.Parse(path, opts.Sheet)
	}
	return csvparser.Parse(path, opts.CSV)
}
