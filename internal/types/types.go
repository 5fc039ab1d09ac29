// =============================================================================
// Basket Enricher - Shared Types
// =============================================================================
//
// This package contains the entities shared by the loaders, the frequency
// index, the enrichment engine and the output writer. Keeping them here
// avoids import cycles between those packages.
//
// All entities are loaded once at start-up and are read-only afterwards.
//
// =============================================================================

package types

// =============================================================================
// REFERENCE DATA
// =============================================================================

// Customer is one row of the customer reference source.
type Customer struct {
	// CustomerID identifies the customer. Duplicates are allowed.
	CustomerID string

	// LoyaltyScore is the integer loyalty score for the customer.
	LoyaltyScore int
}

// Product is one row of the product reference source.
type Product struct {
	// ProductID identifies the product. Duplicates are allowed.
	ProductID string

	// ProductCategory is the category name, kept exactly as read.
	ProductCategory string
}

// =============================================================================
// TRANSACTION TYPES
// =============================================================================

// BasketItem is a single line in a transaction's basket.
// Fields other than product_id are ignored when decoding. A missing
// product_id decodes as "" and is indistinguishable from an explicit "".
type BasketItem struct {
	ProductID string `json:"product_id"`
}

// Transaction is one decoded line of a transaction source.
type Transaction struct {
	// CustomerID is nil when the record has no customer_id (or it is null).
	CustomerID *string `json:"customer_id"`

	// Basket holds the basket lines in source order. A record without a
	// basket decodes to an empty basket.
	Basket []BasketItem `json:"basket"`
}

// HasCustomer reports whether the transaction carries a customer id.
func (t Transaction) HasCustomer() bool {
	return t.CustomerID != nil
}

// Customer returns the customer id, or "" when absent.
func (t Transaction) Customer() string {
	if t.CustomerID == nil {
		return ""
	}
	return *t.CustomerID
}

// ProductIDs projects the basket to its flat list of product ids.
// The projection is computed on demand and never stored.
func (t Transaction) ProductIDs() []string {
	ids := make([]string, len(t.Basket))
	for i, item := range t.Basket {
		ids[i] = item.ProductID
	}
	return ids
}

// Enrichable reports whether the transaction produces output records:
// it needs a customer id and at least one basket line.
func (t Transaction) Enrichable() bool {
	return t.HasCustomer() && len(t.Basket) > 0
}

// =============================================================================
// OUTPUT TYPES
// =============================================================================

// EnrichedRecord is one output record per (transaction, basket item) pair.
// Field order here is the order the JSON encoder emits keys in.
type EnrichedRecord struct {
	CustomerID      string `json:"customer_id"`
	LoyaltyScore    int    `json:"loyalty_score"`
	ProductID       string `json:"product_id"`
	ProductCategory string `json:"product_category"`
	PurchaseCount   int    `json:"purchase_count"`
}

// =============================================================================
// TABULAR SOURCES
// =============================================================================

// Table is a parsed tabular source (CSV file or worksheet).
type Table struct {
	// SourceFile is the path the table was read from.
	SourceFile string

	// Headers holds the cleaned column headers.
	Headers []string

	// Rows holds the data rows as header -> value maps, in source order.
	Rows []map[string]string

	// RowNumbers holds the 1-indexed source row number of each entry in Rows.
	RowNumbers []int
}

// HasColumn reports whether the table has a column with the given header.
func (t *Table) HasColumn(header string) bool {
	for _, h := range t.Headers {
		if h == header {
			return true
		}
	}
	return false
}
