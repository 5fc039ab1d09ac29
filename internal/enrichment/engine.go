// =============================================================================
// Basket Enricher - Enrichment Engine
// =============================================================================
//
// The engine joins each basket line with the customer's loyalty score, the
// product's category and the pair's purchase count.
//
// EMISSION RULES:
//   - Transactions are visited in load order.
//   - A transaction without customer_id, or with an empty basket, emits
//     nothing.
//   - Otherwise one record is emitted per basket line, in basket order.
//
// Lookups never fail: unknown customers score 0, unknown products have an
// empty category and unseen pairs count 0.
//
// =============================================================================

package enrichment

import (
	"github.com/ginjaninja78/basket-enricher/internal/frequency"
	"github.com/ginjaninja78/basket-enricher/internal/reference"
	"github.com/ginjaninja78/basket-enricher/internal/types"
)

// Engine produces enriched records. It holds only read-only state.
type Engine struct {
	customers *reference.CustomerIndex
	products  *reference.ProductIndex
	index     *frequency.Index
}

// New creates an engine over the loaded reference data and a built index.
func New(customers []types.Customer, products []types.Product, index *frequency.Index) *Engine {
	return &Engine{
		customers: reference.NewCustomerIndex(customers),
		products:  reference.NewProductIndex(products),
		index:     index,
	}
}

// Enrich emits the records for every transaction in order.
func (e *Engine) Enrich(txns []types.Transaction) []types.EnrichedRecord {
	records := make([]types.EnrichedRecord, 0, CountRecords(txns))
	for _, txn := range txns {
		records = e.appendTransaction(records, txn)
	}
	return records
}

// appendTransaction appends the records of one transaction, if any.
func (e *Engine) appendTransaction(records []types.EnrichedRecord, txn types.Transaction) []types.EnrichedRecord {
	if !txn.Enrichable() {
		return records
	}

	customerID := *txn.CustomerID
	loyalty := e.customers.LoyaltyScore(customerID)

	for _, item := range txn.Basket {
		records = append(records, types.EnrichedRecord{
			CustomerID:      customerID,
			LoyaltyScore:    loyalty,
			ProductID:       item.ProductID,
			ProductCategory: e.products.Category(item.ProductID),
			PurchaseCount:   e.index.Count(customerID, item.ProductID),
		})
	}

	return records
}

// CountRecords returns how many records Enrich will emit for txns.
func CountRecords(txns []types.Transaction) int {
	n := 0
	for _, txn := range txns {
		if txn.Enrichable() {
			n += len(txn.Basket)
		}
	}
	return n
}
