// =============================================================================
// Basket Enricher - Purchase-Frequency Index
// =============================================================================
//
// The index answers "how many basket lines reference product P in
// transactions of customer C" over the complete loaded transaction set,
// including transactions that produce no output records.
//
// STRATEGY:
//   One pass over every basket line builds a (customer, product) -> count
//   map. Lookups are then O(1). The index is immutable once built.
//
// CONCURRENCY:
//   BuildParallel counts disjoint chunks of the transaction slice in
//   separate goroutines and merges the partial maps only after every
//   goroutine has finished, so no Count is ever served from a partial index.
//
// =============================================================================

package frequency

import (
	"sync"

	"github.com/ginjaninja78/basket-enricher/internal/types"
)

// pairKey identifies a (customer, product) pair.
type pairKey struct {
	customerID string
	productID  string
}

// Index holds the precomputed purchase counts.
type Index struct {
	counts map[pairKey]int
}

// Build counts every basket line of every transaction in a single pass.
func Build(txns []types.Transaction) *Index {
	return &Index{counts: countChunk(txns)}
}

// BuildParallel builds the same index as Build using up to workers goroutines.
// workers <= 1 falls back to Build.
func BuildParallel(txns []types.Transaction, workers int) *Index {
	if workers <= 1 || len(txns) < 2 {
		return Build(txns)
	}
	if workers > len(txns) {
		workers = len(txns)
	}

	chunkSize := (len(txns) + workers - 1) / workers
	partials := make([]map[pairKey]int, 0, workers)
	for start := 0; start < len(txns); start += chunkSize {
		partials = append(partials, nil)
	}

	var wg sync.WaitGroup
	for i := range partials {
		start := i * chunkSize
		end := start + chunkSize
		if end > len(txns) {
			end = len(txns)
		}

		wg.Add(1)
		go func(slot int, chunk []types.Transaction) {
			defer wg.Done()
			partials[slot] = countChunk(chunk)
		}(i, txns[start:end])
	}
	wg.Wait()

	merged := make(map[pairKey]int)
	for _, partial := range partials {
		for key, n := range partial {
			merged[key] += n
		}
	}

	return &Index{counts: merged}
}

// countChunk counts basket lines of transactions that carry a customer id.
// Transactions without one can never match a lookup.
func countChunk(txns []types.Transaction) map[pairKey]int {
	counts := make(map[pairKey]int)
	for _, txn := range txns {
		if !txn.HasCustomer() {
			continue
		}
		customerID := *txn.CustomerID
		for _, item := range txn.Basket {
			counts[pairKey{customerID: customerID, productID: item.ProductID}]++
		}
	}
	return counts
}

// Count returns the number of basket lines for the pair, 0 if never seen.
func (idx *Index) Count(customerID, productID string) int {
	return idx.counts[pairKey{customerID: customerID, productID: productID}]
}

// Pairs returns the number of distinct (customer, product) pairs observed.
func (idx *Index) Pairs() int {
	return len(idx.counts)
}

// NaiveCount rescans the full transaction history for one pair.
// It is the reference definition the index must agree with.
func NaiveCount(txns []types.Transaction, customerID, productID string) int {
	count := 0
	for _, txn := range txns {
		if !txn.HasCustomer() || *txn.CustomerID != customerID {
			continue
		}
		for _, item := range txn.Basket {
			if item.ProductID == productID {
				count++
			}
		}
	}
	return count
}
