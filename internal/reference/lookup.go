package reference

import "github.com/ginjaninja78/basket-enricher/internal/types"

// CustomerIndex answers loyalty-score lookups by customer id.
// On duplicate ids the first row in source order wins.
type CustomerIndex struct {
	scores map[string]int
}

// NewCustomerIndex builds the index in one pass over customers.
func NewCustomerIndex(customers []types.Customer) *CustomerIndex {
	idx := &CustomerIndex{scores: make(map[string]int, len(customers))}
	for _, c := range customers {
		if _, seen := idx.scores[c.CustomerID]; seen {
			continue
		}
		idx.scores[c.CustomerID] = c.LoyaltyScore
	}
	return idx
}

// LoyaltyScore returns the score of the first customer with the id, or 0.
func (idx *CustomerIndex) LoyaltyScore(customerID string) int {
	return idx.scores[customerID]
}

// Len returns the number of distinct customer ids.
func (idx *CustomerIndex) Len() int {
	return len(idx.scores)
}

// ProductIndex answers category lookups by product id.
// On duplicate ids the first row in source order wins.
type ProductIndex struct {
	categories map[string]string
}

// NewProductIndex builds the index in one pass over products.
func NewProductIndex(products []types.Product) *ProductIndex {
	idx := &ProductIndex{categories: make(map[string]string, len(products))}
	for _, p := range products {
		if _, seen := idx.categories[p.ProductID]; seen {
			continue
		}
		idx.categories[p.ProductID] = p.ProductCategory
	}
	return idx
}

// Category returns the category of the first product with the id, or "".
func (idx *ProductIndex) Category(productID string) string {
	return idx.categories[productID]
}

// Len returns the number of distinct product ids.
func (idx *ProductIndex) Len() int {
	return len(idx.categories)
}
