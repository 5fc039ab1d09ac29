package reference

import (
	"testing"

	"github.com/ginjaninja78/basket-enricher/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestCustomerIndex_FirstMatchWins(t *testing.T) {
	idx := NewCustomerIndex([]types.Customer{
		{CustomerID: "C1", LoyaltyScore: 5},
		{CustomerID: "C2", LoyaltyScore: 3},
		{CustomerID: "C1", LoyaltyScore: 9},
	})

	assert.Equal(t, 5, idx.LoyaltyScore("C1"))
	assert.Equal(t, 3, idx.LoyaltyScore("C2"))
	assert.Equal(t, 0, idx.LoyaltyScore("C9"))
	assert.Equal(t, 2, idx.Len())
}

func TestProductIndex_FirstMatchWins(t *testing.T) {
	idx := NewProductIndex([]types.Product{
		{ProductID: "P1", ProductCategory: "Toys"},
		{ProductID: "P1", ProductCategory: "Garden"},
	})

	assert.Equal(t, "Toys", idx.Category("P1"))
	assert.Equal(t, "", idx.Category("P9"))
	assert.Equal(t, 1, idx.Len())
}

func TestIndexes_Empty(t *testing.T) {
	assert.Equal(t, 0, NewCustomerIndex(nil).LoyaltyScore("C1"))
	assert.Equal(t, "", NewProductIndex(nil).Category("P1"))
}
