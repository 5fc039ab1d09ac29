package reference

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ginjaninja78/basket-enricher/internal/types"
	"github.com/ginjaninja78/basket-enricher/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadCustomers(t *testing.T) {
	path := writeTempFile(t, "customers.csv", "customer_id,loyalty_score\nC1,5\nC2,3\nC1,9\n")

	customers, err := LoadCustomers(path, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []types.Customer{
		{CustomerID: "C1", LoyaltyScore: 5},
		{CustomerID: "C2", LoyaltyScore: 3},
		{CustomerID: "C1", LoyaltyScore: 9},
	}, customers)
}

func TestLoadCustomers_ExtraColumnsIgnored(t *testing.T) {
	path := writeTempFile(t, "customers.csv", "segment,customer_id,loyalty_score\ngold,C1,5\n")

	customers, err := LoadCustomers(path, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []types.Customer{{CustomerID: "C1", LoyaltyScore: 5}}, customers)
}

func TestLoadCustomers_Failures(t *testing.T) {
	tests := []struct {
		name    string
		content string
		rule    string
	}{
		{"non-integer score", "customer_id,loyalty_score\nC1,high\n", validation.RuleInteger},
		{"empty score", "customer_id,loyalty_score\nC1,\n", validation.RuleInteger},
		{"missing column", "customer_id\nC1\n", validation.RuleRequiredColumn},
		{"short row", "customer_id,loyalty_score\nC1\n", validation.RuleRequiredField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempFile(t, "customers.csv", tt.content)

			_, err := LoadCustomers(path, DefaultOptions())
			require.Error(t, err)

			var ve *validation.ValidationError
			require.True(t, errors.As(err, &ve), "expected a validation error, got %v", err)
			assert.Equal(t, tt.rule, ve.Rule)
		})
	}
}

func TestLoadCustomers_NoDataRows(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"header only", "customer_id,loyalty_score\n"},
		{"header only without required column", "customer_id\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempFile(t, "customers.csv", tt.content)

			customers, err := LoadCustomers(path, DefaultOptions())
			require.NoError(t, err)
			assert.NotNil(t, customers)
			assert.Empty(t, customers)
		})
	}
}

func TestLoadCustomers_MissingFile(t *testing.T) {
	_, err := LoadCustomers(filepath.Join(t.TempDir(), "missing.csv"), DefaultOptions())
	assert.Error(t, err)
}

func TestLoadProducts(t *testing.T) {
	path := writeTempFile(t, "products.csv", "product_id,product_category\nP1,Toys\nP2,\n")

	products, err := LoadProducts(path, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []types.Product{
		{ProductID: "P1", ProductCategory: "Toys"},
		{ProductID: "P2", ProductCategory: ""},
	}, products)
}

func TestLoadProducts_NoDataRows(t *testing.T) {
	for _, content := range []string{"", "product_id,product_category\n", "sku\n"} {
		path := writeTempFile(t, "products.csv", content)

		products, err := LoadProducts(path, DefaultOptions())
		require.NoError(t, err, "content %q", content)
		assert.Empty(t, products)
	}
}

func TestLoadProducts_EmptySheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	path := filepath.Join(t.TempDir(), "products.xlsx")
	require.NoError(t, f.SaveAs(path))

	products, err := LoadProducts(path, DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestLoadProducts_MissingColumn(t *testing.T) {
	path := writeTempFile(t, "products.csv", "product_id,category\nP1,Toys\n")

	_, err := LoadProducts(path, DefaultOptions())
	var ve *validation.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, ColumnProductCategory, ve.Field)
}

func TestLoadProducts_Delimiter(t *testing.T) {
	path := writeTempFile(t, "products.csv", "product_id|product_category\nP1|Toys\n")

	opts := DefaultOptions()
	opts.CSV.Delimiter = "|"

	products, err := LoadProducts(path, opts)
	require.NoError(t, err)
	assert.Equal(t, []types.Product{{ProductID: "P1", ProductCategory: "Toys"}}, products)
}

func TestLoadProducts_XLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"product_id", "product_category"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"P1", "Toys"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"P2", "Garden"}))

	path := filepath.Join(t.TempDir(), "products.xlsx")
	require.NoError(t, f.SaveAs(path))

	products, err := LoadProducts(path, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []types.Product{
		{ProductID: "P1", ProductCategory: "Toys"},
		{ProductID: "P2", ProductCategory: "Garden"},
	}, products)
}
